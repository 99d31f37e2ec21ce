package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/pemafoods/pdv/internal/catalog"
	"github.com/pemafoods/pdv/internal/history"
	"github.com/pemafoods/pdv/internal/payables"
	"github.com/pemafoods/pdv/internal/sales"
	"github.com/pemafoods/pdv/internal/suggest"
	"github.com/pemafoods/pdv/internal/user"
)

//
// ---------- STUBS & FAKES ----------
//

// stubCatalog implements catalog.Repository in memory.
type stubCatalog struct {
	mu       sync.Mutex
	products map[string]catalog.Product
}

func newStubCatalog(products ...catalog.Product) *stubCatalog {
	s := &stubCatalog{products: map[string]catalog.Product{}}
	for _, p := range products {
		s.products[p.Code] = p
	}
	return s
}

func (s *stubCatalog) List(ctx context.Context, onlyActive bool) ([]catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []catalog.Product
	for _, p := range s.products {
		if onlyActive && !p.Active {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *stubCatalog) GetByCode(ctx context.Context, code string) (*catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[code]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (s *stubCatalog) Upsert(ctx context.Context, p *catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.Code] = *p
	return nil
}

func (s *stubCatalog) Delete(ctx context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.products[code]
	delete(s.products, code)
	return ok, nil
}

// stubUsers implements user.Repository.
type stubUsers struct {
	mu     sync.Mutex
	byName map[string]*user.User
}

func (s *stubUsers) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byName[username]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *stubUsers) List(ctx context.Context) ([]user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []user.User
	for _, u := range s.byName {
		out = append(out, *u)
	}
	return out, nil
}

func (s *stubUsers) Upsert(ctx context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	if cur, ok := s.byName[u.Username]; ok {
		cp.ID = cur.ID
		if cp.PasswordHash == "" {
			cp.PasswordHash = cur.PasswordHash
		}
	}
	s.byName[u.Username] = &cp
	return nil
}

func (s *stubUsers) Delete(ctx context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byName[username]
	delete(s.byName, username)
	return ok, nil
}

// stubPayables implements payables.Repository in memory.
type stubPayables struct {
	mu       sync.Mutex
	accounts []payables.Account
}

func (s *stubPayables) List(ctx context.Context, status payables.Status) ([]payables.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []payables.Account
	for _, a := range s.accounts {
		if status != "" && a.Status != status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *stubPayables) Create(ctx context.Context, a *payables.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = append(s.accounts, *a)
	return nil
}

func (s *stubPayables) Update(ctx context.Context, a *payables.Account) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].ID == a.ID {
			s.accounts[i].Description = a.Description
			s.accounts[i].Amount = a.Amount
			s.accounts[i].DueDate = a.DueDate
			return true, nil
		}
	}
	return false, nil
}

func (s *stubPayables) MarkPaid(ctx context.Context, id, paidDate string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			s.accounts[i].Status = payables.StatusPaid
			s.accounts[i].PaidDate = paidDate
			return true, nil
		}
	}
	return false, nil
}

func (s *stubPayables) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// stubOrders implements sales.Store in memory.
type stubOrders struct {
	mu     sync.Mutex
	orders []sales.CompletedOrder
}

func (s *stubOrders) Append(ctx context.Context, o *sales.CompletedOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append(s.orders, *o)
	return nil
}

func (s *stubOrders) ListAll(ctx context.Context) ([]sales.CompletedOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sales.CompletedOrder(nil), s.orders...), nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
	ids int
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) NewID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids++
	return fmt.Sprintf("order-%d", f.ids)
}

func (f *fakeClock) advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

type fixedRecommender struct{ code string }

func (r *fixedRecommender) SuggestNext(ctx context.Context, current, hist []string) (suggest.Suggestion, error) {
	return suggest.Suggestion{ProductCode: r.code, Confidence: 0.9}, nil
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := user.HashPassword(plain)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func testProduct(code, price string) catalog.Product {
	return catalog.Product{
		Code:        code,
		Category:    "Lanches",
		Description: "test " + code,
		Price:       decimal.RequireFromString(price),
		Active:      true,
	}
}

type env struct {
	router *gin.Engine
	orders *stubOrders
	clk    *fakeClock
}

func newEnv(t *testing.T, u *user.User) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clk := &fakeClock{now: time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)}
	orders := &stubOrders{}
	d := deps{
		catalog:   newStubCatalog(testProduct("CQ", "19.90"), testProduct("B", "5.00")),
		users:     &stubUsers{byName: map[string]*user.User{u.Username: u}},
		orders:    orders,
		payables:  &stubPayables{},
		history:   history.NewMemory(),
		rec:       &fixedRecommender{code: "B"},
		clk:       clk,
		debounce:  5 * time.Millisecond,
		cardDelay: 500 * time.Millisecond,
	}
	return &env{router: buildRouter(d), orders: orders, clk: clk}
}

func (e *env) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *env) login(t *testing.T, username, password string) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/login", gin.H{"username": username, "password": password})
	if w.Code != http.StatusOK {
		t.Fatalf("login status=%d body=%s", w.Code, w.Body.String())
	}
}

func seller(t *testing.T, locations ...string) *user.User {
	return &user.User{
		ID:           "u1",
		Username:     "maria",
		PasswordHash: mustHash(t, "s3gr3do"),
		Role:         user.RoleSeller,
		Locations:    locations,
	}
}

//
// ---------- TESTS ----------
//

func TestRoutesRequireLogin(t *testing.T) {
	e := newEnv(t, seller(t, "Feira"))
	w := e.do(t, http.MethodGet, "/order", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, want 401", w.Code)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	e := newEnv(t, seller(t, "Feira"))
	w := e.do(t, http.MethodPost, "/login", gin.H{"username": "maria", "password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, want 401", w.Code)
	}
}

func TestCashSale_EndToEnd(t *testing.T) {
	e := newEnv(t, seller(t, "Feira"))
	e.login(t, "maria", "s3gr3do")

	if w := e.do(t, http.MethodPost, "/order/items", gin.H{"code": "CQ"}); w.Code != http.StatusOK {
		t.Fatalf("add item status=%d body=%s", w.Code, w.Body.String())
	}

	w := e.do(t, http.MethodPost, "/checkout", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("checkout status=%d body=%s", w.Code, w.Body.String())
	}

	// Not enough cash: inline error, dialog still open.
	w = e.do(t, http.MethodPost, "/checkout/confirm", gin.H{"method": "cash", "amount_given": "10.00"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("insufficient status=%d body=%s", w.Code, w.Body.String())
	}

	w = e.do(t, http.MethodPost, "/checkout/confirm", gin.H{"method": "cash", "amount_given": "20.00"})
	if w.Code != http.StatusCreated {
		t.Fatalf("confirm status=%d body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Order sales.CompletedOrder `json:"order"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if !out.Order.Change.Equal(decimal.RequireFromString("0.10")) {
		t.Fatalf("change=%s, want 0.10", out.Order.Change)
	}
	if out.Order.Location != "Feira" {
		t.Fatalf("location=%q, want auto-selected Feira", out.Order.Location)
	}

	// Cart is empty again.
	w = e.do(t, http.MethodGet, "/order", nil)
	var ov struct {
		Items []cartItemView `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &ov); err != nil {
		t.Fatal(err)
	}
	if len(ov.Items) != 0 {
		t.Fatalf("items after commit=%d, want 0", len(ov.Items))
	}
}

type cartItemView struct {
	Quantity int `json:"quantity"`
}

func TestCheckout_EmptyCartConflict(t *testing.T) {
	e := newEnv(t, seller(t, "Feira"))
	e.login(t, "maria", "s3gr3do")
	w := e.do(t, http.MethodPost, "/checkout", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("status=%d, want 409", w.Code)
	}
}

func TestCheckout_LocationChoiceFlow(t *testing.T) {
	e := newEnv(t, seller(t, "Feira", "Loja"))
	e.login(t, "maria", "s3gr3do")
	e.do(t, http.MethodPost, "/order/items", gin.H{"code": "B"})

	w := e.do(t, http.MethodPost, "/checkout", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("checkout status=%d", w.Code)
	}

	// Payment before a location is chosen is refused.
	w = e.do(t, http.MethodPost, "/checkout/confirm", gin.H{"method": "pix"})
	if w.Code != http.StatusConflict {
		t.Fatalf("forced confirm status=%d, want 409", w.Code)
	}

	w = e.do(t, http.MethodPost, "/checkout/location", gin.H{"location": "Loja"})
	if w.Code != http.StatusOK {
		t.Fatalf("select location status=%d body=%s", w.Code, w.Body.String())
	}
	w = e.do(t, http.MethodPost, "/checkout/confirm", gin.H{"method": "pix"})
	if w.Code != http.StatusCreated {
		t.Fatalf("confirm status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestCardConfirm_TwoPhase(t *testing.T) {
	e := newEnv(t, seller(t, "Feira"))
	e.login(t, "maria", "s3gr3do")
	e.do(t, http.MethodPost, "/order/items", gin.H{"code": "CQ"})
	e.do(t, http.MethodPost, "/checkout", nil)

	// First confirm arms the card-terminal window.
	w := e.do(t, http.MethodPost, "/checkout/confirm", gin.H{"method": "card"})
	if w.Code != http.StatusAccepted {
		t.Fatalf("arm status=%d, want 202", w.Code)
	}
	// Still inside the window: confirm stays a no-op.
	w = e.do(t, http.MethodPost, "/checkout/confirm", gin.H{"method": "card"})
	if w.Code != http.StatusAccepted {
		t.Fatalf("in-window status=%d, want 202", w.Code)
	}

	e.clk.advance(time.Second)
	w = e.do(t, http.MethodPost, "/checkout/confirm", gin.H{"method": "card"})
	if w.Code != http.StatusCreated {
		t.Fatalf("post-window status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestCancelKeepsCart(t *testing.T) {
	e := newEnv(t, seller(t, "Feira"))
	e.login(t, "maria", "s3gr3do")
	e.do(t, http.MethodPost, "/order/items", gin.H{"code": "CQ"})
	e.do(t, http.MethodPost, "/checkout", nil)

	if w := e.do(t, http.MethodPost, "/checkout/cancel", nil); w.Code != http.StatusOK {
		t.Fatalf("cancel status=%d", w.Code)
	}

	w := e.do(t, http.MethodGet, "/order", nil)
	var ov struct {
		Items []cartItemView `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &ov); err != nil {
		t.Fatal(err)
	}
	if len(ov.Items) != 1 {
		t.Fatalf("items after cancel=%d, want 1", len(ov.Items))
	}
}

func TestSaleDateOverride_ForbiddenForSeller(t *testing.T) {
	e := newEnv(t, seller(t, "Feira"))
	e.login(t, "maria", "s3gr3do")
	w := e.do(t, http.MethodPost, "/checkout/sale-date", gin.H{"date": "2024-03-01"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("status=%d, want 403", w.Code)
	}
}

func TestSaleDateOverride_ManagerBackdates(t *testing.T) {
	manager := seller(t, "Feira")
	manager.Role = user.RoleManager
	e := newEnv(t, manager)
	e.login(t, "maria", "s3gr3do")
	e.do(t, http.MethodPost, "/order/items", gin.H{"code": "B"})

	if w := e.do(t, http.MethodPost, "/checkout/sale-date", gin.H{"date": "2024-03-01"}); w.Code != http.StatusOK {
		t.Fatalf("override status=%d body=%s", w.Code, w.Body.String())
	}
	e.do(t, http.MethodPost, "/checkout", nil)
	w := e.do(t, http.MethodPost, "/checkout/confirm", gin.H{"method": "pix"})
	if w.Code != http.StatusCreated {
		t.Fatalf("confirm status=%d body=%s", w.Code, w.Body.String())
	}
	if got := e.orders.orders[0].Date.Format("2006-01-02"); got != "2024-03-01" {
		t.Fatalf("sale date=%s, want 2024-03-01", got)
	}
}

func TestSuggestionEndpoint(t *testing.T) {
	e := newEnv(t, seller(t, "Feira"))
	e.login(t, "maria", "s3gr3do")
	e.do(t, http.MethodPost, "/order/items", gin.H{"code": "CQ"})

	deadline := time.Now().Add(2 * time.Second)
	for {
		w := e.do(t, http.MethodGet, "/suggestion", nil)
		var out struct {
			Suggestion *struct {
				Product catalog.Product `json:"product"`
			} `json:"suggestion"`
			Fetching bool `json:"fetching"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatal(err)
		}
		if !out.Fetching {
			if out.Suggestion == nil || out.Suggestion.Product.Code != "B" {
				t.Fatalf("suggestion=%+v, want product B", out.Suggestion)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("suggestion never settled")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestReportsSummary(t *testing.T) {
	e := newEnv(t, seller(t, "Feira"))
	e.login(t, "maria", "s3gr3do")

	// Two sales on different days straight through the API.
	for _, code := range []string{"CQ", "B"} {
		e.do(t, http.MethodPost, "/order/items", gin.H{"code": code})
		e.do(t, http.MethodPost, "/checkout", nil)
		w := e.do(t, http.MethodPost, "/checkout/confirm", gin.H{"method": "pix"})
		if w.Code != http.StatusCreated {
			t.Fatalf("confirm status=%d body=%s", w.Code, w.Body.String())
		}
		e.clk.advance(24 * time.Hour)
	}

	w := e.do(t, http.MethodGet, "/reports/summary", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var out struct {
		ByDay []struct {
			Day   string          `json:"day"`
			Total decimal.Decimal `json:"total"`
		} `json:"by_day"`
		Orders []sales.CompletedOrder `json:"orders"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.ByDay) != 2 || out.ByDay[0].Day != "2024-03-10" {
		t.Fatalf("by_day=%+v", out.ByDay)
	}
	if len(out.Orders) != 2 || out.Orders[0].ID != "order-2" {
		t.Fatalf("orders should be newest first: %+v", out.Orders)
	}

	// One-day filter keeps only the first sale.
	w = e.do(t, http.MethodGet, "/reports/summary?from=2024-03-10", nil)
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Orders) != 1 || out.Orders[0].ID != "order-1" {
		t.Fatalf("filtered orders=%+v", out.Orders)
	}
}

func TestBackOffice_SellerForbidden(t *testing.T) {
	e := newEnv(t, seller(t, "Feira"))
	e.login(t, "maria", "s3gr3do")

	if w := e.do(t, http.MethodGet, "/payables", nil); w.Code != http.StatusForbidden {
		t.Fatalf("payables status=%d, want 403", w.Code)
	}
	if w := e.do(t, http.MethodGet, "/users", nil); w.Code != http.StatusForbidden {
		t.Fatalf("users status=%d, want 403", w.Code)
	}
}

func TestPayables_Lifecycle(t *testing.T) {
	manager := seller(t, "Feira")
	manager.Role = user.RoleManager
	e := newEnv(t, manager)
	e.login(t, "maria", "s3gr3do")

	w := e.do(t, http.MethodPost, "/payables", gin.H{
		"description": "Aluguel", "amount": "1200.00", "due_date": "2024-04-05",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", w.Code, w.Body.String())
	}
	var created payables.Account
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == "" || created.Status != payables.StatusPending {
		t.Fatalf("created=%+v, want pending with id", created)
	}

	w = e.do(t, http.MethodPost, "/payables", gin.H{
		"description": "Luz", "amount": "0", "due_date": "2024-04-10",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("zero amount status=%d, want 400", w.Code)
	}

	w = e.do(t, http.MethodPut, "/payables/"+created.ID, gin.H{
		"description": "Aluguel abril", "amount": "1300.00", "due_date": "2024-04-05",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update status=%d body=%s", w.Code, w.Body.String())
	}

	w = e.do(t, http.MethodPost, "/payables/"+created.ID+"/pay", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("pay status=%d body=%s", w.Code, w.Body.String())
	}

	var out struct {
		Items []payables.Account `json:"items"`
	}
	w = e.do(t, http.MethodGet, "/payables?status=pending", nil)
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Items) != 0 {
		t.Fatalf("pending after pay=%+v, want none", out.Items)
	}
	w = e.do(t, http.MethodGet, "/payables?status=paid", nil)
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Items) != 1 || out.Items[0].PaidDate != "2024-03-10" {
		t.Fatalf("paid list=%+v, want one paid on 2024-03-10", out.Items)
	}
	if out.Items[0].Description != "Aluguel abril" || !out.Items[0].Amount.Equal(decimal.RequireFromString("1300.00")) {
		t.Fatalf("edit not persisted: %+v", out.Items[0])
	}

	if w := e.do(t, http.MethodDelete, "/payables/"+created.ID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", w.Code)
	}
	if w := e.do(t, http.MethodDelete, "/payables/"+created.ID, nil); w.Code != http.StatusNotFound {
		t.Fatalf("second delete status=%d, want 404", w.Code)
	}
}

func TestUserManagement_AdminCRUD(t *testing.T) {
	admin := seller(t, "Feira")
	admin.Role = user.RoleAdmin
	e := newEnv(t, admin)
	e.login(t, "maria", "s3gr3do")

	w := e.do(t, http.MethodPost, "/users", gin.H{
		"username": "joao", "password": "abc123", "role": "vendedor", "locations": []string{"Loja"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create status=%d body=%s", w.Code, w.Body.String())
	}

	// Creation without a password is refused.
	w = e.do(t, http.MethodPost, "/users", gin.H{"username": "ana", "role": "vendedor"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("no password status=%d, want 400", w.Code)
	}

	// An edit without a password keeps the stored credentials.
	w = e.do(t, http.MethodPut, "/users/joao", gin.H{"role": "gerente", "locations": []string{"Loja"}})
	if w.Code != http.StatusOK {
		t.Fatalf("edit status=%d body=%s", w.Code, w.Body.String())
	}

	var out struct {
		Items []user.User `json:"items"`
	}
	w = e.do(t, http.MethodGet, "/users", nil)
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Items) != 2 {
		t.Fatalf("users=%+v, want maria and joao", out.Items)
	}

	if w := e.do(t, http.MethodDelete, "/users/maria", nil); w.Code != http.StatusConflict {
		t.Fatalf("self delete status=%d, want 409", w.Code)
	}
	if w := e.do(t, http.MethodDelete, "/users/joao", nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", w.Code)
	}
}

func TestProductUpsertAndDelete(t *testing.T) {
	e := newEnv(t, seller(t, "Feira"))
	e.login(t, "maria", "s3gr3do")

	w := e.do(t, http.MethodPost, "/products", gin.H{
		"code": "PC", "category": "Doces", "description": "Pudim", "price": "8.50",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("save status=%d body=%s", w.Code, w.Body.String())
	}

	w = e.do(t, http.MethodPost, "/products", gin.H{"code": "PC", "description": "Pudim", "price": "-1"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("negative price status=%d, want 400", w.Code)
	}

	if w := e.do(t, http.MethodDelete, "/products/PC", nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", w.Code)
	}
	if w := e.do(t, http.MethodDelete, "/products/PC", nil); w.Code != http.StatusNotFound {
		t.Fatalf("second delete status=%d, want 404", w.Code)
	}
}
