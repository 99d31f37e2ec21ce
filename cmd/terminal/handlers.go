package main

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/pemafoods/pdv/internal/cart"
	"github.com/pemafoods/pdv/internal/catalog"
	"github.com/pemafoods/pdv/internal/checkout"
	"github.com/pemafoods/pdv/internal/clock"
	"github.com/pemafoods/pdv/internal/history"
	"github.com/pemafoods/pdv/internal/payables"
	"github.com/pemafoods/pdv/internal/sales"
	"github.com/pemafoods/pdv/internal/suggest"
	"github.com/pemafoods/pdv/internal/user"
)

// deps is everything the terminal session is built from at login time.
type deps struct {
	catalog  catalog.Repository
	users    user.Repository
	orders   sales.Store
	payables payables.Repository
	history  history.Store
	rec      suggest.Recommender
	events   checkout.Publisher
	clk      clock.Clock

	debounce  time.Duration
	cardDelay time.Duration
}

// session is the one interactive terminal session. gin serves requests
// concurrently, so the single-thread model the core assumes is restored
// with this lock.
type session struct {
	mu       sync.Mutex
	user     *user.User
	cart     *cart.Cart
	co       *checkout.Coordinator
	pipeline *suggest.Pipeline
}

func (s *session) active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// roleAllows adapts a role capability to the httpx.RequireRole gate.
func (s *session) roleAllows(can func(user.Role) bool) func() bool {
	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.user != nil && can(s.user.Role)
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func loginHandler(d deps, sess *session) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in loginRequest
		if err := c.ShouldBindJSON(&in); err != nil || in.Username == "" || in.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
			return
		}
		u, err := d.users.GetByUsername(c.Request.Context(), in.Username)
		if err != nil || !user.CheckPassword(u.PasswordHash, in.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		sess.mu.Lock()
		defer sess.mu.Unlock()
		if sess.pipeline != nil {
			sess.pipeline.Close()
		}
		sess.user = u
		sess.cart = cart.New()
		sess.pipeline = suggest.NewPipeline(d.rec, d.catalog, d.history, d.debounce)
		sess.cart.OnChange(sess.pipeline.CartChanged)
		sess.co = checkout.NewCoordinator(sess.cart, d.clk, d.orders, d.history, d.events, u)

		c.JSON(http.StatusOK, gin.H{
			"user":                     u,
			"requires_location_choice": user.RequiresLocationChoice(u),
		})
	}
}

//
// ----- catalog -----
//

func listProductsHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		onlyActive := c.Query("all") == ""
		items, err := repo.List(c.Request.Context(), onlyActive)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
			return
		}
		if items == nil {
			items = []catalog.Product{}
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

func saveProductHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.SaveProductRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if code := c.Param("code"); code != "" {
			in.Code = code
		}
		price, err := decimal.NewFromString(in.Price)
		if in.Code == "" || in.Description == "" || err != nil || price.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "code, description and a non-negative price are required"})
			return
		}
		active := true
		if in.Active != nil {
			active = *in.Active
		}
		p := &catalog.Product{
			Code:        in.Code,
			Category:    in.Category,
			Description: in.Description,
			Price:       price,
			Active:      active,
			ImageURL:    in.ImageURL,
		}
		if err := repo.Upsert(c.Request.Context(), p); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func deleteProductHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("code"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

//
// ----- cart -----
//

func orderView(s *session) gin.H {
	return gin.H{
		"items": s.cart.Items(),
		"total": s.cart.Total(),
		"state": s.co.State(),
	}
}

func getOrderHandler(sess *session) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess.mu.Lock()
		defer sess.mu.Unlock()
		c.JSON(http.StatusOK, orderView(sess))
	}
}

func addItemHandler(repo catalog.Repository, sess *session) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Code string `json:"code"`
		}
		if err := c.ShouldBindJSON(&in); err != nil || in.Code == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
			return
		}
		p, err := repo.GetByCode(c.Request.Context(), in.Code)
		if err != nil || !p.Active {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		sess.mu.Lock()
		defer sess.mu.Unlock()
		sess.cart.AddItem(*p)
		c.JSON(http.StatusOK, orderView(sess))
	}
}

func setQuantityHandler(sess *session) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Quantity *int `json:"quantity"`
		}
		if err := c.ShouldBindJSON(&in); err != nil || in.Quantity == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
			return
		}
		sess.mu.Lock()
		defer sess.mu.Unlock()
		sess.cart.SetQuantity(c.Param("code"), *in.Quantity)
		c.JSON(http.StatusOK, orderView(sess))
	}
}

//
// ----- suggestion -----
//

func suggestionHandler(sess *session) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess.mu.Lock()
		p := sess.pipeline
		sess.mu.Unlock()
		cur, fetching := p.Current()
		c.JSON(http.StatusOK, gin.H{"suggestion": cur, "fetching": fetching})
	}
}

//
// ----- checkout -----
//

func checkoutStatus(err error) int {
	switch {
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrNoLocationSelected),
		errors.Is(err, checkout.ErrNoActiveCheckout),
		errors.Is(err, checkout.ErrCheckoutActive),
		errors.Is(err, checkout.ErrProcessing):
		return http.StatusConflict
	case errors.Is(err, checkout.ErrInsufficientPayment),
		errors.Is(err, checkout.ErrInvalidPaymentMethod):
		return http.StatusBadRequest
	case errors.Is(err, checkout.ErrDateOverrideNotAllowed):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func beginCheckoutHandler(sess *session) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess.mu.Lock()
		defer sess.mu.Unlock()
		if err := sess.co.Begin(); err != nil {
			c.JSON(checkoutStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"state":              sess.co.State(),
			"location":           sess.co.Location(),
			"locations":          sess.user.Locations,
			"total":              sess.cart.Total(),
			"pix_key_configured": sess.co.PixKeyConfigured(),
		})
	}
}

func selectLocationHandler(sess *session) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Location string `json:"location"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		sess.mu.Lock()
		defer sess.mu.Unlock()
		if err := sess.co.SelectLocation(in.Location); err != nil {
			c.JSON(checkoutStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"state": sess.co.State(), "location": sess.co.Location()})
	}
}

func saleDateHandler(sess *session) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Date string `json:"date"` // YYYY-MM-DD
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		d, err := time.Parse("2006-01-02", in.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		sess.mu.Lock()
		defer sess.mu.Unlock()
		if err := sess.co.OverrideSaleDate(d); err != nil {
			c.JSON(checkoutStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"sale_date": in.Date})
	}
}

type confirmRequest struct {
	Method      string `json:"method"`
	AmountGiven string `json:"amount_given"`
}

func confirmPaymentHandler(sess *session, cardDelay time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in confirmRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		method := sales.PaymentMethod(in.Method)

		var given *decimal.Decimal
		if in.AmountGiven != "" {
			d, err := decimal.NewFromString(in.AmountGiven)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount_given"})
				return
			}
			given = &d
		}

		sess.mu.Lock()
		defer sess.mu.Unlock()

		// First card confirmation arms the terminal window; the client
		// polls by re-confirming until the window has elapsed.
		if method == sales.MethodCard && cardDelay > 0 &&
			sess.co.State() == checkout.StatePaymentPending && !sess.co.CardDelayArmed() {
			sess.co.ArmCardDelay(cardDelay)
			c.JSON(http.StatusAccepted, gin.H{"state": sess.co.State(), "processing": true})
			return
		}

		order, err := sess.co.ConfirmPayment(c.Request.Context(), method, given)
		if err != nil {
			c.JSON(checkoutStatus(err), gin.H{"error": err.Error()})
			return
		}
		if order == nil {
			c.JSON(http.StatusAccepted, gin.H{"state": sess.co.State(), "processing": true})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"order": order, "state": sess.co.State()})
	}
}

func cancelCheckoutHandler(sess *session) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess.mu.Lock()
		defer sess.mu.Unlock()
		if err := sess.co.Cancel(); err != nil {
			c.JSON(checkoutStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"state": sess.co.State()})
	}
}

//
// ----- payables -----
//

func listPayablesHandler(repo payables.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := payables.Status(c.Query("status"))
		if status != "" && !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be pending or paid"})
			return
		}
		items, err := repo.List(c.Request.Context(), status)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
			return
		}
		if items == nil {
			items = []payables.Account{}
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

func savePayableHandler(repo payables.Repository, clk clock.Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in payables.SaveAccountRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		amount, err := decimal.NewFromString(in.Amount)
		if in.Description == "" || err != nil || !amount.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "description and a positive amount are required"})
			return
		}
		if _, err := time.Parse("2006-01-02", in.DueDate); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "due_date must be YYYY-MM-DD"})
			return
		}

		a := &payables.Account{
			Description: in.Description,
			Amount:      amount,
			DueDate:     in.DueDate,
			Status:      payables.StatusPending,
		}
		if id := c.Param("id"); id != "" {
			a.ID = id
			ok, err := repo.Update(c.Request.Context(), a)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
				return
			}
			if !ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			// Status is untouched by an edit, so it is not echoed back.
			c.JSON(http.StatusOK, gin.H{
				"id":          a.ID,
				"description": a.Description,
				"amount":      a.Amount,
				"due_date":    a.DueDate,
			})
			return
		}

		a.ID = clk.NewID()
		if err := repo.Create(c.Request.Context(), a); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
			return
		}
		c.JSON(http.StatusCreated, a)
	}
}

func payPayableHandler(repo payables.Repository, clk clock.Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		paid := clk.Now().Format("2006-01-02")
		ok, err := repo.MarkPaid(c.Request.Context(), c.Param("id"), paid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "status": payables.StatusPaid, "paid_date": paid})
	}
}

func deletePayableHandler(repo payables.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

//
// ----- users -----
//

func listUsersHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := repo.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
			return
		}
		if items == nil {
			items = []user.User{}
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

func saveUserHandler(repo user.Repository, clk clock.Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in user.SaveUserRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if username := c.Param("username"); username != "" {
			in.Username = username
		}
		if in.Username == "" || !user.ValidRole(in.Role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and a valid role are required"})
			return
		}
		// Creation needs a password; an edit without one keeps the old.
		if in.Password == "" && c.Request.Method == http.MethodPost {
			c.JSON(http.StatusBadRequest, gin.H{"error": "password is required"})
			return
		}

		u := &user.User{
			ID:        clk.NewID(), // kept only when the username is new
			Username:  in.Username,
			Role:      in.Role,
			Locations: in.Locations,
			PixKey:    in.PixKey,
		}
		if in.Password != "" {
			h, err := user.HashPassword(in.Password)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
				return
			}
			u.PasswordHash = h
		}
		if err := repo.Upsert(c.Request.Context(), u); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
			return
		}
		// The id is assigned on first insert only, so it is not echoed.
		c.JSON(http.StatusOK, gin.H{
			"username":  u.Username,
			"role":      u.Role,
			"locations": u.Locations,
			"pix_key":   u.PixKey,
		})
	}
}

func deleteUserHandler(repo user.Repository, sess *session) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.Param("username")

		sess.mu.Lock()
		self := sess.user != nil && sess.user.Username == username
		sess.mu.Unlock()
		if self {
			c.JSON(http.StatusConflict, gin.H{"error": "cannot delete the logged-in user"})
			return
		}

		ok, err := repo.Delete(c.Request.Context(), username)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

//
// ----- reports -----
//

func reportsHandler(store sales.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rng *sales.DateRange
		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
				return
			}
			rng = &sales.DateRange{From: from}
			if toStr := c.Query("to"); toStr != "" {
				to, err := time.Parse("2006-01-02", toStr)
				if err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
					return
				}
				rng.To = to
			}
		}

		all, err := store.ListAll(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "load failed"})
			return
		}
		filtered := sales.FilterByRange(all, rng)

		// Order history table shows newest first.
		recent := make([]sales.CompletedOrder, len(filtered))
		for i, o := range filtered {
			recent[len(filtered)-1-i] = o
		}

		c.JSON(http.StatusOK, gin.H{
			"by_day":       sales.ByDay(filtered),
			"by_location":  sales.ByLocation(filtered),
			"top_products": sales.TopProducts(filtered, 10),
			"orders":       recent,
		})
	}
}
