// Package checkout sequences location choice, payment confirmation and
// the commit of a completed sale. Every dialog in the terminal UI is a
// thin presenter over one of these states.
package checkout

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pemafoods/pdv/internal/cart"
	"github.com/pemafoods/pdv/internal/clock"
	"github.com/pemafoods/pdv/internal/history"
	"github.com/pemafoods/pdv/internal/sales"
	"github.com/pemafoods/pdv/internal/user"
)

// Publisher receives committed sales; nil disables publishing.
type Publisher interface {
	SaleCompleted(o *sales.CompletedOrder)
}

type Coordinator struct {
	cart    *cart.Cart
	clk     clock.Clock
	store   sales.Store
	history history.Store
	events  Publisher

	state       State
	user        *user.User
	location    string // survives commits: chosen once per session
	saleDate    time.Time
	cardReadyAt time.Time
}

// NewCoordinator binds the flow to one session user. The terminal is
// single-session, so callers serialize access (the HTTP layer holds one
// coordinator behind its own lock).
func NewCoordinator(c *cart.Cart, clk clock.Clock, store sales.Store, hist history.Store, events Publisher, u *user.User) *Coordinator {
	co := &Coordinator{
		cart:    c,
		clk:     clk,
		store:   store,
		history: hist,
		events:  events,
		state:   StateIdle,
		user:    u,
	}
	if !user.RequiresLocationChoice(u) {
		co.location = user.DefaultLocation(u)
	}
	return co
}

func (co *Coordinator) State() State     { return co.state }
func (co *Coordinator) Location() string { return co.location }

// PixKeyConfigured backs the advisory shown before a PIX confirmation.
// It never blocks checkout: payment may settle out of band.
func (co *Coordinator) PixKeyConfigured() bool {
	return co.user != nil && co.user.PixKey != ""
}

func (co *Coordinator) transition(to State) error {
	if !CanTransition(co.state, to) {
		return fmt.Errorf("checkout: illegal transition %s -> %s", co.state, to)
	}
	co.state = to
	return nil
}

// Begin enters the checkout flow. With an empty cart it fails and the
// coordinator stays Idle. A required-but-unchosen location parks the flow
// in LocationPending; otherwise payment can be confirmed right away.
func (co *Coordinator) Begin() error {
	if co.state != StateIdle {
		return ErrCheckoutActive
	}
	if co.cart.Len() == 0 {
		return ErrEmptyCart
	}
	if user.RequiresLocationChoice(co.user) && co.location == "" {
		return co.transition(StateLocationPending)
	}
	return co.transition(StatePaymentPending)
}

// SelectLocation resolves LocationPending. Validating the name against
// the user's configured set is the selection dialog's job; the
// coordinator only refuses an empty choice.
func (co *Coordinator) SelectLocation(name string) error {
	if co.state != StateLocationPending {
		return ErrNoActiveCheckout
	}
	if name == "" {
		return ErrNoLocationSelected
	}
	co.location = name
	return co.transition(StatePaymentPending)
}

// OverrideSaleDate substitutes the given date for "now" on the next
// commit. Only roles with the capability may backdate.
func (co *Coordinator) OverrideSaleDate(d time.Time) error {
	if co.user == nil || !user.CanOverrideSaleDate(co.user.Role) {
		return ErrDateOverrideNotAllowed
	}
	co.saleDate = d
	return nil
}

// ArmCardDelay opens the simulated card-terminal window. Until it
// elapses, ConfirmPayment(card) is a disabled action, not an error.
func (co *Coordinator) ArmCardDelay(d time.Duration) {
	if co.state == StatePaymentPending && d > 0 {
		co.cardReadyAt = co.clk.Now().Add(d)
	}
}

// CardDelayArmed reports whether a card window is open or pending; it is
// reset by a commit or a cancellation.
func (co *Coordinator) CardDelayArmed() bool { return !co.cardReadyAt.IsZero() }

// ConfirmPayment runs PaymentPending -> Processing -> Committed and
// resets to Idle. The returned order is nil without error only for the
// card no-op inside the armed delay window.
func (co *Coordinator) ConfirmPayment(ctx context.Context, method sales.PaymentMethod, amountGiven *decimal.Decimal) (*sales.CompletedOrder, error) {
	switch co.state {
	case StateLocationPending:
		return nil, ErrNoLocationSelected
	case StatePaymentPending:
	default:
		return nil, ErrNoActiveCheckout
	}
	if !method.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	total := co.cart.Total()
	var given, change *decimal.Decimal
	switch method {
	case sales.MethodCash:
		if amountGiven == nil || amountGiven.LessThan(total) {
			return nil, ErrInsufficientPayment
		}
		g := *amountGiven
		c := g.Sub(total)
		given, change = &g, &c
	case sales.MethodCard:
		if !co.cardReadyAt.IsZero() && co.clk.Now().Before(co.cardReadyAt) {
			return nil, nil // card terminal still processing; confirm is disabled
		}
	}

	if err := co.transition(StateProcessing); err != nil {
		return nil, err
	}

	date := co.clk.Now()
	if !co.saleDate.IsZero() {
		date = co.saleDate
	}
	items := co.cart.Items()
	snapshot := make([]sales.Item, len(items))
	for i, it := range items {
		snapshot[i] = sales.Item{Product: it.Product, Quantity: it.Quantity}
	}
	order := &sales.CompletedOrder{
		ID:            co.clk.NewID(),
		Date:          date,
		Items:         snapshot,
		Total:         total,
		PaymentMethod: method,
		AmountGiven:   given,
		Change:        change,
		Location:      co.location,
	}

	if err := co.store.Append(ctx, order); err != nil {
		// Commit failed: back to the dialog so the cashier can retry.
		_ = co.transition(StatePaymentPending)
		return nil, err
	}

	codes := make([]string, len(snapshot))
	for i, it := range snapshot {
		codes[i] = it.Product.Code
	}
	// History only feeds suggestions; a failure must not undo the sale.
	if err := co.history.Append(ctx, codes); err != nil {
		log.Printf("[checkout] order history append failed: %v", err)
	}
	if co.events != nil {
		co.events.SaleCompleted(order)
	}

	co.cart.Clear()
	co.saleDate = time.Time{}
	co.cardReadyAt = time.Time{}
	_ = co.transition(StateCommitted)
	_ = co.transition(StateIdle)
	return order, nil
}

// Cancel abandons the flow without side effects; the cart keeps its
// items. Only a commit in flight cannot be abandoned.
func (co *Coordinator) Cancel() error {
	switch co.state {
	case StateProcessing:
		return ErrProcessing
	case StateIdle:
		return nil
	}
	co.cardReadyAt = time.Time{}
	return co.transition(StateIdle)
}
