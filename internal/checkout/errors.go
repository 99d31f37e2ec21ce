package checkout

import "errors"

var (
	// ErrEmptyCart blocks checkout entry; the cashier must add items first.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrNoLocationSelected is returned when payment is forced while a
	// location choice is still required.
	ErrNoLocationSelected = errors.New("no location selected")
	// ErrInsufficientPayment is inline-correctable: the dialog stays open.
	ErrInsufficientPayment = errors.New("amount given is less than the total")
	// ErrNoActiveCheckout means the call arrived outside a checkout flow.
	ErrNoActiveCheckout = errors.New("no active checkout")
	// ErrCheckoutActive means Begin was called while a flow is underway.
	ErrCheckoutActive = errors.New("checkout already in progress")
	// ErrProcessing rejects cancellation while a commit is being written.
	ErrProcessing = errors.New("checkout is processing")
	// ErrDateOverrideNotAllowed gates the sale-date override capability.
	ErrDateOverrideNotAllowed = errors.New("role may not override the sale date")
	// ErrInvalidPaymentMethod rejects unknown method strings at the edge.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)
