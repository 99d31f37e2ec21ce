package sales

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pemafoods/pdv/internal/catalog"
)

type PaymentMethod string

const (
	MethodCash PaymentMethod = "cash"
	MethodPix  PaymentMethod = "pix"
	MethodCard PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodPix, MethodCard:
		return true
	}
	return false
}

// Item is a snapshot line: the product is copied at commit time, so later
// catalog edits never rewrite a sold order.
type Item struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// CompletedOrder is created exactly once per successful checkout and is
// immutable afterwards.
type CompletedOrder struct {
	ID            string          `json:"id"`
	Date          time.Time       `json:"date"`
	Items         []Item          `json:"items"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	// Cash only.
	AmountGiven *decimal.Decimal `json:"amount_given,omitempty"`
	Change      *decimal.Decimal `json:"change,omitempty"`
	Location    string           `json:"location"`
}

// DateRange is an inclusive calendar-day range. A zero To means the range
// is the single day of From.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}
