// Package events streams committed sales to the backoffice. The terminal
// works fine without it; a nil producer disables publishing.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/pemafoods/pdv/internal/sales"
)

const (
	EventSaleCompleted = "SaleCompleted"

	TopicSaleCompleted = "sale.completed"
)

type Envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Producer     string          `json:"producer"`
	Payload      json.RawMessage `json:"payload"`
}

type SaleCompletedPayload struct {
	OrderID       string              `json:"order_id"`
	Date          time.Time           `json:"date"`
	Total         string              `json:"total"`
	PaymentMethod sales.PaymentMethod `json:"payment_method"`
	Location      string              `json:"location"`
	Items         []SaleItem          `json:"items"`
}

type SaleItem struct {
	ProductCode string `json:"product_code"`
	Quantity    int    `json:"quantity"`
}

func newSaleCompleted(o *sales.CompletedOrder) ([]byte, error) {
	items := make([]SaleItem, len(o.Items))
	for i, it := range o.Items {
		items[i] = SaleItem{ProductCode: it.Product.Code, Quantity: it.Quantity}
	}
	payload, err := json.Marshal(SaleCompletedPayload{
		OrderID:       o.ID,
		Date:          o.Date,
		Total:         o.Total.String(),
		PaymentMethod: o.PaymentMethod,
		Location:      o.Location,
		Items:         items,
	})
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{
		EventID:      uuid.NewString(),
		EventType:    EventSaleCompleted,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     "pdv-terminal",
		Payload:      payload,
	})
}

// Partition key = order id, so replays of one order keep their order.
func partitionKey(orderID string) []byte { return []byte(orderID) }
