// Package events publishes domain events (sale submitted, stock low) to a
// message broker.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	TypeSaleSubmitted = "sale.submitted"
	TypeSaleCancelled = "sale.cancelled"
	TypeStockLow      = "stock.low"
)

// Event is the envelope every message is sent in.
type Event struct {
	ID         uuid.UUID       `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// NewEvent wraps payload in an envelope.
func NewEvent(eventType string, payload interface{}) (Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    body,
	}, nil
}

type SaleSubmitted struct {
	SaleID     uuid.UUID `json:"sale_id"`
	InvoiceNo  string    `json:"invoice_no"`
	GrandTotal float64   `json:"grand_total"`
	DueAmount  float64   `json:"due_amount"`
	Items      int       `json:"items"`
}

type SaleCancelled struct {
	SaleID    uuid.UUID `json:"sale_id"`
	InvoiceNo string    `json:"invoice_no"`
	Items     int       `json:"items"`
}

type StockLow struct {
	MedicineID    uuid.UUID `json:"medicine_id"`
	Name          string    `json:"name"`
	Quantity      int       `json:"quantity"`
	QuantityAlert int       `json:"quantity_alert"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

func (NoopPublisher) Close() error { return nil }
