package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the possible states of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
)

// OrderItem is one line of an order. ProductName and UnitPrice are
// snapshots taken when the line was added, so order totals are never
// recomputed from live product prices and completed orders survive
// product deletion.
type OrderItem struct {
	ProductID   string  `json:"product_id" validate:"required"`
	ProductName string  `json:"product_name" validate:"required"`
	Quantity    int     `json:"quantity" validate:"gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
}

// LineTotal returns the item's contribution to the order total.
func (it OrderItem) LineTotal() float64 {
	return it.UnitPrice * float64(it.Quantity)
}

// Order represents a customer order. Status moves pending -> completed
// exactly once; CompletedAt is set on that transition and nil before it.
type Order struct {
	ID           string      `json:"id" validate:"required"`
	CustomerName string      `json:"customer_name" validate:"required"`
	Items        []OrderItem `json:"items" validate:"min=1,dive"`
	Total        float64     `json:"total" validate:"gte=0"`
	Status       OrderStatus `json:"status" validate:"required,oneof=pending completed"`
	CreatedAt    time.Time   `json:"created_at"`
	CompletedAt  *time.Time  `json:"completed_at,omitempty"`
}

// NewOrder builds a validated pending order with a fresh id. The total
// is computed from the items' snapshot prices.
func NewOrder(customerName string, items []OrderItem, createdAt time.Time) (*Order, error) {
	o := &Order{
		ID:           uuid.NewString(),
		CustomerName: customerName,
		Items:        items,
		Status:       OrderStatusPending,
		CreatedAt:    createdAt,
	}
	for _, it := range items {
		o.Total += it.LineTotal()
	}
	if err := checkStruct(o); err != nil {
		return nil, err
	}
	return o, nil
}
