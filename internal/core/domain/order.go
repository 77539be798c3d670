package domain

import (
	"errors"
	"time"
)

// OrderStatus is the lifecycle state of an order. Orders are created in
// StatusPlaced and no further transition is implemented.
type OrderStatus string

const StatusPlaced OrderStatus = "Placed"

// DeletedProductName is rendered for line items whose product was removed
// from the catalog after the order was placed.
const DeletedProductName = "(deleted product)"

var ErrOrderNotFound = errors.New("order not found")
var ErrEmptyOrder = errors.New("order items cannot be empty")
var ErrForbidden = errors.New("access forbidden")

// OrderItem is one product+quantity line within an order. UnitPrice is the
// catalog price captured at placement time; later product price changes must
// not affect historical orders.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Order is owned by exactly one user. Items are embedded so that an order
// and its line items are written in a single atomic commit.
type Order struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	Status      OrderStatus `json:"status"`
	TotalAmount float64     `json:"total_amount"`
	PaymentID   string      `json:"payment_id,omitempty"`
	Items       []OrderItem `json:"items"`
	CreatedAt   time.Time   `json:"created_at"`
}
