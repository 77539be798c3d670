package ports

import (
	"context"
	"time"
)

// OrderItemInput is one requested line of a new order. UnitPrice is the
// price the client saw; the service treats it as advisory and charges the
// authoritative catalog price.
type OrderItemInput struct {
	ProductID string
	Quantity  int
	UnitPrice float64
}

// PlaceOrderInput carries everything needed to place an order. UserID comes
// from the caller's verified token, never from the request body.
type PlaceOrderInput struct {
	UserID         string
	Items          []OrderItemInput
	DeclaredTotal  float64
	IdempotencyKey string
}

// PlaceOrderResult is returned after placing an order.
type PlaceOrderResult struct {
	OrderID     string
	Status      string
	TotalAmount float64
	CreatedAt   time.Time
	// AlreadyExisted is true when the Idempotency-Key matched a previous order.
	AlreadyExisted bool
}

// OrderLine is a line item with its product name resolved for display.
type OrderLine struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   float64
}

// OrderDetail is the full order view with resolved line items.
type OrderDetail struct {
	ID           string
	Status       string
	TotalAmount  float64
	CreatedAt    time.Time
	CustomerName string
	Items        []OrderLine
}

// OrderSummary is the Admin listing view: order header plus owner identity.
type OrderSummary struct {
	ID            string
	Status        string
	TotalAmount   float64
	PaymentID     string
	CreatedAt     time.Time
	CustomerName  string
	CustomerEmail string
}

// OrderService defines order placement and retrieval use cases.
type OrderService interface {
	Place(ctx context.Context, input PlaceOrderInput) (*PlaceOrderResult, error)
	// Get enforces the ownership policy: an order is visible to its owner
	// and to Admins only.
	Get(ctx context.Context, orderID string, caller TokenClaims) (*OrderDetail, error)
	ListMine(ctx context.Context, userID string) ([]OrderDetail, error)
	ListAll(ctx context.Context) ([]OrderSummary, error)
}
