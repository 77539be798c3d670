package domain

import (
	"errors"
	"time"
)

var ErrProductNotFound = errors.New("product not found")

// ErrInvalidInput marks a request that fails validation before any query or
// write. Wrap it with context: fmt.Errorf("%w: page size must be positive", ErrInvalidInput).
var ErrInvalidInput = errors.New("invalid input")

// Product is a catalog item. Price and stock are non-negative; Category is
// free text. ImageURL points at a statically served upload or an external URL.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	StockQuantity int       `json:"stockQuantity"`
	Category      string    `json:"category"`
	ImageURL      string    `json:"imageUrl"`
	CreatedAt     time.Time `json:"createdAt"`
}
