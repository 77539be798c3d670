package ports

import (
	"context"

	"github.com/shopverse/storefront/internal/core/domain"
)

// OrderRepository defines order persistence. Create must write the order and
// its embedded line items as a single atomic commit.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (string, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	// FindByUserID returns the user's orders newest-first.
	FindByUserID(ctx context.Context, userID string) ([]domain.Order, error)
	// FindAll returns every order newest-first.
	FindAll(ctx context.Context) ([]domain.Order, error)
}

// OrderIdempotencyStore remembers which order an idempotency key produced so
// that a replayed request returns the original order without side effects.
type OrderIdempotencyStore interface {
	// Lookup returns the order id previously recorded for the key, or ""
	// when the key has not been seen.
	Lookup(ctx context.Context, userID, key string) (string, error)
	Remember(ctx context.Context, userID, key, orderID string) error
}
