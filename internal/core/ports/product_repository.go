package ports

import (
	"context"

	"github.com/shopverse/storefront/internal/core/domain"
)

// ProductFilter carries the catalog query parameters after validation.
// Nil price bounds mean "not given". Offset/Limit are absolute, already
// derived from page number and size.
type ProductFilter struct {
	Search   string
	Category string
	MinPrice *float64
	MaxPrice *float64
	Offset   int64
	Limit    int64
}

// ProductRepository defines catalog persistence.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// FindByIDs returns the subset of requested products that still exist,
	// keyed by id. Missing ids are simply absent from the map.
	FindByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error)
	// Search returns one page of products plus the total match count.
	// Ordering is deterministic across pages.
	Search(ctx context.Context, filter ProductFilter) ([]domain.Product, int64, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]string, error)
}
