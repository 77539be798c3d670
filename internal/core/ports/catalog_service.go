package ports

import (
	"context"
	"io"

	"github.com/shopverse/storefront/internal/core/domain"
)

// SearchInput carries all parameters of the catalog listing endpoint.
// Nil price bounds mean the filter was not supplied.
type SearchInput struct {
	Search     string
	Category   string
	MinPrice   *float64
	MaxPrice   *float64
	PageNumber int
	PageSize   int
}

// SearchResult is one page of catalog results.
type SearchResult struct {
	TotalItems int64
	PageNumber int
	PageSize   int
	TotalPages int
	Products   []domain.Product
}

// ProductInput carries the writable product fields for create and update.
type ProductInput struct {
	Name          string
	Description   string
	Price         float64
	StockQuantity int
	Category      string
	// ImageURL is an externally hosted image reference, used when no file
	// is uploaded alongside the form.
	ImageURL string
}

// ImageUpload is an uploaded image file streamed from a multipart request.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// CatalogService defines catalog queries and the Admin-only mutations.
type CatalogService interface {
	Search(ctx context.Context, input SearchInput) (*SearchResult, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	ListPublic(ctx context.Context) ([]domain.Product, error)
	Categories(ctx context.Context) ([]string, error)

	Create(ctx context.Context, input ProductInput, image *ImageUpload) (*domain.Product, error)
	Update(ctx context.Context, id string, input ProductInput, image *ImageUpload) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// ImageStore persists uploaded product images under globally unique names
// and returns the public URL path of the stored file.
type ImageStore interface {
	Save(ctx context.Context, filename string, content io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}
