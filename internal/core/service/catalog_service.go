package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopverse/storefront/internal/core/domain"
	"github.com/shopverse/storefront/internal/core/ports"
)

// CatalogService implements catalog queries and Admin mutations.
type CatalogService struct {
	repo   ports.ProductRepository
	images ports.ImageStore
	logger zerolog.Logger
}

func NewCatalogService(repo ports.ProductRepository, images ports.ImageStore, logger zerolog.Logger) *CatalogService {
	return &CatalogService{repo: repo, images: images, logger: logger}
}

// Search validates the query, then returns one page of matching products.
// Violations are rejected before any repository call and never silently
// corrected (a min price above the max is an error, not a swap).
func (s *CatalogService) Search(ctx context.Context, input ports.SearchInput) (*ports.SearchResult, error) {
	if input.PageNumber <= 0 || input.PageSize <= 0 {
		return nil, fmt.Errorf("%w: page number and size must be positive", domain.ErrInvalidInput)
	}
	if (input.MinPrice != nil && *input.MinPrice < 0) || (input.MaxPrice != nil && *input.MaxPrice < 0) {
		return nil, fmt.Errorf("%w: price values cannot be negative", domain.ErrInvalidInput)
	}
	if input.MinPrice != nil && input.MaxPrice != nil && *input.MinPrice > *input.MaxPrice {
		return nil, fmt.Errorf("%w: min price cannot be greater than max price", domain.ErrInvalidInput)
	}

	filter := ports.ProductFilter{
		Search:   input.Search,
		Category: input.Category,
		MinPrice: input.MinPrice,
		MaxPrice: input.MaxPrice,
		Offset:   int64(input.PageNumber-1) * int64(input.PageSize),
		Limit:    int64(input.PageSize),
	}

	products, total, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ports.SearchResult{
		TotalItems: total,
		PageNumber: input.PageNumber,
		PageSize:   input.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(input.PageSize))),
		Products:   products,
	}, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CatalogService) ListPublic(ctx context.Context) ([]domain.Product, error) {
	return s.repo.FindAll(ctx)
}

func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

// Create stores an optional uploaded image, then persists the product.
func (s *CatalogService) Create(ctx context.Context, input ports.ProductInput, image *ports.ImageUpload) (*domain.Product, error) {
	imageURL := input.ImageURL
	if image != nil {
		url, err := s.images.Save(ctx, image.Filename, image.Content)
		if err != nil {
			return nil, fmt.Errorf("save image: %w", err)
		}
		imageURL = url
	}

	product := &domain.Product{
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		StockQuantity: input.StockQuantity,
		Category:      input.Category,
		ImageURL:      imageURL,
		CreatedAt:     time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("product_id", created.ID).Str("category", created.Category).Msg("product created")
	return created, nil
}

// Update replaces the product's fields. When a new image is uploaded it is
// saved first and the previous file removed only after the record update
// succeeds, so a failed upload or write never orphans the product.
func (s *CatalogService) Update(ctx context.Context, id string, input ports.ProductInput, image *ports.ImageUpload) (*domain.Product, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldImage := existing.ImageURL
	imageURL := input.ImageURL
	if imageURL == "" {
		imageURL = oldImage
	}
	if image != nil {
		url, err := s.images.Save(ctx, image.Filename, image.Content)
		if err != nil {
			return nil, fmt.Errorf("save image: %w", err)
		}
		imageURL = url
	}

	updated := &domain.Product{
		ID:            existing.ID,
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		StockQuantity: input.StockQuantity,
		Category:      input.Category,
		ImageURL:      imageURL,
		CreatedAt:     existing.CreatedAt,
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, err
	}

	if image != nil && oldImage != "" && oldImage != imageURL {
		if err := s.images.Delete(ctx, oldImage); err != nil {
			s.logger.Warn().Err(err).Str("image_url", oldImage).Msg("failed to delete replaced image")
		}
	}

	s.logger.Info().Str("product_id", id).Msg("product updated")
	return updated, nil
}

// Delete removes the product record, then its stored image. Historical order
// items keep referencing the id and render a placeholder name.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if existing.ImageURL != "" {
		if err := s.images.Delete(ctx, existing.ImageURL); err != nil {
			s.logger.Warn().Err(err).Str("image_url", existing.ImageURL).Msg("failed to delete product image")
		}
	}

	s.logger.Info().Str("product_id", id).Msg("product deleted")
	return nil
}
