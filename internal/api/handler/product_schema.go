package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/shopverse/storefront/internal/core/domain"
	"github.com/shopverse/storefront/internal/core/ports"
)

// productForm is the multipart form for product create/update. The image
// travels either as an uploaded file (imageFile) or an external URL.
type productForm struct {
	Name          string  `form:"name" validate:"required,max=100"`
	Description   string  `form:"description"`
	Price         float64 `form:"price" validate:"gte=0"`
	StockQuantity int     `form:"stockQuantity" validate:"gte=0"`
	Category      string  `form:"category" validate:"required"`
	ImageURL      string  `form:"imageUrl"`
}

func (f *productForm) toInput() ports.ProductInput {
	return ports.ProductInput{
		Name:          f.Name,
		Description:   f.Description,
		Price:         f.Price,
		StockQuantity: f.StockQuantity,
		Category:      f.Category,
		ImageURL:      f.ImageURL,
	}
}

type productResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stockQuantity"`
	Category      string  `json:"category"`
	ImageURL      string  `json:"imageUrl"`
}

type publicProductResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"imageUrl"`
}

type productPageResponse struct {
	TotalItems int64             `json:"totalItems"`
	PageNumber int               `json:"pageNumber"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
	Products   []productResponse `json:"products"`
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		Category:      p.Category,
		ImageURL:      p.ImageURL,
	}
}

func toProductPageResponse(r *ports.SearchResult) productPageResponse {
	products := make([]productResponse, len(r.Products))
	for i := range r.Products {
		products[i] = toProductResponse(&r.Products[i])
	}
	return productPageResponse{
		TotalItems: r.TotalItems,
		PageNumber: r.PageNumber,
		PageSize:   r.PageSize,
		TotalPages: r.TotalPages,
		Products:   products,
	}
}

// parseSearchInput reads the catalog listing query parameters. Malformed
// numbers are a 400; range checks happen in the service.
func parseSearchInput(c echo.Context) (ports.SearchInput, error) {
	input := ports.SearchInput{
		Search:     c.QueryParam("search"),
		Category:   c.QueryParam("category"),
		PageNumber: 1,
		PageSize:   10,
	}

	if raw := c.QueryParam("pageNumber"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return input, echo.NewHTTPError(http.StatusBadRequest, "pageNumber must be an integer")
		}
		input.PageNumber = n
	}
	if raw := c.QueryParam("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return input, echo.NewHTTPError(http.StatusBadRequest, "pageSize must be an integer")
		}
		input.PageSize = n
	}
	if raw := c.QueryParam("minPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return input, echo.NewHTTPError(http.StatusBadRequest, "minPrice must be a number")
		}
		input.MinPrice = &v
	}
	if raw := c.QueryParam("maxPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return input, echo.NewHTTPError(http.StatusBadRequest, "maxPrice must be a number")
		}
		input.MaxPrice = &v
	}

	return input, nil
}
