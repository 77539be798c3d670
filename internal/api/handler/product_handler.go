package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopverse/storefront/internal/api/metrics"
	"github.com/shopverse/storefront/internal/core/ports"
)

// ProductHandler handles HTTP requests for catalog queries and admin mutations.
type ProductHandler struct {
	catalog ports.CatalogService
}

func NewProductHandler(catalog ports.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// List handles GET /products.
//
// @Summary      Search the product catalog
// @Tags         products
// @Produce      json
// @Param        search      query     string  false  "Substring match on name and description"
// @Param        category    query     string  false  "Exact category match"
// @Param        minPrice    query     number  false  "Inclusive lower price bound"
// @Param        maxPrice    query     number  false  "Inclusive upper price bound"
// @Param        pageNumber  query     int     false  "Page number (default 1)"
// @Param        pageSize    query     int     false  "Page size (default 10)"
// @Success      200         {object}  productPageResponse
// @Failure      400         {object}  map[string]string
// @Router       /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	input, err := parseSearchInput(c)
	if err != nil {
		return err
	}

	result, err := h.catalog.Search(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toProductPageResponse(result))
}

// Get handles GET /products/:id.
//
// @Summary      Get a product by id
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  productResponse
// @Failure      404  {object}  map[string]string
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	product, err := h.catalog.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(product))
}

// Categories handles GET /products/categories.
//
// @Summary      List distinct product categories
// @Tags         products
// @Produce      json
// @Success      200  {array}  string
// @Router       /products/categories [get]
func (h *ProductHandler) Categories(c echo.Context) error {
	categories, err := h.catalog.Categories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categories)
}

// Public handles GET /products/public — the anonymous slim listing.
//
// @Summary      Public product listing
// @Tags         products
// @Produce      json
// @Success      200  {array}  publicProductResponse
// @Router       /products/public [get]
func (h *ProductHandler) Public(c echo.Context) error {
	products, err := h.catalog.ListPublic(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]publicProductResponse, len(products))
	for i, p := range products {
		out[i] = publicProductResponse{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Category:    p.Category,
			ImageURL:    p.ImageURL,
		}
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /products (Admin, multipart).
//
// @Summary      Create a product
// @Tags         products
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        name           formData  string  true   "Product name"
// @Param        description    formData  string  false  "Description"
// @Param        price          formData  number  true   "Price"
// @Param        stockQuantity  formData  int     true   "Stock quantity"
// @Param        category       formData  string  true   "Category"
// @Param        imageFile      formData  file    false  "Image upload"
// @Param        imageUrl       formData  string  false  "External image URL"
// @Success      201  {object}  productResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	form, image, cleanup, err := bindProductForm(c)
	if err != nil {
		return err
	}
	defer cleanup()

	product, err := h.catalog.Create(c.Request().Context(), form.toInput(), image)
	if err != nil {
		return err
	}

	metrics.ProductMutationsTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, toProductResponse(product))
}

// Update handles PUT /products/:id (Admin, multipart).
//
// @Summary      Update a product
// @Tags         products
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  productResponse
// @Failure      404  {object}  map[string]string
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	form, image, cleanup, err := bindProductForm(c)
	if err != nil {
		return err
	}
	defer cleanup()

	product, err := h.catalog.Update(c.Request().Context(), c.Param("id"), form.toInput(), image)
	if err != nil {
		return err
	}

	metrics.ProductMutationsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, toProductResponse(product))
}

// Delete handles DELETE /products/:id (Admin).
//
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	if err := h.catalog.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	metrics.ProductMutationsTotal.WithLabelValues("delete").Inc()
	return c.JSON(http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

// bindProductForm binds and validates the multipart form and opens the
// optional image file. The returned cleanup closes the file and must be
// deferred by the caller.
func bindProductForm(c echo.Context) (*productForm, *ports.ImageUpload, func(), error) {
	var form productForm
	if err := c.Bind(&form); err != nil {
		return nil, nil, nil, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&form); err != nil {
		return nil, nil, nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cleanup := func() {}
	var image *ports.ImageUpload

	fh, err := c.FormFile("imageFile")
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, nil, echo.NewHTTPError(http.StatusBadRequest, "invalid image upload")
		}
	} else {
		f, err := fh.Open()
		if err != nil {
			return nil, nil, nil, echo.NewHTTPError(http.StatusBadRequest, "invalid image upload")
		}
		image = &ports.ImageUpload{Filename: fh.Filename, Content: f}
		cleanup = func() { _ = f.Close() }
	}

	return &form, image, cleanup, nil
}
