package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopverse/storefront/internal/api/metrics"
	"github.com/shopverse/storefront/internal/core/ports"
)

// OrderHandler handles HTTP requests for order placement and retrieval.
type OrderHandler struct {
	orders ports.OrderService
}

func NewOrderHandler(orders ports.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Place handles POST /orders.
//
// @Summary      Place a new order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      placeOrderRequest  true   "Cart contents"
// @Success      200  {object}  placeOrderResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /orders [post]
func (h *OrderHandler) Place(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// The owner is always the verified caller; any user id in the payload
	// is ignored.
	input := toPlaceInput(req, claims.UserID, c.Request().Header.Get("Idempotency-Key"))

	result, err := h.orders.Place(c.Request().Context(), input)
	if err != nil {
		return err
	}

	if result.AlreadyExisted {
		metrics.OrdersPlacedTotal.WithLabelValues("replayed").Inc()
	} else {
		metrics.OrdersPlacedTotal.WithLabelValues("placed").Inc()
		metrics.OrderAmount.Observe(result.TotalAmount)
	}

	return c.JSON(http.StatusOK, placeOrderResponse{
		OrderID:     result.OrderID,
		Status:      result.Status,
		TotalAmount: result.TotalAmount,
		Message:     "Order placed successfully!",
	})
}

// Get handles GET /orders/:id.
//
// @Summary      Get an order by id
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  orderDetailResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	detail, err := h.orders.Get(c.Request().Context(), c.Param("id"), *claims)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toOrderDetailResponse(detail))
}

// ListMine handles GET /orders/my.
//
// @Summary      List the caller's orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  orderDetailResponse
// @Router       /orders/my [get]
func (h *OrderHandler) ListMine(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	details, err := h.orders.ListMine(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	out := make([]orderDetailResponse, len(details))
	for i := range details {
		out[i] = toOrderDetailResponse(&details[i])
	}
	return c.JSON(http.StatusOK, out)
}

// ListAll handles GET /orders (Admin).
//
// @Summary      List every order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  orderSummaryResponse
// @Failure      403  {object}  map[string]string
// @Router       /orders [get]
func (h *OrderHandler) ListAll(c echo.Context) error {
	summaries, err := h.orders.ListAll(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]orderSummaryResponse, len(summaries))
	for i, s := range summaries {
		out[i] = toOrderSummaryResponse(s)
	}
	return c.JSON(http.StatusOK, out)
}
