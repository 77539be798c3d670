package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shopverse/storefront/internal/api/middleware"
	"github.com/shopverse/storefront/internal/core/domain"
	"github.com/shopverse/storefront/internal/core/ports"
)

type stubOrderService struct {
	placeFn    func(ctx context.Context, input ports.PlaceOrderInput) (*ports.PlaceOrderResult, error)
	getFn      func(ctx context.Context, orderID string, caller ports.TokenClaims) (*ports.OrderDetail, error)
	listMineFn func(ctx context.Context, userID string) ([]ports.OrderDetail, error)
	listAllFn  func(ctx context.Context) ([]ports.OrderSummary, error)
}

func (s *stubOrderService) Place(ctx context.Context, input ports.PlaceOrderInput) (*ports.PlaceOrderResult, error) {
	return s.placeFn(ctx, input)
}

func (s *stubOrderService) Get(ctx context.Context, orderID string, caller ports.TokenClaims) (*ports.OrderDetail, error) {
	return s.getFn(ctx, orderID, caller)
}

func (s *stubOrderService) ListMine(ctx context.Context, userID string) ([]ports.OrderDetail, error) {
	return s.listMineFn(ctx, userID)
}

func (s *stubOrderService) ListAll(ctx context.Context) ([]ports.OrderSummary, error) {
	return s.listAllFn(ctx)
}

func customerClaims() *ports.TokenClaims {
	return &ports.TokenClaims{UserID: "user_1", Name: "Alice", Role: domain.RoleCustomer}
}

func TestOrderHandler_Place_Success(t *testing.T) {
	var got ports.PlaceOrderInput
	stub := &stubOrderService{
		placeFn: func(ctx context.Context, input ports.PlaceOrderInput) (*ports.PlaceOrderResult, error) {
			got = input
			return &ports.PlaceOrderResult{
				OrderID:     "order_1",
				Status:      string(domain.StatusPlaced),
				TotalAmount: 25,
				CreatedAt:   time.Now().UTC(),
			}, nil
		},
	}
	handler := NewOrderHandler(stub)

	body := `{"items":[{"productId":"prod_1","quantity":2,"price":12.50}],"totalAmount":25,"userId":"spoofed"}`
	c, rec := newTestContext(t, http.MethodPost, "/orders", body)
	c.Request().Header.Set("Idempotency-Key", "key-1")
	middleware.SetClaims(c, customerClaims())

	if err := handler.Place(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// Owner comes from the token, never from the payload.
	if got.UserID != "user_1" {
		t.Errorf("owner: want user_1, got %q", got.UserID)
	}
	if got.IdempotencyKey != "key-1" {
		t.Errorf("idempotency key not forwarded: %q", got.IdempotencyKey)
	}
	if len(got.Items) != 1 || got.Items[0].ProductID != "prod_1" || got.Items[0].Quantity != 2 {
		t.Errorf("items not forwarded: %+v", got.Items)
	}
	if got.DeclaredTotal != 25 {
		t.Errorf("declared total not forwarded: %.2f", got.DeclaredTotal)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["orderId"] != "order_1" || resp["status"] != "Placed" {
		t.Fatalf("unexpected body: %+v", resp)
	}
	if resp["message"] != "Order placed successfully!" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
}

func TestOrderHandler_Place_NoClaims(t *testing.T) {
	stub := &stubOrderService{
		placeFn: func(ctx context.Context, input ports.PlaceOrderInput) (*ports.PlaceOrderResult, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}
	handler := NewOrderHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/orders", `{"items":[]}`)
	if err := handler.Place(c); httpErrorCode(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestOrderHandler_Place_EmptyOrder(t *testing.T) {
	stub := &stubOrderService{
		placeFn: func(ctx context.Context, input ports.PlaceOrderInput) (*ports.PlaceOrderResult, error) {
			return nil, domain.ErrEmptyOrder
		},
	}
	handler := NewOrderHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/orders", `{"items":[]}`)
	middleware.SetClaims(c, customerClaims())

	if err := handler.Place(c); !errors.Is(err, domain.ErrEmptyOrder) {
		t.Fatalf("expected ErrEmptyOrder, got %v", err)
	}
}

func TestOrderHandler_Place_InvalidItems(t *testing.T) {
	stub := &stubOrderService{
		placeFn: func(ctx context.Context, input ports.PlaceOrderInput) (*ports.PlaceOrderResult, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}
	handler := NewOrderHandler(stub)

	cases := []struct {
		name string
		body string
	}{
		{"zero quantity", `{"items":[{"productId":"prod_1","quantity":0,"price":9.99}]}`},
		{"negative quantity", `{"items":[{"productId":"prod_1","quantity":-2,"price":9.99}]}`},
		{"missing product id", `{"items":[{"quantity":1,"price":9.99}]}`},
		{"negative price", `{"items":[{"productId":"prod_1","quantity":1,"price":-1}]}`},
	}
	for _, tc := range cases {
		c, _ := newTestContext(t, http.MethodPost, "/orders", tc.body)
		middleware.SetClaims(c, customerClaims())

		if err := handler.Place(c); httpErrorCode(err) != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %v", tc.name, err)
		}
	}
}

func TestOrderHandler_Get_ForwardsCaller(t *testing.T) {
	stub := &stubOrderService{
		getFn: func(ctx context.Context, orderID string, caller ports.TokenClaims) (*ports.OrderDetail, error) {
			if orderID != "order_1" {
				t.Fatalf("unexpected order id %q", orderID)
			}
			if caller.UserID != "user_1" || caller.Role != domain.RoleCustomer {
				t.Fatalf("unexpected caller: %+v", caller)
			}
			return &ports.OrderDetail{
				ID:           "order_1",
				Status:       string(domain.StatusPlaced),
				TotalAmount:  20,
				CustomerName: "Alice",
				Items: []ports.OrderLine{
					{ProductID: "prod_1", ProductName: "Mug", Quantity: 2, UnitPrice: 10},
				},
			}, nil
		},
	}
	handler := NewOrderHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/orders/order_1", "")
	c.SetParamNames("id")
	c.SetParamValues("order_1")
	middleware.SetClaims(c, customerClaims())

	if err := handler.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	items, ok := resp["items"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("expected 1 item, got %+v", resp["items"])
	}
	line := items[0].(map[string]any)
	if line["productName"] != "Mug" || line["quantity"].(float64) != 2 {
		t.Fatalf("unexpected line: %+v", line)
	}
}

func TestOrderHandler_Get_Forbidden(t *testing.T) {
	stub := &stubOrderService{
		getFn: func(ctx context.Context, orderID string, caller ports.TokenClaims) (*ports.OrderDetail, error) {
			return nil, domain.ErrForbidden
		},
	}
	handler := NewOrderHandler(stub)

	c, _ := newTestContext(t, http.MethodGet, "/orders/order_1", "")
	c.SetParamNames("id")
	c.SetParamValues("order_1")
	middleware.SetClaims(c, customerClaims())

	if err := handler.Get(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestOrderHandler_ListMine_UsesCallerID(t *testing.T) {
	stub := &stubOrderService{
		listMineFn: func(ctx context.Context, userID string) ([]ports.OrderDetail, error) {
			if userID != "user_1" {
				t.Fatalf("expected caller's id, got %q", userID)
			}
			return []ports.OrderDetail{{ID: "order_2"}, {ID: "order_1"}}, nil
		},
	}
	handler := NewOrderHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/orders/my", "")
	middleware.SetClaims(c, customerClaims())

	if err := handler.ListMine(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 || resp[0]["id"] != "order_2" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestOrderHandler_ListAll_NestedCustomer(t *testing.T) {
	stub := &stubOrderService{
		listAllFn: func(ctx context.Context) ([]ports.OrderSummary, error) {
			return []ports.OrderSummary{{
				ID:            "order_1",
				Status:        string(domain.StatusPlaced),
				TotalAmount:   99,
				CustomerName:  "Alice",
				CustomerEmail: "alice@example.com",
			}}, nil
		},
	}
	handler := NewOrderHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/orders", "")
	middleware.SetClaims(c, &ports.TokenClaims{UserID: "admin_1", Role: domain.RoleAdmin})

	if err := handler.ListAll(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	customer, ok := resp[0]["customer"].(map[string]any)
	if !ok || customer["name"] != "Alice" || customer["email"] != "alice@example.com" {
		t.Fatalf("unexpected customer payload: %+v", resp[0])
	}
}
