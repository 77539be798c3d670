package handler

import (
	"time"

	"github.com/shopverse/storefront/internal/core/ports"
)

type orderItemRequest struct {
	ProductID string  `json:"productId" validate:"required"`
	Quantity  int     `json:"quantity" validate:"gt=0"`
	Price     float64 `json:"price" validate:"gte=0"`
}

type placeOrderRequest struct {
	Items       []orderItemRequest `json:"items" validate:"dive"`
	TotalAmount float64            `json:"totalAmount"`
}

type placeOrderResponse struct {
	OrderID     string  `json:"orderId"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"totalAmount"`
	Message     string  `json:"message"`
}

type orderLineResponse struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

type orderDetailResponse struct {
	ID          string              `json:"id"`
	OrderDate   time.Time           `json:"orderDate"`
	Status      string              `json:"status"`
	TotalAmount float64             `json:"totalAmount"`
	Customer    string              `json:"customer,omitempty"`
	Items       []orderLineResponse `json:"items"`
}

type orderCustomerResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type orderSummaryResponse struct {
	ID          string                `json:"id"`
	OrderDate   time.Time             `json:"orderDate"`
	Status      string                `json:"status"`
	TotalAmount float64               `json:"totalAmount"`
	PaymentID   string                `json:"paymentId,omitempty"`
	Customer    orderCustomerResponse `json:"customer"`
}

func toPlaceInput(req placeOrderRequest, userID, idempotencyKey string) ports.PlaceOrderInput {
	items := make([]ports.OrderItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = ports.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
		}
	}
	return ports.PlaceOrderInput{
		UserID:         userID,
		Items:          items,
		DeclaredTotal:  req.TotalAmount,
		IdempotencyKey: idempotencyKey,
	}
}

func toOrderDetailResponse(d *ports.OrderDetail) orderDetailResponse {
	items := make([]orderLineResponse, len(d.Items))
	for i, line := range d.Items {
		items[i] = orderLineResponse{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		}
	}
	return orderDetailResponse{
		ID:          d.ID,
		OrderDate:   d.CreatedAt.UTC(),
		Status:      d.Status,
		TotalAmount: d.TotalAmount,
		Customer:    d.CustomerName,
		Items:       items,
	}
}

func toOrderSummaryResponse(s ports.OrderSummary) orderSummaryResponse {
	return orderSummaryResponse{
		ID:          s.ID,
		OrderDate:   s.CreatedAt.UTC(),
		Status:      s.Status,
		TotalAmount: s.TotalAmount,
		PaymentID:   s.PaymentID,
		Customer: orderCustomerResponse{
			Name:  s.CustomerName,
			Email: s.CustomerEmail,
		},
	}
}
