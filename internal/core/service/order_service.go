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

// OrderService implements order placement and retrieval.
type OrderService struct {
	orders   ports.OrderRepository
	products ports.ProductRepository
	users    ports.AuthRepository
	idem     ports.OrderIdempotencyStore
	logger   zerolog.Logger
}

func NewOrderService(
	orders ports.OrderRepository,
	products ports.ProductRepository,
	users ports.AuthRepository,
	idem ports.OrderIdempotencyStore,
	logger zerolog.Logger,
) *OrderService {
	return &OrderService{orders: orders, products: products, users: users, idem: idem, logger: logger}
}

// Place creates one order with its embedded line items in a single commit.
// The owner is always the verified caller. Unit prices come from the catalog
// at placement time and the total is recomputed server-side; the declared
// total is advisory only. A replayed Idempotency-Key returns the original
// order without side effects.
func (s *OrderService) Place(ctx context.Context, input ports.PlaceOrderInput) (*ports.PlaceOrderResult, error) {
	if len(input.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
		}
	}

	if input.IdempotencyKey != "" && s.idem != nil {
		orderID, err := s.idem.Lookup(ctx, input.UserID, input.IdempotencyKey)
		if err != nil {
			s.logger.Warn().Err(err).Msg("idempotency lookup failed, proceeding without replay")
		} else if orderID != "" {
			existing, err := s.orders.FindByID(ctx, orderID)
			if err == nil {
				s.logger.Info().Str("order_id", orderID).Str("idempotency_key", input.IdempotencyKey).Msg("idempotent replay")
				return &ports.PlaceOrderResult{
					OrderID:        existing.ID,
					Status:         string(existing.Status),
					TotalAmount:    existing.TotalAmount,
					CreatedAt:      existing.CreatedAt,
					AlreadyExisted: true,
				}, nil
			}
		}
	}

	ids := make([]string, 0, len(input.Items))
	for _, item := range input.Items {
		ids = append(ids, item.ProductID)
	}
	catalog, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	var total float64
	items := make([]domain.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		product, ok := catalog[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: unknown product %s", domain.ErrInvalidInput, item.ProductID)
		}
		items = append(items, domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
		})
		total += float64(item.Quantity) * product.Price
	}

	if math.Abs(total-input.DeclaredTotal) > 0.005 {
		s.logger.Warn().
			Str("user_id", input.UserID).
			Float64("declared_total", input.DeclaredTotal).
			Float64("computed_total", total).
			Msg("client-declared total mismatch, using computed total")
	}

	order := &domain.Order{
		UserID:      input.UserID,
		Status:      domain.StatusPlaced,
		TotalAmount: total,
		Items:       items,
		CreatedAt:   time.Now().UTC(),
	}

	orderID, err := s.orders.Create(ctx, order)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", input.UserID).Msg("failed to create order")
		return nil, err
	}

	if input.IdempotencyKey != "" && s.idem != nil {
		if err := s.idem.Remember(ctx, input.UserID, input.IdempotencyKey, orderID); err != nil {
			s.logger.Warn().Err(err).Str("order_id", orderID).Msg("failed to record idempotency key")
		}
	}

	s.logger.Info().Str("order_id", orderID).Str("user_id", input.UserID).Float64("total", total).Msg("order placed")

	return &ports.PlaceOrderResult{
		OrderID:     orderID,
		Status:      string(order.Status),
		TotalAmount: total,
		CreatedAt:   order.CreatedAt,
	}, nil
}

// Get returns one order with resolved line items. Only the owner or an
// Admin may read it.
func (s *OrderService) Get(ctx context.Context, orderID string, caller ports.TokenClaims) (*ports.OrderDetail, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if caller.Role != domain.RoleAdmin && order.UserID != caller.UserID {
		return nil, domain.ErrForbidden
	}

	detail, err := s.toDetail(ctx, order)
	if err != nil {
		return nil, err
	}

	if owner, err := s.users.FindByID(ctx, order.UserID); err == nil {
		detail.CustomerName = owner.Name
	}
	return detail, nil
}

// ListMine returns the caller's orders newest-first with resolved items.
func (s *OrderService) ListMine(ctx context.Context, userID string) ([]ports.OrderDetail, error) {
	orders, err := s.orders.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	details := make([]ports.OrderDetail, 0, len(orders))
	for i := range orders {
		detail, err := s.toDetail(ctx, &orders[i])
		if err != nil {
			return nil, err
		}
		details = append(details, *detail)
	}
	return details, nil
}

// ListAll returns every order with its owner's name and email.
func (s *OrderService) ListAll(ctx context.Context) ([]ports.OrderSummary, error) {
	orders, err := s.orders.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	owners := make(map[string]*domain.User)
	summaries := make([]ports.OrderSummary, 0, len(orders))
	for i := range orders {
		order := &orders[i]
		owner, ok := owners[order.UserID]
		if !ok {
			owner, err = s.users.FindByID(ctx, order.UserID)
			if err != nil {
				owner = &domain.User{}
			}
			owners[order.UserID] = owner
		}
		summaries = append(summaries, ports.OrderSummary{
			ID:            order.ID,
			Status:        string(order.Status),
			TotalAmount:   order.TotalAmount,
			PaymentID:     order.PaymentID,
			CreatedAt:     order.CreatedAt,
			CustomerName:  owner.Name,
			CustomerEmail: owner.Email,
		})
	}
	return summaries, nil
}

// toDetail resolves product names for each line item. Products deleted after
// the order was placed render the placeholder name instead of failing.
func (s *OrderService) toDetail(ctx context.Context, order *domain.Order) (*ports.OrderDetail, error) {
	ids := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.ProductID)
	}

	catalog, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines := make([]ports.OrderLine, 0, len(order.Items))
	for _, item := range order.Items {
		name := domain.DeletedProductName
		if product, ok := catalog[item.ProductID]; ok {
			name = product.Name
		}
		lines = append(lines, ports.OrderLine{
			ProductID:   item.ProductID,
			ProductName: name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	return &ports.OrderDetail{
		ID:          order.ID,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount,
		CreatedAt:   order.CreatedAt,
		Items:       lines,
	}, nil
}
