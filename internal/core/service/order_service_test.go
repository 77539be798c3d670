package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopverse/storefront/internal/core/domain"
	"github.com/shopverse/storefront/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubOrderRepo struct {
	orders    map[string]*domain.Order
	next      int
	createErr error
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[string]*domain.Order)}
}

func (r *stubOrderRepo) Create(_ context.Context, order *domain.Order) (string, error) {
	if r.createErr != nil {
		return "", r.createErr
	}
	clone := *order
	r.next++
	clone.ID = "order_" + strconv.Itoa(r.next)
	r.orders[clone.ID] = &clone
	return clone.ID, nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	clone := *o
	return &clone, nil
}

func (r *stubOrderRepo) FindByUserID(_ context.Context, userID string) ([]domain.Order, error) {
	var matched []domain.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			matched = append(matched, *o)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	return matched, nil
}

func (r *stubOrderRepo) FindAll(_ context.Context) ([]domain.Order, error) {
	all := make([]domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		all = append(all, *o)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return all, nil
}

type stubIdemStore struct {
	keys        map[string]string
	rememberErr error
}

func newStubIdemStore() *stubIdemStore {
	return &stubIdemStore{keys: make(map[string]string)}
}

func (s *stubIdemStore) Lookup(_ context.Context, userID, key string) (string, error) {
	return s.keys[userID+":"+key], nil
}

func (s *stubIdemStore) Remember(_ context.Context, userID, key, orderID string) error {
	if s.rememberErr != nil {
		return s.rememberErr
	}
	s.keys[userID+":"+key] = orderID
	return nil
}

type orderFixture struct {
	svc      *OrderService
	orders   *stubOrderRepo
	products *stubProductRepo
	users    *stubAuthRepo
	idem     *stubIdemStore
}

func newOrderFixture() orderFixture {
	orders := newStubOrderRepo()
	products := newStubProductRepo()
	users := newStubAuthRepo()
	idem := newStubIdemStore()
	svc := NewOrderService(orders, products, users, idem, zerolog.Nop())
	return orderFixture{svc: svc, orders: orders, products: products, users: users, idem: idem}
}

func (f orderFixture) seedUser(name, email string, role domain.Role) *domain.User {
	created, _ := f.users.Create(context.Background(), &domain.User{
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	})
	return created
}

func asCustomer(u *domain.User) ports.TokenClaims {
	return ports.TokenClaims{UserID: u.ID, Name: u.Name, Role: u.Role}
}

// ---------------------------------------------------------------------------
// Place tests
// ---------------------------------------------------------------------------

func TestOrderService_Place_EmptyItems(t *testing.T) {
	f := newOrderFixture()

	_, err := f.svc.Place(context.Background(), ports.PlaceOrderInput{UserID: "user_1"})
	if !errors.Is(err, domain.ErrEmptyOrder) {
		t.Fatalf("expected ErrEmptyOrder, got %v", err)
	}
}

func TestOrderService_Place_NonPositiveQuantity(t *testing.T) {
	f := newOrderFixture()
	p := seedProduct(f.products, "Mug", "Kitchen", 10)

	for _, qty := range []int{0, -1} {
		_, err := f.svc.Place(context.Background(), ports.PlaceOrderInput{
			UserID: "user_1",
			Items:  []ports.OrderItemInput{{ProductID: p.ID, Quantity: qty}},
		})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("quantity %d: expected ErrInvalidInput, got %v", qty, err)
		}
	}
	if len(f.orders.orders) != 0 {
		t.Errorf("no order may be stored, got %d", len(f.orders.orders))
	}
}

func TestOrderService_Place_UnknownProduct(t *testing.T) {
	f := newOrderFixture()
	p := seedProduct(f.products, "Mug", "Kitchen", 10)

	_, err := f.svc.Place(context.Background(), ports.PlaceOrderInput{
		UserID: "user_1",
		Items: []ports.OrderItemInput{
			{ProductID: p.ID, Quantity: 1},
			{ProductID: "ghost", Quantity: 2},
		},
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown product, got %v", err)
	}
	if len(f.orders.orders) != 0 {
		t.Errorf("partial order must not be stored")
	}
}

func TestOrderService_Place_ChargesCatalogPrices(t *testing.T) {
	f := newOrderFixture()
	mug := seedProduct(f.products, "Mug", "Kitchen", 12.50)
	pan := seedProduct(f.products, "Pan", "Kitchen", 30)

	result, err := f.svc.Place(context.Background(), ports.PlaceOrderInput{
		UserID: "user_1",
		Items: []ports.OrderItemInput{
			// Client-sent unit prices are deliberately wrong.
			{ProductID: mug.ID, Quantity: 2, UnitPrice: 0.01},
			{ProductID: pan.ID, Quantity: 1, UnitPrice: 0.01},
		},
		DeclaredTotal: 0.03,
	})
	if err != nil {
		t.Fatalf("place failed: %v", err)
	}

	want := 2*12.50 + 30.0
	if result.TotalAmount != want {
		t.Errorf("total: want %.2f, got %.2f", want, result.TotalAmount)
	}
	if result.Status != string(domain.StatusPlaced) {
		t.Errorf("status: want %q, got %q", domain.StatusPlaced, result.Status)
	}
	if result.AlreadyExisted {
		t.Error("fresh order must not be flagged as replay")
	}

	stored := f.orders.orders[result.OrderID]
	if stored.UserID != "user_1" {
		t.Errorf("owner: want user_1, got %q", stored.UserID)
	}
	if len(stored.Items) != 2 {
		t.Fatalf("expected 2 stored items, got %d", len(stored.Items))
	}
	if stored.Items[0].UnitPrice != 12.50 {
		t.Errorf("stored unit price must come from the catalog, got %.2f", stored.Items[0].UnitPrice)
	}
}

func TestOrderService_Place_PriceCapturedAtPlacement(t *testing.T) {
	f := newOrderFixture()
	mug := seedProduct(f.products, "Mug", "Kitchen", 10)

	result, err := f.svc.Place(context.Background(), ports.PlaceOrderInput{
		UserID: "user_1",
		Items:  []ports.OrderItemInput{{ProductID: mug.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("place failed: %v", err)
	}

	// Later price change must not touch the historical order.
	f.products.products[mug.ID].Price = 99

	stored := f.orders.orders[result.OrderID]
	if stored.Items[0].UnitPrice != 10 {
		t.Errorf("historical unit price changed: %.2f", stored.Items[0].UnitPrice)
	}
	if stored.TotalAmount != 10 {
		t.Errorf("historical total changed: %.2f", stored.TotalAmount)
	}
}

func TestOrderService_Place_RepoError(t *testing.T) {
	f := newOrderFixture()
	p := seedProduct(f.products, "Mug", "Kitchen", 10)
	f.orders.createErr = errors.New("db unavailable")

	_, err := f.svc.Place(context.Background(), ports.PlaceOrderInput{
		UserID: "user_1",
		Items:  []ports.OrderItemInput{{ProductID: p.ID, Quantity: 1}},
	})
	if err == nil {
		t.Fatal("expected error when repo fails, got nil")
	}
}

// ---------------------------------------------------------------------------
// Idempotency tests
// ---------------------------------------------------------------------------

func TestOrderService_Place_IdempotencyReplay(t *testing.T) {
	f := newOrderFixture()
	p := seedProduct(f.products, "Mug", "Kitchen", 10)

	input := ports.PlaceOrderInput{
		UserID:         "user_1",
		Items:          []ports.OrderItemInput{{ProductID: p.ID, Quantity: 2}},
		IdempotencyKey: "key-abc-123",
	}

	first, err := f.svc.Place(context.Background(), input)
	if err != nil {
		t.Fatalf("first place failed: %v", err)
	}
	second, err := f.svc.Place(context.Background(), input)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}

	if second.OrderID != first.OrderID {
		t.Errorf("replay must return same order id: got %q, want %q", second.OrderID, first.OrderID)
	}
	if !second.AlreadyExisted {
		t.Error("replay must set AlreadyExisted=true")
	}
	if second.TotalAmount != first.TotalAmount {
		t.Errorf("replay total: got %.2f, want %.2f", second.TotalAmount, first.TotalAmount)
	}
	if len(f.orders.orders) != 1 {
		t.Errorf("expected 1 stored order, got %d", len(f.orders.orders))
	}
}

func TestOrderService_Place_IdempotencyKeyScopedToUser(t *testing.T) {
	f := newOrderFixture()
	p := seedProduct(f.products, "Mug", "Kitchen", 10)

	items := []ports.OrderItemInput{{ProductID: p.ID, Quantity: 1}}
	first, err := f.svc.Place(context.Background(), ports.PlaceOrderInput{UserID: "user_1", Items: items, IdempotencyKey: "shared"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := f.svc.Place(context.Background(), ports.PlaceOrderInput{UserID: "user_2", Items: items, IdempotencyKey: "shared"})
	if err != nil {
		t.Fatal(err)
	}

	if second.OrderID == first.OrderID {
		t.Error("same key from a different user must create a new order")
	}
	if len(f.orders.orders) != 2 {
		t.Errorf("expected 2 stored orders, got %d", len(f.orders.orders))
	}
}

func TestOrderService_Place_NoKeyAlwaysCreates(t *testing.T) {
	f := newOrderFixture()
	p := seedProduct(f.products, "Mug", "Kitchen", 10)

	input := ports.PlaceOrderInput{UserID: "user_1", Items: []ports.OrderItemInput{{ProductID: p.ID, Quantity: 1}}}
	_, _ = f.svc.Place(context.Background(), input)
	_, _ = f.svc.Place(context.Background(), input)

	if len(f.orders.orders) != 2 {
		t.Errorf("without idempotency key, each call must create a new order; got %d", len(f.orders.orders))
	}
}

func TestOrderService_Place_RememberFailureDoesNotFailOrder(t *testing.T) {
	f := newOrderFixture()
	p := seedProduct(f.products, "Mug", "Kitchen", 10)
	f.idem.rememberErr = errors.New("redis down")

	result, err := f.svc.Place(context.Background(), ports.PlaceOrderInput{
		UserID:         "user_1",
		Items:          []ports.OrderItemInput{{ProductID: p.ID, Quantity: 1}},
		IdempotencyKey: "key-1",
	})
	if err != nil {
		t.Fatalf("order must succeed even when the key store fails: %v", err)
	}
	if result.OrderID == "" {
		t.Error("expected an order id")
	}
}

// ---------------------------------------------------------------------------
// Get / ownership tests
// ---------------------------------------------------------------------------

func TestOrderService_Get_OwnerSeesOrder(t *testing.T) {
	f := newOrderFixture()
	owner := f.seedUser("Alice", "alice@example.com", domain.RoleCustomer)
	p := seedProduct(f.products, "Mug", "Kitchen", 10)

	placed, err := f.svc.Place(context.Background(), ports.PlaceOrderInput{
		UserID: owner.ID,
		Items:  []ports.OrderItemInput{{ProductID: p.ID, Quantity: 3}},
	})
	if err != nil {
		t.Fatal(err)
	}

	detail, err := f.svc.Get(context.Background(), placed.OrderID, asCustomer(owner))
	if err != nil {
		t.Fatalf("owner must see own order: %v", err)
	}
	if detail.ID != placed.OrderID {
		t.Errorf("id: want %q, got %q", placed.OrderID, detail.ID)
	}
	if detail.CustomerName != "Alice" {
		t.Errorf("customer name: want Alice, got %q", detail.CustomerName)
	}
	if len(detail.Items) != 1 || detail.Items[0].ProductName != "Mug" {
		t.Errorf("unexpected items: %+v", detail.Items)
	}
}

func TestOrderService_Get_OtherCustomerForbidden(t *testing.T) {
	f := newOrderFixture()
	owner := f.seedUser("Alice", "alice@example.com", domain.RoleCustomer)
	intruder := f.seedUser("Mallory", "mallory@example.com", domain.RoleCustomer)
	p := seedProduct(f.products, "Mug", "Kitchen", 10)

	placed, _ := f.svc.Place(context.Background(), ports.PlaceOrderInput{
		UserID: owner.ID,
		Items:  []ports.OrderItemInput{{ProductID: p.ID, Quantity: 1}},
	})

	_, err := f.svc.Get(context.Background(), placed.OrderID, asCustomer(intruder))
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestOrderService_Get_AdminSeesAny(t *testing.T) {
	f := newOrderFixture()
	owner := f.seedUser("Alice", "alice@example.com", domain.RoleCustomer)
	admin := f.seedUser("Root", "root@example.com", domain.RoleAdmin)
	p := seedProduct(f.products, "Mug", "Kitchen", 10)

	placed, _ := f.svc.Place(context.Background(), ports.PlaceOrderInput{
		UserID: owner.ID,
		Items:  []ports.OrderItemInput{{ProductID: p.ID, Quantity: 1}},
	})

	if _, err := f.svc.Get(context.Background(), placed.OrderID, asCustomer(admin)); err != nil {
		t.Fatalf("admin must see any order: %v", err)
	}
}

func TestOrderService_Get_NotFound(t *testing.T) {
	f := newOrderFixture()
	admin := f.seedUser("Root", "root@example.com", domain.RoleAdmin)

	_, err := f.svc.Get(context.Background(), "missing", asCustomer(admin))
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderService_Get_DeletedProductPlaceholder(t *testing.T) {
	f := newOrderFixture()
	owner := f.seedUser("Alice", "alice@example.com", domain.RoleCustomer)
	p := seedProduct(f.products, "Mug", "Kitchen", 10)

	placed, _ := f.svc.Place(context.Background(), ports.PlaceOrderInput{
		UserID: owner.ID,
		Items:  []ports.OrderItemInput{{ProductID: p.ID, Quantity: 2}},
	})

	delete(f.products.products, p.ID)

	detail, err := f.svc.Get(context.Background(), placed.OrderID, asCustomer(owner))
	if err != nil {
		t.Fatalf("order with deleted product must still resolve: %v", err)
	}
	if detail.Items[0].ProductName != domain.DeletedProductName {
		t.Errorf("expected placeholder name, got %q", detail.Items[0].ProductName)
	}
	if detail.Items[0].UnitPrice != 10 {
		t.Errorf("captured price must survive deletion, got %.2f", detail.Items[0].UnitPrice)
	}
	if detail.TotalAmount != 20 {
		t.Errorf("total must survive deletion, got %.2f", detail.TotalAmount)
	}
}

// ---------------------------------------------------------------------------
// Listing tests
// ---------------------------------------------------------------------------

func TestOrderService_ListMine_OnlyOwnNewestFirst(t *testing.T) {
	f := newOrderFixture()
	alice := f.seedUser("Alice", "alice@example.com", domain.RoleCustomer)
	bob := f.seedUser("Bob", "bob@example.com", domain.RoleCustomer)
	p := seedProduct(f.products, "Mug", "Kitchen", 10)

	items := []ports.OrderItemInput{{ProductID: p.ID, Quantity: 1}}
	first, _ := f.svc.Place(context.Background(), ports.PlaceOrderInput{UserID: alice.ID, Items: items})
	second, _ := f.svc.Place(context.Background(), ports.PlaceOrderInput{UserID: alice.ID, Items: items})
	_, _ = f.svc.Place(context.Background(), ports.PlaceOrderInput{UserID: bob.ID, Items: items})

	mine, err := f.svc.ListMine(context.Background(), alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(mine))
	}
	if mine[0].ID != second.OrderID || mine[1].ID != first.OrderID {
		t.Errorf("expected newest-first order, got %q then %q", mine[0].ID, mine[1].ID)
	}
}

func TestOrderService_ListAll_ResolvesOwners(t *testing.T) {
	f := newOrderFixture()
	alice := f.seedUser("Alice", "alice@example.com", domain.RoleCustomer)
	p := seedProduct(f.products, "Mug", "Kitchen", 10)

	items := []ports.OrderItemInput{{ProductID: p.ID, Quantity: 1}}
	_, _ = f.svc.Place(context.Background(), ports.PlaceOrderInput{UserID: alice.ID, Items: items})
	// Order whose owner no longer resolves.
	_, _ = f.svc.Place(context.Background(), ports.PlaceOrderInput{UserID: "ghost", Items: items})

	all, err := f.svc.ListAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(all))
	}

	byCustomer := make(map[string]ports.OrderSummary)
	for _, s := range all {
		byCustomer[s.CustomerEmail] = s
	}
	if s, ok := byCustomer["alice@example.com"]; !ok || s.CustomerName != "Alice" {
		t.Errorf("expected Alice's order with resolved identity, got %+v", all)
	}
	if _, ok := byCustomer[""]; !ok {
		t.Errorf("unresolvable owner must yield empty identity, got %+v", all)
	}
}
