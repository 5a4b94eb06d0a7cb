package service

import (
	"context"

	"quickbite/internal/domain"
)

type OrderServiceInterface interface {
	Submit(ctx context.Context, req domain.CheckoutRequest) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID int) (*domain.Order, error)
	ListOrders(ctx context.Context, status string, customerID int) ([]domain.Order, error)
	Transition(ctx context.Context, orderID int, toStatus, note string) (*domain.Order, error)
	OrderQRCode(ctx context.Context, orderID int) ([]byte, error)
	Reconcile(ctx context.Context) ([]int, error)
}

type OrderRepository interface {
	// FindIDByIdempotencyKey returns 0 when no order carries the key.
	FindIDByIdempotencyKey(ctx context.Context, key string) (int, error)
	// CreateOrder persists the order with its pre-built Items (and their
	// Options) in one transaction. A unique violation on the idempotency
	// key is returned as ErrDuplicateIdempotencyKey.
	CreateOrder(ctx context.Context, order *domain.Order) error
	// GetOrder returns (nil, nil) when no order matches.
	GetOrder(ctx context.Context, orderID int) (*domain.Order, error)
	ListOrders(ctx context.Context, status string, customerID int) ([]domain.Order, error)
	// TransitionStatus applies the status change only if the stored status
	// still equals fromStatus, and appends the history row in the same
	// transaction. It reports whether the conditional update matched.
	TransitionStatus(ctx context.Context, orderID int, fromStatus, toStatus, note string) (bool, error)
	// CurrentStatus returns "" when no order matches.
	CurrentStatus(ctx context.Context, orderID int) (string, error)
	StoreQRCode(ctx context.Context, orderID int, png []byte) error
	// GetQRCode returns ErrOrderNotFound when no order matches.
	GetQRCode(ctx context.Context, orderID int) ([]byte, error)
	FindOrdersWithoutItems(ctx context.Context) ([]int, error)
}

type CatalogServiceInterface interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, productID int) (*domain.Product, []domain.OptionGroup, error)
}

type CatalogRepository interface {
	ListActiveProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, productID int) (*domain.Product, error)
	ListOptionGroups(ctx context.Context, productID int) ([]domain.OptionGroup, error)
}

type UserServiceInterface interface {
	Provision(ctx context.Context, email, password, fullName, phone, role string) (*domain.User, error)
}

type UserRepository interface {
	InsertUser(ctx context.Context, user *domain.User) error
}

type OrderPublisher interface {
	PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error
}

var (
	_ OrderServiceInterface   = (*OrderService)(nil)
	_ CatalogServiceInterface = (*CatalogService)(nil)
	_ UserServiceInterface    = (*UserService)(nil)
)
