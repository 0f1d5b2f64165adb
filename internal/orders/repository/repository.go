package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Rogerio-17/cardapio-digital-web/internal/domain"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrDuplicateOrder = errors.New("order already exists")
	// ErrStatusConflict means the stored status no longer matches the one
	// the update was computed from.
	ErrStatusConflict = errors.New("order status changed concurrently")
)

// FirstOrderNumber is the number given to a restaurant's first order.
const FirstOrderNumber = 1001

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// OrderRepository stores orders. CreateOrder assigns the next order number
// of the order's restaurant.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrdersByRestaurant(ctx context.Context, restaurantID string) ([]*domain.Order, error)
	// UpdateOrderStatus writes order's status and timestamps only if the
	// stored status is still from.
	UpdateOrderStatus(ctx context.Context, order *domain.Order, from domain.OrderStatus) error
	Close() error
}
