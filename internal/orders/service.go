// Package orders turns checkout submissions into orders and drives them
// through the status workflow.
package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Rogerio-17/cardapio-digital-web/internal/checkout"
	"github.com/Rogerio-17/cardapio-digital-web/internal/domain"
	"github.com/Rogerio-17/cardapio-digital-web/internal/orders/repository"
)

var (
	ErrOrderNotFound     = repository.ErrOrderNotFound
	ErrInvalidSubmission = errors.New("invalid order submission")
)

// Observer is notified about order lifecycle events.
type Observer interface {
	OrderCreated(o *domain.Order)
	StatusChanged(o *domain.Order, from domain.OrderStatus)
}

type Service struct {
	repo     repository.OrderRepository
	log      logrus.FieldLogger
	now      func() time.Time
	observer Observer
}

type ServiceOption func(*Service)

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

func WithObserver(o Observer) ServiceOption {
	return func(s *Service) { s.observer = o }
}

func NewService(repo repository.OrderRepository, log logrus.FieldLogger, opts ...ServiceOption) *Service {
	s := &Service{repo: repo, log: log, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit implements checkout.Submitter by creating the order in-process.
func (s *Service) Submit(ctx context.Context, sub checkout.Submission) (checkout.Receipt, error) {
	o, err := s.Create(ctx, sub)
	if err != nil {
		return checkout.Receipt{}, err
	}
	return checkout.Receipt{OrderID: o.ID, OrderNumber: o.OrderNumber}, nil
}

// Create stores a RECEIVED order for the submission. Re-submitting the same
// submission id returns the order created the first time.
func (s *Service) Create(ctx context.Context, sub checkout.Submission) (*domain.Order, error) {
	order, err := s.buildOrder(sub)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		if errors.Is(err, repository.ErrDuplicateOrder) {
			s.log.WithField("order_id", order.ID).Info("order already exists, returning stored order")
			return s.repo.GetOrderByID(ctx, order.ID)
		}
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"order_id":      order.ID,
		"order_number":  order.OrderNumber,
		"restaurant_id": order.RestaurantID,
		"total":         order.Total.StringFixed(2),
	}).Info("order created")
	if s.observer != nil {
		s.observer.OrderCreated(order)
	}
	return order, nil
}

func (s *Service) buildOrder(sub checkout.Submission) (*domain.Order, error) {
	if len(sub.Items) == 0 {
		return nil, checkout.ErrEmptyCart
	}
	if sub.RestaurantID == "" || sub.Delivery == nil || sub.Payment == nil {
		return nil, ErrInvalidSubmission
	}

	now := s.now()
	id := sub.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	order := &domain.Order{
		ID:            id,
		RestaurantID:  sub.RestaurantID,
		Status:        domain.OrderStatusReceived,
		Items:         make([]domain.OrderItem, 0, len(sub.Items)),
		Customer:      sub.Customer,
		DeliveryType:  sub.Delivery.Type(),
		PaymentMethod: sub.Payment.Method(),
		ChangeFor:     decimal.Zero,
		DeliveryFee:   decimal.Zero,
		Notes:         sub.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, line := range sub.Items {
		line.Recalculate()
		order.Items = append(order.Items, domain.OrderItemFromLine(line))
	}

	switch d := sub.Delivery.(type) {
	case domain.Delivery:
		addr := d.Address
		order.DeliveryAddress = &addr
		order.DeliveryFee = sub.DeliveryFee
	case domain.DineIn:
		order.TableNumber = d.TableNumber
	}
	if cash, ok := sub.Payment.(domain.Cash); ok && cash.NeedsChange {
		order.ChangeFor = cash.ChangeFor
	}
	if sub.EstimatedTime > 0 {
		eta := now.Add(time.Duration(sub.EstimatedTime) * time.Minute)
		order.EstimatedDeliveryTime = &eta
	}

	order.Recalculate()
	return order, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.repo.GetOrderByID(ctx, id)
}

// List returns the restaurant's orders matching f, sorted by f.Sort.
func (s *Service) List(ctx context.Context, restaurantID string, f Filter) ([]*domain.Order, error) {
	all, err := s.repo.ListOrdersByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return Apply(all, f, s.now()), nil
}

// Dashboard is the filtered order list together with its stats.
type Dashboard struct {
	Orders   []OrderCard `json:"orders"`
	Stats    Stats       `json:"stats"`
	Matching int         `json:"matching"`
	Total    int         `json:"total"`
}

func (s *Service) Dashboard(ctx context.Context, restaurantID string, f Filter) (*Dashboard, error) {
	all, err := s.repo.ListOrdersByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	now := s.now()
	filtered := Apply(all, f, now)

	d := &Dashboard{
		Orders:   make([]OrderCard, 0, len(filtered)),
		Stats:    ComputeStats(filtered),
		Matching: len(filtered),
		Total:    len(all),
	}
	for _, o := range filtered {
		d.Orders = append(d.Orders, NewOrderCard(o, now))
	}
	return d, nil
}

// UpdateStatus moves an order along the status workflow.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, to domain.OrderStatus) (*domain.Order, error) {
	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if err := order.TransitionTo(to, s.now()); err != nil {
		return nil, err
	}
	err = s.repo.UpdateOrderStatus(ctx, order, from)
	if errors.Is(err, repository.ErrStatusConflict) {
		// Another operator moved the order first; report the move against
		// the status it has now.
		current, getErr := s.repo.GetOrderByID(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		return nil, &domain.InvalidTransitionError{From: current.Status, To: to, DeliveryType: current.DeliveryType}
	}
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"from":     from,
		"to":       to,
	}).Info("order status updated")
	if s.observer != nil {
		s.observer.StatusChanged(order, from)
	}
	return order, nil
}
