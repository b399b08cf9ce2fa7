package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/cakeshop/app/models"
	"github.com/shashiranjanraj/cakeshop/app/repositories"
	"github.com/shashiranjanraj/cakeshop/pkg/event"
	"github.com/shashiranjanraj/cakeshop/pkg/metrics"
	"github.com/shashiranjanraj/cakeshop/pkg/validate"
)

// Events fired by OrderService.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderStore is the persistence the order service needs.
type OrderStore interface {
	All(ctx context.Context) ([]models.Order, error)
	Find(ctx context.Context, id uint) (*models.Order, error)
	Create(ctx context.Context, o *models.Order) error
	UpdateStatus(ctx context.Context, o *models.Order, status string) error
}

// StatusChange is the payload of EventOrderStatusChanged.
type StatusChange struct {
	OrderID uint   `json:"orderId"`
	From    string `json:"from"`
	To      string `json:"to"`
}

type OrderService struct {
	orders OrderStore
	events *event.Dispatcher
	strict bool
}

// NewOrderService builds the service. With strict set, SetStatus only
// accepts moves allowed by models.CanTransition. events may be nil.
func NewOrderService(orders OrderStore, events *event.Dispatcher, strict bool) *OrderService {
	return &OrderService{orders: orders, events: events, strict: strict}
}

// Create stores a checkout as a pending order. The submitted total is kept
// as-is.
func (s *OrderService) Create(ctx context.Context, in models.OrderInput) (*models.Order, error) {
	if validate.HasErrors(validate.Struct(in)) {
		return nil, fail(ErrValidation, "Missing required fields")
	}

	o := &models.Order{
		CustomerName:    in.CustomerName,
		CustomerPhone:   in.CustomerPhone,
		CustomerAddress: in.CustomerAddress,
		DeliveryDate:    in.DeliveryDate,
		DeliveryTime:    nonEmpty(in.DeliveryTime),
		TotalAmount:     float64(in.TotalAmount),
		PaymentMethod:   nonEmpty(in.PaymentMethod),
		Items:           models.LineItems(in.Items),
		Status:          models.StatusPending,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("orders: create: %w", err)
	}

	metrics.OrdersCreated.Inc()
	s.fire(ctx, event.Event{Name: EventOrderCreated, Key: orderKey(o.ID), Payload: *o})
	return o, nil
}

// List returns every order, newest first.
func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orders.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("orders: list: %w", err)
	}
	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	o, err := s.orders.Find(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fail(ErrNotFound, "Order not found")
		}
		return nil, fmt.Errorf("orders: get %d: %w", id, err)
	}
	return o, nil
}

// SetStatus overwrites the order status. An empty status leaves the order
// unchanged. Concurrent calls are not serialised: the last write wins.
func (s *OrderService) SetStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return o, nil
	}

	prev := o.Status
	if s.strict && status != prev && !models.CanTransition(prev, status) {
		return nil, fail(ErrInvalidTransition, fmt.Sprintf("cannot move order from %s to %s", prev, status))
	}

	if err := s.orders.UpdateStatus(ctx, o, status); err != nil {
		return nil, fmt.Errorf("orders: set status %d: %w", id, err)
	}
	o.Status = status

	if prev != status {
		label := status
		if !models.KnownStatus(label) {
			label = "other"
		}
		metrics.OrderStatusChanges.WithLabelValues(label).Inc()
		s.fire(ctx, event.Event{
			Name:    EventOrderStatusChanged,
			Key:     orderKey(o.ID),
			Payload: StatusChange{OrderID: o.ID, From: prev, To: status},
		})
	}
	return o, nil
}

func (s *OrderService) fire(ctx context.Context, e event.Event) {
	if s.events != nil {
		s.events.FireAsync(ctx, e)
	}
}

func orderKey(id uint) string {
	return fmt.Sprintf("order.%d", id)
}
