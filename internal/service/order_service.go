package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"order-tracking-service/internal/model"
	"order-tracking-service/internal/repository"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

// Interfaz que debe implementar repository
type OrderRepository interface {
	Insert(ctx context.Context, o *model.Order) error
	FindByTrackingID(ctx context.Context, trackingID string) (*model.Order, error)
	FindByOwnerEmail(ctx context.Context, ownerEmail string) ([]*model.Order, error)
	ReplaceFields(ctx context.Context, trackingID string, fields model.OrderFields) error
	Delete(ctx context.Context, trackingID string) error
}

// EventPublisher recibe los eventos de cada escritura confirmada (rabbit, kafka o nada).
type EventPublisher interface {
	Publish(ctx context.Context, event model.OrderEvent) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, model.OrderEvent) error { return nil }

type OrderService struct {
	repo      OrderRepository
	publisher EventPublisher
	now       func() time.Time
	newID     func() string
}

type OrderServiceOption func(*OrderService)

func WithClock(now func() time.Time) OrderServiceOption {
	return func(s *OrderService) { s.now = now }
}

func WithTrackingIDGenerator(gen func() string) OrderServiceOption {
	return func(s *OrderService) { s.newID = gen }
}

func NewOrderService(r OrderRepository, p EventPublisher, opts ...OrderServiceOption) *OrderService {
	if p == nil {
		p = NopPublisher{}
	}
	s := &OrderService{
		repo:      r,
		publisher: p,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create crea la orden en estado "ordered" con historial vacío.
// Solo el propio usuario autenticado puede ser el dueño.
func (s *OrderService) Create(ctx context.Context, ownerEmail string, description *string, requester *model.User) (*model.Order, error) {
	if requester == nil || ownerEmail != requester.Email {
		return nil, ErrWrongOwner
	}

	o := &model.Order{
		TrackingID:   s.newID(),
		OwnerEmail:   ownerEmail,
		Description:  description,
		Status:       model.StatusOrdered,
		CreatedDate:  s.now().Format(model.DateLayout),
		OrderHistory: []string{},
	}

	if err := s.repo.Insert(ctx, o); err != nil {
		return nil, fmt.Errorf("%w: insert order: %v", ErrPersistenceFailure, err)
	}

	s.publish(ctx, model.OrderCreated, o, nil)
	return o, nil
}

// Getters
func (s *OrderService) Get(ctx context.Context, trackingID string) (*model.Order, error) {
	o, err := s.repo.FindByTrackingID(ctx, trackingID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order %s: %w", trackingID, err)
	}
	return o, nil
}

func (s *OrderService) ListForOwner(ctx context.Context, ownerEmail string) ([]*model.Order, error) {
	orders, err := s.repo.FindByOwnerEmail(ctx, ownerEmail)
	if err != nil {
		return nil, fmt.Errorf("list orders for %s: %w", ownerEmail, err)
	}
	if orders == nil {
		orders = []*model.Order{}
	}
	return orders, nil
}

// Update cambia el estado y, si viene mensaje, lo agrega al historial.
// Una orden cancelada no se modifica nunca más por esta vía.
func (s *OrderService) Update(ctx context.Context, trackingID string, newStatus model.Status, message *string) error {
	if !newStatus.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, newStatus)
	}

	o, err := s.Get(ctx, trackingID)
	if err != nil {
		return err
	}

	if !o.Status.CanTransitionTo(newStatus) {
		return ErrOrderCancelled
	}

	return s.apply(ctx, o, newStatus, message, model.OrderUpdated)
}

// Cancel fuerza el estado "cancelled" sin importar el estado actual.
// Cancelar dos veces deja dos mensajes de cancelación en el historial.
func (s *OrderService) Cancel(ctx context.Context, trackingID string, requester *model.User) error {
	o, err := s.Get(ctx, trackingID)
	if err != nil {
		return err
	}

	msg := model.CancellationMessage
	if err := s.apply(ctx, o, model.StatusCancelled, &msg, model.OrderCancelled); err != nil {
		return err
	}

	if requester != nil {
		log.Infof("order %s cancelled by %s", trackingID, requester.Email)
	}
	return nil
}

// Delete borra la orden de forma permanente, sin pasar por la máquina de estados.
func (s *OrderService) Delete(ctx context.Context, trackingID string) error {
	o, err := s.Get(ctx, trackingID)
	if err != nil {
		return err
	}

	err = s.repo.Delete(ctx, trackingID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrOrderNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: delete order %s: %v", ErrPersistenceFailure, trackingID, err)
	}

	s.publish(ctx, model.OrderDeleted, o, nil)
	return nil
}

func (s *OrderService) apply(ctx context.Context, o *model.Order, newStatus model.Status, message *string, event model.OrderEventType) error {
	history := slices.Clone(o.OrderHistory)
	if history == nil {
		history = []string{}
	}
	if message != nil {
		history = append(history, *message)
	}

	deliveredDate := o.DeliveredDate
	if newStatus == model.StatusDelivered {
		d := s.now().Format(model.DateLayout)
		deliveredDate = &d
	}

	fields := model.OrderFields{
		Status:        newStatus,
		OrderHistory:  history,
		DeliveredDate: deliveredDate,
	}

	err := s.repo.ReplaceFields(ctx, o.TrackingID, fields)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrOrderNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: update order %s: %v", ErrPersistenceFailure, o.TrackingID, err)
	}

	o.Status = fields.Status
	o.OrderHistory = fields.OrderHistory
	o.DeliveredDate = fields.DeliveredDate
	s.publish(ctx, event, o, message)
	return nil
}

// publish no falla la operación: la escritura ya quedó confirmada.
func (s *OrderService) publish(ctx context.Context, event model.OrderEventType, o *model.Order, message *string) {
	err := s.publisher.Publish(ctx, model.OrderEvent{
		Event:      event,
		TrackingID: o.TrackingID,
		OwnerEmail: o.OwnerEmail,
		Status:     o.Status,
		Message:    message,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		log.Errorf("publish %s for order %s: %v", event, o.TrackingID, err)
	}
}
