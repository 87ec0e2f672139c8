package repository

import (
	"context"
	"slices"
	"sync"

	"order-tracking-service/internal/model"
)

// MemoryOrderRepository guarda órdenes en memoria. Se usa en tests y con STORE_DRIVER=memory.
type MemoryOrderRepository struct {
	mu     sync.Mutex
	orders []*model.Order
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{}
}

func (m *MemoryOrderRepository) Insert(_ context.Context, o *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexOf(o.TrackingID) >= 0 {
		return ErrDuplicate
	}
	m.orders = append(m.orders, cloneOrder(o))
	return nil
}

func (m *MemoryOrderRepository) FindByTrackingID(_ context.Context, trackingID string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(trackingID)
	if i < 0 {
		return nil, ErrNotFound
	}
	return cloneOrder(m.orders[i]), nil
}

func (m *MemoryOrderRepository) FindByOwnerEmail(_ context.Context, ownerEmail string) ([]*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []*model.Order{}
	for _, o := range m.orders {
		if o.OwnerEmail == ownerEmail {
			out = append(out, cloneOrder(o))
		}
	}
	return out, nil
}

func (m *MemoryOrderRepository) ReplaceFields(_ context.Context, trackingID string, fields model.OrderFields) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(trackingID)
	if i < 0 {
		return ErrNotFound
	}
	o := m.orders[i]
	o.Status = fields.Status
	o.OrderHistory = slices.Clone(fields.OrderHistory)
	o.DeliveredDate = cloneString(fields.DeliveredDate)
	return nil
}

func (m *MemoryOrderRepository) Delete(_ context.Context, trackingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(trackingID)
	if i < 0 {
		return ErrNotFound
	}
	m.orders = slices.Delete(m.orders, i, i+1)
	return nil
}

func (m *MemoryOrderRepository) indexOf(trackingID string) int {
	return slices.IndexFunc(m.orders, func(o *model.Order) bool {
		return o.TrackingID == trackingID
	})
}

type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[string]model.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]model.User)}
}

func (m *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *MemoryUserRepository) Insert(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[u.Email]; ok {
		return ErrDuplicate
	}
	m.users[u.Email] = *u
	return nil
}

func cloneOrder(o *model.Order) *model.Order {
	c := *o
	c.Description = cloneString(o.Description)
	c.DeliveredDate = cloneString(o.DeliveredDate)
	c.OrderHistory = slices.Clone(o.OrderHistory)
	if c.OrderHistory == nil {
		c.OrderHistory = []string{}
	}
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
