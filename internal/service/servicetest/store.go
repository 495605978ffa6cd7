// Package servicetest provides an in-memory service.Store and a
// recording Notifier for exercising the business rules without MySQL.
package servicetest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/atelierhq/workshop-studio/internal/model"
	"github.com/atelierhq/workshop-studio/internal/repository"
	"github.com/atelierhq/workshop-studio/internal/service"
)

// MemStore implements service.Store over maps.  InTx runs fn against a
// copy of the data and swaps it in only on success, mirroring the
// rollback semantics of the SQL store.  The store mutex serializes
// transactions the way row locks do.
type MemStore struct {
	mu   sync.Mutex
	data memData
}

type memData struct {
	nextID      uint64
	workshops   map[uint64]model.Workshop
	customers   map[uint64]model.Customer
	enrollments map[uint64]model.Enrollment
	products    map[uint64]model.Product
	orders      map[uint64]model.Order
	items       []model.OrderItem
}

// NewMemStore returns an empty store.
func NewMemStore() *MemStore {
	return &MemStore{data: memData{
		workshops:   map[uint64]model.Workshop{},
		customers:   map[uint64]model.Customer{},
		enrollments: map[uint64]model.Enrollment{},
		products:    map[uint64]model.Product{},
		orders:      map[uint64]model.Order{},
	}}
}

func (d memData) clone() memData {
	c := memData{
		nextID:      d.nextID,
		workshops:   make(map[uint64]model.Workshop, len(d.workshops)),
		customers:   make(map[uint64]model.Customer, len(d.customers)),
		enrollments: make(map[uint64]model.Enrollment, len(d.enrollments)),
		products:    make(map[uint64]model.Product, len(d.products)),
		orders:      make(map[uint64]model.Order, len(d.orders)),
		items:       append([]model.OrderItem(nil), d.items...),
	}
	for k, v := range d.workshops {
		c.workshops[k] = v
	}
	for k, v := range d.customers {
		c.customers[k] = v
	}
	for k, v := range d.enrollments {
		c.enrollments[k] = v
	}
	for k, v := range d.products {
		c.products[k] = v
	}
	for k, v := range d.orders {
		c.orders[k] = v
	}
	return c
}

// InTx implements service.Store.
func (s *MemStore) InTx(_ context.Context, fn func(tx service.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.data.clone()
	if err := fn(&memTx{d: &work}); err != nil {
		return err
	}
	s.data = work
	return nil
}

// ----- seeding and inspection helpers -----

// AddWorkshop stores w with a fresh id and returns it.
func (s *MemStore) AddWorkshop(w model.Workshop) model.Workshop {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.nextID++
	w.ID = s.data.nextID
	s.data.workshops[w.ID] = w
	return w
}

// AddCustomer stores c with a fresh id and returns it.
func (s *MemStore) AddCustomer(c model.Customer) model.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.nextID++
	c.ID = s.data.nextID
	c.Email = repository.NormalizeEmail(c.Email)
	s.data.customers[c.ID] = c
	return c
}

// AddProduct stores p with a fresh id and returns it.
func (s *MemStore) AddProduct(p model.Product) model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.nextID++
	p.ID = s.data.nextID
	s.data.products[p.ID] = p
	return p
}

// Workshop returns the current state of a workshop.
func (s *MemStore) Workshop(id uint64) model.Workshop {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.workshops[id]
}

// Product returns the current state of a product.
func (s *MemStore) Product(id uint64) model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.products[id]
}

// CustomerByEmail returns the customer owning email, zero when absent.
func (s *MemStore) CustomerByEmail(email string) model.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	norm := repository.NormalizeEmail(email)
	for _, c := range s.data.customers {
		if c.Email == norm {
			return c
		}
	}
	return model.Customer{}
}

// CustomerCount reports how many customer rows exist.
func (s *MemStore) CustomerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.customers)
}

// EnrollmentCount reports how many enrollment rows exist.
func (s *MemStore) EnrollmentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.enrollments)
}

// Orders returns all orders.
func (s *MemStore) Orders() []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Order, 0, len(s.data.orders))
	for _, o := range s.data.orders {
		out = append(out, o)
	}
	return out
}

// OrderItems returns all order items.
func (s *MemStore) OrderItems() []model.OrderItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.OrderItem(nil), s.data.items...)
}

// ----- transaction view -----

type memTx struct {
	d *memData
}

func (t *memTx) nextID() uint64 {
	t.d.nextID++
	return t.d.nextID
}

func (t *memTx) WorkshopByID(_ context.Context, id uint64) (model.Workshop, error) {
	w, ok := t.d.workshops[id]
	if !ok {
		return model.Workshop{}, repository.ErrWorkshopNotFound
	}
	return w, nil
}

func (t *memTx) ReserveSeat(_ context.Context, workshopID uint64) error {
	w, ok := t.d.workshops[workshopID]
	if !ok || w.SeatsTaken >= w.TotalSeats {
		return repository.ErrCapacityExceeded
	}
	w.SeatsTaken++
	t.d.workshops[workshopID] = w
	return nil
}

func (t *memTx) ReleaseSeat(_ context.Context, workshopID uint64) error {
	w, ok := t.d.workshops[workshopID]
	if ok && w.SeatsTaken > 0 {
		w.SeatsTaken--
		t.d.workshops[workshopID] = w
	}
	return nil
}

func (t *memTx) CreateEnrollment(_ context.Context, e *model.Enrollment) error {
	e.ID = t.nextID()
	e.EnrolledAt = time.Now().UTC()
	t.d.enrollments[e.ID] = *e
	return nil
}

func (t *memTx) EnrollmentByToken(_ context.Context, token string) (service.Cancellation, error) {
	for _, e := range t.d.enrollments {
		if e.CancelToken == token {
			return service.Cancellation{
				EnrollmentID: e.ID,
				WorkshopID:   e.WorkshopID,
				WorkshopName: t.d.workshops[e.WorkshopID].Name,
				CustomerName: t.d.customers[e.CustomerID].Name,
			}, nil
		}
	}
	return service.Cancellation{}, repository.ErrEnrollmentNotFound
}

func (t *memTx) DeleteEnrollment(_ context.Context, id uint64) error {
	if _, ok := t.d.enrollments[id]; !ok {
		return repository.ErrEnrollmentNotFound
	}
	delete(t.d.enrollments, id)
	return nil
}

func (t *memTx) CustomerByEmail(_ context.Context, email string) (model.Customer, error) {
	norm := repository.NormalizeEmail(email)
	for _, c := range t.d.customers {
		if c.Email == norm {
			return c, nil
		}
	}
	return model.Customer{}, repository.ErrCustomerNotFound
}

func (t *memTx) UpsertGuestCustomer(ctx context.Context, name, email, phone, interests string) (model.Customer, error) {
	if c, err := t.CustomerByEmail(ctx, email); err == nil {
		return c, nil
	}
	c := model.Customer{
		ID:           t.nextID(),
		Name:         strings.TrimSpace(name),
		Email:        repository.NormalizeEmail(email),
		Role:         model.RoleCustomer,
		RegisteredAt: time.Now().UTC(),
	}
	if phone != "" {
		c.Phone = &phone
	}
	if interests != "" {
		c.Interests = &interests
	}
	t.d.customers[c.ID] = c
	return c, nil
}

func (t *memTx) CreateRegisteredCustomer(ctx context.Context, name, email, phone, passwordHash, verifyToken string) (uint64, error) {
	if _, err := t.CustomerByEmail(ctx, email); err == nil {
		return 0, repository.ErrEmailExists
	}
	c := model.Customer{
		ID:           t.nextID(),
		Name:         strings.TrimSpace(name),
		Email:        repository.NormalizeEmail(email),
		Role:         model.RoleCustomer,
		RegisteredAt: time.Now().UTC(),
		PasswordHash: &passwordHash,
		VerifyToken:  &verifyToken,
	}
	if phone != "" {
		c.Phone = &phone
	}
	t.d.customers[c.ID] = c
	return c.ID, nil
}

func (t *memTx) UpgradeGuestCustomer(_ context.Context, id uint64, name, phone, passwordHash, verifyToken string) error {
	c, ok := t.d.customers[id]
	if !ok {
		return repository.ErrCustomerNotFound
	}
	c.Name = strings.TrimSpace(name)
	c.PasswordHash = &passwordHash
	c.VerifyToken = &verifyToken
	if phone != "" {
		c.Phone = &phone
	}
	t.d.customers[id] = c
	return nil
}

func (t *memTx) SetResetToken(_ context.Context, customerID uint64, token string, expires time.Time) error {
	c, ok := t.d.customers[customerID]
	if !ok {
		return repository.ErrCustomerNotFound
	}
	c.ResetToken = &token
	c.ResetExpiresAt = &expires
	t.d.customers[customerID] = c
	return nil
}

func (t *memTx) CustomerByResetToken(_ context.Context, token string, now time.Time) (model.Customer, error) {
	for _, c := range t.d.customers {
		if c.ResetToken != nil && *c.ResetToken == token &&
			c.ResetExpiresAt != nil && c.ResetExpiresAt.After(now) {
			return c, nil
		}
	}
	return model.Customer{}, repository.ErrCustomerNotFound
}

func (t *memTx) SetPassword(_ context.Context, customerID uint64, passwordHash string) error {
	c, ok := t.d.customers[customerID]
	if !ok {
		return repository.ErrCustomerNotFound
	}
	c.PasswordHash = &passwordHash
	c.ResetToken = nil
	c.ResetExpiresAt = nil
	t.d.customers[customerID] = c
	return nil
}

func (t *memTx) MarkVerified(_ context.Context, verifyToken string) error {
	for id, c := range t.d.customers {
		if c.VerifyToken != nil && *c.VerifyToken == verifyToken {
			c.Verified = true
			c.VerifyToken = nil
			t.d.customers[id] = c
			return nil
		}
	}
	return repository.ErrCustomerNotFound
}

func (t *memTx) ProductByID(_ context.Context, id uint64) (model.Product, error) {
	p, ok := t.d.products[id]
	if !ok {
		return model.Product{}, repository.ErrProductNotFound
	}
	return p, nil
}

func (t *memTx) DecrementStock(_ context.Context, productID uint64, qty uint32) error {
	p, ok := t.d.products[productID]
	if !ok || p.Stock < qty {
		return repository.ErrOutOfStock
	}
	p.Stock -= qty
	t.d.products[productID] = p
	return nil
}

func (t *memTx) CreateOrder(_ context.Context, o *model.Order) error {
	o.ID = t.nextID()
	o.CreatedAt = time.Now().UTC()
	t.d.orders[o.ID] = *o
	return nil
}

func (t *memTx) CreateOrderItems(_ context.Context, items []model.OrderItem) error {
	for i := range items {
		items[i].ID = t.nextID()
		t.d.items = append(t.d.items, items[i])
	}
	return nil
}
