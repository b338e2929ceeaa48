package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Vznu7/one-piece-web-application/apperrors"
	"github.com/Vznu7/one-piece-web-application/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MemoryStore keeps everything in process. It backs the test suite and the
// "memory" database driver.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]models.User
	products  map[string]models.Product
	orders    map[string]models.Order
	addresses map[string]models.Address
	itemSeq   uint
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]models.User),
		products:  make(map[string]models.Product),
		orders:    make(map[string]models.Order),
		addresses: make(map[string]models.Address),
		now:       time.Now,
	}
}

func (s *MemoryStore) Migrate(context.Context) error { return nil }

func copyOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	return o
}

func copyProduct(p models.Product) models.Product {
	p.Sizes = append(models.StringList(nil), p.Sizes...)
	p.Images = append(models.StringList(nil), p.Images...)
	return p
}

// -------- Users --------

func (s *MemoryStore) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = models.RoleCustomer
	}
	u.CreatedAt = s.now()
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.NotFound("user")
	}
	return &u, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperrors.NotFound("user")
}

// -------- Products --------

func (s *MemoryStore) UpsertProduct(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.products {
		if existing.Slug == p.Slug {
			*p = copyProduct(existing)
			return nil
		}
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := s.now()
	p.CreatedAt, p.UpdatedAt = now, now
	s.products[p.ID] = copyProduct(*p)
	return nil
}

func (s *MemoryStore) GetProduct(_ context.Context, id string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.products[id]; ok {
		p = copyProduct(p)
		return &p, nil
	}
	for _, p := range s.products {
		if p.Slug == id {
			p = copyProduct(p)
			return &p, nil
		}
	}
	return nil, apperrors.NotFound("product")
}

func (s *MemoryStore) GetProducts(_ context.Context, ids []string) (map[string]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]models.Product, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out[id] = copyProduct(p)
		}
	}
	return out, nil
}

func (s *MemoryStore) ListProducts(context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, copyProduct(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Featured != out[j].Featured {
			return out[i].Featured
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *MemoryStore) UpdateProductPrice(_ context.Context, id string, price decimal.Decimal) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, apperrors.NotFound("product")
	}
	p.Price = price
	p.UpdatedAt = s.now()
	s.products[id] = p
	p = copyProduct(p)
	return &p, nil
}

// -------- Orders --------

func (s *MemoryStore) CreateOrder(_ context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	for _, existing := range s.orders {
		if existing.OrderNumber == o.OrderNumber {
			return apperrors.Invalid("orderNumber", "order number %s already exists", o.OrderNumber)
		}
	}
	if o.Status == "" {
		o.Status = models.OrderStatusPending
	}
	if o.PaymentStatus == "" {
		o.PaymentStatus = models.PaymentStatusPending
	}
	for i := range o.Items {
		s.itemSeq++
		o.Items[i].ID = s.itemSeq
		o.Items[i].OrderID = o.ID
	}
	now := s.now()
	o.CreatedAt, o.UpdatedAt = now, now
	s.orders[o.ID] = copyOrder(*o)
	return nil
}

func (s *MemoryStore) GetOrder(_ context.Context, id string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, apperrors.NotFound("order")
	}
	o = copyOrder(o)
	return &o, nil
}

func (s *MemoryStore) GetOrderByNumber(_ context.Context, number string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.orders {
		if o.OrderNumber == number {
			o = copyOrder(o)
			return &o, nil
		}
	}
	return nil, apperrors.NotFound("order")
}

func (s *MemoryStore) ListOrders(_ context.Context, f models.OrderFilter) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Order
	for _, o := range s.orders {
		if f.UserID != "" && o.UserID != f.UserID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.PaymentStatus != "" && o.PaymentStatus != f.PaymentStatus {
			continue
		}
		out = append(out, copyOrder(o))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].OrderNumber > out[j].OrderNumber
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) UpdateOrder(_ context.Context, id string, fn func(*models.Order) error) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.orders[id]
	if !ok {
		return nil, apperrors.NotFound("order")
	}
	o := copyOrder(current)
	if err := fn(&o); err != nil {
		return nil, err
	}
	if err := checkPaidTransition(current.PaymentStatus, o.PaymentStatus); err != nil {
		return nil, err
	}
	current.Status = o.Status
	current.PaymentStatus = o.PaymentStatus
	current.TrackingNumber = o.TrackingNumber
	current.ProviderOrderID = o.ProviderOrderID
	current.UpdatedAt = s.now()
	s.orders[id] = current

	out := copyOrder(current)
	return &out, nil
}

func (s *MemoryStore) MarkPaid(_ context.Context, id, providerOrderID, providerPaymentID string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, apperrors.NotFound("order")
	}
	if o.PaymentStatus != models.PaymentStatusPaid {
		if err := payable(&o); err != nil {
			return nil, err
		}
		o.PaymentStatus = models.PaymentStatusPaid
		o.Status = models.OrderStatusProcessing
		o.ProviderOrderID = providerOrderID
		o.ProviderPaymentID = providerPaymentID
		o.UpdatedAt = s.now()
		s.orders[id] = o
	}
	out := copyOrder(o)
	return &out, nil
}

// -------- Addresses --------

func (s *MemoryStore) ListAddresses(_ context.Context, userID string) ([]models.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Address
	for _, a := range s.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) GetAddress(_ context.Context, userID, id string) (*models.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.addresses[id]
	if !ok || a.UserID != userID {
		return nil, apperrors.NotFound("address")
	}
	return &a, nil
}

// clearDefaultLocked must be called with mu held.
func (s *MemoryStore) clearDefaultLocked(userID, keepID string) {
	for id, a := range s.addresses {
		if a.UserID == userID && a.IsDefault && id != keepID {
			a.IsDefault = false
			s.addresses[id] = a
		}
	}
}

func (s *MemoryStore) CreateAddress(_ context.Context, a *models.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := s.now()
	a.CreatedAt, a.UpdatedAt = now, now
	if a.IsDefault {
		s.clearDefaultLocked(a.UserID, a.ID)
	}
	s.addresses[a.ID] = *a
	return nil
}

func (s *MemoryStore) UpdateAddress(_ context.Context, userID, id string, fn func(*models.Address)) (*models.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.addresses[id]
	if !ok || a.UserID != userID {
		return nil, apperrors.NotFound("address")
	}
	fn(&a)
	a.ID, a.UserID = id, userID
	a.UpdatedAt = s.now()
	if a.IsDefault {
		s.clearDefaultLocked(userID, id)
	}
	s.addresses[id] = a
	return &a, nil
}

func (s *MemoryStore) DeleteAddress(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.addresses[id]
	if !ok || a.UserID != userID {
		return apperrors.NotFound("address")
	}
	delete(s.addresses, id)
	return nil
}

func (s *MemoryStore) SetDefaultAddress(_ context.Context, userID, id string) (*models.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.addresses[id]
	if !ok || a.UserID != userID {
		return nil, apperrors.NotFound("address")
	}
	s.clearDefaultLocked(userID, id)
	a.IsDefault = true
	a.UpdatedAt = s.now()
	s.addresses[id] = a
	return &a, nil
}
