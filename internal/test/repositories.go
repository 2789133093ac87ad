package test

import (
	"context"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/weddingmart/internal/domain/errors"
	"github.com/polkiloo/weddingmart/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[string]*model.User
	Err   error
	mu    sync.Mutex
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub(users ...model.User) *UserRepositoryStub {
	s := &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[string]*model.User),
	}
	for i := range users {
		u := users[i]
		s.Users[u.Email] = &u
		s.ByID[u.ID] = &u
	}
	return s
}

// Create registers user unless email is taken or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, user *model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[string]*model.User)
	}
	if _, exists := s.Users[user.Email]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	stored := *user
	stored.CreatedAt = time.Unix(0, 0).UTC()
	s.Users[stored.Email] = &stored
	s.ByID[stored.ID] = &stored
	out := stored
	return &out, nil
}

// GetByEmail fetches user by email or returns not found.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[email]; ok {
		out := *user
		return &out, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		out := *user
		return &out, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ServiceRepositoryStub keeps catalog entries in-memory.
type ServiceRepositoryStub struct {
	Services    map[string]model.Service
	GetByIDsFn  func(context.Context, []string) ([]model.Service, error)
	Err         error
	GetByIDsHit int
	mu          sync.Mutex
}

// NewServiceRepositoryStub seeds the catalog with services.
func NewServiceRepositoryStub(services ...model.Service) *ServiceRepositoryStub {
	s := &ServiceRepositoryStub{Services: make(map[string]model.Service)}
	for _, svc := range services {
		s.Services[svc.ID] = svc
	}
	return s
}

// Create stores service.
func (s *ServiceRepositoryStub) Create(ctx context.Context, service *model.Service) (*model.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Services == nil {
		s.Services = make(map[string]model.Service)
	}
	s.Services[service.ID] = *service
	out := *service
	return &out, nil
}

// GetByID returns service or not found.
func (s *ServiceRepositoryStub) GetByID(ctx context.Context, id string) (*model.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if svc, ok := s.Services[id]; ok {
		return &svc, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByIDs returns known services among ids ordered by name, like the database does.
func (s *ServiceRepositoryStub) GetByIDs(ctx context.Context, ids []string) ([]model.Service, error) {
	s.mu.Lock()
	s.GetByIDsHit++
	s.mu.Unlock()
	if s.GetByIDsFn != nil {
		return s.GetByIDsFn(ctx, ids)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	seen := make(map[string]struct{}, len(ids))
	var out []model.Service
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if svc, ok := s.Services[id]; ok {
			out = append(out, svc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ListAvailable returns available services.
func (s *ServiceRepositoryStub) ListAvailable(ctx context.Context) ([]model.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Service
	for _, svc := range s.Services {
		if svc.Available {
			out = append(out, svc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// SetAvailability toggles the available flag.
func (s *ServiceRepositoryStub) SetAvailability(ctx context.Context, id string, available bool) (*model.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	svc, ok := s.Services[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	svc.Available = available
	s.Services[id] = svc
	return &svc, nil
}

// StatusUpdateCall records UpdateStatus invocations.
type StatusUpdateCall struct {
	ID   string
	From model.BookingStatus
	To   model.BookingStatus
}

// BookingRepositoryStub holds bookings in memory and applies the same
// compare-and-set rules as the database.
type BookingRepositoryStub struct {
	Bookings map[string]*model.Booking

	CreateFn         func(context.Context, *model.Booking) (*model.Booking, error)
	ConfirmPaymentFn func(context.Context, model.PaymentCallback) (*model.Booking, bool, error)
	ListFn           func(context.Context, model.BookingFilter) ([]model.Booking, error)
	CancelStaleFn    func(context.Context, time.Time, int) ([]model.Booking, error)
	StatsFn          func(context.Context, time.Time) (*model.BookingStats, error)
	ExportFn         func(context.Context) ([]model.BookingExportRow, error)
	Err              error

	Created       []model.Booking
	Confirmations int
	StatusUpdates []StatusUpdateCall
	mu            sync.Mutex
}

// NewBookingRepositoryStub seeds the store with bookings.
func NewBookingRepositoryStub(bookings ...model.Booking) *BookingRepositoryStub {
	s := &BookingRepositoryStub{Bookings: make(map[string]*model.Booking)}
	for i := range bookings {
		b := bookings[i]
		s.Bookings[b.ID] = &b
	}
	return s
}

// Snapshot returns a copy of stored booking.
func (s *BookingRepositoryStub) Snapshot(id string) (model.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.Bookings[id]
	if !ok {
		return model.Booking{}, false
	}
	return *b, true
}

// Count returns number of stored bookings.
func (s *BookingRepositoryStub) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Bookings)
}

func (s *BookingRepositoryStub) byOrder(orderID string) *model.Booking {
	for _, b := range s.Bookings {
		if b.GatewayOrderID == orderID {
			return b
		}
	}
	return nil
}

// Create stores a new booking.
func (s *BookingRepositoryStub) Create(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, booking)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Bookings == nil {
		s.Bookings = make(map[string]*model.Booking)
	}
	if _, exists := s.Bookings[booking.ID]; exists || s.byOrder(booking.GatewayOrderID) != nil {
		return nil, domainErrors.ErrAlreadyExists
	}
	stored := *booking
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	s.Bookings[stored.ID] = &stored
	s.Created = append(s.Created, stored)
	out := stored
	return &out, nil
}

// GetByID returns booking or ErrBookingNotFound.
func (s *BookingRepositoryStub) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if b, ok := s.Bookings[id]; ok {
		out := *b
		return &out, nil
	}
	return nil, domainErrors.ErrBookingNotFound
}

// GetByGatewayOrderID returns booking bound to gateway order.
func (s *BookingRepositoryStub) GetByGatewayOrderID(ctx context.Context, orderID string) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if b := s.byOrder(orderID); b != nil {
		out := *b
		return &out, nil
	}
	return nil, domainErrors.ErrBookingNotFound
}

func (s *BookingRepositoryStub) sorted(match func(*model.Booking) bool) []model.Booking {
	var out []model.Booking
	for _, b := range s.Bookings {
		if match(b) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// ListByUser returns bookings owned by user, newest first.
func (s *BookingRepositoryStub) ListByUser(ctx context.Context, userID string) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.sorted(func(b *model.Booking) bool { return b.UserID == userID }), nil
}

// List applies status filters and paging.
func (s *BookingRepositoryStub) List(ctx context.Context, filter model.BookingFilter) ([]model.Booking, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, filter)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	all := s.sorted(func(b *model.Booking) bool {
		return (filter.Status == "" || b.Status == filter.Status) &&
			(filter.PaymentStatus == "" || b.PaymentStatus == filter.PaymentStatus)
	})
	if filter.Offset >= len(all) {
		return nil, nil
	}
	all = all[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(all) {
		all = all[:filter.Limit]
	}
	return all, nil
}

// ConfirmPayment completes payment only while booking is Pending with an open payment.
func (s *BookingRepositoryStub) ConfirmPayment(ctx context.Context, cb model.PaymentCallback) (*model.Booking, bool, error) {
	if s.ConfirmPaymentFn != nil {
		return s.ConfirmPaymentFn(ctx, cb)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, false, s.Err
	}
	b := s.byOrder(cb.GatewayOrderID)
	if b == nil {
		return nil, false, domainErrors.ErrBookingNotFound
	}
	if b.Status != model.BookingStatusPending || !b.PaymentStatus.IsOpen() {
		out := *b
		return &out, false, nil
	}
	b.PaymentStatus = model.PaymentStatusCompleted
	b.Status = model.BookingStatusConfirmed
	b.GatewayPaymentID = cb.GatewayPaymentID
	b.GatewaySignature = cb.Signature
	b.UpdatedAt = time.Now().UTC()
	s.Confirmations++
	out := *b
	return &out, true, nil
}

// FailPayment marks open payment as failed.
func (s *BookingRepositoryStub) FailPayment(ctx context.Context, orderID string) (*model.Booking, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, false, s.Err
	}
	b := s.byOrder(orderID)
	if b == nil {
		return nil, false, domainErrors.ErrBookingNotFound
	}
	if !b.PaymentStatus.IsOpen() {
		out := *b
		return &out, false, nil
	}
	b.PaymentStatus = model.PaymentStatusFailed
	out := *b
	return &out, true, nil
}

// UpdateStatus changes order status when the stored value still equals from.
func (s *BookingRepositoryStub) UpdateStatus(ctx context.Context, id string, from, to model.BookingStatus) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	s.StatusUpdates = append(s.StatusUpdates, StatusUpdateCall{ID: id, From: from, To: to})
	b, ok := s.Bookings[id]
	if !ok {
		return nil, domainErrors.ErrBookingNotFound
	}
	if b.Status != from {
		return nil, domainErrors.ErrInvalidTransition
	}
	b.Status = to
	out := *b
	return &out, nil
}

// CancelStale cancels Pending bookings with open payment created before cutoff.
func (s *BookingRepositoryStub) CancelStale(ctx context.Context, cutoff time.Time, limit int) ([]model.Booking, error) {
	if s.CancelStaleFn != nil {
		return s.CancelStaleFn(ctx, cutoff, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	stale := s.sorted(func(b *model.Booking) bool {
		return b.Status == model.BookingStatusPending && b.PaymentStatus.IsOpen() && b.CreatedAt.Before(cutoff)
	})
	if len(stale) > limit {
		stale = stale[:limit]
	}
	for i := range stale {
		s.Bookings[stale[i].ID].Status = model.BookingStatusCancelled
		stale[i].Status = model.BookingStatusCancelled
	}
	return stale, nil
}

// Stats returns configured stats.
func (s *BookingRepositoryStub) Stats(ctx context.Context, now time.Time) (*model.BookingStats, error) {
	if s.StatsFn != nil {
		return s.StatsFn(ctx, now)
	}
	return &model.BookingStats{}, s.Err
}

// Export returns configured rows.
func (s *BookingRepositoryStub) Export(ctx context.Context) ([]model.BookingExportRow, error) {
	if s.ExportFn != nil {
		return s.ExportFn(ctx)
	}
	return nil, s.Err
}
