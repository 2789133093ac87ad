package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/polkiloo/weddingmart/internal/domain/model"
)

// AuthFacadeStub simulates authentication facade interactions.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, model.Registration) (*model.User, string, error)
	AuthenticateFn func(context.Context, string, string) (*model.User, string, error)
	ParseFn        func(string) (model.Principal, error)
	ProfileFn      func(context.Context, string) (*model.User, error)
}

// Register returns token for successful registration scenarios.
func (s AuthFacadeStub) Register(ctx context.Context, in model.Registration) (*model.User, string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, in)
	}
	return &model.User{ID: "user-1", Name: in.Name, Email: in.Email, Role: model.RoleUser}, "token", nil
}

// Authenticate returns token for successful authentication scenarios.
func (s AuthFacadeStub) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, email, password)
	}
	return &model.User{ID: "user-1", Email: email, Role: model.RoleUser}, "token", nil
}

// ParseToken returns a customer principal unless overridden.
func (s AuthFacadeStub) ParseToken(token string) (model.Principal, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return model.Principal{UserID: "user-1", Role: model.RoleUser}, nil
}

// Profile returns stored user.
func (s AuthFacadeStub) Profile(ctx context.Context, userID string) (*model.User, error) {
	if s.ProfileFn != nil {
		return s.ProfileFn(ctx, userID)
	}
	return &model.User{ID: userID, Role: model.RoleUser}, nil
}

// CatalogFacadeStub simulates catalog operations.
type CatalogFacadeStub struct {
	ServicesFn     func(context.Context) ([]model.Service, error)
	ServiceFn      func(context.Context, string) (*model.Service, error)
	CreateFn       func(context.Context, model.ServiceDraft) (*model.Service, error)
	AvailabilityFn func(context.Context, string, bool) (*model.Service, error)
}

// Services returns configured list.
func (s CatalogFacadeStub) Services(ctx context.Context) ([]model.Service, error) {
	if s.ServicesFn != nil {
		return s.ServicesFn(ctx)
	}
	return []model.Service{{ID: "svc-1", Name: "Mandap", Category: model.CategoryDecoration, Price: 100000, Available: true}}, nil
}

// Service returns a single catalog entry.
func (s CatalogFacadeStub) Service(ctx context.Context, id string) (*model.Service, error) {
	if s.ServiceFn != nil {
		return s.ServiceFn(ctx, id)
	}
	return &model.Service{ID: id, Name: "Mandap", Available: true}, nil
}

// CreateService echoes input.
func (s CatalogFacadeStub) CreateService(ctx context.Context, in model.ServiceDraft) (*model.Service, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, in)
	}
	return &model.Service{ID: "svc-new", Name: in.Name, Category: in.Category, PricingType: in.PricingType, Price: in.Price, Available: in.Available}, nil
}

// SetServiceAvailability toggles availability.
func (s CatalogFacadeStub) SetServiceAvailability(ctx context.Context, id string, available bool) (*model.Service, error) {
	if s.AvailabilityFn != nil {
		return s.AvailabilityFn(ctx, id, available)
	}
	return &model.Service{ID: id, Available: available}, nil
}

// PaymentFacadeStub simulates checkout operations.
type PaymentFacadeStub struct {
	CreateOrderFn func(context.Context, string, []model.CartItem, model.EventDetails) (*model.CheckoutOrder, error)
	VerifyFn      func(context.Context, model.PaymentCallback) (*model.BookingDetails, bool, error)
	DetailsFn     func(context.Context, model.Principal, string) (*model.BookingDetails, error)
	WebhookFn     func(context.Context, []byte, string) error
}

// CreateOrder returns an order for the cart.
func (s PaymentFacadeStub) CreateOrder(ctx context.Context, userID string, items []model.CartItem, event model.EventDetails) (*model.CheckoutOrder, error) {
	if s.CreateOrderFn != nil {
		return s.CreateOrderFn(ctx, userID, items, event)
	}
	booking := &model.Booking{ID: "booking-1", UserID: userID, TotalAmount: 150000, Currency: model.CurrencyINR,
		Status: model.BookingStatusPending, PaymentStatus: model.PaymentStatusPending, GatewayOrderID: "order_1"}
	return &model.CheckoutOrder{
		Order:   model.GatewayOrder{ID: "order_1", Amount: 150000, Currency: model.CurrencyINR, Receipt: "booking_1", Status: "created"},
		KeyID:   "rzp_test_key",
		Booking: booking,
		User:    &model.User{ID: userID},
	}, nil
}

// VerifyPayment confirms booking.
func (s PaymentFacadeStub) VerifyPayment(ctx context.Context, cb model.PaymentCallback) (*model.BookingDetails, bool, error) {
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, cb)
	}
	return &model.BookingDetails{Booking: &model.Booking{ID: "booking-1", GatewayOrderID: cb.GatewayOrderID,
		GatewayPaymentID: cb.GatewayPaymentID, Status: model.BookingStatusConfirmed, PaymentStatus: model.PaymentStatusCompleted}}, true, nil
}

// PaymentDetails returns booking details.
func (s PaymentFacadeStub) PaymentDetails(ctx context.Context, principal model.Principal, bookingID string) (*model.BookingDetails, error) {
	if s.DetailsFn != nil {
		return s.DetailsFn(ctx, principal, bookingID)
	}
	return &model.BookingDetails{Booking: &model.Booking{ID: bookingID, UserID: principal.UserID}}, nil
}

// HandleWebhook accepts every event.
func (s PaymentFacadeStub) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if s.WebhookFn != nil {
		return s.WebhookFn(ctx, body, signature)
	}
	return nil
}

// BookingFacadeStub simulates booking reads and administration.
type BookingFacadeStub struct {
	MyBookingsFn   func(context.Context, string) ([]model.BookingDetails, error)
	BookingFn      func(context.Context, model.Principal, string) (*model.BookingDetails, error)
	BookingsFn     func(context.Context, model.BookingFilter) ([]model.BookingDetails, error)
	UpdateStatusFn func(context.Context, string, model.BookingStatus) (*model.BookingDetails, error)
	StatsFn        func(context.Context) (*model.BookingStats, error)
	ExportFn       func(context.Context) ([]model.BookingExportRow, error)
}

// MyBookings returns owner bookings.
func (s BookingFacadeStub) MyBookings(ctx context.Context, userID string) ([]model.BookingDetails, error) {
	if s.MyBookingsFn != nil {
		return s.MyBookingsFn(ctx, userID)
	}
	return []model.BookingDetails{{Booking: &model.Booking{ID: "booking-1", UserID: userID}}}, nil
}

// Booking returns a single booking.
func (s BookingFacadeStub) Booking(ctx context.Context, principal model.Principal, id string) (*model.BookingDetails, error) {
	if s.BookingFn != nil {
		return s.BookingFn(ctx, principal, id)
	}
	return &model.BookingDetails{Booking: &model.Booking{ID: id, UserID: principal.UserID}}, nil
}

// Bookings returns filtered bookings.
func (s BookingFacadeStub) Bookings(ctx context.Context, filter model.BookingFilter) ([]model.BookingDetails, error) {
	if s.BookingsFn != nil {
		return s.BookingsFn(ctx, filter)
	}
	return nil, nil
}

// UpdateBookingStatus applies status.
func (s BookingFacadeStub) UpdateBookingStatus(ctx context.Context, id string, status model.BookingStatus) (*model.BookingDetails, error) {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, id, status)
	}
	return &model.BookingDetails{Booking: &model.Booking{ID: id, Status: status}}, nil
}

// BookingStats returns empty stats unless overridden.
func (s BookingFacadeStub) BookingStats(ctx context.Context) (*model.BookingStats, error) {
	if s.StatsFn != nil {
		return s.StatsFn(ctx)
	}
	return &model.BookingStats{}, nil
}

// ExportBookings returns configured rows.
func (s BookingFacadeStub) ExportBookings(ctx context.Context) ([]model.BookingExportRow, error) {
	if s.ExportFn != nil {
		return s.ExportFn(ctx)
	}
	return nil, nil
}

// MarketplaceFacadeStub aggregates facade dependencies for HTTP layer tests.
type MarketplaceFacadeStub struct {
	AuthFacadeStub
	CatalogFacadeStub
	PaymentFacadeStub
	BookingFacadeStub
}

// SweeperFacadeStub mimics worker interactions with the marketplace facade.
type SweeperFacadeStub struct {
	Batches   [][]model.BookingDetails
	CancelFn  func(context.Context, int) ([]model.BookingDetails, error)
	Notified  []string
	Limits    []int
	mu        sync.Mutex
	callCount int32
}

// CancelStaleBookings returns batches from configured queue.
func (s *SweeperFacadeStub) CancelStaleBookings(ctx context.Context, limit int) ([]model.BookingDetails, error) {
	s.mu.Lock()
	s.Limits = append(s.Limits, limit)
	s.mu.Unlock()
	if s.CancelFn != nil {
		return s.CancelFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.callCount, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// NotifyCancelled records notified booking ids.
func (s *SweeperFacadeStub) NotifyCancelled(ctx context.Context, details model.BookingDetails) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Notified = append(s.Notified, details.Booking.ID)
}

// NotifiedIDs returns a copy of notified ids.
func (s *SweeperFacadeStub) NotifiedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.Notified))
	copy(out, s.Notified)
	return out
}

// Lock exposes internal mutex for external synchronization.
func (s *SweeperFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *SweeperFacadeStub) Unlock() { s.mu.Unlock() }
