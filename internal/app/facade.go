package app

import (
	"context"

	"github.com/polkiloo/weddingmart/internal/domain/model"
	"github.com/polkiloo/weddingmart/internal/usecase"
)

type MarketplaceFacade struct {
	auth     *usecase.AuthUseCase
	catalog  *usecase.CatalogUseCase
	checkout *usecase.CheckoutUseCase
	bookings *usecase.BookingUseCase
}

func NewMarketplaceFacade(auth *usecase.AuthUseCase, catalog *usecase.CatalogUseCase, checkout *usecase.CheckoutUseCase, bookings *usecase.BookingUseCase) *MarketplaceFacade {
	return &MarketplaceFacade{auth: auth, catalog: catalog, checkout: checkout, bookings: bookings}
}

func (f *MarketplaceFacade) Register(ctx context.Context, in model.Registration) (*model.User, string, error) {
	return f.auth.Register(ctx, in)
}

func (f *MarketplaceFacade) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	return f.auth.Authenticate(ctx, email, password)
}

func (f *MarketplaceFacade) ParseToken(token string) (model.Principal, error) {
	return f.auth.ParseToken(token)
}

func (f *MarketplaceFacade) Profile(ctx context.Context, userID string) (*model.User, error) {
	return f.auth.GetByID(ctx, userID)
}

func (f *MarketplaceFacade) EnsureAdmin(ctx context.Context, in model.Registration) (*model.User, bool, error) {
	return f.auth.EnsureAdmin(ctx, in)
}

func (f *MarketplaceFacade) Services(ctx context.Context) ([]model.Service, error) {
	return f.catalog.List(ctx)
}

func (f *MarketplaceFacade) Service(ctx context.Context, id string) (*model.Service, error) {
	return f.catalog.Get(ctx, id)
}

func (f *MarketplaceFacade) CreateService(ctx context.Context, in model.ServiceDraft) (*model.Service, error) {
	return f.catalog.Create(ctx, in)
}

func (f *MarketplaceFacade) SetServiceAvailability(ctx context.Context, id string, available bool) (*model.Service, error) {
	return f.catalog.SetAvailability(ctx, id, available)
}

func (f *MarketplaceFacade) CreateOrder(ctx context.Context, userID string, items []model.CartItem, event model.EventDetails) (*model.CheckoutOrder, error) {
	return f.checkout.CreateOrder(ctx, userID, items, event)
}

func (f *MarketplaceFacade) VerifyPayment(ctx context.Context, cb model.PaymentCallback) (*model.BookingDetails, bool, error) {
	return f.checkout.VerifyPayment(ctx, cb)
}

func (f *MarketplaceFacade) PaymentDetails(ctx context.Context, principal model.Principal, bookingID string) (*model.BookingDetails, error) {
	return f.checkout.PaymentDetails(ctx, principal, bookingID)
}

func (f *MarketplaceFacade) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	return f.checkout.HandleWebhook(ctx, body, signature)
}

func (f *MarketplaceFacade) MyBookings(ctx context.Context, userID string) ([]model.BookingDetails, error) {
	return f.bookings.MyBookings(ctx, userID)
}

func (f *MarketplaceFacade) Booking(ctx context.Context, principal model.Principal, id string) (*model.BookingDetails, error) {
	return f.bookings.Get(ctx, principal, id)
}

func (f *MarketplaceFacade) Bookings(ctx context.Context, filter model.BookingFilter) ([]model.BookingDetails, error) {
	return f.bookings.List(ctx, filter)
}

func (f *MarketplaceFacade) UpdateBookingStatus(ctx context.Context, id string, status model.BookingStatus) (*model.BookingDetails, error) {
	return f.bookings.UpdateStatus(ctx, id, status)
}

func (f *MarketplaceFacade) BookingStats(ctx context.Context) (*model.BookingStats, error) {
	return f.bookings.Stats(ctx)
}

func (f *MarketplaceFacade) ExportBookings(ctx context.Context) ([]model.BookingExportRow, error) {
	return f.bookings.Export(ctx)
}

func (f *MarketplaceFacade) CancelStaleBookings(ctx context.Context, limit int) ([]model.BookingDetails, error) {
	return f.bookings.CancelStale(ctx, limit)
}

func (f *MarketplaceFacade) NotifyCancelled(ctx context.Context, details model.BookingDetails) {
	f.bookings.NotifyCancelled(ctx, details)
}
