package handlers

import (
	"context"

	"github.com/polkiloo/weddingmart/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, in model.Registration) (*model.User, string, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, string, error)
	ParseToken(token string) (model.Principal, error)
	Profile(ctx context.Context, userID string) (*model.User, error)
}

// CatalogFacade exposes vendor services.
type CatalogFacade interface {
	Services(ctx context.Context) ([]model.Service, error)
	Service(ctx context.Context, id string) (*model.Service, error)
	CreateService(ctx context.Context, in model.ServiceDraft) (*model.Service, error)
	SetServiceAvailability(ctx context.Context, id string, available bool) (*model.Service, error)
}

// PaymentFacade encapsulates checkout operations exposed via HTTP.
type PaymentFacade interface {
	CreateOrder(ctx context.Context, userID string, items []model.CartItem, event model.EventDetails) (*model.CheckoutOrder, error)
	VerifyPayment(ctx context.Context, cb model.PaymentCallback) (*model.BookingDetails, bool, error)
	PaymentDetails(ctx context.Context, principal model.Principal, bookingID string) (*model.BookingDetails, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) error
}

// BookingFacade provides booking reads and back-office operations.
type BookingFacade interface {
	MyBookings(ctx context.Context, userID string) ([]model.BookingDetails, error)
	Booking(ctx context.Context, principal model.Principal, id string) (*model.BookingDetails, error)
	Bookings(ctx context.Context, filter model.BookingFilter) ([]model.BookingDetails, error)
	UpdateBookingStatus(ctx context.Context, id string, status model.BookingStatus) (*model.BookingDetails, error)
	BookingStats(ctx context.Context) (*model.BookingStats, error)
	ExportBookings(ctx context.Context) ([]model.BookingExportRow, error)
}

// MarketplaceFacade aggregates the full set of operations used across handlers.
type MarketplaceFacade interface {
	AuthFacade
	CatalogFacade
	PaymentFacade
	BookingFacade
}
