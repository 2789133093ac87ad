package repository

import (
	"context"
	"time"

	"github.com/polkiloo/weddingmart/internal/domain/model"
)

// BookingRepository persists bookings and their status transitions.
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*model.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]model.Booking, error)
	List(ctx context.Context, filter model.BookingFilter) ([]model.Booking, error)

	// ConfirmPayment moves an open payment to completed and the booking to confirmed
	// in one conditional update. The bool reports whether this call won the transition.
	// When it did not, the current state is returned.
	ConfirmPayment(ctx context.Context, callback model.PaymentCallback) (*model.Booking, bool, error)
	// FailPayment moves an open payment to failed. Same contract as ConfirmPayment.
	FailPayment(ctx context.Context, gatewayOrderID string) (*model.Booking, bool, error)
	// UpdateStatus changes fulfilment status only if it still equals from.
	UpdateStatus(ctx context.Context, id string, from, to model.BookingStatus) (*model.Booking, error)
	// CancelStale cancels up to limit unpaid pending bookings created before cutoff
	// and returns the ones it cancelled, oldest first.
	CancelStale(ctx context.Context, cutoff time.Time, limit int) ([]model.Booking, error)

	Stats(ctx context.Context, now time.Time) (*model.BookingStats, error)
	Export(ctx context.Context) ([]model.BookingExportRow, error)
}
