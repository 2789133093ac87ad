package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.uber.org/fx"

	"github.com/polkiloo/weddingmart/internal/config"
	domainErrors "github.com/polkiloo/weddingmart/internal/domain/errors"
	"github.com/polkiloo/weddingmart/internal/domain/model"
	"github.com/polkiloo/weddingmart/internal/domain/repository"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// bookingResolver attaches services and owner to bookings.
type bookingResolver struct {
	services repository.ServiceRepository
	users    repository.UserRepository
}

func (r bookingResolver) resolve(ctx context.Context, b *model.Booking) (*model.BookingDetails, error) {
	found, err := r.services.GetByIDs(ctx, uniqueIDs(b.ServiceIDs))
	if err != nil {
		return nil, fmt.Errorf("resolve services: %w", err)
	}
	byID := make(map[string]model.Service, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}
	services := make([]model.Service, 0, len(b.ServiceIDs))
	for _, id := range b.ServiceIDs {
		if s, ok := byID[id]; ok {
			services = append(services, s)
		}
	}

	user, err := r.users.GetByID(ctx, b.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	return &model.BookingDetails{Booking: b, Services: services, User: user}, nil
}

// bestEffort resolves details after a committed transition. Lookup failures
// must not turn a completed state change into an error.
func (r bookingResolver) bestEffort(ctx context.Context, b *model.Booking, logger *slog.Logger) *model.BookingDetails {
	details, err := r.resolve(ctx, b)
	if err != nil {
		logger.Error("resolve booking details", slog.String("booking_id", b.ID), slog.String("error", err.Error()))
		return &model.BookingDetails{Booking: b}
	}
	return details
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// BookingParams lists BookingUseCase collaborators.
type BookingParams struct {
	fx.In

	Bookings repository.BookingRepository
	Services repository.ServiceRepository
	Users    repository.UserRepository
	Notifier Notifier `optional:"true"`
	Observer Observer `optional:"true"`
	Config   *config.Config
	Logger   *slog.Logger
}

// BookingUseCase serves booking reads and back-office transitions.
type BookingUseCase struct {
	bookings   repository.BookingRepository
	resolver   bookingResolver
	notifier   Notifier
	observer   Observer
	pendingTTL time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// NewBookingUseCase constructs BookingUseCase.
func NewBookingUseCase(p BookingParams) *BookingUseCase {
	uc := &BookingUseCase{
		bookings:   p.Bookings,
		resolver:   bookingResolver{services: p.Services, users: p.Users},
		notifier:   p.Notifier,
		observer:   p.Observer,
		pendingTTL: p.Config.PendingTTL,
		logger:     p.Logger,
		now:        time.Now,
	}
	if uc.notifier == nil {
		uc.notifier = nopNotifier{}
	}
	if uc.observer == nil {
		uc.observer = nopObserver{}
	}
	return uc
}

// MyBookings lists bookings owned by userID, newest first.
func (u *BookingUseCase) MyBookings(ctx context.Context, userID string) ([]model.BookingDetails, error) {
	bookings, err := u.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.resolveAll(ctx, bookings)
}

func (u *BookingUseCase) resolveAll(ctx context.Context, bookings []model.Booking) ([]model.BookingDetails, error) {
	out := make([]model.BookingDetails, 0, len(bookings))
	for i := range bookings {
		details, err := u.resolver.resolve(ctx, &bookings[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *details)
	}
	return out, nil
}

// Get returns a booking to its owner or an admin.
func (u *BookingUseCase) Get(ctx context.Context, principal model.Principal, id string) (*model.BookingDetails, error) {
	booking, err := u.bookings.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if !booking.VisibleTo(principal) {
		return nil, domainErrors.ErrForbidden
	}
	return u.resolver.resolve(ctx, booking)
}

// List returns bookings matching filter for the back office.
func (u *BookingUseCase) List(ctx context.Context, filter model.BookingFilter) ([]model.BookingDetails, error) {
	switch {
	case filter.Limit <= 0:
		filter.Limit = defaultListLimit
	case filter.Limit > maxListLimit:
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	bookings, err := u.bookings.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return u.resolveAll(ctx, bookings)
}

// UpdateStatus moves a booking along its fulfilment lifecycle. Payment status
// is never touched here.
func (u *BookingUseCase) UpdateStatus(ctx context.Context, id string, next model.BookingStatus) (*model.BookingDetails, error) {
	if _, ok := model.ParseBookingStatus(string(next)); !ok {
		return nil, domainErrors.NewValidationError("status", "is not supported")
	}

	current, err := u.bookings.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if err := current.CanChangeStatus(next); err != nil {
		return nil, err
	}

	updated, err := u.bookings.UpdateStatus(ctx, current.ID, current.Status, next)
	if err != nil {
		return nil, err
	}
	u.logger.Info("booking status changed",
		slog.String("booking_id", updated.ID),
		slog.String("from", string(current.Status)),
		slog.String("to", string(next)),
	)

	details := u.resolver.bestEffort(ctx, updated, u.logger)
	if next == model.BookingStatusCancelled {
		u.NotifyCancelled(ctx, *details)
	}
	return details, nil
}

// Stats summarises bookings for the dashboard.
func (u *BookingUseCase) Stats(ctx context.Context) (*model.BookingStats, error) {
	return u.bookings.Stats(ctx, u.now())
}

// Export returns every booking flattened for spreadsheets.
func (u *BookingUseCase) Export(ctx context.Context) ([]model.BookingExportRow, error) {
	return u.bookings.Export(ctx)
}

// CancelStale cancels at most limit bookings left unpaid for longer than the
// configured TTL. A zero TTL disables the sweep.
func (u *BookingUseCase) CancelStale(ctx context.Context, limit int) ([]model.BookingDetails, error) {
	if u.pendingTTL <= 0 || limit <= 0 {
		return nil, nil
	}

	cancelled, err := u.bookings.CancelStale(ctx, u.now().Add(-u.pendingTTL), limit)
	if err != nil {
		return nil, err
	}
	if len(cancelled) == 0 {
		return nil, nil
	}

	u.observer.ObserveSwept(len(cancelled))
	out := make([]model.BookingDetails, 0, len(cancelled))
	for i := range cancelled {
		out = append(out, *u.resolver.bestEffort(ctx, &cancelled[i], u.logger))
	}
	return out, nil
}

// NotifyCancelled mails the customer about a cancellation. Failures are logged.
func (u *BookingUseCase) NotifyCancelled(ctx context.Context, details model.BookingDetails) {
	if err := u.notifier.BookingCancelled(ctx, details); err != nil {
		u.logger.Warn("booking cancellation mail failed",
			slog.String("booking_id", details.Booking.ID),
			slog.String("error", err.Error()),
		)
	}
}
