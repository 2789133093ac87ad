package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.uber.org/fx"

	domainErrors "github.com/polkiloo/weddingmart/internal/domain/errors"
	"github.com/polkiloo/weddingmart/internal/domain/model"
	"github.com/polkiloo/weddingmart/internal/domain/repository"
)

const (
	maxCartItems   = 50
	maxGuestCount  = 100000
	receiptPrefix  = "booking_"
	opCreateOrder  = "create order"
	eventPayFailed = "payment.failed"
)

// CheckoutParams lists CheckoutUseCase collaborators.
type CheckoutParams struct {
	fx.In

	Services repository.ServiceRepository
	Bookings repository.BookingRepository
	Users    repository.UserRepository
	Gateway  PaymentGateway
	Verifier SignatureVerifier
	Notifier Notifier `optional:"true"`
	Observer Observer `optional:"true"`
	Logger   *slog.Logger
}

// CheckoutUseCase drives a booking from cart to verified payment.
type CheckoutUseCase struct {
	services repository.ServiceRepository
	bookings repository.BookingRepository
	users    repository.UserRepository
	gateway  PaymentGateway
	verifier SignatureVerifier
	notifier Notifier
	observer Observer
	resolver bookingResolver
	logger   *slog.Logger
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(p CheckoutParams) *CheckoutUseCase {
	uc := &CheckoutUseCase{
		services: p.Services,
		bookings: p.Bookings,
		users:    p.Users,
		gateway:  p.Gateway,
		verifier: p.Verifier,
		notifier: p.Notifier,
		observer: p.Observer,
		resolver: bookingResolver{services: p.Services, users: p.Users},
		logger:   p.Logger,
	}
	if uc.notifier == nil {
		uc.notifier = nopNotifier{}
	}
	if uc.observer == nil {
		uc.observer = nopObserver{}
	}
	return uc
}

func cartServiceIDs(items []model.CartItem) ([]string, error) {
	if len(items) == 0 {
		return nil, &domainErrors.CartError{Reason: "cart is empty"}
	}
	if len(items) > maxCartItems {
		return nil, &domainErrors.CartError{Reason: fmt.Sprintf("cart holds more than %d items", maxCartItems)}
	}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		id := strings.TrimSpace(item.ServiceID)
		if id == "" {
			return nil, &domainErrors.CartError{Reason: "cart item without service id"}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func validateEvent(ev model.EventDetails) error {
	if !ev.Type.Valid() {
		return domainErrors.NewValidationError("eventType", "is not supported")
	}
	if ev.GuestCount < 0 || ev.GuestCount > maxGuestCount {
		return domainErrors.NewValidationError("guestCount", "is out of range")
	}
	return nil
}

// priceCart sums catalog prices for ids. Duplicates are charged per occurrence.
func priceCart(ids []string, found []model.Service) (model.Money, error) {
	byID := make(map[string]model.Service, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}

	var (
		total       model.Money
		unknown     []string
		unavailable []string
	)
	for _, id := range ids {
		s, ok := byID[id]
		switch {
		case !ok:
			unknown = append(unknown, id)
		case !s.Available:
			unavailable = append(unavailable, id)
		default:
			sum, ok := total.Add(s.Price)
			if !ok {
				return 0, fmt.Errorf("%w: cart total exceeds the supported range", domainErrors.ErrInvalidAmount)
			}
			total = sum
		}
	}
	if len(unknown) > 0 {
		return 0, &domainErrors.CartError{Reason: "unknown services", ServiceIDs: unknown}
	}
	if len(unavailable) > 0 {
		return 0, &domainErrors.CartError{Reason: "services unavailable", ServiceIDs: unavailable}
	}
	if total <= 0 {
		return 0, fmt.Errorf("%w: cart total must be positive", domainErrors.ErrInvalidAmount)
	}
	return total, nil
}

func quotedTotal(items []model.CartItem) (model.Money, bool) {
	var total model.Money
	for _, item := range items {
		if item.QuotedPrice == nil {
			return 0, false
		}
		sum, ok := total.Add(*item.QuotedPrice)
		if !ok {
			return 0, false
		}
		total = sum
	}
	return total, true
}

// receiptFor fits the provider's 40 character receipt limit.
func receiptFor(bookingID string) string {
	return receiptPrefix + strings.ReplaceAll(bookingID, "-", "")
}

// CreateOrder prices the cart from the catalog, opens a gateway order for the
// total and stores a pending booking. Nothing is stored when the gateway fails.
func (u *CheckoutUseCase) CreateOrder(ctx context.Context, userID string, items []model.CartItem, event model.EventDetails) (*model.CheckoutOrder, error) {
	ids, err := cartServiceIDs(items)
	if err != nil {
		return nil, err
	}
	if err := validateEvent(event); err != nil {
		return nil, err
	}

	user, err := u.users.GetByID(ctx, userID)
	if errors.Is(err, domainErrors.ErrNotFound) {
		return nil, domainErrors.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}

	found, err := u.services.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	total, err := priceCart(ids, found)
	if err != nil {
		return nil, err
	}
	if quoted, ok := quotedTotal(items); ok && quoted != total {
		u.logger.Warn("client quoted total differs from catalog",
			slog.String("user_id", user.ID),
			slog.Int64("quoted", int64(quoted)),
			slog.Int64("charged", int64(total)),
		)
	}

	bookingID := newID()
	receipt := receiptFor(bookingID)
	order, err := u.gateway.CreateOrder(ctx, total, model.CurrencyINR, receipt)
	if err != nil {
		u.observer.ObserveCheckout(OutcomeGatewayError)
		if !errors.Is(err, domainErrors.ErrPaymentGateway) {
			err = &domainErrors.GatewayError{Op: opCreateOrder, Err: err}
		}
		return nil, err
	}

	booking := model.NewPendingBooking(bookingID, user.ID, ids, total, order.ID, event)
	created, err := u.bookings.Create(ctx, booking)
	if err != nil {
		u.logger.Error("gateway order left without booking",
			slog.String("gateway_order_id", order.ID),
			slog.String("booking_id", bookingID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("store booking: %w", err)
	}

	u.observer.ObserveCheckout(OutcomeOrderCreated)
	u.logger.Info("checkout order created",
		slog.String("booking_id", created.ID),
		slog.String("gateway_order_id", order.ID),
		slog.Int64("amount", int64(total)),
	)
	return &model.CheckoutOrder{
		Order:   *order,
		KeyID:   u.gateway.KeyID(),
		Booking: created,
		User:    user,
	}, nil
}

// VerifyPayment authenticates the checkout callback and confirms the booking.
// The bool reports whether this call performed the transition; replays of an
// already verified payment succeed with false.
func (u *CheckoutUseCase) VerifyPayment(ctx context.Context, cb model.PaymentCallback) (*model.BookingDetails, bool, error) {
	cb.GatewayOrderID = strings.TrimSpace(cb.GatewayOrderID)
	cb.GatewayPaymentID = strings.TrimSpace(cb.GatewayPaymentID)
	cb.Signature = strings.TrimSpace(cb.Signature)
	if cb.GatewayOrderID == "" || cb.GatewayPaymentID == "" || cb.Signature == "" {
		return nil, false, fmt.Errorf("%w: missing callback fields", domainErrors.ErrInvalidSignature)
	}

	if !u.verifier.VerifyPayment(cb.GatewayOrderID, cb.GatewayPaymentID, cb.Signature) {
		u.observer.ObserveCheckout(OutcomeSignatureRejected)
		u.logger.Warn("payment signature rejected",
			slog.String("gateway_order_id", cb.GatewayOrderID),
			slog.String("gateway_payment_id", cb.GatewayPaymentID),
		)
		return nil, false, domainErrors.ErrInvalidSignature
	}

	current, err := u.bookings.GetByGatewayOrderID(ctx, cb.GatewayOrderID)
	if err != nil {
		return nil, false, err
	}
	if current.IsPaid() {
		return u.replayed(ctx, current, cb), false, nil
	}
	if err := current.CanConfirmPayment(); err != nil {
		return nil, false, u.denied(current, cb, err)
	}

	booking, transitioned, err := u.bookings.ConfirmPayment(ctx, cb)
	if err != nil {
		return nil, false, err
	}
	if !transitioned {
		if booking.IsPaid() {
			return u.replayed(ctx, booking, cb), false, nil
		}
		return nil, false, u.denied(booking, cb, fmt.Errorf("%w: booking changed during verification", domainErrors.ErrInvalidTransition))
	}

	u.observer.ObserveCheckout(OutcomePaymentVerified)
	u.logger.Info("payment verified",
		slog.String("booking_id", booking.ID),
		slog.String("gateway_order_id", cb.GatewayOrderID),
		slog.String("gateway_payment_id", cb.GatewayPaymentID),
	)

	details := u.resolver.bestEffort(ctx, booking, u.logger)
	if err := u.notifier.BookingConfirmed(ctx, *details); err != nil {
		u.logger.Warn("booking confirmation mail failed", slog.String("booking_id", booking.ID), slog.String("error", err.Error()))
	}
	return details, true, nil
}

func (u *CheckoutUseCase) replayed(ctx context.Context, booking *model.Booking, cb model.PaymentCallback) *model.BookingDetails {
	u.observer.ObserveCheckout(OutcomePaymentReplayed)
	if booking.GatewayPaymentID != cb.GatewayPaymentID {
		u.logger.Warn("second payment reported for paid booking",
			slog.String("booking_id", booking.ID),
			slog.String("recorded_payment_id", booking.GatewayPaymentID),
			slog.String("gateway_payment_id", cb.GatewayPaymentID),
		)
	}
	return u.resolver.bestEffort(ctx, booking, u.logger)
}

// denied logs a verified payment that cannot be applied. The customer was
// charged, so these need manual refund review.
func (u *CheckoutUseCase) denied(booking *model.Booking, cb model.PaymentCallback, err error) error {
	u.observer.ObserveCheckout(OutcomeTransitionDenied)
	u.logger.Error("verified payment for booking that cannot be confirmed",
		slog.String("booking_id", booking.ID),
		slog.String("status", string(booking.Status)),
		slog.String("payment_status", string(booking.PaymentStatus)),
		slog.String("gateway_order_id", cb.GatewayOrderID),
		slog.String("gateway_payment_id", cb.GatewayPaymentID),
	)
	return err
}

// PaymentDetails returns a booking with its services and owner to the owner or an admin.
func (u *CheckoutUseCase) PaymentDetails(ctx context.Context, principal model.Principal, bookingID string) (*model.BookingDetails, error) {
	booking, err := u.bookings.GetByID(ctx, strings.TrimSpace(bookingID))
	if err != nil {
		return nil, err
	}
	if !booking.VisibleTo(principal) {
		return nil, domainErrors.ErrForbidden
	}
	return u.resolver.resolve(ctx, booking)
}

type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID               string `json:"id"`
				OrderID          string `json:"order_id"`
				ErrorCode        string `json:"error_code"`
				ErrorDescription string `json:"error_description"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleWebhook applies provider notifications. Only payment failures change
// state; completion is reserved for VerifyPayment.
func (u *CheckoutUseCase) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !u.gateway.VerifyWebhook(body, signature) {
		u.logger.Warn("webhook signature rejected")
		return domainErrors.ErrInvalidSignature
	}

	var evt webhookEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return domainErrors.NewValidationError("body", "malformed webhook payload")
	}
	if evt.Event != eventPayFailed {
		u.logger.Debug("webhook event ignored", slog.String("event", evt.Event))
		return nil
	}

	entity := evt.Payload.Payment.Entity
	if entity.OrderID == "" {
		return domainErrors.NewValidationError("order_id", "is required")
	}

	booking, transitioned, err := u.bookings.FailPayment(ctx, entity.OrderID)
	if errors.Is(err, domainErrors.ErrNotFound) {
		u.logger.Warn("payment failure for unknown order", slog.String("gateway_order_id", entity.OrderID))
		return nil
	}
	if err != nil {
		return err
	}
	if !transitioned {
		u.logger.Info("payment failure ignored for settled booking",
			slog.String("booking_id", booking.ID),
			slog.String("payment_status", string(booking.PaymentStatus)),
		)
		return nil
	}

	u.observer.ObserveCheckout(OutcomePaymentFailed)
	u.logger.Info("payment marked failed",
		slog.String("booking_id", booking.ID),
		slog.String("gateway_payment_id", entity.ID),
		slog.String("reason", entity.ErrorDescription),
	)
	return nil
}
