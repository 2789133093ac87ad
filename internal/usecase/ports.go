package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/polkiloo/weddingmart/internal/domain/model"
)

// PaymentGateway opens provider orders and authenticates provider webhooks.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount model.Money, currency, receipt string) (*model.GatewayOrder, error)
	VerifyWebhook(body []byte, signature string) bool
	KeyID() string
}

// SignatureVerifier checks the signature returned by the hosted checkout.
type SignatureVerifier interface {
	VerifyPayment(orderID, paymentID, signature string) bool
}

// Notifier informs customers about booking changes.
type Notifier interface {
	BookingConfirmed(ctx context.Context, details model.BookingDetails) error
	BookingCancelled(ctx context.Context, details model.BookingDetails) error
}

// Observer receives business counters.
type Observer interface {
	ObserveCheckout(outcome string)
	ObserveSwept(n int)
}

// Checkout outcomes reported to Observer.
const (
	OutcomeOrderCreated      = "order_created"
	OutcomeGatewayError      = "gateway_error"
	OutcomeSignatureRejected = "signature_rejected"
	OutcomePaymentVerified   = "payment_verified"
	OutcomePaymentReplayed   = "payment_replayed"
	OutcomeTransitionDenied  = "transition_denied"
	OutcomePaymentFailed     = "payment_failed"
)

var newID = uuid.NewString

type nopObserver struct{}

func (nopObserver) ObserveCheckout(string) {}
func (nopObserver) ObserveSwept(int)       {}

type nopNotifier struct{}

func (nopNotifier) BookingConfirmed(context.Context, model.BookingDetails) error { return nil }
func (nopNotifier) BookingCancelled(context.Context, model.BookingDetails) error { return nil }
