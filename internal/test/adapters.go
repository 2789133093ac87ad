package test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/polkiloo/weddingmart/internal/domain/model"
	"github.com/polkiloo/weddingmart/internal/pkg/signature"
)

// GatewayStub opens sequential fake orders and counts calls.
type GatewayStub struct {
	CreateFn      func(context.Context, model.Money, string, string) (*model.GatewayOrder, error)
	WebhookSecret string
	Key           string
	Calls         int32
	LastAmount    model.Money
	LastReceipt   string
	mu            sync.Mutex
}

// CreateOrder records request and returns order_<n>.
func (g *GatewayStub) CreateOrder(ctx context.Context, amount model.Money, currency, receipt string) (*model.GatewayOrder, error) {
	n := atomic.AddInt32(&g.Calls, 1)
	g.mu.Lock()
	g.LastAmount = amount
	g.LastReceipt = receipt
	g.mu.Unlock()
	if g.CreateFn != nil {
		return g.CreateFn(ctx, amount, currency, receipt)
	}
	return &model.GatewayOrder{
		ID:       fmt.Sprintf("order_%d", n),
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
	}, nil
}

// VerifyWebhook checks body HMAC against WebhookSecret.
func (g *GatewayStub) VerifyWebhook(body []byte, sig string) bool {
	if g.WebhookSecret == "" || sig == "" {
		return false
	}
	return signature.Sign(string(body), g.WebhookSecret) == sig
}

// KeyID returns the publishable key.
func (g *GatewayStub) KeyID() string {
	if g.Key != "" {
		return g.Key
	}
	return "rzp_test_key"
}

// NotifierStub records sent notifications.
type NotifierStub struct {
	Err       error
	Confirmed []model.BookingDetails
	Cancelled []model.BookingDetails
	mu        sync.Mutex
}

// BookingConfirmed records details.
func (n *NotifierStub) BookingConfirmed(ctx context.Context, details model.BookingDetails) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Confirmed = append(n.Confirmed, details)
	return n.Err
}

// BookingCancelled records details.
func (n *NotifierStub) BookingCancelled(ctx context.Context, details model.BookingDetails) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Cancelled = append(n.Cancelled, details)
	return n.Err
}

// ConfirmedCount returns number of confirmation notifications.
func (n *NotifierStub) ConfirmedCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Confirmed)
}

// CancelledCount returns number of cancellation notifications.
func (n *NotifierStub) CancelledCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Cancelled)
}

// ObserverStub counts business events.
type ObserverStub struct {
	Outcomes map[string]int
	Swept    int
	mu       sync.Mutex
}

// ObserveCheckout increments outcome counter.
func (o *ObserverStub) ObserveCheckout(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Outcomes == nil {
		o.Outcomes = make(map[string]int)
	}
	o.Outcomes[outcome]++
}

// ObserveSwept adds to swept counter.
func (o *ObserverStub) ObserveSwept(n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Swept += n
}

// Count returns how many times outcome was observed.
func (o *ObserverStub) Count(outcome string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.Outcomes[outcome]
}
