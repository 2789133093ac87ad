package razorpay

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/polkiloo/weddingmart/internal/domain/model"
	"github.com/polkiloo/weddingmart/internal/pkg/signature"
)

// StubGateway opens fake orders for local development. Webhooks are signed
// with the configured webhook secret the same way the provider does it.
type StubGateway struct {
	keyID         string
	webhookSecret string
	logger        *slog.Logger
}

// NewStubGateway creates offline gateway.
func NewStubGateway(keyID, webhookSecret string, logger *slog.Logger) *StubGateway {
	return &StubGateway{keyID: keyID, webhookSecret: webhookSecret, logger: logger}
}

func (g *StubGateway) KeyID() string {
	return g.keyID
}

func (g *StubGateway) CreateOrder(ctx context.Context, amount model.Money, currency, receipt string) (*model.GatewayOrder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	order := &model.GatewayOrder{
		ID:       "order_stub_" + uuid.NewString(),
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
	}
	g.logger.Debug("stub gateway order created", slog.String("order_id", order.ID), slog.Int64("amount", int64(amount)))
	return order, nil
}

func (g *StubGateway) VerifyWebhook(body []byte, sig string) bool {
	return signature.Valid(string(body), g.webhookSecret, sig)
}
