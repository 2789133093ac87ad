package razorpay

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/weddingmart/internal/config"
)

// Module exposes the payment gateway client to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) Client {
	cfg := p.Config
	if cfg.GatewayMode == config.GatewayModeStub {
		p.Logger.Warn("payment gateway running in stub mode")
		return NewStubGateway(cfg.RazorpayKeyID, cfg.RazorpayWebhookSecret, p.Logger)
	}
	return NewGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.RazorpayWebhookSecret, cfg.GatewayTimeout, p.Logger)
}
