package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/weddingmart/internal/adapter/notify"
	"github.com/polkiloo/weddingmart/internal/adapter/razorpay"
	"github.com/polkiloo/weddingmart/internal/app"
	"github.com/polkiloo/weddingmart/internal/config"
	"github.com/polkiloo/weddingmart/internal/logger"
	"github.com/polkiloo/weddingmart/internal/metrics"
	"github.com/polkiloo/weddingmart/internal/pkg/auth"
	"github.com/polkiloo/weddingmart/internal/pkg/signature"
	"github.com/polkiloo/weddingmart/internal/server/http/handlers"
	"github.com/polkiloo/weddingmart/internal/server/http/router"
	"github.com/polkiloo/weddingmart/internal/storage/postgres"
	"github.com/polkiloo/weddingmart/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		metrics.Module,
		auth.Module,
		signature.Module,
		postgres.Module,
		razorpay.Module,
		notify.Module,
		usecase.Module,
		fx.Provide(
			func(c razorpay.Client) usecase.PaymentGateway { return c },
			func(v *signature.Verifier) usecase.SignatureVerifier { return v },
			func(n notify.Notifier) usecase.Notifier { return n },
			func(m *metrics.Metrics) usecase.Observer { return m },
			func(s *postgres.Storage) handlers.HealthChecker { return s },
			func(f *app.MarketplaceFacade) handlers.MarketplaceFacade { return f },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
