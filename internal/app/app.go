package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/weddingmart/internal/config"
	"github.com/polkiloo/weddingmart/internal/domain/model"
	"github.com/polkiloo/weddingmart/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewMarketplaceFacade,
		func(f *MarketplaceFacade) AdminProvisioner { return f },
		newHTTPServer,
		newSweeper,
	),
	fx.Invoke(registerLifecycle),
)

const readHeaderTimeout = 10 * time.Second

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:              p.Config.RunAddress,
		Handler:           p.Router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

type sweeperParams struct {
	fx.In

	Facade *MarketplaceFacade
	Config *config.Config
	Logger *slog.Logger
}

func newSweeper(p sweeperParams) *worker.StaleBookingSweeper {
	return worker.NewStaleBookingSweeper(
		p.Facade,
		p.Config.SweepInterval,
		p.Config.SweepBatch,
		p.Config.WorkerPoolSize,
		p.Logger,
	)
}

// AdminProvisioner creates the bootstrap administrator.
type AdminProvisioner interface {
	EnsureAdmin(ctx context.Context, in model.Registration) (*model.User, bool, error)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Sweeper    *worker.StaleBookingSweeper
	Admins     AdminProvisioner
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := ensureAdmin(ctx, p.Admins, p.Config, p.Logger); err != nil {
				return err
			}

			p.Logger.Info("starting weddingmart", slog.String("addr", p.Server.Addr))
			if p.Config.PendingTTL > 0 {
				p.Sweeper.Start(context.WithoutCancel(ctx))
			} else {
				p.Logger.Info("stale booking sweeper disabled")
			}
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Sweeper.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("weddingmart stopped")
			return nil
		},
	})
}

func ensureAdmin(ctx context.Context, admins AdminProvisioner, cfg *config.Config, logger *slog.Logger) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}
	admin, created, err := admins.EnsureAdmin(ctx, model.Registration{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	})
	if err != nil {
		return err
	}
	if created {
		logger.Info("administrator account created", slog.String("user_id", admin.ID))
	} else if admin.Role != model.RoleAdmin {
		logger.Warn("bootstrap admin email belongs to a customer account", slog.String("user_id", admin.ID))
	}
	return nil
}
