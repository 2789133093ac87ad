package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/weddingmart/internal/config"
	"github.com/polkiloo/weddingmart/internal/metrics"
	"github.com/polkiloo/weddingmart/internal/server/http/handlers"
	"github.com/polkiloo/weddingmart/internal/server/http/middleware"
)

// Params lists router dependencies.
type Params struct {
	fx.In

	Facade  handlers.MarketplaceFacade
	Health  handlers.HealthChecker
	Metrics *metrics.Metrics
	Limiter *middleware.RateLimiter
	Config  *config.Config
	Logger  *slog.Logger
}

// Setup configures gin router with handlers and middleware.
func Setup(p Params) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(p.Logger))
	engine.Use(p.Metrics.Middleware())
	engine.Use(cors.New(corsConfig(p.Config.CORSOrigins)))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	engine.GET("/health", handlers.Health(p.Health))
	engine.GET("/metrics", gin.WrapH(p.Metrics.Handler()))

	authHandler := handlers.NewAuthHandler(p.Facade)
	catalogHandler := handlers.NewCatalogHandler(p.Facade)
	paymentHandler := handlers.NewPaymentHandler(p.Facade)
	bookingHandler := handlers.NewBookingHandler(p.Facade)

	requireUser := middleware.AuthRequired(p.Facade)
	requireAdmin := middleware.AdminRequired()

	api := engine.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", p.Limiter.Handler(), authHandler.Register)
	auth.POST("/login", p.Limiter.Handler(), authHandler.Login)
	auth.GET("/me", requireUser, authHandler.Me)
	auth.GET("/user", requireUser, authHandler.Me)

	services := api.Group("/services")
	services.GET("", catalogHandler.List)
	services.GET("/:id", catalogHandler.Get)
	services.POST("", requireUser, requireAdmin, catalogHandler.Create)
	services.PATCH("/:id/availability", requireUser, requireAdmin, catalogHandler.SetAvailability)

	payment := api.Group("/payment")
	payment.POST("/webhook", paymentHandler.Webhook)
	payment.POST("/create-order", requireUser, paymentHandler.CreateOrder)
	payment.POST("/verify-payment", requireUser, paymentHandler.Verify)
	payment.GET("/:bookingId", requireUser, paymentHandler.Details)

	bookings := api.Group("/bookings", requireUser)
	bookings.GET("/my-bookings", bookingHandler.Mine)
	bookings.GET("/stats/summary", requireAdmin, bookingHandler.Stats)
	bookings.GET("/export/all", requireAdmin, bookingHandler.Export)
	bookings.GET("/:id", bookingHandler.Get)
	bookings.GET("", requireAdmin, bookingHandler.List)
	bookings.PUT("/:id/status", requireAdmin, bookingHandler.UpdateStatus)

	return engine
}

// corsConfig allows any origin without credentials when none are configured.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Auth-Token", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Authorization", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
