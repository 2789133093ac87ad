package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Gateway modes.
const (
	GatewayModeRazorpay = "razorpay"
	GatewayModeStub     = "stub"
)

// Token strategies.
const (
	TokenStrategyJWT  = "jwt"
	TokenStrategyHMAC = "hmac"
)

// Config holds application level configuration loaded from .env, environment and flags.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	JWTSecret     string
	TokenStrategy string
	TokenTTL      time.Duration
	PasswordCost  int
	AuthRateLimit string
	RedisURL      string
	AdminName     string
	AdminEmail    string
	AdminPassword string

	GatewayMode           string
	RazorpayKeyID         string
	RazorpayKeySecret     string
	RazorpayWebhookSecret string
	GatewayTimeout        time.Duration

	PendingTTL     time.Duration
	SweepInterval  time.Duration
	SweepBatch     int
	WorkerPoolSize int

	LogLevel      string
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
}

const (
	defaultRunAddress      = ":8080"
	defaultJWTSecret       = "change-me-in-production"
	defaultTokenTTL        = 24 * time.Hour
	defaultShutdownTimeout = 10 * time.Second
	defaultAuthRateLimit   = "50-5m"
	defaultGatewayTimeout  = 10 * time.Second
	defaultPendingTTL      = 24 * time.Hour
	defaultSweepInterval   = 5 * time.Minute
	defaultSweepBatch      = 32
	defaultWorkerPoolSize  = 2
	defaultLogLevel        = "info"
	defaultLogMaxSizeMB    = 100
	defaultLogMaxBackups   = 5
	defaultLogMaxAgeDays   = 28
	defaultSMTPPort        = 587
	defaultAdminName       = "Administrator"

	stubKeyID     = "rzp_test_stub"
	stubKeySecret = "stub_secret"
)

// Load parses configuration from .env, environment variables and flags.
func Load() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	return load(os.Args[1:], os.LookupEnv)
}

// loadDotEnv populates unset environment variables from path. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:      getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:     getString(lookup, "DATABASE_URI", ""),
		ShutdownTimeout: getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		CORSOrigins:     getList(lookup, "CORS_ORIGINS"),

		JWTSecret:     getString(lookup, "JWT_SECRET", defaultJWTSecret),
		TokenStrategy: strings.ToLower(getString(lookup, "TOKEN_STRATEGY", TokenStrategyJWT)),
		TokenTTL:      getDuration(lookup, "TOKEN_TTL", defaultTokenTTL),
		PasswordCost:  getInt(lookup, "BCRYPT_COST", 0),
		AuthRateLimit: getString(lookup, "AUTH_RATE_LIMIT", defaultAuthRateLimit),
		RedisURL:      getString(lookup, "REDIS_URL", ""),
		AdminName:     getString(lookup, "ADMIN_NAME", defaultAdminName),
		AdminEmail:    getString(lookup, "ADMIN_EMAIL", ""),
		AdminPassword: getString(lookup, "ADMIN_PASSWORD", ""),

		GatewayMode:           strings.ToLower(getString(lookup, "PAYMENT_GATEWAY_MODE", GatewayModeRazorpay)),
		RazorpayKeyID:         getString(lookup, "RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret:     getString(lookup, "RAZORPAY_KEY_SECRET", ""),
		RazorpayWebhookSecret: getString(lookup, "RAZORPAY_WEBHOOK_SECRET", ""),
		GatewayTimeout:        getDuration(lookup, "GATEWAY_TIMEOUT", defaultGatewayTimeout),

		PendingTTL:     getDuration(lookup, "PENDING_TTL", defaultPendingTTL),
		SweepInterval:  getDuration(lookup, "SWEEP_INTERVAL", defaultSweepInterval),
		SweepBatch:     getInt(lookup, "SWEEP_BATCH", defaultSweepBatch),
		WorkerPoolSize: getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),

		LogLevel:      getString(lookup, "LOG_LEVEL", defaultLogLevel),
		LogFile:       getString(lookup, "LOG_FILE", ""),
		LogMaxSizeMB:  getInt(lookup, "LOG_MAX_SIZE_MB", defaultLogMaxSizeMB),
		LogMaxBackups: getInt(lookup, "LOG_MAX_BACKUPS", defaultLogMaxBackups),
		LogMaxAgeDays: getInt(lookup, "LOG_MAX_AGE_DAYS", defaultLogMaxAgeDays),

		SMTPHost:     getString(lookup, "SMTP_HOST", ""),
		SMTPPort:     getInt(lookup, "SMTP_PORT", defaultSMTPPort),
		SMTPUser:     getString(lookup, "SMTP_USER", ""),
		SMTPPassword: getString(lookup, "SMTP_PASSWORD", ""),
		MailFrom:     getString(lookup, "MAIL_FROM", ""),
	}

	fs := flag.NewFlagSet("weddingmart", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		gatewayTimeoutStr  = cfg.GatewayTimeout.String()
		pendingTTLStr      = cfg.PendingTTL.String()
		sweepIntervalStr   = cfg.SweepInterval.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&cfg.TokenStrategy, "token-strategy", cfg.TokenStrategy, "Auth token format: jwt or hmac")
	fs.StringVar(&cfg.GatewayMode, "gateway", cfg.GatewayMode, "Payment gateway mode: razorpay or stub")
	fs.StringVar(&cfg.RedisURL, "redis", cfg.RedisURL, "Redis URL for shared rate limiting")
	fs.StringVar(&cfg.AuthRateLimit, "auth-rate", cfg.AuthRateLimit, "Auth endpoint rate, e.g. 50-5m")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Rotating log file path")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of sweeper workers")
	fs.IntVar(&cfg.SweepBatch, "sweep-batch", cfg.SweepBatch, "Maximum stale bookings per sweep")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&gatewayTimeoutStr, "gateway-timeout", gatewayTimeoutStr, "Payment gateway call timeout")
	fs.StringVar(&pendingTTLStr, "pending-ttl", pendingTTLStr, "Age after which unpaid bookings are cancelled, 0 disables")
	fs.StringVar(&sweepIntervalStr, "sweep-interval", sweepIntervalStr, "Interval between stale booking sweeps")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}
	if cfg.GatewayTimeout, err = time.ParseDuration(gatewayTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid gateway timeout: %w", err)
	}
	if cfg.PendingTTL, err = time.ParseDuration(pendingTTLStr); err != nil {
		return nil, fmt.Errorf("invalid pending ttl: %w", err)
	}
	if cfg.SweepInterval, err = time.ParseDuration(sweepIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}

	if err := readSecretFile(lookup, "JWT_SECRET_FILE", &cfg.JWTSecret); err != nil {
		return nil, err
	}
	if err := readSecretFile(lookup, "RAZORPAY_KEY_SECRET_FILE", &cfg.RazorpayKeySecret); err != nil {
		return nil, err
	}
	if err := readSecretFile(lookup, "RAZORPAY_WEBHOOK_SECRET_FILE", &cfg.RazorpayWebhookSecret); err != nil {
		return nil, err
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}
	if cfg.SweepBatch <= 0 {
		cfg.SweepBatch = defaultSweepBatch
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.GatewayTimeout <= 0 {
		cfg.GatewayTimeout = defaultGatewayTimeout
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	if cfg.PendingTTL < 0 {
		cfg.PendingTTL = 0
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	switch cfg.TokenStrategy {
	case TokenStrategyJWT, TokenStrategyHMAC:
	default:
		return nil, fmt.Errorf("unknown token strategy %q", cfg.TokenStrategy)
	}

	switch cfg.GatewayMode {
	case GatewayModeRazorpay:
		if cfg.RazorpayKeyID == "" || cfg.RazorpayKeySecret == "" {
			return nil, fmt.Errorf("razorpay key id and secret must be provided")
		}
	case GatewayModeStub:
		if cfg.RazorpayKeySecret == "" {
			cfg.RazorpayKeySecret = stubKeySecret
		}
		if cfg.RazorpayKeyID == "" {
			cfg.RazorpayKeyID = stubKeyID
		}
	default:
		return nil, fmt.Errorf("unknown payment gateway mode %q", cfg.GatewayMode)
	}

	return cfg, nil
}

func readSecretFile(lookup envLookup, key string, dst *string) error {
	path, ok := lookup(key)
	if !ok || path == "" {
		return nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", strings.ToLower(key), err)
	}
	*dst = strings.TrimSpace(string(content))
	return nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getList(lookup envLookup, key string) []string {
	v, ok := lookup(key)
	if !ok || v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
