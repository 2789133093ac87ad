package signature

import (
	"go.uber.org/fx"

	"github.com/polkiloo/weddingmart/internal/config"
)

// Module provides the checkout signature verifier.
var Module = fx.Provide(func(cfg *config.Config) *Verifier {
	return NewVerifier(cfg.RazorpayKeySecret)
})
