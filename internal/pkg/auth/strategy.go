package auth

import (
	"time"

	"github.com/polkiloo/weddingmart/internal/domain/model"
)

type Strategy interface {
	IssueToken(principal model.Principal) (string, error)
	ParseToken(token string) (model.Principal, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}

func ttlOrDefault(opts Options) time.Duration {
	if opts.TTL <= 0 {
		return 24 * time.Hour
	}
	return opts.TTL
}
