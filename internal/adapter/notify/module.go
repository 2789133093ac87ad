package notify

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/weddingmart/internal/config"
)

// Module provides booking notifier.
var Module = fx.Provide(newNotifier)

type notifierParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newNotifier(p notifierParams) Notifier {
	cfg := p.Config
	if cfg.SMTPHost == "" {
		p.Logger.Info("smtp not configured, booking mails disabled")
		return Nop{}
	}
	return NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom, p.Logger)
}
