package notification

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/config"
)

var Module = fx.Module("notification",
	fx.Provide(NewGateway),
)

// NewGateway selects the SMTP gateway when mail is configured and falls
// back to log-only delivery otherwise.
func NewGateway(cfg config.Config, log *zap.Logger) Gateway {
	if cfg.SMTP.Enabled() {
		return NewSMTPGateway(cfg.SMTP, log)
	}
	log.Named("notification").Info("smtp not configured, notifications are log-only")
	return NewLogGateway(log)
}
