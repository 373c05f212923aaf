package pricing

import (
	"go.uber.org/fx"

	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/pricing/service"
)

var Module = fx.Module("pricing.service",
	fx.Provide(service.NewService),
)
