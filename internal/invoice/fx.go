package invoice

import (
	"go.uber.org/fx"

	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/invoice/service"
)

var Module = fx.Module("invoice.service",
	fx.Provide(service.NewService),
)
