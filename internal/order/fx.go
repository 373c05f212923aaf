package order

import (
	"go.uber.org/fx"

	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/order/repository"
)

var Module = fx.Module("order.repository",
	fx.Provide(repository.NewRepository),
)
