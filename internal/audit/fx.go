package audit

import (
	"go.uber.org/fx"

	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/audit/repository"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/audit/service"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
