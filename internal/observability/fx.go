package observability

import (
	"go.uber.org/fx"

	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/observability/logger"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/observability/metrics"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/observability/tracing"
)

var Module = fx.Module("observability",
	logger.Module,
	metrics.Module,
	fx.Invoke(tracing.NewProvider),
)
