package metrics

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/fx"

	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/config"
)

var Module = fx.Module("observability.metrics",
	fx.Provide(provideConfig),
	fx.Provide(provideMeterProvider),
	fx.Provide(NewHTTPMetrics),
	fx.Provide(provideLifecycleMetrics),
)

func provideConfig(cfg config.Config) Config {
	return Config{
		ServiceName: "telecore",
		Environment: cfg.Environment,
	}
}

func provideMeterProvider() metric.MeterProvider {
	return otel.GetMeterProvider()
}

func provideLifecycleMetrics(cfg Config) *LifecycleMetrics {
	return LifecycleWithConfig(cfg)
}
