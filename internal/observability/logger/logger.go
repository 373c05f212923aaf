package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/config"
)

var Module = fx.Module("logger",
	fx.Provide(New),
	fx.Invoke(replaceGlobals),
)

// New builds the process logger. Production gets JSON output, everything
// else the development console encoder.
func New(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func replaceGlobals(log *zap.Logger) {
	zap.ReplaceGlobals(log)
}

// FromContext returns the global logger enriched with the active trace
// and span identifiers, when a recording span is present.
func FromContext(ctx context.Context) *zap.Logger {
	log := zap.L()
	span := trace.SpanContextFromContext(ctx)
	if !span.IsValid() {
		return log
	}
	return log.With(
		zap.String("trace_id", span.TraceID().String()),
		zap.String("span_id", span.SpanID().String()),
	)
}
