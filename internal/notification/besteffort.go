package notification

import "go.uber.org/zap"

// BestEffort runs a side effect and absorbs its failure. The invoice
// write path must never roll back or fail because an email did not go
// out; this is the one place that contract lives.
func BestEffort(log *zap.Logger, op string, fn func() error) {
	if fn == nil {
		return
	}
	if err := fn(); err != nil {
		log.Warn("best-effort notification failed",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}
