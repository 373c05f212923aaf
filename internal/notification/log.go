package notification

import (
	"context"

	"go.uber.org/zap"
)

// LogGateway records notifications instead of delivering them. It is the
// default when no SMTP host is configured, and the fake of choice in
// tests.
type LogGateway struct {
	log *zap.Logger
}

func NewLogGateway(log *zap.Logger) *LogGateway {
	return &LogGateway{log: log.Named("notification.log")}
}

func (g *LogGateway) InvoiceGenerated(ctx context.Context, params InvoiceGeneratedParams) error {
	g.log.Info("invoice generated notification",
		zap.String("recipient", params.Recipient),
		zap.String("invoice_number", params.InvoiceNumber),
		zap.Int64("amount_cents", params.AmountCents),
		zap.Time("due_date", params.DueDate),
		zap.String("period", params.Period),
	)
	return nil
}

func (g *LogGateway) InvoiceOverdue(ctx context.Context, params InvoiceOverdueParams) error {
	g.log.Info("invoice overdue notification",
		zap.String("recipient", params.Recipient),
		zap.String("invoice_number", params.InvoiceNumber),
		zap.Int64("amount_cents", params.AmountCents),
		zap.Time("overdue_since", params.OverdueSince),
	)
	return nil
}

func (g *LogGateway) InvoiceDueSoon(ctx context.Context, params InvoiceDueSoonParams) error {
	g.log.Info("invoice due soon notification",
		zap.String("recipient", params.Recipient),
		zap.String("invoice_number", params.InvoiceNumber),
		zap.Int64("amount_cents", params.AmountCents),
		zap.Time("due_date", params.DueDate),
		zap.Int("days_remaining", params.DaysRemaining),
	)
	return nil
}
