package notification

import (
	"context"
	"time"
)

// InvoiceGeneratedParams notifies a customer that a new invoice exists.
type InvoiceGeneratedParams struct {
	Recipient     string
	InvoiceNumber string
	AmountCents   int64
	Currency      string
	DueDate       time.Time
	Period        string
}

// InvoiceOverdueParams notifies a customer that an invoice went overdue.
type InvoiceOverdueParams struct {
	Recipient     string
	InvoiceNumber string
	AmountCents   int64
	Currency      string
	OverdueSince  time.Time
}

// InvoiceDueSoonParams reminds a customer of an upcoming due date.
type InvoiceDueSoonParams struct {
	Recipient     string
	InvoiceNumber string
	AmountCents   int64
	Currency      string
	DueDate       time.Time
	DaysRemaining int
}

// Gateway delivers templated customer notifications. Callers treat every
// send as best-effort: a failed notification is logged and dropped, never
// propagated into the billing write path.
type Gateway interface {
	InvoiceGenerated(ctx context.Context, params InvoiceGeneratedParams) error
	InvoiceOverdue(ctx context.Context, params InvoiceOverdueParams) error
	InvoiceDueSoon(ctx context.Context, params InvoiceDueSoonParams) error
}
