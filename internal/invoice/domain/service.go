package domain

import (
	"context"
	"errors"
	"time"
)

// GenerateResult summarizes one scheduled generation run.
type GenerateResult struct {
	Period   string
	Created  int
	Skipped  int
	Failed   int
	Notified int
}

// OverdueResult summarizes one overdue-transition run.
type OverdueResult struct {
	Transitioned int
	Notified     int
}

type ListInvoiceRequest struct {
	Status string
	Period string
	Limit  int
}

type CreateManualRequest struct {
	CustomerID  string
	OrderID     string
	MRCAmount   int64
	UsageAmount int64
	DueDate     time.Time
	Period      string
}

// Service is the invoice lifecycle engine: scheduled monthly generation,
// the overdue transition, due-soon reminders, and the administrative
// operations the back office exposes.
type Service interface {
	// GenerateMonthly produces at most one Pending invoice per qualifying
	// order for the month preceding asOf.
	GenerateMonthly(ctx context.Context, asOf time.Time) (GenerateResult, error)

	// MarkOverdue promotes every Pending invoice whose due date has
	// passed as of asOf.
	MarkOverdue(ctx context.Context, asOf time.Time) (OverdueResult, error)

	// SendDueSoonReminders notifies customers of Pending invoices due
	// strictly in the future but within the configured window.
	SendDueSoonReminders(ctx context.Context, asOf time.Time) (int, error)

	List(ctx context.Context, req ListInvoiceRequest) ([]Invoice, error)
	GetByID(ctx context.Context, id string) (Invoice, error)
	CreateManual(ctx context.Context, req CreateManualRequest) (Invoice, error)
	MarkPaid(ctx context.Context, id string) (Invoice, error)
}

var (
	ErrInvalidInvoiceID = errors.New("invalid_invoice_id")
	ErrInvoiceNotFound  = errors.New("invoice_not_found")
	ErrInvoiceNotOpen   = errors.New("invoice_not_open")
	ErrInvalidCustomer  = errors.New("invalid_customer")
	ErrInvalidOrder     = errors.New("invalid_order")
	ErrInvalidAmount    = errors.New("invalid_amount")
)
