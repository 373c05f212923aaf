package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/events"
	invoicedomain "github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/invoice/domain"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/invoice/period"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/notification"
)

type overdueRow struct {
	ID            snowflake.ID
	InvoiceNumber string
	CustomerID    snowflake.ID
	AmountCents   int64
	Currency      string
	DueDate       time.Time
}

// MarkOverdue promotes every Pending invoice whose due date has passed.
// The transition is a single statement; notifications happen after it,
// non-transactionally, so a crash in between leaves the status change in
// place and only the emails unsent for this cycle.
func (s *Service) MarkOverdue(ctx context.Context, asOf time.Time) (invoicedomain.OverdueResult, error) {
	var result invoicedomain.OverdueResult

	var rows []overdueRow
	err := s.db.WithContext(ctx).Raw(
		`UPDATE invoices
		 SET status = ?, updated_at = ?
		 WHERE status = ? AND due_date <= ?
		 RETURNING id, invoice_number, customer_id, amount_cents, currency, due_date`,
		invoicedomain.InvoiceStatusOverdue,
		s.clk.Now(),
		invoicedomain.InvoiceStatusPending,
		asOf,
	).Scan(&rows).Error
	if err != nil {
		return result, err
	}
	result.Transitioned = len(rows)
	if len(rows) == 0 {
		return result, nil
	}

	s.met.AddOverdue(len(rows))
	s.log.Info("invoices transitioned to overdue", zap.Int("count", len(rows)))

	for _, row := range rows {
		log := s.log.With(zap.String("invoice_number", row.InvoiceNumber))

		notification.BestEffort(log, "outbox_invoice_overdue", func() error {
			return s.outbox.Publish(ctx, events.Event{
				Type: events.EventInvoiceOverdue,
				Payload: events.InvoicePayload{
					InvoiceID:     row.ID.String(),
					InvoiceNumber: row.InvoiceNumber,
				}.ToMap(),
				DedupeKey: events.EventInvoiceOverdue + ":" + row.InvoiceNumber,
			})
		})

		email, err := s.customerEmail(ctx, row.CustomerID)
		if err != nil || email == "" {
			log.Warn("overdue notification skipped, no customer email", zap.Error(err))
			continue
		}
		sent := false
		notification.BestEffort(log, "invoice_overdue", func() error {
			err := s.notifier.InvoiceOverdue(ctx, notification.InvoiceOverdueParams{
				Recipient:     email,
				InvoiceNumber: row.InvoiceNumber,
				AmountCents:   row.AmountCents,
				Currency:      row.Currency,
				OverdueSince:  row.DueDate,
			})
			sent = err == nil
			return err
		})
		if sent {
			result.Notified++
		}
	}
	return result, nil
}

type dueSoonRow struct {
	ID            snowflake.ID
	InvoiceNumber string
	CustomerEmail string
	AmountCents   int64
	Currency      string
	DueDate       time.Time
}

// SendDueSoonReminders notifies customers of Pending invoices due
// strictly in the future but within the configured window. Days
// remaining is recomputed from the wall clock at send time, so a run
// straddling midnight can be off by one; accepted.
func (s *Service) SendDueSoonReminders(ctx context.Context, asOf time.Time) (int, error) {
	windowEnd := asOf.AddDate(0, 0, s.cfg.DueSoonWindowDays)

	var rows []dueSoonRow
	err := s.db.WithContext(ctx).Raw(
		`SELECT i.id, i.invoice_number, c.email AS customer_email,
		        i.amount_cents, i.currency, i.due_date
		 FROM invoices i
		 JOIN customers c ON c.id = i.customer_id
		 WHERE i.status = ? AND i.due_date > ? AND i.due_date <= ?
		 ORDER BY i.due_date ASC`,
		invoicedomain.InvoiceStatusPending,
		asOf,
		windowEnd,
	).Scan(&rows).Error
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, row := range rows {
		log := s.log.With(zap.String("invoice_number", row.InvoiceNumber))

		notification.BestEffort(log, "outbox_invoice_due_soon", func() error {
			return s.outbox.Publish(ctx, events.Event{
				Type: events.EventInvoiceDueSoon,
				Payload: events.InvoicePayload{
					InvoiceID:     row.ID.String(),
					InvoiceNumber: row.InvoiceNumber,
				}.ToMap(),
				DedupeKey: events.EventInvoiceDueSoon + ":" + row.InvoiceNumber + ":" + asOf.Format("2006-01-02"),
			})
		})

		daysRemaining := int(math.Ceil(row.DueDate.Sub(s.clk.Now()).Hours() / 24))
		if daysRemaining < 0 {
			daysRemaining = 0
		}

		delivered := false
		notification.BestEffort(log, "invoice_due_soon", func() error {
			err := s.notifier.InvoiceDueSoon(ctx, notification.InvoiceDueSoonParams{
				Recipient:     row.CustomerEmail,
				InvoiceNumber: row.InvoiceNumber,
				AmountCents:   row.AmountCents,
				Currency:      row.Currency,
				DueDate:       row.DueDate,
				DaysRemaining: daysRemaining,
			})
			delivered = err == nil
			return err
		})
		if delivered {
			sent++
		}
	}

	if len(rows) > 0 {
		s.met.AddRemindersSent(sent)
		s.log.Info("due soon reminders processed",
			zap.Int("eligible", len(rows)),
			zap.Int("sent", sent),
		)
	}
	return sent, nil
}

func (s *Service) List(ctx context.Context, req invoicedomain.ListInvoiceRequest) ([]invoicedomain.Invoice, error) {
	limit := req.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := s.db.WithContext(ctx).Model(&invoicedomain.Invoice{})
	if status := strings.TrimSpace(req.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if p := strings.TrimSpace(req.Period); p != "" {
		query = query.Where("period = ?", p)
	}

	var invoices []invoicedomain.Invoice
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (invoicedomain.Invoice, error) {
	invoiceID, err := parseID(id)
	if err != nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidInvoiceID
	}

	var invoice invoicedomain.Invoice
	err = s.db.WithContext(ctx).First(&invoice, "id = ?", invoiceID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return invoicedomain.Invoice{}, invoicedomain.ErrInvoiceNotFound
		}
		return invoicedomain.Invoice{}, err
	}
	return invoice, nil
}

// CreateManual writes an administratively created invoice. Manual
// invoices use the INV-{timestamp} numbering so they never collide with
// the scheduled series.
func (s *Service) CreateManual(ctx context.Context, req invoicedomain.CreateManualRequest) (invoicedomain.Invoice, error) {
	customerID, err := parseID(req.CustomerID)
	if err != nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidCustomer
	}
	orderID, err := parseID(req.OrderID)
	if err != nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidOrder
	}
	if req.MRCAmount < 0 || req.UsageAmount < 0 {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidAmount
	}

	now := s.clk.Now()
	terms := period.Compute(now, now, s.cfg.DueInDays)

	periodStr := strings.TrimSpace(req.Period)
	if periodStr == "" {
		periodStr = terms.Period
	}
	dueDate := req.DueDate
	if dueDate.IsZero() {
		dueDate = terms.DueDate
	}

	invoice := invoicedomain.Invoice{
		ID:            s.genID.Generate(),
		InvoiceNumber: fmt.Sprintf("INV-%d", now.UnixMilli()),
		CustomerID:    customerID,
		OrderID:       orderID,
		MRCAmount:     req.MRCAmount,
		UsageAmount:   req.UsageAmount,
		Amount:        req.MRCAmount + req.UsageAmount,
		Currency:      "INR",
		Period:        periodStr,
		FromDate:      terms.FromDate,
		ToDate:        terms.ToDate,
		DueDate:       dueDate,
		Status:        invoicedomain.InvoiceStatusPending,
		Metadata:      datatypes.JSONMap{"source": "manual"},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}
		return s.outbox.PublishTx(ctx, tx, events.Event{
			Type: events.EventInvoiceGenerated,
			Payload: events.InvoicePayload{
				InvoiceID:     invoice.ID.String(),
				InvoiceNumber: invoice.InvoiceNumber,
				OrderID:       orderID.String(),
				Period:        periodStr,
			}.ToMap(),
			DedupeKey: events.EventInvoiceGenerated + ":" + invoice.InvoiceNumber,
		})
	})
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	return invoice, nil
}

// MarkPaid settles a Pending or Overdue invoice.
func (s *Service) MarkPaid(ctx context.Context, id string) (invoicedomain.Invoice, error) {
	invoiceID, err := parseID(id)
	if err != nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidInvoiceID
	}

	now := s.clk.Now()
	result := s.db.WithContext(ctx).Exec(
		`UPDATE invoices
		 SET status = ?, paid_date = ?, updated_at = ?
		 WHERE id = ? AND status IN (?, ?)`,
		invoicedomain.InvoiceStatusPaid,
		now,
		now,
		invoiceID,
		invoicedomain.InvoiceStatusPending,
		invoicedomain.InvoiceStatusOverdue,
	)
	if result.Error != nil {
		return invoicedomain.Invoice{}, result.Error
	}
	if result.RowsAffected == 0 {
		invoice, err := s.GetByID(ctx, id)
		if err != nil {
			return invoicedomain.Invoice{}, err
		}
		if invoice.Status == invoicedomain.InvoiceStatusPaid {
			return invoicedomain.Invoice{}, invoicedomain.ErrInvoiceNotOpen
		}
		return invoicedomain.Invoice{}, invoicedomain.ErrInvoiceNotFound
	}

	invoice, err := s.GetByID(ctx, id)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	notification.BestEffort(s.log, "outbox_invoice_paid", func() error {
		return s.outbox.Publish(ctx, events.Event{
			Type: events.EventInvoicePaid,
			Payload: events.InvoicePayload{
				InvoiceID:     invoice.ID.String(),
				InvoiceNumber: invoice.InvoiceNumber,
			}.ToMap(),
			DedupeKey: events.EventInvoicePaid + ":" + invoice.InvoiceNumber,
		})
	})
	return invoice, nil
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
