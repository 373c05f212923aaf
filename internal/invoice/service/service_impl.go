package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/clock"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/config"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/events"
	invoicedomain "github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/invoice/domain"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/invoice/period"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/notification"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/observability/metrics"
	orderdomain "github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/order/domain"
	pricingdomain "github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/pricing/domain"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID    *snowflake.Node
	clk      clock.Clock
	orders   orderdomain.Repository
	pricing  pricingdomain.Service
	notifier notification.Gateway
	outbox   *events.Outbox
	met      *metrics.LifecycleMetrics
	cfg      config.BillingConfig
}

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	OrderRepo  orderdomain.Repository
	PricingSvc pricingdomain.Service
	Notifier   notification.Gateway
	Outbox     *events.Outbox
	Metrics    *metrics.LifecycleMetrics `optional:"true"`
	Cfg        config.Config
}

func NewService(p Params) invoicedomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("invoice.service"),

		genID:    p.GenID,
		clk:      p.Clock,
		orders:   p.OrderRepo,
		pricing:  p.PricingSvc,
		notifier: p.Notifier,
		outbox:   p.Outbox,
		met:      p.Metrics,
		cfg:      p.Cfg.Billing,
	}
}

type orderOutcome int

const (
	outcomeCreated orderOutcome = iota
	outcomeSkipped
)

// GenerateMonthly bills every order delivered in the month preceding
// asOf. Each order is processed independently: a single order's failure
// is logged and the batch continues. Batches walk the candidate set by
// keyset until it is exhausted, so skipped orders at the front of the
// ordering cannot starve later billable ones.
func (s *Service) GenerateMonthly(ctx context.Context, asOf time.Time) (invoicedomain.GenerateResult, error) {
	periodStr, periodStart, periodEnd := period.TargetPeriod(asOf)
	result := invoicedomain.GenerateResult{Period: periodStr}

	batchSize := s.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 200
	}

	log := s.log.With(zap.String("period", periodStr))
	log.Info("invoice generation run started", zap.Int("batch_size", batchSize))

	var afterID snowflake.ID
	for {
		orders, err := s.orders.FindBillableOrders(ctx, periodStart, periodEnd, afterID, batchSize)
		if err != nil {
			return result, err
		}
		if len(orders) == 0 {
			break
		}
		afterID = orders[len(orders)-1].ID

		for _, ord := range orders {
			outcome, notified, err := s.generateForOrder(ctx, ord, asOf, periodStr)
			if err != nil {
				result.Failed++
				log.Error("order invoicing failed",
					zap.String("order_number", ord.OrderNumber),
					zap.Error(err),
				)
				continue
			}
			switch outcome {
			case outcomeCreated:
				result.Created++
				if notified {
					result.Notified++
				}
			case outcomeSkipped:
				result.Skipped++
			}
		}

		if len(orders) < batchSize {
			break
		}
	}

	s.met.AddGenerated("created", result.Created)
	s.met.AddGenerated("skipped", result.Skipped)
	s.met.AddGenerated("failed", result.Failed)

	log.Info("invoice generation run finished",
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

func (s *Service) generateForOrder(ctx context.Context, ord orderdomain.BillableOrder, asOf time.Time, periodStr string) (orderOutcome, bool, error) {
	log := s.log.With(
		zap.String("order_number", ord.OrderNumber),
		zap.String("period", periodStr),
	)

	activeCount, err := s.orders.CountActiveNumbers(ctx, ord.ID)
	if err != nil {
		return outcomeSkipped, false, err
	}
	if activeCount == 0 {
		log.Info("skipping order, no active numbers")
		return outcomeSkipped, false, nil
	}

	price, err := s.pricing.Resolve(ctx, ord.ID)
	if err != nil {
		if errors.Is(err, pricingdomain.ErrPricingNotFound) {
			log.Info("skipping order, no pricing record")
			return outcomeSkipped, false, nil
		}
		return outcomeSkipped, false, err
	}

	terms := period.Compute(asOf, ord.CompletedAt, s.cfg.DueInDays)
	invoiceNumber := period.InvoiceNumber(ord.OrderNumber, terms.MonthSuffix)

	// Usage charges are rated by a separate process after generation.
	var usageAmount int64
	amount := price.MRCAmountCents*activeCount + usageAmount

	invoiceID := s.genID.Generate()
	now := s.clk.Now()

	inserted := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.WithContext(ctx).Exec(
			`INSERT INTO invoices (
				id, invoice_number, customer_id, order_id,
				mrc_amount_cents, usage_amount_cents, amount_cents, currency,
				period, from_date, to_date, due_date, status, metadata,
				created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (invoice_number) DO NOTHING`,
			invoiceID,
			invoiceNumber,
			ord.CustomerID,
			ord.ID,
			price.MRCAmountCents,
			usageAmount,
			amount,
			price.Currency,
			terms.Period,
			terms.FromDate,
			terms.ToDate,
			terms.DueDate,
			invoicedomain.InvoiceStatusPending,
			datatypes.JSONMap{},
			now,
			now,
		)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		inserted = true

		return s.outbox.PublishTx(ctx, tx, events.Event{
			Type: events.EventInvoiceGenerated,
			Payload: events.InvoicePayload{
				InvoiceID:     invoiceID.String(),
				InvoiceNumber: invoiceNumber,
				OrderID:       ord.ID.String(),
				Period:        terms.Period,
			}.ToMap(),
			DedupeKey: events.EventInvoiceGenerated + ":" + invoiceNumber,
		})
	})
	if err != nil {
		return outcomeSkipped, false, err
	}
	if !inserted {
		log.Info("skipping order, invoice already exists", zap.String("invoice_number", invoiceNumber))
		return outcomeSkipped, false, nil
	}

	notified := false
	notification.BestEffort(log, "invoice_generated", func() error {
		err := s.notifier.InvoiceGenerated(ctx, notification.InvoiceGeneratedParams{
			Recipient:     ord.CustomerEmail,
			InvoiceNumber: invoiceNumber,
			AmountCents:   amount,
			Currency:      price.Currency,
			DueDate:       terms.DueDate,
			Period:        terms.Period,
		})
		notified = err == nil
		return err
	})

	log.Info("invoice created",
		zap.String("invoice_number", invoiceNumber),
		zap.Int64("amount_cents", amount),
		zap.Int64("active_numbers", activeCount),
	)
	return outcomeCreated, notified, nil
}

func (s *Service) customerEmail(ctx context.Context, customerID snowflake.ID) (string, error) {
	var row struct {
		Email string
	}
	err := s.db.WithContext(ctx).Raw(
		`SELECT email FROM customers WHERE id = ?`,
		customerID,
	).Scan(&row).Error
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(row.Email), nil
}
