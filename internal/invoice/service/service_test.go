package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/clock"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/config"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/events"
	invoicedomain "github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/invoice/domain"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/notification"
	orderdomain "github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/order/domain"
	pricingdomain "github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/pricing/domain"
)

type fakeOrders struct {
	orders   []orderdomain.BillableOrder
	active   map[snowflake.ID]int64
	countErr map[snowflake.ID]error
}

func (f *fakeOrders) FindBillableOrders(ctx context.Context, periodStart, periodEnd time.Time, afterID snowflake.ID, limit int) ([]orderdomain.BillableOrder, error) {
	if limit <= 0 {
		limit = 200
	}
	var page []orderdomain.BillableOrder
	for _, ord := range f.orders {
		if ord.ID <= afterID {
			continue
		}
		page = append(page, ord)
		if len(page) == limit {
			break
		}
	}
	return page, nil
}

func (f *fakeOrders) CountActiveNumbers(ctx context.Context, orderID snowflake.ID) (int64, error) {
	if err := f.countErr[orderID]; err != nil {
		return 0, err
	}
	return f.active[orderID], nil
}

type fakePricing struct {
	prices map[snowflake.ID]pricingdomain.ResolvedPrice
}

func (f *fakePricing) Resolve(ctx context.Context, orderID snowflake.ID) (pricingdomain.ResolvedPrice, error) {
	price, ok := f.prices[orderID]
	if !ok {
		return pricingdomain.ResolvedPrice{}, pricingdomain.ErrPricingNotFound
	}
	return price, nil
}

type fakeGateway struct {
	fail      bool
	generated []notification.InvoiceGeneratedParams
	overdue   []notification.InvoiceOverdueParams
	dueSoon   []notification.InvoiceDueSoonParams
}

func (f *fakeGateway) InvoiceGenerated(ctx context.Context, p notification.InvoiceGeneratedParams) error {
	if f.fail {
		return errors.New("smtp unavailable")
	}
	f.generated = append(f.generated, p)
	return nil
}

func (f *fakeGateway) InvoiceOverdue(ctx context.Context, p notification.InvoiceOverdueParams) error {
	if f.fail {
		return errors.New("smtp unavailable")
	}
	f.overdue = append(f.overdue, p)
	return nil
}

func (f *fakeGateway) InvoiceDueSoon(ctx context.Context, p notification.InvoiceDueSoonParams) error {
	if f.fail {
		return errors.New("smtp unavailable")
	}
	f.dueSoon = append(f.dueSoon, p)
	return nil
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("raw db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&orderdomain.Customer{},
		&invoicedomain.Invoice{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Exec(
		`CREATE TABLE billing_events (
			id INTEGER PRIMARY KEY,
			event_type TEXT NOT NULL,
			payload TEXT,
			dedupe_key TEXT UNIQUE,
			published BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME NOT NULL
		)`,
	).Error; err != nil {
		t.Fatalf("create billing_events: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB, clk clock.Clock, orders orderdomain.Repository, pricing pricingdomain.Service, gw notification.Gateway) *Service {
	t.Helper()
	return newTestServiceWithBilling(t, db, clk, orders, pricing, gw, config.BillingConfig{
		DueInDays:         10,
		DueSoonWindowDays: 4,
		BatchSize:         200,
	})
}

func newTestServiceWithBilling(t *testing.T, db *gorm.DB, clk clock.Clock, orders orderdomain.Repository, pricing pricingdomain.Service, gw notification.Gateway, billing config.BillingConfig) *Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	svc := NewService(Params{
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      clk,
		OrderRepo:  orders,
		PricingSvc: pricing,
		Notifier:   gw,
		Outbox:     events.NewOutbox(db, node),
		Cfg:        config.Config{Billing: billing},
	})
	return svc.(*Service)
}

var testNode = func() *snowflake.Node {
	node, err := snowflake.NewNode(2)
	if err != nil {
		panic(err)
	}
	return node
}()

func mustID(t *testing.T) snowflake.ID {
	t.Helper()
	return testNode.Generate()
}

func billableOrder(t *testing.T, number string, completedAt time.Time) orderdomain.BillableOrder {
	t.Helper()
	return orderdomain.BillableOrder{
		ID:            mustID(t),
		OrderNumber:   number,
		CustomerID:    mustID(t),
		CustomerEmail: "customer@example.com",
		CompletedAt:   completedAt,
		Quantity:      1,
	}
}

func TestGenerateMonthlyCreatesInvoice(t *testing.T) {
	db := openTestDB(t)
	runAt := time.Date(2024, 3, 1, 1, 0, 0, 0, time.FixedZone("IST", 19800))
	ord := billableOrder(t, "ORD-1001", time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC))

	orders := &fakeOrders{
		orders: []orderdomain.BillableOrder{ord},
		active: map[snowflake.ID]int64{ord.ID: 3},
	}
	pricing := &fakePricing{prices: map[snowflake.ID]pricingdomain.ResolvedPrice{
		ord.ID: {MRCAmountCents: 49900, Currency: "INR", PricingType: pricingdomain.PricingTypeCurrent},
	}}
	gw := &fakeGateway{}
	svc := newTestService(t, db, clock.Fixed(runAt), orders, pricing, gw)

	result, err := svc.GenerateMonthly(context.Background(), runAt)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.Created != 1 || result.Skipped != 0 || result.Failed != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Notified != 1 {
		t.Fatalf("expected 1 notified, got %d", result.Notified)
	}

	var invoice invoicedomain.Invoice
	if err := db.First(&invoice, "invoice_number = ?", "ORD-1001-03").Error; err != nil {
		t.Fatalf("load invoice: %v", err)
	}
	if invoice.Amount != 3*49900 {
		t.Fatalf("expected amount %d, got %d", 3*49900, invoice.Amount)
	}
	if invoice.MRCAmount != 49900 || invoice.UsageAmount != 0 {
		t.Fatalf("unexpected amount breakdown %+v", invoice)
	}
	if invoice.Status != invoicedomain.InvoiceStatusPending {
		t.Fatalf("expected Pending, got %s", invoice.Status)
	}
	if invoice.Period != "2024-02" {
		t.Fatalf("expected period 2024-02, got %s", invoice.Period)
	}

	if len(gw.generated) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(gw.generated))
	}
	if gw.generated[0].Recipient != "customer@example.com" {
		t.Fatalf("unexpected recipient %s", gw.generated[0].Recipient)
	}

	var eventCount int64
	if err := db.Raw(`SELECT COUNT(1) FROM billing_events WHERE event_type = ?`, events.EventInvoiceGenerated).Scan(&eventCount).Error; err != nil {
		t.Fatalf("count events: %v", err)
	}
	if eventCount != 1 {
		t.Fatalf("expected 1 outbox event, got %d", eventCount)
	}
}

func TestGenerateMonthlyIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	runAt := time.Date(2024, 3, 1, 1, 0, 0, 0, time.FixedZone("IST", 19800))
	ord := billableOrder(t, "ORD-2001", time.Date(2024, 2, 10, 10, 0, 0, 0, time.UTC))

	orders := &fakeOrders{
		orders: []orderdomain.BillableOrder{ord},
		active: map[snowflake.ID]int64{ord.ID: 1},
	}
	pricing := &fakePricing{prices: map[snowflake.ID]pricingdomain.ResolvedPrice{
		ord.ID: {MRCAmountCents: 10000, Currency: "INR"},
	}}
	gw := &fakeGateway{}
	svc := newTestService(t, db, clock.Fixed(runAt), orders, pricing, gw)

	first, err := svc.GenerateMonthly(context.Background(), runAt)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := svc.GenerateMonthly(context.Background(), runAt)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if first.Created != 1 {
		t.Fatalf("expected first run to create, got %+v", first)
	}
	if second.Created != 0 || second.Skipped != 1 {
		t.Fatalf("expected second run to skip, got %+v", second)
	}

	var count int64
	db.Model(&invoicedomain.Invoice{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 invoice, got %d", count)
	}
	if len(gw.generated) != 1 {
		t.Fatalf("expected 1 notification total, got %d", len(gw.generated))
	}
}

func TestGenerateMonthlySkips(t *testing.T) {
	db := openTestDB(t)
	runAt := time.Date(2024, 3, 1, 1, 0, 0, 0, time.FixedZone("IST", 19800))
	noNumbers := billableOrder(t, "ORD-3001", time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC))
	noPricing := billableOrder(t, "ORD-3002", time.Date(2024, 2, 6, 0, 0, 0, 0, time.UTC))

	orders := &fakeOrders{
		orders: []orderdomain.BillableOrder{noNumbers, noPricing},
		active: map[snowflake.ID]int64{noNumbers.ID: 0, noPricing.ID: 2},
	}
	pricing := &fakePricing{prices: map[snowflake.ID]pricingdomain.ResolvedPrice{}}
	gw := &fakeGateway{}
	svc := newTestService(t, db, clock.Fixed(runAt), orders, pricing, gw)

	result, err := svc.GenerateMonthly(context.Background(), runAt)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.Created != 0 || result.Skipped != 2 || result.Failed != 0 {
		t.Fatalf("unexpected result %+v", result)
	}

	var count int64
	db.Model(&invoicedomain.Invoice{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no invoices, got %d", count)
	}
	if len(gw.generated) != 0 {
		t.Fatalf("expected no notifications, got %d", len(gw.generated))
	}
}

func TestGenerateMonthlyIsolatesFailures(t *testing.T) {
	db := openTestDB(t)
	runAt := time.Date(2024, 3, 1, 1, 0, 0, 0, time.FixedZone("IST", 19800))
	broken := billableOrder(t, "ORD-4001", time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC))
	healthy := billableOrder(t, "ORD-4002", time.Date(2024, 2, 6, 0, 0, 0, 0, time.UTC))

	orders := &fakeOrders{
		orders:   []orderdomain.BillableOrder{broken, healthy},
		active:   map[snowflake.ID]int64{healthy.ID: 1},
		countErr: map[snowflake.ID]error{broken.ID: errors.New("backend down")},
	}
	pricing := &fakePricing{prices: map[snowflake.ID]pricingdomain.ResolvedPrice{
		healthy.ID: {MRCAmountCents: 20000, Currency: "INR"},
	}}
	gw := &fakeGateway{}
	svc := newTestService(t, db, clock.Fixed(runAt), orders, pricing, gw)

	result, err := svc.GenerateMonthly(context.Background(), runAt)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.Failed != 1 || result.Created != 1 {
		t.Fatalf("expected 1 failed and 1 created, got %+v", result)
	}

	var count int64
	db.Model(&invoicedomain.Invoice{}).Where("invoice_number = ?", "ORD-4002-03").Count(&count)
	if count != 1 {
		t.Fatalf("expected invoice for healthy order")
	}
}

func TestGenerateMonthlyNotificationFailureIsNotFatal(t *testing.T) {
	db := openTestDB(t)
	runAt := time.Date(2024, 3, 1, 1, 0, 0, 0, time.FixedZone("IST", 19800))
	ord := billableOrder(t, "ORD-5001", time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))

	orders := &fakeOrders{
		orders: []orderdomain.BillableOrder{ord},
		active: map[snowflake.ID]int64{ord.ID: 1},
	}
	pricing := &fakePricing{prices: map[snowflake.ID]pricingdomain.ResolvedPrice{
		ord.ID: {MRCAmountCents: 5000, Currency: "INR"},
	}}
	gw := &fakeGateway{fail: true}
	svc := newTestService(t, db, clock.Fixed(runAt), orders, pricing, gw)

	result, err := svc.GenerateMonthly(context.Background(), runAt)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.Created != 1 || result.Failed != 0 {
		t.Fatalf("expected creation despite notification failure, got %+v", result)
	}
	if result.Notified != 0 {
		t.Fatalf("expected 0 notified, got %d", result.Notified)
	}
}

func TestGenerateMonthlyDrainsPastSkippedOrders(t *testing.T) {
	db := openTestDB(t)
	runAt := time.Date(2024, 3, 1, 1, 0, 0, 0, time.FixedZone("IST", 19800))
	// The unpriceable order sorts first; with a batch cap of one it must
	// not block the billable order behind it.
	unpriceable := billableOrder(t, "ORD-A001", time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC))
	billable := billableOrder(t, "ORD-A002", time.Date(2024, 2, 4, 0, 0, 0, 0, time.UTC))

	orders := &fakeOrders{
		orders: []orderdomain.BillableOrder{unpriceable, billable},
		active: map[snowflake.ID]int64{unpriceable.ID: 1, billable.ID: 1},
	}
	pricing := &fakePricing{prices: map[snowflake.ID]pricingdomain.ResolvedPrice{
		billable.ID: {MRCAmountCents: 15000, Currency: "INR"},
	}}
	gw := &fakeGateway{}
	svc := newTestServiceWithBilling(t, db, clock.Fixed(runAt), orders, pricing, gw, config.BillingConfig{
		DueInDays:         10,
		DueSoonWindowDays: 4,
		BatchSize:         1,
	})

	result, err := svc.GenerateMonthly(context.Background(), runAt)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.Created != 1 || result.Skipped != 1 {
		t.Fatalf("expected 1 created and 1 skipped in one run, got %+v", result)
	}

	var count int64
	db.Model(&invoicedomain.Invoice{}).Where("invoice_number = ?", "ORD-A002-03").Count(&count)
	if count != 1 {
		t.Fatalf("expected invoice for order behind the skipped one")
	}
}

func seedInvoice(t *testing.T, db *gorm.DB, number string, status invoicedomain.InvoiceStatus, dueDate time.Time, customerID snowflake.ID) invoicedomain.Invoice {
	t.Helper()
	now := time.Now().UTC()
	invoice := invoicedomain.Invoice{
		ID:            mustID(t),
		InvoiceNumber: number,
		CustomerID:    customerID,
		OrderID:       mustID(t),
		MRCAmount:     10000,
		Amount:        10000,
		Currency:      "INR",
		Period:        "2024-02",
		FromDate:      now.AddDate(0, -1, 0),
		ToDate:        now,
		DueDate:       dueDate,
		Status:        status,
		Metadata:      datatypes.JSONMap{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := db.Create(&invoice).Error; err != nil {
		t.Fatalf("seed invoice %s: %v", number, err)
	}
	return invoice
}

func seedCustomer(t *testing.T, db *gorm.DB, email string) snowflake.ID {
	t.Helper()
	customer := orderdomain.Customer{
		ID:        mustID(t),
		Name:      "Test Customer",
		Email:     email,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return customer.ID
}

func TestMarkOverdueTransitions(t *testing.T) {
	db := openTestDB(t)
	asOf := time.Date(2024, 3, 15, 2, 0, 0, 0, time.UTC)
	customerID := seedCustomer(t, db, "overdue@example.com")

	pastDue := seedInvoice(t, db, "ORD-6001-02", invoicedomain.InvoiceStatusPending, asOf.AddDate(0, 0, -1), customerID)
	exactlyDue := seedInvoice(t, db, "ORD-6002-02", invoicedomain.InvoiceStatusPending, asOf, customerID)
	futureDue := seedInvoice(t, db, "ORD-6003-02", invoicedomain.InvoiceStatusPending, asOf.AddDate(0, 0, 1), customerID)
	alreadyPaid := seedInvoice(t, db, "ORD-6004-02", invoicedomain.InvoiceStatusPaid, asOf.AddDate(0, 0, -5), customerID)

	gw := &fakeGateway{}
	svc := newTestService(t, db, clock.Fixed(asOf), &fakeOrders{}, &fakePricing{}, gw)

	result, err := svc.MarkOverdue(context.Background(), asOf)
	if err != nil {
		t.Fatalf("mark overdue: %v", err)
	}
	if result.Transitioned != 2 {
		t.Fatalf("expected 2 transitions, got %d", result.Transitioned)
	}
	if result.Notified != 2 {
		t.Fatalf("expected 2 notifications, got %d", result.Notified)
	}

	assertStatus := func(id snowflake.ID, want invoicedomain.InvoiceStatus) {
		t.Helper()
		var invoice invoicedomain.Invoice
		if err := db.First(&invoice, "id = ?", id).Error; err != nil {
			t.Fatalf("load invoice: %v", err)
		}
		if invoice.Status != want {
			t.Fatalf("invoice %s: expected %s, got %s", invoice.InvoiceNumber, want, invoice.Status)
		}
	}
	assertStatus(pastDue.ID, invoicedomain.InvoiceStatusOverdue)
	assertStatus(exactlyDue.ID, invoicedomain.InvoiceStatusOverdue)
	assertStatus(futureDue.ID, invoicedomain.InvoiceStatusPending)
	assertStatus(alreadyPaid.ID, invoicedomain.InvoiceStatusPaid)
}

func TestMarkOverdueIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	asOf := time.Date(2024, 3, 15, 2, 0, 0, 0, time.UTC)
	customerID := seedCustomer(t, db, "repeat@example.com")
	seedInvoice(t, db, "ORD-7001-02", invoicedomain.InvoiceStatusPending, asOf.AddDate(0, 0, -1), customerID)

	gw := &fakeGateway{}
	svc := newTestService(t, db, clock.Fixed(asOf), &fakeOrders{}, &fakePricing{}, gw)

	if _, err := svc.MarkOverdue(context.Background(), asOf); err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := svc.MarkOverdue(context.Background(), asOf)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Transitioned != 0 {
		t.Fatalf("expected no transitions on second run, got %d", second.Transitioned)
	}
	if len(gw.overdue) != 1 {
		t.Fatalf("expected 1 overdue notification, got %d", len(gw.overdue))
	}
}

func TestSendDueSoonRemindersWindow(t *testing.T) {
	db := openTestDB(t)
	asOf := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	customerID := seedCustomer(t, db, "soon@example.com")

	seedInvoice(t, db, "ORD-8001-02", invoicedomain.InvoiceStatusPending, asOf.AddDate(0, 0, 1), customerID)
	seedInvoice(t, db, "ORD-8002-02", invoicedomain.InvoiceStatusPending, asOf.AddDate(0, 0, 4), customerID)
	// Outside the window or not eligible.
	seedInvoice(t, db, "ORD-8003-02", invoicedomain.InvoiceStatusPending, asOf.AddDate(0, 0, 5), customerID)
	seedInvoice(t, db, "ORD-8004-02", invoicedomain.InvoiceStatusPending, asOf, customerID)
	seedInvoice(t, db, "ORD-8005-02", invoicedomain.InvoiceStatusOverdue, asOf.AddDate(0, 0, 2), customerID)

	gw := &fakeGateway{}
	svc := newTestService(t, db, clock.Fixed(asOf), &fakeOrders{}, &fakePricing{}, gw)

	sent, err := svc.SendDueSoonReminders(context.Background(), asOf)
	if err != nil {
		t.Fatalf("send reminders: %v", err)
	}
	if sent != 2 {
		t.Fatalf("expected 2 reminders, got %d", sent)
	}
	if len(gw.dueSoon) != 2 {
		t.Fatalf("expected 2 gateway calls, got %d", len(gw.dueSoon))
	}
	if gw.dueSoon[0].InvoiceNumber != "ORD-8001-02" {
		t.Fatalf("expected soonest invoice first, got %s", gw.dueSoon[0].InvoiceNumber)
	}
	if gw.dueSoon[0].DaysRemaining != 1 {
		t.Fatalf("expected 1 day remaining, got %d", gw.dueSoon[0].DaysRemaining)
	}
	if gw.dueSoon[1].DaysRemaining != 4 {
		t.Fatalf("expected 4 days remaining, got %d", gw.dueSoon[1].DaysRemaining)
	}
}

func TestMarkPaid(t *testing.T) {
	db := openTestDB(t)
	asOf := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	customerID := seedCustomer(t, db, "payer@example.com")

	pending := seedInvoice(t, db, "ORD-9001-02", invoicedomain.InvoiceStatusPending, asOf.AddDate(0, 0, 3), customerID)
	overdue := seedInvoice(t, db, "ORD-9002-02", invoicedomain.InvoiceStatusOverdue, asOf.AddDate(0, 0, -3), customerID)

	svc := newTestService(t, db, clock.Fixed(asOf), &fakeOrders{}, &fakePricing{}, &fakeGateway{})
	ctx := context.Background()

	paid, err := svc.MarkPaid(ctx, pending.ID.String())
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if paid.Status != invoicedomain.InvoiceStatusPaid {
		t.Fatalf("expected Paid, got %s", paid.Status)
	}
	if paid.PaidDate == nil || !paid.PaidDate.Equal(asOf) {
		t.Fatalf("expected paid_date %v, got %v", asOf, paid.PaidDate)
	}

	if _, err := svc.MarkPaid(ctx, overdue.ID.String()); err != nil {
		t.Fatalf("mark overdue invoice paid: %v", err)
	}

	if _, err := svc.MarkPaid(ctx, pending.ID.String()); !errors.Is(err, invoicedomain.ErrInvoiceNotOpen) {
		t.Fatalf("expected ErrInvoiceNotOpen, got %v", err)
	}
	if _, err := svc.MarkPaid(ctx, "12345"); !errors.Is(err, invoicedomain.ErrInvoiceNotFound) {
		t.Fatalf("expected ErrInvoiceNotFound, got %v", err)
	}
}

func TestCreateManual(t *testing.T) {
	db := openTestDB(t)
	asOf := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, db, clock.Fixed(asOf), &fakeOrders{}, &fakePricing{}, &fakeGateway{})
	ctx := context.Background()

	customerID := mustID(t)
	orderID := mustID(t)

	invoice, err := svc.CreateManual(ctx, invoicedomain.CreateManualRequest{
		CustomerID:  customerID.String(),
		OrderID:     orderID.String(),
		MRCAmount:   30000,
		UsageAmount: 1500,
	})
	if err != nil {
		t.Fatalf("create manual: %v", err)
	}
	if invoice.Amount != 31500 {
		t.Fatalf("expected amount 31500, got %d", invoice.Amount)
	}
	if invoice.InvoiceNumber[:4] != "INV-" {
		t.Fatalf("expected INV- prefix, got %s", invoice.InvoiceNumber)
	}
	if invoice.Status != invoicedomain.InvoiceStatusPending {
		t.Fatalf("expected Pending, got %s", invoice.Status)
	}

	if _, err := svc.CreateManual(ctx, invoicedomain.CreateManualRequest{
		CustomerID: customerID.String(),
		OrderID:    orderID.String(),
		MRCAmount:  -1,
	}); !errors.Is(err, invoicedomain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := svc.CreateManual(ctx, invoicedomain.CreateManualRequest{
		CustomerID: "not-a-number",
		OrderID:    orderID.String(),
	}); !errors.Is(err, invoicedomain.ErrInvalidCustomer) {
		t.Fatalf("expected ErrInvalidCustomer, got %v", err)
	}
}

func TestListFilters(t *testing.T) {
	db := openTestDB(t)
	asOf := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	customerID := seedCustomer(t, db, "list@example.com")

	seedInvoice(t, db, "ORD-A-02", invoicedomain.InvoiceStatusPending, asOf, customerID)
	seedInvoice(t, db, "ORD-B-02", invoicedomain.InvoiceStatusOverdue, asOf, customerID)

	svc := newTestService(t, db, clock.Fixed(asOf), &fakeOrders{}, &fakePricing{}, &fakeGateway{})
	ctx := context.Background()

	all, err := svc.List(ctx, invoicedomain.ListInvoiceRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 invoices, got %d", len(all))
	}

	overdue, err := svc.List(ctx, invoicedomain.ListInvoiceRequest{Status: "Overdue"})
	if err != nil {
		t.Fatalf("list overdue: %v", err)
	}
	if len(overdue) != 1 || overdue[0].InvoiceNumber != "ORD-B-02" {
		t.Fatalf("unexpected overdue result %+v", overdue)
	}

	loaded, err := svc.GetByID(ctx, all[0].ID.String())
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if loaded.ID != all[0].ID {
		t.Fatalf("expected invoice %v, got %v", all[0].ID, loaded.ID)
	}
	if _, err := svc.GetByID(ctx, "oops"); !errors.Is(err, invoicedomain.ErrInvalidInvoiceID) {
		t.Fatalf("expected ErrInvalidInvoiceID, got %v", err)
	}
}
