package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	auditdomain "github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/audit/domain"
	auditrepository "github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/audit/repository"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/auditcontext"
)

var testNode = func() *snowflake.Node {
	node, err := snowflake.NewNode(6)
	if err != nil {
		panic(err)
	}
	return node
}()

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

	if err := db.AutoMigrate(&auditdomain.AuditLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()
	return NewService(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: testNode,
		Repo:  auditrepository.Provide(),
	})
}

func TestAuditLogDefaultsToSystemActor(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(t, db)

	if err := svc.AuditLog(context.Background(), "job.invoice_generation", "job", nil, nil); err != nil {
		t.Fatalf("audit log: %v", err)
	}

	var entry auditdomain.AuditLog
	if err := db.First(&entry).Error; err != nil {
		t.Fatalf("load entry: %v", err)
	}
	if entry.ActorType != string(auditdomain.ActorTypeSystem) {
		t.Fatalf("expected system actor, got %s", entry.ActorType)
	}
	if entry.ActorID != nil {
		t.Fatalf("expected nil actor id, got %v", *entry.ActorID)
	}
}

func TestAuditLogRecordsRequestContext(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(t, db)

	ctx := auditcontext.WithActor(context.Background(), string(auditdomain.ActorTypeOperator), "ops-7")
	ctx = auditcontext.WithIPAddress(ctx, "203.0.113.9")
	ctx = auditcontext.WithUserAgent(ctx, "curl/8.5")

	targetID := "901"
	err := svc.AuditLog(ctx, "invoice.mark_paid", "invoice", &targetID, map[string]any{
		"invoice_number": "ORD-1-02",
	})
	if err != nil {
		t.Fatalf("audit log: %v", err)
	}

	var entry auditdomain.AuditLog
	if err := db.First(&entry).Error; err != nil {
		t.Fatalf("load entry: %v", err)
	}
	if entry.ActorType != string(auditdomain.ActorTypeOperator) || entry.ActorID == nil || *entry.ActorID != "ops-7" {
		t.Fatalf("unexpected actor: %s / %v", entry.ActorType, entry.ActorID)
	}
	if entry.IPAddress == nil || *entry.IPAddress != "203.0.113.9" {
		t.Fatalf("unexpected ip: %v", entry.IPAddress)
	}
	if entry.UserAgent == nil || *entry.UserAgent != "curl/8.5" {
		t.Fatalf("unexpected user agent: %v", entry.UserAgent)
	}
	if entry.TargetID == nil || *entry.TargetID != "901" {
		t.Fatalf("unexpected target id: %v", entry.TargetID)
	}
	if entry.Metadata["invoice_number"] != "ORD-1-02" {
		t.Fatalf("unexpected metadata: %v", entry.Metadata)
	}
}

func TestAuditLogMasksSensitiveMetadata(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(t, db)

	err := svc.AuditLog(context.Background(), "invoice.create_manual", "invoice", nil, map[string]any{
		"api_key":        "key_12345678",
		"invoice_number": "ORD-1-02",
	})
	if err != nil {
		t.Fatalf("audit log: %v", err)
	}

	var entry auditdomain.AuditLog
	if err := db.First(&entry).Error; err != nil {
		t.Fatalf("load entry: %v", err)
	}
	if entry.Metadata["api_key"] != "****5678" {
		t.Fatalf("expected masked api key, got %v", entry.Metadata["api_key"])
	}
	if entry.Metadata["invoice_number"] != "ORD-1-02" {
		t.Fatalf("expected plain invoice number, got %v", entry.Metadata["invoice_number"])
	}
}

func TestListFiltersByAction(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(t, db)

	actions := []string{"invoice.create_manual", "invoice.mark_paid", "invoice.mark_paid"}
	for _, action := range actions {
		if err := svc.AuditLog(context.Background(), action, "invoice", nil, nil); err != nil {
			t.Fatalf("audit log %s: %v", action, err)
		}
	}

	entries, err := svc.List(context.Background(), auditdomain.ListFilter{Action: "invoice.mark_paid"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, entry := range entries {
		if entry.Action != "invoice.mark_paid" {
			t.Fatalf("unexpected action %s", entry.Action)
		}
	}
}

func TestListCursorPagination(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(t, db)

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		entry := &auditdomain.AuditLog{
			ID:         testNode.Generate(),
			ActorType:  string(auditdomain.ActorTypeSystem),
			Action:     "job.overdue_check",
			TargetType: "job",
			Metadata:   map[string]any{},
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.Create(entry).Error; err != nil {
			t.Fatalf("seed entry: %v", err)
		}
	}

	first, err := svc.List(context.Background(), auditdomain.ListFilter{Limit: 2})
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(first))
	}
	if !first[0].CreatedAt.After(first[1].CreatedAt) {
		t.Fatalf("expected newest-first ordering: %v then %v", first[0].CreatedAt, first[1].CreatedAt)
	}

	last := first[len(first)-1]
	second, err := svc.List(context.Background(), auditdomain.ListFilter{
		Limit: 10,
		Cursor: &auditdomain.AuditCursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		},
	})
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(second) != 3 {
		t.Fatalf("expected 3 remaining entries, got %d", len(second))
	}
	for _, entry := range second {
		if !entry.CreatedAt.Before(last.CreatedAt) {
			t.Fatalf("cursor leaked entry at %v (cursor %v)", entry.CreatedAt, last.CreatedAt)
		}
	}
}
