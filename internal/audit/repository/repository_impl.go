package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	auditdomain "github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/audit/domain"
)

type Repository struct{}

func Provide() auditdomain.Repository {
	return &Repository{}
}

func (r *Repository) Insert(ctx context.Context, db *gorm.DB, entry *auditdomain.AuditLog) error {
	if db == nil {
		return errors.New("missing_database")
	}
	if entry == nil {
		return errors.New("missing_audit_entry")
	}
	return db.WithContext(ctx).Create(entry).Error
}

func (r *Repository) List(ctx context.Context, db *gorm.DB, filter auditdomain.ListFilter) ([]*auditdomain.AuditLog, error) {
	if db == nil {
		return nil, errors.New("missing_database")
	}

	query := db.WithContext(ctx).Model(&auditdomain.AuditLog{})
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.TargetType != "" {
		query = query.Where("target_type = ?", filter.TargetType)
	}
	if filter.TargetID != "" {
		query = query.Where("target_id = ?", filter.TargetID)
	}
	if filter.ActorType != "" {
		query = query.Where("actor_type = ?", filter.ActorType)
	}
	if filter.StartAt != nil {
		query = query.Where("created_at >= ?", *filter.StartAt)
	}
	if filter.EndAt != nil {
		query = query.Where("created_at < ?", *filter.EndAt)
	}
	if filter.Cursor != nil {
		query = query.Where(
			"(created_at, id) < (?, ?)",
			filter.Cursor.CreatedAt,
			filter.Cursor.ID,
		)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var entries []*auditdomain.AuditLog
	err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
