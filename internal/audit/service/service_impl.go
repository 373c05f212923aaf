package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	auditdomain "github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/audit/domain"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/auditcontext"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/observability/logger"
)

// Service records administrative actions. Writes are best-effort from
// the caller's point of view: handlers ignore the returned error so an
// audit insert never fails the request it describes.
type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  auditdomain.Repository
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  auditdomain.Repository
}

func NewService(p Params) *Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

// AuditLog writes one audit row. Actor, IP and user agent come from the
// request context when present; absent values default to the system
// actor.
func (s *Service) AuditLog(ctx context.Context, action, targetType string, targetID *string, metadata map[string]any) error {
	actorType, actorID := auditcontext.ActorFromContext(ctx)
	if actorType == "" {
		actorType = string(auditdomain.ActorTypeSystem)
	}

	entry := &auditdomain.AuditLog{
		ID:         s.genID.Generate(),
		ActorType:  actorType,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Metadata:   datatypes.JSONMap{},
		CreatedAt:  time.Now().UTC(),
	}
	if actorID != "" {
		entry.ActorID = &actorID
	}
	if ip := auditcontext.IPAddressFromContext(ctx); ip != "" {
		entry.IPAddress = &ip
	}
	if ua := auditcontext.UserAgentFromContext(ctx); ua != "" {
		entry.UserAgent = &ua
	}
	// Metadata is caller-supplied and can echo request payloads, so
	// secrets are masked before the row is written.
	for key, value := range logger.MaskJSON(metadata) {
		entry.Metadata[key] = value
	}

	if err := s.repo.Insert(ctx, s.db, entry); err != nil {
		s.log.Warn("audit insert failed",
			zap.String("action", action),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// List returns recent audit entries matching the filter.
func (s *Service) List(ctx context.Context, filter auditdomain.ListFilter) ([]*auditdomain.AuditLog, error) {
	return s.repo.List(ctx, s.db, filter)
}
