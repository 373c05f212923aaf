package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/cache"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/config"
	pricingdomain "github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/pricing/domain"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	resolved cache.Cache[snowflake.ID, pricingdomain.ResolvedPrice]
	cacheTTL time.Duration
}

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
	Cfg config.Config
}

func NewService(p Params) pricingdomain.Service {
	var resolved cache.Cache[snowflake.ID, pricingdomain.ResolvedPrice]
	ttl := p.Cfg.Billing.PricingCacheTTL
	if ttl > 0 {
		resolved = cache.NewTTLCache[snowflake.ID, pricingdomain.ResolvedPrice]()
	} else {
		resolved = cache.NoopCache[snowflake.ID, pricingdomain.ResolvedPrice]{}
	}
	return &Service{
		db:  p.DB,
		log: p.Log.Named("pricing.service"),

		resolved: resolved,
		cacheTTL: ttl,
	}
}

type pricingRow struct {
	ID             snowflake.ID
	PricingType    pricingdomain.PricingType
	MRCAmountCents int64
	Currency       string
}

// Resolve returns the MRC for the order. "current" pricing outranks
// "desired"; ties within a type break on the most recent record.
func (s *Service) Resolve(ctx context.Context, orderID snowflake.ID) (pricingdomain.ResolvedPrice, error) {
	if orderID == 0 {
		return pricingdomain.ResolvedPrice{}, pricingdomain.ErrInvalidOrder
	}

	if price, ok := s.resolved.Get(orderID); ok {
		return price, nil
	}

	var row pricingRow
	err := s.db.WithContext(ctx).Raw(
		`SELECT id, pricing_type, mrc_amount_cents, currency
		 FROM pricing_records
		 WHERE order_id = ? AND pricing_type IN (?, ?)
		 ORDER BY CASE pricing_type WHEN ? THEN 0 ELSE 1 END, created_at DESC
		 LIMIT 1`,
		orderID,
		pricingdomain.PricingTypeCurrent,
		pricingdomain.PricingTypeDesired,
		pricingdomain.PricingTypeCurrent,
	).Scan(&row).Error
	if err != nil {
		return pricingdomain.ResolvedPrice{}, err
	}
	if row.ID == 0 {
		return pricingdomain.ResolvedPrice{}, pricingdomain.ErrPricingNotFound
	}

	price := pricingdomain.ResolvedPrice{
		MRCAmountCents: row.MRCAmountCents,
		Currency:       row.Currency,
		PricingType:    row.PricingType,
	}
	s.resolved.Set(orderID, price, s.cacheTTL)
	return price, nil
}
