package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// PricingType distinguishes the actively billed rate from a requested
// one. "current" wins whenever both exist for an order.
type PricingType string

const (
	PricingTypeCurrent PricingType = "current"
	PricingTypeDesired PricingType = "desired"
)

// PricingRecord holds the monthly recurring charge for an order, in
// cents. At most one record per (order, pricing_type).
type PricingRecord struct {
	ID             snowflake.ID `gorm:"primaryKey"`
	OrderID        snowflake.ID `gorm:"not null;index;uniqueIndex:ux_pricing_order_type,priority:1"`
	PricingType    PricingType  `gorm:"type:text;not null;uniqueIndex:ux_pricing_order_type,priority:2"`
	MRCAmountCents int64        `gorm:"column:mrc_amount_cents;not null"`
	NRCAmountCents int64        `gorm:"column:nrc_amount_cents;not null;default:0"`
	Currency       string       `gorm:"type:text;not null;default:'INR'"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (PricingRecord) TableName() string { return "pricing_records" }
