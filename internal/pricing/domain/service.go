package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// ResolvedPrice is the charge applied per active number per month.
type ResolvedPrice struct {
	MRCAmountCents int64
	Currency       string
	PricingType    PricingType
}

// Service resolves the monthly recurring charge for an order, preferring
// the "current" record over the "desired" one.
type Service interface {
	Resolve(ctx context.Context, orderID snowflake.ID) (ResolvedPrice, error)
}

var (
	ErrInvalidOrder    = errors.New("invalid_order")
	ErrPricingNotFound = errors.New("pricing_not_found")
)
