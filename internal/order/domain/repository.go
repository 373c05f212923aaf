package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// BillableOrder is the projection the invoice engine works from: a
// Delivered order joined to the customer it bills.
type BillableOrder struct {
	ID            snowflake.ID
	OrderNumber   string
	CustomerID    snowflake.ID
	CustomerEmail string
	CompletedAt   time.Time
	Quantity      int
}

// Repository exposes the read-only order/number queries the invoice
// engine needs. Order mutation belongs to the order-management flows.
type Repository interface {
	// FindBillableOrders returns Delivered orders whose completion date
	// falls in [periodStart, periodEnd) and which have no invoice with a
	// from_date inside that window. Results are ordered by id and start
	// strictly after afterID, so callers iterate the full candidate set
	// in keyset batches of at most limit.
	FindBillableOrders(ctx context.Context, periodStart, periodEnd time.Time, afterID snowflake.ID, limit int) ([]BillableOrder, error)

	// CountActiveNumbers returns the number of Active numbers allocated
	// to the order. Zero is a valid result, not an error.
	CountActiveNumbers(ctx context.Context, orderID snowflake.ID) (int64, error)
}

var (
	ErrInvalidOrder  = errors.New("invalid_order")
	ErrOrderNotFound = errors.New("order_not_found")
)
