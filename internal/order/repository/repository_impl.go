package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	orderdomain "github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/order/domain"
)

type Repository struct {
	db  *gorm.DB
	log *zap.Logger
}

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

func NewRepository(p Params) orderdomain.Repository {
	return &Repository{
		db:  p.DB,
		log: p.Log.Named("order.repository"),
	}
}

// FindBillableOrders pages by order id so callers can walk the whole
// candidate set in batches: skip-worthy orders (no pricing, no active
// numbers) stay in the result set across runs, and a keyset past them
// is the only way a capped batch can make progress.
func (r *Repository) FindBillableOrders(ctx context.Context, periodStart, periodEnd time.Time, afterID snowflake.ID, limit int) ([]orderdomain.BillableOrder, error) {
	if limit <= 0 {
		limit = 200
	}
	var rows []orderdomain.BillableOrder
	err := r.db.WithContext(ctx).Raw(
		`SELECT o.id, o.order_number, o.customer_id, c.email AS customer_email,
		        o.completed_at, o.quantity
		 FROM orders o
		 JOIN customers c ON c.id = o.customer_id
		 WHERE o.status = ?
		   AND o.id > ?
		   AND o.completed_at IS NOT NULL
		   AND o.completed_at >= ? AND o.completed_at < ?
		   AND NOT EXISTS (
		       SELECT 1 FROM invoices i
		       WHERE i.order_id = o.id
		         AND i.from_date >= ? AND i.from_date < ?
		   )
		 ORDER BY o.id ASC
		 LIMIT ?`,
		orderdomain.OrderStatusDelivered,
		afterID,
		periodStart,
		periodEnd,
		periodStart,
		periodEnd,
		limit,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) CountActiveNumbers(ctx context.Context, orderID snowflake.ID) (int64, error) {
	if orderID == 0 {
		return 0, orderdomain.ErrInvalidOrder
	}
	var count int64
	err := r.db.WithContext(ctx).Raw(
		`SELECT COUNT(1)
		 FROM numbers
		 WHERE order_id = ? AND status = ?`,
		orderID,
		orderdomain.NumberStatusActive,
	).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
