package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	orderdomain "github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/order/domain"
	pricingdomain "github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/pricing/domain"
)

// EnsureDemoData seeds a small set of customers, delivered orders,
// active numbers and pricing so the scheduled generation run has
// something to bill. It is idempotent: an existing demo customer means
// the data is already in place.
func EnsureDemoData(db *gorm.DB, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if node == nil {
		return errors.New("seed id generator is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.WithContext(ctx).
			Model(&orderdomain.Customer{}).
			Where("email LIKE ?", "%@demo.telecore.in").
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		return seedDemoTx(ctx, tx, node)
	})
}

func seedDemoTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	now := time.Now().UTC()
	// Completed mid previous month so the next generation run picks
	// these orders up. Anchoring to the month start avoids AddDate
	// normalization pushing a day-29..31 timestamp into the current
	// month.
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	completed := monthStart.AddDate(0, -1, 14)

	demos := []struct {
		name     string
		email    string
		order    string
		numbers  int
		mrcCents int64
	}{
		{"Arjun Traders", "arjun@demo.telecore.in", "ORD-1001", 2, 49900},
		{"Bluefin Logistics", "ops@demo.telecore.in", "ORD-1002", 5, 29900},
		{"Chennai Handlooms", "billing@demo.telecore.in", "ORD-1003", 1, 99900},
	}

	for i, demo := range demos {
		customer := orderdomain.Customer{
			ID:        node.Generate(),
			Name:      demo.name,
			Email:     demo.email,
			Phone:     fmt.Sprintf("+9198%08d", i+1),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.WithContext(ctx).Create(&customer).Error; err != nil {
			return err
		}

		completedAt := completed
		order := orderdomain.Order{
			ID:          node.Generate(),
			OrderNumber: demo.order,
			CustomerID:  customer.ID,
			ProductType: "mobile_connection",
			Quantity:    demo.numbers,
			Status:      orderdomain.OrderStatusDelivered,
			CompletedAt: &completedAt,
			Metadata:    datatypes.JSONMap{"source": "seed"},
			CreatedAt:   completed.AddDate(0, 0, -7),
			UpdatedAt:   completed,
		}
		if err := tx.WithContext(ctx).Create(&order).Error; err != nil {
			return err
		}

		for n := 0; n < demo.numbers; n++ {
			number := orderdomain.Number{
				ID:        node.Generate(),
				OrderID:   order.ID,
				MSISDN:    fmt.Sprintf("+9190%02d%06d", i+1, n+1),
				Status:    orderdomain.NumberStatusActive,
				CreatedAt: completed,
				UpdatedAt: completed,
			}
			if err := tx.WithContext(ctx).Create(&number).Error; err != nil {
				return err
			}
		}

		pricing := pricingdomain.PricingRecord{
			ID:             node.Generate(),
			OrderID:        order.ID,
			PricingType:    pricingdomain.PricingTypeCurrent,
			MRCAmountCents: demo.mrcCents,
			Currency:       "INR",
			CreatedAt:      completed,
			UpdatedAt:      completed,
		}
		if err := tx.WithContext(ctx).Create(&pricing).Error; err != nil {
			return err
		}
	}
	return nil
}
