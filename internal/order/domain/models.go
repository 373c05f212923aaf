package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// OrderStatus tracks a provisioning order through delivery.
type OrderStatus string

const (
	OrderStatusInProgress OrderStatus = "In Progress"
	OrderStatusConfirmed  OrderStatus = "Confirmed"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusRejected   OrderStatus = "Rejected"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// NumberStatus tracks whether a provisioned number is still billable.
type NumberStatus string

const (
	NumberStatusActive       NumberStatus = "Active"
	NumberStatusDisconnected NumberStatus = "Disconnected"
)

// Customer owns orders and receives invoice notifications.
type Customer struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	Name      string       `gorm:"type:text;not null"`
	Email     string       `gorm:"type:text;not null"`
	Phone     string       `gorm:"type:text"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Customer) TableName() string { return "customers" }

// Order is a customer's provisioning request for a number product.
// CompletedAt is set exactly once, when the order transitions to
// Delivered; the invoice engine reads it but never writes it.
type Order struct {
	ID          snowflake.ID      `gorm:"primaryKey"`
	OrderNumber string            `gorm:"type:text;not null;uniqueIndex"`
	CustomerID  snowflake.ID      `gorm:"not null;index"`
	ProductType string            `gorm:"type:text;not null"`
	Quantity    int               `gorm:"not null;default:1"`
	Status      OrderStatus       `gorm:"type:text;not null;default:'In Progress'"`
	CompletedAt *time.Time        `gorm:"column:completed_at"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Order) TableName() string { return "orders" }

// Number is a provisioned phone number allocated against an order. The
// count of Active numbers per order is the billable unit multiplier.
type Number struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	OrderID   snowflake.ID `gorm:"not null;index"`
	MSISDN    string       `gorm:"type:text;not null;uniqueIndex"`
	Status    NumberStatus `gorm:"type:text;not null;default:'Active'"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Number) TableName() string { return "numbers" }
