package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// InvoiceStatus follows the invoice lifecycle: Pending at creation, then
// Paid (payment flow) or Overdue (due date passed while Pending).
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "Pending"
	InvoiceStatusPaid    InvoiceStatus = "Paid"
	InvoiceStatusOverdue InvoiceStatus = "Overdue"
)

// Invoice bills one order for one service month. InvoiceNumber is
// `{order_number}-{MM}` for scheduled invoices and `INV-{timestamp}` for
// manually created ones; its uniqueness backs generation idempotence.
type Invoice struct {
	ID            snowflake.ID      `gorm:"primaryKey"`
	InvoiceNumber string            `gorm:"type:text;not null;uniqueIndex"`
	CustomerID    snowflake.ID      `gorm:"not null;index"`
	OrderID       snowflake.ID      `gorm:"not null;index"`
	MRCAmount     int64             `gorm:"column:mrc_amount_cents;not null"`
	UsageAmount   int64             `gorm:"column:usage_amount_cents;not null;default:0"`
	Amount        int64             `gorm:"column:amount_cents;not null"`
	Currency      string            `gorm:"type:text;not null;default:'INR'"`
	Period        string            `gorm:"type:text;not null;index"`
	FromDate      time.Time         `gorm:"column:from_date;not null"`
	ToDate        time.Time         `gorm:"column:to_date;not null"`
	DueDate       time.Time         `gorm:"column:due_date;not null;index"`
	Status        InvoiceStatus     `gorm:"type:text;not null;default:'Pending';index"`
	PaidDate      *time.Time        `gorm:"column:paid_date"`
	Metadata      datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }
