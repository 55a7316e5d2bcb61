package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusCreated OrderStatus = "created"
	OrderStatusPaid    OrderStatus = "paid"
	OrderStatusFailed  OrderStatus = "failed"
)

// PrintOrder is one payment attempt for one uploaded document.
type PrintOrder struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
	UserID            string         `gorm:"index" json:"user_id"`
	TransactionID     string         `gorm:"index" json:"transaction_id"`
	RazorpayOrderID   string         `gorm:"uniqueIndex" json:"razorpay_order_id"`
	RazorpayPaymentID string         `json:"razorpay_payment_id,omitempty"`
	FileID            string         `gorm:"index" json:"file_id"`
	FileName          string         `json:"file_name"`
	AmountPaise       int64          `json:"amount_paise"`
	Currency          string         `json:"currency"`
	Status            OrderStatus    `gorm:"index" json:"status"`
	MagicCode         string         `json:"magic_code,omitempty"`
	EmailSent         bool           `json:"email_sent"`

	Meta datatypes.JSONMap `gorm:"type:jsonb" json:"meta,omitempty"`
}
