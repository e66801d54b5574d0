package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Payment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CustomerID    uint      `gorm:"index;not null" json:"customerId"`
	Customer      *Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"customer,omitempty"`
	AppointmentID *uint     `gorm:"index" json:"appointmentId"`
	EstimateID    *uint     `gorm:"index" json:"estimateId"`

	PaymentType string          `gorm:"size:20;not null" json:"paymentType"`
	Amount      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	Status      string          `gorm:"size:20;not null" json:"status"`
	Method      string          `gorm:"size:20;not null" json:"method"`
	Currency    string          `gorm:"size:3;not null" json:"currency"`

	Gateway              string `gorm:"size:20" json:"gateway"`
	GatewayTransactionID string `gorm:"size:100;index" json:"gatewayTransactionId"`
	ReceiptURL           string `gorm:"size:500" json:"receiptUrl"`

	BillingAddress datatypes.JSONMap `json:"billingAddress,omitempty"`
	CardDetails    datatypes.JSONMap `json:"cardDetails,omitempty"`

	Notes         string `gorm:"type:text" json:"notes"`
	ProcessedByID *uint  `json:"processedById"`

	Refund PaymentRefund `gorm:"embedded;embeddedPrefix:refund_" json:"refund"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PaymentRefund accumulates refunds issued against a payment.
type PaymentRefund struct {
	Amount        decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"amount"`
	Reason        string          `gorm:"type:text" json:"reason,omitempty"`
	RefundedAt    *time.Time      `json:"refundedAt,omitempty"`
	TransactionID string          `gorm:"size:100" json:"refundTransactionId,omitempty"`
}
