package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Job struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(14,3);not null" json:"price"`
	Paid        bool            `gorm:"not null;default:false" json:"paid"`
	PaymentDate *time.Time      `json:"payment_date"`
	ContractID  uint            `json:"contract_id"`
	Contract    *Contract       `gorm:"foreignKey:ContractID" json:"-"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// PaymentReceipt is the outcome of a committed job payment.
type PaymentReceipt struct {
	JobID          uint
	JobDescription string
	Amount         decimal.Decimal
	ClientID       uint
	ContractorID   uint
	ContractID     uint
	PaidAt         time.Time
}

// ReceiptDocument carries everything the PDF receipt renders.
type ReceiptDocument struct {
	Receipt    PaymentReceipt
	Client     Profile
	Contractor Profile
}
