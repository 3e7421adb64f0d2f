package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProfessionEarnings struct {
	Profession string          `json:"profession"`
	Total      decimal.Decimal `json:"total"`
}

type ClientPayments struct {
	ID       uint            `json:"id"`
	FullName string          `json:"full_name"`
	Paid     decimal.Decimal `json:"paid"`
}

type BestClientsReport struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	Clients     []ClientPayments
}
