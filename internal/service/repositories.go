package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nurpe/contract-payments/internal/model"
)

// Transactor runs fn in one database transaction carried by ctx.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type ProfileRepository interface {
	GetByID(ctx context.Context, id uint) (*model.Profile, error)
	LockByIDs(ctx context.Context, ids ...uint) ([]model.Profile, error)
	AddBalance(ctx context.Context, id uint, delta decimal.Decimal) error
}

type ContractRepository interface {
	GetByID(ctx context.Context, id uint) (*model.Contract, error)
	ListActiveByProfile(ctx context.Context, profileID uint) ([]model.Contract, error)
}

type JobRepository interface {
	ListUnpaidByContractor(ctx context.Context, contractorID uint) ([]model.Job, error)
	GetWithContract(ctx context.Context, id uint) (*model.Job, error)
	LockWithContract(ctx context.Context, id uint) (*model.Job, error)
	MarkPaid(ctx context.Context, id uint, paidAt time.Time) (bool, error)
	SumUnpaidByClient(ctx context.Context, clientID uint) (decimal.Decimal, error)
}

type ReportRepository interface {
	BestProfession(ctx context.Context, from, to time.Time) (*model.ProfessionEarnings, error)
	BestClients(ctx context.Context, from, to time.Time, limit int) ([]model.ClientPayments, error)
}
