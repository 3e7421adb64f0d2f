package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nurpe/contract-payments/internal/model"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) ListUnpaidByContractor(ctx context.Context, contractorID uint) ([]model.Job, error) {
	jobs := make([]model.Job, 0)
	err := conn(ctx, r.db).
		Joins("JOIN contracts ON contracts.id = jobs.contract_id").
		Where("contracts.contractor_id = ? AND jobs.paid = ?", contractorID, false).
		Order("jobs.id ASC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *JobRepository) GetWithContract(ctx context.Context, id uint) (*model.Job, error) {
	var job model.Job
	if err := conn(ctx, r.db).Preload("Contract").First(&job, id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// LockWithContract selects the job FOR UPDATE and loads its contract. Must be
// called inside a transaction for the lock to outlive the statement.
func (r *JobRepository) LockWithContract(ctx context.Context, id uint) (*model.Job, error) {
	var job model.Job
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&job, id).Error
	if err != nil {
		return nil, err
	}

	var contract model.Contract
	if err := conn(ctx, r.db).First(&contract, job.ContractID).Error; err != nil {
		return nil, err
	}
	job.Contract = &contract
	return &job, nil
}

// MarkPaid flips paid only while it is still false and reports whether this
// call did the flip.
func (r *JobRepository) MarkPaid(ctx context.Context, id uint, paidAt time.Time) (bool, error) {
	res := conn(ctx, r.db).
		Model(&model.Job{}).
		Where("id = ? AND paid = ?", id, false).
		Updates(map[string]interface{}{
			"paid":         true,
			"payment_date": paidAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *JobRepository) SumUnpaidByClient(ctx context.Context, clientID uint) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := conn(ctx, r.db).Raw(`
		SELECT COALESCE(SUM(j.price), 0) AS total
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE c.client_id = ?
			AND j.paid = FALSE
	`, clientID).Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}
