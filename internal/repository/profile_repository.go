package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nurpe/contract-payments/internal/model"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByID(ctx context.Context, id uint) (*model.Profile, error) {
	var profile model.Profile
	if err := conn(ctx, r.db).First(&profile, id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// LockByIDs selects the profiles FOR UPDATE in ascending id order, so two
// transactions touching the same pair always lock in the same sequence.
func (r *ProfileRepository) LockByIDs(ctx context.Context, ids ...uint) ([]model.Profile, error) {
	var profiles []model.Profile
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// AddBalance shifts the balance by delta, which may be negative.
func (r *ProfileRepository) AddBalance(ctx context.Context, id uint, delta decimal.Decimal) error {
	res := conn(ctx, r.db).
		Model(&model.Profile{}).
		Where("id = ?", id).
		Update("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
