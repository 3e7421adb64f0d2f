package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/nurpe/contract-payments/internal/model"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) GetByID(ctx context.Context, id uint) (*model.Contract, error) {
	var contract model.Contract
	if err := conn(ctx, r.db).First(&contract, id).Error; err != nil {
		return nil, err
	}
	return &contract, nil
}

// ListActiveByProfile returns the non terminated contracts where the profile is a party.
func (r *ContractRepository) ListActiveByProfile(ctx context.Context, profileID uint) ([]model.Contract, error) {
	contracts := make([]model.Contract, 0)
	err := conn(ctx, r.db).
		Where("(client_id = ? OR contractor_id = ?) AND status <> ?", profileID, profileID, model.ContractStatusTerminated).
		Order("id ASC").
		Find(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}
