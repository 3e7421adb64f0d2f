package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/nurpe/contract-payments/internal/model"
)

type ContractService struct {
	contracts ContractRepository
	jobs      JobRepository
}

func NewContractService(contracts ContractRepository, jobs JobRepository) *ContractService {
	return &ContractService{contracts: contracts, jobs: jobs}
}

func (s *ContractService) GetContract(ctx context.Context, id uint, caller model.Profile) (*model.Contract, error) {
	contract, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, err
	}
	if !contract.HasParty(caller.ID) {
		return nil, ErrNotContractParty
	}
	return contract, nil
}

func (s *ContractService) ListContracts(ctx context.Context, caller model.Profile) ([]model.Contract, error) {
	return s.contracts.ListActiveByProfile(ctx, caller.ID)
}

func (s *ContractService) ListUnpaidJobs(ctx context.Context, caller model.Profile) ([]model.Job, error) {
	return s.jobs.ListUnpaidByContractor(ctx, caller.ID)
}
