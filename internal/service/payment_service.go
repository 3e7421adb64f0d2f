package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/contract-payments/internal/config"
	"github.com/nurpe/contract-payments/internal/metrics"
	"github.com/nurpe/contract-payments/internal/model"
)

type ReceiptGenerator interface {
	Generate(doc model.ReceiptDocument) ([]byte, error)
}

type FileResult struct {
	FileName string
	Content  []byte
}

type PaymentService struct {
	tx           Transactor
	profiles     ProfileRepository
	jobs         JobRepository
	receipts     ReceiptGenerator
	depositRatio decimal.Decimal
	now          func() time.Time
}

func NewPaymentService(
	tx Transactor,
	profiles ProfileRepository,
	jobs JobRepository,
	receipts ReceiptGenerator,
	cfg *config.Config,
) *PaymentService {
	return &PaymentService{
		tx:           tx,
		profiles:     profiles,
		jobs:         jobs,
		receipts:     receipts,
		depositRatio: cfg.Payments.DepositLimitRatio,
		now:          time.Now,
	}
}

// PayJob moves the job price from the contract client to the contractor and
// marks the job paid. The three writes commit together or not at all.
func (s *PaymentService) PayJob(ctx context.Context, jobID uint, payer model.Profile) (receipt *model.PaymentReceipt, err error) {
	defer func() {
		amount := 0.0
		if receipt != nil {
			amount = receipt.Amount.InexactFloat64()
		}
		metrics.RecordPayment(err == nil, amount)
	}()

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		job, err := s.jobs.LockWithContract(ctx, jobID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrJobNotPayable
			}
			return err
		}

		contract := job.Contract
		if contract == nil || contract.Status != model.ContractStatusInProgress {
			return ErrJobNotPayable
		}
		if job.Paid {
			return ErrJobAlreadyPaid
		}
		if contract.ClientID != payer.ID {
			return ErrNotJobClient
		}
		if contract.ContractorID == payer.ID {
			return ErrSelfPayment
		}

		// The balance on payer was read before the transaction; only the
		// locked row is authoritative.
		parties, err := s.profiles.LockByIDs(ctx, contract.ClientID, contract.ContractorID)
		if err != nil {
			return err
		}
		client, ok := findProfile(parties, contract.ClientID)
		if !ok {
			return fmt.Errorf("contract %d: client profile %d missing", contract.ID, contract.ClientID)
		}
		if _, ok := findProfile(parties, contract.ContractorID); !ok {
			return fmt.Errorf("contract %d: contractor profile %d missing", contract.ID, contract.ContractorID)
		}
		if client.Balance.LessThan(job.Price) {
			return ErrInsufficientFunds
		}

		if err := s.profiles.AddBalance(ctx, contract.ClientID, job.Price.Neg()); err != nil {
			return err
		}
		if err := s.profiles.AddBalance(ctx, contract.ContractorID, job.Price); err != nil {
			return err
		}

		paidAt := s.now().UTC()
		flipped, err := s.jobs.MarkPaid(ctx, job.ID, paidAt)
		if err != nil {
			return err
		}
		if !flipped {
			return ErrJobAlreadyPaid
		}

		receipt = &model.PaymentReceipt{
			JobID:          job.ID,
			JobDescription: job.Description,
			Amount:         job.Price,
			ClientID:       contract.ClientID,
			ContractorID:   contract.ContractorID,
			ContractID:     contract.ID,
			PaidAt:         paidAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// Deposit credits the user's balance, capped by the configured share of the
// price of their unpaid jobs. No unpaid jobs means a cap of zero.
func (s *PaymentService) Deposit(ctx context.Context, userID uint, amount decimal.Decimal) (err error) {
	if userID == 0 {
		return invalidInput("userId must be a positive integer")
	}
	if !amount.IsPositive() {
		return invalidInput("amount must be greater than 0")
	}
	if !amount.Equal(amount.Round(model.MoneyScale)) {
		return invalidInput(fmt.Sprintf("amount must have at most %d decimal places", model.MoneyScale))
	}

	defer func() {
		metrics.RecordDeposit(err == nil, amount.InexactFloat64())
	}()

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		users, err := s.profiles.LockByIDs(ctx, userID)
		if err != nil {
			return err
		}
		if _, ok := findProfile(users, userID); !ok {
			return ErrUserNotFound
		}

		owed, err := s.jobs.SumUnpaidByClient(ctx, userID)
		if err != nil {
			return err
		}
		limit := owed.Mul(s.depositRatio)
		if amount.GreaterThan(limit) {
			return newError(ErrDepositLimitExceeded, fmt.Sprintf(
				"Cannot deposit more than %s%% of jobs to be paid",
				s.depositRatio.Shift(2).String(),
			))
		}

		return s.profiles.AddBalance(ctx, userID, amount)
	})
}

// Receipt renders the PDF receipt of a paid job for either contract party.
func (s *PaymentService) Receipt(ctx context.Context, jobID uint, caller model.Profile) (*FileResult, error) {
	job, err := s.jobs.GetWithContract(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	if job.Contract == nil || !job.Contract.HasParty(caller.ID) {
		return nil, ErrNotContractParty
	}
	if !job.Paid || job.PaymentDate == nil {
		return nil, ErrJobNotPaid
	}

	client, err := s.profiles.GetByID(ctx, job.Contract.ClientID)
	if err != nil {
		return nil, err
	}
	contractor, err := s.profiles.GetByID(ctx, job.Contract.ContractorID)
	if err != nil {
		return nil, err
	}

	content, err := s.receipts.Generate(model.ReceiptDocument{
		Receipt: model.PaymentReceipt{
			JobID:          job.ID,
			JobDescription: job.Description,
			Amount:         job.Price,
			ClientID:       client.ID,
			ContractorID:   contractor.ID,
			ContractID:     job.ContractID,
			PaidAt:         *job.PaymentDate,
		},
		Client:     *client,
		Contractor: *contractor,
	})
	if err != nil {
		return nil, err
	}
	return &FileResult{
		FileName: fmt.Sprintf("receipt-job-%d.pdf", job.ID),
		Content:  content,
	}, nil
}

func findProfile(profiles []model.Profile, id uint) (model.Profile, bool) {
	for _, p := range profiles {
		if p.ID == id {
			return p, true
		}
	}
	return model.Profile{}, false
}
