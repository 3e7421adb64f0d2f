package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/nurpe/contract-payments/internal/config"
	"github.com/nurpe/contract-payments/internal/model"
)

const maxBestClientsLimit = 100

type WorkbookGenerator interface {
	Generate(report model.BestClientsReport) ([]byte, error)
}

// Period is an inclusive range of calendar days.
type Period struct {
	Start time.Time
	End   time.Time
}

type AdminService struct {
	reports      ReportRepository
	excel        WorkbookGenerator
	defaultLimit int
}

func NewAdminService(reports ReportRepository, excel WorkbookGenerator, cfg *config.Config) *AdminService {
	return &AdminService{
		reports:      reports,
		excel:        excel,
		defaultLimit: cfg.Payments.BestClientsDefaultLimit,
	}
}

func (s *AdminService) BestProfession(ctx context.Context, period Period) (*model.ProfessionEarnings, error) {
	start, endExclusive, err := normalizePeriod(period)
	if err != nil {
		return nil, err
	}
	result, err := s.reports.BestProfession(ctx, start, endExclusive)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPaidJobs
		}
		return nil, err
	}
	return result, nil
}

// BestClients ranks clients by paid amount. A zero limit selects the configured default.
func (s *AdminService) BestClients(ctx context.Context, period Period, limit int) ([]model.ClientPayments, error) {
	start, endExclusive, err := normalizePeriod(period)
	if err != nil {
		return nil, err
	}
	limit, err = s.resolveLimit(limit)
	if err != nil {
		return nil, err
	}
	return s.reports.BestClients(ctx, start, endExclusive, limit)
}

func (s *AdminService) ExportBestClients(ctx context.Context, period Period, limit int) (*FileResult, error) {
	clients, err := s.BestClients(ctx, period, limit)
	if err != nil {
		return nil, err
	}

	report := model.BestClientsReport{
		PeriodStart: dateOnly(period.Start),
		PeriodEnd:   dateOnly(period.End),
		Clients:     clients,
	}
	content, err := s.excel.Generate(report)
	if err != nil {
		return nil, err
	}

	fileName := fmt.Sprintf("best-clients-%s-%s.xlsx",
		report.PeriodStart.Format("20060102"),
		report.PeriodEnd.Format("20060102"),
	)
	return &FileResult{FileName: fileName, Content: content}, nil
}

func (s *AdminService) resolveLimit(limit int) (int, error) {
	switch {
	case limit == 0:
		return s.defaultLimit, nil
	case limit < 0 || limit > maxBestClientsLimit:
		return 0, invalidInput(fmt.Sprintf("limit must be between 1 and %d", maxBestClientsLimit))
	default:
		return limit, nil
	}
}

// normalizePeriod turns the inclusive day range into [start, endExclusive).
func normalizePeriod(period Period) (time.Time, time.Time, error) {
	if period.Start.IsZero() || period.End.IsZero() {
		return time.Time{}, time.Time{}, invalidInput("start and end are required")
	}
	start := dateOnly(period.Start)
	end := dateOnly(period.End)
	if start.After(end) {
		return time.Time{}, time.Time{}, invalidInput("start must be before or equal to end")
	}
	return start, end.Add(24 * time.Hour), nil
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
