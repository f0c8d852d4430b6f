package usecase

import (
	"context"

	"github.com/fardannozami/activity-dashboard/internal/domain"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type ReportHistoryUsecase struct {
	repo domain.ReportRepository
}

func NewReportHistoryUsecase(repo domain.ReportRepository) *ReportHistoryUsecase {
	return &ReportHistoryUsecase{repo: repo}
}

// List returns stored report summaries, newest first. Non-positive limits use
// the default; large ones are capped.
func (uc *ReportHistoryUsecase) List(ctx context.Context, limit int) ([]*domain.ReportSummary, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if uc.repo == nil {
		return []*domain.ReportSummary{}, nil
	}

	summaries, err := uc.repo.ListReports(ctx, limit)
	if err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []*domain.ReportSummary{}
	}
	return summaries, nil
}

func (uc *ReportHistoryUsecase) Get(ctx context.Context, id string) (*domain.Report, error) {
	if uc.repo == nil {
		return nil, domain.ErrReportNotFound
	}
	report, err := uc.repo.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, domain.ErrReportNotFound
	}
	return report, nil
}

func (uc *ReportHistoryUsecase) Latest(ctx context.Context) (*domain.Report, error) {
	if uc.repo == nil {
		return nil, domain.ErrReportNotFound
	}
	report, err := uc.repo.LatestReport(ctx)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, domain.ErrReportNotFound
	}
	return report, nil
}
