package usecase

import (
	"context"
	"errors"

	"github.com/fardannozami/activity-dashboard/internal/domain"
	"github.com/fardannozami/activity-dashboard/internal/render"
)

const noReportMessage = "No report has been generated yet. Upload a CSV on the dashboard first."

type LatestReportGetter interface {
	Latest(ctx context.Context) (*domain.Report, error)
}

// GetLeaderboardUsecase answers with the overall top users of the most recent
// report.
type GetLeaderboardUsecase struct {
	history LatestReportGetter
}

func NewGetLeaderboardUsecase(history LatestReportGetter) *GetLeaderboardUsecase {
	return &GetLeaderboardUsecase{history: history}
}

func (uc *GetLeaderboardUsecase) Execute(ctx context.Context) (string, error) {
	report, err := uc.history.Latest(ctx)
	if errors.Is(err, domain.ErrReportNotFound) {
		return noReportMessage, nil
	}
	if err != nil {
		return "", err
	}
	return render.TopUsersText(report), nil
}
