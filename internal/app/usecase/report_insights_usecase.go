package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fardannozami/activity-dashboard/internal/domain"
	"github.com/fardannozami/activity-dashboard/internal/render"
)

type ReportInsightsUsecase struct {
	history LatestReportGetter
}

func NewReportInsightsUsecase(history LatestReportGetter) *ReportInsightsUsecase {
	return &ReportInsightsUsecase{history: history}
}

func (uc *ReportInsightsUsecase) Execute(ctx context.Context) (string, error) {
	report, err := uc.history.Latest(ctx)
	if errors.Is(err, domain.ErrReportNotFound) {
		return noReportMessage, nil
	}
	if err != nil {
		return "", err
	}

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("Activity report %s (%d records, %d countries)\n",
		report.Overview.DateRange, report.Overview.Records, report.Overview.Countries))
	sb.WriteString(render.InsightsText(report))
	for _, n := range report.Notices {
		sb.WriteString("Note: " + n + "\n")
	}
	return sb.String(), nil
}
