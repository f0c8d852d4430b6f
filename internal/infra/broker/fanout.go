package broker

import (
	"context"
	"errors"

	"github.com/fardannozami/activity-dashboard/internal/domain"
)

// Fanout publishes every report to all sinks. A failing sink does not stop
// the others; their errors are joined.
type Fanout []domain.ReportPublisher

func (f Fanout) PublishReportGenerated(ctx context.Context, report *domain.Report) error {
	var errs []error
	for _, p := range f {
		if err := p.PublishReportGenerated(ctx, report); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
