package usecase

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	walog "go.mau.fi/whatsmeow/util/log"

	"github.com/fardannozami/activity-dashboard/internal/aggregate"
	"github.com/fardannozami/activity-dashboard/internal/domain"
	"github.com/fardannozami/activity-dashboard/internal/ingest"
	"github.com/fardannozami/activity-dashboard/internal/observability"
)

type GenerateReportUsecase struct {
	repo      domain.ReportRepository
	publisher domain.ReportPublisher
	log       walog.Logger
	now       func() time.Time
}

// NewGenerateReportUsecase wires the report pipeline. repo and publisher may be
// nil when history or event publishing is disabled.
func NewGenerateReportUsecase(repo domain.ReportRepository, publisher domain.ReportPublisher, logger walog.Logger) *GenerateReportUsecase {
	if logger == nil {
		logger = walog.Noop
	}
	return &GenerateReportUsecase{
		repo:      repo,
		publisher: publisher,
		log:       logger,
		now:       time.Now,
	}
}

// Execute ingests the CSV, aggregates it and returns the full report. Any
// ingestion error fails the whole report; storing and publishing happen only
// after the report is complete and their failures are logged, not returned.
func (uc *GenerateReportUsecase) Execute(ctx context.Context, input io.Reader, opts domain.ReportOptions) (*domain.Report, error) {
	start := uc.now()

	if err := opts.Validate(); err != nil {
		observability.RecordReportFailed(err)
		return nil, err
	}

	ds, err := ingest.Parse(input)
	if err != nil {
		observability.RecordReportFailed(err)
		uc.log.Warnf("Rejected upload %q: %v", opts.Source, err)
		return nil, err
	}

	report := aggregate.BuildReport(ds, opts.TopN)
	report.ID = uuid.NewString()
	report.GeneratedAt = uc.now().UTC()
	report.Source = opts.Source

	if uc.repo != nil {
		if err := uc.repo.SaveReport(ctx, report); err != nil {
			observability.RecordStoreError()
			uc.log.Errorf("Failed to store report %s: %v", report.ID, err)
		}
	}
	if uc.publisher != nil {
		if err := uc.publisher.PublishReportGenerated(ctx, report); err != nil {
			observability.RecordPublishError()
			uc.log.Errorf("Failed to publish report %s: %v", report.ID, err)
		}
	}

	observability.RecordReportGenerated(len(ds.Records), uc.now().Sub(start), report.GeneratedAt)
	uc.log.Infof("Generated report %s from %d records (%d users, %d active)",
		report.ID, report.Overview.Records, report.Overview.TotalUsers, report.Overview.ActiveUsers)
	return report, nil
}
