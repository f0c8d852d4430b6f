package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/fardannozami/activity-dashboard/internal/domain"
)

// Fixed-width UTC layout so that generated_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) SaveReport(ctx context.Context, report *domain.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO report_runs (id, generated_at, source, top_n, records, total_users, active_users, countries, date_range, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			generated_at = excluded.generated_at,
			source = excluded.source,
			top_n = excluded.top_n,
			records = excluded.records,
			total_users = excluded.total_users,
			active_users = excluded.active_users,
			countries = excluded.countries,
			date_range = excluded.date_range,
			payload = excluded.payload
	`
	s := report.Summary()
	_, err = r.db.ExecContext(ctx, query,
		s.ID, s.GeneratedAt.UTC().Format(timeLayout), s.Source, s.TopN, s.Records,
		s.TotalUsers, s.ActiveUsers, s.Countries, s.DateRange, string(payload))
	return err
}

func (r *ReportRepository) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	query := `SELECT payload FROM report_runs WHERE id = ?`
	return r.scanPayload(r.db.QueryRowContext(ctx, query, id))
}

func (r *ReportRepository) LatestReport(ctx context.Context) (*domain.Report, error) {
	query := `SELECT payload FROM report_runs ORDER BY generated_at DESC, id DESC LIMIT 1`
	return r.scanPayload(r.db.QueryRowContext(ctx, query))
}

func (r *ReportRepository) ListReports(ctx context.Context, limit int) ([]*domain.ReportSummary, error) {
	query := `SELECT id, generated_at, source, top_n, records, total_users, active_users, countries, date_range
		FROM report_runs ORDER BY generated_at DESC, id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []*domain.ReportSummary
	for rows.Next() {
		var s domain.ReportSummary
		var generatedAt string
		if err := rows.Scan(&s.ID, &generatedAt, &s.Source, &s.TopN, &s.Records, &s.TotalUsers, &s.ActiveUsers, &s.Countries, &s.DateRange); err != nil {
			return nil, err
		}
		s.GeneratedAt, err = time.Parse(timeLayout, generatedAt)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, &s)
	}
	return summaries, rows.Err()
}

func (r *ReportRepository) scanPayload(row *sql.Row) (*domain.Report, error) {
	var payload string
	err := row.Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var report domain.Report
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepository) InitTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS report_runs (
			id TEXT PRIMARY KEY,
			generated_at TEXT NOT NULL,
			source TEXT,
			top_n INTEGER,
			records INTEGER DEFAULT 0,
			total_users INTEGER DEFAULT 0,
			active_users INTEGER DEFAULT 0,
			countries INTEGER DEFAULT 0,
			date_range TEXT,
			payload TEXT NOT NULL
		);
	`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_report_runs_generated_at ON report_runs (generated_at)`)
	return err
}
