// Package postgres stores report history in Postgres through pgx.
package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fardannozami/activity-dashboard/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS report_runs (
	id TEXT PRIMARY KEY,
	generated_at TIMESTAMPTZ NOT NULL,
	source TEXT NOT NULL DEFAULT '',
	top_n INTEGER NOT NULL,
	records INTEGER NOT NULL DEFAULT 0,
	total_users INTEGER NOT NULL DEFAULT 0,
	active_users INTEGER NOT NULL DEFAULT 0,
	countries INTEGER NOT NULL DEFAULT 0,
	date_range TEXT NOT NULL DEFAULT '',
	payload JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_report_runs_generated_at ON report_runs (generated_at DESC);
`

// Repository is the Postgres implementation of domain.ReportRepository.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// InitSchema creates the report table when missing.
func (r *Repository) InitSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, schema)
	return err
}

// SaveReport upserts the report and its summary columns.
func (r *Repository) SaveReport(ctx context.Context, report *domain.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return err
	}

	const query = `INSERT INTO report_runs (id, generated_at, source, top_n, records, total_users, active_users, countries, date_range, payload)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT (id) DO UPDATE SET
            generated_at = EXCLUDED.generated_at,
            source = EXCLUDED.source,
            top_n = EXCLUDED.top_n,
            records = EXCLUDED.records,
            total_users = EXCLUDED.total_users,
            active_users = EXCLUDED.active_users,
            countries = EXCLUDED.countries,
            date_range = EXCLUDED.date_range,
            payload = EXCLUDED.payload`

	s := report.Summary()
	_, err = r.pool.Exec(ctx, query, s.ID, s.GeneratedAt.UTC(), s.Source, s.TopN, s.Records,
		s.TotalUsers, s.ActiveUsers, s.Countries, s.DateRange, payload)
	return err
}

// GetReport loads a stored report by id.
func (r *Repository) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	return r.queryPayload(ctx, `SELECT payload FROM report_runs WHERE id=$1`, id)
}

// LatestReport loads the most recently generated report.
func (r *Repository) LatestReport(ctx context.Context) (*domain.Report, error) {
	return r.queryPayload(ctx, `SELECT payload FROM report_runs ORDER BY generated_at DESC, id DESC LIMIT 1`)
}

// ListReports returns summaries, newest first.
func (r *Repository) ListReports(ctx context.Context, limit int) ([]*domain.ReportSummary, error) {
	const query = `SELECT id, generated_at, source, top_n, records, total_users, active_users, countries, date_range
        FROM report_runs ORDER BY generated_at DESC, id DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []*domain.ReportSummary
	for rows.Next() {
		var s domain.ReportSummary
		if err := rows.Scan(&s.ID, &s.GeneratedAt, &s.Source, &s.TopN, &s.Records, &s.TotalUsers, &s.ActiveUsers, &s.Countries, &s.DateRange); err != nil {
			return nil, err
		}
		s.GeneratedAt = s.GeneratedAt.UTC()
		summaries = append(summaries, &s)
	}
	return summaries, rows.Err()
}

func (r *Repository) queryPayload(ctx context.Context, query string, args ...any) (*domain.Report, error) {
	var payload []byte
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var report domain.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
