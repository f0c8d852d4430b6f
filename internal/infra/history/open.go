// Package history opens the report store selected by configuration.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	walog "go.mau.fi/whatsmeow/util/log"
	_ "modernc.org/sqlite"

	"github.com/fardannozami/activity-dashboard/internal/config"
	"github.com/fardannozami/activity-dashboard/internal/domain"
	"github.com/fardannozami/activity-dashboard/internal/infra/postgres"
	"github.com/fardannozami/activity-dashboard/internal/infra/sqlite"
)

// Open returns the configured repository and a function releasing it. With
// the "none" driver the repository is nil and history is disabled.
func Open(ctx context.Context, cfg config.Config, logger walog.Logger) (domain.ReportRepository, func(), error) {
	switch cfg.HistoryDriver {
	case config.HistoryNone:
		logger.Infof("Report history disabled")
		return nil, func() {}, nil

	case config.HistoryPostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		repo := postgres.NewRepository(pool)
		if err := repo.InitSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to init schema: %w", err)
		}
		logger.Infof("Report history stored in postgres")
		return repo, pool.Close, nil

	default:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		// WAL and busy timeout avoid "database is locked" with concurrent uploads.
		dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cfg.SQLitePath)
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		repo := sqlite.NewReportRepository(db)
		if err := repo.InitTable(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to init table: %w", err)
		}
		logger.Infof("Report history stored in %s", cfg.SQLitePath)
		return repo, func() { db.Close() }, nil
	}
}
