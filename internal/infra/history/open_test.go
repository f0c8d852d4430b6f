package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	walog "go.mau.fi/whatsmeow/util/log"

	"github.com/fardannozami/activity-dashboard/internal/config"
	"github.com/fardannozami/activity-dashboard/internal/domain"
)

func TestOpenNone(t *testing.T) {
	repo, closeFn, err := Open(context.Background(), config.Config{HistoryDriver: config.HistoryNone}, walog.Noop)
	require.NoError(t, err)
	require.Nil(t, repo)
	closeFn()
}

func TestOpenSQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dashboard.db")
	cfg := config.Config{HistoryDriver: config.HistorySQLite, SQLitePath: path}

	repo, closeFn, err := Open(context.Background(), cfg, walog.Noop)
	require.NoError(t, err)
	defer closeFn()

	report := &domain.Report{ID: "r1", GeneratedAt: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), TopN: 5}
	require.NoError(t, repo.SaveReport(context.Background(), report))

	got, err := repo.LatestReport(context.Background())
	require.NoError(t, err)
	require.Equal(t, "r1", got.ID)
}
