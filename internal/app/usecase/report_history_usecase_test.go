package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fardannozami/activity-dashboard/internal/app/usecase"
	"github.com/fardannozami/activity-dashboard/internal/domain"
)

func seededRepo(n int) *mockReportRepo {
	repo := &mockReportRepo{}
	for i := 0; i < n; i++ {
		r := storedReport()
		r.ID = fmt.Sprintf("r%d", i)
		repo.reports = append(repo.reports, r)
	}
	return repo
}

func TestReportHistory_ListLimits(t *testing.T) {
	uc := usecase.NewReportHistoryUsecase(seededRepo(120))

	tests := []struct {
		limit int
		want  int
	}{
		{limit: 0, want: 20},
		{limit: -3, want: 20},
		{limit: 7, want: 7},
		{limit: 500, want: 100},
	}
	for _, tc := range tests {
		got, err := uc.List(context.Background(), tc.limit)
		require.NoError(t, err)
		require.Len(t, got, tc.want, "limit %d", tc.limit)
	}
}

func TestReportHistory_ListNewestFirst(t *testing.T) {
	uc := usecase.NewReportHistoryUsecase(seededRepo(3))

	got, err := uc.List(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, "r2", got[0].ID)
	require.Equal(t, "r0", got[2].ID)
}

func TestReportHistory_EmptyListIsNotNil(t *testing.T) {
	for _, uc := range []*usecase.ReportHistoryUsecase{
		usecase.NewReportHistoryUsecase(&mockReportRepo{}),
		usecase.NewReportHistoryUsecase(nil),
	} {
		got, err := uc.List(context.Background(), 0)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Empty(t, got)
	}
}

func TestReportHistory_Get(t *testing.T) {
	uc := usecase.NewReportHistoryUsecase(seededRepo(2))

	report, err := uc.Get(context.Background(), "r1")
	require.NoError(t, err)
	require.Equal(t, "r1", report.ID)

	_, err = uc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrReportNotFound)
}

func TestReportHistory_LatestWithoutReports(t *testing.T) {
	_, err := usecase.NewReportHistoryUsecase(&mockReportRepo{}).Latest(context.Background())
	require.ErrorIs(t, err, domain.ErrReportNotFound)

	_, err = usecase.NewReportHistoryUsecase(nil).Latest(context.Background())
	require.ErrorIs(t, err, domain.ErrReportNotFound)
}

func TestReportHistory_PropagatesStoreErrors(t *testing.T) {
	boom := errors.New("connection refused")
	uc := usecase.NewReportHistoryUsecase(&mockReportRepo{readErr: boom})

	_, err := uc.List(context.Background(), 5)
	require.ErrorIs(t, err, boom)
	_, err = uc.Get(context.Background(), "r1")
	require.ErrorIs(t, err, boom)
	_, err = uc.Latest(context.Background())
	require.ErrorIs(t, err, boom)
}
