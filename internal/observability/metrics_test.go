package observability

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/fardannozami/activity-dashboard/internal/domain"
)

func TestOutcomeClassification(t *testing.T) {
	cases := map[string]error{
		OutcomeSuccess:     nil,
		OutcomeSchemaError: &domain.SchemaError{Missing: []string{"logins"}},
		OutcomeParseError:  fmt.Errorf("ingest: %w", &domain.ParseError{Row: 2, Column: "logins"}),
		OutcomeEmpty:       &domain.EmptyResultError{Reason: "no rows"},
		OutcomeInvalid:     domain.ErrInvalidTopN,
		OutcomeError:       errors.New("boom"),
	}
	for want, err := range cases {
		require.Equal(t, want, Outcome(err), "err=%v", err)
	}
}

func TestRecordReportCounters(t *testing.T) {
	beforeOK := testutil.ToFloat64(reportsCounter.WithLabelValues(OutcomeSuccess))
	beforeSchema := testutil.ToFloat64(reportsCounter.WithLabelValues(OutcomeSchemaError))

	at := time.Date(2025, time.June, 30, 12, 0, 0, 0, time.UTC)
	RecordReportGenerated(3, 5*time.Millisecond, at)
	RecordReportFailed(&domain.SchemaError{Missing: []string{"country"}})

	require.Equal(t, beforeOK+1, testutil.ToFloat64(reportsCounter.WithLabelValues(OutcomeSuccess)))
	require.Equal(t, beforeSchema+1, testutil.ToFloat64(reportsCounter.WithLabelValues(OutcomeSchemaError)))
	require.Equal(t, float64(at.Unix()), testutil.ToFloat64(lastReportGauge))
}
