package broker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/fardannozami/activity-dashboard/internal/domain"
)

type stubWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *stubWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *stubWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishReportGenerated(t *testing.T) {
	writer := &stubWriter{}
	pub := NewPublisherWithWriter(writer)

	at := time.Date(2025, time.June, 30, 8, 0, 0, 0, time.UTC)
	report := &domain.Report{
		ID:          "report-1",
		GeneratedAt: at,
		TopN:        5,
		Overview:    domain.Overview{Records: 3, TotalUsers: 3, ActiveUsers: 3, Countries: 2, DateRange: "2025-06-16 to 2025-06-29"},
		Insights: domain.Insights{
			MostActiveCountry: &domain.CountryTotal{Country: "Malaysia", TotalLogins: 20},
			MostActiveUser:    &domain.UserTotal{FullName: "John Doe", Country: "Malaysia", TotalLogins: 12},
		},
	}

	require.NoError(t, pub.PublishReportGenerated(context.Background(), report))
	require.Len(t, writer.msgs, 1)

	msg := writer.msgs[0]
	require.Equal(t, []byte("report-1"), msg.Key)
	require.Equal(t, at, msg.Time)
	require.Equal(t, "event_type", msg.Headers[0].Key)
	require.Equal(t, EventTypeReportGenerated, string(msg.Headers[0].Value))

	var event ReportGenerated
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	require.Equal(t, "report-1", event.ReportID)
	require.Equal(t, "Malaysia", event.MostActiveCountry)
	require.Equal(t, "John Doe", event.MostActiveUser)
	require.Equal(t, 2, event.Countries)

	require.NoError(t, pub.Close())
	require.True(t, writer.closed)
}

func TestPublishPropagatesWriterError(t *testing.T) {
	boom := errors.New("broker unavailable")
	pub := NewPublisherWithWriter(&stubWriter{err: boom})
	err := pub.PublishReportGenerated(context.Background(), &domain.Report{ID: "r"})
	require.ErrorIs(t, err, boom)
}
