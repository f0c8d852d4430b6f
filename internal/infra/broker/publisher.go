// Package broker announces generated reports on a Kafka topic.
package broker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/fardannozami/activity-dashboard/internal/domain"
)

const EventTypeReportGenerated = "report.generated"

// ReportGenerated is the payload emitted once a report has been built.
type ReportGenerated struct {
	ReportID          string    `json:"report_id"`
	GeneratedAt       time.Time `json:"generated_at"`
	Source            string    `json:"source,omitempty"`
	TopN              int       `json:"top_n"`
	Records           int       `json:"records"`
	TotalUsers        int       `json:"total_users"`
	ActiveUsers       int       `json:"active_users"`
	Countries         int       `json:"countries"`
	DateRange         string    `json:"date_range"`
	MostActiveCountry string    `json:"most_active_country,omitempty"`
	MostActiveUser    string    `json:"most_active_user,omitempty"`
}

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	writer MessageWriter
}

// NewPublisher builds a synchronous, fully acknowledged writer for topic.
func NewPublisher(brokers []string, topic string) *Publisher {
	return NewPublisherWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		Async:        false,
	})
}

func NewPublisherWithWriter(writer MessageWriter) *Publisher {
	return &Publisher{writer: writer}
}

func (p *Publisher) PublishReportGenerated(ctx context.Context, report *domain.Report) error {
	payload, err := json.Marshal(NewReportGenerated(report))
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(report.ID),
		Value: payload,
		Time:  report.GeneratedAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventTypeReportGenerated)},
		},
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// NewReportGenerated summarises report for subscribers.
func NewReportGenerated(report *domain.Report) ReportGenerated {
	event := ReportGenerated{
		ReportID:    report.ID,
		GeneratedAt: report.GeneratedAt,
		Source:      report.Source,
		TopN:        report.TopN,
		Records:     report.Overview.Records,
		TotalUsers:  report.Overview.TotalUsers,
		ActiveUsers: report.Overview.ActiveUsers,
		Countries:   report.Overview.Countries,
		DateRange:   report.Overview.DateRange,
	}
	if c := report.Insights.MostActiveCountry; c != nil {
		event.MostActiveCountry = c.Country
	}
	if u := report.Insights.MostActiveUser; u != nil {
		event.MostActiveUser = u.FullName
	}
	return event
}
