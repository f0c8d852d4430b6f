package domain

import (
	"context"
	"time"
)

type UserTotal struct {
	FullName    string `json:"full_name"`
	Country     string `json:"country"`
	Division    string `json:"division"`
	TotalLogins int64  `json:"total_logins"`
	WeeksActive int    `json:"weeks_active"`
}

type WeeklySummary struct {
	FromDate    time.Time `json:"from_date"`
	WeekPeriod  string    `json:"week_period"`
	TotalLogins int64     `json:"total_logins"`
	ActiveUsers int       `json:"active_users"`
}

type CountrySummary struct {
	Country          string  `json:"country"`
	Users            int     `json:"users"`
	TotalLogins      int64   `json:"total_logins"`
	AvgLoginsPerUser float64 `json:"avg_logins_per_user"`
	MaxUserLogins    int64   `json:"max_user_logins"`
	AvgWeeksActive   float64 `json:"avg_weeks_active"`
}

type CountryTotal struct {
	Country     string `json:"country"`
	TotalLogins int64  `json:"total_logins"`
}

// CountryTop holds the highest ranked active users of one country.
type CountryTop struct {
	Country string      `json:"country"`
	Users   []UserTotal `json:"users"`
}

type ActivityTotal struct {
	Column string  `json:"column"`
	Label  string  `json:"label"`
	Total  float64 `json:"total"`
}

type Overview struct {
	Records     int    `json:"records"`
	TotalUsers  int    `json:"total_users"`
	ActiveUsers int    `json:"active_users"`
	Countries   int    `json:"countries"`
	DateRange   string `json:"date_range"`
}

type Insights struct {
	MostActiveCountry      *CountryTotal  `json:"most_active_country,omitempty"`
	MostActiveUser         *UserTotal     `json:"most_active_user,omitempty"`
	MostActiveWeek         *WeeklySummary `json:"most_active_week,omitempty"`
	AvgLoginsPerActiveUser float64        `json:"avg_logins_per_active_user"`
	AvgWeeksActive         float64        `json:"avg_weeks_active"`
	ActiveUserPercent      float64        `json:"active_user_percent"`
	ActiveUsers            int            `json:"active_users"`
	TotalUsers             int            `json:"total_users"`
	Sentences              []string       `json:"sentences"`
}

// Report is the presentation payload of one aggregation run.
type Report struct {
	ID                string           `json:"id"`
	GeneratedAt       time.Time        `json:"generated_at"`
	Source            string           `json:"source,omitempty"`
	TopN              int              `json:"top_n"`
	HasSalesRepEmail  bool             `json:"has_sales_rep_email"`
	Preview           []ActivityRecord `json:"preview"`
	Overview          Overview         `json:"overview"`
	Users             []UserTotal      `json:"users"`
	ActiveUsers       []UserTotal      `json:"active_users"`
	Weekly            []WeeklySummary  `json:"weekly"`
	Countries         []CountrySummary `json:"countries"`
	CountryTotals     []CountryTotal   `json:"country_totals,omitempty"`
	CountryTops       []CountryTop     `json:"country_tops"`
	TopUsersByCountry []UserTotal      `json:"top_users_by_country"`
	TopOverall        []UserTotal      `json:"top_overall"`
	ActivityBreakdown []ActivityTotal  `json:"activity_breakdown,omitempty"`
	Insights          Insights         `json:"insights"`
	Notices           []string         `json:"notices,omitempty"`
}

// ReportSummary is the history listing view of a stored report.
type ReportSummary struct {
	ID          string    `json:"id" db:"id"`
	GeneratedAt time.Time `json:"generated_at" db:"generated_at"`
	Source      string    `json:"source,omitempty" db:"source"`
	TopN        int       `json:"top_n" db:"top_n"`
	Records     int       `json:"records" db:"records"`
	TotalUsers  int       `json:"total_users" db:"total_users"`
	ActiveUsers int       `json:"active_users" db:"active_users"`
	Countries   int       `json:"countries" db:"countries"`
	DateRange   string    `json:"date_range" db:"date_range"`
}

func (r *Report) Summary() *ReportSummary {
	return &ReportSummary{
		ID:          r.ID,
		GeneratedAt: r.GeneratedAt,
		Source:      r.Source,
		TopN:        r.TopN,
		Records:     r.Overview.Records,
		TotalUsers:  r.Overview.TotalUsers,
		ActiveUsers: r.Overview.ActiveUsers,
		Countries:   r.Overview.Countries,
		DateRange:   r.Overview.DateRange,
	}
}

// ReportRepository stores generated reports. GetReport and LatestReport
// return nil, nil when nothing matches.
type ReportRepository interface {
	SaveReport(ctx context.Context, report *Report) error
	GetReport(ctx context.Context, id string) (*Report, error)
	LatestReport(ctx context.Context) (*Report, error)
	ListReports(ctx context.Context, limit int) ([]*ReportSummary, error)
}

type ReportPublisher interface {
	PublishReportGenerated(ctx context.Context, report *Report) error
}
