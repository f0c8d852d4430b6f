package aggregate

import (
	"github.com/fardannozami/activity-dashboard/internal/domain"
	"github.com/fardannozami/activity-dashboard/internal/ingest"
)

const (
	noticeNoActiveUsers  = "No user has any logins: rankings, country comparisons and user insights are omitted."
	noticeSingleCountry  = "Only one country has active users: the cross-country comparison is omitted."
	noticeNoActivityData = "No numeric view/create activity columns with positive totals were found."
)

// BuildReport runs every aggregation over an ingested dataset. Identity and
// timestamps are left for the caller so that equal inputs give equal reports.
func BuildReport(ds *domain.Dataset, topN int) *domain.Report {
	users := UserTotals(ds.Records)
	active := ActiveUsers(users)
	weekly := WeeklySummaries(ds.Records)
	tops := TopNPerCountry(active, topN)

	report := &domain.Report{
		TopN:             topN,
		HasSalesRepEmail: ds.HasSalesRepEmail,
		Preview:          ingest.Preview(ds, domain.PreviewSize),
		Overview: domain.Overview{
			Records:     len(ds.Records),
			TotalUsers:  len(users),
			ActiveUsers: len(active),
			Countries:   CountryCount(ds.Records),
			DateRange:   DateRange(ds.Records),
		},
		Users:             users,
		ActiveUsers:       active,
		Weekly:            weekly,
		Countries:         CountrySummaries(active),
		CountryTops:       tops,
		TopUsersByCountry: TopUsersByCountry(tops),
		TopOverall:        TopOverall(active, 2*topN),
		ActivityBreakdown: ActivityBreakdown(ds),
		Insights:          Insights(users, active, weekly),
	}

	countryTotals := CountryTotals(active)
	switch {
	case len(active) == 0:
		report.Notices = append(report.Notices, noticeNoActiveUsers)
	case len(countryTotals) < 2:
		report.Notices = append(report.Notices, noticeSingleCountry)
	default:
		report.CountryTotals = countryTotals
	}
	if len(report.ActivityBreakdown) == 0 && hasActivityColumns(ds.Columns) {
		report.Notices = append(report.Notices, noticeNoActivityData)
	}
	return report
}

func hasActivityColumns(cols []string) bool {
	for _, c := range cols {
		if isActivityColumn(c) {
			return true
		}
	}
	return false
}
