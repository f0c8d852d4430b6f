// Package render turns a report into text, HTML or the sample upload file.
package render

import (
	"fmt"
	"strings"

	"github.com/fardannozami/activity-dashboard/internal/domain"
)

// Text renders the complete report as plain text.
func Text(r *domain.Report) string {
	sb := strings.Builder{}

	sb.WriteString("User Activity Dashboard\n")
	sb.WriteString("Weekly User Activity Analysis\n\n")

	ov := r.Overview
	sb.WriteString("Overview\n")
	sb.WriteString(fmt.Sprintf("Loaded %d weekly records\n", ov.Records))
	sb.WriteString(fmt.Sprintf("Total Users: %d\n", ov.TotalUsers))
	sb.WriteString(fmt.Sprintf("Active Users: %d\n", ov.ActiveUsers))
	sb.WriteString(fmt.Sprintf("Countries: %d\n", ov.Countries))
	sb.WriteString(fmt.Sprintf("Date Range: %s\n", ov.DateRange))

	if len(r.CountryTops) > 0 {
		sb.WriteString("\nCountry Breakdown - Top Users (Total Logins)\n")
		for _, top := range r.CountryTops {
			sb.WriteString(fmt.Sprintf("%s - Top %d Users:\n", top.Country, len(top.Users)))
			for i, u := range top.Users {
				sb.WriteString(fmt.Sprintf("%d. %s (%s) - %d logins, %d weeks\n", i+1, u.FullName, u.Division, u.TotalLogins, u.WeeksActive))
			}
		}
	}

	if len(r.TopOverall) > 0 {
		sb.WriteString(fmt.Sprintf("\nTop %d Users Overall\n", len(r.TopOverall)))
		writeRanking(&sb, r.TopOverall)
	}

	if len(r.ActivityBreakdown) > 0 {
		sb.WriteString("\nActivity Breakdown\n")
		for _, a := range r.ActivityBreakdown {
			sb.WriteString(fmt.Sprintf("%s: %d\n", a.Label, int64(a.Total)))
		}
	}

	if len(r.Countries) > 0 {
		sb.WriteString("\nSummary by Country\n")
		sb.WriteString("Country | Total Users | Total Logins | Avg Logins per User | Max User Logins | Avg Weeks Active\n")
		for _, c := range r.Countries {
			sb.WriteString(fmt.Sprintf("%s | %d | %d | %.2f | %d | %.2f\n", c.Country, c.Users, c.TotalLogins, c.AvgLoginsPerUser, c.MaxUserLogins, c.AvgWeeksActive))
		}
	}

	sb.WriteString("\nWeekly Summary\n")
	sb.WriteString("Week | Total Logins | Active Users\n")
	for _, w := range r.Weekly {
		sb.WriteString(fmt.Sprintf("%s | %d | %d\n", w.WeekPeriod, w.TotalLogins, w.ActiveUsers))
	}

	sb.WriteString("\n")
	sb.WriteString(InsightsText(r))

	if len(r.Notices) > 0 {
		sb.WriteString("\nNotes\n")
		for _, n := range r.Notices {
			sb.WriteString("- " + n + "\n")
		}
	}
	return sb.String()
}

// InsightsText renders the "Key Insights" bullet list.
func InsightsText(r *domain.Report) string {
	sb := strings.Builder{}
	sb.WriteString("Key Insights\n")
	for _, line := range r.Insights.Sentences {
		sb.WriteString("• " + line + "\n")
	}
	return sb.String()
}

// TopUsersText renders the cross-country ranking.
func TopUsersText(r *domain.Report) string {
	sb := strings.Builder{}
	if len(r.TopOverall) == 0 {
		sb.WriteString("No active users in the latest report.\n")
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("Top %d Users Overall (%s)\n", len(r.TopOverall), r.Overview.DateRange))
	writeRanking(&sb, r.TopOverall)
	return sb.String()
}

func writeRanking(sb *strings.Builder, users []domain.UserTotal) {
	for i, u := range users {
		sb.WriteString(fmt.Sprintf("%d. %s (%s) - %d logins\n", i+1, u.FullName, u.Country, u.TotalLogins))
	}
}

// ErrorText is the single user-facing message for a failed report.
func ErrorText(err error) string {
	return "Error reading the CSV file: " + err.Error() + "\n" + domain.FormatHint
}
