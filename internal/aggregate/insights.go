package aggregate

import (
	"fmt"

	"github.com/fardannozami/activity-dashboard/internal/domain"
)

// Insights extracts the scalar facts shown under "Key Insights".
//
// Ties: the most active country is the alphabetically first of the maxima,
// the most active user the first maximum in the active view, the most active
// week the earliest maximum.
func Insights(users, active []domain.UserTotal, weekly []domain.WeeklySummary) domain.Insights {
	ins := domain.Insights{
		ActiveUsers: len(active),
		TotalUsers:  len(users),
	}

	if len(active) > 0 {
		sums := make(map[string]int64)
		var total int64
		for _, u := range active {
			sums[u.Country] += u.TotalLogins
			total += u.TotalLogins
		}
		for _, country := range sortedKeys(sums) {
			if ins.MostActiveCountry == nil || sums[country] > ins.MostActiveCountry.TotalLogins {
				ins.MostActiveCountry = &domain.CountryTotal{Country: country, TotalLogins: sums[country]}
			}
		}

		for i := range active {
			if ins.MostActiveUser == nil || active[i].TotalLogins > ins.MostActiveUser.TotalLogins {
				u := active[i]
				ins.MostActiveUser = &u
			}
		}
		ins.AvgLoginsPerActiveUser = round(float64(total)/float64(len(active)), 2)
	}

	for i := range weekly {
		if ins.MostActiveWeek == nil || weekly[i].TotalLogins > ins.MostActiveWeek.TotalLogins {
			w := weekly[i]
			ins.MostActiveWeek = &w
		}
	}

	if len(users) > 0 {
		weeks := 0
		for _, u := range users {
			weeks += u.WeeksActive
		}
		ins.AvgWeeksActive = round(float64(weeks)/float64(len(users)), 2)
		ins.ActiveUserPercent = round(float64(len(active))/float64(len(users))*100, 1)
	}

	ins.Sentences = Sentences(ins)
	return ins
}

// Sentences renders the insight bullet lines. Lines whose subject is missing
// are left out.
func Sentences(ins domain.Insights) []string {
	var lines []string
	if c := ins.MostActiveCountry; c != nil {
		lines = append(lines, fmt.Sprintf("Most Active Country: %s with %d total logins", c.Country, c.TotalLogins))
	}
	if u := ins.MostActiveUser; u != nil {
		lines = append(lines, fmt.Sprintf("Most Active User: %s from %s with %d total logins across %d weeks", u.FullName, u.Country, u.TotalLogins, u.WeeksActive))
	}
	if w := ins.MostActiveWeek; w != nil {
		lines = append(lines, fmt.Sprintf("Most Active Week: %s with %d total logins", w.WeekPeriod, w.TotalLogins))
	}
	if ins.ActiveUsers > 0 {
		lines = append(lines, fmt.Sprintf("Average Logins per Active User: %.1f", ins.AvgLoginsPerActiveUser))
	}
	if ins.TotalUsers > 0 {
		lines = append(lines,
			fmt.Sprintf("Total Active Users: %d out of %d users (%.1f%%)", ins.ActiveUsers, ins.TotalUsers, ins.ActiveUserPercent),
			fmt.Sprintf("Average Weeks Active per User: %.1f", ins.AvgWeeksActive),
		)
	}
	return lines
}
