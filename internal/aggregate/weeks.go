package aggregate

import (
	"sort"
	"time"

	"github.com/fardannozami/activity-dashboard/internal/domain"
)

type weekKey struct {
	from   int64
	period string
}

// WeeklySummaries totals logins per reporting week and counts the distinct
// names active in it, in chronological order.
func WeeklySummaries(records []domain.ActivityRecord) []domain.WeeklySummary {
	index := make(map[weekKey]int)
	var weeks []domain.WeeklySummary
	var names []map[string]struct{}

	for _, r := range records {
		key := weekKey{from: r.FromDate.Unix(), period: r.WeekPeriod}
		i, ok := index[key]
		if !ok {
			i = len(weeks)
			index[key] = i
			weeks = append(weeks, domain.WeeklySummary{FromDate: r.FromDate, WeekPeriod: r.WeekPeriod})
			names = append(names, make(map[string]struct{}))
		}
		weeks[i].TotalLogins += r.Logins
		names[i][r.FullName] = struct{}{}
	}
	for i := range weeks {
		weeks[i].ActiveUsers = len(names[i])
	}

	sort.Slice(weeks, func(i, j int) bool {
		if !weeks[i].FromDate.Equal(weeks[j].FromDate) {
			return weeks[i].FromDate.Before(weeks[j].FromDate)
		}
		return weeks[i].WeekPeriod < weeks[j].WeekPeriod
	})
	return weeks
}

// DateRange spans the earliest fromDate to the latest toDate.
func DateRange(records []domain.ActivityRecord) string {
	if len(records) == 0 {
		return ""
	}
	var minFrom, maxTo time.Time
	for i, r := range records {
		if i == 0 || r.FromDate.Before(minFrom) {
			minFrom = r.FromDate
		}
		if i == 0 || r.ToDate.After(maxTo) {
			maxTo = r.ToDate
		}
	}
	return domain.WeekPeriod(minFrom, maxTo)
}
