// Package aggregate derives the per-user, per-week and per-country views of a
// dataset. Every function is pure and deterministic: the same records, in any
// order, produce the same output.
package aggregate

import (
	"sort"

	"github.com/fardannozami/activity-dashboard/internal/domain"
)

type userKey struct {
	fullName string
	country  string
	division string
}

// UserTotals sums logins and counts records per (fullName, country, division),
// ordered by that key.
func UserTotals(records []domain.ActivityRecord) []domain.UserTotal {
	index := make(map[userKey]int)
	var totals []domain.UserTotal
	for _, r := range records {
		key := userKey{fullName: r.FullName, country: r.Country, division: r.Division}
		i, ok := index[key]
		if !ok {
			i = len(totals)
			index[key] = i
			totals = append(totals, domain.UserTotal{
				FullName: r.FullName,
				Country:  r.Country,
				Division: r.Division,
			})
		}
		totals[i].TotalLogins += r.Logins
		totals[i].WeeksActive++
	}

	sort.Slice(totals, func(i, j int) bool {
		a, b := totals[i], totals[j]
		if a.FullName != b.FullName {
			return a.FullName < b.FullName
		}
		if a.Country != b.Country {
			return a.Country < b.Country
		}
		return a.Division < b.Division
	})
	return totals
}

// ActiveUsers drops users without logins and ranks the rest by country
// ascending, then total logins descending. Ties fall back to the grouping key
// so the ranking never depends on input row order.
func ActiveUsers(totals []domain.UserTotal) []domain.UserTotal {
	active := make([]domain.UserTotal, 0, len(totals))
	for _, u := range totals {
		if u.TotalLogins > 0 {
			active = append(active, u)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		a, b := active[i], active[j]
		if a.Country != b.Country {
			return a.Country < b.Country
		}
		if a.TotalLogins != b.TotalLogins {
			return a.TotalLogins > b.TotalLogins
		}
		if a.FullName != b.FullName {
			return a.FullName < b.FullName
		}
		return a.Division < b.Division
	})
	return active
}

// TopOverall ranks all active users together by total logins and keeps n.
// Equal totals keep their position from the active view.
func TopOverall(active []domain.UserTotal, n int) []domain.UserTotal {
	if n <= 0 || len(active) == 0 {
		return []domain.UserTotal{}
	}
	ranked := make([]domain.UserTotal, len(active))
	copy(ranked, active)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalLogins > ranked[j].TotalLogins
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}
