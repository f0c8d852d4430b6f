package aggregate

import (
	"math"
	"sort"

	"github.com/fardannozami/activity-dashboard/internal/domain"
)

// CountrySummaries builds the per-country table over active users, ordered by
// country name.
func CountrySummaries(active []domain.UserTotal) []domain.CountrySummary {
	type acc struct {
		users int
		sum   int64
		max   int64
		weeks int
	}
	byCountry := make(map[string]*acc)
	for _, u := range active {
		a, ok := byCountry[u.Country]
		if !ok {
			a = &acc{}
			byCountry[u.Country] = a
		}
		a.users++
		a.sum += u.TotalLogins
		a.weeks += u.WeeksActive
		if u.TotalLogins > a.max {
			a.max = u.TotalLogins
		}
	}

	out := make([]domain.CountrySummary, 0, len(byCountry))
	for _, country := range sortedKeys(byCountry) {
		a := byCountry[country]
		out = append(out, domain.CountrySummary{
			Country:          country,
			Users:            a.users,
			TotalLogins:      a.sum,
			AvgLoginsPerUser: round(float64(a.sum)/float64(a.users), 2),
			MaxUserLogins:    a.max,
			AvgWeeksActive:   round(float64(a.weeks)/float64(a.users), 2),
		})
	}
	return out
}

// CountryTotals is the chart series of summed logins per country, smallest
// first.
func CountryTotals(active []domain.UserTotal) []domain.CountryTotal {
	sums := make(map[string]int64)
	for _, u := range active {
		sums[u.Country] += u.TotalLogins
	}
	out := make([]domain.CountryTotal, 0, len(sums))
	for _, country := range sortedKeys(sums) {
		out = append(out, domain.CountryTotal{Country: country, TotalLogins: sums[country]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalLogins < out[j].TotalLogins
	})
	return out
}

// TopNPerCountry takes the first n rows of each country's partition of the
// ranked active view. It relies on ActiveUsers ordering and never re-sorts.
func TopNPerCountry(active []domain.UserTotal, n int) []domain.CountryTop {
	if n <= 0 {
		return []domain.CountryTop{}
	}
	index := make(map[string]int)
	tops := []domain.CountryTop{}
	for _, u := range active {
		i, ok := index[u.Country]
		if !ok {
			i = len(tops)
			index[u.Country] = i
			tops = append(tops, domain.CountryTop{Country: u.Country})
		}
		if len(tops[i].Users) < n {
			tops[i].Users = append(tops[i].Users, u)
		}
	}
	return tops
}

// TopUsersByCountry flattens the per-country rankings into one chart series.
func TopUsersByCountry(tops []domain.CountryTop) []domain.UserTotal {
	out := []domain.UserTotal{}
	for _, t := range tops {
		out = append(out, t.Users...)
	}
	return out
}

// CountryCount counts distinct countries across all records.
func CountryCount(records []domain.ActivityRecord) int {
	seen := make(map[string]struct{})
	for _, r := range records {
		seen[r.Country] = struct{}{}
	}
	return len(seen)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func round(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
