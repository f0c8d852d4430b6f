package aggregate

import (
	"math"
	"strconv"
	"strings"

	"github.com/fardannozami/activity-dashboard/internal/domain"
)

// ActivityBreakdown sums the optional numeric "view"/"create" counters.
// Columns holding any non-numeric or infinite cell are skipped. Columns that
// clean to the same label share one entry; totals <= 0 are dropped.
func ActivityBreakdown(ds *domain.Dataset) []domain.ActivityTotal {
	if ds == nil {
		return nil
	}
	var merged []domain.ActivityTotal
	byLabel := make(map[string]int)
	seen := make(map[string]struct{})
	for _, col := range ds.Columns {
		if _, dup := seen[col]; dup || !isActivityColumn(col) {
			continue
		}
		seen[col] = struct{}{}

		total, ok := sumColumn(ds.Records, col)
		if !ok {
			continue
		}
		label := activityLabel(col)
		if i, exists := byLabel[label]; exists {
			merged[i].Column += ", " + col
			merged[i].Total += total
			continue
		}
		byLabel[label] = len(merged)
		merged = append(merged, domain.ActivityTotal{Column: col, Label: label, Total: total})
	}

	var out []domain.ActivityTotal
	for _, a := range merged {
		if a.Total > 0 && !math.IsInf(a.Total, 0) {
			out = append(out, a)
		}
	}
	return out
}

func isActivityColumn(col string) bool {
	if col == "" || domain.IsRequiredColumn(col) || col == domain.ColumnSalesRepEmail {
		return false
	}
	lower := strings.ToLower(col)
	return strings.Contains(lower, "view") || strings.Contains(lower, "create")
}

func sumColumn(records []domain.ActivityRecord, col string) (float64, bool) {
	var total float64
	for _, r := range records {
		raw := strings.TrimSpace(r.Extra[col])
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsInf(v, 0) {
			return 0, false
		}
		// NaN marks a missing cell.
		if math.IsNaN(v) {
			continue
		}
		total += v
	}
	if math.IsInf(total, 0) {
		return 0, false
	}
	return total, true
}

func activityLabel(col string) string {
	label := col
	for _, part := range []string{"Counts", "view", "create"} {
		label = strings.ReplaceAll(label, part, "")
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return col
	}
	return label
}
