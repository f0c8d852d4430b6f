package domain

import "time"

const (
	// DateLayout is the on-disk format of fromDate and toDate.
	DateLayout        = "20060102"
	DisplayDateLayout = "2006-01-02"
)

const (
	ColumnCountry       = "country"
	ColumnDivision      = "division"
	ColumnFullName      = "fullName"
	ColumnFromDate      = "fromDate"
	ColumnToDate        = "toDate"
	ColumnLogins        = "logins"
	ColumnSalesRepEmail = "salesRepEmail"
)

// MaxLogins bounds a single weekly logins cell so that per-user and per-week
// sums cannot overflow int64 for any accepted upload size.
const MaxLogins = 1_000_000_000

// RequiredColumns lists the header names every upload must carry, in the order
// they are reported when missing.
var RequiredColumns = []string{
	ColumnCountry,
	ColumnDivision,
	ColumnFullName,
	ColumnFromDate,
	ColumnToDate,
	ColumnLogins,
}

// ActivityRecord is one row of weekly login activity.
type ActivityRecord struct {
	Row           int               `json:"row"`
	Country       string            `json:"country"`
	Division      string            `json:"division"`
	FullName      string            `json:"full_name"`
	SalesRepEmail string            `json:"sales_rep_email,omitempty"`
	FromDate      time.Time         `json:"from_date"`
	ToDate        time.Time         `json:"to_date"`
	WeekPeriod    string            `json:"week_period"`
	Logins        int64             `json:"logins"`
	Extra         map[string]string `json:"-"`
}

type Dataset struct {
	Columns          []string
	Records          []ActivityRecord
	HasSalesRepEmail bool
}

// WeekPeriod renders the human readable label of a reporting week.
func WeekPeriod(from, to time.Time) string {
	return from.Format(DisplayDateLayout) + " to " + to.Format(DisplayDateLayout)
}

func IsRequiredColumn(name string) bool {
	for _, c := range RequiredColumns {
		if c == name {
			return true
		}
	}
	return false
}
