// Package ingest turns an uploaded activity CSV into validated records.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/fardannozami/activity-dashboard/internal/domain"
)

const utf8BOM = "\ufeff"

// Parse reads the header and every data row. The first failing row aborts the
// whole parse so callers never see a partially ingested dataset.
func Parse(r io.Reader) (*domain.Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &domain.SchemaError{Missing: append([]string(nil), domain.RequiredColumns...)}
	}
	if err != nil {
		return nil, wrapCSVError(err)
	}

	header = normalizeHeader(header)
	idx := make(map[string]int, len(header))
	for i, name := range header {
		if _, seen := idx[name]; !seen {
			idx[name] = i
		}
	}

	var missing []string
	for _, col := range domain.RequiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &domain.SchemaError{Missing: missing}
	}

	_, hasEmail := idx[domain.ColumnSalesRepEmail]
	ds := &domain.Dataset{
		Columns:          header,
		HasSalesRepEmail: hasEmail,
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, wrapCSVError(err)
		}
		if isBlank(row) {
			continue
		}
		line, _ := reader.FieldPos(0)
		record, err := parseRecord(row, header, idx, line)
		if err != nil {
			return nil, err
		}
		ds.Records = append(ds.Records, record)
	}

	if len(ds.Records) == 0 {
		return nil, &domain.EmptyResultError{Reason: "the file contains a header but no activity rows"}
	}
	return ds, nil
}

// Preview returns at most n leading records.
func Preview(ds *domain.Dataset, n int) []domain.ActivityRecord {
	if ds == nil || n <= 0 {
		return nil
	}
	if n > len(ds.Records) {
		n = len(ds.Records)
	}
	out := make([]domain.ActivityRecord, n)
	copy(out, ds.Records[:n])
	return out
}

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		out[i] = strings.TrimSpace(name)
	}
	return out
}

func parseRecord(row, header []string, idx map[string]int, line int) (domain.ActivityRecord, error) {
	get := func(key string) string {
		pos, ok := idx[key]
		if !ok || pos >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[pos])
	}

	record := domain.ActivityRecord{
		Row:           line,
		Country:       get(domain.ColumnCountry),
		Division:      get(domain.ColumnDivision),
		FullName:      get(domain.ColumnFullName),
		SalesRepEmail: get(domain.ColumnSalesRepEmail),
	}

	for _, col := range []string{domain.ColumnCountry, domain.ColumnDivision, domain.ColumnFullName} {
		if get(col) == "" {
			return domain.ActivityRecord{}, &domain.ParseError{Row: line, Column: col, Reason: "value is required"}
		}
	}

	var err error
	if record.FromDate, err = parseDate(get(domain.ColumnFromDate)); err != nil {
		return domain.ActivityRecord{}, &domain.ParseError{Row: line, Column: domain.ColumnFromDate, Value: get(domain.ColumnFromDate), Reason: err.Error()}
	}
	if record.ToDate, err = parseDate(get(domain.ColumnToDate)); err != nil {
		return domain.ActivityRecord{}, &domain.ParseError{Row: line, Column: domain.ColumnToDate, Value: get(domain.ColumnToDate), Reason: err.Error()}
	}
	if record.ToDate.Before(record.FromDate) {
		return domain.ActivityRecord{}, &domain.ParseError{Row: line, Column: domain.ColumnToDate, Value: get(domain.ColumnToDate), Reason: "toDate is before fromDate"}
	}
	if record.Logins, err = parseLogins(get(domain.ColumnLogins)); err != nil {
		return domain.ActivityRecord{}, &domain.ParseError{Row: line, Column: domain.ColumnLogins, Value: get(domain.ColumnLogins), Reason: err.Error()}
	}
	record.WeekPeriod = domain.WeekPeriod(record.FromDate, record.ToDate)

	for i, name := range header {
		if domain.IsRequiredColumn(name) || name == domain.ColumnSalesRepEmail || name == "" || i >= len(row) {
			continue
		}
		if record.Extra == nil {
			record.Extra = make(map[string]string)
		}
		if _, seen := record.Extra[name]; !seen {
			record.Extra[name] = strings.TrimSpace(row[i])
		}
	}
	return record, nil
}

func parseDate(value string) (time.Time, error) {
	if len(value) != len(domain.DateLayout) {
		return time.Time{}, errors.New("expected 8 digit YYYYMMDD date")
	}
	for _, c := range value {
		if c < '0' || c > '9' {
			return time.Time{}, errors.New("expected 8 digit YYYYMMDD date")
		}
	}
	t, err := time.ParseInLocation(domain.DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, errors.New("not a calendar date")
	}
	return t, nil
}

// parseLogins accepts plain integers and integral floats such as "12.0", which
// spreadsheet exports produce for numeric columns.
func parseLogins(value string) (int64, error) {
	if value == "" {
		return 0, errors.New("value is required")
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(value, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return 0, errors.New("expected a whole number")
		}
		if f > domain.MaxLogins {
			return 0, fmt.Errorf("must not exceed %d", domain.MaxLogins)
		}
		n = int64(f)
	}
	if n < 0 {
		return 0, errors.New("must not be negative")
	}
	if n > domain.MaxLogins {
		return 0, fmt.Errorf("must not exceed %d", domain.MaxLogins)
	}
	return n, nil
}

func isBlank(row []string) bool {
	for _, field := range row {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func wrapCSVError(err error) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &domain.ParseError{Row: csvErr.Line, Reason: csvErr.Err.Error()}
	}
	return err
}
