package domain

import (
	"errors"
	"fmt"
	"strings"
)

// FormatHint accompanies every user-facing report failure.
const FormatHint = "Please make sure your CSV file is properly formatted and contains the required columns."

var (
	ErrInvalidTopN    = fmt.Errorf("top_n must be between %d and %d", MinTopN, MaxTopN)
	ErrReportNotFound = errors.New("report not found")
)

// SchemaError reports required columns absent from the CSV header.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}

// ParseError pins a conversion failure to the offending CSV line.
type ParseError struct {
	Row    int
	Column string
	Value  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
	}
	return fmt.Sprintf("row %d: invalid %s %q: %s", e.Row, e.Column, e.Value, e.Reason)
}

// EmptyResultError is returned when there is nothing to aggregate.
type EmptyResultError struct {
	Reason string
}

func (e *EmptyResultError) Error() string {
	return "empty dataset: " + e.Reason
}
