package domain

const (
	MinTopN     = 3
	MaxTopN     = 10
	DefaultTopN = 5
	PreviewSize = 10
)

// ReportOptions carries the per-request knobs of a report run.
type ReportOptions struct {
	TopN   int
	Source string
}

func (o ReportOptions) Validate() error {
	if o.TopN < MinTopN || o.TopN > MaxTopN {
		return ErrInvalidTopN
	}
	return nil
}
