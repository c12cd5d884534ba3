package model

import "fmt"

// DataIntegrityError reports a malformed price series.
type DataIntegrityError struct {
	Index  int
	Reason string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("data integrity: point %d: %s", e.Index, e.Reason)
}

// InvalidHeadlineError reports a headline that cannot be scored.
type InvalidHeadlineError struct {
	Index  int
	Reason string
}

func (e *InvalidHeadlineError) Error() string {
	return fmt.Sprintf("invalid headline %d: %s", e.Index, e.Reason)
}
