package model

import (
	"errors"
	"fmt"
)

// ErrMalformedRecord is the kind shared by every MalformedRecordError.
var ErrMalformedRecord = errors.New("malformed record")

// MalformedRecordError identifies an upstream record that lacks a required
// field or carries an unusable value.
type MalformedRecordError struct {
	Kind   string // record family, e.g. "transaction", "progress"
	Index  int    // position in the source sequence
	Field  string // offending field as named upstream
	Reason string
}

func (e *MalformedRecordError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "missing"
	}
	return fmt.Sprintf("malformed %s record at index %d: field %q %s", e.Kind, e.Index, e.Field, reason)
}

// Is makes errors.Is(err, ErrMalformedRecord) hold.
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}
