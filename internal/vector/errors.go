package vector

import (
	"errors"
	"fmt"
)

// RecordError identifies the record and field that failed to encode.
// It supports errors.Is() and errors.As() through Unwrap.
type RecordError struct {
	Index int    // Position of the record in the input document (0-based)
	ID    string // Value of the record's test_case_id, if present
	Field string // Source field being encoded
	Err   error  // Underlying error
}

// Error implements the error interface.
func (e *RecordError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("record %d (test_case_id %s) field %q: %v", e.Index, e.ID, e.Field, e.Err)
	}
	return fmt.Sprintf("record %d field %q: %v", e.Index, e.Field, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *RecordError) Unwrap() error { return e.Err }

// Sentinel errors for enrichment and family lookup.
var (
	// ErrMissingField indicates a record lacks a field the family encodes.
	ErrMissingField = errors.New("missing field")

	// ErrNotInteger indicates a field value is not an integer.
	ErrNotInteger = errors.New("value is not an integer")

	// ErrFieldConflict indicates a derived field name already exists in the record.
	ErrFieldConflict = errors.New("derived field already present")

	// ErrUnknownFamily indicates no family is registered under a name.
	ErrUnknownFamily = errors.New("unknown family")

	// ErrInvalidFamily indicates a family definition is inconsistent.
	ErrInvalidFamily = errors.New("invalid family")
)
