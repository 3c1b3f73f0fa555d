package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing preset.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate preset id.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidPreset signals a preset that failed validation.
	ErrInvalidPreset = errors.New("invalid preset")
	// ErrInvalidFilter signals a filter spec that failed validation.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrTooManyRecords signals a record batch above the configured limit.
	ErrTooManyRecords = errors.New("too many records")
)

// RecordLimitError wraps ErrTooManyRecords with the offending and allowed sizes.
type RecordLimitError struct {
	Got int
	Max int
}

func (e *RecordLimitError) Error() string {
	return fmt.Sprintf("%s: got %d, max %d", ErrTooManyRecords.Error(), e.Got, e.Max)
}

func (e *RecordLimitError) Unwrap() error { return ErrTooManyRecords }

// NewRecordLimit creates a record limit error.
func NewRecordLimit(got, maxRecords int) error {
	return &RecordLimitError{Got: got, Max: maxRecords}
}
