package patternfilter

import (
	"github.com/kailas-cloud/patternfilter/internal/domain"
	"github.com/kailas-cloud/patternfilter/internal/domain/filter"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound        = domain.ErrNotFound
	ErrAlreadyExists   = domain.ErrAlreadyExists
	ErrInvalidPreset   = domain.ErrInvalidPreset
	ErrInvalidFilter   = domain.ErrInvalidFilter
	ErrTooManyRecords  = domain.ErrTooManyRecords
	ErrUnknownOperator = filter.ErrUnknownOperator
	ErrUnknownLogic    = filter.ErrUnknownLogic
)
