// Package filter evaluates declarative conditions against pattern-detection records.
package filter

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/patternfilter/internal/domain/record"
)

// MaxConditions is the maximum number of conditions per spec.
const MaxConditions = 32

// Spec combines conditions with AND or OR. An empty spec matches every record.
type Spec struct {
	logic      Logic
	rawLogic   string
	conditions []Condition
}

// NewSpec validates and creates a Spec.
func NewSpec(logic Logic, conditions []Condition) (Spec, error) {
	if logic == "" {
		logic = And
	}
	if !logic.IsValid() {
		return Spec{}, fmt.Errorf("%w: %q", ErrUnknownLogic, logic)
	}
	if len(conditions) > MaxConditions {
		return Spec{}, fmt.Errorf("too many conditions (max %d)", MaxConditions)
	}
	for i, c := range conditions {
		if err := c.Diagnostic(); err != nil {
			return Spec{}, fmt.Errorf("condition %d: %w", i, err)
		}
	}
	return Spec{logic: logic, rawLogic: string(logic), conditions: conditions}, nil
}

// ReconstructSpec hydrates a stored Spec without validation.
// An unrecognized logic value is kept for diagnostics and evaluated as AND.
func ReconstructSpec(rawLogic string, conditions []Condition) Spec {
	logic := Logic(strings.ToUpper(rawLogic))
	if !logic.IsValid() {
		logic = And
	}
	return Spec{logic: logic, rawLogic: rawLogic, conditions: conditions}
}

// Logic returns the effective combination mode.
func (s Spec) Logic() Logic {
	if s.logic == "" {
		return And
	}
	return s.logic
}

// RawLogic returns the logic value as it was given.
func (s Spec) RawLogic() string { return s.rawLogic }

// Conditions returns the conditions.
func (s Spec) Conditions() []Condition { return s.conditions }

// IsEmpty reports whether there are no conditions.
func (s Spec) IsEmpty() bool { return len(s.conditions) == 0 }

// Diagnostics lists every unknown operator or logic value and every
// condition without a target.
func (s Spec) Diagnostics() []error {
	var out []error
	if s.rawLogic != "" && !Logic(strings.ToUpper(s.rawLogic)).IsValid() {
		out = append(out, fmt.Errorf("%w: %q, evaluating as AND", ErrUnknownLogic, s.rawLogic))
	}
	for _, c := range s.conditions {
		if err := c.Diagnostic(); err != nil {
			out = append(out, err)
		}
	}
	return out
}

// Matches reports whether r passes the filter.
func (s Spec) Matches(r record.Record) bool {
	if s.IsEmpty() {
		return true
	}
	if s.Logic() == Or {
		for _, c := range s.conditions {
			if c.Matches(r) {
				return true
			}
		}
		return false
	}
	for _, c := range s.conditions {
		if !c.Matches(r) {
			return false
		}
	}
	return true
}

// Apply returns the matching records in input order as a new slice.
func (s Spec) Apply(records []record.Record) []record.Record {
	if s.IsEmpty() {
		return record.Clone(records)
	}
	out := make([]record.Record, 0, len(records))
	for _, r := range records {
		if s.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Apply filters records with spec.
func Apply(records []record.Record, spec Spec) []record.Record {
	return spec.Apply(records)
}
