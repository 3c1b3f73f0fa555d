package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/patternfilter/internal/domain/record"
)

// ErrMissingValue signals a stored condition without a comparison target.
var ErrMissingValue = errors.New("missing condition value")

// Condition compares one record field against a target value.
type Condition struct {
	field string
	op    Operator
	tag   string
	value any
}

// NewCondition validates and creates a Condition.
// in needs a list target, between a [lo, hi] numeric pair, ordering operators a number.
func NewCondition(field string, op Operator, value any) (Condition, error) {
	if field == "" {
		return Condition{}, fmt.Errorf("condition field is required")
	}
	if !op.IsValid() {
		return Condition{}, fmt.Errorf("%w: %q", ErrUnknownOperator, op.String())
	}
	if value == nil {
		return Condition{}, fmt.Errorf("condition value is required for field %q", field)
	}

	switch op {
	case OpGt, OpGte, OpLt, OpLte:
		if _, ok := toNumber(value); !ok {
			return Condition{}, fmt.Errorf("operator %s on %q needs a numeric value", op, field)
		}
	case OpIn:
		if _, ok := asList(value); !ok {
			return Condition{}, fmt.Errorf("operator in on %q needs a list value", field)
		}
	case OpBetween:
		if _, _, ok := bounds(value); !ok {
			return Condition{}, fmt.Errorf("operator between on %q needs a [lo, hi] numeric pair", field)
		}
	}

	return Condition{field: field, op: op, tag: op.String(), value: value}, nil
}

// ParseCondition is NewCondition with the operator given as its wire tag.
func ParseCondition(field, tag string, value any) (Condition, error) {
	op, err := ParseOperator(strings.ToLower(tag))
	if err != nil {
		return Condition{}, err
	}
	return NewCondition(field, op, value)
}

// ReconstructCondition hydrates a stored Condition without validation.
// An unrecognized tag is kept verbatim and the condition never matches.
func ReconstructCondition(field, tag string, value any) Condition {
	op, err := ParseOperator(tag)
	if err != nil {
		op = OpUnknown
	}
	return Condition{field: field, op: op, tag: tag, value: value}
}

// Field returns the record field name.
func (c Condition) Field() string { return c.field }

// Operator returns the comparison operator.
func (c Condition) Operator() Operator { return c.op }

// Tag returns the operator tag as it was given, including unknown ones.
func (c Condition) Tag() string { return c.tag }

// Value returns the comparison target.
func (c Condition) Value() any { return c.value }

// Diagnostic reports why the condition can never match, or nil.
func (c Condition) Diagnostic() error {
	if !c.op.IsValid() {
		return fmt.Errorf("%w: %q on field %q", ErrUnknownOperator, c.tag, c.field)
	}
	if c.value == nil {
		return fmt.Errorf("%w: %s on field %q", ErrMissingValue, c.tag, c.field)
	}
	return nil
}

// Matches reports whether r satisfies the condition. Absent fields and a
// missing target never match.
func (c Condition) Matches(r record.Record) bool {
	if c.value == nil {
		return false
	}
	v, ok := r.Lookup(c.field)
	if !ok {
		return false
	}

	switch c.op {
	case OpEq:
		return strictEqual(v, c.value)
	case OpNe:
		return !strictEqual(v, c.value)
	case OpGt:
		return compareNumbers(v, c.value, func(x, y float64) bool { return x > y })
	case OpGte:
		return compareNumbers(v, c.value, func(x, y float64) bool { return x >= y })
	case OpLt:
		return compareNumbers(v, c.value, func(x, y float64) bool { return x < y })
	case OpLte:
		return compareNumbers(v, c.value, func(x, y float64) bool { return x <= y })
	case OpIn:
		list, ok := asList(c.value)
		if !ok {
			return false
		}
		for _, e := range list {
			if strictEqual(v, e) {
				return true
			}
		}
		return false
	case OpContains:
		return strings.Contains(strings.ToLower(stringify(v)), strings.ToLower(stringify(c.value)))
	case OpBetween:
		lo, hi, ok := bounds(c.value)
		if !ok {
			return false
		}
		n, ok := toNumber(v)
		return ok && lo <= n && n <= hi
	case OpUnknown:
		return false
	}
	return false
}

// Evaluate reports whether r satisfies c.
func Evaluate(r record.Record, c Condition) bool {
	return c.Matches(r)
}

// bounds unpacks a between target.
func bounds(v any) (lo, hi float64, ok bool) {
	list, ok := asList(v)
	if !ok || len(list) != 2 {
		return 0, 0, false
	}
	lo, okLo := toNumber(list[0])
	hi, okHi := toNumber(list[1])
	if !okLo || !okHi {
		return 0, 0, false
	}
	return lo, hi, true
}
