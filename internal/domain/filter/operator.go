package filter

import (
	"errors"
	"fmt"
)

// ErrUnknownOperator signals an operator tag outside the supported set.
var ErrUnknownOperator = errors.New("unknown operator")

// Operator is the comparison applied by a Condition.
type Operator uint8

// Supported operators. OpUnknown is only produced when hydrating persisted
// presets that carry a tag this build does not know.
const (
	OpUnknown Operator = iota
	OpEq
	OpNe
	OpGt
	OpGte
	OpLt
	OpLte
	OpIn
	OpContains
	OpBetween
)

var operatorTags = [...]string{
	OpUnknown:  "unknown",
	OpEq:       "eq",
	OpNe:       "ne",
	OpGt:       "gt",
	OpGte:      "gte",
	OpLt:       "lt",
	OpLte:      "lte",
	OpIn:       "in",
	OpContains: "contains",
	OpBetween:  "between",
}

// Operators returns every supported operator in declaration order.
func Operators() []Operator {
	return []Operator{OpEq, OpNe, OpGt, OpGte, OpLt, OpLte, OpIn, OpContains, OpBetween}
}

// ParseOperator maps a wire tag to an Operator.
func ParseOperator(tag string) (Operator, error) {
	for _, op := range Operators() {
		if operatorTags[op] == tag {
			return op, nil
		}
	}
	return OpUnknown, fmt.Errorf("%w: %q", ErrUnknownOperator, tag)
}

// String returns the wire tag.
func (o Operator) String() string {
	if int(o) < len(operatorTags) {
		return operatorTags[o]
	}
	return operatorTags[OpUnknown]
}

// IsValid reports whether o is one of the supported operators.
func (o Operator) IsValid() bool {
	return o > OpUnknown && int(o) < len(operatorTags)
}
