package filter

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownLogic signals a combination mode other than AND or OR.
var ErrUnknownLogic = errors.New("unknown logic")

// Logic combines per-condition results.
type Logic string

const (
	// And requires every condition to match.
	And Logic = "AND"
	// Or requires at least one condition to match.
	Or Logic = "OR"
)

// IsValid checks if the logic is AND or OR.
func (l Logic) IsValid() bool {
	return l == And || l == Or
}

// ParseLogic validates a wire value, case-insensitively. Empty defaults to AND.
func ParseLogic(s string) (Logic, error) {
	if s == "" {
		return And, nil
	}
	l := Logic(strings.ToUpper(s))
	if !l.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownLogic, s)
	}
	return l, nil
}
