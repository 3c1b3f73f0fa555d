package patternfilter

import "time"

// Record is one pattern-detection result: field name to a number, string,
// bool, or an array of those.
type Record = map[string]any

// Operator names a comparison.
type Operator string

// Operator constants.
const (
	OpEq       Operator = "eq"
	OpNe       Operator = "ne"
	OpGt       Operator = "gt"
	OpGte      Operator = "gte"
	OpLt       Operator = "lt"
	OpLte      Operator = "lte"
	OpIn       Operator = "in"
	OpContains Operator = "contains"
	OpBetween  Operator = "between"
)

// Logic combines condition results.
type Logic string

// Logic constants.
const (
	And Logic = "AND"
	Or  Logic = "OR"
)

// Condition is a single predicate on one record field.
// In takes a list, Between takes [lo, hi], ordered operators take a number.
type Condition struct {
	Field    string
	Operator Operator
	Value    any
}

// Filter combines conditions. Empty Logic means AND; no conditions matches everything.
type Filter struct {
	Logic      Logic
	Conditions []Condition
}

// Preset is a saved, named filter.
type Preset struct {
	ID          string
	Name        string
	Description string
	Filters     Filter
	// Diagnostics lists stored values this version does not understand,
	// such as an unknown operator. Such conditions never match.
	Diagnostics []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
