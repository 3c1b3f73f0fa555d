package patternfilter

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/patternfilter/internal/domain"
	domfilter "github.com/kailas-cloud/patternfilter/internal/domain/filter"
	"github.com/kailas-cloud/patternfilter/internal/domain/record"
)

// Filter returns the records that satisfy f, in input order.
// The input slice and its records are never modified.
func (c *Client) Filter(ctx context.Context, records []Record, f Filter) (_ []Record, err error) {
	start := time.Now()
	defer func() { c.obs.observe("filter.apply", start, err) }()

	var spec domfilter.Spec
	if c.lenient {
		spec = toLenientSpec(f)
	} else if spec, err = toInternalSpec(f); err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}

	out, err := c.filterSvc.Apply(ctx, toInternalRecords(records), spec)
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}
	return fromInternalRecords(out), nil
}

// ApplyPreset loads a preset and returns the records it matches.
func (c *Client) ApplyPreset(ctx context.Context, id string, records []Record) (_ []Record, err error) {
	start := time.Now()
	defer func() { c.obs.observe("filter.apply_preset", start, err) }()

	out, err := c.filterSvc.ApplyPreset(ctx, id, toInternalRecords(records))
	if err != nil {
		return nil, fmt.Errorf("apply preset: %w", err)
	}
	return fromInternalRecords(out), nil
}

// Matches reports whether a single record satisfies a condition.
// An unknown operator or a missing value never matches and is logged at Warn.
func (c *Client) Matches(ctx context.Context, r Record, cond Condition) bool {
	start := time.Now()
	defer func() { c.obs.observe("filter.matches", start, nil) }()

	in := domfilter.ReconstructCondition(cond.Field, string(cond.Operator), cond.Value)
	return c.filterSvc.Evaluate(ctx, r, in)
}

// Validate checks a filter without applying it.
func Validate(f Filter) error {
	_, err := toInternalSpec(f)
	return err
}

func toInternalSpec(f Filter) (domfilter.Spec, error) {
	logic, err := domfilter.ParseLogic(string(f.Logic))
	if err != nil {
		return domfilter.Spec{}, fmt.Errorf("%w: %w", domain.ErrInvalidFilter, err)
	}
	conds := make([]domfilter.Condition, 0, len(f.Conditions))
	for i, c := range f.Conditions {
		cond, err := domfilter.ParseCondition(c.Field, string(c.Operator), c.Value)
		if err != nil {
			return domfilter.Spec{}, fmt.Errorf("%w: condition %d: %w", domain.ErrInvalidFilter, i, err)
		}
		conds = append(conds, cond)
	}
	spec, err := domfilter.NewSpec(logic, conds)
	if err != nil {
		return domfilter.Spec{}, fmt.Errorf("%w: %w", domain.ErrInvalidFilter, err)
	}
	return spec, nil
}

// toLenientSpec keeps unknown tags so the filter service reports them.
func toLenientSpec(f Filter) domfilter.Spec {
	conds := make([]domfilter.Condition, len(f.Conditions))
	for i, c := range f.Conditions {
		conds[i] = domfilter.ReconstructCondition(c.Field, string(c.Operator), c.Value)
	}
	return domfilter.ReconstructSpec(string(f.Logic), conds)
}

func fromInternalSpec(s domfilter.Spec) Filter {
	conds := make([]Condition, len(s.Conditions()))
	for i, c := range s.Conditions() {
		conds[i] = Condition{Field: c.Field(), Operator: Operator(c.Tag()), Value: c.Value()}
	}
	logic := Logic(s.RawLogic())
	if logic == "" {
		logic = Logic(s.Logic())
	}
	return Filter{Logic: logic, Conditions: conds}
}

func toInternalRecords(in []Record) []record.Record {
	out := make([]record.Record, len(in))
	for i, r := range in {
		out[i] = r
	}
	return out
}

func fromInternalRecords(in []record.Record) []Record {
	out := make([]Record, len(in))
	for i, r := range in {
		out[i] = r
	}
	return out
}
