package preset

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/patternfilter/internal/domain/filter"
	dompreset "github.com/kailas-cloud/patternfilter/internal/domain/preset"
)

// presetRow is the stored JSON document.
type presetRow struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Filters     specRow `json:"filters"`
	CreatedAt   int64   `json:"created_at"`
	UpdatedAt   int64   `json:"updated_at"`
}

type specRow struct {
	Logic      string         `json:"logic"`
	Conditions []conditionRow `json:"conditions"`
}

type conditionRow struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

func marshalPreset(p dompreset.Preset) ([]byte, error) {
	spec := p.Filters()
	rows := make([]conditionRow, len(spec.Conditions()))
	for i, c := range spec.Conditions() {
		rows[i] = conditionRow{Field: c.Field(), Operator: c.Tag(), Value: c.Value()}
	}

	logic := spec.RawLogic()
	if logic == "" {
		logic = string(spec.Logic())
	}

	return json.Marshal(presetRow{
		ID:          p.ID(),
		Name:        p.Name(),
		Description: p.Description(),
		Filters:     specRow{Logic: logic, Conditions: rows},
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	})
}

// unmarshalPreset hydrates leniently: unknown operator and logic tags are kept
// so they surface as diagnostics instead of failing the read.
func unmarshalPreset(data []byte) (dompreset.Preset, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var row presetRow
	if err := dec.Decode(&row); err != nil {
		return dompreset.Preset{}, fmt.Errorf("unmarshal preset: %w", err)
	}
	if row.ID == "" {
		return dompreset.Preset{}, fmt.Errorf("preset document has no id")
	}

	conds := make([]filter.Condition, len(row.Filters.Conditions))
	for i, c := range row.Filters.Conditions {
		conds[i] = filter.ReconstructCondition(c.Field, c.Operator, c.Value)
	}
	spec := filter.ReconstructSpec(row.Filters.Logic, conds)

	return dompreset.Reconstruct(row.ID, row.Name, row.Description, spec, row.CreatedAt, row.UpdatedAt), nil
}
