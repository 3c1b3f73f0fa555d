package chi

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/patternfilter/internal/domain/filter"
	dompreset "github.com/kailas-cloud/patternfilter/internal/domain/preset"
	"github.com/kailas-cloud/patternfilter/internal/domain/record"
	healthuc "github.com/kailas-cloud/patternfilter/internal/usecase/health"
)

// ErrorCode is the machine-readable error code in ErrorResponse.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest          ErrorCode = "bad_request"
	ErrorCodeUnauthorized        ErrorCode = "unauthorized"
	ErrorCodeValidationFailed    ErrorCode = "validation_failed"
	ErrorCodePresetNotFound      ErrorCode = "preset_not_found"
	ErrorCodePresetAlreadyExists ErrorCode = "preset_already_exists"
	ErrorCodeTooManyRecords      ErrorCode = "too_many_records"
	ErrorCodeInternalError       ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ConditionDTO is a condition on the wire.
type ConditionDTO struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

// SpecDTO is a filter spec on the wire.
type SpecDTO struct {
	Logic      string         `json:"logic"`
	Conditions []ConditionDTO `json:"conditions"`
}

// PresetRequest is the body of POST /presets and PUT /presets/{id}.
type PresetRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Filters     SpecDTO `json:"filters"`
}

// DuplicateRequest is the optional body of POST /presets/{id}/duplicate.
type DuplicateRequest struct {
	Name string `json:"name"`
}

// PresetResponse is a stored preset.
type PresetResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Filters     SpecDTO   `json:"filters"`
	Diagnostics []string  `json:"diagnostics,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PresetListResponse wraps GET /presets.
type PresetListResponse struct {
	Items []PresetResponse `json:"items"`
}

// ApplyRequest is the body of POST /presets/{id}/apply and of each stream frame.
type ApplyRequest struct {
	Records []record.Record `json:"records"`
}

// FilterRequest is the body of POST /filter.
type FilterRequest struct {
	Filters SpecDTO         `json:"filters"`
	Records []record.Record `json:"records"`
}

// FilterResponse is the filtered batch.
type FilterResponse struct {
	Records []record.Record `json:"records"`
	Total   int             `json:"total"`
	Matched int             `json:"matched"`
}

// StreamError is sent on the stream when a frame cannot be filtered.
type StreamError struct {
	Error ErrorResponse `json:"error"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Driver string            `json:"driver,omitempty"`
	Checks map[string]string `json:"checks"`
}

// specFromDTO builds a Spec with strict validation: unknown tags are rejected.
func specFromDTO(d SpecDTO) (filter.Spec, error) {
	logic, err := filter.ParseLogic(d.Logic)
	if err != nil {
		return filter.Spec{}, fmt.Errorf("filters: %w", err)
	}
	conds := make([]filter.Condition, 0, len(d.Conditions))
	for i, c := range d.Conditions {
		cond, err := filter.ParseCondition(c.Field, c.Operator, c.Value)
		if err != nil {
			return filter.Spec{}, fmt.Errorf("condition %d: %w", i, err)
		}
		conds = append(conds, cond)
	}
	spec, err := filter.NewSpec(logic, conds)
	if err != nil {
		return filter.Spec{}, fmt.Errorf("filters: %w", err)
	}
	return spec, nil
}

func specToDTO(s filter.Spec) SpecDTO {
	conds := make([]ConditionDTO, len(s.Conditions()))
	for i, c := range s.Conditions() {
		conds[i] = ConditionDTO{Field: c.Field(), Operator: c.Tag(), Value: c.Value()}
	}
	logic := s.RawLogic()
	if logic == "" {
		logic = string(s.Logic())
	}
	return SpecDTO{Logic: logic, Conditions: conds}
}

func presetToDTO(p dompreset.Preset) PresetResponse {
	var diags []string
	for _, d := range p.Filters().Diagnostics() {
		diags = append(diags, d.Error())
	}
	return PresetResponse{
		ID:          p.ID(),
		Name:        p.Name(),
		Description: p.Description(),
		Filters:     specToDTO(p.Filters()),
		Diagnostics: diags,
		CreatedAt:   time.UnixMilli(p.CreatedAt()).UTC(),
		UpdatedAt:   time.UnixMilli(p.UpdatedAt()).UTC(),
	}
}

func filterResponse(total int, out []record.Record) FilterResponse {
	return FilterResponse{Records: out, Total: total, Matched: len(out)}
}

func healthToDTO(r healthuc.Report) HealthResponse {
	checks := make(map[string]string, len(r.Checks))
	for k, v := range r.Checks {
		checks[k] = string(v)
	}
	return HealthResponse{Status: string(r.Status), Driver: r.Driver, Checks: checks}
}
