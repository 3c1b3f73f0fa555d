package patternfilter

import (
	"context"
	"fmt"
	"time"

	dompreset "github.com/kailas-cloud/patternfilter/internal/domain/preset"
)

// PresetService manages saved filters.
type PresetService struct {
	svc presetUseCase
	obs *observer
}

// Create validates and saves a new preset.
// Unknown operators or logic are rejected with ErrInvalidFilter.
func (s *PresetService) Create(
	ctx context.Context, name, description string, f Filter,
) (_ Preset, err error) {
	start := time.Now()
	defer func() { s.obs.observe("preset.create", start, err) }()

	spec, err := toInternalSpec(f)
	if err != nil {
		return Preset{}, fmt.Errorf("create preset: %w", err)
	}

	p, err := s.svc.Create(ctx, name, description, spec)
	if err != nil {
		return Preset{}, fmt.Errorf("create preset: %w", err)
	}
	return fromInternalPreset(p), nil
}

// Get retrieves a preset by id.
func (s *PresetService) Get(ctx context.Context, id string) (_ Preset, err error) {
	start := time.Now()
	defer func() { s.obs.observe("preset.get", start, err) }()

	p, err := s.svc.Get(ctx, id)
	if err != nil {
		return Preset{}, fmt.Errorf("get preset: %w", err)
	}
	return fromInternalPreset(p), nil
}

// List returns every preset, oldest first.
func (s *PresetService) List(ctx context.Context) (_ []Preset, err error) {
	start := time.Now()
	defer func() { s.obs.observe("preset.list", start, err) }()

	presets, err := s.svc.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	out := make([]Preset, len(presets))
	for i, p := range presets {
		out[i] = fromInternalPreset(p)
	}
	return out, nil
}

// Update replaces a preset's name, description and filters.
func (s *PresetService) Update(
	ctx context.Context, id, name, description string, f Filter,
) (_ Preset, err error) {
	start := time.Now()
	defer func() { s.obs.observe("preset.update", start, err) }()

	spec, err := toInternalSpec(f)
	if err != nil {
		return Preset{}, fmt.Errorf("update preset: %w", err)
	}

	p, err := s.svc.Update(ctx, id, name, description, spec)
	if err != nil {
		return Preset{}, fmt.Errorf("update preset: %w", err)
	}
	return fromInternalPreset(p), nil
}

// Delete removes a preset.
func (s *PresetService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("preset.delete", start, err) }()

	if err = s.svc.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete preset: %w", err)
	}
	return nil
}

// Duplicate copies a preset under a new id. An empty name yields "<name> (copy)".
func (s *PresetService) Duplicate(ctx context.Context, id, name string) (_ Preset, err error) {
	start := time.Now()
	defer func() { s.obs.observe("preset.duplicate", start, err) }()

	p, err := s.svc.Duplicate(ctx, id, name)
	if err != nil {
		return Preset{}, fmt.Errorf("duplicate preset: %w", err)
	}
	return fromInternalPreset(p), nil
}

func fromInternalPreset(p dompreset.Preset) Preset {
	var diags []string
	for _, d := range p.Filters().Diagnostics() {
		diags = append(diags, d.Error())
	}
	return Preset{
		ID:          p.ID(),
		Name:        p.Name(),
		Description: p.Description(),
		Filters:     fromInternalSpec(p.Filters()),
		Diagnostics: diags,
		CreatedAt:   time.UnixMilli(p.CreatedAt()),
		UpdatedAt:   time.UnixMilli(p.UpdatedAt()),
	}
}
