package preset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/patternfilter/internal/domain"
	"github.com/kailas-cloud/patternfilter/internal/domain/filter"
	dompreset "github.com/kailas-cloud/patternfilter/internal/domain/preset"
)

// Service handles preset CRUD operations.
type Service struct {
	repo  Repository
	now   func() time.Time
	newID func() string
}

// New creates a preset service.
func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now, newID: uuid.NewString}
}

// WithClock overrides the time source for timestamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// Create validates and stores a new preset under a fresh UUID.
func (s *Service) Create(ctx context.Context, name, description string, spec filter.Spec) (dompreset.Preset, error) {
	if err := validateSpec(spec); err != nil {
		return dompreset.Preset{}, err
	}
	p, err := dompreset.New(s.newID(), name, description, spec, s.now().UnixMilli())
	if err != nil {
		return dompreset.Preset{}, fmt.Errorf("validate preset: %w: %w", domain.ErrInvalidPreset, err)
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return dompreset.Preset{}, fmt.Errorf("create preset: %w", err)
	}
	return p, nil
}

// Get retrieves a preset by id.
func (s *Service) Get(ctx context.Context, id string) (dompreset.Preset, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return dompreset.Preset{}, fmt.Errorf("get preset: %w", err)
	}
	return p, nil
}

// List returns all presets.
func (s *Service) List(ctx context.Context) ([]dompreset.Preset, error) {
	presets, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	return presets, nil
}

// Update replaces name, description and filters, keeping id and creation time.
func (s *Service) Update(ctx context.Context, id, name, description string, spec filter.Spec) (dompreset.Preset, error) {
	if err := validateSpec(spec); err != nil {
		return dompreset.Preset{}, err
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return dompreset.Preset{}, fmt.Errorf("get preset: %w", err)
	}
	next, err := current.Update(name, description, spec, s.now().UnixMilli())
	if err != nil {
		return dompreset.Preset{}, fmt.Errorf("validate preset: %w: %w", domain.ErrInvalidPreset, err)
	}
	if err := s.repo.Put(ctx, next); err != nil {
		return dompreset.Preset{}, fmt.Errorf("update preset: %w", err)
	}
	return next, nil
}

// Delete removes a preset.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete preset: %w", err)
	}
	return nil
}

// Duplicate copies a preset's filters under a new id. An empty name
// defaults to "<source name> (copy)".
func (s *Service) Duplicate(ctx context.Context, id, name string) (dompreset.Preset, error) {
	src, err := s.repo.Get(ctx, id)
	if err != nil {
		return dompreset.Preset{}, fmt.Errorf("get preset: %w", err)
	}
	if name == "" {
		name = dompreset.CopyName(src.Name())
	}
	p, err := dompreset.New(s.newID(), name, src.Description(), src.Filters(), s.now().UnixMilli())
	if err != nil {
		return dompreset.Preset{}, fmt.Errorf("validate preset: %w: %w", domain.ErrInvalidPreset, err)
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return dompreset.Preset{}, fmt.Errorf("duplicate preset: %w", err)
	}
	return p, nil
}

// validateSpec rejects specs carrying unknown operators or logic on write.
func validateSpec(spec filter.Spec) error {
	if diags := spec.Diagnostics(); len(diags) > 0 {
		return fmt.Errorf("validate filters: %w: %w", domain.ErrInvalidFilter, errors.Join(diags...))
	}
	return nil
}
