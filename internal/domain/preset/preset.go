// Package preset holds saved, named filter specs.
package preset

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/patternfilter/internal/domain/filter"
)

const (
	maxNameLen        = 128
	maxDescriptionLen = 1024
)

// Preset is a saved filter (immutable value object).
type Preset struct {
	id          string
	name        string
	description string
	filters     filter.Spec
	createdAt   int64
	updatedAt   int64
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("preset name is required")
	}
	if len(name) > maxNameLen {
		return fmt.Errorf("preset name too long (max %d)", maxNameLen)
	}
	return nil
}

const copySuffix = " (copy)"

// CopyName derives the default name of a duplicate. A long source name is
// cut on a rune boundary so the result stays within the name limit.
func CopyName(name string) string {
	base := strings.TrimSpace(name)
	if limit := maxNameLen - len(copySuffix); len(base) > limit {
		for limit > 0 && !utf8.RuneStart(base[limit]) {
			limit--
		}
		base = strings.TrimRight(base[:limit], " ")
	}
	return base + copySuffix
}

// New validates and creates a Preset. Timestamps are unix milliseconds.
func New(id, name, description string, filters filter.Spec, now int64) (Preset, error) {
	if id == "" {
		return Preset{}, fmt.Errorf("preset id is required")
	}
	if err := validateName(name); err != nil {
		return Preset{}, err
	}
	if len(description) > maxDescriptionLen {
		return Preset{}, fmt.Errorf("preset description too long (max %d)", maxDescriptionLen)
	}
	return Preset{
		id:          id,
		name:        strings.TrimSpace(name),
		description: description,
		filters:     filters,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct hydrates a Preset from storage without validation.
func Reconstruct(id, name, description string, filters filter.Spec, createdAt, updatedAt int64) Preset {
	return Preset{
		id:          id,
		name:        name,
		description: description,
		filters:     filters,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// Update returns a copy with new content, keeping id and createdAt.
func (p Preset) Update(name, description string, filters filter.Spec, now int64) (Preset, error) {
	next, err := New(p.id, name, description, filters, now)
	if err != nil {
		return Preset{}, err
	}
	next.createdAt = p.createdAt
	return next, nil
}

// ID returns the preset identifier.
func (p Preset) ID() string { return p.id }

// Name returns the display name.
func (p Preset) Name() string { return p.name }

// Description returns the free-form description.
func (p Preset) Description() string { return p.description }

// Filters returns the evaluation rule.
func (p Preset) Filters() filter.Spec { return p.filters }

// CreatedAt returns the creation time in unix milliseconds.
func (p Preset) CreatedAt() int64 { return p.createdAt }

// UpdatedAt returns the last modification time in unix milliseconds.
func (p Preset) UpdatedAt() int64 { return p.updatedAt }
