package filter

import (
	"context"

	dompreset "github.com/kailas-cloud/patternfilter/internal/domain/preset"
)

// PresetGetter loads saved presets.
type PresetGetter interface {
	Get(ctx context.Context, id string) (dompreset.Preset, error)
}
