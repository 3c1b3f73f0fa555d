package preset

import (
	"context"

	dompreset "github.com/kailas-cloud/patternfilter/internal/domain/preset"
)

// Repository defines the storage contract for presets.
type Repository interface {
	Get(ctx context.Context, id string) (dompreset.Preset, error)
	List(ctx context.Context) ([]dompreset.Preset, error)
	Put(ctx context.Context, p dompreset.Preset) error
	Delete(ctx context.Context, id string) error
}
