package preset

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/kailas-cloud/patternfilter/internal/db"
	"github.com/kailas-cloud/patternfilter/internal/domain"
	dompreset "github.com/kailas-cloud/patternfilter/internal/domain/preset"
)

// DefaultKeyPrefix namespaces every key written by the repository.
const DefaultKeyPrefix = "patternfilter:"

// store is the consumer interface for presets (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/preset.Repository on a key-value store.
type Repo struct {
	store  store
	prefix string
}

// New creates a preset repository. An empty prefix falls back to DefaultKeyPrefix.
func New(s store, keyPrefix string) *Repo {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &Repo{store: s, prefix: keyPrefix}
}

// Get retrieves a preset by id.
func (r *Repo) Get(ctx context.Context, id string) (dompreset.Preset, error) {
	data, err := r.store.Get(ctx, r.key(id))
	if errors.Is(err, db.ErrKeyNotFound) {
		return dompreset.Preset{}, domain.ErrNotFound
	}
	if err != nil {
		return dompreset.Preset{}, fmt.Errorf("get preset %s: %w", id, err)
	}
	p, err := unmarshalPreset(data)
	if err != nil {
		return dompreset.Preset{}, fmt.Errorf("decode preset %s: %w", id, err)
	}
	return p, nil
}

// List returns all presets sorted by CreatedAt, then ID.
// Keys removed between SCAN and GET are skipped.
func (r *Repo) List(ctx context.Context) ([]dompreset.Preset, error) {
	keys, err := r.store.Scan(ctx, r.key("*"))
	if err != nil {
		return nil, fmt.Errorf("scan presets: %w", err)
	}

	presets := make([]dompreset.Preset, 0, len(keys))
	for _, k := range keys {
		data, err := r.store.Get(ctx, k)
		if errors.Is(err, db.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get preset %s: %w", k, err)
		}
		p, err := unmarshalPreset(data)
		if err != nil {
			return nil, fmt.Errorf("decode preset %s: %w", k, err)
		}
		presets = append(presets, p)
	}

	sort.Slice(presets, func(i, j int) bool {
		if presets[i].CreatedAt() != presets[j].CreatedAt() {
			return presets[i].CreatedAt() < presets[j].CreatedAt()
		}
		return presets[i].ID() < presets[j].ID()
	})

	return presets, nil
}

// Put upserts a preset.
func (r *Repo) Put(ctx context.Context, p dompreset.Preset) error {
	data, err := marshalPreset(p)
	if err != nil {
		return fmt.Errorf("encode preset %s: %w", p.ID(), err)
	}
	if err := r.store.Set(ctx, r.key(p.ID()), data); err != nil {
		return fmt.Errorf("set preset %s: %w", p.ID(), err)
	}
	return nil
}

// Delete removes a preset. Missing presets return domain.ErrNotFound.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := r.key(id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check preset %s: %w", id, err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del preset %s: %w", id, err)
	}
	return nil
}

// Key pattern: {prefix}preset:{id}

func (r *Repo) key(id string) string {
	return r.prefix + "preset:" + id
}
