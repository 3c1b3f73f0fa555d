package preset

import (
	"context"
	"testing"

	"github.com/kailas-cloud/patternfilter/internal/db"
	"github.com/kailas-cloud/patternfilter/internal/domain/filter"
	dompreset "github.com/kailas-cloud/patternfilter/internal/domain/preset"
)

// mockStore implements the consumer interface for tests.
// Without fn overrides it behaves like an in-memory key-value store.
type mockStore struct {
	data map[string][]byte

	getFn    func(ctx context.Context, key string) ([]byte, error)
	setFn    func(ctx context.Context, key string, value []byte) error
	delFn    func(ctx context.Context, key string) error
	existsFn func(ctx context.Context, key string) (bool, error)
	scanFn   func(ctx context.Context, pattern string) ([]string, error)
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	m.data[key] = value
	return nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	delete(m.data, key)
	return nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	_, ok := m.data[key]
	return ok, nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{data: make(map[string][]byte)}
	return New(ms, "pf:"), ms
}

func testPreset(t *testing.T, id string, createdAt int64) dompreset.Preset {
	t.Helper()
	c, err := filter.NewCondition("confidence", filter.OpGte, 0.8)
	if err != nil {
		t.Fatalf("NewCondition: %v", err)
	}
	spec, err := filter.NewSpec(filter.And, []filter.Condition{c})
	if err != nil {
		t.Fatalf("NewSpec: %v", err)
	}
	p, err := dompreset.New(id, "High confidence", "conf >= 0.8", spec, createdAt)
	if err != nil {
		t.Fatalf("preset.New: %v", err)
	}
	return p
}
