package patternfilter

import (
	"context"

	domfilter "github.com/kailas-cloud/patternfilter/internal/domain/filter"
	dompreset "github.com/kailas-cloud/patternfilter/internal/domain/preset"
	"github.com/kailas-cloud/patternfilter/internal/domain/record"
)

// --- presetUseCase mock ---

type mockPresetUC struct {
	createFn    func(ctx context.Context, name, description string, spec domfilter.Spec) (dompreset.Preset, error)
	getFn       func(ctx context.Context, id string) (dompreset.Preset, error)
	listFn      func(ctx context.Context) ([]dompreset.Preset, error)
	updateFn    func(ctx context.Context, id, name, description string, spec domfilter.Spec) (dompreset.Preset, error)
	deleteFn    func(ctx context.Context, id string) error
	duplicateFn func(ctx context.Context, id, name string) (dompreset.Preset, error)
}

func (m *mockPresetUC) Create(
	ctx context.Context, name, description string, spec domfilter.Spec,
) (dompreset.Preset, error) {
	return m.createFn(ctx, name, description, spec)
}

func (m *mockPresetUC) Get(ctx context.Context, id string) (dompreset.Preset, error) {
	return m.getFn(ctx, id)
}

func (m *mockPresetUC) List(ctx context.Context) ([]dompreset.Preset, error) {
	return m.listFn(ctx)
}

func (m *mockPresetUC) Update(
	ctx context.Context, id, name, description string, spec domfilter.Spec,
) (dompreset.Preset, error) {
	return m.updateFn(ctx, id, name, description, spec)
}

func (m *mockPresetUC) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *mockPresetUC) Duplicate(ctx context.Context, id, name string) (dompreset.Preset, error) {
	return m.duplicateFn(ctx, id, name)
}

// --- filterUseCase mock ---

type mockFilterUC struct {
	evaluateFn    func(ctx context.Context, r record.Record, c domfilter.Condition) bool
	applyFn       func(ctx context.Context, records []record.Record, spec domfilter.Spec) ([]record.Record, error)
	applyPresetFn func(ctx context.Context, id string, records []record.Record) ([]record.Record, error)
}

func (m *mockFilterUC) Evaluate(ctx context.Context, r record.Record, c domfilter.Condition) bool {
	return m.evaluateFn(ctx, r, c)
}

func (m *mockFilterUC) Apply(
	ctx context.Context, records []record.Record, spec domfilter.Spec,
) ([]record.Record, error) {
	return m.applyFn(ctx, records, spec)
}

func (m *mockFilterUC) ApplyPreset(
	ctx context.Context, id string, records []record.Record,
) ([]record.Record, error) {
	return m.applyPresetFn(ctx, id, records)
}

// --- helpers ---

func testClient(presetSvc presetUseCase, filterSvc filterUseCase) *Client {
	return &Client{
		presetSvc: presetSvc,
		filterSvc: filterSvc,
	}
}
