package patternfilter

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	zapobserver "go.uber.org/zap/zaptest/observer"
)

func TestNew_NoStorage(t *testing.T) {
	if _, err := New(context.Background()); err == nil {
		t.Fatal("expected error when no storage configured")
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := &clientConfig{driver: "unknown"}
	if _, err := createStore(context.Background(), cfg); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestNew_PostgresWithoutDSN(t *testing.T) {
	if _, err := New(context.Background(), WithPostgres("")); err == nil {
		t.Fatal("expected error for empty dsn")
	}
}

func newMemoryClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	now := time.UnixMilli(1700000000000)
	opts = append([]Option{WithMemory(), WithClock(func() time.Time { return now })}, opts...)
	c, err := New(context.Background(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestClient_PresetLifecycle(t *testing.T) {
	ctx := context.Background()
	c := newMemoryClient(t)

	p, err := c.Presets().Create(ctx, "High confidence", "conf >= 0.8", highConfidence)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	records := []Record{
		{"symbol": "AAPL", "confidence": 0.82},
		{"symbol": "MSFT", "confidence": 0.65},
	}
	out, err := c.ApplyPreset(ctx, p.ID, records)
	if err != nil {
		t.Fatalf("ApplyPreset: %v", err)
	}
	if len(out) != 1 || out[0]["symbol"] != "AAPL" {
		t.Errorf("ApplyPreset = %v", out)
	}

	dup, err := c.Presets().Duplicate(ctx, p.ID, "")
	if err != nil {
		t.Fatalf("Duplicate: %v", err)
	}
	if dup.Name != "High confidence (copy)" || dup.ID == p.ID {
		t.Errorf("unexpected duplicate: %+v", dup)
	}

	if _, err := c.Presets().Update(ctx, p.ID, "Everything", "", Filter{}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	out, err = c.ApplyPreset(ctx, p.ID, records)
	if err != nil || len(out) != 2 {
		t.Errorf("after update: %v, %v", out, err)
	}

	list, err := c.Presets().List(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("List: %v, %v", list, err)
	}

	if err := c.Presets().Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.ApplyPreset(ctx, p.ID, records); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestClient_MaxRecords(t *testing.T) {
	c := newMemoryClient(t, WithMaxRecords(1))
	_, err := c.Filter(context.Background(), []Record{{}, {}}, Filter{})
	if !errors.Is(err, ErrTooManyRecords) {
		t.Fatalf("expected ErrTooManyRecords, got %v", err)
	}
}

func TestClient_SQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "presets.db")

	c, err := New(ctx, WithSQLite(path))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p, err := c.Presets().Create(ctx, "Breakouts", "", Filter{
		Conditions: []Condition{{Field: "pattern", Operator: OpIn, Value: []any{"WeeklyBO", "DailyBO"}}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	c.Close()

	reopened, err := New(ctx, WithSQLite(path))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Presets().Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Breakouts" || got.Filters.Conditions[0].Operator != OpIn {
		t.Errorf("unexpected preset after reopen: %+v", got)
	}
}

func TestClient_HealthAndPing(t *testing.T) {
	c := newMemoryClient(t)
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	h := c.Health(context.Background())
	if h.Status != "ok" || h.Driver != "memory" || h.Checks["database"] != "ok" {
		t.Errorf("unexpected health: %+v", h)
	}
}

func TestClient_Observability(t *testing.T) {
	core, logs := zapobserver.New(zapcore.DebugLevel)
	reg := prometheus.NewRegistry()
	c := newMemoryClient(t, WithLogger(zap.New(core)), WithPrometheus(reg))

	_, _ = c.Presets().Get(context.Background(), "missing")
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	if n := logs.FilterMessage("operation failed").Len(); n != 1 {
		t.Errorf("failed operations logged = %d, want 1", n)
	}
	if n := logs.FilterMessage("operation completed").Len(); n != 1 {
		t.Errorf("completed operations logged = %d, want 1", n)
	}

	m, err := newSDKMetrics(reg)
	if err != nil {
		t.Fatalf("newSDKMetrics: %v", err)
	}
	if got := testutil.ToFloat64(m.operations.WithLabelValues("preset.get", "error")); got != 1 {
		t.Errorf("preset.get errors = %v, want 1", got)
	}
}

func TestClient_Matches_UnknownOperatorWarns(t *testing.T) {
	core, logs := zapobserver.New(zapcore.WarnLevel)
	c := newMemoryClient(t, WithLogger(zap.New(core)))

	r := Record{"pattern": "WeeklyBO"}
	if c.Matches(context.Background(), r, Condition{Field: "pattern", Operator: "regex", Value: ".*"}) {
		t.Error("unknown operator must not match")
	}
	if !c.Matches(context.Background(), r, Condition{Field: "pattern", Operator: OpContains, Value: "BO"}) {
		t.Error("contains BO should match")
	}

	entries := logs.FilterMessage("Unknown filter operator, condition never matches").All()
	if len(entries) != 1 {
		t.Fatalf("warnings = %d, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["operator"]; got != "regex" {
		t.Errorf("operator = %v, want regex", got)
	}
}

func TestClient_Filter_Lenient(t *testing.T) {
	core, logs := zapobserver.New(zapcore.WarnLevel)
	c := newMemoryClient(t, WithLogger(zap.New(core)), WithLenientFilters())

	records := []Record{
		{"symbol": "AAPL", "confidence": 0.82, "pattern": "WeeklyBO"},
		{"symbol": "MSFT", "confidence": 0.65, "pattern": "WeeklyBO"},
	}
	f := Filter{
		Logic: "XOR",
		Conditions: []Condition{
			{Field: "confidence", Operator: OpGte, Value: 0.8},
			{Field: "pattern", Operator: OpEq, Value: "WeeklyBO"},
		},
	}
	out, err := c.Filter(context.Background(), records, f)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if len(out) != 1 || out[0]["symbol"] != "AAPL" {
		t.Errorf("unexpected result: %v", out)
	}
	if n := logs.FilterMessage("Unknown filter logic, evaluating as AND").Len(); n != 1 {
		t.Errorf("logic warnings = %d, want 1", n)
	}

	f.Logic = Or
	f.Conditions = append(f.Conditions, Condition{Field: "pattern", Operator: "regex", Value: ".*"})
	out, err = c.Filter(context.Background(), records, f)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if len(out) != 2 {
		t.Errorf("got %d records, want 2", len(out))
	}
	if n := logs.FilterMessage("Unknown filter operator, condition never matches").Len(); n != 1 {
		t.Errorf("operator warnings = %d, want 1", n)
	}
}

func TestClient_Filter_StrictByDefault(t *testing.T) {
	c := newMemoryClient(t)
	_, err := c.Filter(context.Background(), nil, Filter{
		Conditions: []Condition{{Field: "pattern", Operator: "regex", Value: ".*"}},
	})
	if !errors.Is(err, ErrInvalidFilter) || !errors.Is(err, ErrUnknownOperator) {
		t.Fatalf("expected ErrInvalidFilter wrapping ErrUnknownOperator, got %v", err)
	}
}

func TestObserver_Nil(t *testing.T) {
	var o *observer
	o.observe("noop", time.Now(), nil)
}

func TestRegisterOrReuse_Incompatible(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "patternfilter",
		Subsystem: "sdk",
		Name:      "operations_total",
		Help:      "Total SDK operations by type and status.",
	}))
	if _, err := newSDKMetrics(reg); err == nil {
		t.Fatal("expected error for conflicting metric")
	}
}
