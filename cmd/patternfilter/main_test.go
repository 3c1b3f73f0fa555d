package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/patternfilter/internal/config"
	"github.com/kailas-cloud/patternfilter/internal/db/memory"
)

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	mem, err := openStore(ctx, config.DatabaseConfig{Driver: config.DriverMemory})
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	mem.Close()

	lite, err := openStore(ctx, config.DatabaseConfig{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "presets.db"),
	})
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	if err := lite.Ping(ctx); err != nil {
		t.Errorf("sqlite ping: %v", err)
	}
	lite.Close()

	if _, err := openStore(ctx, config.DatabaseConfig{Driver: "mongo"}); err == nil {
		t.Error("expected error for unknown driver")
	}
	if _, err := openStore(ctx, config.DatabaseConfig{Driver: config.DriverRedis}); err == nil {
		t.Error("expected error for redis without addrs")
	}
}

func testConfig() config.Config {
	return config.Config{
		Database: config.DatabaseConfig{Driver: config.DriverMemory},
		Auth:     config.AuthConfig{APIKeys: []string{"secret"}},
		Filter:   config.FilterConfig{MaxRecords: 100, StreamWriteTimeoutSec: 1},
	}
}

func TestRouter_EndToEnd(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := newRouter(testConfig(), memory.NewStore(), zap.New(core))

	body := `{"filters": {"conditions": [{"field": "confidence", "operator": "gte", "value": 0.8}]},
		"records": [{"symbol": "AAPL", "confidence": 0.82}, {"symbol": "MSFT", "confidence": 0.65}]}`
	req := httptest.NewRequest("POST", "/filter", bytes.NewBufferString(body))
	req.Header.Set("Authorization", "Bearer secret")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one canonical log line, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["status"]; got != int64(http.StatusOK) {
		t.Errorf("logged status = %v", got)
	}
}

func TestRouter_RequiresAuth(t *testing.T) {
	h := newRouter(testConfig(), memory.NewStore(), zap.NewNop())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/presets", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("got %d, want 401", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("health: got %d, want 200", rr.Code)
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.APIKeys = nil
	h := newRouter(cfg, memory.NewStore(), zap.NewNop())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/unknown", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("got %d, want 404", rr.Code)
	}
}

func TestJSONRecoverer(t *testing.T) {
	h := jsonRecoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("got %d, want 500", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}
