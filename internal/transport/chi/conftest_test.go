package chi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/patternfilter/internal/db/memory"
	presetrepo "github.com/kailas-cloud/patternfilter/internal/repository/preset"
	filteruc "github.com/kailas-cloud/patternfilter/internal/usecase/filter"
	healthuc "github.com/kailas-cloud/patternfilter/internal/usecase/health"
	presetuc "github.com/kailas-cloud/patternfilter/internal/usecase/preset"
)

type testEnv struct {
	router http.Handler
	store  *memory.Store
	repo   *presetrepo.Repo
}

func newTestEnv(t *testing.T, maxRecords int) *testEnv {
	t.Helper()
	store := memory.NewStore()
	repo := presetrepo.New(store, "test:")
	now := time.UnixMilli(1700000000000)

	srv := NewServer(
		presetuc.New(repo).WithClock(func() time.Time { return now }),
		filteruc.New(repo, zap.NewNop(), maxRecords),
		healthuc.New(store, "memory"),
		zap.NewNop(),
	).WithStreamWriteTimeout(time.Second)

	r := chi.NewRouter()
	srv.Routes(r)
	return &testEnv{router: r, store: store, repo: repo}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rr.Body.String())
	}
	return v
}

// createPreset posts a preset and returns its id.
func (e *testEnv) createPreset(t *testing.T, body string) string {
	t.Helper()
	rr := e.do(t, "POST", "/presets", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create preset: got %d: %s", rr.Code, rr.Body.String())
	}
	return decodeBody[PresetResponse](t, rr).ID
}

const highConfidencePreset = `{
	"name": "High confidence",
	"filters": {"logic": "AND", "conditions": [{"field": "confidence", "operator": "gte", "value": 0.8}]}
}`

const sampleRecords = `[
	{"symbol": "AAPL", "pattern": "WeeklyBO", "confidence": 0.82},
	{"symbol": "MSFT", "pattern": "Doji", "confidence": 0.65}
]`
