// Package chi serves the preset and filter API over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/patternfilter/internal/domain"
	filteruc "github.com/kailas-cloud/patternfilter/internal/usecase/filter"
	healthuc "github.com/kailas-cloud/patternfilter/internal/usecase/health"
	presetuc "github.com/kailas-cloud/patternfilter/internal/usecase/preset"
)

// maxBodyBytes caps request bodies and stream frames.
const maxBodyBytes = 32 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers.
type Server struct {
	presets            *presetuc.Service
	filters            *filteruc.Service
	health             *healthuc.Service
	logger             *zap.Logger
	streamWriteTimeout time.Duration
	errorHandlers      []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	presets *presetuc.Service,
	filters *filteruc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		presets:            presets,
		filters:            filters,
		health:             health,
		logger:             logger,
		streamWriteTimeout: 10 * time.Second,
	}
	s.errorHandlers = []errorHandler{
		recordLimitHandler,
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodePresetNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, ErrorCodePresetAlreadyExists),
		sentinelHandler(domain.ErrInvalidPreset, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrInvalidFilter, http.StatusBadRequest, ErrorCodeValidationFailed),
	}
	return s
}

// WithStreamWriteTimeout sets the per-frame write deadline on WebSocket streams.
func (s *Server) WithStreamWriteTimeout(d time.Duration) *Server {
	if d > 0 {
		s.streamWriteTimeout = d
	}
	return s
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Get("/presets", s.ListPresets)
	r.Post("/presets", s.CreatePreset)
	r.Get("/presets/{id}", s.GetPreset)
	r.Put("/presets/{id}", s.UpdatePreset)
	r.Delete("/presets/{id}", s.DeletePreset)
	r.Post("/presets/{id}/duplicate", s.DuplicatePreset)
	r.Post("/presets/{id}/apply", s.ApplyPreset)
	r.Get("/presets/{id}/stream", s.StreamPreset)

	r.Post("/filter", s.Filter)
}

// ListPresets handles GET /presets.
func (s *Server) ListPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := s.presets.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]PresetResponse, len(presets))
	for i, p := range presets {
		items[i] = presetToDTO(p)
	}
	writeJSON(w, http.StatusOK, PresetListResponse{Items: items})
}

// CreatePreset handles POST /presets.
func (s *Server) CreatePreset(w http.ResponseWriter, r *http.Request) {
	var req PresetRequest
	if !s.decode(w, r, &req) {
		return
	}

	spec, err := specFromDTO(req.Filters)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	p, err := s.presets.Create(r.Context(), req.Name, req.Description, spec)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, presetToDTO(p))
}

// GetPreset handles GET /presets/{id}.
func (s *Server) GetPreset(w http.ResponseWriter, r *http.Request) {
	p, err := s.presets.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presetToDTO(p))
}

// UpdatePreset handles PUT /presets/{id}.
func (s *Server) UpdatePreset(w http.ResponseWriter, r *http.Request) {
	var req PresetRequest
	if !s.decode(w, r, &req) {
		return
	}

	spec, err := specFromDTO(req.Filters)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	p, err := s.presets.Update(r.Context(), chi.URLParam(r, "id"), req.Name, req.Description, spec)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presetToDTO(p))
}

// DeletePreset handles DELETE /presets/{id}.
func (s *Server) DeletePreset(w http.ResponseWriter, r *http.Request) {
	if err := s.presets.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DuplicatePreset handles POST /presets/{id}/duplicate. The body is optional.
func (s *Server) DuplicatePreset(w http.ResponseWriter, r *http.Request) {
	var req DuplicateRequest
	if r.ContentLength != 0 && !s.decode(w, r, &req) {
		return
	}

	p, err := s.presets.Duplicate(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, presetToDTO(p))
}

// ApplyPreset handles POST /presets/{id}/apply.
func (s *Server) ApplyPreset(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if !s.decode(w, r, &req) {
		return
	}

	out, err := s.filters.ApplyPreset(r.Context(), chi.URLParam(r, "id"), req.Records)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, filterResponse(len(req.Records), out))
}

// Filter handles POST /filter.
func (s *Server) Filter(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	if !s.decode(w, r, &req) {
		return
	}

	spec, err := specFromDTO(req.Filters)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	out, err := s.filters.Apply(r.Context(), req.Records, spec)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, filterResponse(len(req.Records), out))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthToDTO(report))
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decode reads a JSON body, keeping numbers as json.Number. Writes 400 and
// returns false on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		msg := "Invalid request body: " + err.Error()
		if errors.Is(err, io.EOF) {
			msg = "Request body is required"
		}
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, msg)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-facing message without exposing internals.
// Validation errors carry their domain detail; other sentinels only their name.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidPreset) || errors.Is(err, domain.ErrInvalidFilter) {
		return err.Error()
	}
	var limitErr *domain.RecordLimitError
	if errors.As(err, &limitErr) {
		return limitErr.Error()
	}
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrTooManyRecords,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// recordLimitHandler handles ErrTooManyRecords with the configured maximum.
func recordLimitHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrTooManyRecords) {
		return false
	}
	var rle *domain.RecordLimitError
	if errors.As(err, &rle) {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]any{
			"code":        ErrorCodeTooManyRecords,
			"message":     msg,
			"max_records": rle.Max,
		})
		return true
	}
	writeError(w, http.StatusRequestEntityTooLarge, ErrorCodeTooManyRecords, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

// streamErrorFor maps a domain error to a stream error frame.
func streamErrorFor(err error) StreamError {
	code := ErrorCodeInternalError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		code = ErrorCodePresetNotFound
	case errors.Is(err, domain.ErrTooManyRecords):
		code = ErrorCodeTooManyRecords
	case errors.Is(err, domain.ErrInvalidFilter):
		code = ErrorCodeValidationFailed
	}
	return StreamError{Error: ErrorResponse{Code: code, Message: safeDomainMessage(err)}}
}

func badFrame(err error) StreamError {
	return StreamError{Error: ErrorResponse{
		Code:    ErrorCodeBadRequest,
		Message: fmt.Sprintf("invalid frame: %v", err),
	}}
}
