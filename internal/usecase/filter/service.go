// Package filter runs filter specs over record batches with logging and metrics.
package filter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/patternfilter/internal/domain"
	domfilter "github.com/kailas-cloud/patternfilter/internal/domain/filter"
	"github.com/kailas-cloud/patternfilter/internal/domain/record"
	"github.com/kailas-cloud/patternfilter/internal/logger"
	"github.com/kailas-cloud/patternfilter/internal/metrics"
)

// DefaultMaxRecords caps a single batch.
const DefaultMaxRecords = 10000

// Service applies ad-hoc and saved filters.
type Service struct {
	presets    PresetGetter
	logger     *zap.Logger
	maxRecords int
}

// New creates a filter service. maxRecords <= 0 disables the batch limit.
func New(presets PresetGetter, logger *zap.Logger, maxRecords int) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{presets: presets, logger: logger, maxRecords: maxRecords}
}

// Evaluate checks a single record against a single condition.
func (s *Service) Evaluate(ctx context.Context, r record.Record, c domfilter.Condition) bool {
	if c.Diagnostic() != nil {
		s.warnCondition(s.log(ctx), "", c)
	}
	return domfilter.Evaluate(r, c)
}

// Apply filters records with an ad-hoc spec.
func (s *Service) Apply(ctx context.Context, records []record.Record, spec domfilter.Spec) ([]record.Record, error) {
	if err := s.checkLimit(len(records)); err != nil {
		return nil, err
	}
	return s.run(ctx, metrics.SourceAdhoc, "", spec, records), nil
}

// ApplyPreset loads a preset and filters records with it.
func (s *Service) ApplyPreset(ctx context.Context, id string, records []record.Record) ([]record.Record, error) {
	return s.applyPreset(ctx, metrics.SourcePreset, id, records)
}

// ApplyStreamFrame is ApplyPreset for one WebSocket frame. The preset is
// re-read on every call so edits apply to the next frame.
func (s *Service) ApplyStreamFrame(ctx context.Context, id string, records []record.Record) ([]record.Record, error) {
	return s.applyPreset(ctx, metrics.SourceStream, id, records)
}

func (s *Service) applyPreset(ctx context.Context, source, id string, records []record.Record) ([]record.Record, error) {
	if err := s.checkLimit(len(records)); err != nil {
		return nil, err
	}
	p, err := s.presets.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get preset: %w", err)
	}
	return s.run(ctx, source, p.ID(), p.Filters(), records), nil
}

func (s *Service) checkLimit(n int) error {
	if s.maxRecords > 0 && n > s.maxRecords {
		return domain.NewRecordLimit(n, s.maxRecords)
	}
	return nil
}

func (s *Service) run(ctx context.Context, source, presetID string, spec domfilter.Spec, records []record.Record) []record.Record {
	log := s.log(ctx)
	s.reportDiagnostics(log, presetID, spec)

	start := time.Now()
	out := spec.Apply(records)

	metrics.FilterRequestsTotal.WithLabelValues(source).Inc()
	metrics.FilterDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	metrics.FilterRecordsTotal.WithLabelValues("in").Add(float64(len(records)))
	metrics.FilterRecordsTotal.WithLabelValues("out").Add(float64(len(out)))

	log.Debug("Filter applied",
		zap.String("source", source),
		zap.String("preset_id", presetID),
		zap.Int("records_in", len(records)),
		zap.Int("records_out", len(out)),
	)
	return out
}

// log prefers the request-scoped logger.
func (s *Service) log(ctx context.Context) *zap.Logger {
	if l, ok := logger.Lookup(ctx); ok {
		return l
	}
	return s.logger
}

func (s *Service) reportDiagnostics(log *zap.Logger, presetID string, spec domfilter.Spec) {
	for _, d := range spec.Diagnostics() {
		if errors.Is(d, domfilter.ErrUnknownLogic) {
			metrics.FilterDiagnosticsTotal.WithLabelValues("logic").Inc()
			log.Warn("Unknown filter logic, evaluating as AND",
				zap.String("preset_id", presetID),
				zap.String("logic", spec.RawLogic()),
			)
		}
	}
	for _, c := range spec.Conditions() {
		if c.Diagnostic() != nil {
			s.warnCondition(log, presetID, c)
		}
	}
}

func (s *Service) warnCondition(log *zap.Logger, presetID string, c domfilter.Condition) {
	if !c.Operator().IsValid() {
		metrics.FilterDiagnosticsTotal.WithLabelValues("operator").Inc()
		log.Warn("Unknown filter operator, condition never matches",
			zap.String("preset_id", presetID),
			zap.String("field", c.Field()),
			zap.String("operator", c.Tag()),
		)
		return
	}
	metrics.FilterDiagnosticsTotal.WithLabelValues("value").Inc()
	log.Warn("Filter condition has no value, condition never matches",
		zap.String("preset_id", presetID),
		zap.String("field", c.Field()),
		zap.String("operator", c.Tag()),
	)
}
