// Package service exposes the answer-writer pipeline over HTTP:
// variable resolution, capability filtering, summarization and answer
// assembly in one request.
package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/mitraarka27/Meteo-Chat/core"
	"github.com/mitraarka27/Meteo-Chat/pkg/cache"
	"github.com/mitraarka27/Meteo-Chat/pkg/metrics"
	"github.com/mitraarka27/Meteo-Chat/pkg/tracing"
	"github.com/mitraarka27/Meteo-Chat/summary"
	"github.com/mitraarka27/Meteo-Chat/vars"
	"github.com/mitraarka27/Meteo-Chat/writer"
)

// AnswerRequest is the full input of one answer query. Variables and
// capabilities are optional; when present the service reports which
// requested variables the provider cannot serve.
type AnswerRequest struct {
	Place         string             `json:"place"`
	TimeMode      core.TimeMode      `json:"time_mode"`
	Variables     []string           `json:"variables,omitempty"`
	Capabilities  json.RawMessage    `json:"capabilities,omitempty"`
	Plan          core.Plan          `json:"plan"`
	ExecuteResult core.ExecuteResult `json:"execute_result"`
	Strategy      string             `json:"strategy,omitempty"`
}

// SeriesNarrative is the per-variable narrative a caller may render as
// bullet lists or chart captions.
type SeriesNarrative struct {
	Variable string   `json:"variable"`
	Lines    []string `json:"lines"`
	Grouped  []string `json:"grouped"`
}

// AnswerResponse pairs the structured answer with the narrative lines
// and the variables dropped by capability filtering.
type AnswerResponse struct {
	Answer           core.StructuredAnswer `json:"answer"`
	Summaries        []SeriesNarrative     `json:"summaries"`
	DroppedVariables []string              `json:"dropped_variables"`
}

// Service wires the pipeline components.
type Service struct {
	cfg     *Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	cache   *cache.Cache
	tracer  *tracing.Tracer

	det *writer.Deterministic
	gen *writer.Generative
}

// New creates a service. The generative writer and tracer may be nil;
// the deterministic writer is required.
func New(cfg *Config, logger *zap.Logger, m *metrics.Metrics, c *cache.Cache, tracer *tracing.Tracer, det *writer.Deterministic, gen *writer.Generative) *Service {
	return &Service{
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		cache:   c,
		tracer:  tracer,
		det:     det,
		gen:     gen,
	}
}

// ResolveVariables runs alias resolution and capability filtering for a
// token list, returning the kept and dropped canonical variables.
func (s *Service) ResolveVariables(tokens []string, capabilities json.RawMessage, mode core.TimeMode) (kept, dropped []string) {
	canonical := vars.Resolve(tokens, mode)
	caps := vars.ParseCapabilities(capabilities)
	kept, dropped = vars.Filter(caps, canonical, mode)
	if len(dropped) > 0 {
		s.metrics.VariablesDroppedTotal.Add(float64(len(dropped)))
		s.logger.Warn("variables_dropped",
			zap.Strings("dropped", dropped),
			zap.String("mode", string(mode)))
	}
	return kept, dropped
}

// Answer runs the full pipeline for one request. It always returns a
// structurally complete response.
func (s *Service) Answer(ctx context.Context, req AnswerRequest) AnswerResponse {
	ctx, end := s.startSpan(ctx, "writer.answer")
	defer end()

	dropped := []string{}
	if len(req.Variables) > 0 {
		_, dropped = s.ResolveVariables(req.Variables, req.Capabilities, req.TimeMode)
	}

	key := cache.Key(req)
	if ans, ok := s.cache.Get(key); ok {
		s.metrics.CacheHitsTotal.Inc()
		return AnswerResponse{Answer: ans, Summaries: s.summaries(ctx, req), DroppedVariables: dropped}
	}
	s.metrics.CacheMissesTotal.Inc()

	wreq := core.WriteRequest{
		Place:    req.Place,
		TimeMode: req.TimeMode,
		Plan:     req.Plan,
		Result:   req.ExecuteResult,
	}

	var ans core.StructuredAnswer
	sctx, endWrite := s.startSpan(ctx, "writer.assemble")
	if s.useGenerative(req.Strategy) {
		ans = s.gen.Write(sctx, wreq)
	} else {
		ans = s.det.Write(sctx, wreq)
	}
	endWrite()

	s.cache.Set(key, ans)
	return AnswerResponse{Answer: ans, Summaries: s.summaries(ctx, req), DroppedVariables: dropped}
}

func (s *Service) useGenerative(strategy string) bool {
	if s.gen == nil {
		return false
	}
	if strategy != "" {
		return strategy == "generative"
	}
	return s.cfg.Strategy == "generative"
}

// summaries computes the narrative lines for every series in the
// result. Historical queries group by calendar month, everything else
// by hour of day.
func (s *Service) summaries(ctx context.Context, req AnswerRequest) []SeriesNarrative {
	_, end := s.startSpan(ctx, "writer.summarize")
	defer end()

	group := summary.GroupByHour
	if req.TimeMode == core.ModeHistorical {
		group = summary.GroupByMonth
	}

	out := make([]SeriesNarrative, 0, len(req.ExecuteResult.Series))
	for _, series := range req.ExecuteResult.Series {
		start := time.Now()
		pts := summary.Clean(series)
		sum := summary.SummarizeSeries(series.Variable, req.Place, series.Variable, series.Unit, pts)
		grouped := summary.SummarizeGroups(pts, group)
		s.metrics.SummarizeLatency.WithLabelValues("series").Observe(time.Since(start).Seconds())

		out = append(out, SeriesNarrative{
			Variable: series.Variable,
			Lines:    sum.Lines,
			Grouped:  grouped,
		})
	}
	return out
}

// startSpan opens a tracing span when tracing is enabled; the returned
// func ends it.
func (s *Service) startSpan(ctx context.Context, name string) (context.Context, func()) {
	if s.tracer == nil {
		return ctx, func() {}
	}
	ctx, span := s.tracer.Start(ctx, name)
	return ctx, func() { span.End() }
}
