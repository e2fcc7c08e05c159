package writer

import (
	"context"

	"go.uber.org/zap"

	"github.com/mitraarka27/Meteo-Chat/core"
	"github.com/mitraarka27/Meteo-Chat/pkg/metrics"
)

// Generative is the model-backed answer strategy. The backend's raw
// output is never trusted: it goes through extraction, default merging
// and text cleanup, and any failure degrades to the deterministic
// strategy so a schema-valid answer always comes back.
type Generative struct {
	Gen      core.TextGenerator
	Fallback *Deterministic
	Logger   *zap.Logger
	Metrics  *metrics.Metrics

	ForecastDays    int
	HistoricalYears int
}

// Write assembles a StructuredAnswer by prompting the text backend.
func (g *Generative) Write(ctx context.Context, req core.WriteRequest) core.StructuredAnswer {
	question := SynthesizeQuestion(req.Place, req.TimeMode, req.Plan.Variables(), g.forecastDays(), g.historicalYears())
	prompt := BuildPrompt(BuildContext(req.Place, req.Plan, req.Result), question)

	raw, err := g.Gen.Generate(ctx, SystemPrompt, prompt)
	if err != nil {
		if g.Logger != nil {
			g.Logger.Warn("generation_failed", zap.String("place", req.Place), zap.Error(err))
		}
		return g.fallback().Write(ctx, req)
	}

	ans, ok := Extract(raw)
	if !ok {
		if g.Metrics != nil {
			g.Metrics.ExtractFallbacksTotal.Inc()
		}
		if g.Logger != nil {
			g.Logger.Warn("extract_fallback", zap.String("place", req.Place), zap.Int("raw_len", len(raw)))
		}
	}

	ans.Title = CleanText(ans.Title)
	ans.Answer = CleanText(ans.Answer)
	ans.Method = CleanText(ans.Method)

	// Fill contract fields the model left empty from the deterministic
	// rules, so downstream consumers see the same shape either way.
	det := g.fallback()
	if ans.Title == "" {
		ans.Title = buildTitle(req.Place, req.Plan.Variables())
	}
	if ans.Answer == "" {
		ans.Answer = answerTemplate(req.Result)
	}
	if len(ans.Citations) == 0 {
		ans.Citations = det.citations(req.TimeMode, req.Result)
	}
	if len(ans.Limitations) == 0 {
		ans.Limitations = req.Result.Limitations
		if len(ans.Limitations) == 0 {
			ans.Limitations = []string{defaultLimitation}
		}
	}
	if len(ans.Figures) == 0 {
		ans.Figures = det.figures(req.Result)
	}
	ans.Normalize()

	if g.Metrics != nil {
		g.Metrics.AnswersTotal.WithLabelValues("generative").Inc()
	}
	if g.Logger != nil {
		g.Logger.Info("answer_written",
			zap.String("strategy", "generative"),
			zap.String("place", req.Place),
			zap.Bool("extracted", ok),
		)
	}
	return ans
}

func (g *Generative) fallback() *Deterministic {
	if g.Fallback != nil {
		return g.Fallback
	}
	return &Deterministic{Logger: g.Logger}
}

func (g *Generative) forecastDays() int {
	if g.ForecastDays > 0 {
		return g.ForecastDays
	}
	return 7
}

func (g *Generative) historicalYears() int {
	if g.HistoricalYears > 0 {
		return g.HistoricalYears
	}
	return 1
}
