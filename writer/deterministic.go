// Package writer assembles schema-valid structured answers from
// planned variables and execute results, by deterministic rules or
// through a generative backend.
package writer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mitraarka27/Meteo-Chat/core"
	"github.com/mitraarka27/Meteo-Chat/pkg/metrics"
	"github.com/mitraarka27/Meteo-Chat/summary"
)

// Answer templates selected by which result kind is present.
const (
	answerClimatology = "Typical conditions summarized across long-term mean & spread, seasonal (monthly), diurnal (local hour), and spatial bands."
	answerAggregate   = "Regional conditions summarized as mean ± IQR across an adaptive grid."
	answerSeries      = "Point conditions summarized from hourly/current series."
	answerNone        = "Requested variables were not available; see limitations."

	defaultLimitation = "Model output; station validation not applied."
)

var defaultFollowups = []string{
	"Compare forecast vs historical",
	"Add humidity/wind gusts",
	"Try a different region",
}

// Deterministic is the rule-based answer strategy. It never fails:
// absent data yields empty collections and template sentences.
type Deterministic struct {
	Renderer core.FigureRenderer
	Logger   *zap.Logger
	Metrics  *metrics.Metrics

	// Now is the clock for citation timestamps; nil means time.Now.
	Now func() time.Time
}

// Write assembles a StructuredAnswer from the plan and execute result.
func (d *Deterministic) Write(ctx context.Context, req core.WriteRequest) core.StructuredAnswer {
	_ = ctx
	planned := req.Plan.Variables()

	ans := core.EmptyAnswer()
	ans.Title = buildTitle(req.Place, planned)
	ans.KeyNumbers = keyNumbers(req.Result)
	ans.Answer = answerTemplate(req.Result)
	ans.Method = fmt.Sprintf(
		"Open-Meteo first. Planned variables: %s. Regions use adaptive grid → mean ± IQR. Historical uses a recent full year of hourly archive.",
		strings.Join(planned, ", "))
	ans.Citations = d.citations(req.TimeMode, req.Result)
	ans.Limitations = req.Result.Limitations
	if len(ans.Limitations) == 0 {
		ans.Limitations = []string{defaultLimitation}
	}
	ans.SuggestedFollowups = append([]string{}, defaultFollowups...)
	ans.Figures = d.figures(req.Result)
	ans.Normalize()

	if d.Metrics != nil {
		d.Metrics.AnswersTotal.WithLabelValues("deterministic").Inc()
	}
	if d.Logger != nil {
		d.Logger.Info("answer_written",
			zap.String("strategy", "deterministic"),
			zap.String("place", req.Place),
			zap.Int("key_numbers", len(ans.KeyNumbers)),
			zap.Int("figures", len(ans.Figures)),
		)
	}
	return ans
}

// buildTitle names up to three planned variables, with an ellipsis when
// more were requested.
func buildTitle(place string, planned []string) string {
	shown := planned
	marker := ""
	if len(shown) > 3 {
		shown = shown[:3]
		marker = "…"
	}
	return fmt.Sprintf("%s — %s%s", place, strings.Join(shown, ", "), marker)
}

// fmtNum renders a possibly-missing value with its unit, "NA" when nil.
func fmtNum(x *float64, unit string) string {
	if x == nil {
		return "NA"
	}
	if unit == "" {
		return fmt.Sprintf("%.1f", *x)
	}
	return fmt.Sprintf("%.1f %s", *x, unit)
}

// keyNumbers extracts headline numbers in priority order: climatology
// long-term mean and spread, else series first/mean, plus one
// aggregate's diurnal mean range. Capped at the schema limit.
func keyNumbers(ex core.ExecuteResult) []string {
	nums := make([]string, 0, core.MaxKeyNumbers)

	switch {
	case len(ex.Climatologies) > 0:
		c := ex.Climatologies[0]
		lt := c.Blocks.LongTerm
		if lt.Mean != nil {
			nums = append(nums, fmt.Sprintf("%s long-term mean: %s", c.Variable, fmtNum(lt.Mean, c.Unit)))
		}
		if lt.P10 != nil && lt.P90 != nil {
			nums = append(nums, fmt.Sprintf("%s p10–p90: %s–%s", c.Variable, fmtNum(lt.P10, c.Unit), fmtNum(lt.P90, c.Unit)))
		}
		if lo, hi, ok := cycleRange(c.Blocks.Seasonal); ok {
			nums = append(nums, fmt.Sprintf("%s seasonal mean range: %s–%s", c.Variable, fmtNum(&lo, c.Unit), fmtNum(&hi, c.Unit)))
		}
	case len(ex.Series) > 0:
		series := ex.Series
		if len(series) > 2 {
			series = series[:2]
		}
		for _, s := range series {
			vals := presentValues(s.Values)
			if len(vals) == 0 {
				continue
			}
			first := vals[0]
			m := meanOf(vals)
			nums = append(nums,
				fmt.Sprintf("%s first: %s", s.Variable, fmtNum(&first, s.Unit)),
				fmt.Sprintf("%s mean: %s", s.Variable, fmtNum(&m, s.Unit)))
		}
	}

	if len(ex.Aggregates) > 0 {
		a := ex.Aggregates[0]
		if lo, hi, ok := meanRange(a.Aggregation.Mean); ok {
			nums = append(nums, fmt.Sprintf("%s diurnal mean range: %s–%s", a.Variable, fmtNum(&lo, a.Unit), fmtNum(&hi, a.Unit)))
		}
	}

	if len(nums) > core.MaxKeyNumbers {
		nums = nums[:core.MaxKeyNumbers]
	}
	return nums
}

func answerTemplate(ex core.ExecuteResult) string {
	switch {
	case len(ex.Climatologies) > 0:
		return answerClimatology
	case len(ex.Aggregates) > 0:
		return answerAggregate
	case len(ex.Series) > 0:
		return answerSeries
	default:
		return answerNone
	}
}

// citations concatenates upstream citations with a query timestamp,
// falling back to the mode's documentation links when upstream supplied
// none.
func (d *Deterministic) citations(mode core.TimeMode, ex core.ExecuteResult) []string {
	out := append([]string{}, ex.Citations...)
	if len(out) == 0 {
		out = append(out, SourceLinks(mode)...)
	}
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	return append(out, "Query timestamp: "+now().UTC().Format(time.RFC3339))
}

// SourceLinks returns the default provider documentation citations for
// a time mode.
func SourceLinks(mode core.TimeMode) []string {
	const (
		docs     = "https://open-meteo.com/en/docs"
		histDocs = "https://open-meteo.com/en/docs/historical-weather-api"
	)
	switch mode {
	case core.ModeHistorical:
		return []string{"Open-Meteo Historical API: " + histDocs, "Open-Meteo: " + docs}
	case core.ModeForecast:
		return []string{"Open-Meteo Forecast API: " + docs}
	default:
		return []string{"Open-Meteo: " + docs}
	}
}

// figures renders per-series line charts and aggregate band charts
// through the renderer port. Rendering problems skip the figure, never
// the answer.
func (d *Deterministic) figures(ex core.ExecuteResult) []core.Figure {
	figs := make([]core.Figure, 0, core.MaxFigures)
	if d.Renderer == nil {
		return figs
	}

	for _, s := range ex.Series {
		if len(figs) == core.MaxFigures {
			return figs
		}
		pts := summary.Clean(s)
		if len(pts) == 0 {
			continue
		}
		vals := make([]float64, len(pts))
		for i, p := range pts {
			vals[i] = p.Value
		}
		caption := s.Variable + " time series"
		// Sparse signals plot their events only; an all-zero chart says
		// nothing.
		if summary.IsSparse(vals) {
			kept := vals[:0]
			for _, v := range vals {
				if v > 0 {
					kept = append(kept, v)
				}
			}
			vals = kept
			caption += " (non-zero events)"
		}
		if len(vals) == 0 {
			continue
		}
		img, err := d.Renderer.RenderSeries(s.Variable, s.Unit, vals)
		if err != nil || img == "" {
			if err != nil && d.Logger != nil {
				d.Logger.Warn("figure_skipped", zap.String("variable", s.Variable), zap.Error(err))
			}
			continue
		}
		figs = append(figs, core.Figure{Variable: s.Variable, Caption: caption, Image: img})
	}

	for _, a := range ex.Aggregates {
		if len(figs) == core.MaxFigures {
			return figs
		}
		mean := dropMissing(a.Aggregation.Mean)
		iqr := dropMissing(a.Aggregation.IQR)
		if len(mean) == 0 {
			continue
		}
		img, err := d.Renderer.RenderAggregate(a.Variable, a.Unit, mean, iqr)
		if err != nil || img == "" {
			if err != nil && d.Logger != nil {
				d.Logger.Warn("figure_skipped", zap.String("variable", a.Variable), zap.Error(err))
			}
			continue
		}
		figs = append(figs, core.Figure{Variable: a.Variable, Caption: a.Variable + " mean±IQR (region)", Image: img})
	}

	return figs
}

func presentValues(v []*float64) []float64 {
	out := make([]float64, 0, len(v))
	for _, x := range v {
		if x != nil {
			out = append(out, *x)
		}
	}
	return out
}

func dropMissing(v []*float64) []float64 {
	return presentValues(v)
}

func meanOf(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var s float64
	for _, x := range v {
		s += x
	}
	return s / float64(len(v))
}

func cycleRange(c core.CycleBlock) (lo, hi float64, ok bool) {
	return meanRange(c.Mean)
}

func meanRange(means []*float64) (lo, hi float64, ok bool) {
	vals := presentValues(means)
	if len(vals) == 0 {
		return 0, 0, false
	}
	lo, hi = vals[0], vals[0]
	for _, x := range vals[1:] {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	return lo, hi, true
}
