package writer

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitraarka27/Meteo-Chat/core"
	"github.com/mitraarka27/Meteo-Chat/summary"
)

// SystemPrompt is the guardrail given to every generative request and
// recorded in training datasets.
const SystemPrompt = "You are the Weather MCP Writer. Never invent numbers. " +
	"Only use provided MCP JSON to produce a response matching the answer schema. " +
	"Include citations and limitations; keep language concise."

// SynthesizeQuestion derives the one-line user question a query form
// implies, for prompts and dataset records.
func SynthesizeQuestion(place string, mode core.TimeMode, variables []string, forecastDays, historicalYears int) string {
	pretty := "weather"
	if len(variables) > 0 {
		pretty = strings.Join(variables, ", ")
	}
	switch mode {
	case core.ModeForecast:
		return fmt.Sprintf("%d-day %s outlook for %s.", forecastDays, pretty, place)
	case core.ModeHistorical:
		return fmt.Sprintf("Historical %s summary for %s over ~%d year(s).", pretty, place, historicalYears)
	default:
		return fmt.Sprintf("Current %s conditions in %s.", pretty, place)
	}
}

// BuildContext renders the compact dataset context embedded in
// generative prompts: place, window, variable list, per-variable stats
// lines, and a few recent samples for grounding.
func BuildContext(place string, plan core.Plan, ex core.ExecuteResult) string {
	lines := []string{"Place: " + place}

	if w := resultWindow(plan, ex); w != nil {
		lines = append(lines, fmt.Sprintf("Window: %s -> %s", w.Start, w.End))
	}

	series := ex.Series
	if len(series) > 12 {
		series = series[:12]
	}
	names := make([]string, 0, len(series))
	for _, s := range series {
		if s.Variable != "" {
			names = append(names, s.Variable)
		}
	}
	if len(names) > 0 {
		lines = append(lines, "Variables: "+strings.Join(names, ", "))
	}

	for _, s := range series {
		if ln := compactStatsLine(s); ln != "" {
			lines = append(lines, ln)
		}
	}

	recent := series
	if len(recent) > 3 {
		recent = recent[:3]
	}
	for _, s := range recent {
		pts := summary.Clean(s)
		if len(pts) < 3 {
			continue
		}
		tail := pts[len(pts)-3:]
		samples := make([]string, len(tail))
		for i, p := range tail {
			samples[i] = fmt.Sprintf("%.2f%s@%s", p.Value, s.Unit, p.Time.Format("01-02 15:04"))
		}
		lines = append(lines, fmt.Sprintf("- recent %s samples: %s", s.Variable, strings.Join(samples, ", ")))
	}

	return strings.Join(lines, "\n")
}

// compactStatsLine renders one variable as "- var: mean=..., std=...,
// range=...". Series with a low but non-zero positive fraction get a
// sparse hint so the model does not over-read the mean.
func compactStatsLine(s core.Series) string {
	pts := summary.Clean(s)
	if len(pts) == 0 {
		return ""
	}
	sum := summary.SummarizeSeries(s.Variable, "", s.Variable, s.Unit, pts)
	st := sum.Stats
	line := fmt.Sprintf("- %s: mean=%.2f%s, std=%.2f%s, range=%.2f-%.2f%s",
		s.Variable, st.Mean, s.Unit, st.Std, s.Unit, st.Min, st.Max, s.Unit)
	if st.NonZeroFraction > 0 && st.NonZeroFraction <= 20 {
		line += fmt.Sprintf(", nonzero%%=%.1f", st.NonZeroFraction)
	}
	return line
}

// BuildPrompt composes the generative prompt around the dataset context.
func BuildPrompt(context, question string) string {
	return "You are Meteo-Chat. Use ONLY the dataset below. " +
		"Answer in 2-4 conversational sentences with clear numbers + units. " +
		"Do not include any preamble, system text, or the words USER/ASSISTANT. " +
		"Do not repeat the context. No hashtags. No disclaimers.\n\n" +
		context + "\n\n" +
		"Question: " + question + "\n" +
		"Answer only:"
}

// WindowLine renders the "Data window" caption for a result, or ""
// when neither the result nor the plan carries a window.
func WindowLine(plan core.Plan, ex core.ExecuteResult) string {
	w := resultWindow(plan, ex)
	if w == nil {
		return ""
	}
	yearsText := "-"
	start, errS := time.Parse("2006-01-02", w.Start[:min(10, len(w.Start))])
	end, errE := time.Parse("2006-01-02", w.End[:min(10, len(w.End))])
	if errS == nil && errE == nil {
		years := end.Sub(start).Hours() / 24 / 365.25
		plural := "s"
		if years == 1 {
			plural = ""
		}
		yearsText = fmt.Sprintf("~%.1f year%s", years, plural)
	}
	return fmt.Sprintf("Data window: %s -> %s (%s)", w.Start, w.End, yearsText)
}

func resultWindow(plan core.Plan, ex core.ExecuteResult) *core.Window {
	if ex.Window != nil {
		return ex.Window
	}
	if plan.Meta != nil && plan.Meta.HistoricalWindow != nil {
		return plan.Meta.HistoricalWindow
	}
	return nil
}
