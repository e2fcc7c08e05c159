package summary

import (
	"fmt"
	"strings"
)

// Trend directions for a series (first vs. last value).
const (
	TrendRising  = "rising"
	TrendFalling = "falling"
	TrendFlat    = "flat"
)

// SeriesStats holds the scalar statistics extracted from one series.
type SeriesStats struct {
	Count  int
	Mean   float64
	Std    float64
	Median float64
	Min    float64
	Max    float64
	Q25    float64
	Q75    float64
	CV     float64 // std/mean*100, 0 when mean is exactly zero
	Trend  string

	Sparse          bool
	NonZeroFraction float64 // percent of strictly-positive samples
	Events          int     // zero->positive transitions
	EventMean       float64 // mean intensity over non-zero samples
	Total           float64 // accumulation over non-zero samples

	// Non-zero-only IQR, reported when the zero-inclusive IQR collapses
	// to zero for a precipitation-like quantity.
	NonZeroQ25 float64
	NonZeroQ75 float64
	HasNZIQR   bool
}

// QuarterStat summarizes one positional quarter of a series.
type QuarterStat struct {
	Label string
	Mean  float64
	Min   float64
	Max   float64
	Sum   float64
}

// SeriesSummary is the narrative plus extracted statistics for a series.
type SeriesSummary struct {
	Lines    []string
	Stats    SeriesStats
	Quarters []QuarterStat
}

var quarterLabels = [4]string{"Q1 (first quarter)", "Q2", "Q3", "Q4 (last quarter)"}

// SummarizeSeries produces narrative lines and scalar statistics for a
// cleaned point series. Sparse series additionally report event counts,
// mean event intensity and total accumulation over non-zero samples.
// Empty input yields an empty summary, never an error.
func SummarizeSeries(label, place, variable, unit string, pts []Point) SeriesSummary {
	if len(pts) == 0 {
		return SeriesSummary{Lines: []string{}}
	}

	vals := values(pts)
	n := len(vals)
	start, end := pts[0].Time, pts[n-1].Time
	durationText := formatDuration(end.Sub(start))
	accumulating := IsAccumulating(unit, variable)

	lines := []string{
		fmt.Sprintf("%s over %s", capitalize(label), place),
		fmt.Sprintf("During: %s -> %s", start.Format("2006-01-02 15:04"), end.Format("2006-01-02 15:04")),
	}

	st := SeriesStats{Count: n}
	nz := positives(vals)
	st.Sparse = IsSparse(vals)
	st.NonZeroFraction = float64(len(nz)) / float64(n) * 100.0
	st.Events = countEvents(vals)

	if st.Sparse {
		lines = append(lines, fmt.Sprintf(" Non-zero fraction: %.1f%% of timesteps (%d events)", st.NonZeroFraction, st.Events))
		if len(nz) > 0 {
			st.EventMean = mean(nz)
			st.Total = sum(nz)
			lines = append(lines,
				fmt.Sprintf(" Mean event intensity: %.2f %s", st.EventMean, unit),
				fmt.Sprintf(" Total accumulation: %.2f %s over %s", st.Total, unit, durationText))
		}
	}

	st.Min, st.Max = minMax(vals)
	st.Mean = mean(vals)
	st.Std = std(vals)
	st.Median = quantile(vals, 0.5)
	st.Q25 = quantile(vals, 0.25)
	st.Q75 = quantile(vals, 0.75)
	if st.Mean != 0 {
		st.CV = st.Std / st.Mean * 100.0
	}
	st.Trend = trend(vals)

	iqrStr := fmt.Sprintf("IQR %.2f-%.2f %s", st.Q25, st.Q75, unit)
	if st.Q25 == 0 && st.Q75 == 0 && accumulating && len(nz) > 0 {
		q25, q75 := quantile(nz, 0.25), quantile(nz, 0.75)
		if q75 > 0 {
			st.NonZeroQ25, st.NonZeroQ75, st.HasNZIQR = q25, q75, true
			iqrStr += fmt.Sprintf(" (non-zero IQR %.2f-%.2f %s)", q25, q75, unit)
		}
	}

	lines = append(lines, fmt.Sprintf(
		" Overall: mean %.2f +/- %.2f %s, range %.2f-%.2f %s, median %.2f %s, %s, variability %.0f%%, trend %s",
		st.Mean, st.Std, unit, st.Min, st.Max, unit, st.Median, unit, iqrStr, st.CV, st.Trend))

	quarters := quarterStats(vals)
	for _, q := range quarters {
		line := fmt.Sprintf("%s: mean %.2f %s, min %.2f %s, max %.2f %s", q.Label, q.Mean, unit, q.Min, unit, q.Max, unit)
		if accumulating {
			line += fmt.Sprintf(", total %.2f %s", q.Sum, unit)
		}
		lines = append(lines, " "+line)
	}

	if accumulating {
		lines = append(lines, fmt.Sprintf(" Overall total: %.2f %s over %s", sum(nz), unit, durationText))
	}

	return SeriesSummary{Lines: lines, Stats: st, Quarters: quarters}
}

// trend compares first vs. last value; flat with fewer than two points.
func trend(v []float64) string {
	if len(v) < 2 {
		return TrendFlat
	}
	switch {
	case v[len(v)-1] > v[0]:
		return TrendRising
	case v[len(v)-1] < v[0]:
		return TrendFalling
	default:
		return TrendFlat
	}
}

// countEvents counts zero->positive transitions; a positive first
// sample counts as an event.
func countEvents(v []float64) int {
	events := 0
	prev := 0.0
	for _, x := range v {
		if x > 0 && prev <= 0 {
			events++
		}
		prev = x
	}
	return events
}

// quarterStats partitions the values into four contiguous equal-length
// quarters by position and summarizes each non-empty one.
func quarterStats(v []float64) []QuarterStat {
	n := len(v)
	out := make([]QuarterStat, 0, 4)
	for i := 0; i < 4; i++ {
		lo := n * i / 4
		hi := n * (i + 1) / 4
		if lo >= hi {
			continue
		}
		seg := v[lo:hi]
		segMin, segMax := minMax(seg)
		out = append(out, QuarterStat{
			Label: quarterLabels[i],
			Mean:  mean(seg),
			Min:   segMin,
			Max:   segMax,
			Sum:   sum(seg),
		})
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
