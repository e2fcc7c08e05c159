// Package summary computes descriptive statistics and narrative lines
// for point time series and grouped distributions.
package summary

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mitraarka27/Meteo-Chat/core"
)

// sparseThreshold is the maximum fraction of strictly-positive samples
// for a series to count as sparse (rain/snow-like).
const sparseThreshold = 0.05

// Point is one cleaned sample of a series.
type Point struct {
	Time  time.Time
	Value float64
}

// timeLayouts are the timestamp shapes the planning service emits.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Clean pairs the times and values of a series and drops missing values
// and unparseable timestamps. Missing values never count as zero.
func Clean(s core.Series) []Point {
	n := len(s.Times)
	if len(s.Values) < n {
		n = len(s.Values)
	}
	pts := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		if s.Values[i] == nil {
			continue
		}
		t, ok := parseTime(s.Times[i])
		if !ok {
			continue
		}
		pts = append(pts, Point{Time: t, Value: *s.Values[i]})
	}
	return pts
}

func values(pts []Point) []float64 {
	out := make([]float64, len(pts))
	for i, p := range pts {
		out[i] = p.Value
	}
	return out
}

func sum(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return sum(v) / float64(len(v))
}

// std is the sample standard deviation (n-1 denominator).
func std(v []float64) float64 {
	if len(v) < 2 {
		return 0
	}
	m := mean(v)
	var ss float64
	for _, x := range v {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(v)-1))
}

// quantile computes the q-th quantile with linear interpolation between
// closest ranks.
func quantile(v []float64, q float64) float64 {
	if len(v) == 0 {
		return 0
	}
	sorted := append([]float64(nil), v...)
	sort.Float64s(sorted)
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func minMax(v []float64) (float64, float64) {
	if len(v) == 0 {
		return 0, 0
	}
	lo, hi := v[0], v[0]
	for _, x := range v[1:] {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	return lo, hi
}

func positives(v []float64) []float64 {
	out := make([]float64, 0, len(v))
	for _, x := range v {
		if x > 0 {
			out = append(out, x)
		}
	}
	return out
}

// IsSparse reports whether at most sparseThreshold of the samples are
// strictly positive. Empty input is not sparse.
func IsSparse(v []float64) bool {
	if len(v) == 0 {
		return false
	}
	return float64(len(positives(v)))/float64(len(v)) <= sparseThreshold
}

// IsAccumulating classifies precipitation-like quantities where sums
// and per-quarter totals are meaningful. The rule is the unit prefix
// "mm" or a variable name containing "precip"; keep it here so the
// truth table stays testable in one place.
func IsAccumulating(unit, variable string) bool {
	u := strings.ToLower(strings.TrimSpace(unit))
	return strings.HasPrefix(u, "mm") || strings.Contains(strings.ToLower(variable), "precip")
}

// formatDuration renders a span as months/days/hours prose.
func formatDuration(d time.Duration) string {
	totalHours := int(d.Hours())
	months := totalHours / (24 * 30)
	rem := totalHours % (24 * 30)
	days := rem / 24
	hours := rem % 24

	var parts []string
	if months > 0 {
		parts = append(parts, plural(months, "month"))
	}
	if days > 0 {
		parts = append(parts, plural(days, "day"))
	}
	if hours > 0 || len(parts) == 0 {
		parts = append(parts, plural(hours, "hour"))
	}
	switch len(parts) {
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " and " + parts[1]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}
