package summary

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mitraarka27/Meteo-Chat/core"
)

func hourlyPoints(start time.Time, values []float64) []Point {
	pts := make([]Point, len(values))
	for i, v := range values {
		pts[i] = Point{Time: start.Add(time.Duration(i) * time.Hour), Value: v}
	}
	return pts
}

func TestCleanDropsMissingAndBadTimes(t *testing.T) {
	v1, v3 := 1.5, 3.5
	s := core.Series{
		Variable: "temperature_2m",
		Unit:     "°C",
		Times:    []string{"2024-01-01T00:00", "2024-01-01T01:00", "not-a-time", "2024-01-01T03:00"},
		Values:   []*float64{&v1, nil, &v1, &v3},
	}
	pts := Clean(s)
	require.Len(t, pts, 2)
	require.Equal(t, 1.5, pts[0].Value)
	require.Equal(t, 3.5, pts[1].Value)
}

func TestCleanHandlesLengthMismatch(t *testing.T) {
	v := 2.0
	s := core.Series{
		Times:  []string{"2024-01-01T00:00", "2024-01-01T01:00", "2024-01-01T02:00"},
		Values: []*float64{&v},
	}
	require.Len(t, Clean(s), 1)
}

func TestSummarizeSeriesEmpty(t *testing.T) {
	sum := SummarizeSeries("temperature_2m", "Tokyo", "temperature_2m", "°C", nil)
	require.Empty(t, sum.Lines)
}

func TestSummarizeSeriesDense(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	pts := hourlyPoints(start, []float64{10, 12, 14, 16, 18, 20, 22, 24})
	sum := SummarizeSeries("temperature_2m", "Tokyo", "temperature_2m", "°C", pts)

	require.Equal(t, "Temperature_2m over Tokyo", sum.Lines[0])
	require.Contains(t, sum.Lines[1], "During: 2024-06-01 00:00 -> 2024-06-01 07:00")

	require.Equal(t, 8, sum.Stats.Count)
	require.InDelta(t, 17.0, sum.Stats.Mean, 1e-9)
	require.Equal(t, 10.0, sum.Stats.Min)
	require.Equal(t, 24.0, sum.Stats.Max)
	require.Equal(t, TrendRising, sum.Stats.Trend)
	require.False(t, sum.Stats.Sparse)

	// Dense non-precipitation series: no sparse lines, no totals.
	for _, line := range sum.Lines {
		require.NotContains(t, line, "Non-zero fraction")
		require.NotContains(t, line, "Total accumulation")
	}
}

func TestSummarizeSeriesQuarters(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	pts := hourlyPoints(start, []float64{1, 1, 2, 2, 3, 3, 4, 4})
	sum := SummarizeSeries("temperature_2m", "Oslo", "temperature_2m", "°C", pts)

	require.Len(t, sum.Quarters, 4)
	require.Equal(t, "Q1 (first quarter)", sum.Quarters[0].Label)
	require.Equal(t, "Q4 (last quarter)", sum.Quarters[3].Label)
	require.InDelta(t, 1.0, sum.Quarters[0].Mean, 1e-9)
	require.InDelta(t, 4.0, sum.Quarters[3].Mean, 1e-9)
}

func TestSummarizeSeriesSparsePrecipitation(t *testing.T) {
	// 100 samples, 3 positive: sparse, two separate events.
	values := make([]float64, 100)
	values[10] = 2.0
	values[11] = 4.0
	values[50] = 6.0
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	sum := SummarizeSeries("precipitation", "Bergen", "precipitation", "mm", hourlyPoints(start, values))

	require.True(t, sum.Stats.Sparse)
	require.Equal(t, 2, sum.Stats.Events)
	require.InDelta(t, 4.0, sum.Stats.EventMean, 1e-9)
	require.InDelta(t, 12.0, sum.Stats.Total, 1e-9)

	require.Contains(t, sum.Lines[2], "Non-zero fraction: 3.0%")
	require.Contains(t, sum.Lines[2], "(2 events)")

	var sawEventMean, sawAccum, sawOverallTotal bool
	for _, line := range sum.Lines {
		if strings.Contains(line, "Mean event intensity: 4.00 mm") {
			sawEventMean = true
		}
		if strings.Contains(line, "Total accumulation: 12.00 mm") {
			sawAccum = true
		}
		if strings.Contains(line, "Overall total: 12.00 mm") {
			sawOverallTotal = true
		}
	}
	require.True(t, sawEventMean)
	require.True(t, sawAccum)
	require.True(t, sawOverallTotal)
}

func TestSummarizeSeriesNonZeroIQR(t *testing.T) {
	// IQR collapses to zero but non-zero samples exist, so the non-zero
	// IQR is reported for the precipitation-like unit.
	values := make([]float64, 100)
	values[5] = 1.0
	values[60] = 3.0
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	sum := SummarizeSeries("rain", "Bergen", "rain", "mm", hourlyPoints(start, values))

	require.True(t, sum.Stats.HasNZIQR)
	require.InDelta(t, 1.5, sum.Stats.NonZeroQ25, 1e-9)
	require.InDelta(t, 2.5, sum.Stats.NonZeroQ75, 1e-9)

	var found bool
	for _, line := range sum.Lines {
		if strings.Contains(line, "non-zero IQR 1.50-2.50 mm") {
			found = true
		}
	}
	require.True(t, found)
}

func TestSummarizeSeriesNoNonZeroIQRForDenseUnit(t *testing.T) {
	// Zero-collapsed IQR on a non-accumulating unit stays plain.
	values := make([]float64, 100)
	values[5] = 1.0
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	sum := SummarizeSeries("cloud_cover", "Lima", "cloud_cover", "%", hourlyPoints(start, values))
	require.False(t, sum.Stats.HasNZIQR)
}

func TestTrend(t *testing.T) {
	require.Equal(t, TrendRising, trend([]float64{1, 5}))
	require.Equal(t, TrendFalling, trend([]float64{5, 1}))
	require.Equal(t, TrendFlat, trend([]float64{2, 2}))
	require.Equal(t, TrendFlat, trend([]float64{2}))
	require.Equal(t, TrendFlat, trend(nil))
}

func TestCountEvents(t *testing.T) {
	require.Equal(t, 0, countEvents([]float64{0, 0, 0}))
	require.Equal(t, 1, countEvents([]float64{0, 1, 2, 0}))
	require.Equal(t, 2, countEvents([]float64{1, 0, 1}))
	// Positive first sample counts as an event.
	require.Equal(t, 1, countEvents([]float64{3, 4, 5}))
}

func TestCVZeroWhenMeanZero(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sum := SummarizeSeries("temperature_2m", "Tromso", "temperature_2m", "°C",
		hourlyPoints(start, []float64{-1, 1, -1, 1}))
	require.Equal(t, 0.0, sum.Stats.CV)
}

