package summary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestQuantileInterpolation(t *testing.T) {
	v := []float64{1, 2, 3, 4}
	require.InDelta(t, 1.75, quantile(v, 0.25), 1e-9)
	require.InDelta(t, 2.5, quantile(v, 0.5), 1e-9)
	require.InDelta(t, 3.25, quantile(v, 0.75), 1e-9)
	require.Equal(t, 1.0, quantile(v, 0))
	require.Equal(t, 4.0, quantile(v, 1))
	require.Equal(t, 0.0, quantile(nil, 0.5))
}

func TestStdSampleDenominator(t *testing.T) {
	require.InDelta(t, 1.0, std([]float64{1, 2, 3}), 1e-9)
	require.Equal(t, 0.0, std([]float64{5}))
}

func TestIsSparse(t *testing.T) {
	dense := []float64{1, 2, 3, 0}
	require.False(t, IsSparse(dense))

	sparse := make([]float64, 100)
	sparse[0] = 1 // exactly 1% positive
	require.True(t, IsSparse(sparse))

	boundary := make([]float64, 100)
	for i := 0; i < 5; i++ {
		boundary[i] = 1 // exactly at the 5% threshold
	}
	require.True(t, IsSparse(boundary))

	require.False(t, IsSparse(nil))
}

func TestIsAccumulating(t *testing.T) {
	cases := []struct {
		unit, variable string
		want           bool
	}{
		{"mm", "rain", true},
		{"mm/h", "rain", true},
		{"MM", "rain", true},
		{"cm", "snow_depth", false},
		{"°C", "precipitation_probability", true},
		{"%", "cloud_cover", false},
		{"inch", "Precipitation", true},
		{"", "temperature_2m", false},
	}
	for _, c := range cases {
		require.Equal(t, c.want, IsAccumulating(c.unit, c.variable), "unit=%q variable=%q", c.unit, c.variable)
	}
}

func TestFormatDuration(t *testing.T) {
	require.Equal(t, "1 hour", formatDuration(time.Hour))
	require.Equal(t, "5 hours", formatDuration(5*time.Hour))
	require.Equal(t, "2 days", formatDuration(48*time.Hour))
	require.Equal(t, "1 day and 3 hours", formatDuration(27*time.Hour))
	require.Equal(t, "1 month", formatDuration(30*24*time.Hour))
	require.Equal(t, "0 hours", formatDuration(0))
}

func TestParseTimeLayouts(t *testing.T) {
	for _, s := range []string{
		"2024-06-01T12:00:00Z",
		"2024-06-01T12:00:00",
		"2024-06-01T12:00",
		"2024-06-01",
	} {
		_, ok := parseTime(s)
		require.True(t, ok, s)
	}
	_, ok := parseTime("June 1st")
	require.False(t, ok)
}
