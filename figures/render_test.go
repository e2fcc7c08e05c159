package figures

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func decodePNG(t *testing.T, img string) []byte {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(img)
	require.NoError(t, err)
	return raw
}

func TestRenderSeries(t *testing.T) {
	r := NewRenderer()
	img, err := r.RenderSeries("temperature_2m", "°C", []float64{18, 20, 22, 19})
	require.NoError(t, err)
	require.NotEmpty(t, img)
	require.Equal(t, pngMagic, decodePNG(t, img)[:4])
}

func TestRenderSeriesEmpty(t *testing.T) {
	r := NewRenderer()
	img, err := r.RenderSeries("temperature_2m", "°C", nil)
	require.NoError(t, err)
	require.Empty(t, img)
}

func TestRenderSeriesConstantValues(t *testing.T) {
	// A flat series has zero value span; rendering must not divide by it.
	r := NewRenderer()
	img, err := r.RenderSeries("pressure_msl", "hPa", []float64{1013, 1013, 1013})
	require.NoError(t, err)
	require.NotEmpty(t, img)
}

func TestRenderAggregate(t *testing.T) {
	r := NewRenderer()
	img, err := r.RenderAggregate("wind_speed_10m", "km/h", []float64{5, 8, 12}, []float64{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, pngMagic, decodePNG(t, img)[:4])
}

func TestRenderAggregateMismatchedIQR(t *testing.T) {
	// IQR of a different length is ignored; the mean line still renders.
	r := NewRenderer()
	img, err := r.RenderAggregate("wind_speed_10m", "km/h", []float64{5, 8, 12}, []float64{1})
	require.NoError(t, err)
	require.NotEmpty(t, img)
}

func TestNopRenderer(t *testing.T) {
	var n NopRenderer
	img, err := n.RenderSeries("x", "", []float64{1})
	require.NoError(t, err)
	require.Empty(t, img)
	img, err = n.RenderAggregate("x", "", []float64{1}, nil)
	require.NoError(t, err)
	require.Empty(t, img)
}
