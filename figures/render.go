// Package figures renders answer charts as base64 PNG images.
package figures

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/fogleman/gg"
)

// Renderer draws simple line and band charts with fogleman/gg. It
// implements core.FigureRenderer.
type Renderer struct {
	Width  int
	Height int
}

// NewRenderer creates a renderer with the default chart size.
func NewRenderer() *Renderer {
	return &Renderer{Width: 760, Height: 300}
}

const chartMargin = 16.0

// RenderSeries draws a single polyline over the value index.
func (r *Renderer) RenderSeries(variable, unit string, values []float64) (string, error) {
	if len(values) == 0 {
		return "", nil
	}
	dc := r.newCanvas()
	r.drawLine(dc, values, 0.72, 0.23, 0.48)
	return encode(dc)
}

// RenderAggregate draws the mean polyline with a shaded ±IQR/2 band
// when the IQR sequence is parallel to the means.
func (r *Renderer) RenderAggregate(variable, unit string, mean, iqr []float64) (string, error) {
	if len(mean) == 0 {
		return "", nil
	}
	dc := r.newCanvas()

	if len(iqr) == len(mean) {
		lo := make([]float64, len(mean))
		hi := make([]float64, len(mean))
		for i := range mean {
			half := iqr[i] / 2
			lo[i] = mean[i] - half
			hi[i] = mean[i] + half
		}
		r.drawBand(dc, lo, hi)
	}
	r.drawLine(dc, mean, 0.72, 0.23, 0.48)
	return encode(dc)
}

func (r *Renderer) newCanvas() *gg.Context {
	dc := gg.NewContext(r.Width, r.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0.85, 0.85, 0.85)
	dc.SetLineWidth(1)
	dc.DrawLine(chartMargin, float64(r.Height)-chartMargin, float64(r.Width)-chartMargin, float64(r.Height)-chartMargin)
	dc.DrawLine(chartMargin, chartMargin, chartMargin, float64(r.Height)-chartMargin)
	dc.Stroke()
	return dc
}

// scale maps a value index and range onto canvas coordinates.
func (r *Renderer) scale(i, n int, v, lo, hi float64) (float64, float64) {
	w := float64(r.Width) - 2*chartMargin
	h := float64(r.Height) - 2*chartMargin
	x := chartMargin
	if n > 1 {
		x += w * float64(i) / float64(n-1)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	y := float64(r.Height) - chartMargin - h*(v-lo)/span
	return x, y
}

func (r *Renderer) drawLine(dc *gg.Context, values []float64, cr, cg, cb float64) {
	lo, hi := bounds(values)
	dc.SetRGB(cr, cg, cb)
	dc.SetLineWidth(1.6)
	for i, v := range values {
		x, y := r.scale(i, len(values), v, lo, hi)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.Stroke()
}

func (r *Renderer) drawBand(dc *gg.Context, lo, hi []float64) {
	vmin, _ := bounds(lo)
	_, vmax := bounds(hi)
	dc.SetRGBA(0.96, 0.64, 0.77, 0.35)
	for i, v := range hi {
		x, y := r.scale(i, len(hi), v, vmin, vmax)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	for i := len(lo) - 1; i >= 0; i-- {
		x, y := r.scale(i, len(lo), lo[i], vmin, vmax)
		dc.LineTo(x, y)
	}
	dc.ClosePath()
	dc.Fill()
}

func bounds(v []float64) (float64, float64) {
	if len(v) == 0 {
		return 0, 1
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

func encode(dc *gg.Context) (string, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// NopRenderer disables figure generation; every render returns "".
type NopRenderer struct{}

// RenderSeries implements core.FigureRenderer.
func (NopRenderer) RenderSeries(variable, unit string, values []float64) (string, error) {
	return "", nil
}

// RenderAggregate implements core.FigureRenderer.
func (NopRenderer) RenderAggregate(variable, unit string, mean, iqr []float64) (string, error) {
	return "", nil
}
