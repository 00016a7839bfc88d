// Package chart renders the dashboard charts as PNG images.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/opentype"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("chart: no data")

const (
	Width  = 800
	Height = 500

	customTypeface = "Dashboard"
)

var (
	fontMu  sync.RWMutex
	pieFont *truetype.Font
)

// UseFont makes ttf the face of every chart, e.g. a font with Hangul glyphs.
// Call it before any chart is rendered.
func UseFont(ttf []byte) error {
	face, err := opentype.Parse(ttf)
	if err != nil {
		return fmt.Errorf("parse font for plots: %w", err)
	}
	tt, err := truetype.Parse(ttf)
	if err != nil {
		return fmt.Errorf("parse font for pies: %w", err)
	}

	fontMu.Lock()
	defer fontMu.Unlock()
	custom := font.Font{Typeface: customTypeface}
	font.DefaultCache.Add(font.Collection{{Font: custom, Face: face}})
	plot.DefaultFont = custom
	pieFont = tt
	return nil
}

func newPlot(title string) *plot.Plot {
	fontMu.RLock()
	defer fontMu.RUnlock()
	p := plot.New()
	p.Title.Text = title
	p.Title.Padding = vg.Points(8)
	return p
}

func encode(p *plot.Plot) ([]byte, error) {
	c := vgimg.New(vg.Points(Width), vg.Points(Height))
	p.Draw(draw.New(c))

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func maxOf(values []float64) float64 {
	var m float64
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}
