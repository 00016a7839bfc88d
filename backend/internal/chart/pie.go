package chart

import (
	"bytes"
	"fmt"
	"strconv"

	gochart "github.com/wcharczuk/go-chart/v2"
)

// Pie draws the share of every label. Zero values are left out.
type Pie struct {
	Title  string
	Labels []string
	Values []float64
}

func (p Pie) Render() ([]byte, error) {
	if len(p.Labels) != len(p.Values) {
		return nil, ErrNoData
	}
	var total float64
	slices := make([]gochart.Value, 0, len(p.Values))
	for i, v := range p.Values {
		if v <= 0 {
			continue
		}
		total += v
		slices = append(slices, gochart.Value{Label: p.Labels[i], Value: v})
	}
	if total == 0 {
		return nil, ErrNoData
	}
	for i := range slices {
		slices[i].Label = fmt.Sprintf("%s %s%%", slices[i].Label,
			strconv.FormatFloat(100*slices[i].Value/total, 'f', 1, 64))
	}

	fontMu.RLock()
	pie := gochart.PieChart{
		Title:  p.Title,
		Width:  Width,
		Height: Height,
		Font:   pieFont,
		Values: slices,
	}
	fontMu.RUnlock()

	var buf bytes.Buffer
	if err := pie.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render pie: %w", err)
	}
	return buf.Bytes(), nil
}
