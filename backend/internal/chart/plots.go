package chart

import (
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Bar is a single-series bar chart.
type Bar struct {
	Title  string
	YLabel string
	Labels []string
	Values []float64
}

func (b Bar) Render() ([]byte, error) {
	if len(b.Labels) == 0 || len(b.Labels) != len(b.Values) || maxOf(b.Values) <= 0 {
		return nil, ErrNoData
	}
	p := newPlot(b.Title)
	p.Y.Label.Text = b.YLabel
	p.Y.Min = 0

	bars, err := plotter.NewBarChart(plotter.Values(b.Values), barWidth(len(b.Values), 1))
	if err != nil {
		return nil, err
	}
	bars.Color = plotutil.Color(0)
	bars.LineStyle.Width = 0
	p.Add(bars, plotter.NewGrid())
	p.NominalX(b.Labels...)
	return encode(p)
}

// Series is one named row of values in a multi-series chart.
type Series struct {
	Name   string
	Values []float64
}

// GroupedBar draws the series side by side for every category.
type GroupedBar struct {
	Title      string
	XLabel     string
	YLabel     string
	Categories []string
	Series     []Series
}

func (g GroupedBar) Render() ([]byte, error) {
	if err := checkSeries(g.Categories, g.Series); err != nil {
		return nil, err
	}
	p := newPlot(g.Title)
	p.X.Label.Text, p.Y.Label.Text = g.XLabel, g.YLabel
	p.Y.Min = 0
	p.Legend.Top = true

	w := barWidth(len(g.Categories), len(g.Series))
	for i, s := range g.Series {
		bars, err := plotter.NewBarChart(plotter.Values(s.Values), w)
		if err != nil {
			return nil, err
		}
		bars.Color = plotutil.Color(i)
		bars.LineStyle.Width = 0
		bars.Offset = w * vg.Length(2*i-len(g.Series)+1) / 2
		p.Add(bars)
		p.Legend.Add(s.Name, bars)
	}
	p.NominalX(g.Categories...)
	return encode(p)
}

// StackedBar stacks the series on top of each other for every category.
type StackedBar struct {
	Title      string
	XLabel     string
	YLabel     string
	Categories []string
	Series     []Series
}

func (s StackedBar) Render() ([]byte, error) {
	if err := checkSeries(s.Categories, s.Series); err != nil {
		return nil, err
	}
	p := newPlot(s.Title)
	p.X.Label.Text, p.Y.Label.Text = s.XLabel, s.YLabel
	p.Y.Min = 0
	p.Legend.Top = true

	var below *plotter.BarChart
	for i, series := range s.Series {
		bars, err := plotter.NewBarChart(plotter.Values(series.Values), barWidth(len(s.Categories), 1))
		if err != nil {
			return nil, err
		}
		bars.Color = plotutil.Color(i)
		bars.LineStyle.Width = 0
		if below != nil {
			bars.StackOn(below)
		}
		p.Add(bars)
		p.Legend.Add(series.Name, bars)
		below = bars
	}
	p.NominalX(s.Categories...)
	return encode(p)
}

// Line plots one series over numeric x positions, e.g. months 1..12.
type Line struct {
	Title  string
	XLabel string
	YLabel string
	Points []Point
}

func (l Line) Render() ([]byte, error) {
	if len(l.Points) == 0 {
		return nil, ErrNoData
	}
	p := newPlot(l.Title)
	p.X.Label.Text, p.Y.Label.Text = l.XLabel, l.YLabel
	p.Y.Min = 0

	line, points, err := plotter.NewLinePoints(xys(l.Points))
	if err != nil {
		return nil, err
	}
	line.Color = plotutil.Color(1)
	line.Width = vg.Points(2)
	points.Shape = draw.CircleGlyph{}
	points.Color = plotutil.Color(1)
	p.Add(plotter.NewGrid(), line, points)
	p.X.Tick.Marker = integerTicks{}
	return encode(p)
}

type Point struct {
	X, Y float64
}

// Scatter plots points, one colour per group. A single group draws no legend.
type Scatter struct {
	Title  string
	XLabel string
	YLabel string
	Groups []PointGroup
}

type PointGroup struct {
	Name   string
	Points []Point
}

func (s Scatter) Render() ([]byte, error) {
	total := 0
	for _, g := range s.Groups {
		total += len(g.Points)
	}
	if total == 0 {
		return nil, ErrNoData
	}
	p := newPlot(s.Title)
	p.X.Label.Text, p.Y.Label.Text = s.XLabel, s.YLabel
	p.Add(plotter.NewGrid())

	for i, g := range s.Groups {
		if len(g.Points) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(xys(g.Points))
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle.Color = plotutil.Color(i)
		sc.GlyphStyle.Radius = vg.Points(3)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
		if len(s.Groups) > 1 {
			p.Legend.Add(g.Name, sc)
		}
	}
	p.Legend.Top = true
	return encode(p)
}

// Heatmap shades Values[row][col] and prints the count in every cell.
type Heatmap struct {
	Title  string
	XLabel string
	YLabel string
	Rows   []string
	Cols   []string
	Values [][]float64
}

func (h Heatmap) Render() ([]byte, error) {
	if len(h.Rows) == 0 || len(h.Cols) == 0 || len(h.Values) != len(h.Rows) {
		return nil, ErrNoData
	}
	var max float64
	for _, row := range h.Values {
		if len(row) != len(h.Cols) {
			return nil, ErrNoData
		}
		max = math.Max(max, maxOf(row))
	}
	if max <= 0 {
		return nil, ErrNoData
	}

	p := newPlot(h.Title)
	p.X.Label.Text, p.Y.Label.Text = h.XLabel, h.YLabel

	grid := heatGrid{values: h.Values}
	hm := plotter.NewHeatMap(grid, palette.Heat(12, 1))
	hm.Min, hm.Max = 0, max
	p.Add(hm)

	var cells plotter.XYLabels
	for r, row := range h.Values {
		for c, v := range row {
			cells.XYs = append(cells.XYs, plotter.XY{X: float64(c), Y: float64(r)})
			cells.Labels = append(cells.Labels, strconv.FormatFloat(v, 'f', -1, 64))
		}
	}
	labels, err := plotter.NewLabels(cells)
	if err != nil {
		return nil, err
	}
	p.Add(labels)

	p.X.Tick.Marker = nominalTicks(h.Cols)
	p.Y.Tick.Marker = nominalTicks(h.Rows)
	return encode(p)
}

// heatGrid maps Values[row][col] onto the column/row grid gonum expects.
type heatGrid struct {
	values [][]float64
}

func (g heatGrid) Dims() (c, r int) { return len(g.values[0]), len(g.values) }
func (g heatGrid) Z(c, r int) float64 { return g.values[r][c] }
func (g heatGrid) X(c int) float64 { return float64(c) }
func (g heatGrid) Y(r int) float64 { return float64(r) }

// Edge links a left node to a right node. Weight sets the line width.
type Edge struct {
	From   string
	To     string
	Weight float64
}

// Network draws a two-column graph: sources on the left, targets on the right.
type Network struct {
	Title string
	Edges []Edge
}

func (n Network) Render() ([]byte, error) {
	var maxWeight float64
	for _, e := range n.Edges {
		maxWeight = math.Max(maxWeight, e.Weight)
	}
	if maxWeight <= 0 {
		return nil, ErrNoData
	}

	left, right := nodeColumn{}, nodeColumn{}
	for _, e := range n.Edges {
		if e.Weight > 0 {
			left.add(e.From)
			right.add(e.To)
		}
	}
	leftPos, rightPos := left.positions(0), right.positions(1)

	p := newPlot(n.Title)
	p.HideAxes()
	p.X.Min, p.X.Max = -0.4, 1.4
	p.Y.Min, p.Y.Max = -0.05, 1.05

	for _, e := range n.Edges {
		if e.Weight <= 0 {
			continue
		}
		line, err := plotter.NewLine(plotter.XYs{leftPos[e.From], rightPos[e.To]})
		if err != nil {
			return nil, err
		}
		line.Color = plotutil.Color(2)
		line.Width = vg.Points(1 + 5*e.Weight/maxWeight)
		p.Add(line)
	}
	for i, side := range []struct {
		names []string
		pos   map[string]plotter.XY
	}{{left.names, leftPos}, {right.names, rightPos}} {
		var nodes plotter.XYLabels
		for _, name := range side.names {
			nodes.XYs = append(nodes.XYs, side.pos[name])
			nodes.Labels = append(nodes.Labels, name)
		}
		sc, err := plotter.NewScatter(nodes.XYs)
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle.Color = plotutil.Color(i)
		sc.GlyphStyle.Radius = vg.Points(6)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		labels, err := plotter.NewLabels(nodes)
		if err != nil {
			return nil, err
		}
		p.Add(sc, labels)
	}
	return encode(p)
}

type nodeColumn struct {
	names []string
	seen  map[string]bool
}

func (c *nodeColumn) add(name string) {
	if c.seen == nil {
		c.seen = map[string]bool{}
	}
	if !c.seen[name] {
		c.seen[name] = true
		c.names = append(c.names, name)
	}
}

func (c nodeColumn) positions(x float64) map[string]plotter.XY {
	out := make(map[string]plotter.XY, len(c.names))
	for i, name := range c.names {
		y := 0.5
		if len(c.names) > 1 {
			y = 1 - float64(i)/float64(len(c.names)-1)
		}
		out[name] = plotter.XY{X: x, Y: y}
	}
	return out
}

func checkSeries(categories []string, series []Series) error {
	if len(categories) == 0 || len(series) == 0 {
		return ErrNoData
	}
	var max float64
	for _, s := range series {
		if len(s.Values) != len(categories) {
			return fmt.Errorf("series %q has %d values for %d categories", s.Name, len(s.Values), len(categories))
		}
		max = math.Max(max, maxOf(s.Values))
	}
	if max <= 0 {
		return ErrNoData
	}
	return nil
}

// barWidth shares the plot width between categories and the bars of a group.
func barWidth(categories, perGroup int) vg.Length {
	w := vg.Points(float64(Width-120) / float64(categories) * 0.7 / float64(perGroup))
	return vg.Length(math.Min(float64(w), 60))
}

func xys(points []Point) plotter.XYs {
	out := make(plotter.XYs, len(points))
	for i, pt := range points {
		out[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	return out
}

func nominalTicks(names []string) plot.ConstantTicks {
	ticks := make(plot.ConstantTicks, len(names))
	for i, name := range names {
		ticks[i] = plot.Tick{Value: float64(i), Label: name}
	}
	return ticks
}

// integerTicks labels whole numbers only.
type integerTicks struct{}

func (integerTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for v := math.Ceil(min); v <= max; v++ {
		ticks = append(ticks, plot.Tick{Value: v, Label: strconv.Itoa(int(v))})
	}
	return ticks
}
