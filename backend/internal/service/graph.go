package service

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/teamdash/teamdash/backend/internal/chart"
	"github.com/teamdash/teamdash/shared/domain"
	"github.com/teamdash/teamdash/shared/errors"
	"github.com/teamdash/teamdash/shared/middleware/metrics"
)

type GraphService interface {
	Render(kind domain.RecordKind, graphType string, opts GraphOptions) ([]byte, error)
	ThreatTypes() ([]string, error)
	TopThreats(n int) ([]string, error)
}

// GraphOptions narrows a chart. ThreatType selects one threat for threat_m
// and manpower; AllThreats (or empty, for manpower) keeps every threat.
type GraphOptions struct {
	ThreatType string
}

const AllThreats = "all"

type renderer interface {
	Render() ([]byte, error)
}

type Graph struct {
	storage DashboardStorage
}

func NewGraph(storage DashboardStorage) *Graph {
	return &Graph{storage: storage}
}

var errUnknownGraph = errors.NotFound("unknown graph type or no data")

func (g *Graph) Render(kind domain.RecordKind, graphType string, opts GraphOptions) ([]byte, error) {
	r, err := g.build(kind, graphType, opts)
	if err != nil {
		return nil, err
	}
	png, err := r.Render()
	if stderrors.Is(err, chart.ErrNoData) {
		return nil, errUnknownGraph
	}
	if err != nil {
		return nil, fmt.Errorf("render %s/%s: %w", kind, graphType, err)
	}
	metrics.ChartsRendered.WithLabelValues(kind.String(), graphType).Inc()
	return png, nil
}

// ThreatTypes lists every threat type seen in incidents, sorted by name.
func (g *Graph) ThreatTypes() ([]string, error) {
	incidents, err := g.storage.Incidents()
	if err != nil {
		return nil, err
	}
	counts := newCounter()
	for _, i := range incidents {
		if i.ThreatType != "" {
			counts.add(i.ThreatType)
		}
	}
	labels, _ := counts.sorted()
	return labels, nil
}

// TopThreats returns the n most frequent threat types, most frequent first.
func (g *Graph) TopThreats(n int) ([]string, error) {
	incidents, err := g.storage.Incidents()
	if err != nil {
		return nil, err
	}
	counts := newCounter()
	for _, i := range incidents {
		if i.ThreatType != "" {
			counts.add(i.ThreatType)
		}
	}
	return counts.top(n), nil
}

func (g *Graph) build(kind domain.RecordKind, graphType string, opts GraphOptions) (renderer, error) {
	switch kind {
	case domain.KindBiz:
		companies, err := g.storage.Companies()
		if err != nil {
			return nil, err
		}
		return companyGraph(companies, graphType)
	case domain.KindDev:
		projects, err := g.storage.DevProjects()
		if err != nil {
			return nil, err
		}
		return devGraph(projects, graphType)
	case domain.KindSecurity:
		incidents, err := g.storage.Incidents()
		if err != nil {
			return nil, err
		}
		return incidentGraph(incidents, graphType, opts)
	}
	return nil, errUnknownGraph
}

func companyGraph(companies []domain.Company, graphType string) (renderer, error) {
	switch graphType {
	case "plan_bar":
		counts := newCounter()
		for _, c := range companies {
			counts.add(orUnassigned(string(c.Plan)))
		}
		labels, values := counts.sorted()
		return chart.Bar{Title: "Contracts by plan", Labels: labels, Values: values}, nil
	case "industry_plan_heatmap":
		m := newMatrix()
		for _, c := range companies {
			m.add(orUnassigned(string(c.Industry)), orUnassigned(string(c.Plan)))
		}
		return m.heatmap("Plans by industry"), nil
	case "status_pie":
		counts := newCounter()
		for _, c := range companies {
			counts.add(orUnassigned(string(c.Status)))
		}
		labels, values := counts.sorted()
		return chart.Pie{Title: "Contract status", Labels: labels, Values: values}, nil
	case "contract_scatter":
		var points []chart.Point
		for _, c := range companies {
			start, ok1 := c.ContractStart.Time()
			end, ok2 := c.ContractEnd.Time()
			if !ok1 || !ok2 {
				continue
			}
			points = append(points, chart.Point{X: float64(start.Month()), Y: end.Sub(start).Hours() / 24})
		}
		return chart.Scatter{Title: "Contract length by start month", XLabel: "start month", YLabel: "days", Groups: single(points)}, nil
	}
	return nil, errUnknownGraph
}

func devGraph(projects []domain.DevProject, graphType string) (renderer, error) {
	switch graphType {
	case "os_bar":
		counts := newCounter()
		for _, p := range projects {
			for _, os := range osBuckets(p.OS) {
				counts.add(os)
			}
		}
		labels, values := counts.sorted()
		return chart.Bar{Title: "Projects by OS", Labels: labels, Values: values}, nil
	case "os_maintenance_heatmap":
		m := newMatrix()
		for _, p := range projects {
			state := unassigned
			if p.Maintenance != nil && *p.Maintenance != "" {
				state = *p.Maintenance
			}
			for _, os := range osBuckets(p.OS) {
				m.add(os, state)
			}
		}
		return m.heatmap("Maintenance state by OS"), nil
	case "status_pie":
		counts := newCounter()
		for _, p := range projects {
			counts.add(orUnassigned(string(p.Status)))
		}
		labels, values := counts.sorted()
		return chart.Pie{Title: "Project status", Labels: labels, Values: values}, nil
	case "duration_scatter":
		points := make([]chart.Point, 0, len(projects))
		for _, p := range projects {
			points = append(points, chart.Point{X: float64(p.DevDays), Y: float64(p.HandlerCount)})
		}
		return chart.Scatter{Title: "Duration vs headcount", XLabel: "dev days", YLabel: "handlers", Groups: single(points)}, nil
	}
	return nil, errUnknownGraph
}

func incidentGraph(incidents []domain.Incident, graphType string, opts GraphOptions) (renderer, error) {
	switch graphType {
	case "threat_bar":
		counts := newCounter()
		for _, i := range incidents {
			counts.add(orUnassigned(i.ThreatType))
		}
		labels, values := counts.sorted()
		return chart.Bar{Title: "Incidents by threat type", Labels: labels, Values: values}, nil
	case "risk_pie":
		counts := newCounter()
		for _, i := range incidents {
			counts.add(orUnassigned(string(i.RiskLevel)))
		}
		labels, values := counts.sorted()
		return chart.Pie{Title: "Risk levels", Labels: labels, Values: values}, nil
	case "threat_y":
		m := newMatrix()
		for _, i := range incidents {
			if day, ok := i.IncidentDate.Time(); ok {
				m.add(strconv.Itoa(day.Year()), orUnassigned(i.ThreatType))
			}
		}
		years, series := m.series()
		return chart.GroupedBar{Title: "Incidents per year", XLabel: "year", YLabel: "incidents", Categories: years, Series: series}, nil
	case "threat_m":
		if opts.ThreatType == "" || opts.ThreatType == AllThreats {
			return nil, errUnknownGraph
		}
		var months [12]float64
		var total float64
		for _, i := range incidents {
			day, ok := i.IncidentDate.Time()
			if ok && i.ThreatType == opts.ThreatType {
				months[day.Month()-1]++
				total++
			}
		}
		if total == 0 {
			return nil, errUnknownGraph
		}
		points := make([]chart.Point, len(months))
		for m, n := range months {
			points[m] = chart.Point{X: float64(m + 1), Y: n}
		}
		return chart.Line{Title: opts.ThreatType + " per month", XLabel: "month", YLabel: "incidents", Points: points}, nil
	case "processed_threats":
		counts := newCounter()
		for _, i := range incidents {
			if i.Status == domain.IncidentInProgress || i.Status == domain.IncidentResolved {
				counts.add(orUnassigned(i.ThreatType))
			}
		}
		labels, values := counts.sorted()
		return chart.Bar{Title: "Threat types of handled incidents", YLabel: "incidents", Labels: labels, Values: values}, nil
	case "correl_risk_status":
		m := newMatrix()
		for _, i := range incidents {
			m.add(orUnassigned(string(i.RiskLevel)), orUnassigned(string(i.Status)))
		}
		risks := m.rowsBy(riskOrder)
		return chart.StackedBar{Title: "Status by risk level", XLabel: "risk", YLabel: "incidents", Categories: risks, Series: m.seriesFor(risks)}, nil
	case "manpower":
		groups := map[string][]chart.Point{}
		for _, i := range incidents {
			if opts.ThreatType != "" && opts.ThreatType != AllThreats && i.ThreatType != opts.ThreatType {
				continue
			}
			from, ok1 := i.IncidentDate.Time()
			to, ok2 := i.HandledDate.Time()
			if !ok1 || !ok2 {
				continue
			}
			name := orUnassigned(i.ThreatType)
			groups[name] = append(groups[name], chart.Point{X: to.Sub(from).Hours() / 24, Y: float64(i.HandlerCount)})
		}
		var out []chart.PointGroup
		for _, name := range sortedKeys(groupNames(groups)) {
			out = append(out, chart.PointGroup{Name: name, Points: groups[name]})
		}
		title := "Handling days vs headcount"
		if opts.ThreatType != "" && opts.ThreatType != AllThreats {
			title += ": " + opts.ThreatType
		}
		return chart.Scatter{Title: title, XLabel: "handling days", YLabel: "handlers", Groups: out}, nil
	case "risk_bar":
		counts := newCounter()
		for _, i := range incidents {
			counts.add(orUnassigned(string(i.RiskLevel)))
		}
		labels, values := counts.sorted()
		return chart.Bar{Title: "Incidents by risk level", Labels: labels, Values: values}, nil
	case "threat_server_heatmap":
		m := newMatrix()
		for _, i := range incidents {
			m.add(orUnassigned(i.ThreatType), orUnassigned(i.ServerType))
		}
		return m.heatmap("Threats by server type"), nil
	case "status_pie":
		counts := newCounter()
		for _, i := range incidents {
			counts.add(orUnassigned(string(i.Status)))
		}
		labels, values := counts.sorted()
		return chart.Pie{Title: "Incident status", Labels: labels, Values: values}, nil
	case "handler_scatter":
		points := make([]chart.Point, 0, len(incidents))
		for _, i := range incidents {
			points = append(points, chart.Point{X: riskRank(i.RiskLevel), Y: float64(i.HandlerCount)})
		}
		return chart.Scatter{Title: "Headcount by risk (1 low, 3 high)", XLabel: "risk", YLabel: "handlers", Groups: single(points)}, nil
	case "threat_action_network":
		m := newMatrix()
		for _, i := range incidents {
			if i.Action != "" {
				m.add(orUnassigned(i.ThreatType), i.Action)
			}
		}
		var edges []chart.Edge
		for _, key := range m.keys() {
			edges = append(edges, chart.Edge{From: key.row, To: key.col, Weight: m.cells[key]})
		}
		return chart.Network{Title: "Threat types and actions", Edges: edges}, nil
	}
	return nil, errUnknownGraph
}

func single(points []chart.Point) []chart.PointGroup {
	return []chart.PointGroup{{Points: points}}
}

func groupNames(groups map[string][]chart.Point) map[string]bool {
	out := make(map[string]bool, len(groups))
	for name := range groups {
		out[name] = true
	}
	return out
}

// riskOrder sorts HIGH before MEDIUM before LOW, anything else last by name.
func riskOrder(a, b string) bool {
	ra, rb := riskRank(domain.RiskLevel(a)), riskRank(domain.RiskLevel(b))
	if ra != rb {
		return ra > rb
	}
	return a < b
}

func riskRank(r domain.RiskLevel) float64 {
	switch r {
	case domain.RiskHigh:
		return 3
	case domain.RiskMedium:
		return 2
	case domain.RiskLow:
		return 1
	}
	return 0
}

type counter map[string]float64

func newCounter() counter { return counter{} }

func (c counter) add(label string) { c[label]++ }

func (c counter) sorted() ([]string, []float64) {
	labels := make([]string, 0, len(c))
	for l := range c {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	values := make([]float64, len(labels))
	for i, l := range labels {
		values[i] = c[l]
	}
	return labels, values
}

// top returns up to n labels by descending count, ties by name.
func (c counter) top(n int) []string {
	labels, _ := c.sorted()
	sort.SliceStable(labels, func(i, j int) bool { return c[labels[i]] > c[labels[j]] })
	if len(labels) > n {
		labels = labels[:n]
	}
	return labels
}

type cell struct{ row, col string }

type matrix struct {
	cells map[cell]float64
	rows  map[string]bool
	cols  map[string]bool
}

func newMatrix() *matrix {
	return &matrix{cells: map[cell]float64{}, rows: map[string]bool{}, cols: map[string]bool{}}
}

func (m *matrix) add(row, col string) {
	m.cells[cell{row, col}]++
	m.rows[row] = true
	m.cols[col] = true
}

func (m *matrix) keys() []cell {
	out := make([]cell, 0, len(m.cells))
	for k := range m.cells {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].row != out[j].row {
			return out[i].row < out[j].row
		}
		return out[i].col < out[j].col
	})
	return out
}

func (m *matrix) heatmap(title string) chart.Heatmap {
	rows, cols := sortedKeys(m.rows), sortedKeys(m.cols)
	values := make([][]float64, len(rows))
	for r, row := range rows {
		values[r] = make([]float64, len(cols))
		for c, col := range cols {
			values[r][c] = m.cells[cell{row, col}]
		}
	}
	return chart.Heatmap{Title: title, Rows: rows, Cols: cols, Values: values}
}

// series turns the matrix into one series per column over the sorted rows.
func (m *matrix) series() ([]string, []chart.Series) {
	rows := sortedKeys(m.rows)
	return rows, m.seriesFor(rows)
}

func (m *matrix) seriesFor(rows []string) []chart.Series {
	cols := sortedKeys(m.cols)
	out := make([]chart.Series, len(cols))
	for i, col := range cols {
		values := make([]float64, len(rows))
		for r, row := range rows {
			values[r] = m.cells[cell{row, col}]
		}
		out[i] = chart.Series{Name: col, Values: values}
	}
	return out
}

func (m *matrix) rowsBy(less func(a, b string) bool) []string {
	rows := sortedKeys(m.rows)
	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
	return rows
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
