package service

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/teamdash/teamdash/shared/api"
	"github.com/teamdash/teamdash/shared/domain"
)

const (
	unassigned    = "unassigned"
	summaryMonths = 3
)

type DashboardService interface {
	Summary() (api.DashboardSummaryResponse, error)
	SummaryGraphs() (api.DashboardGraphsResponse, error)
}

type DashboardStorage interface {
	Companies() ([]domain.Company, error)
	Incidents() ([]domain.Incident, error)
	DevProjects() ([]domain.DevProject, error)
}

type Dashboard struct {
	storage DashboardStorage
	clock   Clock
}

func NewDashboard(storage DashboardStorage, clock Clock) *Dashboard {
	return &Dashboard{storage: storage, clock: clock}
}

// Summary counts contracts valid today by plan, in-progress dev projects by OS
// and in-progress incidents by risk level.
func (d *Dashboard) Summary() (api.DashboardSummaryResponse, error) {
	companies, incidents, projects, err := d.load()
	if err != nil {
		return api.DashboardSummaryResponse{}, err
	}
	today := d.clock.today()

	resp := api.DashboardSummaryResponse{
		Biz:      make(map[string]int),
		Dev:      api.DevSummary{OS: make(map[string]int)},
		Security: make(map[string]int),
	}
	for _, c := range companies {
		if c.ValidOn(today) {
			resp.Biz[orUnassigned(string(c.Plan))]++
		}
	}
	for _, p := range projects {
		if p.Status != domain.DevInProgress {
			continue
		}
		resp.Dev.Total++
		for _, os := range osBuckets(p.OS) {
			resp.Dev.OS[os]++
		}
	}
	for _, i := range incidents {
		if i.Status == domain.IncidentInProgress {
			resp.Security[orUnassigned(string(i.RiskLevel))]++
		}
	}
	return resp, nil
}

// SummaryGraphs builds the same three views for each of the trailing months,
// the current one included.
func (d *Dashboard) SummaryGraphs() (api.DashboardGraphsResponse, error) {
	companies, incidents, projects, err := d.load()
	if err != nil {
		return api.DashboardGraphsResponse{}, err
	}

	var resp api.DashboardGraphsResponse
	for _, month := range trailingMonths(d.clock.now(), summaryMonths) {
		label := month.Format("2006-01")
		lastDay := domain.NewDate(month.AddDate(0, 1, -1))

		biz := map[string]int{unassigned: 0}
		for _, plan := range domain.AllPlans {
			biz[string(plan)] = 0
		}
		for _, c := range companies {
			if c.ValidOn(lastDay) {
				biz[orUnassigned(string(c.Plan))]++
			}
		}

		dev := make(map[string]int)
		for _, p := range projects {
			if p.Status == domain.DevInProgress && p.StartDate.Month() == label {
				for _, os := range osBuckets(p.OS) {
					dev[os]++
				}
			}
		}

		security := map[string]int{unassigned: 0}
		for _, level := range domain.AllRiskLevels {
			security[string(level)] = 0
		}
		for _, i := range incidents {
			if i.Status == domain.IncidentInProgress && i.IncidentDate.Month() == label {
				security[orUnassigned(string(i.RiskLevel))]++
			}
		}

		resp.Biz = append(resp.Biz, api.MonthBuckets{Month: label, Counts: biz})
		resp.Dev = append(resp.Dev, api.MonthBuckets{Month: label, Counts: dev})
		resp.Security = append(resp.Security, api.MonthBuckets{Month: label, Counts: security})
	}
	return resp, nil
}

func (d *Dashboard) load() ([]domain.Company, []domain.Incident, []domain.DevProject, error) {
	companies, err := d.storage.Companies()
	if err != nil {
		return nil, nil, nil, err
	}
	incidents, err := d.storage.Incidents()
	if err != nil {
		return nil, nil, nil, err
	}
	projects, err := d.storage.DevProjects()
	if err != nil {
		return nil, nil, nil, err
	}
	return companies, incidents, projects, nil
}

// trailingMonths returns the first day of the last n months, oldest first.
func trailingMonths(now time.Time, n int) []time.Time {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	months := make([]time.Time, n)
	for i := 0; i < n; i++ {
		months[i] = first.AddDate(0, i-(n-1), 0)
	}
	return months
}

func orUnassigned(s string) string {
	if strings.TrimSpace(s) == "" {
		return unassigned
	}
	return s
}

// osBuckets normalizes OS names to "Linux" style casing.
func osBuckets(list domain.OSList) []string {
	names := list.Names()
	if len(names) == 0 {
		return []string{unassigned}
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(n)
		r, size := utf8.DecodeRuneInString(n)
		out = append(out, string(unicode.ToUpper(r))+n[size:])
	}
	return out
}
