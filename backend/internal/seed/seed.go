// Package seed generates synthetic companies, incidents, dev projects,
// accounts and global index documents for demo databases. The same seed and
// "today" always produce the same records.
package seed

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/teamdash/teamdash/shared/domain"
)

var (
	threatTypes = []string{"Malware", "Hacking", "Phishing", "APT", "Ransomware", "DDoS", "Insider threat",
		"Supply chain", "Web vulnerability", "Social engineering", "Credential theft", "Message interception", "Spam"}
	serverTypes = []string{"Web", "DB", "File", "Application", "Mail", "FTP", "Auth"}
	actions     = []string{"IP block", "Patch applied", "Log purge", "Account lock", "Backup restore", "Access control hardened",
		"Monitoring increased", "Security training", "MFA enabled", "Firewall rules"}

	osVersions = map[string][]string{
		"Windows": {"7", "8", "10", "11"},
		"Linux":   {"Ubuntu-18.04", "Ubuntu-20.04", "Ubuntu-22.04", "Rocky-8", "Rocky-9"},
		"Android": {"10", "11", "12", "13"},
		"macOS":   {"11", "12", "13", "14"},
		"iOS":     {"15", "16", "17"},
	}
	osNames = []string{"Android", "Linux", "Windows", "iOS", "macOS"}

	plans = []domain.Plan{domain.PlanBasic, domain.PlanPro, domain.PlanEnterprise}

	riskLevels  = []string{"High", "Medium", "Low"}
	alertTypes  = []string{"Malware", "Phishing", "DDoS", "Ransomware", "APT", "Data breach"}
	gciRankSize = 8
)

type place struct {
	country  string
	lat, lon float64
}

var places = []place{
	{"South Korea", 35.91, 127.77}, {"United States", 37.09, -95.71}, {"United Kingdom", 55.38, -3.44},
	{"Japan", 36.20, 138.25}, {"Germany", 51.17, 10.45}, {"France", 46.23, 2.21},
	{"Singapore", 1.35, 103.82}, {"Estonia", 58.60, 25.01}, {"Brazil", -14.24, -51.93},
	{"India", 20.59, 78.96}, {"Australia", -25.27, 133.78}, {"Canada", 56.13, -106.35},
	{"Nigeria", 9.08, 8.68}, {"Mexico", 23.63, -102.55}, {"Indonesia", -0.79, 113.92},
	{"Turkey", 38.96, 35.24}, {"Vietnam", 14.06, 108.28}, {"Egypt", 26.82, 30.80},
}

// DefaultRoster is the staff head count per team created by the seed tool.
var DefaultRoster = map[domain.Team]int{
	domain.TeamManagement:  10,
	domain.TeamSecurity:    20,
	domain.TeamDevelopment: 20,
}

// SeqLookup returns the highest sequence already used for a key (an industry
// prefix or an incident day prefix).
type SeqLookup func(key string) (int, error)

type Generator struct {
	fake  *gofakeit.Faker
	today time.Time
}

// New returns a generator whose output depends only on seed and today.
// A zero seed draws a random one.
func New(seed uint64, today time.Time) *Generator {
	y, m, d := today.Date()
	return &Generator{
		fake:  gofakeit.New(seed),
		today: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
	}
}

func (g *Generator) pick(items []string) string {
	return g.fake.RandomString(items)
}

// between returns a random int in [lo, hi].
func (g *Generator) between(lo, hi int) int {
	return g.fake.Number(lo, hi)
}

func (g *Generator) index(n int) int {
	return g.fake.Number(0, n-1)
}

func (g *Generator) dayOffset(days int) time.Time {
	return g.today.AddDate(0, 0, days)
}

// Companies generates n companies with dense per-industry id sequences that
// continue after the existing maximum.
func (g *Generator) Companies(n int, existing SeqLookup) ([]domain.Company, error) {
	industries := domain.Industries()
	next := make(map[domain.Industry]int, len(industries))
	for _, ind := range industries {
		prefix, _ := domain.IndustryPrefix(ind)
		maxSeq, err := existing(prefix)
		if err != nil {
			return nil, err
		}
		next[ind] = maxSeq + 1
	}

	today := domain.NewDate(g.today)
	companies := make([]domain.Company, 0, n)
	for i := 0; i < n; i++ {
		ind := industries[g.index(len(industries))]
		prefix, _ := domain.IndustryPrefix(ind)
		start := g.dayOffset(-g.between(0, 730))
		end := start.AddDate(0, 0, g.between(1, 365))

		status := domain.CompanyStatus("")
		if g.fake.Float64() < 0.1 {
			status = domain.CompanyTerminated
		}
		c := domain.Company{
			CompanyId:     fmt.Sprintf("%s%05d", prefix, next[ind]),
			CompanyName:   g.fake.Company(),
			Industry:      ind,
			Plan:          plans[g.index(len(plans))],
			ContractStart: domain.NewDate(start),
			ContractEnd:   domain.NewDate(end),
			ManagerName:   g.fake.Name(),
			ManagerPhone:  g.phone(),
		}
		c.Status = domain.DeriveCompanyStatus(status, c.ContractStart, c.ContractEnd, today)
		next[ind]++
		companies = append(companies, c)
	}
	return companies, nil
}

// Incidents spreads n incidents over the last 180 days across companies.
// Half are handled one to ten days after they happened.
func (g *Generator) Incidents(n int, companies []domain.Company, existing SeqLookup) ([]domain.Incident, error) {
	if len(companies) == 0 {
		return nil, fmt.Errorf("incidents need at least one company")
	}
	today := domain.NewDate(g.today)
	seqs := map[string]int{}
	incidents := make([]domain.Incident, 0, n)
	for len(incidents) < n {
		company := companies[g.index(len(companies))]
		day := domain.NewDate(g.dayOffset(-g.between(0, 180)))
		prefix := domain.IncidentDayPrefix(day)
		if _, ok := seqs[prefix]; !ok {
			maxSeq, err := existing(prefix)
			if err != nil {
				return nil, err
			}
			seqs[prefix] = maxSeq
		}
		seqs[prefix]++
		no, err := domain.NewIncidentNo(day, seqs[prefix])
		if err != nil {
			// day is full; draw another one
			continue
		}

		risk := domain.AllRiskLevels[g.index(len(domain.AllRiskLevels))]
		lo, hi := risk.HandlerCountRange()
		i := domain.Incident{
			IncidentNo:   no,
			CompanyId:    company.CompanyId,
			CompanyName:  company.CompanyName,
			ThreatType:   g.pick(threatTypes),
			RiskLevel:    risk,
			ServerType:   g.pick(serverTypes),
			IncidentDate: day,
			Action:       g.pick(actions),
			HandlerCount: g.between(lo, hi),
			ManagerName:  g.fake.Name(),
		}
		if g.fake.Bool() {
			handled, _ := day.Time()
			i.HandledDate = domain.NewDate(handled.AddDate(0, 0, g.between(1, 10)))
		} else if g.fake.Bool() {
			i.Status = domain.IncidentUnhandled
		}
		i.Status = domain.RefreshIncidentStatus(i.Status, i.IncidentDate, i.HandledDate, today)
		incidents = append(incidents, i)
	}
	return incidents, nil
}

// DevProjects generates n projects lasting 30 to 500 days. The first tenth run
// on several operating systems. Most projects past their end date are
// complete and carry a maintenance and error state.
func (g *Generator) DevProjects(n int, companies []domain.Company) ([]domain.DevProject, error) {
	if len(companies) == 0 {
		return nil, fmt.Errorf("dev projects need at least one company")
	}
	projects := make([]domain.DevProject, 0, n)
	for i := 0; i < n; i++ {
		company := companies[g.index(len(companies))]
		start := g.dayOffset(-g.between(0, 900))
		days := g.between(30, 500)
		end := start.AddDate(0, 0, days)

		p := domain.DevProject{
			CompanyId:    company.CompanyId,
			CompanyName:  company.CompanyName,
			OS:           g.osList(i < n/10),
			StartDate:    domain.NewDate(start),
			EndDate:      domain.NewDate(end),
			DevDays:      days,
			HandlerCount: g.between(2, 8),
			ManagerName:  g.fake.Name(),
			ManagerPhone: g.phone(),
		}
		if !end.After(g.today) {
			p.FinishedDate = p.EndDate
		}
		if !end.After(g.today) && g.fake.Float64() < 0.8 {
			p.Status = domain.DevComplete
			maintenance := g.pick(domain.MaintenanceStates)
			errState := domain.NoError
			if maintenance != domain.MaintenanceStates[0] {
				errState = g.pick(domain.ErrorCategories)
			}
			p.Maintenance, p.Error = &maintenance, &errState
		} else {
			p.Status = []domain.DevStatus{domain.DevInProgress, domain.DevHalted, domain.DevScheduled}[g.index(3)]
		}
		projects = append(projects, p)
	}
	return projects, nil
}

func (g *Generator) osList(multiple bool) domain.OSList {
	k := 1
	if multiple {
		k = g.between(2, 3)
	}
	names := append([]string(nil), osNames...)
	g.fake.ShuffleStrings(names)

	list := make(domain.OSList, 0, k)
	for _, name := range names[:k] {
		list = append(list, name+" "+g.pick(osVersions[name]))
	}
	return list
}

// GlobalIndex draws this year's GCI top ranks and a day of risky country
// alerts ending at now.
func (g *Generator) GlobalIndex(now time.Time) ([]domain.GciRanking, []domain.RiskyCountry) {
	order := make([]int, len(places))
	for i := range order {
		order[i] = i
	}
	g.fake.ShuffleInts(order)

	rankings := make([]domain.GciRanking, 0, gciRankSize)
	for rank, i := range order[:gciRankSize] {
		rankings = append(rankings, domain.GciRanking{
			Country:   places[i].country,
			Rank:      rank + 1,
			Score:     math.Round(g.fake.Float64Range(0.7, 1.0)*1000) / 1000,
			Year:      now.Year(),
			Timestamp: now,
		})
	}

	alerts := make([]domain.RiskyCountry, g.between(15, len(places)))
	for i := range alerts {
		p := places[g.index(len(places))]
		alert := g.pick(alertTypes)
		alerts[i] = domain.RiskyCountry{
			Country:   p.country,
			RiskLevel: g.pick(riskLevels),
			AlertType: &alert,
			Latitude:  p.lat,
			Longitude: p.lon,
			Timestamp: now.Add(-time.Duration(g.between(0, 24*60)) * time.Minute),
		}
	}
	return rankings, alerts
}

func (g *Generator) phone() string {
	return g.fake.Numerify("010-####-####")
}

// Staff generates roster[team] staff accounts per team with user ids like
// "securityadmin07". Passwords are left to the caller.
func (g *Generator) Staff(roster map[domain.Team]int) []domain.Account {
	var out []domain.Account
	for _, team := range domain.AllTeams {
		for i := 1; i <= roster[team]; i++ {
			out = append(out, domain.Account{
				UserId:   domain.UserId(fmt.Sprintf("%sadmin%02d", team, i)),
				Nickname: domain.Nickname(g.fake.Name()),
				Team:     team,
				Phone:    g.phone(),
				Type:     domain.AccountAdmin,
			})
		}
	}
	return out
}

// Members generates n customer accounts, each attached to one of companies
// when there are any.
func (g *Generator) Members(n int, companies []domain.Company) []domain.Account {
	out := make([]domain.Account, 0, n)
	for i := 0; i < n; i++ {
		joined := g.dayOffset(-g.between(0, 365))
		acc := domain.Account{
			UserId:   domain.UserId(fmt.Sprintf("%s%03d", strings.ToLower(g.fake.FirstName()), i+1)),
			Nickname: domain.Nickname(fmt.Sprintf("%s%03d", g.fake.Name(), i+1)),
			Email:    g.fake.Email(),
			Phone:    g.phone(),
			JoinedAt: &joined,
			Type:     domain.AccountMember,
		}
		if len(companies) > 0 {
			c := companies[g.index(len(companies))]
			acc.CompanyId, acc.CompanyName = c.CompanyId, c.CompanyName
		}
		out = append(out, acc)
	}
	return out
}
