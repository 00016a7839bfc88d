package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

type Industry string

const (
	IndustryIT            Industry = "IT"
	IndustryManufacturing Industry = "Manufacturing"
	IndustryFinance       Industry = "Finance"
	IndustryDistribution  Industry = "Distribution"
)

var industryPrefixes = map[Industry]string{
	IndustryIT:            "I",
	IndustryManufacturing: "M",
	IndustryFinance:       "F",
	IndustryDistribution:  "D",
}

// Industries returns the known industries in a stable order.
func Industries() []Industry {
	out := make([]Industry, 0, len(industryPrefixes))
	for i := range industryPrefixes {
		out = append(out, i)
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}

// IndustryPrefix returns the company id letter for the industry.
func IndustryPrefix(i Industry) (string, bool) {
	p, ok := industryPrefixes[i]
	return p, ok
}

const companySeqWidth = 5

// NextCompanyID increments the trailing number of the maximal existing id.
// Gaps left by deletes are not refilled.
func NextCompanyID(industry Industry, maxExisting string) (string, error) {
	prefix, ok := IndustryPrefix(industry)
	if !ok {
		return "", fmt.Errorf("unknown industry %q", industry)
	}
	next := 1
	if maxExisting != "" {
		digits, found := strings.CutPrefix(maxExisting, prefix)
		if !found {
			return "", fmt.Errorf("company id %q does not match prefix %q", maxExisting, prefix)
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return "", fmt.Errorf("company id %q has no numeric sequence: %w", maxExisting, err)
		}
		next = n + 1
	}
	return fmt.Sprintf("%s%0*d", prefix, companySeqWidth, next), nil
}

type Plan string

const (
	PlanBasic      Plan = "Basic"
	PlanPro        Plan = "Pro"
	PlanEnterprise Plan = "Enterprise"
)

var AllPlans = []Plan{PlanBasic, PlanPro, PlanEnterprise}

func (p Plan) Valid() bool {
	for _, plan := range AllPlans {
		if p == plan {
			return true
		}
	}
	return false
}

type CompanyStatus string

const (
	CompanyScheduled  CompanyStatus = "scheduled"
	CompanyActive     CompanyStatus = "active"
	CompanyExpired    CompanyStatus = "expired"
	CompanyTerminated CompanyStatus = "terminated"
)

// DeriveCompanyStatus computes the contract status as of today. A terminated
// contract stays terminated regardless of its window.
func DeriveCompanyStatus(current CompanyStatus, start, end, today Date) CompanyStatus {
	if current == CompanyTerminated {
		return CompanyTerminated
	}
	if start.After(today) {
		return CompanyScheduled
	}
	if today.After(end) {
		return CompanyExpired
	}
	return CompanyActive
}

// ValidOn reports whether the contract window covers day. An unset end is unbounded.
func (c Company) ValidOn(day Date) bool {
	if c.ContractStart.IsZero() || c.ContractStart.After(day) {
		return false
	}
	return c.ContractEnd.IsZero() || !day.After(c.ContractEnd)
}

type Company struct {
	Id            Id            `bson:"_id,omitempty" json:"id"`
	CompanyId     string        `bson:"company_id" json:"company_id"`
	CompanyName   string        `bson:"company_name" json:"company_name"`
	Industry      Industry      `bson:"industry" json:"industry"`
	Plan          Plan          `bson:"plan" json:"plan"`
	ContractStart Date          `bson:"contract_start" json:"contract_start"`
	ContractEnd   Date          `bson:"contract_end" json:"contract_end"`
	Status        CompanyStatus `bson:"status" json:"status"`
	ManagerName   string        `bson:"manager_name,omitempty" json:"manager_name,omitempty"`
	ManagerPhone  string        `bson:"manager_phone,omitempty" json:"manager_phone,omitempty"`
	Extra         bson.M        `bson:",inline" json:"-"`
}

// Validate checks the fields a stored company must carry.
func (c Company) Validate() error {
	var problems []string
	if strings.TrimSpace(c.CompanyName) == "" {
		problems = append(problems, "company_name")
	}
	if _, ok := IndustryPrefix(c.Industry); !ok {
		problems = append(problems, "industry")
	}
	if !c.Plan.Valid() {
		problems = append(problems, "plan")
	}
	if c.ContractStart.IsZero() {
		problems = append(problems, "contract_start")
	}
	if !c.ContractEnd.IsZero() && c.ContractStart.After(c.ContractEnd) {
		problems = append(problems, "contract_end")
	}
	if c.CompanyId != "" {
		prefix, _ := IndustryPrefix(c.Industry)
		if !strings.HasPrefix(c.CompanyId, prefix) {
			problems = append(problems, "company_id")
		}
	}
	switch c.Status {
	case "", CompanyScheduled, CompanyActive, CompanyExpired, CompanyTerminated:
	default:
		problems = append(problems, "status")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid or missing fields: %s", strings.Join(problems, ","))
	}
	return nil
}

// CompanyPatch carries the fields of a partial company update. Nil means unchanged;
// contract_end can be cleared with null.
type CompanyPatch struct {
	CompanyName   *string        `json:"company_name"`
	Industry      *Industry      `json:"industry"`
	Plan          *Plan          `json:"plan"`
	ContractStart *Date          `json:"contract_start"`
	ContractEnd   Optional[Date] `json:"contract_end"`
	Status        *CompanyStatus `json:"status"`
	ManagerName   *string        `json:"manager_name"`
	ManagerPhone  *string        `json:"manager_phone"`
}

func (p CompanyPatch) Apply(c *Company) {
	setIf(&c.CompanyName, p.CompanyName)
	setIf(&c.Industry, p.Industry)
	setIf(&c.Plan, p.Plan)
	setIf(&c.ContractStart, p.ContractStart)
	p.ContractEnd.apply(&c.ContractEnd)
	setIf(&c.Status, p.Status)
	setIf(&c.ManagerName, p.ManagerName)
	setIf(&c.ManagerPhone, p.ManagerPhone)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
