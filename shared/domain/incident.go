package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// IncidentNo is "YYMMDD" followed by a three digit daily sequence. Older
// documents store it as an integer.
type IncidentNo string

const incidentSeqWidth = 3

func NewIncidentNo(day Date, seq int) (IncidentNo, error) {
	t, ok := day.Time()
	if !ok {
		return "", fmt.Errorf("incident number needs a date")
	}
	if seq < 1 || seq > 999 {
		return "", fmt.Errorf("daily incident sequence %d out of range", seq)
	}
	return IncidentNo(fmt.Sprintf("%s%0*d", t.Format("060102"), incidentSeqWidth, seq)), nil
}

// IncidentDayPrefix is the "YYMMDD" part shared by all incidents of day.
func IncidentDayPrefix(day Date) string {
	t, ok := day.Time()
	if !ok {
		return ""
	}
	return t.Format("060102")
}

// Seq returns the daily sequence or 0 when the number is malformed.
func (n IncidentNo) Seq() int {
	s := string(n)
	if len(s) <= 6 {
		return 0
	}
	seq, err := strconv.Atoi(s[6:])
	if err != nil {
		return 0
	}
	return seq
}

func (n *IncidentNo) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = IncidentNo(strings.TrimSpace(s))
		return nil
	}
	var i int64
	if err := json.Unmarshal(data, &i); err != nil {
		return fmt.Errorf("incident_no must be a string or integer")
	}
	*n = IncidentNo(strconv.FormatInt(i, 10))
	return nil
}

func (n *IncidentNo) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeNull:
		*n = ""
	case bson.TypeString:
		*n = IncidentNo(raw.StringValue())
	case bson.TypeInt32:
		*n = IncidentNo(strconv.FormatInt(int64(raw.Int32()), 10))
	case bson.TypeInt64:
		*n = IncidentNo(strconv.FormatInt(raw.Int64(), 10))
	case bson.TypeDouble:
		*n = IncidentNo(strconv.FormatInt(int64(raw.Double()), 10))
	default:
		return fmt.Errorf("cannot decode %s into IncidentNo", t)
	}
	return nil
}

type RiskLevel string

const (
	RiskHigh   RiskLevel = "HIGH"
	RiskMedium RiskLevel = "MEDIUM"
	RiskLow    RiskLevel = "LOW"
)

var AllRiskLevels = []RiskLevel{RiskHigh, RiskMedium, RiskLow}

func (r RiskLevel) Valid() bool {
	return r == RiskHigh || r == RiskMedium || r == RiskLow
}

// DefaultHandlerCount is the headcount assigned when none is given.
func (r RiskLevel) DefaultHandlerCount() int {
	switch r {
	case RiskHigh:
		return 7
	case RiskMedium:
		return 4
	}
	return 1
}

// HandlerCountRange is the headcount range the seed generator draws from.
func (r RiskLevel) HandlerCountRange() (int, int) {
	switch r {
	case RiskHigh:
		return 5, 10
	case RiskMedium:
		return 3, 6
	}
	return 1, 2
}

type IncidentStatus string

const (
	IncidentScheduled  IncidentStatus = "scheduled"
	IncidentInProgress IncidentStatus = "in-progress"
	IncidentUnhandled  IncidentStatus = "unhandled"
	IncidentResolved   IncidentStatus = "resolved"
)

// DeriveIncidentStatus: resolved once handled on or before today, scheduled while
// the incident date is still ahead, in-progress otherwise.
func DeriveIncidentStatus(incidentDate, handledDate, today Date) IncidentStatus {
	if !handledDate.IsZero() && !handledDate.After(today) {
		return IncidentResolved
	}
	if incidentDate.After(today) {
		return IncidentScheduled
	}
	return IncidentInProgress
}

// RefreshIncidentStatus re-derives status but keeps incidents explicitly marked
// unhandled until they get a handled date.
func RefreshIncidentStatus(current IncidentStatus, incidentDate, handledDate, today Date) IncidentStatus {
	derived := DeriveIncidentStatus(incidentDate, handledDate, today)
	if current == IncidentUnhandled && derived == IncidentInProgress {
		return IncidentUnhandled
	}
	return derived
}

type Incident struct {
	Id           Id             `bson:"_id,omitempty" json:"id"`
	IncidentNo   IncidentNo     `bson:"incident_no" json:"incident_no"`
	CompanyId    string         `bson:"company_id" json:"company_id"`
	CompanyName  string         `bson:"company_name,omitempty" json:"company_name,omitempty"`
	ThreatType   string         `bson:"threat_type" json:"threat_type"`
	RiskLevel    RiskLevel      `bson:"risk_level" json:"risk_level"`
	ServerType   string         `bson:"server_type" json:"server_type"`
	IncidentDate Date           `bson:"incident_date" json:"incident_date"`
	HandledDate  Date           `bson:"handled_date" json:"handled_date"`
	Status       IncidentStatus `bson:"status" json:"status"`
	Action       string         `bson:"action,omitempty" json:"action,omitempty"`
	HandlerCount int            `bson:"handler_count" json:"handler_count"`
	ManagerName  string         `bson:"manager_name,omitempty" json:"manager_name,omitempty"`
	Extra        bson.M         `bson:",inline" json:"-"`
}

func (i Incident) Validate() error {
	var problems []string
	if i.CompanyId == "" {
		problems = append(problems, "company_id")
	}
	if strings.TrimSpace(i.ThreatType) == "" {
		problems = append(problems, "threat_type")
	}
	if !i.RiskLevel.Valid() {
		problems = append(problems, "risk_level")
	}
	if i.IncidentDate.IsZero() {
		problems = append(problems, "incident_date")
	}
	if !i.HandledDate.IsZero() && i.IncidentDate.After(i.HandledDate) {
		problems = append(problems, "handled_date")
	}
	if i.HandlerCount < 0 {
		problems = append(problems, "handler_count")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid or missing fields: %s", strings.Join(problems, ","))
	}
	return nil
}

type IncidentPatch struct {
	CompanyId    *string         `json:"company_id"`
	ThreatType   *string         `json:"threat_type"`
	RiskLevel    *RiskLevel      `json:"risk_level"`
	ServerType   *string         `json:"server_type"`
	IncidentDate *Date           `json:"incident_date"`
	HandledDate  Optional[Date]  `json:"handled_date"`
	Status       *IncidentStatus `json:"status"`
	Action       *string         `json:"action"`
	HandlerCount *int            `json:"handler_count"`
	ManagerName  *string         `json:"manager_name"`
}

func (p IncidentPatch) Apply(i *Incident) {
	setIf(&i.CompanyId, p.CompanyId)
	setIf(&i.ThreatType, p.ThreatType)
	setIf(&i.RiskLevel, p.RiskLevel)
	setIf(&i.ServerType, p.ServerType)
	setIf(&i.IncidentDate, p.IncidentDate)
	p.HandledDate.apply(&i.HandledDate)
	setIf(&i.Status, p.Status)
	setIf(&i.Action, p.Action)
	setIf(&i.HandlerCount, p.HandlerCount)
	setIf(&i.ManagerName, p.ManagerName)
}
