package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// OSList holds "<os> <version>" entries. Older documents store a single string.
type OSList []string

// Names returns the OS names without versions.
func (l OSList) Names() []string {
	out := make([]string, 0, len(l))
	for _, entry := range l {
		name, _, _ := strings.Cut(strings.TrimSpace(entry), " ")
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

func (l OSList) MarshalJSON() ([]byte, error) {
	switch len(l) {
	case 0:
		return []byte("null"), nil
	case 1:
		return json.Marshal(l[0])
	}
	return json.Marshal([]string(l))
}

func (l *OSList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = splitOS(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("os must be a string or a list of strings")
	}
	*l = OSList(list)
	return nil
}

func (l OSList) MarshalBSONValue() (bsontype.Type, []byte, error) {
	switch len(l) {
	case 0:
		return bson.TypeNull, nil, nil
	case 1:
		return bson.MarshalValue(l[0])
	}
	return bson.MarshalValue([]string(l))
}

func (l *OSList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeNull, bson.TypeUndefined:
		*l = nil
	case bson.TypeString:
		*l = splitOS(raw.StringValue())
	case bson.TypeArray:
		values, err := raw.Array().Values()
		if err != nil {
			return err
		}
		list := make(OSList, 0, len(values))
		for _, v := range values {
			s, ok := v.StringValueOK()
			if !ok {
				return fmt.Errorf("os list holds a non string %s", v.Type)
			}
			list = append(list, s)
		}
		*l = list
	default:
		return fmt.Errorf("cannot decode %s into OSList", t)
	}
	return nil
}

func splitOS(s string) OSList {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return OSList{s}
}

type DevStatus string

const (
	DevComplete   DevStatus = "complete"
	DevInProgress DevStatus = "in-progress"
	DevScheduled  DevStatus = "scheduled"
	DevHalted     DevStatus = "halted"
)

var AllDevStatuses = []DevStatus{DevComplete, DevInProgress, DevScheduled, DevHalted}

func (s DevStatus) Valid() bool {
	for _, status := range AllDevStatuses {
		if s == status {
			return true
		}
	}
	return false
}

var (
	MaintenanceStates = []string{"normal", "inspection-scheduled", "inspecting", "failure"}
	ErrorCategories   = []string{"server", "external", "network", "database", "client"}
)

const NoError = "none"

type DevProject struct {
	Id           Id        `bson:"_id,omitempty" json:"id"`
	CompanyId    string    `bson:"company_id" json:"company_id"`
	CompanyName  string    `bson:"company_name,omitempty" json:"company_name,omitempty"`
	OS           OSList    `bson:"os" json:"os"`
	StartDate    Date      `bson:"start_date" json:"start_date"`
	EndDate      Date      `bson:"end_date" json:"end_date"`
	FinishedDate Date      `bson:"end_date_fin" json:"end_date_fin"`
	DevDays      int       `bson:"dev_days" json:"dev_days"`
	Status       DevStatus `bson:"dev_status" json:"dev_status"`
	Maintenance  *string   `bson:"maintenance" json:"maintenance"`
	Error        *string   `bson:"error" json:"error"`
	HandlerCount int       `bson:"handler_count" json:"handler_count"`
	ManagerName  string    `bson:"manager_name,omitempty" json:"manager_name,omitempty"`
	ManagerPhone string    `bson:"manager_phone,omitempty" json:"manager_phone,omitempty"`
	Extra        bson.M    `bson:",inline" json:"-"`
}

// PlannedDays is the number of days between start and end, or 0 when either is unset.
func (d DevProject) PlannedDays() int {
	start, ok1 := d.StartDate.Time()
	end, ok2 := d.EndDate.Time()
	if !ok1 || !ok2 || end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours() / 24)
}

func (d DevProject) Validate() error {
	var problems []string
	if d.CompanyId == "" {
		problems = append(problems, "company_id")
	}
	if len(d.OS) == 0 {
		problems = append(problems, "os")
	}
	if d.StartDate.IsZero() {
		problems = append(problems, "start_date")
	}
	if !d.EndDate.IsZero() && d.StartDate.After(d.EndDate) {
		problems = append(problems, "end_date")
	}
	if !d.Status.Valid() {
		problems = append(problems, "dev_status")
	}
	if d.DevDays < 0 {
		problems = append(problems, "dev_days")
	}
	if d.HandlerCount < 0 {
		problems = append(problems, "handler_count")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid or missing fields: %s", strings.Join(problems, ","))
	}
	return nil
}

type DevPatch struct {
	CompanyId    *string    `json:"company_id"`
	OS           *OSList    `json:"os"`
	StartDate    *Date      `json:"start_date"`
	EndDate      *Date      `json:"end_date"`
	FinishedDate Optional[Date] `json:"end_date_fin"`
	DevDays      *int       `json:"dev_days"`
	Status       *DevStatus `json:"dev_status"`
	Maintenance  *string    `json:"maintenance"`
	Error        *string    `json:"error"`
	HandlerCount *int       `json:"handler_count"`
	ManagerName  *string    `json:"manager_name"`
	ManagerPhone *string    `json:"manager_phone"`
}

func (p DevPatch) Apply(d *DevProject) {
	setIf(&d.CompanyId, p.CompanyId)
	setIf(&d.OS, p.OS)
	setIf(&d.StartDate, p.StartDate)
	setIf(&d.EndDate, p.EndDate)
	p.FinishedDate.apply(&d.FinishedDate)
	setIf(&d.DevDays, p.DevDays)
	setIf(&d.Status, p.Status)
	setIf(&d.HandlerCount, p.HandlerCount)
	setIf(&d.ManagerName, p.ManagerName)
	setIf(&d.ManagerPhone, p.ManagerPhone)
	if p.Maintenance != nil {
		d.Maintenance = p.Maintenance
	}
	if p.Error != nil {
		d.Error = p.Error
	}
}
