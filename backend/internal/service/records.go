package service

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/teamdash/teamdash/shared/domain"
	"github.com/teamdash/teamdash/shared/errors"
	"github.com/teamdash/teamdash/shared/logger"
	"github.com/teamdash/teamdash/shared/middleware/metrics"
)

type RecordsService interface {
	Companies() ([]domain.Company, error)
	Incidents() ([]domain.Incident, error)
	DevProjects() ([]domain.DevProject, error)
	Columns(kind domain.RecordKind) ([]string, error)

	CreateCompany(c domain.Company) (domain.Id, error)
	CreateIncident(i domain.Incident) (domain.Id, error)
	CreateDevProject(d domain.DevProject) (domain.Id, error)

	UpdateCompany(id domain.Id, patch domain.CompanyPatch) error
	UpdateIncident(id domain.Id, patch domain.IncidentPatch) error
	UpdateDevProject(id domain.Id, patch domain.DevPatch) error

	DeleteRecords(kind domain.RecordKind, ids []string) (int64, error)
	NextCompanyId(industry domain.Industry) (string, error)
}

type RecordStorage interface {
	Companies() ([]domain.Company, error)
	Company(id domain.Id) (domain.Company, error)
	InsertCompany(c domain.Company) (domain.Id, error)
	ReplaceCompany(c domain.Company) error
	MaxCompanyId(prefix string) (string, error)

	Incidents() ([]domain.Incident, error)
	Incident(id domain.Id) (domain.Incident, error)
	InsertIncident(i domain.Incident) (domain.Id, error)
	ReplaceIncident(i domain.Incident) error
	MaxIncidentSeq(dayPrefix string) (int, error)

	DevProjects() ([]domain.DevProject, error)
	DevProject(id domain.Id) (domain.DevProject, error)
	InsertDevProject(p domain.DevProject) (domain.Id, error)
	ReplaceDevProject(p domain.DevProject) error

	DeleteRecords(kind domain.RecordKind, ids []domain.Id) (int64, error)
	Columns(kind domain.RecordKind) ([]string, error)
}

// Directory is the company name cache used for read-time joins.
type Directory interface {
	CompanyLookup
	Invalidate()
}

type Records struct {
	storage   RecordStorage
	directory Directory
	clock     Clock
}

func NewRecords(storage RecordStorage, directory Directory, clock Clock) *Records {
	return &Records{storage: storage, directory: directory, clock: clock}
}

func (r *Records) Companies() ([]domain.Company, error) {
	return r.storage.Companies()
}

func (r *Records) Incidents() ([]domain.Incident, error) {
	incidents, err := r.storage.Incidents()
	if err != nil {
		return nil, err
	}
	for i := range incidents {
		r.fillCompanyName(incidents[i].CompanyId, &incidents[i].CompanyName)
	}
	return incidents, nil
}

func (r *Records) DevProjects() ([]domain.DevProject, error) {
	projects, err := r.storage.DevProjects()
	if err != nil {
		return nil, err
	}
	for i := range projects {
		r.fillCompanyName(projects[i].CompanyId, &projects[i].CompanyName)
	}
	return projects, nil
}

func (r *Records) fillCompanyName(companyId string, dst *string) {
	if name, ok := r.directory.Name(companyId); ok {
		*dst = name
	}
}

func (r *Records) Columns(kind domain.RecordKind) ([]string, error) {
	return r.storage.Columns(kind)
}

func (r *Records) NextCompanyId(industry domain.Industry) (string, error) {
	prefix, ok := domain.IndustryPrefix(industry)
	if !ok {
		return "", errors.BadRequest(fmt.Sprintf("Unknown industry %q", industry))
	}
	maxId, err := r.storage.MaxCompanyId(prefix)
	if err != nil {
		return "", err
	}
	next, err := domain.NextCompanyID(industry, maxId)
	if err != nil {
		logger.Log.Error("failed to compute next company id", "industry", industry, "max", maxId, "error", err)
		return "", err
	}
	return next, nil
}

func (r *Records) CreateCompany(c domain.Company) (domain.Id, error) {
	c.Id = domain.Id{}
	if err := c.Validate(); err != nil {
		return domain.Id{}, errors.BadRequest(err.Error())
	}
	if c.CompanyId == "" {
		next, err := r.NextCompanyId(c.Industry)
		if err != nil {
			return domain.Id{}, err
		}
		c.CompanyId = next
	}
	c.Status = domain.DeriveCompanyStatus(c.Status, c.ContractStart, c.ContractEnd, r.clock.today())

	id, err := r.storage.InsertCompany(c)
	if err != nil {
		return domain.Id{}, err
	}
	r.directory.Invalidate()
	return id, nil
}

func (r *Records) UpdateCompany(id domain.Id, patch domain.CompanyPatch) error {
	c, err := r.storage.Company(id)
	if err != nil {
		return err
	}
	patch.Apply(&c)
	if err := c.Validate(); err != nil {
		return errors.BadRequest(err.Error())
	}
	c.Status = domain.DeriveCompanyStatus(c.Status, c.ContractStart, c.ContractEnd, r.clock.today())
	if err := r.storage.ReplaceCompany(c); err != nil {
		return err
	}
	r.directory.Invalidate()
	return nil
}

func (r *Records) CreateIncident(i domain.Incident) (domain.Id, error) {
	i.Id = domain.Id{}
	if err := i.Validate(); err != nil {
		return domain.Id{}, errors.BadRequest(err.Error())
	}
	if i.IncidentNo == "" {
		no, err := r.nextIncidentNo(i.IncidentDate)
		if err != nil {
			return domain.Id{}, err
		}
		i.IncidentNo = no
	}
	if i.HandlerCount == 0 {
		i.HandlerCount = i.RiskLevel.DefaultHandlerCount()
	}
	i.Status = domain.RefreshIncidentStatus(i.Status, i.IncidentDate, i.HandledDate, r.clock.today())
	r.fillCompanyName(i.CompanyId, &i.CompanyName)

	return r.storage.InsertIncident(i)
}

func (r *Records) nextIncidentNo(day domain.Date) (domain.IncidentNo, error) {
	seq, err := r.storage.MaxIncidentSeq(domain.IncidentDayPrefix(day))
	if err != nil {
		return "", err
	}
	no, err := domain.NewIncidentNo(day, seq+1)
	if err != nil {
		return "", errors.Conflict(fmt.Sprintf("No incident numbers left for %s", day))
	}
	return no, nil
}

func (r *Records) UpdateIncident(id domain.Id, patch domain.IncidentPatch) error {
	i, err := r.storage.Incident(id)
	if err != nil {
		return err
	}
	patch.Apply(&i)
	if err := i.Validate(); err != nil {
		return errors.BadRequest(err.Error())
	}
	i.Status = domain.RefreshIncidentStatus(i.Status, i.IncidentDate, i.HandledDate, r.clock.today())
	if patch.CompanyId != nil {
		i.CompanyName = ""
		r.fillCompanyName(i.CompanyId, &i.CompanyName)
	}
	return r.storage.ReplaceIncident(i)
}

func (r *Records) CreateDevProject(d domain.DevProject) (domain.Id, error) {
	d.Id = domain.Id{}
	if err := d.Validate(); err != nil {
		return domain.Id{}, errors.BadRequest(err.Error())
	}
	if d.DevDays == 0 {
		d.DevDays = d.PlannedDays()
	}
	r.fillCompanyName(d.CompanyId, &d.CompanyName)

	return r.storage.InsertDevProject(d)
}

func (r *Records) UpdateDevProject(id domain.Id, patch domain.DevPatch) error {
	d, err := r.storage.DevProject(id)
	if err != nil {
		return err
	}
	patch.Apply(&d)
	if err := d.Validate(); err != nil {
		return errors.BadRequest(err.Error())
	}
	if patch.DevDays == nil && (patch.StartDate != nil || patch.EndDate != nil) {
		d.DevDays = d.PlannedDays()
	}
	if patch.CompanyId != nil {
		d.CompanyName = ""
		r.fillCompanyName(d.CompanyId, &d.CompanyName)
	}
	return r.storage.ReplaceDevProject(d)
}

// DeleteRecords removes all ids or none: a single malformed id rejects the batch.
func (r *Records) DeleteRecords(kind domain.RecordKind, rawIds []string) (int64, error) {
	if len(rawIds) == 0 {
		return 0, errors.BadRequest("ids must not be empty")
	}
	ids := make([]domain.Id, 0, len(rawIds))
	var invalid *multierror.Error
	for _, raw := range rawIds {
		id, ok := domain.ParseId(raw)
		if !ok {
			invalid = multierror.Append(invalid, fmt.Errorf("%q", raw))
			continue
		}
		ids = append(ids, id)
	}
	if invalid != nil {
		invalid.ErrorFormat = listInvalidIds
		return 0, errors.BadRequest(invalid.Error())
	}

	n, err := r.storage.DeleteRecords(kind, ids)
	if err != nil {
		return 0, err
	}
	metrics.RecordsDeleted.WithLabelValues(kind.String()).Add(float64(n))
	if kind == domain.KindBiz && n > 0 {
		r.directory.Invalidate()
	}
	return n, nil
}

func listInvalidIds(errs []error) string {
	parts := make([]string, len(errs))
	for i, err := range errs {
		parts[i] = err.Error()
	}
	return "Invalid ids: " + strings.Join(parts, ", ")
}
