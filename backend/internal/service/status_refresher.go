package service

import (
	"github.com/robfig/cron/v3"
	"github.com/teamdash/teamdash/shared/domain"
	"github.com/teamdash/teamdash/shared/logger"
	"github.com/teamdash/teamdash/shared/middleware/metrics"
)

type StatusStorage interface {
	Companies() ([]domain.Company, error)
	Incidents() ([]domain.Incident, error)
	UpdateCompanyStatus(id domain.Id, status domain.CompanyStatus) error
	UpdateIncidentStatus(id domain.Id, status domain.IncidentStatus) error
}

// StatusRefresher rewrites stored statuses that drifted from what their dates
// say today.
type StatusRefresher struct {
	storage StatusStorage
	clock   Clock
}

func NewStatusRefresher(storage StatusStorage, clock Clock) *StatusRefresher {
	return &StatusRefresher{storage: storage, clock: clock}
}

type RefreshResult struct {
	Companies int
	Incidents int
}

func (r *StatusRefresher) Refresh() (RefreshResult, error) {
	today := r.clock.today()
	var result RefreshResult

	companies, err := r.storage.Companies()
	if err != nil {
		return result, err
	}
	for _, c := range companies {
		status := domain.DeriveCompanyStatus(c.Status, c.ContractStart, c.ContractEnd, today)
		if status == c.Status || c.ContractStart.IsZero() {
			continue
		}
		if err := r.storage.UpdateCompanyStatus(c.Id, status); err != nil {
			return result, err
		}
		result.Companies++
	}

	incidents, err := r.storage.Incidents()
	if err != nil {
		return result, err
	}
	for _, i := range incidents {
		status := domain.RefreshIncidentStatus(i.Status, i.IncidentDate, i.HandledDate, today)
		if status == i.Status || i.IncidentDate.IsZero() {
			continue
		}
		if err := r.storage.UpdateIncidentStatus(i.Id, status); err != nil {
			return result, err
		}
		result.Incidents++
	}

	metrics.StatusRefreshed.WithLabelValues(domain.KindBiz.String()).Add(float64(result.Companies))
	metrics.StatusRefreshed.WithLabelValues(domain.KindSecurity.String()).Add(float64(result.Incidents))
	return result, nil
}

// Schedule registers the refresh on c with a standard five-field spec.
func (r *StatusRefresher) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		result, err := r.Refresh()
		if err != nil {
			logger.Log.Error("status refresh failed", "error", err)
			return
		}
		logger.Log.Info("statuses refreshed", "companies", result.Companies, "incidents", result.Incidents)
	})
}
