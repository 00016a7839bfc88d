package service

import (
	"testing"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamdash/teamdash/shared/domain"
)

func TestStatusRefresher(t *testing.T) {
	ids := []domain.Id{domain.NewId(), domain.NewId(), domain.NewId(), domain.NewId()}
	companyUpdates := map[domain.Id]domain.CompanyStatus{}
	incidentUpdates := map[domain.Id]domain.IncidentStatus{}

	storage := &MockRecordStorage{
		CompaniesFunc: func() ([]domain.Company, error) {
			return []domain.Company{
				{Id: ids[0], ContractStart: "2025-01-01", ContractEnd: "2025-06-01", Status: domain.CompanyActive},
				{Id: ids[1], ContractStart: "2025-01-01", ContractEnd: "2025-06-01", Status: domain.CompanyTerminated},
				{Id: ids[2], ContractStart: "2025-01-01", Status: domain.CompanyActive},
			}, nil
		},
		IncidentsFunc: func() ([]domain.Incident, error) {
			return []domain.Incident{
				{Id: ids[0], IncidentDate: "2025-06-01", HandledDate: "2025-06-10", Status: domain.IncidentInProgress},
				{Id: ids[1], IncidentDate: "2025-06-01", Status: domain.IncidentUnhandled},
				{Id: ids[2], IncidentDate: "2025-06-14", Status: domain.IncidentScheduled},
				{Id: ids[3], IncidentDate: "2025-06-14", Status: domain.IncidentInProgress},
			}, nil
		},
		UpdateCompanyStatusFunc: func(id domain.Id, status domain.CompanyStatus) error {
			companyUpdates[id] = status
			return nil
		},
		UpdateIncidentStatusFunc: func(id domain.Id, status domain.IncidentStatus) error {
			incidentUpdates[id] = status
			return nil
		},
	}
	r := NewStatusRefresher(storage, fixedClock)

	result, err := r.Refresh()
	require.NoError(t, err)
	assert.Equal(t, RefreshResult{Companies: 1, Incidents: 2}, result)
	assert.Equal(t, map[domain.Id]domain.CompanyStatus{ids[0]: domain.CompanyExpired}, companyUpdates)
	assert.Equal(t, map[domain.Id]domain.IncidentStatus{
		ids[0]: domain.IncidentResolved,
		ids[2]: domain.IncidentInProgress,
	}, incidentUpdates)
}

func TestStatusRefresher_StopsOnError(t *testing.T) {
	storage := &MockRecordStorage{
		CompaniesFunc: func() ([]domain.Company, error) {
			return []domain.Company{{Id: domain.NewId(), ContractStart: "2030-01-01", Status: domain.CompanyActive}}, nil
		},
		UpdateCompanyStatusFunc: func(domain.Id, domain.CompanyStatus) error { return assert.AnError },
	}
	_, err := NewStatusRefresher(storage, fixedClock).Refresh()
	assert.ErrorIs(t, err, assert.AnError)
}

func TestStatusRefresher_Schedule(t *testing.T) {
	c := cron.New()
	r := NewStatusRefresher(&MockRecordStorage{}, fixedClock)

	_, err := r.Schedule(c, "5 0 * * *")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)

	_, err = r.Schedule(c, "not a spec")
	assert.Error(t, err)
}
