package service

import (
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/teamdash/teamdash/shared/domain"
	internal_errors "github.com/teamdash/teamdash/shared/errors"
)

const maxAlertWindow = 7 * 24 * 60

type GlobalIndexService interface {
	RiskyCountryMap() (*geojson.FeatureCollection, error)
	RiskyCountryAlerts(minutesAgo int) ([]domain.RiskyCountry, error)
	GciRankings(year int) ([]domain.GciRanking, error)
}

type GlobalIndexStorage interface {
	GciRankings(year int) ([]domain.GciRanking, error)
	RiskyCountries(since time.Time) ([]domain.RiskyCountry, error)
}

type GlobalIndex struct {
	storage GlobalIndexStorage
	clock   Clock
}

func NewGlobalIndex(storage GlobalIndexStorage, clock Clock) *GlobalIndex {
	return &GlobalIndex{storage: storage, clock: clock}
}

// RiskyCountryMap places every risky country alert on the map as a point
// feature.
func (g *GlobalIndex) RiskyCountryMap() (*geojson.FeatureCollection, error) {
	countries, err := g.storage.RiskyCountries(time.Time{})
	if err != nil {
		return nil, err
	}
	fc := geojson.NewFeatureCollection()
	for _, c := range countries {
		f := geojson.NewFeature(orb.Point{c.Longitude, c.Latitude})
		f.Properties["country"] = c.Country
		f.Properties["risk_level"] = c.RiskLevel
		f.Properties["alert_type"] = c.AlertType
		f.Properties["timestamp"] = c.Timestamp.Format(time.RFC3339)
		fc.Append(f)
	}
	return fc, nil
}

func (g *GlobalIndex) RiskyCountryAlerts(minutesAgo int) ([]domain.RiskyCountry, error) {
	if minutesAgo < 1 || minutesAgo > maxAlertWindow {
		return nil, internal_errors.BadRequest("minutes_ago must be between 1 and 10080")
	}
	return g.storage.RiskyCountries(g.clock.now().Add(-time.Duration(minutesAgo) * time.Minute))
}

// GciRankings lists rankings for year, or for every year when year is 0.
func (g *GlobalIndex) GciRankings(year int) ([]domain.GciRanking, error) {
	if year < 0 {
		return nil, internal_errors.BadRequest("year must be positive")
	}
	return g.storage.GciRankings(year)
}
