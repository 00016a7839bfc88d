package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamdash/teamdash/shared/domain"
	internal_errors "github.com/teamdash/teamdash/shared/errors"
)

func setupGlobalIndexHandler(svc *MockGlobalIndexService) *chi.Mux {
	h := &Handler{globalIndex: svc, cfg: testConfig()}
	router := chi.NewRouter()
	router.Get("/api/risky-countries/map-data", h.RiskyCountryMap)
	router.Get("/api/risky-countries/alerts", h.RiskyCountryAlerts)
	router.Get("/api/gci-rankings", h.GciRankings)
	return router
}

func TestRiskyCountryMapHandler(t *testing.T) {
	svc := &MockGlobalIndexService{
		MockRiskyCountryMap: func() (*geojson.FeatureCollection, error) {
			fc := geojson.NewFeatureCollection()
			f := geojson.NewFeature(orb.Point{127, 37.5})
			f.Properties["country"] = "Atlantis"
			fc.Append(f)
			return fc, nil
		},
	}
	rr := httptest.NewRecorder()
	setupGlobalIndexHandler(svc).ServeHTTP(rr, createRequest(t, http.MethodGet, "/api/risky-countries/map-data", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "FeatureCollection", body["type"])
	assert.Len(t, body["features"], 1)
}

func TestRiskyCountryAlertsHandler(t *testing.T) {
	t.Run("default window", func(t *testing.T) {
		svc := &MockGlobalIndexService{
			MockRiskyCountryAlerts: func(minutesAgo int) ([]domain.RiskyCountry, error) {
				assert.Equal(t, 60, minutesAgo)
				return []domain.RiskyCountry{{Country: "Atlantis", RiskLevel: "High"}}, nil
			},
		}
		rr := httptest.NewRecorder()
		setupGlobalIndexHandler(svc).ServeHTTP(rr, createRequest(t, http.MethodGet, "/api/risky-countries/alerts", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var alerts []domain.RiskyCountry
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &alerts))
		require.Len(t, alerts, 1)
		assert.Equal(t, "High", alerts[0].RiskLevel)
	})

	t.Run("bad window", func(t *testing.T) {
		rr := httptest.NewRecorder()
		setupGlobalIndexHandler(&MockGlobalIndexService{}).ServeHTTP(rr, createRequest(t, http.MethodGet, "/api/risky-countries/alerts?minutes_ago=soon", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGciRankingsHandler(t *testing.T) {
	t.Run("year filter", func(t *testing.T) {
		svc := &MockGlobalIndexService{
			MockGciRankings: func(year int) ([]domain.GciRanking, error) {
				assert.Equal(t, 2025, year)
				return []domain.GciRanking{{Id: domain.NewId(), Country: "Atlantis", Rank: 1, Score: 0.98, Year: 2025}}, nil
			},
		}
		rr := httptest.NewRecorder()
		setupGlobalIndexHandler(svc).ServeHTTP(rr, createRequest(t, http.MethodGet, "/api/gci-rankings?year=2025", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var rankings []map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rankings))
		require.Len(t, rankings, 1)
		assert.NotEmpty(t, rankings[0]["id"])
		assert.NotContains(t, rankings[0], "_id")
	})

	t.Run("service rejects year", func(t *testing.T) {
		svc := &MockGlobalIndexService{
			MockGciRankings: func(int) ([]domain.GciRanking, error) {
				return nil, internal_errors.BadRequest("year must be positive")
			},
		}
		rr := httptest.NewRecorder()
		setupGlobalIndexHandler(svc).ServeHTTP(rr, createRequest(t, http.MethodGet, "/api/gci-rankings?year=-3", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
