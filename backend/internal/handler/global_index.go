package handler

import (
	"net/http"

	"github.com/teamdash/teamdash/shared/utils"
)

const defaultAlertMinutes = 60

// RiskyCountryMap answers with a GeoJSON FeatureCollection of alert points.
func (h *Handler) RiskyCountryMap(w http.ResponseWriter, r *http.Request) {
	fc, err := h.globalIndex.RiskyCountryMap()
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, fc)
}

func (h *Handler) RiskyCountryAlerts(w http.ResponseWriter, r *http.Request) {
	minutes, err := queryInt(r, "minutes_ago", defaultAlertMinutes)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	alerts, err := h.globalIndex.RiskyCountryAlerts(minutes)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, alerts)
}

func (h *Handler) GciRankings(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year", 0)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	rankings, err := h.globalIndex.GciRankings(year)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, rankings)
}
