package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/teamdash/teamdash/backend/internal/service"
	"github.com/teamdash/teamdash/shared/api"
	"github.com/teamdash/teamdash/shared/domain"
	"github.com/teamdash/teamdash/shared/errors"
	"github.com/teamdash/teamdash/shared/utils"
)

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboard.Summary()
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) SummaryGraphs(w http.ResponseWriter, r *http.Request) {
	graphs, err := h.dashboard.SummaryGraphs()
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, graphs)
}

// Graph handles GET /api/{team}/graph/{graph_type} and answers with a PNG.
func (h *Handler) Graph(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	opts := service.GraphOptions{ThreatType: r.URL.Query().Get("threat_type")}
	png, err := h.graph.Render(kind, chi.URLParam(r, "graph_type"), opts)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

const topThreatsLimit = 5

func securityOnly(r *http.Request) error {
	kind, err := kindParam(r)
	if err != nil {
		return err
	}
	if kind != domain.KindSecurity {
		return errors.NotFound("Threat types exist for security only")
	}
	return nil
}

// ThreatTypes lists every distinct threat type for the threat_m picker.
func (h *Handler) ThreatTypes(w http.ResponseWriter, r *http.Request) {
	if err := securityOnly(r); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	types, err := h.graph.ThreatTypes()
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, types)
}

func (h *Handler) TopThreats(w http.ResponseWriter, r *http.Request) {
	if err := securityOnly(r); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	top, err := h.graph.TopThreats(topThreatsLimit)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.TopThreatsResponse{TopThreats: top})
}
