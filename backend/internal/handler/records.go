package handler

import (
	"net/http"

	"github.com/teamdash/teamdash/shared/api"
	"github.com/teamdash/teamdash/shared/domain"
	"github.com/teamdash/teamdash/shared/errors"
	"github.com/teamdash/teamdash/shared/utils"
)

// ListRecords handles GET /api/{team}. The list is wrapped under the kind's key,
// e.g. {"companies": [...]}.
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var list any
	switch kind {
	case domain.KindBiz:
		list, err = nonNil(h.records.Companies())
	case domain.KindDev:
		list, err = nonNil(h.records.DevProjects())
	case domain.KindSecurity:
		list, err = nonNil(h.records.Incidents())
	}
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{kind.ListKey(): list})
}

func nonNil[T any](list []T, err error) ([]T, error) {
	if list == nil {
		list = []T{}
	}
	return list, err
}

func (h *Handler) Columns(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	columns, err := nonNil(h.records.Columns(kind))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.ColumnsResponse{Columns: columns})
}

func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var id domain.Id
	switch kind {
	case domain.KindBiz:
		var body domain.Company
		if err = utils.Decode(r.Body, &body); err == nil {
			id, err = h.records.CreateCompany(body)
		}
	case domain.KindDev:
		var body domain.DevProject
		if err = utils.Decode(r.Body, &body); err == nil {
			id, err = h.records.CreateDevProject(body)
		}
	case domain.KindSecurity:
		var body domain.Incident
		if err = utils.Decode(r.Body, &body); err == nil {
			id, err = h.records.CreateIncident(body)
		}
	}
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, api.CreatedResponse{Id: id.Hex()})
}

// UpdateRecord handles PUT /api/{team}/{id}. Only fields present in the body change.
func (h *Handler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	id, err := idParam(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	switch kind {
	case domain.KindBiz:
		var patch domain.CompanyPatch
		if err = utils.Decode(r.Body, &patch); err == nil {
			err = h.records.UpdateCompany(id, patch)
		}
	case domain.KindDev:
		var patch domain.DevPatch
		if err = utils.Decode(r.Body, &patch); err == nil {
			err = h.records.UpdateDevProject(id, patch)
		}
	case domain.KindSecurity:
		var patch domain.IncidentPatch
		if err = utils.Decode(r.Body, &patch); err == nil {
			err = h.records.UpdateIncident(id, patch)
		}
	}
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.MessageResponse{Message: "Updated"})
}

// DeleteRecords handles DELETE /api/{team} with {"ids": [...]}.
func (h *Handler) DeleteRecords(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.DeleteRecordsRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if body.Team != "" {
		bodyKind, err := domain.ParseRecordKind(body.Team)
		if err != nil || bodyKind != kind {
			utils.WriteErrorAndStatusCode(w, errors.BadRequest("team does not match the route"))
			return
		}
	}

	n, err := h.records.DeleteRecords(kind, body.Ids)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.DeletedResponse{Deleted: n})
}

func (h *Handler) NextCompanyId(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if kind != domain.KindBiz {
		utils.WriteErrorAndStatusCode(w, errors.NotFound("Company ids exist for biz only"))
		return
	}

	next, err := h.records.NextCompanyId(domain.Industry(r.URL.Query().Get("industry")))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.NextCompanyIdResponse{NextCompanyId: next})
}
