package handler

import (
	"net/http"

	"github.com/teamdash/teamdash/backend/internal/service"
	"github.com/teamdash/teamdash/shared/api"
	"github.com/teamdash/teamdash/shared/domain"
	"github.com/teamdash/teamdash/shared/errors"
	"github.com/teamdash/teamdash/shared/utils"
)

func (h *Handler) AdminJoin(w http.ResponseWriter, r *http.Request) {
	var body api.AdminJoinRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	acc, err := h.account.AdminJoin(domain.Account{
		UserId:   body.UserId,
		Nickname: body.Nickname,
		Team:     domain.Team(body.Team),
		Phone:    body.Phone,
	}, body.Password)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, acc)
}

func (h *Handler) InviteMember(w http.ResponseWriter, r *http.Request) {
	var body api.MemberInviteRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	t, err := accountType(body.AccountType)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	res, err := h.account.Invite(service.InviteRequest{
		Type:      t,
		UserId:    body.UserId,
		Nickname:  body.Nickname,
		Email:     body.Email,
		Team:      domain.Team(body.Team),
		Phone:     body.Phone,
		CompanyId: body.CompanyId,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, api.InviteResponse{
		Account:    res.Account,
		EmailSent:  res.EmailSent,
		EmailError: res.EmailError,
	})
}

func (h *Handler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	h.writeAccounts(w, h.account.Admins)
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	h.writeAccounts(w, h.account.Members)
}

func (h *Handler) writeAccounts(w http.ResponseWriter, list func() ([]domain.Account, error)) {
	accounts, err := list()
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	// Return empty array instead of null
	if accounts == nil {
		accounts = []domain.Account{}
	}
	utils.WriteJSON(w, http.StatusOK, api.AccountListResponse{Accounts: accounts})
}

func (h *Handler) CheckDuplicate(w http.ResponseWriter, r *http.Request) {
	var kind domain.AccountKeyKind
	switch r.URL.Query().Get("field") {
	case "userId", "user_id":
		kind = domain.KeyUserId
	case "nickname":
		kind = domain.KeyNickname
	default:
		utils.WriteErrorAndStatusCode(w, errors.BadRequest("field must be userId or nickname"))
		return
	}

	taken, err := h.account.CheckDuplicate(kind, r.URL.Query().Get("value"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.DuplicateResponse{Duplicate: taken})
}

func (h *Handler) DeleteAccounts(w http.ResponseWriter, r *http.Request) {
	var body api.DeleteAccountsRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	n, err := h.account.Delete(domain.AccountType(body.AccountType), body.UserIds)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.DeletedResponse{Deleted: n})
}
