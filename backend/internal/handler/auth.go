package handler

import (
	"net/http"

	"github.com/teamdash/teamdash/shared/api"
	"github.com/teamdash/teamdash/shared/domain"
	mw "github.com/teamdash/teamdash/shared/middleware"
	"github.com/teamdash/teamdash/shared/utils"
)

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body api.LoginRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	res, err := h.auth.Login(domain.UserId(body.UserId), domain.Password(body.Password))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	http.SetCookie(w, h.tokenCookie(res.AccessToken, int(h.cfg.JwtTTL().Seconds())))

	utils.WriteJSON(w, http.StatusOK, api.LoginResponse{
		Id:          res.Account.Id.Hex(),
		UserId:      res.Account.UserId,
		Nickname:    res.Account.Nickname,
		Type:        res.Account.Type,
		Team:        res.Account.Team,
		AccessToken: res.AccessToken,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.tokenCookie("", -1))
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) tokenCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Path:     "/",
		Name:     mw.AccessTokenCookie,
		Value:    value,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var body api.ChangePasswordRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	t, err := accountType(body.AccountType)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if err := selfOrAdmin(r, body.UserId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.auth.ChangePassword(t, body.UserId, body.OldPassword, body.NewPassword); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.MessageResponse{Message: "Password changed"})
}

func (h *Handler) ChangeNickname(w http.ResponseWriter, r *http.Request) {
	var body api.ChangeNicknameRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	t, err := accountType(body.AccountType)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if err := selfOrAdmin(r, body.UserId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.auth.ChangeNickname(t, body.UserId, body.NewNickname); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.MessageResponse{Message: "Nickname changed"})
}
