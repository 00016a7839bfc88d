package api

import "github.com/teamdash/teamdash/shared/domain"

// Request DTOs

type AdminJoinRequest struct {
	UserId   string `json:"userId" validate:"required"`
	Password string `json:"password" validate:"required,min=4"`
	Nickname string `json:"nickname" validate:"required"`
	Team     string `json:"team" validate:"required,oneof=management business security development"`
	Phone    string `json:"phone,omitempty"`
}

type MemberInviteRequest struct {
	UserId      string `json:"userId" validate:"required"`
	Nickname    string `json:"nickname" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	AccountType string `json:"accountType" validate:"omitempty,oneof=member admin"`
	Team        string `json:"team,omitempty" validate:"omitempty,oneof=management business security development"`
	Phone       string `json:"phone,omitempty"`
	CompanyId   string `json:"company_id,omitempty"`
}

type DeleteAccountsRequest struct {
	AccountType string   `json:"accountType" validate:"required,oneof=member admin"`
	UserIds     []string `json:"userIds" validate:"required,min=1"`
}

// Response DTOs

type AccountListResponse struct {
	Accounts []domain.Account `json:"accounts"`
}

type InviteResponse struct {
	Account    domain.Account `json:"account"`
	EmailSent  bool           `json:"emailSent"`
	EmailError string         `json:"emailError,omitempty"`
}

type DuplicateResponse struct {
	Duplicate bool `json:"duplicate"`
}

type DeletedResponse struct {
	Deleted int64 `json:"deleted"`
}
