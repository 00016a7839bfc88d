package api

import "github.com/teamdash/teamdash/shared/domain"

// Request DTOs

type LoginRequest struct {
	UserId   string `json:"userId" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	UserId      string `json:"userId" validate:"required"`
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=4"`
	AccountType string `json:"accountType" validate:"omitempty,oneof=member admin"`
}

type ChangeNicknameRequest struct {
	UserId      string `json:"userId" validate:"required"`
	NewNickname string `json:"new_nickname" validate:"required"`
	AccountType string `json:"accountType" validate:"omitempty,oneof=member admin"`
}

// Response DTOs

type LoginResponse struct {
	Id          string             `json:"id"`
	UserId      string             `json:"userId"`
	Nickname    string             `json:"nickname"`
	Type        domain.AccountType `json:"type"`
	Team        domain.Team        `json:"team,omitempty"`
	AccessToken string             `json:"access_token,omitempty"` // Token for non-cookie clients
}

type MessageResponse struct {
	Message string `json:"message"`
}
