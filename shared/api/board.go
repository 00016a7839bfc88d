package api

import "github.com/teamdash/teamdash/shared/domain"

// Request DTOs

type CreatePostRequest struct {
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
	WriterId string `json:"writerId" validate:"required"`
	IsNotice bool   `json:"isNotice,omitempty"`
}

type CreateCommentRequest struct {
	PostId   string `json:"postId" validate:"required"`
	WriterId string `json:"writerId" validate:"required"`
	Content  string `json:"content" validate:"required"`
}

// Response DTOs

type PostListResponse struct {
	Posts         []domain.Post `json:"posts"`
	Page          int           `json:"page"`
	Size          int           `json:"size"`
	TotalElements int64         `json:"totalElements"`
	TotalPages    int           `json:"totalPages"`
}

type CommentListResponse struct {
	Comments []domain.Comment `json:"comments"`
}
