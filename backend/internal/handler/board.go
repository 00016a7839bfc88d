package handler

import (
	"net/http"

	"github.com/teamdash/teamdash/shared/api"
	"github.com/teamdash/teamdash/shared/domain"
	"github.com/teamdash/teamdash/shared/errors"
	"github.com/teamdash/teamdash/shared/utils"
)

const defaultPage int = 0

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	actor, err := principal(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.CreatePostRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	id, err := h.post.Create(actor, domain.Post{
		Title:    body.Title,
		Content:  body.Content,
		WriterId: body.WriterId,
		IsNotice: body.IsNotice,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, api.CreatedResponse{Id: id.Hex()})
}

// ListPosts handles GET /api/posts?page=0&size=30. Pages are zero based; size 0
// or missing means the configured default.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", defaultPage)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	size, err := queryInt(r, "size", 0)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	res, err := h.post.List(page, size)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	posts := res.Posts
	if posts == nil {
		posts = []domain.Post{}
	}
	utils.WriteJSON(w, http.StatusOK, api.PostListResponse{
		Posts:         posts,
		Page:          res.Page,
		Size:          res.Size,
		TotalElements: res.TotalElements,
		TotalPages:    res.TotalPages,
	})
}

func (h *Handler) ViewPost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	post, err := h.post.View(id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, post)
}

func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	actor, err := principal(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	id, err := idParam(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var patch domain.PostPatch
	if err := utils.Decode(r.Body, &patch); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if patch.Empty() {
		utils.WriteErrorAndStatusCode(w, errors.BadRequest("Nothing to update"))
		return
	}

	if err := h.post.Update(actor, id, patch); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.MessageResponse{Message: "Updated"})
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	actor, err := principal(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	id, err := idParam(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.post.Delete(actor, id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	actor, err := principal(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.CreateCommentRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	postId, ok := domain.ParseId(body.PostId)
	if !ok {
		utils.WriteErrorAndStatusCode(w, errors.BadRequest("Invalid postId"))
		return
	}

	id, err := h.comment.Create(actor, domain.Comment{
		PostId:   postId,
		WriterId: body.WriterId,
		Content:  body.Content,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, api.CreatedResponse{Id: id.Hex()})
}

// ListComments handles GET /api/comments/{id} where id is the post id.
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	postId, err := idParam(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	comments, err := nonNil(h.comment.List(postId))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.CommentListResponse{Comments: comments})
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	actor, err := principal(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	id, err := idParam(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.comment.Delete(actor, id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
