package service

import (
	"strings"

	"github.com/teamdash/teamdash/shared/domain"
	"github.com/teamdash/teamdash/shared/errors"
	"github.com/teamdash/teamdash/shared/logger"
)

type CommentService interface {
	Create(actor domain.Principal, c domain.Comment) (domain.Id, error)
	List(postId domain.Id) ([]domain.Comment, error)
	Delete(actor domain.Principal, id domain.Id) error
}

type CommentStorage interface {
	SaveComment(c domain.Comment) (domain.Id, error)
	Comments(postId domain.Id) ([]domain.Comment, error)
	Comment(id domain.Id) (domain.Comment, error)
	SoftDeleteComment(id domain.Id, stamp domain.Stamp) error
	Post(id domain.Id) (domain.Post, error)
	MarkPostAnswered(id domain.Id) error
}

type Comment struct {
	storage  CommentStorage
	writers  WriterStorage
	renderer ContentRenderer
	cfg      BoardConfig
	clock    Clock
}

func NewComment(storage CommentStorage, writers WriterStorage, renderer ContentRenderer, cfg BoardConfig, clock Clock) *Comment {
	return &Comment{storage: storage, writers: writers, renderer: renderer, cfg: cfg, clock: clock}
}

// Create adds a comment to a live post. A staff comment marks the post answered.
func (s *Comment) Create(actor domain.Principal, c domain.Comment) (domain.Id, error) {
	if strings.TrimSpace(c.Content) == "" {
		return domain.Id{}, errors.BadRequest("Content is required")
	}
	if err := checkContent(c.Content, s.cfg.MaxContentLen); err != nil {
		return domain.Id{}, err
	}
	if !canActAs(actor, c.WriterId) {
		return domain.Id{}, errors.Forbidden("Cannot comment as another user")
	}
	if _, err := s.storage.Post(c.PostId); err != nil {
		return domain.Id{}, err
	}
	w, err := lookupWriter(s.writers, c.WriterId)
	if err != nil {
		return domain.Id{}, err
	}

	stamp := domain.NewStamp(s.clock.now())
	comment := domain.Comment{
		PostId:         c.PostId,
		WriterId:       c.WriterId,
		WriterNickname: w.nickname,
		WriterTeam:     w.team,
		Content:        c.Content,
		CreatedDate:    stamp.Date,
		CreatedTime:    stamp.Time,
	}
	id, err := s.storage.SaveComment(comment)
	if err != nil {
		return domain.Id{}, err
	}
	if w.isStaff {
		if err := s.storage.MarkPostAnswered(c.PostId); err != nil {
			logger.Log.Error("failed to mark post answered", "post_id", c.PostId.Hex(), "error", err)
		}
	}
	return id, nil
}

func (s *Comment) List(postId domain.Id) ([]domain.Comment, error) {
	comments, err := s.storage.Comments(postId)
	if err != nil {
		return nil, err
	}
	for i := range comments {
		comments[i].ContentHtml = s.renderer.Render(comments[i].Content)
	}
	return comments, nil
}

func (s *Comment) Delete(actor domain.Principal, id domain.Id) error {
	c, err := s.storage.Comment(id)
	if err != nil {
		return err
	}
	if !canActAs(actor, c.WriterId) {
		return errors.Forbidden("Only the writer can delete this comment")
	}
	return s.storage.SoftDeleteComment(id, domain.NewStamp(s.clock.now()))
}
