package service

import (
	"strings"

	"github.com/teamdash/teamdash/shared/domain"
	"github.com/teamdash/teamdash/shared/errors"
)

type PostService interface {
	Create(actor domain.Principal, p domain.Post) (domain.Id, error)
	List(page, size int) (domain.PostPage, error)
	View(id domain.Id) (domain.Post, error)
	Update(actor domain.Principal, id domain.Id, patch domain.PostPatch) error
	Delete(actor domain.Principal, id domain.Id) error
}

type PostStorage interface {
	SavePost(p domain.Post) (domain.Id, error)
	Posts(page, size int) (domain.PostPage, error)
	ViewPost(id domain.Id) (domain.Post, error)
	Post(id domain.Id) (domain.Post, error)
	UpdatePost(id domain.Id, patch domain.PostPatch) error
	SoftDeletePost(id domain.Id, stamp domain.Stamp) (int64, error)
}

type Post struct {
	storage  PostStorage
	writers  WriterStorage
	renderer ContentRenderer
	cfg      BoardConfig
	clock    Clock
}

func NewPost(storage PostStorage, writers WriterStorage, renderer ContentRenderer, cfg BoardConfig, clock Clock) *Post {
	return &Post{storage: storage, writers: writers, renderer: renderer, cfg: cfg, clock: clock}
}

func (s *Post) Create(actor domain.Principal, p domain.Post) (domain.Id, error) {
	if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Content) == "" {
		return domain.Id{}, errors.BadRequest("Title and content are required")
	}
	if err := checkContent(p.Content, s.cfg.MaxContentLen); err != nil {
		return domain.Id{}, err
	}
	if !canActAs(actor, p.WriterId) {
		return domain.Id{}, errors.Forbidden("Cannot post as another user")
	}
	w, err := lookupWriter(s.writers, p.WriterId)
	if err != nil {
		return domain.Id{}, err
	}
	if p.IsNotice && !w.isStaff {
		return domain.Id{}, errors.Forbidden("Only staff can post notices")
	}

	stamp := domain.NewStamp(s.clock.now())
	post := domain.Post{
		Title:          p.Title,
		Content:        p.Content,
		WriterId:       p.WriterId,
		WriterNickname: w.nickname,
		WriterTeam:     w.team,
		CreatedDate:    stamp.Date,
		CreatedTime:    stamp.Time,
		IsNotice:       p.IsNotice,
	}
	return s.storage.SavePost(post)
}

func (s *Post) List(page, size int) (domain.PostPage, error) {
	if size == 0 {
		size = s.cfg.DefaultPageSize
	}
	if page < 0 {
		return domain.PostPage{}, errors.BadRequest("page must not be negative")
	}
	if size < 1 || size > maxPageSize {
		return domain.PostPage{}, errors.BadRequest("size must be between 1 and 100")
	}
	result, err := s.storage.Posts(page, size)
	if err != nil {
		return domain.PostPage{}, err
	}
	for i := range result.Posts {
		result.Posts[i].ContentHtml = s.renderer.Render(result.Posts[i].Content)
	}
	return result, nil
}

// View counts every call.
func (s *Post) View(id domain.Id) (domain.Post, error) {
	p, err := s.storage.ViewPost(id)
	if err != nil {
		return domain.Post{}, err
	}
	p.ContentHtml = s.renderer.Render(p.Content)
	return p, nil
}

func (s *Post) Update(actor domain.Principal, id domain.Id, patch domain.PostPatch) error {
	if patch.Empty() {
		return errors.BadRequest("Nothing to update")
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return errors.BadRequest("Title must not be empty")
	}
	if patch.Content != nil {
		if strings.TrimSpace(*patch.Content) == "" {
			return errors.BadRequest("Content must not be empty")
		}
		if err := checkContent(*patch.Content, s.cfg.MaxContentLen); err != nil {
			return err
		}
	}
	p, err := s.storage.Post(id)
	if err != nil {
		return err
	}
	if !canActAs(actor, p.WriterId) {
		return errors.Forbidden("Only the writer can edit this post")
	}
	if (patch.IsNotice != nil || patch.IsAnswered != nil) && !actor.IsAdmin() {
		return errors.Forbidden("Only staff can change post flags")
	}
	return s.storage.UpdatePost(id, patch)
}

// Delete soft-deletes the post together with its live comments.
func (s *Post) Delete(actor domain.Principal, id domain.Id) error {
	p, err := s.storage.Post(id)
	if err != nil {
		return err
	}
	if !canActAs(actor, p.WriterId) {
		return errors.Forbidden("Only the writer can delete this post")
	}
	_, err = s.storage.SoftDeletePost(id, domain.NewStamp(s.clock.now()))
	return err
}
