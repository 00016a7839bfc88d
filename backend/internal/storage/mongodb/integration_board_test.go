package mongodb

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamdash/teamdash/shared/domain"
	internal_errors "github.com/teamdash/teamdash/shared/errors"
)

func post(title, date, clock string, notice bool) domain.Post {
	return domain.Post{Title: title, Content: "body", WriterId: "kim", WriterNickname: "Kim", CreatedDate: date, CreatedTime: clock, IsNotice: notice}
}

func TestPostsOrderingAndPaging(t *testing.T) {
	s := newTestStorage(t)

	for i, p := range []domain.Post{
		post("old", "2025-06-01", "09:00:00", false),
		post("notice", "2025-05-01", "09:00:00", true),
		post("new", "2025-06-02", "09:00:00", false),
		post("newer same day", "2025-06-02", "10:00:00", false),
	} {
		_, err := s.SavePost(p)
		require.NoError(t, err, i)
	}
	deleted, err := s.SavePost(post("deleted", "2025-06-03", "09:00:00", false))
	require.NoError(t, err)
	_, err = s.SoftDeletePost(deleted, domain.NewStamp(time.Now()))
	require.NoError(t, err)

	page, err := s.Posts(0, 3)
	require.NoError(t, err)
	titles := []string{}
	for _, p := range page.Posts {
		titles = append(titles, p.Title)
	}
	assert.Equal(t, []string{"notice", "newer same day", "new"}, titles)
	assert.Equal(t, int64(4), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)

	page, err = s.Posts(1, 3)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "old", page.Posts[0].Title)
}

func TestViewPostCountsEveryFetch(t *testing.T) {
	s := newTestStorage(t)
	id, err := s.SavePost(post("hello", "2025-06-01", "09:00:00", false))
	require.NoError(t, err)

	const fetches = 5
	var last domain.Post
	for i := 0; i < fetches; i++ {
		last, err = s.ViewPost(id)
		require.NoError(t, err)
	}
	assert.Equal(t, fetches, last.ViewCount)

	p, err := s.Post(id)
	require.NoError(t, err)
	assert.Equal(t, fetches, p.ViewCount, "Post must not count a view")
}

func TestSoftDeletePostCascades(t *testing.T) {
	s := newTestStorage(t)
	id, err := s.SavePost(post("thread", "2025-06-01", "09:00:00", false))
	require.NoError(t, err)

	const live = 3
	for i := 0; i < live; i++ {
		_, err := s.SaveComment(domain.Comment{PostId: id, WriterId: "lee", Content: fmt.Sprintf("c%d", i), CreatedDate: "2025-06-01", CreatedTime: "10:00:00"})
		require.NoError(t, err)
	}
	earlier, err := s.SaveComment(domain.Comment{PostId: id, WriterId: "lee", Content: "removed before", CreatedDate: "2025-06-01", CreatedTime: "09:30:00"})
	require.NoError(t, err)
	require.NoError(t, s.SoftDeleteComment(earlier, domain.Stamp{Date: "2025-06-01", Time: "09:31:00"}))

	stamp := domain.Stamp{Date: "2025-06-05", Time: "12:00:00"}
	n, err := s.SoftDeletePost(id, stamp)
	require.NoError(t, err)
	assert.Equal(t, int64(live), n)

	comments, err := s.Comments(id)
	require.NoError(t, err)
	assert.Empty(t, comments)

	all, err := findAll[domain.Comment](t.Context(), s.coll(commentsCollection), map[string]any{"postId": id})
	require.NoError(t, err)
	for _, c := range all {
		assert.True(t, c.Deleted)
		if c.Id == earlier {
			assert.Equal(t, "09:31:00", *c.DeletedTime, "earlier deletion stamp is kept")
			continue
		}
		assert.Equal(t, stamp.Date, *c.DeletedDate)
		assert.Equal(t, stamp.Time, *c.DeletedTime)
	}

	_, err = s.ViewPost(id)
	assert.True(t, internal_errors.IsNotFound(err))
	_, err = s.SoftDeletePost(id, stamp)
	assert.True(t, internal_errors.IsNotFound(err), "deletion is not repeatable")
	assert.True(t, internal_errors.IsNotFound(s.SoftDeleteComment(earlier, stamp)))
	_, err = s.Comment(earlier)
	assert.True(t, internal_errors.IsNotFound(err))
}

func TestUpdatePost(t *testing.T) {
	s := newTestStorage(t)
	id, err := s.SavePost(post("draft", "2025-06-01", "09:00:00", false))
	require.NoError(t, err)

	title := "final"
	require.NoError(t, s.UpdatePost(id, domain.PostPatch{Title: &title}))
	require.NoError(t, s.MarkPostAnswered(id))

	p, err := s.Post(id)
	require.NoError(t, err)
	assert.Equal(t, "final", p.Title)
	assert.Equal(t, "body", p.Content)
	assert.True(t, p.IsAnswered)

	assert.True(t, internal_errors.IsNotFound(s.UpdatePost(domain.Id{7}, domain.PostPatch{Title: &title})))
}

func TestLegacyCommentsWithStringPostId(t *testing.T) {
	s := newTestStorage(t)
	id, err := s.SavePost(post("imported", "2025-06-01", "09:00:00", false))
	require.NoError(t, err)

	_, err = s.coll(commentsCollection).InsertOne(t.Context(), map[string]any{
		"postId":         id.Hex(),
		"writerId":       "secadmin01",
		"writerNickname": "Boss",
		"team":           "보안팀",
		"content":        "written by the old board",
		"createdDate":    "2025-06-01",
		"createdTime":    "09:10:00",
		"deleted":        false,
		"deletedDate":    nil,
		"deletedTime":    nil,
	})
	require.NoError(t, err)
	_, err = s.SaveComment(domain.Comment{PostId: id, WriterId: "lee", Content: "new", CreatedDate: "2025-06-01", CreatedTime: "09:20:00"})
	require.NoError(t, err)

	comments, err := s.Comments(id)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, id, comments[0].PostId)
	assert.Equal(t, domain.TeamSecurity, comments[0].WriterTeam)
	assert.Equal(t, "new", comments[1].Content)

	n, err := s.SoftDeletePost(id, domain.Stamp{Date: "2025-06-05", Time: "12:00:00"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n, "string and ObjectId references are both cascaded")

	comments, err = s.Comments(id)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
