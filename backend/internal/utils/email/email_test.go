package email

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/teamdash/teamdash/shared/config"
	internal_errors "github.com/teamdash/teamdash/shared/errors"
)

func TestBuildMessage(t *testing.T) {
	s := New(&config.Email{Username: "noreply@teamdash.dev", SenderName: "팀 대시보드"})
	msg := string(s.buildMessage("lee@example.com", "계정 안내", "hello", time.Date(2025, 6, 18, 9, 0, 0, 0, time.UTC)))

	assert.Contains(t, msg, "To: lee@example.com\r\n")
	assert.Contains(t, msg, "@teamdash.dev>\r\n")
	assert.Contains(t, msg, "Date: Wed, 18 Jun 2025 09:00:00 +0000\r\n")
	assert.Contains(t, msg, "Subject: =?utf-8?q?")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\nhello"))
}

func TestSendWithoutServer(t *testing.T) {
	s := New(&config.Email{})
	assert.ErrorIs(t, s.Send("lee@example.com", "s", "b"), ErrNotConfigured)
}

func TestIsCorrect(t *testing.T) {
	s := New(&config.Email{})
	assert.NoError(t, s.IsCorrect("lee@example.com"))
	err := s.IsCorrect("not an address")
	assert.Equal(t, 400, internal_errors.StatusCode(err))
}
