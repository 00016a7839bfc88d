package service

import (
	"unicode/utf8"

	"github.com/teamdash/teamdash/shared/domain"
	"github.com/teamdash/teamdash/shared/errors"
)

const maxPageSize = 100

type BoardConfig struct {
	DefaultPageSize int
	MaxContentLen   int
}

// WriterStorage finds the account behind a post or comment writer id.
type WriterStorage interface {
	Account(t domain.AccountType, userId domain.UserId) (domain.Account, error)
}

// ContentRenderer turns stored markdown into sanitized HTML.
type ContentRenderer interface {
	Render(text string) string
}

type writer struct {
	nickname domain.Nickname
	team     domain.Team
	isStaff  bool
}

// lookupWriter checks members first, then staff.
func lookupWriter(storage WriterStorage, userId domain.UserId) (writer, error) {
	for _, t := range []domain.AccountType{domain.AccountMember, domain.AccountAdmin} {
		acc, err := storage.Account(t, userId)
		if errors.IsNotFound(err) {
			continue
		}
		if err != nil {
			return writer{}, err
		}
		return writer{nickname: acc.Nickname, team: acc.Team, isStaff: t == domain.AccountAdmin}, nil
	}
	return writer{}, errors.BadRequest("Unknown writer")
}

// canActAs reports whether the principal may write on behalf of userId.
func canActAs(actor domain.Principal, userId domain.UserId) bool {
	return actor.IsAdmin() || actor.UserId == userId
}

func checkContent(content string, maxLen int) error {
	if maxLen > 0 && utf8.RuneCountInString(content) > maxLen {
		return errors.BadRequest("Content is too long")
	}
	return nil
}
