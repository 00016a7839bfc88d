package service

import (
	"time"

	"github.com/teamdash/teamdash/shared/domain"
)

// Clock returns the current time. Services take one so tests can pin "today".
type Clock func() time.Time

func (c Clock) today() domain.Date {
	if c == nil {
		return domain.NewDate(time.Now())
	}
	return domain.NewDate(c())
}

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}
