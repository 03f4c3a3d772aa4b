package validators

import (
	"errors"
	"time"
)

var (
	ErrEventTitleEmpty   = errors.New("event title can't be empty")
	ErrEventTitleTooLong = errors.New("event title is too long")
	ErrEventTimesInvalid = errors.New("event must start before it ends")
)

func EventValidator(title string, startsAt, endsAt time.Time) error {
	if title == "" {
		return ErrEventTitleEmpty
	}

	if len(title) > 200 {
		return ErrEventTitleTooLong
	}

	if startsAt.IsZero() || endsAt.IsZero() || !startsAt.Before(endsAt) {
		return ErrEventTimesInvalid
	}

	return nil
}
