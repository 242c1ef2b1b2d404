package schedule

import (
	"time"

	planerrors "github.com/Greenjacket-nomad/personal-plan/internal/errors"
)

// DateLayout is the canonical calendar-day form. ISO dates compare
// lexically, so string comparison and SQL MAX both order them correctly.
const DateLayout = "2006-01-02"

// ParseDate validates a YYYY-MM-DD string and returns its canonical form.
func ParseDate(s string) (string, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", planerrors.ErrDateInvalid(s).WithCause(err)
	}
	return t.Format(DateLayout), nil
}

// NextDay returns the calendar day after date.
func NextDay(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, 1).Format(DateLayout)
}

// Today returns the current calendar day.
func Today() string {
	return time.Now().Format(DateLayout)
}
