package usecase

import (
	"errors"
	"strings"
	"time"

	"github.com/NasaVasa/railtrack/internal/domain"
)

// MaxDaysAhead is how far ahead the ticket site sells.
const MaxDaysAhead = 59

var (
	ErrInvalidDate = errors.New("invalid date")
	ErrPastDate    = errors.New("date in the past")
	ErrDateTooFar  = errors.New("date too far ahead")
)

var dateLayouts = []string{
	"2.1.2006",
	"2/1/2006",
	"2-1-2006",
	"2006-1-2",
	"2 1 2006",
	"2006 1 2",
}

// NormalizeDate parses user input into YYYY-MM-DD against the calendar day
// of today. It accepts the layouts above and the keywords for today and
// tomorrow.
func NormalizeDate(input string, today time.Time) (string, error) {
	day := civilDay(today)
	text := strings.Join(strings.Fields(input), " ")

	switch strings.ToLower(text) {
	case "сегодня", "today":
		return day.Format(domain.DateLayout), nil
	case "завтра", "tomorrow":
		return day.AddDate(0, 0, 1).Format(domain.DateLayout), nil
	}

	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, text)
		if err != nil {
			continue
		}
		if err := CheckDateWindow(parsed, today); err != nil {
			return "", err
		}
		return parsed.Format(domain.DateLayout), nil
	}
	return "", ErrInvalidDate
}

// CheckDateWindow rejects days before today or more than MaxDaysAhead days
// after it.
func CheckDateWindow(date, today time.Time) error {
	day, first := civilDay(date), civilDay(today)
	if day.Before(first) {
		return ErrPastDate
	}
	if day.After(first.AddDate(0, 0, MaxDaysAhead)) {
		return ErrDateTooFar
	}
	return nil
}

// DateWindow returns the first and last selectable travel days.
func DateWindow(today time.Time) (time.Time, time.Time) {
	first := civilDay(today)
	return first, first.AddDate(0, 0, MaxDaysAhead)
}

func civilDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
