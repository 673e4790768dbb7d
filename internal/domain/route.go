package domain

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

const timeOfDayLayout = "15:04"

type Route struct {
	ID       uint
	CityFrom string
	CityTo   string
	Date     string
	URL      string
}

type Train struct {
	ID         uint
	RouteID    uint
	Number     string
	TimeDepart string
	TimeArrive string
}

// Departure combines a route date and a departure time of day in loc.
// A time of day that cannot be parsed resolves to the last minute of the date.
func Departure(date, timeOfDay string, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, strings.TrimSpace(date), loc)
	if err != nil {
		return time.Time{}, err
	}
	clock, err := time.Parse(timeOfDayLayout, strings.TrimSpace(timeOfDay))
	if err != nil {
		return day.Add(23*time.Hour + 59*time.Minute), nil
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, loc), nil
}
