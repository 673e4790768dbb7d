package domain

import "time"

type Tracking struct {
	ID          uint
	ChatID      int64
	TrainID     uint
	Snapshot    Snapshot
	NextCheckAt time.Time
}

// DueTracking is a tracking entry joined with the route and train data the
// scheduler needs to check it.
type DueTracking struct {
	Tracking
	TrainNumber string
	TimeDepart  string
	RouteDate   string
	URL         string
}

func (d DueTracking) Departure(loc *time.Location) (time.Time, error) {
	return Departure(d.RouteDate, d.TimeDepart, loc)
}

type TrackingView struct {
	ID          uint
	TrainNumber string
	CityFrom    string
	CityTo      string
	RouteDate   string
	TimeDepart  string
	Snapshot    Snapshot
	NextCheckAt time.Time
}
