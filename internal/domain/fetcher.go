package domain

import "context"

type SnapshotFetcher interface {
	FetchSnapshot(ctx context.Context, routeURL, trainNumber string) Snapshot
}

// TrainInspection is what the route page says about one train.
type TrainInspection struct {
	Listed                bool
	Snapshot              Snapshot
	SecondsUntilDeparture int
}

type RouteFetcher interface {
	SnapshotFetcher
	RouteURL(cityFrom, cityTo, date string) string
	FetchTrains(ctx context.Context, routeURL string) ([]Train, error)
	InspectTrain(ctx context.Context, routeURL, trainNumber string) (*TrainInspection, error)
}
