package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrTrackingExists = errors.New("tracking already exists")
	ErrTrackingLimit  = errors.New("tracking limit reached")
)

type UserRepository interface {
	Ensure(ctx context.Context, chatID int64) error
	Exists(ctx context.Context, chatID int64) (bool, error)
	Delete(ctx context.Context, chatID int64) error
}

type RouteRepository interface {
	Ensure(ctx context.Context, route *Route) error
	FindRoute(ctx context.Context, routeURL string) (*Route, error)
	AddTrains(ctx context.Context, routeID uint, trains []Train) error
	ListTrains(ctx context.Context, routeURL string) ([]Train, error)
	FindTrain(ctx context.Context, routeURL string, trainID uint) (*Train, error)
	DeleteBefore(ctx context.Context, date string) (int64, error)
}

type TrackingRepository interface {
	Create(ctx context.Context, tracking *Tracking) (bool, error)
	CreateCapped(ctx context.Context, tracking *Tracking, limit int) error
	Exists(ctx context.Context, chatID int64, trainID uint) (bool, error)
	CountForUser(ctx context.Context, chatID int64) (int64, error)
	ListForUser(ctx context.Context, chatID int64) ([]TrackingView, error)
	ClaimDue(ctx context.Context, now time.Time, limit int, lease time.Duration) ([]DueTracking, error)
	UpdateSnapshot(ctx context.Context, id uint, snapshot Snapshot, nextCheckAt time.Time) error
	Reschedule(ctx context.Context, id uint, nextCheckAt time.Time) error
	Delete(ctx context.Context, id uint) error
	DeleteForUser(ctx context.Context, chatID int64, id uint) error
	DeleteAllForUser(ctx context.Context, chatID int64) (int64, error)
}

type SessionRepository interface {
	Get(ctx context.Context, chatID int64) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, chatID int64) error
}
