package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/NasaVasa/railtrack/internal/domain"
	"github.com/NasaVasa/railtrack/internal/infra/metrics"
	"go.uber.org/zap"
)

var (
	ErrUserNotRegistered = errors.New("user not registered")
	ErrRouteLost         = errors.New("route lost")
	ErrTrackingNotFound  = errors.New("tracking not found")
)

type Outcome string

const (
	OutcomeStarted        Outcome = "started"
	OutcomeAlreadyTracked Outcome = "already_tracked"
	OutcomeCapExceeded    Outcome = "cap_exceeded"
	OutcomeFetchFailed    Outcome = "fetch_failed"
)

type TrackingUsecase struct {
	users     domain.UserRepository
	routes    domain.RouteRepository
	trackings domain.TrackingRepository
	fetcher   domain.SnapshotFetcher
	metrics   *metrics.Metrics
	logger    *zap.Logger
	limit     int
	now       func() time.Time
}

func NewTrackingUsecase(users domain.UserRepository, routes domain.RouteRepository, trackings domain.TrackingRepository, fetcher domain.SnapshotFetcher, limit int, m *metrics.Metrics, logger *zap.Logger) *TrackingUsecase {
	return &TrackingUsecase{
		users:     users,
		routes:    routes,
		trackings: trackings,
		fetcher:   fetcher,
		metrics:   m,
		logger:    logger,
		limit:     limit,
		now:       time.Now,
	}
}

func (u *TrackingUsecase) Limit() int { return u.limit }

// StartTracking admits a train of the route for polling. The initial
// snapshot is fetched up front so the first scheduled check compares
// against the real state, and the entry is due immediately.
func (u *TrackingUsecase) StartTracking(ctx context.Context, chatID int64, routeURL string, trainID uint) (Outcome, error) {
	outcome, err := u.startTracking(ctx, chatID, routeURL, trainID)
	if err == nil {
		u.metrics.AdmissionDone(string(outcome))
		u.logger.Info("tracking admission",
			zap.Int64("chat_id", chatID),
			zap.Uint("train_id", trainID),
			zap.String("outcome", string(outcome)),
		)
	}
	return outcome, err
}

func (u *TrackingUsecase) startTracking(ctx context.Context, chatID int64, routeURL string, trainID uint) (Outcome, error) {
	exists, err := u.users.Exists(ctx, chatID)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", ErrUserNotRegistered
	}

	train, err := u.routes.FindTrain(ctx, routeURL, trainID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", ErrRouteLost
		}
		return "", err
	}

	tracked, err := u.trackings.Exists(ctx, chatID, train.ID)
	if err != nil {
		return "", err
	}
	if tracked {
		return OutcomeAlreadyTracked, nil
	}
	count, err := u.trackings.CountForUser(ctx, chatID)
	if err != nil {
		return "", err
	}
	if count >= int64(u.limit) {
		return OutcomeCapExceeded, nil
	}

	snapshot := u.fetcher.FetchSnapshot(ctx, routeURL, train.Number)
	if snapshot.IsFetchError() {
		return OutcomeFetchFailed, nil
	}

	tracking := &domain.Tracking{
		ChatID:      chatID,
		TrainID:     train.ID,
		Snapshot:    snapshot,
		NextCheckAt: u.now(),
	}
	switch err := u.trackings.CreateCapped(ctx, tracking, u.limit); {
	case err == nil:
		return OutcomeStarted, nil
	case errors.Is(err, domain.ErrTrackingExists):
		return OutcomeAlreadyTracked, nil
	case errors.Is(err, domain.ErrTrackingLimit):
		return OutcomeCapExceeded, nil
	case errors.Is(err, domain.ErrNotFound):
		return "", ErrUserNotRegistered
	default:
		return "", err
	}
}

func (u *TrackingUsecase) StopTracking(ctx context.Context, chatID int64, trackingID uint) error {
	if err := u.trackings.DeleteForUser(ctx, chatID, trackingID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrTrackingNotFound
		}
		return err
	}
	u.logger.Info("tracking stopped", zap.Int64("chat_id", chatID), zap.Uint("tracking_id", trackingID))
	return nil
}

func (u *TrackingUsecase) ListTracking(ctx context.Context, chatID int64) ([]domain.TrackingView, error) {
	return u.trackings.ListForUser(ctx, chatID)
}
