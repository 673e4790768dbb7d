package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NasaVasa/railtrack/internal/domain"
	"github.com/NasaVasa/railtrack/internal/infra/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Notifier interface {
	Notify(chatID int64, notification domain.Notification) error
}

const (
	checkChanged    = "changed"
	checkUnchanged  = "unchanged"
	checkFetchError = "fetch_error"
	checkDeparted   = "departed"
	checkGone       = "gone"
	checkFailed     = "failed"
)

type SchedulerConfig struct {
	IdleInterval time.Duration
	BatchSize    int
	Workers      int
	ErrorBackoff time.Duration
	FetchTimeout time.Duration
	Location     *time.Location
}

// Scheduler polls due tracking entries, reports snapshot changes and
// retires entries whose train has departed. All of its state lives in the
// tracking repository.
type Scheduler struct {
	trackings domain.TrackingRepository
	fetcher   domain.SnapshotFetcher
	notifier  Notifier
	metrics   *metrics.Metrics
	logger    *zap.Logger
	cfg       SchedulerConfig

	now    func() time.Time
	jitter *jitter
}

func NewScheduler(cfg SchedulerConfig, trackings domain.TrackingRepository, fetcher domain.SnapshotFetcher, notifier Notifier, m *metrics.Metrics, logger *zap.Logger) *Scheduler {
	if cfg.IdleInterval <= 0 {
		cfg.IdleInterval = time.Minute
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.ErrorBackoff <= 0 {
		cfg.ErrorBackoff = 15 * time.Minute
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Scheduler{
		trackings: trackings,
		fetcher:   fetcher,
		notifier:  notifier,
		metrics:   m,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
		jitter:    newJitter(uint64(time.Now().UnixNano())),
	}
}

// Run claims and processes due batches until ctx is cancelled. It sleeps
// for the idle interval whenever a pass finds nothing to do.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler started",
		zap.Duration("idle_interval", s.cfg.IdleInterval),
		zap.Int("batch_size", s.cfg.BatchSize),
		zap.Int("workers", s.cfg.Workers),
	)
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return nil
		case <-timer.C:
		}

		processed, err := s.RunOnce(ctx)
		if err != nil && ctx.Err() == nil {
			s.logger.Error("scheduler pass failed", zap.Error(err))
		}
		if err == nil && processed > 0 {
			timer.Reset(0)
			continue
		}
		timer.Reset(s.cfg.IdleInterval)
	}
}

// RunOnce processes one claimed batch and returns its size.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	due, err := s.trackings.ClaimDue(ctx, s.now(), s.cfg.BatchSize, s.cfg.ErrorBackoff)
	if err != nil {
		return 0, fmt.Errorf("claim due trackings: %w", err)
	}
	s.metrics.BatchClaimed(len(due))
	if len(due) == 0 {
		return 0, nil
	}
	s.logger.Debug("due trackings claimed", zap.Int("count", len(due)))

	var group errgroup.Group
	group.SetLimit(s.cfg.Workers)
	for _, entry := range due {
		group.Go(func() error {
			s.process(ctx, entry)
			return nil
		})
	}
	_ = group.Wait()
	return len(due), nil
}

func (s *Scheduler) process(ctx context.Context, entry domain.DueTracking) {
	result := checkFailed
	defer func() {
		if recovered := recover(); recovered != nil {
			s.logger.Error("tracking check panicked",
				zap.Uint("tracking_id", entry.ID),
				zap.Any("panic", recovered),
				zap.Stack("stack"),
			)
			s.retryLater(ctx, entry)
			result = checkFailed
		}
		s.metrics.CheckDone(result)
	}()

	var err error
	result, err = s.check(ctx, entry)
	if err != nil {
		s.logger.Error("tracking check failed",
			zap.Uint("tracking_id", entry.ID),
			zap.Int64("chat_id", entry.ChatID),
			zap.String("train", entry.TrainNumber),
			zap.Error(err),
		)
		s.retryLater(ctx, entry)
		result = checkFailed
	}
}

func (s *Scheduler) check(ctx context.Context, entry domain.DueTracking) (string, error) {
	now := s.now()
	fields := []zap.Field{
		zap.Uint("tracking_id", entry.ID),
		zap.Int64("chat_id", entry.ChatID),
		zap.String("train", entry.TrainNumber),
		zap.String("date", entry.RouteDate),
	}

	departure, err := entry.Departure(s.cfg.Location)
	if err != nil {
		return "", fmt.Errorf("departure of tracking %d: %w", entry.ID, err)
	}
	until := departure.Sub(now)
	if _, _, ok := delayRange(until); !ok {
		return s.retire(ctx, entry, fields)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	snapshot := s.fetcher.FetchSnapshot(fetchCtx, entry.URL, entry.TrainNumber)
	cancel()

	if snapshot.IsFetchError() {
		next := now.Add(errorDelay(s.cfg.ErrorBackoff, s.jitter.IntN))
		if err := s.trackings.Reschedule(ctx, entry.ID, next); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return checkGone, nil
			}
			return "", err
		}
		s.logger.Warn("snapshot fetch failed, retrying later", append(fields, zap.Time("next_check_at", next))...)
		return checkFetchError, nil
	}

	delay, _ := nextCheckDelay(until, s.jitter.IntN)
	next := now.Add(delay)

	if snapshot.Equal(entry.Snapshot) {
		if err := s.trackings.Reschedule(ctx, entry.ID, next); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return checkGone, nil
			}
			return "", err
		}
		s.logger.Debug("snapshot unchanged", append(fields, zap.Time("next_check_at", next))...)
		return checkUnchanged, nil
	}

	if err := s.trackings.UpdateSnapshot(ctx, entry.ID, snapshot, next); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return checkGone, nil
		}
		return "", err
	}
	s.logger.Info("snapshot changed", append(fields, zap.String("kind", string(snapshot.Kind)), zap.Time("next_check_at", next))...)
	s.notify(entry, domain.Notification{
		Kind:        domain.NotificationChanged,
		TrainNumber: entry.TrainNumber,
		RouteDate:   entry.RouteDate,
		URL:         entry.URL,
		Snapshot:    snapshot,
	})
	return checkChanged, nil
}

func (s *Scheduler) retire(ctx context.Context, entry domain.DueTracking, fields []zap.Field) (string, error) {
	if err := s.trackings.Delete(ctx, entry.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return checkGone, nil
		}
		return "", err
	}
	s.logger.Info("train departed, tracking ended", fields...)
	s.notify(entry, domain.Notification{
		Kind:        domain.NotificationEnded,
		TrainNumber: entry.TrainNumber,
		RouteDate:   entry.RouteDate,
		URL:         entry.URL,
	})
	return checkDeparted, nil
}

func (s *Scheduler) notify(entry domain.DueTracking, notification domain.Notification) {
	err := s.notifier.Notify(entry.ChatID, notification)
	s.metrics.NotificationDone(string(notification.Kind), err)
	if err != nil {
		s.logger.Warn("notification failed",
			zap.Uint("tracking_id", entry.ID),
			zap.Int64("chat_id", entry.ChatID),
			zap.String("kind", string(notification.Kind)),
			zap.Error(err),
		)
	}
}

func (s *Scheduler) retryLater(ctx context.Context, entry domain.DueTracking) {
	next := s.now().Add(errorDelay(s.cfg.ErrorBackoff, s.jitter.IntN))
	if err := s.trackings.Reschedule(ctx, entry.ID, next); err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.logger.Error("reschedule after failure failed", zap.Uint("tracking_id", entry.ID), zap.Error(err))
	}
}
