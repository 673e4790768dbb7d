package usecase

import (
	"context"
	"time"

	"github.com/NasaVasa/railtrack/internal/domain"
	"go.uber.org/zap"
)

// CleanupUsecase drops routes dated before yesterday. Trains and tracking
// entries of those routes go with them.
type CleanupUsecase struct {
	routes domain.RouteRepository
	logger *zap.Logger
	loc    *time.Location
	now    func() time.Time
}

func NewCleanupUsecase(routes domain.RouteRepository, loc *time.Location, logger *zap.Logger) *CleanupUsecase {
	if loc == nil {
		loc = time.UTC
	}
	return &CleanupUsecase{routes: routes, logger: logger, loc: loc, now: time.Now}
}

func (u *CleanupUsecase) Sweep(ctx context.Context) (int64, error) {
	cutoff := u.now().In(u.loc).AddDate(0, 0, -1).Format(domain.DateLayout)
	deleted, err := u.routes.DeleteBefore(ctx, cutoff)
	if err != nil {
		u.logger.Error("cleanup sweep failed", zap.String("before", cutoff), zap.Error(err))
		return 0, err
	}
	u.logger.Info("cleanup sweep done", zap.String("before", cutoff), zap.Int64("routes", deleted))
	return deleted, nil
}
