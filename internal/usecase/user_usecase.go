package usecase

import (
	"context"

	"github.com/NasaVasa/railtrack/internal/domain"
	"go.uber.org/zap"
)

type UserUsecase struct {
	users     domain.UserRepository
	sessions  domain.SessionRepository
	trackings domain.TrackingRepository
	logger    *zap.Logger
}

func NewUserUsecase(users domain.UserRepository, sessions domain.SessionRepository, trackings domain.TrackingRepository, logger *zap.Logger) *UserUsecase {
	return &UserUsecase{users: users, sessions: sessions, trackings: trackings, logger: logger}
}

func (u *UserUsecase) Register(ctx context.Context, chatID int64) error {
	return u.users.Ensure(ctx, chatID)
}

func (u *UserUsecase) IsRegistered(ctx context.Context, chatID int64) (bool, error) {
	return u.users.Exists(ctx, chatID)
}

// StopAll forgets the user together with its tracking entries and search
// session.
func (u *UserUsecase) StopAll(ctx context.Context, chatID int64) error {
	deleted, err := u.trackings.DeleteAllForUser(ctx, chatID)
	if err != nil {
		return err
	}
	if err := u.users.Delete(ctx, chatID); err != nil {
		return err
	}
	if err := u.sessions.Delete(ctx, chatID); err != nil {
		return err
	}
	u.logger.Info("user stopped the bot", zap.Int64("chat_id", chatID), zap.Int64("trackings", deleted))
	return nil
}
