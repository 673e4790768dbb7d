package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/NasaVasa/railtrack/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Get returns the stored session, or an idle one when the chat has none.
func (r *SessionRepository) Get(ctx context.Context, chatID int64) (*domain.Session, error) {
	var model sessionModel
	if err := r.db.WithContext(ctx).Where("chat_id = ?", chatID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &domain.Session{ChatID: chatID, Step: domain.StepIdle}, nil
		}
		return nil, err
	}
	session := &domain.Session{}
	if err := json.Unmarshal([]byte(model.Data), session); err != nil {
		return nil, fmt.Errorf("decode session %d: %w", chatID, err)
	}
	session.ChatID = chatID
	if session.Step == "" {
		session.Step = domain.StepIdle
	}
	return session, nil
}

func (r *SessionRepository) Save(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	model := sessionModel{ChatID: session.ChatID, Data: string(data)}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&model).Error
}

func (r *SessionRepository) Delete(ctx context.Context, chatID int64) error {
	return r.db.WithContext(ctx).Where("chat_id = ?", chatID).Delete(&sessionModel{}).Error
}
