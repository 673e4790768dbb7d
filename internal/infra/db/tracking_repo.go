package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/NasaVasa/railtrack/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TrackingRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewTrackingRepository(db *gorm.DB, logger *zap.Logger) *TrackingRepository {
	return &TrackingRepository{db: db, logger: logger}
}

// Create inserts the entry unless the user already tracks the train and
// reports whether a row was added.
func (r *TrackingRepository) Create(ctx context.Context, tracking *domain.Tracking) (bool, error) {
	model, err := mapTrackingToModel(tracking)
	if err != nil {
		return false, err
	}
	result := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	tracking.ID = model.ID
	return true, nil
}

// CreateCapped inserts the entry only while the user tracks fewer than limit
// trains. The user row is locked so concurrent admissions cannot overshoot.
func (r *TrackingRepository) CreateCapped(ctx context.Context, tracking *domain.Tracking, limit int) error {
	model, err := mapTrackingToModel(tracking)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user userModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("chat_id = ?", tracking.ChatID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		var existing int64
		if err := tx.Model(&trackingModel{}).Where("chat_id = ? AND train_id = ?", tracking.ChatID, tracking.TrainID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return domain.ErrTrackingExists
		}

		var count int64
		if err := tx.Model(&trackingModel{}).Where("chat_id = ?", tracking.ChatID).Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(limit) {
			return domain.ErrTrackingLimit
		}

		result := tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrTrackingExists
		}
		tracking.ID = model.ID
		return nil
	})
}

func (r *TrackingRepository) Exists(ctx context.Context, chatID int64, trainID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&trackingModel{}).Where("chat_id = ? AND train_id = ?", chatID, trainID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *TrackingRepository) CountForUser(ctx context.Context, chatID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&trackingModel{}).Where("chat_id = ?", chatID).Count(&count).Error
	return count, err
}

type trackingRow struct {
	TrackingID     uint
	ChatID         int64
	TrainID        uint
	TicketSnapshot string
	NextCheckAt    time.Time
	TrainNumber    string
	TimeDepart     string
	CityFrom       string
	CityTo         string
	Date           string
	URL            string
}

func (r *TrackingRepository) joined(tx *gorm.DB) *gorm.DB {
	return tx.Table("tracking").
		Select("tracking.tracking_id, tracking.chat_id, tracking.train_id, tracking.ticket_snapshot, tracking.next_check_at, " +
			"trains.train_number, trains.time_depart, routes.city_from, routes.city_to, routes.date, routes.url").
		Joins("JOIN trains ON trains.train_id = tracking.train_id").
		Joins("JOIN routes ON routes.route_id = trains.route_id")
}

func (r *TrackingRepository) ListForUser(ctx context.Context, chatID int64) ([]domain.TrackingView, error) {
	var rows []trackingRow
	err := r.joined(r.db.WithContext(ctx)).
		Where("tracking.chat_id = ?", chatID).
		Order("routes.date, trains.time_depart, tracking.tracking_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	views := make([]domain.TrackingView, 0, len(rows))
	for _, row := range rows {
		views = append(views, domain.TrackingView{
			ID:          row.TrackingID,
			TrainNumber: row.TrainNumber,
			CityFrom:    row.CityFrom,
			CityTo:      row.CityTo,
			RouteDate:   row.Date,
			TimeDepart:  row.TimeDepart,
			Snapshot:    r.storedSnapshot(row),
			NextCheckAt: row.NextCheckAt.UTC(),
		})
	}
	return views, nil
}

// ClaimDue returns up to limit entries whose next check is at or before now
// and pushes their next check to now+lease, so a concurrent claimer skips
// them until the lease runs out.
func (r *TrackingRepository) ClaimDue(ctx context.Context, now time.Time, limit int, lease time.Duration) ([]domain.DueTracking, error) {
	now = now.UTC()
	var due []domain.DueTracking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uint
		err := tx.Model(&trackingModel{}).
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("next_check_at <= ?", now).
			Order("next_check_at").
			Limit(limit).
			Pluck("tracking_id", &ids).Error
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Model(&trackingModel{}).Where("tracking_id IN ?", ids).Update("next_check_at", now.Add(lease)).Error; err != nil {
			return err
		}

		var rows []trackingRow
		if err := r.joined(tx).Where("tracking.tracking_id IN ?", ids).Order("tracking.tracking_id").Scan(&rows).Error; err != nil {
			return err
		}
		due = make([]domain.DueTracking, 0, len(rows))
		for _, row := range rows {
			due = append(due, domain.DueTracking{
				Tracking: domain.Tracking{
					ID:          row.TrackingID,
					ChatID:      row.ChatID,
					TrainID:     row.TrainID,
					Snapshot:    r.storedSnapshot(row),
					NextCheckAt: row.NextCheckAt.UTC(),
				},
				TrainNumber: row.TrainNumber,
				TimeDepart:  row.TimeDepart,
				RouteDate:   row.Date,
				URL:         row.URL,
			})
		}
		return nil
	})
	return due, err
}

// UpdateSnapshot stores a new baseline and next check time. It returns
// domain.ErrNotFound when the entry was deleted meanwhile.
func (r *TrackingRepository) UpdateSnapshot(ctx context.Context, id uint, snapshot domain.Snapshot, nextCheckAt time.Time) error {
	encoded, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&trackingModel{}).Where("tracking_id = ?", id).Updates(map[string]any{
		"ticket_snapshot": encoded,
		"next_check_at":   nextCheckAt.UTC(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TrackingRepository) Reschedule(ctx context.Context, id uint, nextCheckAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&trackingModel{}).Where("tracking_id = ?", id).Update("next_check_at", nextCheckAt.UTC())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TrackingRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Where("tracking_id = ?", id).Delete(&trackingModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TrackingRepository) DeleteForUser(ctx context.Context, chatID int64, id uint) error {
	result := r.db.WithContext(ctx).Where("tracking_id = ? AND chat_id = ?", id, chatID).Delete(&trackingModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TrackingRepository) DeleteAllForUser(ctx context.Context, chatID int64) (int64, error) {
	result := r.db.WithContext(ctx).Where("chat_id = ?", chatID).Delete(&trackingModel{})
	return result.RowsAffected, result.Error
}

func mapTrackingToModel(tracking *domain.Tracking) (trackingModel, error) {
	encoded, err := encodeSnapshot(tracking.Snapshot)
	if err != nil {
		return trackingModel{}, err
	}
	return trackingModel{
		ChatID:      tracking.ChatID,
		TrainID:     tracking.TrainID,
		Snapshot:    encoded,
		NextCheckAt: tracking.NextCheckAt.UTC(),
	}, nil
}

func encodeSnapshot(snapshot domain.Snapshot) (string, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	return string(data), nil
}

// storedSnapshot decodes the baseline of row. An undecodable baseline is
// logged and read as a fetch error, which the next good fetch replaces.
func (r *TrackingRepository) storedSnapshot(row trackingRow) domain.Snapshot {
	snapshot, err := decodeSnapshot(row.TicketSnapshot)
	if err != nil {
		r.logger.Warn("undecodable tracking snapshot",
			zap.Uint("tracking_id", row.TrackingID),
			zap.String("ticket_snapshot", row.TicketSnapshot),
			zap.Error(err),
		)
		return domain.FetchError()
	}
	return snapshot
}

func decodeSnapshot(raw string) (domain.Snapshot, error) {
	var snapshot domain.Snapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return domain.Snapshot{}, err
	}
	return snapshot, nil
}
