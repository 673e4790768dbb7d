package db

import (
	"context"
	"errors"

	"github.com/NasaVasa/railtrack/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RouteRepository struct {
	db *gorm.DB
}

func NewRouteRepository(db *gorm.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// Ensure inserts the route unless one with the same URL exists and fills
// route.ID with the stored identifier.
func (r *RouteRepository) Ensure(ctx context.Context, route *domain.Route) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := routeModel{
			CityFrom: route.CityFrom,
			CityTo:   route.CityTo,
			Date:     route.Date,
			URL:      route.URL,
		}
		if err := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "url"}}, DoNothing: true}).Create(&model).Error; err != nil {
			return err
		}
		var stored routeModel
		if err := tx.Where("url = ?", route.URL).First(&stored).Error; err != nil {
			return err
		}
		*route = mapRouteToDomain(stored)
		return nil
	})
}

func (r *RouteRepository) FindRoute(ctx context.Context, routeURL string) (*domain.Route, error) {
	var model routeModel
	if err := r.db.WithContext(ctx).Where("url = ?", routeURL).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	route := mapRouteToDomain(model)
	return &route, nil
}

func (r *RouteRepository) AddTrains(ctx context.Context, routeID uint, trains []domain.Train) error {
	if len(trains) == 0 {
		return nil
	}
	models := make([]trainModel, 0, len(trains))
	for _, train := range trains {
		models = append(models, trainModel{
			RouteID:     routeID,
			TrainNumber: train.Number,
			TimeDepart:  train.TimeDepart,
			TimeArriv:   train.TimeArrive,
		})
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&models).Error
}

func (r *RouteRepository) ListTrains(ctx context.Context, routeURL string) ([]domain.Train, error) {
	var models []trainModel
	err := r.db.WithContext(ctx).
		Joins("JOIN routes ON routes.route_id = trains.route_id").
		Where("routes.url = ?", routeURL).
		Order("trains.time_depart").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	trains := make([]domain.Train, 0, len(models))
	for _, model := range models {
		trains = append(trains, mapTrainToDomain(model))
	}
	return trains, nil
}

// FindTrain returns the train with trainID when it belongs to the route at
// routeURL.
func (r *RouteRepository) FindTrain(ctx context.Context, routeURL string, trainID uint) (*domain.Train, error) {
	var model trainModel
	err := r.db.WithContext(ctx).
		Joins("JOIN routes ON routes.route_id = trains.route_id").
		Where("routes.url = ? AND trains.train_id = ?", routeURL, trainID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	train := mapTrainToDomain(model)
	return &train, nil
}

// DeleteBefore removes routes dated strictly before date (YYYY-MM-DD) with
// their trains and tracking entries, and reports how many routes went away.
func (r *RouteRepository) DeleteBefore(ctx context.Context, date string) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var routeIDs []uint
		if err := tx.Model(&routeModel{}).Where("date < ?", date).Pluck("route_id", &routeIDs).Error; err != nil {
			return err
		}
		if len(routeIDs) == 0 {
			return nil
		}
		trainIDs := tx.Model(&trainModel{}).Select("train_id").Where("route_id IN ?", routeIDs)
		if err := tx.Where("train_id IN (?)", trainIDs).Delete(&trackingModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("route_id IN ?", routeIDs).Delete(&trainModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("route_id IN ?", routeIDs).Delete(&routeModel{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	return deleted, err
}

func mapRouteToDomain(model routeModel) domain.Route {
	return domain.Route{
		ID:       model.ID,
		CityFrom: model.CityFrom,
		CityTo:   model.CityTo,
		Date:     model.Date,
		URL:      model.URL,
	}
}

func mapTrainToDomain(model trainModel) domain.Train {
	return domain.Train{
		ID:         model.ID,
		RouteID:    model.RouteID,
		Number:     model.TrainNumber,
		TimeDepart: model.TimeDepart,
		TimeArrive: model.TimeArriv,
	}
}
