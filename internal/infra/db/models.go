package db

import "time"

type userModel struct {
	ChatID    int64           `gorm:"primaryKey;autoIncrement:false"`
	Trackings []trackingModel `gorm:"foreignKey:ChatID;references:ChatID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

func (userModel) TableName() string { return "users" }

type routeModel struct {
	ID        uint   `gorm:"column:route_id;primaryKey"`
	CityFrom  string `gorm:"not null"`
	CityTo    string `gorm:"not null"`
	Date      string `gorm:"size:10;not null;index"`
	URL       string `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
}

func (routeModel) TableName() string { return "routes" }

type trainModel struct {
	ID          uint       `gorm:"column:train_id;primaryKey"`
	RouteID     uint       `gorm:"uniqueIndex:idx_trains_identity,priority:1;not null"`
	Route       routeModel `gorm:"constraint:OnDelete:CASCADE"`
	TrainNumber string     `gorm:"uniqueIndex:idx_trains_identity,priority:2;not null"`
	TimeDepart  string     `gorm:"uniqueIndex:idx_trains_identity,priority:3;not null"`
	TimeArriv   string     `gorm:"uniqueIndex:idx_trains_identity,priority:4;not null"`
}

func (trainModel) TableName() string { return "trains" }

type trackingModel struct {
	ID          uint       `gorm:"column:tracking_id;primaryKey"`
	ChatID      int64      `gorm:"uniqueIndex:idx_tracking_user_train,priority:1;not null"`
	TrainID     uint       `gorm:"uniqueIndex:idx_tracking_user_train,priority:2;not null"`
	Train       trainModel `gorm:"constraint:OnDelete:CASCADE"`
	Snapshot    string     `gorm:"column:ticket_snapshot;type:text;not null"`
	NextCheckAt time.Time  `gorm:"index;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (trackingModel) TableName() string { return "tracking" }

type sessionModel struct {
	ChatID    int64  `gorm:"primaryKey;autoIncrement:false"`
	Data      string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (sessionModel) TableName() string { return "user_sessions" }
