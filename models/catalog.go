package models

import (
	"time"
)

// Rows of the relational price catalog. Table names follow the hosted data
// API so the same schema can be queried directly over SQL.

type Category struct {
	ID   int64  `gorm:"primaryKey"`
	Slug string `gorm:"uniqueIndex;not null"`
}

type TintService struct {
	ID         int64  `gorm:"primaryKey"`
	Name       string `gorm:"not null"`
	CategoryID *int64 `gorm:"index"`

	Category *Category `gorm:"foreignKey:CategoryID"`
}

func (TintService) TableName() string { return "services" }

type VehicleType struct {
	ID   int64  `gorm:"primaryKey"`
	Slug string `gorm:"uniqueIndex;not null"`
}

type Price struct {
	ID            int64   `gorm:"primaryKey"`
	Amount        float64 `gorm:"type:decimal(10,2);not null"`
	SquareID      *string
	VehicleTypeID int64  `gorm:"index;not null"`
	ServiceID     *int64 `gorm:"index"`

	VehicleType VehicleType  `gorm:"foreignKey:VehicleTypeID"`
	Service     *TintService `gorm:"foreignKey:ServiceID"`
}

// BookingState is one persisted session field.
type BookingState struct {
	Key       string `gorm:"primaryKey;size:255"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}
