package services

import (
	"context"
	"errors"
	"time"

	"tintpro-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists session fields in the booking_states table.
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: time.Now}
}

// Migrate creates the booking_states table.
func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(&models.BookingState{})
}

func (s *GormStore) Get(ctx context.Context, key string) (string, error) {
	var state models.BookingState
	if err := s.db.WithContext(ctx).Where("key = ?", key).First(&state).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrKeyNotFound
		}
		return "", err
	}
	return state.Value, nil
}

func (s *GormStore) Set(ctx context.Context, key, value string) error {
	state := models.BookingState{Key: key, Value: value, UpdatedAt: s.now()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&state).Error
}

func (s *GormStore) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("updated_at < ?", olderThan).Delete(&models.BookingState{})
	return result.RowsAffected, result.Error
}
