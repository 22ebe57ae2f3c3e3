package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"tintpro-backend/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "tint.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestGormStore_GetSet(t *testing.T) {
	store := NewGormStore(openTestDB(t))
	require.NoError(t, store.Migrate())
	ctx := context.Background()

	_, err := store.Get(ctx, "tint:a:car")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, store.Set(ctx, "tint:a:car", "sedan"))
	require.NoError(t, store.Set(ctx, "tint:a:car", "suv"))
	got, err := store.Get(ctx, "tint:a:car")
	require.NoError(t, err)
	assert.Equal(t, "suv", got)

	var count int64
	require.NoError(t, store.db.Model(&models.BookingState{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGormStore_Prune(t *testing.T) {
	store := NewGormStore(openTestDB(t))
	require.NoError(t, store.Migrate())
	ctx := context.Background()

	clock := &fakeClock{t: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)}
	store.now = clock.Now
	require.NoError(t, store.Set(ctx, "tint:old:car", "coupe"))
	require.NoError(t, store.Set(ctx, "tint:kept:car", "sedan"))

	clock.t = clock.t.Add(48 * time.Hour)
	// rewriting a key refreshes its timestamp
	require.NoError(t, store.Set(ctx, "tint:kept:car", "suv"))

	n, err := store.Prune(ctx, clock.t.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = store.Get(ctx, "tint:old:car")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	got, err := store.Get(ctx, "tint:kept:car")
	require.NoError(t, err)
	assert.Equal(t, "suv", got)
}

func TestGormStore_BacksBookingCart(t *testing.T) {
	store := NewGormStore(openTestDB(t))
	require.NoError(t, store.Migrate())
	catalog := &fakeCatalog{items: map[models.VehicleCategory][]models.ServiceItem{
		models.VehicleSedan: sedanCatalog(),
	}}

	c := newTestCart(t, catalog, store)
	c.Refresh(context.Background())
	c.ToggleItem(sedanCatalog()[1])
	require.NoError(t, c.SetServiceMode(models.ModeMobile))

	again := newTestCart(t, catalog, store)
	state := again.State()
	assert.Equal(t, models.ModeMobile, state.ServiceMode)
	require.Len(t, state.Cart, 1)
	assert.Equal(t, "Ceramic Full", state.Cart[0].Name)
}
