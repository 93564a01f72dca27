package repository

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/blockedby/newsletter-light/internal/models"
)

// setupTestDB opens an isolated in-memory sqlite database with the profile table.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// every new connection to :memory: would see an empty database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.ProfileAttribute{}))

	return db
}

func TestProfilesRepository_GetMissing(t *testing.T) {
	repo := NewProfilesRepository(setupTestDB(t))

	_, err := repo.Get(context.Background(), 5, models.UnsubscribeTokenKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfilesRepository_SetAndGet(t *testing.T) {
	repo := NewProfilesRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, 5, models.UnsubscribeTokenKey, "abc"))

	val, err := repo.Get(ctx, 5, models.UnsubscribeTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "abc", val)

	// other users and keys are isolated
	_, err = repo.Get(ctx, 6, models.UnsubscribeTokenKey)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.Get(ctx, 5, "other_key")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfilesRepository_SetOverwrites(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProfilesRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, 5, models.UnsubscribeTokenKey, "first"))
	require.NoError(t, repo.Set(ctx, 5, models.UnsubscribeTokenKey, "second"))

	val, err := repo.Get(ctx, 5, models.UnsubscribeTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "second", val)

	var count int64
	db.Model(&models.ProfileAttribute{}).Where("user_id = ?", 5).Count(&count)
	assert.Equal(t, int64(1), count, "one row per user and key")
}

func TestProfilesRepository_EmptyValueIsMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProfilesRepository(db)

	require.NoError(t, db.Create(&models.ProfileAttribute{UserID: 9, Key: models.UnsubscribeTokenKey}).Error)

	_, err := repo.Get(context.Background(), 9, models.UnsubscribeTokenKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfilesRepository_Delete(t *testing.T) {
	repo := NewProfilesRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, 5, models.UnsubscribeTokenKey, "abc"))
	require.NoError(t, repo.Delete(ctx, 5, models.UnsubscribeTokenKey))

	_, err := repo.Get(ctx, 5, models.UnsubscribeTokenKey)
	assert.ErrorIs(t, err, ErrNotFound)
}
