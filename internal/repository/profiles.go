package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/blockedby/newsletter-light/internal/models"
)

// ProfilesRepository handles the per-user key/value profile attribute table.
type ProfilesRepository struct {
	db *gorm.DB
}

// NewProfilesRepository creates a new profiles repository
func NewProfilesRepository(db *gorm.DB) *ProfilesRepository {
	return &ProfilesRepository{db: db}
}

// Get returns the value stored under key for userID, or ErrNotFound.
// An empty stored value is reported as ErrNotFound as well.
func (r *ProfilesRepository) Get(ctx context.Context, userID int64, key string) (string, error) {
	var attr models.ProfileAttribute
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND profile_key = ?", userID, key).
		Take(&attr).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get profile value: %w", err)
	}

	if attr.Value == "" {
		return "", ErrNotFound
	}
	return attr.Value, nil
}

// Set stores value under key for userID, overwriting any previous value.
func (r *ProfilesRepository) Set(ctx context.Context, userID int64, key, value string) error {
	attr := models.ProfileAttribute{
		UserID: userID,
		Key:    key,
		Value:  value,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "profile_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"profile_value"}),
	}).Create(&attr).Error
	if err != nil {
		return fmt.Errorf("set profile value: %w", err)
	}
	return nil
}

// Delete removes key for userID.
func (r *ProfilesRepository) Delete(ctx context.Context, userID int64, key string) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND profile_key = ?", userID, key).
		Delete(&models.ProfileAttribute{}).Error
	if err != nil {
		return fmt.Errorf("delete profile value: %w", err)
	}
	return nil
}
