// Package db provides database connection management and repository interfaces.
package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/soundhaven/soundhaven/internal/models"
	"gorm.io/gorm"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user into the database
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	result := r.db.WithContext(ctx).Create(user)
	if result.Error != nil {
		return fmt.Errorf("failed to create user: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a user by its UUID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&user)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &user, nil
}

// ExistsByIDs checks which user IDs exist in the database
func (r *UserRepository) ExistsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	return existsByIDs[models.User](ctx, r.db, ids, "failed to check user existence")
}

// IncrementFollowers adjusts a user's denormalized follower counter by delta.
// Issued as an atomic store-level increment.
func (r *UserRepository) IncrementFollowers(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int64) error {
	if tx == nil {
		tx = r.db.WithContext(ctx)
	}
	result := tx.Model(&models.User{}).
		Where("id = ?", id.String()).
		Update("followers", gorm.Expr("followers + ?", delta))
	if result.Error != nil {
		return fmt.Errorf("failed to update user followers: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// existsByIDs queries which of the given IDs exist for the model type T.
// Returns a map keyed by ID with true for rows present in the database.
func existsByIDs[T any](ctx context.Context, db *DB, ids []uuid.UUID, errMsg string) (map[uuid.UUID]bool, error) {
	existsMap := make(map[uuid.UUID]bool, len(ids))
	if len(ids) == 0 {
		return existsMap, nil
	}

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
		existsMap[id] = false
	}

	var rows []struct {
		ID uuid.UUID `gorm:"column:id"`
	}
	var model T
	result := db.WithContext(ctx).Model(&model).Select("id").Where("id IN ?", idStrings).Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("%s: %w", errMsg, MapGormError(result.Error))
	}

	for i := range rows {
		existsMap[rows[i].ID] = true
	}
	return existsMap, nil
}
