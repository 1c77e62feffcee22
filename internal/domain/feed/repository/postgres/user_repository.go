// Package postgres contains gorm repository implementations
package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/feedfusion/bot-service/internal/domain/feed/deps"
	"github.com/feedfusion/bot-service/internal/domain/feed/entities"
	feederrors "github.com/feedfusion/bot-service/internal/domain/feed/errors"
)

// userRepository implements deps.UserRepository
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) deps.UserRepository {
	return &userRepository{db: db}
}

// FindByTelegramID returns the user with the given Telegram identity
func (r *userRepository) FindByTelegramID(ctx context.Context, telegramID string) (*entities.User, error) {
	var user entities.User
	result := r.db.WithContext(ctx).
		Where("telegram_id = ?", telegramID).
		First(&user)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, feederrors.ErrUserNotFound
		}
		return nil, storageError(result.Error)
	}

	return &user, nil
}

// Create inserts a new user
func (r *userRepository) Create(ctx context.Context, user *entities.User) error {
	result := r.db.WithContext(ctx).Create(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return feederrors.ErrUserAlreadyExists
		}
		return storageError(result.Error)
	}
	return nil
}

// DeleteWithoutSubscriptions removes every user with zero live subscriptions.
// The anti-join runs inside the delete statement, so a user who gains a
// subscription concurrently is never selected.
func (r *userRepository) DeleteWithoutSubscriptions(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM subscriptions WHERE subscriptions.user_id = users.id)").
		Delete(&entities.User{})

	if result.Error != nil {
		return 0, storageError(result.Error)
	}

	return result.RowsAffected, nil
}
