package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/feedfusion/bot-service/internal/domain/feed/consts"
	"github.com/feedfusion/bot-service/internal/domain/feed/deps"
	"github.com/feedfusion/bot-service/internal/domain/feed/entities"
	feederrors "github.com/feedfusion/bot-service/internal/domain/feed/errors"
)

// subscriptionRepository implements deps.SubscriptionRepository
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB) deps.SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Subscribe inserts a subscription enforcing the per-user quota.
// The user row is locked FOR UPDATE for the duration of the transaction,
// which serializes concurrent subscribes for the same user and makes the
// quota check authoritative. The unique index on (user_id, channel_id)
// remains the backstop against duplicate inserts.
func (r *subscriptionRepository) Subscribe(ctx context.Context, userID, channelID uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user entities.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return feederrors.ErrUserNotFound
			}
			return err
		}

		var exists int64
		if err := tx.Model(&entities.Subscription{}).
			Where("user_id = ? AND channel_id = ?", userID, channelID).
			Count(&exists).Error; err != nil {
			return err
		}
		if exists > 0 {
			return feederrors.ErrAlreadySubscribed
		}

		var count int64
		if err := tx.Model(&entities.Subscription{}).
			Where("user_id = ?", userID).
			Count(&count).Error; err != nil {
			return err
		}
		if count >= consts.MaxSubscriptions {
			return feederrors.ErrSubscriptionLimit
		}

		return tx.Create(&entities.Subscription{
			UserID:    userID,
			ChannelID: channelID,
		}).Error
	})

	if err != nil {
		switch {
		case errors.Is(err, feederrors.ErrAlreadySubscribed),
			errors.Is(err, feederrors.ErrSubscriptionLimit),
			errors.Is(err, feederrors.ErrUserNotFound):
			return err
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return feederrors.ErrAlreadySubscribed
		default:
			return storageError(err)
		}
	}

	return nil
}

// Delete removes the subscription for the pair if present
func (r *subscriptionRepository) Delete(ctx context.Context, userID, channelID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND channel_id = ?", userID, channelID).
		Delete(&entities.Subscription{})

	if result.Error != nil {
		return false, storageError(result.Error)
	}

	return result.RowsAffected > 0, nil
}

// GetByUserID returns all subscriptions for a user with channels joined
func (r *subscriptionRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]entities.Subscription, error) {
	var subscriptions []entities.Subscription
	result := r.db.WithContext(ctx).
		Preload("Channel").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&subscriptions)

	if result.Error != nil {
		return nil, storageError(result.Error)
	}

	return subscriptions, nil
}

// CountByUserID returns the user's live subscription count
func (r *subscriptionRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&entities.Subscription{}).
		Where("user_id = ?", userID).
		Count(&count)

	if result.Error != nil {
		return 0, storageError(result.Error)
	}

	return count, nil
}
