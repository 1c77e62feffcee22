package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feedfusion/bot-service/internal/domain/feed/deps"
	"github.com/feedfusion/bot-service/internal/domain/feed/entities"
	feederrors "github.com/feedfusion/bot-service/internal/domain/feed/errors"
)

// channelRepository implements deps.ChannelRepository
type channelRepository struct {
	db *gorm.DB
}

// NewChannelRepository creates a new channel repository
func NewChannelRepository(db *gorm.DB) deps.ChannelRepository {
	return &channelRepository{db: db}
}

// FindByTelegramID returns the channel with the given Telegram identity
func (r *channelRepository) FindByTelegramID(ctx context.Context, telegramID string) (*entities.Channel, error) {
	var channel entities.Channel
	result := r.db.WithContext(ctx).
		Where("telegram_id = ?", telegramID).
		First(&channel)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, feederrors.ErrChannelNotFound
		}
		return nil, storageError(result.Error)
	}

	return &channel, nil
}

// FindByID returns the channel by primary key
func (r *channelRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Channel, error) {
	var channel entities.Channel
	result := r.db.WithContext(ctx).First(&channel, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, feederrors.ErrChannelNotFound
		}
		return nil, storageError(result.Error)
	}

	return &channel, nil
}

// Create inserts a new channel
func (r *channelRepository) Create(ctx context.Context, channel *entities.Channel) error {
	result := r.db.WithContext(ctx).Create(channel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return feederrors.ErrChannelAlreadyExists
		}
		return storageError(result.Error)
	}
	return nil
}
