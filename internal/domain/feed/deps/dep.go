// Package deps contains interface definitions for the feed domain dependencies
package deps

import (
	"context"

	"github.com/google/uuid"

	"github.com/feedfusion/bot-service/internal/domain/feed/dto"
	"github.com/feedfusion/bot-service/internal/domain/feed/entities"
)

// UserRepository defines interface for user data access
type UserRepository interface {
	// FindByTelegramID returns the user with the given Telegram identity,
	// or ErrUserNotFound
	FindByTelegramID(ctx context.Context, telegramID string) (*entities.User, error)

	// Create inserts a new user; a racing duplicate insert returns
	// ErrUserAlreadyExists
	Create(ctx context.Context, user *entities.User) error

	// DeleteWithoutSubscriptions removes every user with zero live
	// subscriptions and returns the number of deleted rows
	DeleteWithoutSubscriptions(ctx context.Context) (int64, error)
}

// ChannelRepository defines interface for channel data access
type ChannelRepository interface {
	// FindByTelegramID returns the channel with the given Telegram identity,
	// or ErrChannelNotFound
	FindByTelegramID(ctx context.Context, telegramID string) (*entities.Channel, error)

	// FindByID returns the channel by primary key, or ErrChannelNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Channel, error)

	// Create inserts a new channel; a racing duplicate insert returns
	// ErrChannelAlreadyExists
	Create(ctx context.Context, channel *entities.Channel) error
}

// SubscriptionRepository defines interface for subscription data access
type SubscriptionRepository interface {
	// Subscribe inserts a subscription for the pair, enforcing the per-user
	// quota and pair uniqueness within a single transaction. Returns
	// ErrAlreadySubscribed or ErrSubscriptionLimit on rejection.
	Subscribe(ctx context.Context, userID, channelID uuid.UUID) error

	// Delete removes the subscription for the pair if present and reports
	// whether a row was removed
	Delete(ctx context.Context, userID, channelID uuid.UUID) (bool, error)

	// GetByUserID returns all subscriptions for a user with channels joined
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]entities.Subscription, error)

	// CountByUserID returns the user's live subscription count
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}

// ChannelLookup defines interface for resolving a public handle into
// chat metadata via the messaging platform
type ChannelLookup interface {
	// LookupChannel resolves a public handle; returns ErrChannelLookupFailed
	// when the chat is unknown, private or the platform call fails
	LookupChannel(ctx context.Context, handle string) (*dto.ChatInfo, error)
}

// SubscriptionEventProducer defines interface for publishing subscription
// change events for the fetcher side
type SubscriptionEventProducer interface {
	// SendSubscriptionCreated publishes a subscription created event
	SendSubscriptionCreated(ctx context.Context, user *entities.User, channel *entities.Channel) error

	// SendSubscriptionDeleted publishes a subscription deleted event
	SendSubscriptionDeleted(ctx context.Context, user *entities.User, channel *entities.Channel) error

	// Close closes the producer
	Close() error
}
