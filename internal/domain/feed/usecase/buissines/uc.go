// Package buissines contains business logic for the feed domain
package buissines

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/feedfusion/bot-service/internal/domain/feed/consts"
	"github.com/feedfusion/bot-service/internal/domain/feed/deps"
	"github.com/feedfusion/bot-service/internal/domain/feed/dto"
	"github.com/feedfusion/bot-service/internal/domain/feed/entities"
	feederrors "github.com/feedfusion/bot-service/internal/domain/feed/errors"
)

// UseCase contains business logic for feed operations
type UseCase struct {
	users    deps.UserRepository
	channels deps.ChannelRepository
	subs     deps.SubscriptionRepository
	lookup   deps.ChannelLookup
	producer deps.SubscriptionEventProducer
	logger   zerolog.Logger
}

// NewUseCase creates a new UseCase instance
func NewUseCase(
	users deps.UserRepository,
	channels deps.ChannelRepository,
	subs deps.SubscriptionRepository,
	lookup deps.ChannelLookup,
	producer deps.SubscriptionEventProducer,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		users:    users,
		channels: channels,
		subs:     subs,
		lookup:   lookup,
		producer: producer,
		logger:   logger,
	}
}

// HandleStart handles /start: registers the user and greets them
func (uc *UseCase) HandleStart(ctx context.Context, telegramID, username string) (*dto.CommandResponse, error) {
	uc.logger.Info().
		Str("telegram_id", telegramID).
		Str("username", username).
		Msg("User started bot")

	if _, err := uc.FindOrCreateUser(ctx, telegramID, username); err != nil {
		return nil, err
	}

	message := "👋 Привет! Я, бот FeedFusion, помогу тебе создать персональную ленту из Telegram каналов.\n\n" +
		"📌 Чтобы добавить канал:\n" +
		"• Перешли мне любой пост из канала\n" +
		"• Или отправь ссылку на канал (например: https://t.me/channelname)\n\n" +
		fmt.Sprintf("📊 У тебя может быть максимум %d каналов.\n\n", consts.MaxSubscriptions) +
		"Используй /help для справки."

	return &dto.CommandResponse{Message: message}, nil
}

// HandleHelp handles /help
func (uc *UseCase) HandleHelp(ctx context.Context) (*dto.CommandResponse, error) {
	message := "📖 Доступные команды:\n\n" +
		"/start - Начать работу\n" +
		"/list - Список твоих каналов\n" +
		"/help - Эта справка"

	return &dto.CommandResponse{Message: message}, nil
}

// ResolveLink resolves a public channel handle into a normalized channel
// reference via the platform lookup. Handles pointing at anything other
// than a channel are rejected.
func (uc *UseCase) ResolveLink(ctx context.Context, handle string) (*dto.ChannelRef, error) {
	info, err := uc.lookup.LookupChannel(ctx, handle)
	if err != nil {
		uc.logger.Warn().Err(err).Str("handle", handle).Msg("Channel lookup failed")
		return nil, feederrors.ErrChannelLookupFailed
	}

	uc.logger.Info().
		Str("handle", handle).
		Str("chat_type", info.Type).
		Str("telegram_id", info.TelegramID).
		Msg("Chat resolved")

	if info.Type != "channel" {
		return nil, feederrors.ErrNotAChannel
	}

	return &dto.ChannelRef{
		TelegramID: info.TelegramID,
		Title:      info.Title,
		Username:   info.Username,
	}, nil
}

// AddChannel subscribes an existing user to the referenced channel,
// creating the channel record lazily. The user must have been registered
// via /start; this flow does not create users.
func (uc *UseCase) AddChannel(ctx context.Context, userTelegramID string, ref *dto.ChannelRef) (*dto.CommandResponse, error) {
	user, err := uc.users.FindByTelegramID(ctx, userTelegramID)
	if err != nil {
		if errors.Is(err, feederrors.ErrUserNotFound) {
			return &dto.CommandResponse{Message: "❌ Произошла ошибка. Попробуй /start"}, nil
		}
		return nil, err
	}

	channel, err := uc.FindOrCreateChannel(ctx, ref)
	if err != nil {
		return nil, err
	}

	if err := uc.subs.Subscribe(ctx, user.ID, channel.ID); err != nil {
		switch {
		case errors.Is(err, feederrors.ErrAlreadySubscribed):
			return &dto.CommandResponse{
				Message: fmt.Sprintf("ℹ️ Ты уже подписан на канал \"%s\".\n\nИспользуй /list чтобы посмотреть все свои каналы.", channel.Title),
			}, nil
		case errors.Is(err, feederrors.ErrSubscriptionLimit):
			return &dto.CommandResponse{
				Message: fmt.Sprintf("❌ Достигнут лимит подписок (%d). Удали ненужные каналы через /list", consts.MaxSubscriptions),
			}, nil
		default:
			return nil, err
		}
	}

	uc.logger.Info().
		Str("telegram_id", user.TelegramID).
		Str("channel_title", channel.Title).
		Msg("User subscribed to channel")

	// Emission is best-effort: the subscription is already committed
	if err := uc.producer.SendSubscriptionCreated(ctx, user, channel); err != nil {
		uc.logger.Error().Err(err).Msg("Failed to send subscription created event")
	}

	count, err := uc.subs.CountByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("✅ Канал \"%s\" добавлен в твою ленту!\n\n", channel.Title) +
		fmt.Sprintf("📊 У тебя %d из %d каналов.\n\n", count, consts.MaxSubscriptions) +
		"Теперь новые посты из этого канала будут приходить сюда."

	return &dto.CommandResponse{Message: message}, nil
}

// FindOrCreateUser returns the user with the given Telegram identity,
// creating one on first contact. A racing duplicate insert is retried
// as a lookup.
func (uc *UseCase) FindOrCreateUser(ctx context.Context, telegramID, username string) (*entities.User, error) {
	user, err := uc.users.FindByTelegramID(ctx, telegramID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, feederrors.ErrUserNotFound) {
		return nil, err
	}

	user = &entities.User{
		TelegramID: telegramID,
		Username:   username,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		if errors.Is(err, feederrors.ErrUserAlreadyExists) {
			return uc.users.FindByTelegramID(ctx, telegramID)
		}
		return nil, err
	}

	uc.logger.Info().Str("telegram_id", telegramID).Msg("User created")
	return user, nil
}

// FindOrCreateChannel returns the channel with the referenced Telegram
// identity, creating one on first reference. A racing duplicate insert
// is retried as a lookup.
func (uc *UseCase) FindOrCreateChannel(ctx context.Context, ref *dto.ChannelRef) (*entities.Channel, error) {
	channel, err := uc.channels.FindByTelegramID(ctx, ref.TelegramID)
	if err == nil {
		return channel, nil
	}
	if !errors.Is(err, feederrors.ErrChannelNotFound) {
		return nil, err
	}

	channel = &entities.Channel{
		TelegramID: ref.TelegramID,
		Username:   ref.Username,
		Title:      ref.Title,
	}
	if err := uc.channels.Create(ctx, channel); err != nil {
		if errors.Is(err, feederrors.ErrChannelAlreadyExists) {
			return uc.channels.FindByTelegramID(ctx, ref.TelegramID)
		}
		return nil, err
	}

	uc.logger.Info().
		Str("telegram_id", ref.TelegramID).
		Str("title", ref.Title).
		Msg("Channel created")
	return channel, nil
}

// CleanUsersWithoutSubscriptions removes every orphan user and returns
// the number of deleted accounts
func (uc *UseCase) CleanUsersWithoutSubscriptions(ctx context.Context) (int64, error) {
	deleted, err := uc.users.DeleteWithoutSubscriptions(ctx)
	if err != nil {
		uc.logger.Error().Err(err).Msg("Failed to clean users without subscriptions")
		return 0, err
	}

	uc.logger.Info().Int64("deleted", deleted).Msg("Deleted users without subscriptions")
	return deleted, nil
}
