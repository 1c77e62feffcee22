package buissines

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/feedfusion/bot-service/internal/domain/feed/consts"
	"github.com/feedfusion/bot-service/internal/domain/feed/dto"
	"github.com/feedfusion/bot-service/internal/domain/feed/entities"
	feederrors "github.com/feedfusion/bot-service/internal/domain/feed/errors"
)

// The channel menu keeps no server-side session state: every transition
// re-reads the current subscriptions, so a stale callback token referencing
// an already-deleted channel is a normal outcome, not a fault.

// ShowList renders the channel list for /list
func (uc *UseCase) ShowList(ctx context.Context, userTelegramID string) (*dto.View, error) {
	user, err := uc.users.FindByTelegramID(ctx, userTelegramID)
	if err != nil {
		if errors.Is(err, feederrors.ErrUserNotFound) {
			return &dto.View{Message: "❌ Пользователь не найден. Попробуй /start"}, nil
		}
		return nil, err
	}

	subscriptions, err := uc.subs.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return renderList(subscriptions, emptyListText), nil
}

// SelectChannel renders the detail screen for a selected channel
func (uc *UseCase) SelectChannel(ctx context.Context, channelID string) (*dto.CallbackResponse, error) {
	id, err := uuid.Parse(channelID)
	if err != nil {
		return &dto.CallbackResponse{Notice: "❌ Канал не найден"}, nil
	}

	channel, err := uc.channels.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, feederrors.ErrChannelNotFound) {
			return &dto.CallbackResponse{Notice: "❌ Канал не найден"}, nil
		}
		return nil, err
	}

	buttons := [][]dto.Button{
		{{Text: "🗑️ Удалить канал", CallbackData: consts.CallbackChannelDelete + channel.ID.String()}},
	}
	if channel.Username != "" {
		buttons = append(buttons, []dto.Button{
			{Text: "🔗 Перейти в канал", URL: "https://t.me/" + channel.Username},
		})
	}
	buttons = append(buttons, []dto.Button{
		{Text: "◀️ Назад к списку", CallbackData: consts.CallbackBackToList},
	})

	return &dto.CallbackResponse{
		Edit: &dto.View{
			Message: fmt.Sprintf("📢 %s\n\n📅 Добавлен: %s\n\nВыбери действие:",
				channel.Title, channel.CreatedAt.Format("02.01.2006")),
			Buttons: buttons,
		},
	}, nil
}

// DeleteChannel unsubscribes the user from the channel and re-renders
// the list
func (uc *UseCase) DeleteChannel(ctx context.Context, userTelegramID, channelID string) (*dto.CallbackResponse, error) {
	user, err := uc.users.FindByTelegramID(ctx, userTelegramID)
	if err != nil {
		if errors.Is(err, feederrors.ErrUserNotFound) {
			return &dto.CallbackResponse{Notice: "❌ Пользователь не найден"}, nil
		}
		return nil, err
	}

	id, err := uuid.Parse(channelID)
	if err != nil {
		return &dto.CallbackResponse{Notice: "❌ Канал не найден"}, nil
	}

	channel, err := uc.channels.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, feederrors.ErrChannelNotFound) {
			return &dto.CallbackResponse{Notice: "❌ Канал не найден"}, nil
		}
		return nil, err
	}

	deleted, err := uc.subs.Delete(ctx, user.ID, channel.ID)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return &dto.CallbackResponse{Notice: "❌ Не удалось удалить канал"}, nil
	}

	uc.logger.Info().
		Str("telegram_id", user.TelegramID).
		Str("channel_title", channel.Title).
		Msg("User unsubscribed from channel")

	if err := uc.producer.SendSubscriptionDeleted(ctx, user, channel); err != nil {
		uc.logger.Error().Err(err).Msg("Failed to send subscription deleted event")
	}

	subscriptions, err := uc.subs.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.CallbackResponse{
		Notice: fmt.Sprintf("✅ Канал \"%s\" удален из ленты", channel.Title),
		Edit:   renderList(subscriptions, emptyListAfterDeleteText),
	}, nil
}

// BackToList re-renders the channel list
func (uc *UseCase) BackToList(ctx context.Context, userTelegramID string) (*dto.CallbackResponse, error) {
	user, err := uc.users.FindByTelegramID(ctx, userTelegramID)
	if err != nil {
		if errors.Is(err, feederrors.ErrUserNotFound) {
			return &dto.CallbackResponse{Notice: "❌ Пользователь не найден"}, nil
		}
		return nil, err
	}

	subscriptions, err := uc.subs.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.CallbackResponse{Edit: renderList(subscriptions, emptyListText)}, nil
}

const (
	emptyListText = "📭 У тебя пока нет каналов в ленте.\n\n" +
		"Перешли мне пост из канала или отправь ссылку на канал чтобы добавить его."
	emptyListAfterDeleteText = "📭 У тебя больше нет каналов в ленте.\n\n" +
		"Перешли мне пост из канала или отправь ссылку на канал чтобы добавить его."
)

// renderList builds the list view, or the given empty state when the user
// has no channels left
func renderList(subscriptions []entities.Subscription, emptyText string) *dto.View {
	if len(subscriptions) == 0 {
		return &dto.View{Message: emptyText}
	}

	buttons := make([][]dto.Button, 0, len(subscriptions))
	for _, sub := range subscriptions {
		buttons = append(buttons, []dto.Button{{
			Text:         "📢 " + sub.Channel.Title,
			CallbackData: consts.CallbackChannelSelect + sub.ChannelID.String(),
		}})
	}

	return &dto.View{
		Message: fmt.Sprintf("📋 Твои каналы (%d/%d):\n\nВыбери канал для управления:",
			len(subscriptions), consts.MaxSubscriptions),
		Buttons: buttons,
	}
}
