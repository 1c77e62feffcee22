package telegram

import (
	"context"
	"fmt"
	"strconv"

	tgbot "github.com/go-telegram/bot"
	"github.com/rs/zerolog"

	"github.com/feedfusion/bot-service/internal/domain/feed/deps"
	"github.com/feedfusion/bot-service/internal/domain/feed/dto"
)

// Lookup resolves public handles into chat metadata via the Bot API.
// Implements deps.ChannelLookup.
type Lookup struct {
	bot    *Bot
	logger zerolog.Logger
}

// NewLookup creates a new chat lookup
func NewLookup(bot *Bot, logger zerolog.Logger) deps.ChannelLookup {
	return &Lookup{
		bot:    bot,
		logger: logger,
	}
}

// LookupChannel resolves a public handle via getChat. Private and unknown
// chats fail here and the error is surfaced to the caller as terminal for
// the event.
func (l *Lookup) LookupChannel(ctx context.Context, handle string) (*dto.ChatInfo, error) {
	chat, err := l.bot.Raw().GetChat(ctx, &tgbot.GetChatParams{
		ChatID: "@" + handle,
	})
	if err != nil {
		l.logger.Warn().Err(err).Str("handle", handle).Msg("getChat failed")
		return nil, fmt.Errorf("getChat @%s: %w", handle, err)
	}

	return &dto.ChatInfo{
		TelegramID: strconv.FormatInt(chat.ID, 10),
		Type:       string(chat.Type),
		Title:      chat.Title,
		Username:   chat.Username,
	}, nil
}
