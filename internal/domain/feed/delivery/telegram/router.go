// Package telegram contains Telegram delivery layer
package telegram

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/feedfusion/bot-service/internal/domain/feed/consts"
)

// Router registers Telegram bot handlers
type Router struct {
	handlers *Handlers
	logger   zerolog.Logger
}

// NewRouter creates new Telegram router
func NewRouter(handlers *Handlers, logger zerolog.Logger) *Router {
	return &Router{
		handlers: handlers,
		logger:   logger,
	}
}

// RegisterRoutes registers all command and callback handlers on the bot
func (r *Router) RegisterRoutes(bot *tgbot.Bot) {
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/"+consts.CommandStart.Name, tgbot.MatchTypeExact, r.handlers.HandleStart)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/"+consts.CommandHelp.Name, tgbot.MatchTypeExact, r.handlers.HandleHelp)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/"+consts.CommandList.Name, tgbot.MatchTypeExact, r.handlers.HandleList)

	bot.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, consts.CallbackChannelSelect, tgbot.MatchTypePrefix, r.handlers.HandleChannelSelect)
	bot.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, consts.CallbackChannelDelete, tgbot.MatchTypePrefix, r.handlers.HandleChannelDelete)
	bot.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, consts.CallbackBackToList, tgbot.MatchTypeExact, r.handlers.HandleBackToList)

	r.logger.Info().Msg("All Telegram handlers registered successfully")
}

// SetCommandMenu publishes the command menu to Telegram
func (r *Router) SetCommandMenu(ctx context.Context, bot *tgbot.Bot) {
	commands := make([]models.BotCommand, 0, len(consts.AllCommands))
	for _, cmd := range consts.AllCommands {
		commands = append(commands, models.BotCommand{
			Command:     cmd.Name,
			Description: cmd.Description,
		})
	}

	if _, err := bot.SetMyCommands(ctx, &tgbot.SetMyCommandsParams{Commands: commands}); err != nil {
		r.logger.Warn().Err(err).Msg("Failed to set command menu")
	}
}
