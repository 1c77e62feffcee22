// Package telegram contains Telegram delivery handlers
package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/feedfusion/bot-service/internal/domain/feed/consts"
	"github.com/feedfusion/bot-service/internal/domain/feed/dto"
	feederrors "github.com/feedfusion/bot-service/internal/domain/feed/errors"
	"github.com/feedfusion/bot-service/internal/domain/feed/usecase/buissines"
)

// Handlers contains Telegram command and callback handlers
type Handlers struct {
	uc     *buissines.UseCase
	logger zerolog.Logger
}

// NewHandlers creates new Telegram handlers
func NewHandlers(uc *buissines.UseCase, logger zerolog.Logger) *Handlers {
	return &Handlers{
		uc:     uc,
		logger: logger,
	}
}

// HandleStart handles /start command
func (h *Handlers) HandleStart(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	resp, err := h.uc.HandleStart(ctx,
		strconv.FormatInt(update.Message.From.ID, 10),
		update.Message.From.Username,
	)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to handle /start")
		h.sendText(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка. Попробуй еще раз.")
		return
	}

	h.sendText(ctx, b, update.Message.Chat.ID, resp.Message)
}

// HandleHelp handles /help command
func (h *Handlers) HandleHelp(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	resp, err := h.uc.HandleHelp(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to handle /help")
		return
	}

	h.sendText(ctx, b, update.Message.Chat.ID, resp.Message)
}

// HandleList handles /list command
func (h *Handlers) HandleList(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	view, err := h.uc.ShowList(ctx, strconv.FormatInt(update.Message.From.ID, 10))
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to handle /list")
		h.sendText(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка при загрузке списка каналов.")
		return
	}

	_, err = b.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        view.Message,
		ReplyMarkup: buildKeyboard(view.Buttons),
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to send channel list")
	}
}

// HandleMessage handles messages without commands: forwarded posts and
// channel links
func (h *Handlers) HandleMessage(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	msg := toIncomingMessage(update.Message)
	classified := dto.Classify(msg)

	switch classified.Class {
	case dto.ClassForwardedChannel:
		h.addChannel(ctx, b, update.Message.Chat.ID, msg.UserTelegramID, classified.Channel)

	case dto.ClassLinkCandidate:
		h.logger.Info().Str("handle", classified.Handle).Msg("Channel link detected")
		h.sendText(ctx, b, update.Message.Chat.ID, "⏳ Проверяю канал...")

		ref, err := h.uc.ResolveLink(ctx, classified.Handle)
		if err != nil {
			h.sendText(ctx, b, update.Message.Chat.ID, resolveFailureText(err))
			return
		}

		h.addChannel(ctx, b, update.Message.Chat.ID, msg.UserTelegramID, ref)

	case dto.ClassPlain:
		// nothing to do
	}
}

// addChannel runs the subscribe flow and reports the outcome
func (h *Handlers) addChannel(ctx context.Context, b *tgbot.Bot, chatID int64, userTelegramID string, ref *dto.ChannelRef) {
	resp, err := h.uc.AddChannel(ctx, userTelegramID, ref)
	if err != nil {
		h.logger.Error().Err(err).Str("channel_title", ref.Title).Msg("Error adding channel")
		h.sendText(ctx, b, chatID, "❌ Произошла ошибка при добавлении канала. Попробуй еще раз.")
		return
	}

	h.sendText(ctx, b, chatID, resp.Message)
}

// HandleChannelSelect handles channel_select callback
func (h *Handlers) HandleChannelSelect(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}

	channelID := strings.TrimPrefix(cb.Data, consts.CallbackChannelSelect)

	resp, err := h.uc.SelectChannel(ctx, channelID)
	if err != nil {
		h.logger.Error().Err(err).Msg("Error handling channel selection")
		h.answerCallback(ctx, b, cb.ID, "❌ Произошла ошибка при обработке выбора канала.")
		return
	}

	h.applyCallbackResponse(ctx, b, cb, resp)
}

// HandleChannelDelete handles channel_delete callback
func (h *Handlers) HandleChannelDelete(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}

	channelID := strings.TrimPrefix(cb.Data, consts.CallbackChannelDelete)

	resp, err := h.uc.DeleteChannel(ctx, strconv.FormatInt(cb.From.ID, 10), channelID)
	if err != nil {
		h.logger.Error().Err(err).Msg("Error deleting channel")
		h.answerCallback(ctx, b, cb.ID, "❌ Произошла ошибка при удалении канала")
		return
	}

	h.applyCallbackResponse(ctx, b, cb, resp)
}

// HandleBackToList handles back_to_list callback
func (h *Handlers) HandleBackToList(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}

	resp, err := h.uc.BackToList(ctx, strconv.FormatInt(cb.From.ID, 10))
	if err != nil {
		h.logger.Error().Err(err).Msg("Error returning to list")
		h.answerCallback(ctx, b, cb.ID, "❌ Произошла ошибка")
		return
	}

	h.applyCallbackResponse(ctx, b, cb, resp)
}

// applyCallbackResponse answers the callback and applies the message edit
// if one was produced
func (h *Handlers) applyCallbackResponse(ctx context.Context, b *tgbot.Bot, cb *models.CallbackQuery, resp *dto.CallbackResponse) {
	h.answerCallback(ctx, b, cb.ID, resp.Notice)

	if resp.Edit == nil || cb.Message.Message == nil {
		return
	}

	_, err := b.EditMessageText(ctx, &tgbot.EditMessageTextParams{
		ChatID:      cb.Message.Message.Chat.ID,
		MessageID:   cb.Message.Message.ID,
		Text:        resp.Edit.Message,
		ReplyMarkup: buildKeyboard(resp.Edit.Buttons),
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to edit message")
	}
}

func (h *Handlers) sendText(ctx context.Context, b *tgbot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}

func (h *Handlers) answerCallback(ctx context.Context, b *tgbot.Bot, callbackID, text string) {
	_, err := b.AnswerCallbackQuery(ctx, &tgbot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to answer callback query")
	}
}

// toIncomingMessage maps a Telegram message into the transport-agnostic DTO
func toIncomingMessage(msg *models.Message) *dto.IncomingMessage {
	in := &dto.IncomingMessage{
		UserTelegramID: strconv.FormatInt(msg.From.ID, 10),
		Username:       msg.From.Username,
		Text:           msg.Text,
	}

	if msg.ForwardOrigin != nil {
		switch {
		case msg.ForwardOrigin.MessageOriginChannel != nil:
			chat := msg.ForwardOrigin.MessageOriginChannel.Chat
			in.Forward = &dto.ForwardedChat{
				Type:       string(chat.Type),
				TelegramID: strconv.FormatInt(chat.ID, 10),
				Title:      chat.Title,
				Username:   chat.Username,
			}
		case msg.ForwardOrigin.MessageOriginChat != nil:
			chat := msg.ForwardOrigin.MessageOriginChat.SenderChat
			in.Forward = &dto.ForwardedChat{
				Type:       string(chat.Type),
				TelegramID: strconv.FormatInt(chat.ID, 10),
				Title:      chat.Title,
				Username:   chat.Username,
			}
		}
	}

	return in
}

// resolveFailureText maps a resolution failure to the user-facing reply
func resolveFailureText(err error) string {
	if errors.Is(err, feederrors.ErrNotAChannel) {
		return "❌ Это не канал. Отправь ссылку на канал."
	}

	return "❌ Не могу получить информацию о канале. Убедись что:\n" +
		"• Канал публичный\n" +
		"• Ссылка правильная\n\n" +
		"Или перешли мне пост из этого канала."
}

// buildKeyboard converts view button rows into a Telegram inline keyboard.
// Returns nil for a plain text view.
func buildKeyboard(rows [][]dto.Button) models.ReplyMarkup {
	if len(rows) == 0 {
		return nil
	}

	keyboard := make([][]models.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]models.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			buttons = append(buttons, models.InlineKeyboardButton{
				Text:         btn.Text,
				CallbackData: btn.CallbackData,
				URL:          btn.URL,
			})
		}
		keyboard = append(keyboard, buttons)
	}

	return &models.InlineKeyboardMarkup{InlineKeyboard: keyboard}
}
