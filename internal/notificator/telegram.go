package notificator

import (
	"context"

	"github.com/go-telegram/bot"

	"github.com/0xZumii/cat-tv/pkg/logger"
)

// TelegramNotificator posts announcements to a single configured chat.
type TelegramNotificator struct {
	logger *logger.Logger
	bot    *bot.Bot
	chatID string
}

func NewTelegramNotificator(logger *logger.Logger, token, chatID string) (*TelegramNotificator, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, err
	}

	return &TelegramNotificator{logger: logger, bot: b, chatID: chatID}, nil
}

func (t *TelegramNotificator) SendMessage(message string) {
	params := &bot.SendMessageParams{
		ChatID: t.chatID,
		Text:   message,
	}
	if _, err := t.bot.SendMessage(context.Background(), params); err != nil {
		t.logger.Error("Failed to send telegram message: ", err)
	}
}
