package services

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramService — второй канал уведомлений. nil-safe: без токена все
// отправки молча пропускаются.
type TelegramService struct {
	bot    *tgbotapi.BotAPI
	dryRun bool
}

func NewTelegramService(botToken string, dryRun bool) *TelegramService {
	if botToken == "" {
		return &TelegramService{}
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Printf("[tg][init] bot api unavailable: %v", err)
		return &TelegramService{}
	}
	return &TelegramService{bot: bot, dryRun: dryRun}
}

func (t *TelegramService) SendStageAlert(chatID int64, leadTitle, stageName, leadURL string) error {
	if t == nil || t.bot == nil || chatID == 0 {
		log.Printf("[tg][skip] bot or chatID empty (bot? %v chatID=%d)", t != nil && t.bot != nil, chatID)
		return nil
	}
	text := fmt.Sprintf("Лид «%s» переведён на этап «%s»\n%s", leadTitle, stageName, leadURL)
	if t.dryRun {
		log.Printf("[tg][dry-run] chatID=%d text=%q", chatID, text)
		return nil
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram sendMessage failed: %w", err)
	}
	return nil
}
