package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tradesignals/internal/config"
	"tradesignals/internal/outcome"
)

// TelegramNotifier pushes settlement summaries to an admin chat. Delivery
// is best-effort: a send failure is logged and never fails the settlement
// that triggered it.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

// NewTelegram returns nil when the notifier is disabled; callers treat a
// nil notifier as "no admin channel configured".
func NewTelegram(cfg config.TelegramConfig, logger *zap.Logger) (*TelegramNotifier, error) {
	if !cfg.Enabled || cfg.Token == "" || cfg.ChatID == 0 {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	return &TelegramNotifier{bot: bot, chatID: cfg.ChatID, logger: logger}, nil
}

func (n *TelegramNotifier) SignalExecuted(ctx context.Context, signalID uint64, out outcome.Outcome, participants int, totalVolume decimal.Decimal) {
	if n == nil {
		return
	}
	text := fmt.Sprintf("Signal #%d executed: %s, %d participant(s), volume %s",
		signalID, out, participants, totalVolume.StringFixed(2))
	n.send(text)
}

func (n *TelegramNotifier) SweepCompleted(ctx context.Context, expired, refunded int) {
	if n == nil || expired == 0 {
		return
	}
	text := fmt.Sprintf("Expiry sweep: %d signal(s) expired, %d participant(s) refunded", expired, refunded)
	n.send(text)
}

func (n *TelegramNotifier) send(text string) {
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil && n.logger != nil {
		n.logger.Warn("telegram notify failed", zap.Error(err))
	}
}
