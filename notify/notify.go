// Package notify pushes operator notifications over Telegram: fatal
// alerts and the daily activity summary. It is send-only; the bot never
// reads messages.
package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tiktok-reply-bot/engine"
)

// Notifier sends messages to a single operator chat.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// New creates a notifier for the given bot token and chat.
func New(token string, chatID int64) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return &Notifier{bot: bot, chatID: chatID}, nil
}

// Alert reports a failure that stopped the reply loop.
func (n *Notifier) Alert(message string) error {
	return n.send("⚠️ Reply bot stopped: " + message)
}

// Summary reports the engine's counters, typically once a day.
func (n *Notifier) Summary(stats engine.Stats, ledgerTotal int) error {
	return n.send(FormatSummary(stats, ledgerTotal))
}

func (n *Notifier) send(text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

// FormatSummary renders the daily summary message.
func FormatSummary(stats engine.Stats, ledgerTotal int) string {
	return fmt.Sprintf("📊 Reply bot summary\n\n"+
		"Cycles: %d\n"+
		"Comments seen: %d\n"+
		"Replies sent: %d\n"+
		"Skipped: %d\n"+
		"Total replies recorded: %d",
		stats.Cycles, stats.Fetched, stats.Replied, stats.Skipped, ledgerTotal)
}
