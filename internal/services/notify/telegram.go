package notify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"QuantPulse/internal/domain/models"
	"QuantPulse/pkg/logger"
)

// sender is the slice of tgbotapi.BotAPI the notifier needs.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier pushes regime and significance alerts to a chat.
type TelegramNotifier struct {
	api    sender
	chatID int64
	log    *logger.Logger
}

func NewTelegramNotifier(token string, chatID int64, log *logger.Logger) (*TelegramNotifier, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	bot.Debug = false
	log.Info("telegram notifier initialized", logger.String("bot_username", bot.Self.UserName))
	return &TelegramNotifier{api: bot, chatID: chatID, log: log}, nil
}

func (n *TelegramNotifier) NotifyRegimeChange(ctx context.Context, alert models.RegimeAlert) error {
	sig := alert.Signal
	title := fmt.Sprintf("%s regime change", sig.Symbol)
	body := fmt.Sprintf("%s -> %s (confidence %.0f%%, 60d return %.1f%%)",
		alert.Previous, sig.Regime, sig.ConfidencePct, sig.Return60*100)
	if alert.LeveragedTicker != "" {
		body += fmt.Sprintf("\naffects %s", alert.LeveragedTicker)
	}
	return n.send(ctx, notificationMessage(title, body))
}

func (n *TelegramNotifier) NotifySignificance(ctx context.Context, res models.SignificanceResult) error {
	verdict := "not significant"
	if res.Significant {
		verdict = "significant"
	}
	title := fmt.Sprintf("factor %s", res.FactorName)
	body := fmt.Sprintf("%s (p=%.4f, effect size %.2f, n=%d/%d)",
		verdict, res.PValue, res.EffectSize, res.SampleSizes[0], res.SampleSizes[1])
	return n.send(ctx, notificationMessage(title, body))
}

func (n *TelegramNotifier) send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

const markdownV2Special = `_*[]()~` + "`" + `>#+-=|{}.!\`

// escapeMarkdownV2 escapes every character Telegram treats as markup.
func escapeMarkdownV2(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if strings.ContainsRune(markdownV2Special, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func bold(text string) string {
	return "*" + escapeMarkdownV2(text) + "*"
}

func notificationMessage(title, body string) string {
	return bold(title) + "\n\n" + escapeMarkdownV2(body)
}
