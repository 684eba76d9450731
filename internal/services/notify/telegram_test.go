package notify

import (
	"context"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"QuantPulse/internal/domain/models"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func TestEscapeMarkdownV2(t *testing.T) {
	got := escapeMarkdownV2("a.b-c (d)!")
	want := `a\.b\-c \(d\)\!`
	if got != want {
		t.Fatalf("escape = %q, want %q", got, want)
	}
}

func TestEscapeMarkdownV2Plain(t *testing.T) {
	if got := escapeMarkdownV2("plain text"); got != "plain text" {
		t.Fatalf("escape = %q, want unchanged", got)
	}
}

func TestNotifyRegimeChange(t *testing.T) {
	fake := &fakeSender{}
	n := &TelegramNotifier{api: fake, chatID: 42}

	sig := models.RegimeSignal{Symbol: "SPY"}
	sig.Regime = models.RegimeBull
	sig.ConfidencePct = 82
	sig.Return60 = 0.123

	alert := models.RegimeAlert{Signal: sig, Previous: models.RegimeRange, LeveragedTicker: "UPRO"}
	if err := n.NotifyRegimeChange(context.Background(), alert); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(fake.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(fake.sent))
	}
	msg := fake.sent[0]
	if msg.ChatID != 42 {
		t.Fatalf("chat id = %d, want 42", msg.ChatID)
	}
	if msg.ParseMode != tgbotapi.ModeMarkdownV2 {
		t.Fatalf("parse mode = %q", msg.ParseMode)
	}
	if !strings.Contains(msg.Text, "RANGE") || !strings.Contains(msg.Text, "BULL") {
		t.Fatalf("message missing regimes: %q", msg.Text)
	}
	if !strings.Contains(msg.Text, "UPRO") {
		t.Fatalf("message missing leveraged ticker: %q", msg.Text)
	}
	if strings.Contains(msg.Text, "82%)") {
		t.Fatalf("unescaped markup in message: %q", msg.Text)
	}
}

func TestNotifySignificance(t *testing.T) {
	fake := &fakeSender{}
	n := &TelegramNotifier{api: fake, chatID: 1}

	res := models.SignificanceResult{
		FactorName:  "premarket_volume",
		PValue:      0.012,
		EffectSize:  1.4,
		Significant: true,
		SampleSizes: [2]int{8, 9},
	}
	if err := n.NotifySignificance(context.Background(), res); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(fake.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(fake.sent))
	}
	if !strings.Contains(fake.sent[0].Text, "premarket\\_volume") {
		t.Fatalf("factor name not escaped: %q", fake.sent[0].Text)
	}
}

func TestSendCancelledContext(t *testing.T) {
	fake := &fakeSender{}
	n := &TelegramNotifier{api: fake, chatID: 1}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := n.send(ctx, "hi"); err == nil {
		t.Fatal("expected context error")
	}
	if len(fake.sent) != 0 {
		t.Fatalf("sent %d messages after cancel, want 0", len(fake.sent))
	}
}
