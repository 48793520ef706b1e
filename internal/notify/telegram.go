// Package notify delivers setup alerts to Telegram.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Brxzee/scalping-bot/internal/engine"
	"github.com/Brxzee/scalping-bot/pkg/config"
	"github.com/Brxzee/scalping-bot/pkg/models"
)

// TelegramNotifier sends trading alerts via the Telegram bot API.
type TelegramNotifier struct {
	client   *http.Client
	baseURL  string
	botToken string
	chatID   string
	logger   *logrus.Entry
}

// NewTelegramNotifier creates a Telegram notifier.
func NewTelegramNotifier(cfg *config.TelegramConfig, log *logrus.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		client:   &http.Client{Timeout: cfg.Timeout},
		baseURL:  "https://api.telegram.org",
		botToken: cfg.BotToken,
		chatID:   cfg.ChatID,
		logger:   log.WithField("component", "telegram"),
	}
}

// SendSetupAlert sends a formatted alert for one setup.
func (t *TelegramNotifier) SendSetupAlert(ctx context.Context, setup models.SetupRecord) error {
	return t.SendMessage(ctx, formatSetup(setup))
}

// SendMessage sends an HTML-formatted message to the configured chat.
func (t *TelegramNotifier) SendMessage(ctx context.Context, text string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.botToken)
	params := url.Values{}
	params.Set("chat_id", t.chatID)
	params.Set("text", text)
	params.Set("parse_mode", "HTML")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(params.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("telegram API rejected message: %s", result.Description)
	}

	t.logger.Debug("Telegram message sent")
	return nil
}

func formatSetup(s models.SetupRecord) string {
	emoji := "\U0001F7E2" // green circle
	if s.Direction == models.Bearish {
		emoji = "\U0001F534" // red circle
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>Rejection Block Setup - %s</b>\n\n", emoji, s.Symbol)
	fmt.Fprintf(&b, "<b>Direction:</b> %s\n", strings.ToUpper(string(s.Direction)))
	fmt.Fprintf(&b, "<b>Quality:</b> %s (%d)\n", engine.QualityRating(s.Score), s.Score)
	fmt.Fprintf(&b, "<b>Timeframe:</b> %s\n\n", s.Timeframe)
	fmt.Fprintf(&b, "<b>Entry:</b> %.2f (retracement into wick)\n", s.EntryMid())
	fmt.Fprintf(&b, "<b>Stop Loss:</b> %.2f\n", s.Stop)
	fmt.Fprintf(&b, "<b>Take Profit:</b> %.2f\n\n", s.Target)
	fmt.Fprintf(&b, "<b>Risk/Reward:</b> 1:%.1f\n", s.RR())
	fmt.Fprintf(&b, "<b>Risk:</b> %.1f points\n\n", s.RiskPoints())
	fmt.Fprintf(&b, "<b>Key Level:</b> %s @ %.2f\n", s.KeyLevelType, s.KeyLevelPrice)
	fmt.Fprintf(&b, "<b>Confluences:</b> %s\n\n", strings.Join(s.Confluences, ", "))
	fmt.Fprintf(&b, "<i>Generated: %s</i>", s.Timestamp.Format("2006-01-02 15:04:05 MST"))
	return b.String()
}
