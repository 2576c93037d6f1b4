// Package notifier delivers report notifications to the Telegram bridge.
// Delivery is best-effort: the bridge being down never fails the report
// operation that triggered the notification.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/kassatrack/cash_report_app/internal/core/domain"
	portssvc "github.com/kassatrack/cash_report_app/internal/core/ports/services"
)

const deliveryTimeout = 10 * time.Second

// telegramTarget resolves the bot token and group id at send time so that
// settings edits take effect without a restart.
type telegramTarget interface {
	TelegramTarget(ctx context.Context) (token, groupID string)
}

type TelegramBridge struct {
	bridgeURL string
	settings  telegramTarget
	client    *http.Client
	logger    *slog.Logger
}

func NewTelegramBridge(bridgeURL string, settings telegramTarget, logger *slog.Logger) *TelegramBridge {
	return &TelegramBridge{
		bridgeURL: bridgeURL,
		settings:  settings,
		client:    &http.Client{Timeout: deliveryTimeout},
		logger:    logger,
	}
}

var _ portssvc.ReportNotifier = (*TelegramBridge)(nil)

type bridgePayload struct {
	domain.ReportNotification
	BotToken string `json:"bot_token"`
	GroupID  string `json:"group_id"`
}

// Notify sends the notification in a background goroutine. The caller's
// context is not reused: the request that triggered the notification may
// already be finished by the time delivery happens.
func (t *TelegramBridge) Notify(ctx context.Context, n domain.ReportNotification) {
	token, groupID := t.settings.TelegramTarget(ctx)
	if token == "" || groupID == "" {
		t.logger.DebugContext(ctx, "telegram notification skipped, target not configured",
			slog.Int64("reportID", n.ReportID))
		return
	}

	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		defer cancel()

		if err := t.send(sendCtx, bridgePayload{ReportNotification: n, BotToken: token, GroupID: groupID}); err != nil {
			t.logger.Error("failed to deliver telegram notification",
				slog.Int64("reportID", n.ReportID),
				slog.String("kind", string(n.Kind)),
				slog.String("error", err.Error()))
			return
		}
		t.logger.Info("telegram notification delivered",
			slog.Int64("reportID", n.ReportID),
			slog.String("kind", string(n.Kind)))
	}()
}

func (t *TelegramBridge) send(ctx context.Context, payload bridgePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.bridgeURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build bridge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("bridge request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("bridge responded with status %d", resp.StatusCode)
	}
	return nil
}
