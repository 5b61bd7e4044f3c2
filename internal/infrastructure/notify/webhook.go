// Package notify contains the external notifier collaborators. The core only
// hands over (audience, shift snapshot) and observes success or failure;
// delivery transport stays out of the core.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/shiftsurge/shift-system/internal/core/domain"
)

const requestTimeout = 10 * time.Second

// WebhookNotifier delivers shift-opportunity alerts by POSTing a JSON
// payload to a configured endpoint (the push-gateway in front of the
// messaging provider).
type WebhookNotifier struct {
	url    string
	client *http.Client
	log    zerolog.Logger
}

func NewWebhookNotifier(url string, log zerolog.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: requestTimeout},
		log:    log,
	}
}

type webhookPayload struct {
	Audience []string `json:"audience"`
	Shift    shiftMsg `json:"shift"`
}

type shiftMsg struct {
	ID             string  `json:"id"`
	RoleRequired   string  `json:"role_required"`
	StartTime      string  `json:"start_time"`
	EndTime        string  `json:"end_time"`
	LocationName   string  `json:"location_name"`
	CurrentPayRate float64 `json:"current_pay_rate"`
	BasePayRate    float64 `json:"base_pay_rate"`
}

// Notify posts the alert. Any non-2xx response counts as a delivery failure.
func (n *WebhookNotifier) Notify(ctx context.Context, audience []string, shift *domain.Shift) error {
	payload := webhookPayload{
		Audience: audience,
		Shift: shiftMsg{
			ID:             shift.ID,
			RoleRequired:   shift.RoleRequired,
			StartTime:      shift.StartTime.UTC().Format(time.RFC3339),
			EndTime:        shift.EndTime.UTC().Format(time.RFC3339),
			LocationName:   shift.LocationName,
			CurrentPayRate: shift.CurrentPayRate,
			BasePayRate:    shift.BasePayRate,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notify: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notify: gateway returned %d", resp.StatusCode)
	}

	n.log.Debug().
		Str("shift_id", shift.ID).
		Int("audience_size", len(audience)).
		Msg("notification delivered")
	return nil
}

// LogNotifier is the fallback-mode notifier: it records the hand-off without
// contacting any external system. Used when no gateway URL is configured.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, audience []string, shift *domain.Shift) error {
	n.log.Info().
		Str("shift_id", shift.ID).
		Int("audience_size", len(audience)).
		Float64("current_pay_rate", shift.CurrentPayRate).
		Msg("notification suppressed (fallback mode)")
	return nil
}
