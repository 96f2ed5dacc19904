package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bher20/tariffmanager/internal/config"
)

// Webhook payload formats.
const (
	WebhookSlack   = "slack"
	WebhookDiscord = "discord"
	WebhookGeneric = "generic"
)

// Alerter posts job failure alerts to a chat or generic webhook.
type Alerter struct {
	url         string
	webhookType string
	minFailures int
	client      *http.Client
	log         *zap.Logger
}

// New returns nil when no webhook URL is configured; a nil *Alerter
// drops every alert.
func New(cfg config.AlertingConfig, log *zap.Logger) *Alerter {
	if cfg.WebhookURL == "" {
		return nil
	}
	if log == nil {
		log = zap.NewNop()
	}
	typ := cfg.WebhookType
	if typ == "" {
		// Auto-detect from URL
		switch {
		case strings.Contains(cfg.WebhookURL, "slack.com"):
			typ = WebhookSlack
		case strings.Contains(cfg.WebhookURL, "discord.com"):
			typ = WebhookDiscord
		default:
			typ = WebhookGeneric
		}
	}
	minFailures := cfg.MinFailures
	if minFailures < 1 {
		minFailures = 1
	}
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Alerter{
		url:         cfg.WebhookURL,
		webhookType: typ,
		minFailures: minFailures,
		client:      &http.Client{Timeout: timeout},
		log:         log,
	}
}

// JobAlert describes a failed background job run.
type JobAlert struct {
	JobName string
	Error   string
	// ConsecutiveFailures counts failed runs since the last success,
	// this one included.
	ConsecutiveFailures int
	Duration            time.Duration
	Timestamp           time.Time
}

// SendJobAlert posts alert once ConsecutiveFailures reaches the configured
// threshold.
func (a *Alerter) SendJobAlert(ctx context.Context, alert JobAlert) error {
	if a == nil {
		return nil
	}
	if alert.ConsecutiveFailures < a.minFailures {
		a.log.Debug("alerting: below threshold, skipping",
			zap.Int("failures", alert.ConsecutiveFailures),
			zap.Int("threshold", a.minFailures))
		return nil
	}

	var (
		payload []byte
		err     error
	)
	switch a.webhookType {
	case WebhookSlack:
		payload, err = buildSlackPayload(alert)
	case WebhookDiscord:
		payload, err = buildDiscordPayload(alert)
	default:
		payload, err = buildGenericPayload(alert)
	}
	if err != nil {
		return fmt.Errorf("build payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	a.log.Info("alerting: sent job alert",
		zap.String("job", alert.JobName),
		zap.Int("failures", alert.ConsecutiveFailures))
	return nil
}

func buildSlackPayload(alert JobAlert) ([]byte, error) {
	payload := map[string]interface{}{
		"blocks": []map[string]interface{}{
			{
				"type": "header",
				"text": map[string]string{
					"type": "plain_text",
					"text": fmt.Sprintf(":x: Job failed: %s", alert.JobName),
				},
			},
			{
				"type": "section",
				"fields": []map[string]string{
					{"type": "mrkdwn", "text": fmt.Sprintf("*Consecutive failures:*\n%d", alert.ConsecutiveFailures)},
					{"type": "mrkdwn", "text": fmt.Sprintf("*Duration:*\n%s", alert.Duration.Round(time.Millisecond))},
					{"type": "mrkdwn", "text": fmt.Sprintf("*Timestamp:*\n%s", alert.Timestamp.Format(time.RFC3339))},
				},
			},
			{
				"type": "section",
				"text": map[string]string{
					"type": "mrkdwn",
					"text": fmt.Sprintf("*Error:*\n```%s```", alert.Error),
				},
			},
		},
	}
	return json.Marshal(payload)
}

func buildDiscordPayload(alert JobAlert) ([]byte, error) {
	payload := map[string]interface{}{
		"embeds": []map[string]interface{}{
			{
				"title":       fmt.Sprintf("Job failed: %s", alert.JobName),
				"description": alert.Error,
				"color":       16711680, // red
				"fields": []map[string]interface{}{
					{"name": "Consecutive failures", "value": fmt.Sprintf("%d", alert.ConsecutiveFailures), "inline": true},
					{"name": "Duration", "value": alert.Duration.Round(time.Millisecond).String(), "inline": true},
				},
				"timestamp": alert.Timestamp.Format(time.RFC3339),
			},
		},
	}
	return json.Marshal(payload)
}

func buildGenericPayload(alert JobAlert) ([]byte, error) {
	payload := map[string]interface{}{
		"alert_type":           "job_failure",
		"job_name":             alert.JobName,
		"error":                alert.Error,
		"consecutive_failures": alert.ConsecutiveFailures,
		"duration_ms":          alert.Duration.Milliseconds(),
		"timestamp":            alert.Timestamp.Format(time.RFC3339),
	}
	return json.Marshal(payload)
}
