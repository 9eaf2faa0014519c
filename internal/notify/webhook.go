package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nurlan2209/undeme/pkg/config"
	"github.com/nurlan2209/undeme/pkg/enums"
)

const webhookErrorBodyLimit = 512

// WebhookSender posts alert payloads to the operational monitoring webhook.
type WebhookSender struct {
	url    string
	client *http.Client
}

// NewWebhookSender builds a sender from the SOS config. An empty webhook URL
// is allowed; Send then fails fast without a network call.
func NewWebhookSender(cfg config.SosConfig) *WebhookSender {
	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	return &WebhookSender{
		url:    cfg.WebhookURL,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *WebhookSender) Channel() enums.Channel {
	return enums.ChannelWebhook
}

type webhookContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type webhookLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type webhookPayload struct {
	Type     string           `json:"type"`
	UserID   string           `json:"userId"`
	FullName string           `json:"fullName"`
	Phone    string           `json:"phone"`
	Contacts []webhookContact `json:"contacts"`
	Reason   string           `json:"reason,omitempty"`
	Location webhookLocation  `json:"location"`
	Message  string           `json:"message"`
}

// Send posts the alert as JSON and reports the HTTP result as an Outcome.
func (s *WebhookSender) Send(ctx context.Context, alert Alert) Outcome {
	if s.url == "" {
		return failureOutcome(s.Channel(), "webhook url not configured")
	}

	contacts := make([]webhookContact, 0, len(alert.Recipients))
	for _, r := range alert.Recipients {
		contacts = append(contacts, webhookContact{Name: r.Name, Phone: r.Phone})
	}

	payload := webhookPayload{
		Type:     "sos_alert",
		UserID:   alert.UserID.String(),
		FullName: alert.FullName,
		Phone:    alert.Phone,
		Contacts: contacts,
		Reason:   alert.Reason,
		Location: webhookLocation{Latitude: alert.Latitude, Longitude: alert.Longitude},
		Message:  alert.Message,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return failureOutcome(s.Channel(), fmt.Sprintf("marshal payload: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return failureOutcome(s.Channel(), fmt.Sprintf("create request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return failureOutcome(s.Channel(), fmt.Sprintf("post webhook: %v", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, webhookErrorBodyLimit))
		return failureOutcome(s.Channel(), fmt.Sprintf("webhook returned %d: %s", resp.StatusCode, string(respBody)))
	}
	return successOutcome(s.Channel())
}
