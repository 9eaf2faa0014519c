package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/multierr"

	"github.com/nurlan2209/undeme/pkg/config"
	"github.com/nurlan2209/undeme/pkg/enums"
)

const (
	whatsAppBaseURL = "https://graph.facebook.com"

	// Cloud API caps text bodies at 4096 characters.
	maxTextBodyLen = 4096

	// Shorter numbers cannot be valid E.164 destinations.
	minPhoneDigits = 7

	whatsAppErrorBodyLimit = 512
)

// WhatsAppSender delivers one message per emergency contact through the
// WhatsApp Cloud API.
type WhatsAppSender struct {
	cfg     config.WhatsAppConfig
	baseURL string
	client  *http.Client
}

// NewWhatsAppSender builds a sender from the messaging config. Missing
// credentials are allowed; Send then fails fast without network calls.
func NewWhatsAppSender(cfg config.WhatsAppConfig, timeout time.Duration) *WhatsAppSender {
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	return &WhatsAppSender{
		cfg:     cfg,
		baseURL: whatsAppBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *WhatsAppSender) Channel() enums.Channel {
	return enums.ChannelMessagingAPI
}

// Send iterates the recipients, normalizing phone numbers and sending one
// message per valid contact. The outcome succeeds when at least one contact
// was reached; per-contact failures are joined into Outcome.Error either way
// so partially reachable contact lists stay visible.
func (s *WhatsAppSender) Send(ctx context.Context, alert Alert) Outcome {
	if !s.cfg.Configured() {
		return failureOutcome(s.Channel(), "messaging api credentials not configured")
	}
	if len(alert.Recipients) == 0 {
		return failureOutcome(s.Channel(), "no emergency contacts to notify")
	}

	var delivered int
	var errs error
	for _, contact := range alert.Recipients {
		phone := normalizePhone(contact.Phone)
		if phone == "" {
			errs = multierr.Append(errs, fmt.Errorf("%s: invalid phone %q", contact.Name, contact.Phone))
			continue
		}
		if err := s.sendOne(ctx, phone, alert.Message); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", contact.Name, err))
			continue
		}
		delivered++
	}

	if delivered == 0 {
		return failureOutcome(s.Channel(), errs.Error())
	}
	outcome := successOutcome(s.Channel())
	if errs != nil {
		outcome.Error = errs.Error()
	}
	return outcome
}

func (s *WhatsAppSender) sendOne(ctx context.Context, phone, message string) error {
	endpoint := fmt.Sprintf("%s/%s/%s/messages", s.baseURL, s.cfg.APIVersion, s.cfg.PhoneNumberID)

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                phone,
	}
	if s.cfg.TemplateName != "" {
		payload["type"] = "template"
		payload["template"] = map[string]any{
			"name":     s.cfg.TemplateName,
			"language": map[string]any{"code": s.cfg.TemplateLanguage},
		}
	} else {
		payload["type"] = "text"
		payload["text"] = map[string]any{"body": truncate(message, maxTextBodyLen)}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.Token)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, whatsAppErrorBodyLimit))
		return fmt.Errorf("messaging api returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// normalizePhone strips every non-digit character. Returns "" when the
// remainder is too short to be a dialable number.
func normalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) < minPhoneDigits {
		return ""
	}
	return digits
}

// truncate caps s at limit bytes without splitting a UTF-8 sequence.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
