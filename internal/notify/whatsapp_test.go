package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/nurlan2209/undeme/pkg/config"
	"github.com/nurlan2209/undeme/pkg/enums"
)

func whatsAppTestConfig() config.WhatsAppConfig {
	return config.WhatsAppConfig{
		Token:            "test-token",
		PhoneNumberID:    "1050123",
		APIVersion:       "v22.0",
		TemplateLanguage: "en_US",
	}
}

func newTestWhatsAppSender(cfg config.WhatsAppConfig, baseURL string) *WhatsAppSender {
	sender := NewWhatsAppSender(cfg, 5*time.Second)
	sender.baseURL = baseURL
	return sender
}

func TestWhatsAppSender_SendsTextPerValidContact(t *testing.T) {
	var calls atomic.Int32
	var bodies []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
			t.Errorf("authorization = %q, want bearer token", auth)
		}
		if !strings.HasSuffix(r.URL.Path, "/v22.0/1050123/messages") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		bodies = append(bodies, body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sender := newTestWhatsAppSender(whatsAppTestConfig(), srv.URL)
	alert := testAlert()
	alert.Recipients = []Recipient{
		{Name: "Dana", Phone: "+7 (701) 765-43-21"},
		{Name: "Marat", Phone: "87029876543"},
	}

	outcome := sender.Send(context.Background(), alert)
	if !outcome.Success {
		t.Fatalf("expected success, got error %q", outcome.Error)
	}
	if outcome.Channel != enums.ChannelMessagingAPI {
		t.Fatalf("unexpected channel %s", outcome.Channel)
	}
	if outcome.Error != "" {
		t.Fatalf("expected no per-contact errors, got %q", outcome.Error)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 api calls, got %d", calls.Load())
	}
	if bodies[0]["to"] != "77017654321" {
		t.Errorf("first recipient = %v, want normalized digits", bodies[0]["to"])
	}
	if bodies[0]["type"] != "text" {
		t.Errorf("message type = %v, want text", bodies[0]["type"])
	}
	text, _ := bodies[0]["text"].(map[string]any)
	if text["body"] != alert.Message {
		t.Errorf("text body = %v, want rendered message", text["body"])
	}
}

func TestWhatsAppSender_UsesTemplateWhenConfigured(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := whatsAppTestConfig()
	cfg.TemplateName = "sos_alert"
	sender := newTestWhatsAppSender(cfg, srv.URL)

	outcome := sender.Send(context.Background(), testAlert())
	if !outcome.Success {
		t.Fatalf("expected success, got error %q", outcome.Error)
	}
	if body["type"] != "template" {
		t.Fatalf("message type = %v, want template", body["type"])
	}
	tmpl, _ := body["template"].(map[string]any)
	if tmpl["name"] != "sos_alert" {
		t.Errorf("template name = %v, want sos_alert", tmpl["name"])
	}
}

func TestWhatsAppSender_PartialFailureStaysVisible(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sender := newTestWhatsAppSender(whatsAppTestConfig(), srv.URL)
	alert := testAlert()
	alert.Recipients = []Recipient{
		{Name: "Dana", Phone: "+77017654321"},
		{Name: "Broken", Phone: "n/a"},
	}

	outcome := sender.Send(context.Background(), alert)
	if !outcome.Success {
		t.Fatalf("expected success with one valid contact, got error %q", outcome.Error)
	}
	if !strings.Contains(outcome.Error, "Broken") {
		t.Fatalf("error = %q, want mention of skipped contact", outcome.Error)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected 1 api call, got %d", calls.Load())
	}
}

func TestWhatsAppSender_AllContactsInvalid(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	sender := newTestWhatsAppSender(whatsAppTestConfig(), srv.URL)
	alert := testAlert()
	alert.Recipients = []Recipient{
		{Name: "First", Phone: "12345"},
		{Name: "Second", Phone: "abc"},
	}

	outcome := sender.Send(context.Background(), alert)
	if outcome.Success {
		t.Fatal("expected failed outcome when every phone is invalid")
	}
	for _, name := range []string{"First", "Second"} {
		if !strings.Contains(outcome.Error, name) {
			t.Errorf("error = %q, want mention of %s", outcome.Error, name)
		}
	}
	if calls.Load() != 0 {
		t.Fatalf("expected no api calls, got %d", calls.Load())
	}
}

func TestWhatsAppSender_MissingCredentials(t *testing.T) {
	sender := NewWhatsAppSender(config.WhatsAppConfig{}, time.Second)
	outcome := sender.Send(context.Background(), testAlert())

	if outcome.Success {
		t.Fatal("expected failed outcome without credentials")
	}
	if !strings.Contains(outcome.Error, "not configured") {
		t.Fatalf("error = %q, want mention of not configured", outcome.Error)
	}
}

func TestWhatsAppSender_EmptyContactList(t *testing.T) {
	sender := newTestWhatsAppSender(whatsAppTestConfig(), "http://unused.invalid")
	alert := testAlert()
	alert.Recipients = nil

	outcome := sender.Send(context.Background(), alert)
	if outcome.Success {
		t.Fatal("expected failed outcome without contacts")
	}
	if !strings.Contains(outcome.Error, "no emergency contacts") {
		t.Fatalf("error = %q, want mention of missing contacts", outcome.Error)
	}
}

func TestWhatsAppSender_ApiErrorPerContact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid token"}}`))
	}))
	defer srv.Close()

	sender := newTestWhatsAppSender(whatsAppTestConfig(), srv.URL)
	outcome := sender.Send(context.Background(), testAlert())

	if outcome.Success {
		t.Fatal("expected failed outcome for 401 responses")
	}
	if !strings.Contains(outcome.Error, "401") {
		t.Fatalf("error = %q, want status code 401", outcome.Error)
	}
}

func TestTruncateKeepsRuneBoundary(t *testing.T) {
	// "Көмек" is 10 bytes; a 9-byte cap lands mid-rune.
	long := strings.Repeat("Көмек", 2)
	got := truncate(long, 9)
	if !utf8.ValidString(got) {
		t.Fatalf("truncate produced invalid UTF-8: %q", got)
	}
	if got != "Көме" {
		t.Fatalf("truncate = %q, want %q", got, "Көме")
	}
	if truncate("short", 10) != "short" {
		t.Fatal("strings under the limit must pass through unchanged")
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+7 (701) 765-43-21", "77017654321"},
		{"87029876543", "87029876543"},
		{"12345", ""},
		{"", ""},
		{"call me", ""},
	}
	for _, tc := range cases {
		if got := normalizePhone(tc.in); got != tc.want {
			t.Errorf("normalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
