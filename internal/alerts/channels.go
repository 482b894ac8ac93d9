package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"aircraft-monitor/internal/config"
)

// Channel delivers one alert over some transport. Send never panics out;
// any internal failure is reported as false.
type Channel interface {
	Name() string
	Send(ctx context.Context, alert Alert) bool
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

// TelegramChannel posts alert messages to a Telegram chat via the bot API.
type TelegramChannel struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
}

func NewTelegramChannel(cfg config.TelegramConfig) *TelegramChannel {
	return &TelegramChannel{
		botToken: cfg.BotToken,
		chatID:   cfg.ChatID,
		apiBase:  "https://api.telegram.org",
		client:   newHTTPClient(),
	}
}

func (t *TelegramChannel) Name() string { return "telegram" }

func (t *TelegramChannel) Send(ctx context.Context, alert Alert) bool {
	text := fmt.Sprintf("*%s*\n\n*%s*\nAircraft: `%s`\n%s\n\n_Time: %s_",
		strings.ToUpper(string(alert.Severity)),
		alert.Title,
		alert.AircraftID,
		alert.Message,
		alert.CreatedAt.Format("2006-01-02 15:04:05 UTC"),
	)

	body, err := json.Marshal(map[string]string{
		"chat_id":    t.chatID,
		"text":       text,
		"parse_mode": "Markdown",
	})
	if err != nil {
		log.Printf("Telegram: marshal message for alert %s: %v", alert.ID, err)
		return false
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.botToken)
	if !t.post(ctx, endpoint, "application/json", bytes.NewReader(body), alert.ID) {
		return false
	}
	log.Printf("Sent Telegram notification for alert %s", alert.ID)
	return true
}

func (t *TelegramChannel) post(ctx context.Context, endpoint, contentType string, body *bytes.Reader, alertID string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		log.Printf("Telegram: build request for alert %s: %v", alertID, err)
		return false
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := t.client.Do(req)
	if err != nil {
		log.Printf("Telegram: send alert %s: %v", alertID, err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("Telegram: alert %s returned status %d", alertID, resp.StatusCode)
		return false
	}
	return true
}

// SMSChannel sends alert messages through the Twilio REST API. It is wired
// as an urgent channel: only critical and emergency alerts reach it.
type SMSChannel struct {
	accountSID string
	authToken  string
	from       string
	to         string
	apiBase    string
	client     *http.Client
}

func NewSMSChannel(cfg config.TwilioConfig) *SMSChannel {
	return &SMSChannel{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.FromNumber,
		to:         cfg.ToNumber,
		apiBase:    "https://api.twilio.com",
		client:     newHTTPClient(),
	}
}

func (s *SMSChannel) Name() string { return "sms" }

func (s *SMSChannel) Send(ctx context.Context, alert Alert) bool {
	msg := alert.Message
	if len(msg) > 100 {
		msg = msg[:100] + "..."
	}
	body := fmt.Sprintf("[%s] %s\nAircraft: %s\n%s",
		strings.ToUpper(string(alert.Severity)), alert.Title, alert.AircraftID, msg)

	form := url.Values{}
	form.Set("From", s.from)
	form.Set("To", s.to)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.apiBase, s.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		log.Printf("SMS: build request for alert %s: %v", alert.ID, err)
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.accountSID, s.authToken)

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("SMS: send alert %s: %v", alert.ID, err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("SMS: alert %s returned status %d", alert.ID, resp.StatusCode)
		return false
	}
	log.Printf("Sent SMS notification for alert %s", alert.ID)
	return true
}

// WebhookChannel POSTs the alert export shape as JSON to a configured URL.
type WebhookChannel struct {
	url    string
	client *http.Client
}

func NewWebhookChannel(webhookURL string) *WebhookChannel {
	return &WebhookChannel{url: webhookURL, client: newHTTPClient()}
}

func (w *WebhookChannel) Name() string { return "webhook" }

func (w *WebhookChannel) Send(ctx context.Context, alert Alert) bool {
	body, err := json.Marshal(alert)
	if err != nil {
		log.Printf("Webhook: marshal alert %s: %v", alert.ID, err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		log.Printf("Webhook: build request for alert %s: %v", alert.ID, err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		log.Printf("Webhook: send alert %s: %v", alert.ID, err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("Webhook: alert %s returned status %d", alert.ID, resp.StatusCode)
		return false
	}
	log.Printf("Sent webhook notification for alert %s", alert.ID)
	return true
}
