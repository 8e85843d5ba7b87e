package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Sender is the provider-agnostic interface every SMS adapter must implement.
// To add a new provider, implement this interface and register it in a Registry.
type Sender interface {
	// Send delivers text to the recipient's mobile number.
	Send(ctx context.Context, to, text string) error
}

// Provider names a configured SMS adapter.
type Provider string

const (
	ProviderLog  Provider = "log"
	ProviderHTTP Provider = "http"
)

// Registry maps provider names to their Sender implementations.
type Registry map[Provider]Sender

// Lookup returns the sender registered for p.
func (r Registry) Lookup(p Provider) (Sender, error) {
	s, ok := r[p]
	if !ok {
		return nil, fmt.Errorf("sms provider %q is not registered", p)
	}
	return s, nil
}

// ── Log Adapter ───────────────────────────────────────────────────────────────
// Development sink: messages are written to the process log instead of a gateway.

type logSender struct {
	log logrus.FieldLogger
}

func NewLogSender(log logrus.FieldLogger) Sender {
	return &logSender{log: log}
}

func (s *logSender) Send(_ context.Context, to, text string) error {
	s.log.WithFields(logrus.Fields{"to": to, "text": text}).Info("sms")
	return nil
}

// ── HTTP Gateway Adapter ──────────────────────────────────────────────────────
// Posts {"to","sender","message"} as JSON with the API key in the Authorization header.
// Most Indian SMS aggregators accept this shape behind a thin proxy.

type httpSender struct {
	url      string
	apiKey   string
	senderID string
	client   *http.Client
}

func NewHTTPSender(url, apiKey, senderID string) Sender {
	return &httpSender{
		url:      url,
		apiKey:   apiKey,
		senderID: senderID,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type gatewayRequest struct {
	To      string `json:"to"`
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

func (s *httpSender) Send(ctx context.Context, to, text string) error {
	body, err := json.Marshal(gatewayRequest{To: to, Sender: s.senderID, Message: text})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sms gateway returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}
