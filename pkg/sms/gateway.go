package sms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Gateway sends a text message to a phone number in E.164 form
type Gateway interface {
	Send(ctx context.Context, phone, message string) error
	Name() string
}

// URLGateway sends messages with a single GET request carrying the key,
// recipient, sender id and message as query parameters. The gateway
// answers "1" or a JSON/text body containing "success" on acceptance.
type URLGateway struct {
	baseURL string
	apiKey  string
	sender  string
	client  *http.Client
	logger  *logrus.Logger
}

// NewURLGateway creates a URL gateway
func NewURLGateway(baseURL, apiKey, sender string, logger *logrus.Logger) *URLGateway {
	return &URLGateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		sender:  sender,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

// Send delivers one message
func (g *URLGateway) Send(ctx context.Context, phone, message string) error {
	params := url.Values{}
	params.Set("apikey", g.apiKey)
	params.Set("to", phone)
	params.Set("sender", g.sender)
	params.Set("message", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build SMS request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return fmt.Errorf("failed to read SMS response: %w", err)
	}
	reply := strings.TrimSpace(string(body))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("SMS API returned status %d: %s", resp.StatusCode, reply)
	}
	if reply != "1" && !strings.Contains(strings.ToLower(reply), "success") {
		return fmt.Errorf("SMS sending failed: %s", reply)
	}

	g.logger.WithFields(logrus.Fields{"gateway": g.Name(), "to": MaskPhone(phone)}).Debug("SMS accepted")
	return nil
}

// Name returns the name of this SMS gateway
func (g *URLGateway) Name() string {
	return "URL Gateway"
}

// LogGateway only logs messages. Used in development.
type LogGateway struct {
	logger *logrus.Logger
}

// NewLogGateway creates a gateway that logs instead of sending
func NewLogGateway(logger *logrus.Logger) *LogGateway {
	return &LogGateway{logger: logger}
}

// Send logs the message
func (g *LogGateway) Send(_ context.Context, phone, message string) error {
	g.logger.WithFields(logrus.Fields{"to": MaskPhone(phone), "message": message}).Info("SMS (dev mode, not sent)")
	return nil
}

// Name returns the name of this SMS gateway
func (g *LogGateway) Name() string {
	return "Log Gateway"
}

// MaskPhone hides all but the last four digits
func MaskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
