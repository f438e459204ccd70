// Package twiliosms sends SMS through the Twilio Messages REST API.
package twiliosms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

const defaultBaseURL = "https://api.twilio.com"

// Config holds gateway credentials. BaseURL is overridable for tests.
type Config struct {
	AccountSID string
	AuthToken  string
	BaseURL    string
}

// Client implements bridge.SMSSender against the Twilio REST API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a Client. The zero http.Client is used so per-request contexts
// control all timeouts.
func New(log *slog.Logger, cfg Config) *Client {
	if log == nil {
		log = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		logger:     log.With(slog.String("service", "twiliosms")),
	}
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Send creates one outbound message from → to.
func (c *Client) Send(ctx context.Context, from, to, body string) error {
	form := url.Values{
		"From": {from},
		"To":   {to},
		"Body": {body},
	}
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.cfg.BaseURL, c.cfg.AccountSID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("twilio rejected message (status %d, code %d): %s", resp.StatusCode, apiErr.Code, apiErr.Message)
		}
		return fmt.Errorf("twilio rejected message: status %d", resp.StatusCode)
	}

	io.Copy(io.Discard, resp.Body)
	c.logger.Debug("sms sent", slog.String("to", to))
	return nil
}
