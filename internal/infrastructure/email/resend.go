// Package email provides outbound mail transports for the notification
// service.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/procurebid/procurement-exchange-backend/internal/domain/errors"
	"github.com/procurebid/procurement-exchange-backend/internal/infrastructure/config"
)

const defaultAPIURL = "https://api.resend.com/emails"

// ResendMailer sends mail through the Resend HTTP API.
type ResendMailer struct {
	client *http.Client
	apiURL string
	apiKey string
	from   string
}

// NewResendMailer creates a mailer from the email configuration.
func NewResendMailer(cfg *config.EmailConfig) *ResendMailer {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return &ResendMailer{
		client: &http.Client{Timeout: 10 * time.Second},
		apiURL: apiURL,
		apiKey: cfg.APIKey,
		from:   cfg.FromAddress,
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send posts a single message to the API and treats any non-2xx response as
// a retryable external error.
func (m *ResendMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	payload, err := json.Marshal(sendRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		HTML:    htmlBody,
	})
	if err != nil {
		return errors.NewInternalError("failed to encode email payload").WithCause(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, bytes.NewReader(payload))
	if err != nil {
		return errors.NewInternalError("failed to build email request").WithCause(err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return errors.NewExternalError("email", "provider unreachable").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return errors.NewExternalError("email",
			fmt.Sprintf("provider returned %d: %s", resp.StatusCode, body))
	}

	return nil
}
