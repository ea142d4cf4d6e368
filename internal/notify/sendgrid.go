package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const defaultSendGridEndpoint = "https://api.sendgrid.com/v3/mail/send"

// SendGrid submits the digest through the v3 mail-send API with bearer
// auth.
type SendGrid struct {
	Key  string
	To   string
	From string

	// Endpoint is overridable for tests.
	Endpoint string

	hc *retryablehttp.Client
}

func NewSendGrid(key, to, from string) *SendGrid {
	hc := retryablehttp.NewClient()
	hc.RetryMax = 2
	hc.Logger = nil
	hc.HTTPClient.Timeout = 30 * time.Second

	return &SendGrid{
		Key:      key,
		To:       to,
		From:     from,
		Endpoint: defaultSendGridEndpoint,
		hc:       hc,
	}
}

type sgAddress struct {
	Email string `json:"email"`
}

type sgContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sgPersonalization struct {
	To []sgAddress `json:"to"`
}

type sgPayload struct {
	Personalizations []sgPersonalization `json:"personalizations"`
	From             sgAddress           `json:"from"`
	Subject          string              `json:"subject"`
	Content          []sgContent         `json:"content"`
}

func (s *SendGrid) Send(ctx context.Context, subject, textBody, htmlBody string) error {
	payload := sgPayload{
		Personalizations: []sgPersonalization{{To: []sgAddress{{Email: s.To}}}},
		From:             sgAddress{Email: s.From},
		Subject:          subject,
		Content:          []sgContent{{Type: "text/plain", Value: textBody}},
	}
	if htmlBody != "" {
		payload.Content = append(payload.Content, sgContent{Type: "text/html", Value: htmlBody})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode mail payload: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, "POST", s.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.Key)
	req.Header.Set("Content-Type", "application/json")

	res, err := s.hc.Do(req)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return fmt.Errorf("sendgrid status %d: %s", res.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}
