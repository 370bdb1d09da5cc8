package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"StorefrontAPI/internal/model"
)

type ResendMailer struct {
	apiKey  string
	from    string
	client  *http.Client
	baseURL string
}

func NewResendMailer(apiKey, from string) (*ResendMailer, error) {
	if apiKey == "" {
		return nil, errors.New("resend: api key not set")
	}
	if from == "" {
		return nil, errors.New("resend: sender address not set")
	}

	return &ResendMailer{
		apiKey: apiKey,
		from:   from,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: "https://api.resend.com",
	}, nil
}

// WithBaseURL points the mailer at another endpoint.
func (m *ResendMailer) WithBaseURL(base string) *ResendMailer {
	m.baseURL = strings.TrimRight(base, "/")
	return m
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// SendContactNotification tells staff about a new contact request. Every
// user-supplied value is HTML-escaped.
func (m *ResendMailer) SendContactNotification(ctx context.Context, to string, cr *model.ContactRequest) error {
	phone := "-"
	if cr.Phone != nil && *cr.Phone != "" {
		phone = *cr.Phone
	}

	var b strings.Builder
	b.WriteString("<h2>New contact request</h2>")
	fmt.Fprintf(&b, "<p><strong>Name:</strong> %s</p>", html.EscapeString(cr.Name))
	fmt.Fprintf(&b, "<p><strong>Email:</strong> %s</p>", html.EscapeString(cr.Email))
	fmt.Fprintf(&b, "<p><strong>Phone:</strong> %s</p>", html.EscapeString(phone))
	fmt.Fprintf(&b, "<p><strong>Message:</strong><br>%s</p>",
		strings.ReplaceAll(html.EscapeString(cr.Message), "\n", "<br>"))

	return m.send(ctx, sendRequest{
		From:    m.from,
		To:      []string{to},
		Subject: "New contact request from " + cr.Name,
		HTML:    b.String(),
		ReplyTo: cr.Email,
	})
}

func (m *ResendMailer) send(ctx context.Context, body sendRequest) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/emails", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("resend: send failed with %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}
	return nil
}
