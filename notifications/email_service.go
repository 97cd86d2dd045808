package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const brevoURL = "https://api.brevo.com/v3/smtp/email"

// Mailer sends one HTML email.
type Mailer interface {
	SendEmail(ctx context.Context, toName, toEmail, subject, htmlContent string) error
}

type BrevoService struct {
	APIKey      string
	SenderEmail string
	SenderName  string
	Endpoint    string
	Client      *http.Client
}

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

// NewBrevoService returns nil when any of the settings is missing, which
// callers treat as email being disabled.
func NewBrevoService(apiKey, senderEmail, senderName string) *BrevoService {
	if apiKey == "" || senderEmail == "" || senderName == "" {
		logrus.Warn("⚠️ Email service not configured. Missing API Key, Sender Email, or Sender Name.")
		return nil
	}

	logrus.WithField("sender", senderEmail).Info("✅ Email service initialized successfully.")
	return &BrevoService{
		APIKey:      apiKey,
		SenderEmail: senderEmail,
		SenderName:  senderName,
		Endpoint:    brevoURL,
		Client:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *BrevoService) SendEmail(ctx context.Context, toName, toEmail, subject, htmlContent string) error {
	at := strings.Index(toEmail, "@")
	if at <= 0 {
		return fmt.Errorf("invalid recipient email: %q", toEmail)
	}
	if toName == "" {
		toName = toEmail[:at]
	}

	payload := brevoPayload{
		Sender:      map[string]string{"name": s.SenderName, "email": s.SenderEmail},
		To:          []map[string]string{{"email": toEmail, "name": toName}},
		Subject:     subject,
		HTMLContent: htmlContent,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", s.APIKey)
	req.Header.Set("content-type", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated {
		logrus.WithFields(logrus.Fields{"status": resp.StatusCode, "body": string(respBody)}).Error("🔥 Brevo API error")
		return fmt.Errorf("failed to send email via Brevo: status %d", resp.StatusCode)
	}

	logrus.WithFields(logrus.Fields{"to": toEmail, "subject": subject}).Info("✅ Email sent successfully")
	return nil
}
