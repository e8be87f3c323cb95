// Package mailer sends transactional email through the Brevo HTTP API.
// Delivery is fire-and-forget from the caller's perspective: workflows never
// wait on it or fail because of it.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const brevoAPIURL = "https://api.brevo.com/v3/smtp/email"

// Mailer is what the auth service depends on; tests swap in a recorder.
type Mailer interface {
	Send(ctx context.Context, toEmail, subject, html string) error
	IsConfigured() bool
}

type Client struct {
	apiKey     string
	fromEmail  string
	fromName   string
	httpClient *http.Client
	configured bool
}

func NewClient(apiKey, fromEmail, fromName string) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	if apiKey != "" && fromEmail != "" && fromName != "" {
		c.apiKey = apiKey
		c.fromEmail = fromEmail
		c.fromName = fromName
		c.configured = true
	}
	return c
}

func (c *Client) IsConfigured() bool {
	return c.configured
}

type sendEmailReq struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HtmlContent string              `json:"htmlContent"`
}

func (c *Client) Send(ctx context.Context, toEmail, subject, html string) error {
	if !c.configured {
		return fmt.Errorf("brevo client not configured, email to %s skipped", toEmail)
	}
	if toEmail == "" || subject == "" || html == "" {
		return errors.New("toEmail, subject, and html content cannot be empty")
	}

	reqBody := sendEmailReq{
		Sender:      map[string]string{"email": c.fromEmail, "name": c.fromName},
		To:          []map[string]string{{"email": toEmail}},
		Subject:     subject,
		HtmlContent: html,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal email request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoAPIURL, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create brevo request: %w", err)
	}
	httpReq.Header.Set("api-key", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("brevo send email request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errorBody map[string]interface{}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errorBody); decodeErr != nil {
			return fmt.Errorf("brevo API error: status %d", resp.StatusCode)
		}
		return fmt.Errorf("brevo API error: status %d, body: %v", resp.StatusCode, errorBody)
	}

	return nil
}

// OtpEmail renders the verification mail body used by every OTP flow.
func OtpEmail(email string, code int) (subject, html string) {
	return "Verify OTP", fmt.Sprintf("<p>Hello %s, Your OTP for verification is <b>%06d</b></p>", email, code)
}

// ResetPasswordEmail renders the password reset mail body.
func ResetPasswordEmail(email string, code int) (subject, html string) {
	return "Reset Password", fmt.Sprintf("<p>Hello %s, Your OTP for verification is <b>%06d</b></p>", email, code)
}
