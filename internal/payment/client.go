// Package payment talks to the external payment processor. The processor is
// an opaque boundary: it takes a total and a payment mode and hands back a
// redirect URL for the browser.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/saquibjawedbit/Booking-Web/internal/apperr"
)

// CheckoutRequest is one payment order.
type CheckoutRequest struct {
	Reference string  `json:"reference"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Mode      string  `json:"mode"`
	Email     string  `json:"email,omitempty"`
}

// Client creates checkout orders; tests swap in a fake.
type Client interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (string, error)
}

type httpClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker
}

func NewClient(baseURL, apiKey string) Client {
	return &httpClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "payment-processor",
			Timeout: 30 * time.Second,
		}),
	}
}

type checkoutResp struct {
	PaymentURL string `json:"paymentUrl"`
}

func (c *httpClient) CreateCheckout(ctx context.Context, req CheckoutRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal checkout request: %w", err)
	}

	res, err := c.cb.Execute(func() (interface{}, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(httpReq)
		if err != nil {
			return nil, fmt.Errorf("payment processor unreachable: %w", apperr.ErrUpstream)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("payment processor error (status %d): %w", resp.StatusCode, apperr.ErrUpstream)
		}

		var out checkoutResp
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return nil, fmt.Errorf("payment processor response malformed: %w", apperr.ErrUpstream)
		}
		if out.PaymentURL == "" {
			return nil, fmt.Errorf("payment processor returned no redirect URL: %w", apperr.ErrUpstream)
		}
		return out.PaymentURL, nil
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return "", fmt.Errorf("payment circuit open: %w", apperr.ErrUpstream)
	}
	if err != nil {
		return "", err
	}
	return res.(string), nil
}
