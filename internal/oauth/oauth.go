// Package oauth holds the social sign-in adapters. Each provider exchanges
// an authorization artifact (ID token or code) for a verified profile; the
// auth service only ever sees the normalized {email, name} shape.
//
// Clients are constructed once at startup and injected into the service; no
// package-level state.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/saquibjawedbit/Booking-Web/internal/apperr"
)

const (
	ProviderGoogle   = "google"
	ProviderLinkedIn = "linkedin"
	ProviderFacebook = "facebook"
)

// Profile is the normalized identity every provider resolves to.
type Profile struct {
	Email string
	Name  string
}

// Provider exchanges an authorization artifact for a profile. Failures from
// the identity provider surface as apperr.ErrUpstream; a rejected artifact
// surfaces as apperr.ErrAuth.
type Provider interface {
	Exchange(ctx context.Context, artifact string) (Profile, error)
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: 30 * time.Second,
	})
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

// getJSON performs a breaker-wrapped GET and decodes the JSON response.
func getJSON(ctx context.Context, cb *gobreaker.CircuitBreaker, client *http.Client, url string, dest interface{}) error {
	_, err := cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		return nil, doJSON(client, req, dest)
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return fmt.Errorf("%s circuit open: %w", cb.Name(), apperr.ErrUpstream)
	}
	return err
}

func doJSON(client *http.Client, req *http.Request, dest interface{}) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider request failed: %w", apperr.ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
		return fmt.Errorf("identity provider rejected artifact (status %d): %w", resp.StatusCode, apperr.ErrAuth)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("identity provider error (status %d): %w", resp.StatusCode, apperr.ErrUpstream)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("identity provider response malformed: %w", apperr.ErrUpstream)
	}
	return nil
}
