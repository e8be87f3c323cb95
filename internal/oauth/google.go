package oauth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/saquibjawedbit/Booking-Web/internal/apperr"
)

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// GoogleProvider verifies a Google ID token and extracts the profile.
type GoogleProvider struct {
	clientID   string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
}

func NewGoogleProvider(clientID string) *GoogleProvider {
	return &GoogleProvider{
		clientID:   clientID,
		httpClient: newHTTPClient(),
		cb:         newBreaker("google-oauth"),
	}
}

type googleTokenInfo struct {
	Aud           string `json:"aud"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
}

func (p *GoogleProvider) Exchange(ctx context.Context, idToken string) (Profile, error) {
	if idToken == "" {
		return Profile{}, fmt.Errorf("missing google id token: %w", apperr.ErrValidation)
	}

	var info googleTokenInfo
	endpoint := googleTokenInfoURL + "?id_token=" + url.QueryEscape(idToken)
	if err := getJSON(ctx, p.cb, p.httpClient, endpoint, &info); err != nil {
		return Profile{}, err
	}

	if info.Aud != p.clientID {
		return Profile{}, fmt.Errorf("google token audience mismatch: %w", apperr.ErrAuth)
	}
	if info.Email == "" {
		return Profile{}, fmt.Errorf("google token carries no email: %w", apperr.ErrAuth)
	}

	return Profile{Email: info.Email, Name: info.Name}, nil
}
