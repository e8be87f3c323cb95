package oauth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/saquibjawedbit/Booking-Web/internal/apperr"
)

const (
	linkedinTokenURL    = "https://www.linkedin.com/oauth/v2/accessToken"
	linkedinUserInfoURL = "https://api.linkedin.com/v2/userinfo"
)

// LinkedInProvider exchanges an authorization code for an access token,
// then fetches the member profile.
type LinkedInProvider struct {
	clientID     string
	clientSecret string
	redirectURI  string
	httpClient   *http.Client
	cb           *gobreaker.CircuitBreaker
}

func NewLinkedInProvider(clientID, clientSecret, redirectURI string) *LinkedInProvider {
	return &LinkedInProvider{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		httpClient:   newHTTPClient(),
		cb:           newBreaker("linkedin-oauth"),
	}
}

type linkedinTokenResp struct {
	AccessToken string `json:"access_token"`
}

type linkedinUserInfo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (p *LinkedInProvider) Exchange(ctx context.Context, code string) (Profile, error) {
	if code == "" {
		return Profile{}, fmt.Errorf("missing linkedin authorization code: %w", apperr.ErrValidation)
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", p.clientID)
	form.Set("client_secret", p.clientSecret)
	form.Set("redirect_uri", p.redirectURI)

	var token linkedinTokenResp
	_, err := p.cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, linkedinTokenURL, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return nil, doJSON(p.httpClient, req, &token)
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return Profile{}, fmt.Errorf("linkedin circuit open: %w", apperr.ErrUpstream)
	}
	if err != nil {
		return Profile{}, err
	}
	if token.AccessToken == "" {
		return Profile{}, fmt.Errorf("linkedin returned no access token: %w", apperr.ErrAuth)
	}

	var info linkedinUserInfo
	_, err = p.cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, linkedinUserInfoURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token.AccessToken)
		return nil, doJSON(p.httpClient, req, &info)
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return Profile{}, fmt.Errorf("linkedin circuit open: %w", apperr.ErrUpstream)
	}
	if err != nil {
		return Profile{}, err
	}
	if info.Email == "" {
		return Profile{}, fmt.Errorf("linkedin profile carries no email: %w", apperr.ErrAuth)
	}

	return Profile{Email: info.Email, Name: info.Name}, nil
}
