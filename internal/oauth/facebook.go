package oauth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/saquibjawedbit/Booking-Web/internal/apperr"
)

const (
	facebookTokenURL = "https://graph.facebook.com/v18.0/oauth/access_token"
	facebookMeURL    = "https://graph.facebook.com/me"
)

// FacebookProvider exchanges an authorization code for an access token,
// then fetches the profile from the Graph API.
type FacebookProvider struct {
	appID       string
	appSecret   string
	redirectURI string
	httpClient  *http.Client
	cb          *gobreaker.CircuitBreaker
}

func NewFacebookProvider(appID, appSecret, redirectURI string) *FacebookProvider {
	return &FacebookProvider{
		appID:       appID,
		appSecret:   appSecret,
		redirectURI: redirectURI,
		httpClient:  newHTTPClient(),
		cb:          newBreaker("facebook-oauth"),
	}
}

type facebookTokenResp struct {
	AccessToken string `json:"access_token"`
}

type facebookProfile struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (p *FacebookProvider) Exchange(ctx context.Context, code string) (Profile, error) {
	if code == "" {
		return Profile{}, fmt.Errorf("missing facebook authorization code: %w", apperr.ErrValidation)
	}

	q := url.Values{}
	q.Set("client_id", p.appID)
	q.Set("client_secret", p.appSecret)
	q.Set("redirect_uri", p.redirectURI)
	q.Set("code", code)

	var token facebookTokenResp
	if err := getJSON(ctx, p.cb, p.httpClient, facebookTokenURL+"?"+q.Encode(), &token); err != nil {
		return Profile{}, err
	}
	if token.AccessToken == "" {
		return Profile{}, fmt.Errorf("facebook returned no access token: %w", apperr.ErrAuth)
	}

	mq := url.Values{}
	mq.Set("fields", "name,email")
	mq.Set("access_token", token.AccessToken)

	var profile facebookProfile
	if err := getJSON(ctx, p.cb, p.httpClient, facebookMeURL+"?"+mq.Encode(), &profile); err != nil {
		return Profile{}, err
	}
	if profile.Email == "" {
		return Profile{}, fmt.Errorf("facebook profile carries no email: %w", apperr.ErrAuth)
	}

	return Profile{Email: profile.Email, Name: profile.Name}, nil
}
