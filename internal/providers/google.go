package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleProvider exchanges an OAuth authorization code and reads the
// userinfo endpoint.
type GoogleProvider struct {
	Config *oauth2.Config
	// UserInfoURL is overridable for tests.
	UserInfoURL string
}

func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		UserInfoURL: googleUserInfoURL,
	}
}

func (p *GoogleProvider) Name() string { return "google" }

func (p *GoogleProvider) LoginURL(state string) string {
	return p.Config.AuthCodeURL(state)
}

func (p *GoogleProvider) Verify(ctx context.Context, creds Credentials) (*Identity, error) {
	accessToken := creds.AccessToken
	if accessToken == "" {
		token, err := p.Config.Exchange(ctx, creds.Code)
		if err != nil {
			return nil, fmt.Errorf("google code exchange: %w", ErrInvalidCredentials)
		}
		accessToken = token.AccessToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.UserInfoURL+"?access_token="+accessToken, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidCredentials
	}

	var info struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}

	return &Identity{
		Email:    info.Email,
		Name:     info.Name,
		Image:    info.Picture,
		Provider: p.Name(),
	}, nil
}
