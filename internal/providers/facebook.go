package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
)

const facebookUserInfoURL = "https://graph.facebook.com/me"

type FacebookProvider struct {
	Config      *oauth2.Config
	UserInfoURL string
}

func NewFacebookProvider(clientID, clientSecret, redirectURL string) *FacebookProvider {
	return &FacebookProvider{
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"email", "public_profile"},
			Endpoint:     facebook.Endpoint,
		},
		UserInfoURL: facebookUserInfoURL,
	}
}

func (p *FacebookProvider) Name() string { return "facebook" }

func (p *FacebookProvider) LoginURL(state string) string {
	return p.Config.AuthCodeURL(state)
}

func (p *FacebookProvider) Verify(ctx context.Context, creds Credentials) (*Identity, error) {
	accessToken := creds.AccessToken
	if accessToken == "" {
		token, err := p.Config.Exchange(ctx, creds.Code)
		if err != nil {
			return nil, fmt.Errorf("facebook code exchange: %w", ErrInvalidCredentials)
		}
		accessToken = token.AccessToken
	}

	query := url.Values{}
	query.Set("fields", "id,name,email,picture.type(large)")
	query.Set("access_token", accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.UserInfoURL+"?"+query.Encode(), nil)
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
		Picture struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}

	return &Identity{
		Email:    info.Email,
		Name:     info.Name,
		Image:    info.Picture.Data.URL,
		Provider: p.Name(),
	}, nil
}
