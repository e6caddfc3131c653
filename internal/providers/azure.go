package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

const azureUserInfoURL = "https://graph.microsoft.com/oidc/userinfo"

// AzureProvider signs users in through Azure AD.
type AzureProvider struct {
	Config      *oauth2.Config
	UserInfoURL string
}

func NewAzureProvider(clientID, clientSecret, tenant, redirectURL string) *AzureProvider {
	return &AzureProvider{
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     microsoft.AzureADEndpoint(tenant),
		},
		UserInfoURL: azureUserInfoURL,
	}
}

func (p *AzureProvider) Name() string { return "azure-ad" }

func (p *AzureProvider) LoginURL(state string) string {
	return p.Config.AuthCodeURL(state)
}

func (p *AzureProvider) Verify(ctx context.Context, creds Credentials) (*Identity, error) {
	accessToken := creds.AccessToken
	if accessToken == "" {
		token, err := p.Config.Exchange(ctx, creds.Code)
		if err != nil {
			return nil, fmt.Errorf("azure code exchange: %w", ErrInvalidCredentials)
		}
		accessToken = token.AccessToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.UserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

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
