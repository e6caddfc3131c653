package providers

import (
	"context"
	"errors"

	"github.com/velourstudio/studio-api/internal/store"
	"github.com/velourstudio/studio-api/internal/utils"
)

// CredentialsProvider is the local email/password fallback. It compares the
// submitted password against the stored bcrypt hash.
type CredentialsProvider struct {
	Users store.UserStore
}

func NewCredentialsProvider(users store.UserStore) *CredentialsProvider {
	return &CredentialsProvider{Users: users}
}

func (p *CredentialsProvider) Name() string { return "credentials" }

func (p *CredentialsProvider) LoginURL(string) string { return "" }

func (p *CredentialsProvider) Verify(ctx context.Context, creds Credentials) (*Identity, error) {
	user, err := p.Users.FindByEmail(ctx, creds.Email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if user.Password == "" || !utils.CheckPasswordHash(creds.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	return &Identity{
		Email:    user.Email,
		Name:     user.Name,
		Image:    user.Image,
		Provider: p.Name(),
	}, nil
}
