package providers

import (
	"context"
	"errors"
)

// Identity is what a successful sign-in yields, regardless of which
// provider verified it.
type Identity struct {
	Email    string
	Name     string
	Image    string
	Provider string
}

// Credentials carries whichever inputs a provider needs: email/password for
// the local path, an authorization code (or raw access token) for OAuth.
type Credentials struct {
	Email       string
	Password    string
	Code        string
	AccessToken string
}

// ErrInvalidCredentials is returned when verification fails for reasons the
// client caused (wrong password, bad code). Handlers map it to 401.
var ErrInvalidCredentials = errors.New("providers: invalid credentials")

// Provider verifies a sign-in attempt. Variants are interchangeable and
// selected by name via the Registry.
type Provider interface {
	Name() string
	// LoginURL returns the URL to redirect the browser to, or "" for
	// providers with no redirect step.
	LoginURL(state string) string
	Verify(ctx context.Context, creds Credentials) (*Identity, error)
}

// Registry holds the configured providers keyed by name.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry(list ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(list))}
	for _, p := range list {
		r.providers[p.Name()] = p
	}
	return r
}

// Get looks a provider up by name.
func (r *Registry) Get(name string) (Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}
