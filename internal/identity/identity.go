// Package identity resolves the user attached to incoming requests.
// Authentication is out of scope, so the only shipped provider returns a
// fixed development identity, but everything above this package goes
// through the Provider interface so a real provider can be swapped in
// without touching handlers or the datastore.
package identity

import (
	"context"

	"github.com/greenpulse/greenpulse-go/internal/conf"
	"github.com/greenpulse/greenpulse-go/internal/errors"
)

// User is a resolved request identity. ID is the tenant key stamped on
// every record write and matched on every scoped read.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Provider resolves the identity for a request. Implementations must be
// safe for concurrent use.
type Provider interface {
	// CurrentUser returns the identity of the caller. An error means the
	// request carries no resolvable identity and must be rejected.
	CurrentUser(ctx context.Context) (User, error)
}

// StaticProvider returns the same identity for every request. It stands
// in for a real authentication layer during development.
type StaticProvider struct {
	user User
}

// NewStaticProvider creates a provider that always resolves to the given
// user. Empty values fall back to the development defaults.
func NewStaticProvider(userID, username string) *StaticProvider {
	if userID == "" {
		userID = "1"
	}
	if username == "" {
		username = "dev"
	}
	return &StaticProvider{user: User{ID: userID, Username: username}}
}

// CurrentUser implements Provider.
func (p *StaticProvider) CurrentUser(_ context.Context) (User, error) {
	return p.user, nil
}

// NewFromSettings builds the provider selected in the configuration.
func NewFromSettings(settings *conf.Settings) (Provider, error) {
	if settings == nil {
		return nil, errors.Newf("identity settings are nil").
			Component("identity").
			Category(errors.CategoryConfiguration).
			Build()
	}

	switch settings.Identity.Provider {
	case "", "static":
		return NewStaticProvider(settings.Identity.UserID, settings.Identity.Username), nil
	default:
		return nil, errors.Newf("unknown identity provider: %s", settings.Identity.Provider).
			Component("identity").
			Category(errors.CategoryConfiguration).
			Context("provider", settings.Identity.Provider).
			Build()
	}
}
