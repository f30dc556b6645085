// Package identity adapts an external identity system to the operations the
// ledger needs: token verification and user lookup by email or id.
package identity

import (
	"context"
	"fmt"

	"splitbill-backend/internal/config"
	"splitbill-backend/internal/domain"
	"splitbill-backend/internal/repository"
	"splitbill-backend/internal/security"
)

// Provider is the identity collaborator. Lookups fail with a
// domain.NotFoundError when the user does not exist and VerifyToken fails
// with a domain.AuthError for any unusable credential.
type Provider interface {
	VerifyToken(ctx context.Context, token string) (string, error)
	LookupByEmail(ctx context.Context, email string) (*domain.User, error)
	LookupByID(ctx context.Context, id string) (*domain.User, error)
	// LookupByIDs returns the users that exist among ids. Missing ids are
	// silently skipped.
	LookupByIDs(ctx context.Context, ids []string) ([]domain.User, error)
}

// NewFromConfig builds the provider selected by cfg.Provider. The local
// provider verifies tokens issued by tokens and looks users up in users.
func NewFromConfig(ctx context.Context, cfg config.AuthConfig, users repository.UserRepository, tokens security.TokenManager) (Provider, error) {
	switch cfg.Provider {
	case "", config.AuthProviderLocal:
		return NewLocalProvider(users, tokens), nil
	case config.AuthProviderFirebase:
		p, err := NewFirebaseProvider(ctx, cfg.Firebase)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, fmt.Errorf("unsupported auth provider: %s", cfg.Provider)
}
