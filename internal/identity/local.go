package identity

import (
	"context"
	"errors"

	"splitbill-backend/internal/domain"
	"splitbill-backend/internal/repository"
	"splitbill-backend/internal/security"
)

// LocalProvider resolves identities from the users table and verifies
// tokens issued by the local auth service.
type LocalProvider struct {
	users  repository.UserRepository
	tokens security.TokenManager
}

func NewLocalProvider(users repository.UserRepository, tokens security.TokenManager) *LocalProvider {
	return &LocalProvider{users: users, tokens: tokens}
}

func (p *LocalProvider) VerifyToken(ctx context.Context, token string) (string, error) {
	claims, err := p.tokens.ValidateToken(token)
	if err != nil {
		reason := "invalid token"
		if errors.Is(err, security.ErrExpiredToken) {
			reason = "token has expired"
		}
		return "", &domain.AuthError{Reason: reason}
	}
	if claims.Subject == "" {
		return "", &domain.AuthError{Reason: "token has no subject"}
	}
	return claims.Subject, nil
}

func (p *LocalProvider) LookupByEmail(ctx context.Context, email string) (*domain.User, error) {
	return p.users.GetByEmail(ctx, email)
}

func (p *LocalProvider) LookupByID(ctx context.Context, id string) (*domain.User, error) {
	return p.users.GetByID(ctx, id)
}

func (p *LocalProvider) LookupByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	return p.users.ListByIDs(ctx, ids)
}
