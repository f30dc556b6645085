package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"splitbill-backend/internal/domain"
	"splitbill-backend/internal/logger"
	"splitbill-backend/internal/repository"
	"splitbill-backend/internal/security"
)

const minPasswordLength = 8

var ErrInvalidCredentials = &domain.AuthError{Reason: "invalid email or password"}

type authService struct {
	userRepo     repository.UserRepository
	tokenManager security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokenManager security.TokenManager) AuthService {
	return &authService{
		userRepo:     userRepo,
		tokenManager: tokenManager,
	}
}

func (s *authService) Signup(ctx context.Context, email, password, displayName string) (*domain.User, string, error) {
	logger.EnterMethod("authService.Signup", "email", email)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		err := domain.NewValidationError("email", "a valid email is required")
		logger.ExitMethodWithError("authService.Signup", err)
		return nil, "", err
	}
	if len(password) < minPasswordLength {
		err := domain.NewValidationError("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
		logger.ExitMethodWithError("authService.Signup", err)
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.ExitMethodWithError("authService.Signup", err)
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		logger.ExitMethodWithError("authService.Signup", err, "email", email)
		return nil, "", err
	}

	token, err := s.tokenManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		logger.ExitMethodWithError("authService.Signup", err, "userID", user.ID)
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	logger.ExitMethod("authService.Signup", "userID", user.ID)
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	logger.EnterMethod("authService.Login", "email", email)

	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if domain.IsNotFound(err) {
			err = ErrInvalidCredentials
		}
		logger.ExitMethodWithError("authService.Login", err, "email", email)
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			logger.Warn("Stored password hash is unusable", "userID", user.ID, "error", err)
		}
		logger.ExitMethodWithError("authService.Login", ErrInvalidCredentials, "email", email)
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokenManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		logger.ExitMethodWithError("authService.Login", err, "userID", user.ID)
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	logger.ExitMethod("authService.Login", "userID", user.ID)
	return user, token, nil
}

// externalAuthService answers Signup and Login when accounts live with an
// external identity provider.
type externalAuthService struct {
	provider string
}

func NewExternalAuthService(provider string) AuthService {
	return &externalAuthService{provider: provider}
}

func (s *externalAuthService) Signup(ctx context.Context, email, password, displayName string) (*domain.User, string, error) {
	return nil, "", &domain.ConflictError{Reason: "accounts are managed by " + s.provider}
}

func (s *externalAuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	return nil, "", &domain.ConflictError{Reason: "sign in with " + s.provider}
}
