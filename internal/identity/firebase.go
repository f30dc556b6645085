package identity

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"splitbill-backend/internal/config"
	"splitbill-backend/internal/domain"
	"splitbill-backend/internal/logger"
)

// getUsersBatchLimit is the most identifiers Firebase accepts per GetUsers call.
const getUsersBatchLimit = 100

// authClient is the subset of *auth.Client the provider uses.
type authClient interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	GetUserByEmail(ctx context.Context, email string) (*auth.UserRecord, error)
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
	GetUsers(ctx context.Context, identifiers []auth.UserIdentifier) (*auth.GetUsersResult, error)
}

type FirebaseProvider struct {
	client authClient
}

// NewFirebaseProvider initialises the Admin SDK. Without a credentials file
// the SDK falls back to application default credentials.
func NewFirebaseProvider(ctx context.Context, cfg config.FirebaseConfig) (*FirebaseProvider, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise firebase auth client: %w", err)
	}
	return &FirebaseProvider{client: client}, nil
}

func newFirebaseProviderWithClient(client authClient) *FirebaseProvider {
	return &FirebaseProvider{client: client}
}

func (p *FirebaseProvider) VerifyToken(ctx context.Context, token string) (string, error) {
	logger.ExternalServiceCall("firebase", "VerifyIDToken")
	t, err := p.client.VerifyIDToken(ctx, token)
	logger.ExternalServiceResult("firebase", "VerifyIDToken", err)
	if err != nil {
		return "", &domain.AuthError{Reason: "invalid identity token"}
	}
	return t.UID, nil
}

func (p *FirebaseProvider) LookupByEmail(ctx context.Context, email string) (*domain.User, error) {
	logger.ExternalServiceCall("firebase", "GetUserByEmail", "email", email)
	rec, err := p.client.GetUserByEmail(ctx, email)
	logger.ExternalServiceResult("firebase", "GetUserByEmail", err, "email", email)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil, domain.NewNotFoundError("user", email)
		}
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}
	return userFromRecord(rec), nil
}

func (p *FirebaseProvider) LookupByID(ctx context.Context, id string) (*domain.User, error) {
	logger.ExternalServiceCall("firebase", "GetUser", "uid", id)
	rec, err := p.client.GetUser(ctx, id)
	logger.ExternalServiceResult("firebase", "GetUser", err, "uid", id)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil, domain.NewNotFoundError("user", id)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return userFromRecord(rec), nil
}

func (p *FirebaseProvider) LookupByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	users := make([]domain.User, 0, len(ids))
	for start := 0; start < len(ids); start += getUsersBatchLimit {
		end := min(start+getUsersBatchLimit, len(ids))

		identifiers := make([]auth.UserIdentifier, 0, end-start)
		for _, id := range ids[start:end] {
			identifiers = append(identifiers, auth.UIDIdentifier{UID: id})
		}

		logger.ExternalServiceCall("firebase", "GetUsers", "count", len(identifiers))
		result, err := p.client.GetUsers(ctx, identifiers)
		logger.ExternalServiceResult("firebase", "GetUsers", err)
		if err != nil {
			return nil, fmt.Errorf("failed to look up users: %w", err)
		}
		for _, rec := range result.Users {
			users = append(users, *userFromRecord(rec))
		}
	}
	return users, nil
}

func userFromRecord(rec *auth.UserRecord) *domain.User {
	u := &domain.User{}
	if rec.UserInfo != nil {
		u.ID = rec.UID
		u.Email = rec.Email
		u.DisplayName = rec.DisplayName
	}
	if rec.UserMetadata != nil && rec.UserMetadata.CreationTimestamp > 0 {
		u.CreatedAt = time.UnixMilli(rec.UserMetadata.CreationTimestamp)
	}
	return u
}
