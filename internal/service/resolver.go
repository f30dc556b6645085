package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"splitbill-backend/internal/domain"
	"splitbill-backend/internal/identity"
	"splitbill-backend/internal/logger"
)

// maxConcurrentLookups bounds the email lookups one batch runs in parallel.
const maxConcurrentLookups = 8

type identityResolver struct {
	provider identity.Provider
}

func NewIdentityResolver(provider identity.Provider) IdentityResolver {
	return &identityResolver{provider: provider}
}

func (r *identityResolver) Resolve(ctx context.Context, refs []string) ([]string, error) {
	logger.EnterMethod("identityResolver.Resolve", "count", len(refs))

	trimmed := make([]string, len(refs))
	for i, ref := range refs {
		trimmed[i] = strings.TrimSpace(ref)
		if trimmed[i] == "" {
			err := domain.NewValidationError("user reference", "must not be empty")
			logger.ExitMethodWithError("identityResolver.Resolve", err)
			return nil, err
		}
	}

	ids := make([]string, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)

	for i, ref := range trimmed {
		if !strings.Contains(ref, "@") {
			ids[i] = ref
			continue
		}
		g.Go(func() error {
			user, err := r.provider.LookupByEmail(gctx, ref)
			if err != nil {
				if domain.IsNotFound(err) {
					return &domain.UnknownUserError{Ref: ref}
				}
				return fmt.Errorf("failed to resolve %s: %w", ref, err)
			}
			ids[i] = user.ID
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.ExitMethodWithError("identityResolver.Resolve", err)
		return nil, err
	}

	logger.ExitMethod("identityResolver.Resolve", "count", len(ids))
	return ids, nil
}

func (r *identityResolver) ResolveDistinct(ctx context.Context, refs []string) ([]string, error) {
	ids, err := r.Resolve(ctx, refs)
	if err != nil {
		return nil, err
	}
	return distinct(ids), nil
}

func (r *identityResolver) Labels(ctx context.Context, ids []string) map[string]string {
	labels := make(map[string]string, len(ids))
	for _, id := range ids {
		labels[id] = id
	}
	if len(ids) == 0 {
		return labels
	}

	users, err := r.provider.LookupByIDs(ctx, distinct(ids))
	if err != nil {
		logger.Warn("Falling back to raw ids for labels", "error", err)
		return labels
	}
	for _, u := range users {
		labels[u.ID] = u.Label()
	}
	return labels
}

func (r *identityResolver) Users(ctx context.Context, ids []string) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}
	return r.provider.LookupByIDs(ctx, distinct(ids))
}

func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
