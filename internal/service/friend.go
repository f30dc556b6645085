package service

import (
	"context"
	"fmt"
	"strings"

	"splitbill-backend/internal/domain"
	"splitbill-backend/internal/identity"
	"splitbill-backend/internal/logger"
	"splitbill-backend/internal/repository"
)

type friendService struct {
	friendRepo repository.FriendRepository
	provider   identity.Provider
	emailSvc   EmailService
}

func NewFriendService(friendRepo repository.FriendRepository, provider identity.Provider, emailSvc EmailService) FriendService {
	return &friendService{
		friendRepo: friendRepo,
		provider:   provider,
		emailSvc:   emailSvc,
	}
}

func (s *friendService) AddFriend(ctx context.Context, userID, friendEmail string) (*domain.User, error) {
	logger.EnterMethod("friendService.AddFriend", "userID", userID, "friendEmail", friendEmail)

	friendEmail = strings.TrimSpace(friendEmail)
	if friendEmail == "" || !strings.Contains(friendEmail, "@") {
		err := domain.NewValidationError("friend_email", "a valid email is required")
		logger.ExitMethodWithError("friendService.AddFriend", err, "userID", userID)
		return nil, err
	}

	friend, err := s.provider.LookupByEmail(ctx, friendEmail)
	if err != nil {
		logger.ExitMethodWithError("friendService.AddFriend", err, "userID", userID)
		return nil, err
	}
	if friend.ID == userID {
		err := domain.NewValidationError("friend_email", "cannot add yourself as a friend")
		logger.ExitMethodWithError("friendService.AddFriend", err, "userID", userID)
		return nil, err
	}

	added, err := s.friendRepo.AddPair(ctx, userID, friend.ID)
	if err != nil {
		logger.ExitMethodWithError("friendService.AddFriend", err, "userID", userID)
		return nil, fmt.Errorf("failed to add friend: %w", err)
	}

	if added {
		if me, err := s.provider.LookupByID(ctx, userID); err != nil {
			logger.Warn("Failed to look up caller for friend notification", "userID", userID, "error", err)
		} else if err := s.emailSvc.SendFriendAdded(ctx, *friend, *me); err != nil {
			logger.Warn("Failed to send friend added email", "userID", userID, "friendID", friend.ID, "error", err)
		}
	}

	logger.ExitMethod("friendService.AddFriend", "userID", userID, "friendID", friend.ID, "added", added)
	return friend, nil
}

func (s *friendService) ListFriends(ctx context.Context, userID string) ([]domain.User, error) {
	logger.EnterMethod("friendService.ListFriends", "userID", userID)

	ids, err := s.friendRepo.ListFriendIDs(ctx, userID)
	if err != nil {
		logger.ExitMethodWithError("friendService.ListFriends", err, "userID", userID)
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	if len(ids) == 0 {
		logger.ExitMethod("friendService.ListFriends", "userID", userID, "count", 0)
		return []domain.User{}, nil
	}

	users, err := s.provider.LookupByIDs(ctx, ids)
	if err != nil {
		logger.ExitMethodWithError("friendService.ListFriends", err, "userID", userID)
		return nil, fmt.Errorf("failed to look up friends: %w", err)
	}

	// Keep the stored order and surface friends the provider no longer knows.
	byID := make(map[string]domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	friends := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			friends = append(friends, u)
		} else {
			friends = append(friends, domain.User{ID: id})
		}
	}

	logger.ExitMethod("friendService.ListFriends", "userID", userID, "count", len(friends))
	return friends, nil
}
