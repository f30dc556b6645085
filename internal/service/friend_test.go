package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"splitbill-backend/internal/domain"
	"splitbill-backend/internal/service"
)

func TestFriendService_AddFriend(t *testing.T) {
	ctx := context.Background()
	alice := &domain.User{ID: "A", Email: "alice@example.com", DisplayName: "Alice"}
	bob := &domain.User{ID: "B", Email: "bob@example.com", DisplayName: "Bob"}

	t.Run("Success", func(t *testing.T) {
		repo := new(MockFriendRepo)
		provider := new(MockProvider)
		email := new(MockEmailService)
		svc := service.NewFriendService(repo, provider, email)

		provider.On("LookupByEmail", ctx, "bob@example.com").Return(bob, nil).Once()
		provider.On("LookupByID", ctx, "A").Return(alice, nil).Once()
		repo.On("AddPair", ctx, "A", "B").Return(true, nil).Once()
		email.On("SendFriendAdded", ctx, *bob, *alice).Return(nil).Once()

		friend, err := svc.AddFriend(ctx, "A", " bob@example.com ")
		require.NoError(t, err)
		assert.Equal(t, "B", friend.ID)
		repo.AssertExpectations(t)
		email.AssertExpectations(t)
	})

	t.Run("AlreadyFriendsSkipsEmail", func(t *testing.T) {
		repo := new(MockFriendRepo)
		provider := new(MockProvider)
		email := new(MockEmailService)
		svc := service.NewFriendService(repo, provider, email)

		provider.On("LookupByEmail", ctx, "bob@example.com").Return(bob, nil).Once()
		repo.On("AddPair", ctx, "A", "B").Return(false, nil).Once()

		_, err := svc.AddFriend(ctx, "A", "bob@example.com")
		require.NoError(t, err)
		email.AssertNotCalled(t, "SendFriendAdded", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Self", func(t *testing.T) {
		provider := new(MockProvider)
		svc := service.NewFriendService(new(MockFriendRepo), provider, new(MockEmailService))
		provider.On("LookupByEmail", ctx, "alice@example.com").Return(alice, nil).Once()

		_, err := svc.AddFriend(ctx, "A", "alice@example.com")
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("Unregistered", func(t *testing.T) {
		provider := new(MockProvider)
		svc := service.NewFriendService(new(MockFriendRepo), provider, new(MockEmailService))
		provider.On("LookupByEmail", ctx, "ghost@nowhere.test").Return(nil, domain.NewNotFoundError("user", "ghost@nowhere.test")).Once()

		_, err := svc.AddFriend(ctx, "A", "ghost@nowhere.test")
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("MissingEmail", func(t *testing.T) {
		svc := service.NewFriendService(new(MockFriendRepo), new(MockProvider), new(MockEmailService))

		_, err := svc.AddFriend(ctx, "A", "")
		assert.True(t, domain.IsValidation(err))
	})
}

func TestFriendService_ListFriends(t *testing.T) {
	ctx := context.Background()
	repo := new(MockFriendRepo)
	provider := new(MockProvider)
	svc := service.NewFriendService(repo, provider, new(MockEmailService))

	repo.On("ListFriendIDs", ctx, "A").Return([]string{"C", "B"}, nil).Once()
	provider.On("LookupByIDs", ctx, []string{"C", "B"}).Return([]domain.User{{ID: "B", DisplayName: "Bob"}}, nil).Once()

	friends, err := svc.ListFriends(ctx, "A")
	require.NoError(t, err)
	require.Len(t, friends, 2)
	assert.Equal(t, "C", friends[0].ID)
	assert.Equal(t, "Bob", friends[1].DisplayName)

	repo.On("ListFriendIDs", ctx, "Z").Return([]string{}, nil).Once()
	empty, err := svc.ListFriends(ctx, "Z")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
