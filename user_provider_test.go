package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	auth "github.com/ushort/go-auth"
)

func activeUser(t *testing.T) *auth.User {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	return &auth.User{
		ID:           42,
		Name:         "Ada",
		Email:        "ada@example.com",
		PasswordHash: hash,
		Active:       true,
	}
}

func TestVerifyIdentity(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		store := new(MockUsers)
		provider := auth.NewUserProvider(store).WithLogger(&MockLogger{})

		user := activeUser(t)
		store.On("GetByEmail", ctx, "ada@example.com").Return(user, nil).Once()
		store.On("TrackSuccessfulLogin", ctx, user).Return(nil).Once()

		identity, err := provider.VerifyIdentity(ctx, "ada@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, int64(42), identity.ID())
		assert.Equal(t, "Ada", identity.Name())
		assert.Equal(t, "ada@example.com", identity.Email())

		store.AssertExpectations(t)
	})

	t.Run("unknown email maps to credential mismatch", func(t *testing.T) {
		store := new(MockUsers)
		provider := auth.NewUserProvider(store).WithLogger(&MockLogger{})

		store.On("GetByEmail", ctx, "nobody@example.com").
			Return(nil, auth.ErrIdentityNotFound).Once()

		_, err := provider.VerifyIdentity(ctx, "nobody@example.com", "password123")
		assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
	})

	t.Run("wrong password tracks the attempt", func(t *testing.T) {
		store := new(MockUsers)
		provider := auth.NewUserProvider(store).WithLogger(&MockLogger{})

		user := activeUser(t)
		store.On("GetByEmail", ctx, "ada@example.com").Return(user, nil).Once()
		store.On("TrackAttemptedLogin", ctx, user).Return(nil).Once()

		_, err := provider.VerifyIdentity(ctx, "ada@example.com", "wrong")
		assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)

		store.AssertExpectations(t)
	})

	t.Run("too many attempts inside the cooldown window", func(t *testing.T) {
		store := new(MockUsers)
		provider := auth.NewUserProvider(store).WithLogger(&MockLogger{})

		now := time.Now()
		user := activeUser(t)
		user.LoginAttempts = auth.MaxLoginAttempts + 1
		user.LoginAttemptAt = &now

		store.On("GetByEmail", ctx, "ada@example.com").Return(user, nil).Once()

		_, err := provider.VerifyIdentity(ctx, "ada@example.com", "password123")
		assert.ErrorIs(t, err, auth.ErrTooManyLoginAttempts)
	})

	t.Run("attempt counter resets after the cooldown", func(t *testing.T) {
		store := new(MockUsers)
		provider := auth.NewUserProvider(store).WithLogger(&MockLogger{})

		stale := time.Now().Add(-48 * time.Hour)
		user := activeUser(t)
		user.LoginAttempts = auth.MaxLoginAttempts + 3
		user.LoginAttemptAt = &stale

		store.On("GetByEmail", ctx, "ada@example.com").Return(user, nil).Once()
		store.On("TrackSuccessfulLogin", ctx, user).Return(nil).Once()

		identity, err := provider.VerifyIdentity(ctx, "ada@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, int64(42), identity.ID())
	})

	t.Run("inactive account", func(t *testing.T) {
		store := new(MockUsers)
		provider := auth.NewUserProvider(store).WithLogger(&MockLogger{})

		user := activeUser(t)
		user.Active = false

		store.On("GetByEmail", ctx, "ada@example.com").Return(user, nil).Once()

		_, err := provider.VerifyIdentity(ctx, "ada@example.com", "password123")
		assert.ErrorIs(t, err, auth.ErrAccountInactive)
	})
}

func TestFindIdentityByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		store := new(MockUsers)
		provider := auth.NewUserProvider(store).WithLogger(&MockLogger{})

		store.On("GetByID", ctx, int64(42)).Return(activeUser(t), nil).Once()

		identity, err := provider.FindIdentityByID(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, int64(42), identity.ID())
	})

	t.Run("unknown or forged ID", func(t *testing.T) {
		store := new(MockUsers)
		provider := auth.NewUserProvider(store).WithLogger(&MockLogger{})

		store.On("GetByID", ctx, mock.Anything).
			Return(nil, auth.ErrIdentityNotFound).Once()

		_, err := provider.FindIdentityByID(ctx, 987654321)
		assert.ErrorIs(t, err, auth.ErrIdentityNotFound)
	})

	t.Run("inactive account", func(t *testing.T) {
		store := new(MockUsers)
		provider := auth.NewUserProvider(store).WithLogger(&MockLogger{})

		user := activeUser(t)
		user.Active = false
		store.On("GetByID", ctx, int64(42)).Return(user, nil).Once()

		_, err := provider.FindIdentityByID(ctx, 42)
		assert.ErrorIs(t, err, auth.ErrAccountInactive)
	})
}

func TestFindIdentityByEmail(t *testing.T) {
	ctx := context.Background()
	store := new(MockUsers)
	provider := auth.NewUserProvider(store).WithLogger(&MockLogger{})

	store.On("GetByEmail", ctx, "ada@example.com").Return(activeUser(t), nil).Once()

	identity, err := provider.FindIdentityByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", identity.Email())
}
