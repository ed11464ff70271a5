package auth_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	auth "github.com/ushort/go-auth"
	"github.com/ushort/go-auth/generator"
)

const sqliteCreateUsers = `CREATE TABLE users (
    id INTEGER NOT NULL PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    phone_number TEXT,
    password_hash TEXT NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    login_attempts INTEGER DEFAULT 0,
    login_attempt_at TIMESTAMP NULL,
    loggedin_at TIMESTAMP NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    deleted_at TIMESTAMP NULL
);`

func setupUsersRepo(t *testing.T) (auth.Users, *bun.DB) {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = db.Exec(sqliteCreateUsers)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
		_ = sqldb.Close()
	})

	gen, err := generator.New(1)
	require.NoError(t, err)

	return auth.NewUsersRepository(db, gen), db
}

func newTestUser(t *testing.T, email string) *auth.User {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	return &auth.User{
		Name:         "Ada",
		Email:        email,
		PasswordHash: hash,
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupUsersRepo(t)

	t.Run("assigns a snowflake ID and activates the account", func(t *testing.T) {
		record, err := repo.Register(ctx, newTestUser(t, "ada@example.com"))
		require.NoError(t, err)

		assert.NotZero(t, record.ID)
		assert.True(t, record.Active)
	})

	t.Run("lowercases the email domain", func(t *testing.T) {
		record, err := repo.Register(ctx, newTestUser(t, "Grace@EXAMPLE.ORG"))
		require.NoError(t, err)
		assert.Equal(t, "Grace@example.org", record.Email)
	})

	t.Run("rejects duplicate emails", func(t *testing.T) {
		_, err := repo.Register(ctx, newTestUser(t, "dup@example.com"))
		require.NoError(t, err)

		_, err = repo.Register(ctx, newTestUser(t, "dup@example.com"))
		assert.ErrorIs(t, err, auth.ErrEmailTaken)
	})

	t.Run("IDs are strictly increasing", func(t *testing.T) {
		first, err := repo.Register(ctx, newTestUser(t, "one@example.com"))
		require.NoError(t, err)
		second, err := repo.Register(ctx, newTestUser(t, "two@example.com"))
		require.NoError(t, err)

		assert.Greater(t, second.ID, first.ID)
	})
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupUsersRepo(t)

	record, err := repo.Register(ctx, newTestUser(t, "ada@example.com"))
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		got, err := repo.GetByID(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, record.Email, got.Email)
	})

	t.Run("unknown ID", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 999999)
		assert.ErrorIs(t, err, auth.ErrIdentityNotFound)
	})
}

func TestGetByEmail(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupUsersRepo(t)

	_, err := repo.Register(ctx, newTestUser(t, "ada@example.com"))
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, "Ada", got.Name)
	})

	t.Run("lookup normalizes the domain", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "ada@EXAMPLE.COM")
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", got.Email)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := repo.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, auth.ErrIdentityNotFound)
	})
}

func TestTrackLoginAttempts(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupUsersRepo(t)

	record, err := repo.Register(ctx, newTestUser(t, "ada@example.com"))
	require.NoError(t, err)

	require.NoError(t, repo.TrackAttemptedLogin(ctx, record))
	require.NoError(t, repo.TrackAttemptedLogin(ctx, record))

	got, err := repo.GetByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.LoginAttempts)
	assert.NotNil(t, got.LoginAttemptAt)

	require.NoError(t, repo.TrackSuccessfulLogin(ctx, got))

	got, err = repo.GetByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.LoginAttempts)
	assert.NotNil(t, got.LoggedInAt)
}

func TestRepositoryManager(t *testing.T) {
	ctx := context.Background()
	_, db := setupUsersRepo(t)

	gen, err := generator.New(2)
	require.NoError(t, err)

	manager := auth.NewRepositoryManager(db, gen)
	require.NoError(t, manager.Validate())

	t.Run("registration inside a transaction", func(t *testing.T) {
		var created *auth.User
		err := manager.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			var txErr error
			created, txErr = manager.Users().RegisterTx(ctx, tx, newTestUser(t, "tx@example.com"))
			return txErr
		})
		require.NoError(t, err)
		require.NotNil(t, created)

		got, err := manager.Users().GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "tx@example.com", got.Email)
	})

	t.Run("rollback on error", func(t *testing.T) {
		sentinel := assert.AnError
		err := manager.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, txErr := manager.Users().RegisterTx(ctx, tx, newTestUser(t, "rollback@example.com")); txErr != nil {
				return txErr
			}
			return sentinel
		})
		require.ErrorIs(t, err, sentinel)

		_, err = manager.Users().GetByEmail(ctx, "rollback@example.com")
		assert.ErrorIs(t, err, auth.ErrIdentityNotFound)
	})
}
