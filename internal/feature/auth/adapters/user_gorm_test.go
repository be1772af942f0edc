package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classmate_backend/internal/domain/entity"
	"classmate_backend/internal/feature/auth/usecase"
	"classmate_backend/internal/platform/db/dbtest"
)

func TestNewUserGorm(t *testing.T) {
	db := dbtest.Open(t)

	repo := NewUserGorm(db)

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.db, "database connection is nil")
}

func TestUserGorm_Create(t *testing.T) {
	t.Run("successful user creation", func(t *testing.T) {
		repo := NewUserGorm(dbtest.Open(t))

		user := &entity.User{
			Name:     "Ada",
			Email:    "test@example.com",
			Password: "hashed_password",
		}

		err := repo.Create(context.Background(), user)

		require.NoError(t, err, "failed to create user")
		assert.NotZero(t, user.ID, "ID is not set")
		assert.False(t, user.CreatedAt.IsZero(), "CreatedAt is not set")
	})

	t.Run("duplicate email error", func(t *testing.T) {
		repo := NewUserGorm(dbtest.Open(t))

		user1 := &entity.User{Name: "A", Email: "duplicate@example.com", Password: "password1"}
		require.NoError(t, repo.Create(context.Background(), user1), "failed to create first user")

		// 同じメールアドレスで2人目を作成
		user2 := &entity.User{Name: "B", Email: "duplicate@example.com", Password: "password2"}
		err := repo.Create(context.Background(), user2)

		assert.ErrorIs(t, err, usecase.ErrEmailAlreadyExists)
	})
}

func TestUserGorm_FindByEmail(t *testing.T) {
	repo := NewUserGorm(dbtest.Open(t))
	ctx := context.Background()

	created := &entity.User{Name: "Ada", Email: "ada@example.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, created))

	t.Run("existing user", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "ada@example.com")

		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, "Ada", found.Name)
		assert.Equal(t, "hash", found.Password)
	})

	t.Run("unknown email", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "nobody@example.com")

		assert.ErrorIs(t, err, usecase.ErrUserNotFound)
		assert.Nil(t, found)
	})
}
