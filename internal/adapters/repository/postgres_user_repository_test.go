package repository

import (
	"context"
	"testing"

	"github.com/comitanigiacomo/habittrack/internal/core/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresUserRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresUserRepository(db)
	ctx := context.Background()

	user, err := domain.NewUser(uuid.NewString(), "user-test@habittrack.app")
	require.NoError(t, err)
	user.PasswordHash = "hash"
	require.NoError(t, repo.Create(ctx, user))

	t.Run("Get By Email And ID", func(t *testing.T) {
		byEmail, err := repo.GetByEmail(ctx, "user-test@habittrack.app")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byEmail.ID)

		byID, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "hash", byID.PasswordHash)
	})

	t.Run("Unknown User", func(t *testing.T) {
		_, err := repo.GetByEmail(ctx, "ghost@habittrack.app")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)

		_, err = repo.GetByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		dup, err := domain.NewUser(uuid.NewString(), "user-test@habittrack.app")
		require.NoError(t, err)
		dup.PasswordHash = "hash"

		assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrEmailAlreadyExists)
	})

	t.Run("Update Email And Password", func(t *testing.T) {
		require.NoError(t, repo.UpdateEmail(ctx, user.ID, "renamed@habittrack.app"))
		require.NoError(t, repo.UpdatePassword(ctx, user.ID, "new-hash"))

		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "renamed@habittrack.app", got.Email)
		assert.Equal(t, "new-hash", got.PasswordHash)

		assert.ErrorIs(t, repo.UpdateEmail(ctx, uuid.NewString(), "x@habittrack.app"), domain.ErrUserNotFound)
	})

	t.Run("Update Email Conflict", func(t *testing.T) {
		otherID := createTestUser(t, db, "other@habittrack.app")
		assert.ErrorIs(t, repo.UpdateEmail(ctx, otherID, "renamed@habittrack.app"), domain.ErrEmailAlreadyExists)
	})
}
