package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/comitanigiacomo/habittrack/internal/core/domain"
	"github.com/comitanigiacomo/habittrack/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func userWithPassword(t *testing.T, id, email, password string) *domain.User {
	t.Helper()
	u, err := domain.NewUser(id, email)
	require.NoError(t, err)
	require.NoError(t, u.SetPassword(password))
	return u
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Should register a valid user", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := services.NewAuthService(repo)

		repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

		user, err := svc.Register(ctx, services.RegisterInput{Email: "test@habittrack.app", Password: "StrongPassword123!"})

		require.NoError(t, err)
		assert.Equal(t, "test@habittrack.app", user.Email)
		assert.NotEmpty(t, user.ID)
		assert.NotEmpty(t, user.PasswordHash)
		repo.AssertExpectations(t)
	})

	t.Run("Fail: invalid email", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := services.NewAuthService(repo)

		_, err := svc.Register(ctx, services.RegisterInput{Email: "not-an-email", Password: "StrongPassword123!"})
		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
	})

	t.Run("Fail: short password", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := services.NewAuthService(repo)

		_, err := svc.Register(ctx, services.RegisterInput{Email: "a@b.co", Password: "short"})
		assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
	})

	t.Run("Fail: duplicate email propagates", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := services.NewAuthService(repo)

		repo.On("Create", ctx, mock.Anything).Return(domain.ErrEmailAlreadyExists)

		_, err := svc.Register(ctx, services.RegisterInput{Email: "a@b.co", Password: "StrongPassword123!"})
		assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	stored := userWithPassword(t, "u1", "ada@habittrack.app", "correct-horse")

	t.Run("Success with normalized email", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := services.NewAuthService(repo)
		repo.On("GetByEmail", ctx, "ada@habittrack.app").Return(stored, nil)

		user, err := svc.Login(ctx, services.LoginInput{Email: " Ada@HabitTrack.app ", Password: "correct-horse"})

		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
	})

	t.Run("Wrong password", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := services.NewAuthService(repo)
		repo.On("GetByEmail", ctx, "ada@habittrack.app").Return(stored, nil)

		_, err := svc.Login(ctx, services.LoginInput{Email: "ada@habittrack.app", Password: "battery-staple"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("Unknown email", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := services.NewAuthService(repo)
		repo.On("GetByEmail", ctx, "ghost@habittrack.app").Return(nil, domain.ErrUserNotFound)

		_, err := svc.Login(ctx, services.LoginInput{Email: "ghost@habittrack.app", Password: "whatever1"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("Storage failure is not hidden", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := services.NewAuthService(repo)
		dbErr := errors.New("connection refused")
		repo.On("GetByEmail", ctx, "ada@habittrack.app").Return(nil, dbErr)

		_, err := svc.Login(ctx, services.LoginInput{Email: "ada@habittrack.app", Password: "correct-horse"})
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestAuthService_UpdateEmail(t *testing.T) {
	ctx := context.Background()

	repo := new(MockUserRepo)
	svc := services.NewAuthService(repo)
	repo.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", Email: "old@habittrack.app"}, nil)
	repo.On("UpdateEmail", ctx, "u1", "new@habittrack.app").Return(nil)

	user, err := svc.UpdateEmail(ctx, "u1", "New@HabitTrack.app")
	require.NoError(t, err)
	assert.Equal(t, "new@habittrack.app", user.Email)

	_, err = svc.UpdateEmail(ctx, "u1", "broken")
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
	repo.AssertNumberOfCalls(t, "UpdateEmail", 1)
}

func TestAuthService_UpdatePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := services.NewAuthService(repo)
		repo.On("GetByID", ctx, "u1").Return(userWithPassword(t, "u1", "a@b.co", "old-password"), nil)
		repo.On("UpdatePassword", ctx, "u1", mock.AnythingOfType("string")).Return(nil)

		err := svc.UpdatePassword(ctx, services.UpdatePasswordInput{UserID: "u1", CurrentPassword: "old-password", NewPassword: "new-password"})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Wrong current password", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := services.NewAuthService(repo)
		repo.On("GetByID", ctx, "u1").Return(userWithPassword(t, "u1", "a@b.co", "old-password"), nil)

		err := svc.UpdatePassword(ctx, services.UpdatePasswordInput{UserID: "u1", CurrentPassword: "nope-nope", NewPassword: "new-password"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("New password too short", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := services.NewAuthService(repo)
		repo.On("GetByID", ctx, "u1").Return(userWithPassword(t, "u1", "a@b.co", "old-password"), nil)

		err := svc.UpdatePassword(ctx, services.UpdatePasswordInput{UserID: "u1", CurrentPassword: "old-password", NewPassword: "short"})
		assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
	})
}
