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

func TestHabitService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: persists and schedules a refresh", func(t *testing.T) {
		repo := new(MockHabitRepo)
		queue := &recordingQueue{}
		svc := services.NewHabitService(repo, queue)

		repo.On("Create", ctx, mock.AnythingOfType("*domain.Habit")).Return(nil)

		habit, err := svc.Create(ctx, services.CreateHabitInput{UserID: "user-1", Title: "Read", Color: "#10B981"})

		require.NoError(t, err)
		assert.Equal(t, "Read", habit.Title)
		assert.Equal(t, "#10B981", habit.Color)
		assert.Equal(t, []string{"user-1"}, queue.Jobs())
		repo.AssertExpectations(t)
	})

	t.Run("Validation error never reaches the repository", func(t *testing.T) {
		repo := new(MockHabitRepo)
		svc := services.NewHabitService(repo, nil)

		_, err := svc.Create(ctx, services.CreateHabitInput{UserID: "user-1", Title: ""})

		assert.ErrorIs(t, err, domain.ErrHabitTitleEmpty)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("Repository failure is wrapped", func(t *testing.T) {
		repo := new(MockHabitRepo)
		queue := &recordingQueue{}
		svc := services.NewHabitService(repo, queue)
		dbErr := errors.New("db down")

		repo.On("Create", ctx, mock.Anything).Return(dbErr)

		_, err := svc.Create(ctx, services.CreateHabitInput{UserID: "user-1", Title: "Read"})

		assert.ErrorIs(t, err, dbErr)
		assert.Empty(t, queue.Jobs())
	})
}

func TestHabitService_Update(t *testing.T) {
	ctx := context.Background()

	existing := func() *domain.Habit {
		return &domain.Habit{ID: "h1", UserID: "owner", Title: "Read", Description: "pages", Color: "#FF0000"}
	}

	t.Run("Partial update merges fields", func(t *testing.T) {
		repo := new(MockHabitRepo)
		queue := &recordingQueue{}
		svc := services.NewHabitService(repo, queue)

		repo.On("GetByID", ctx, "h1").Return(existing(), nil)
		repo.On("Update", ctx, mock.MatchedBy(func(h *domain.Habit) bool {
			return h.Title == "Read" && h.Description == "pages" && h.Color == "#00FF00"
		})).Return(nil)

		habit, err := svc.Update(ctx, services.UpdateHabitInput{ID: "h1", UserID: "owner", Color: "#00FF00"})

		require.NoError(t, err)
		assert.Equal(t, "#00FF00", habit.Color)
		assert.Equal(t, []string{"owner"}, queue.Jobs())
		repo.AssertExpectations(t)
	})

	t.Run("Foreign habit looks missing", func(t *testing.T) {
		repo := new(MockHabitRepo)
		svc := services.NewHabitService(repo, nil)

		repo.On("GetByID", ctx, "h1").Return(existing(), nil)

		_, err := svc.Update(ctx, services.UpdateHabitInput{ID: "h1", UserID: "intruder", Title: "Mine"})

		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Invalid color rejected", func(t *testing.T) {
		repo := new(MockHabitRepo)
		svc := services.NewHabitService(repo, nil)

		repo.On("GetByID", ctx, "h1").Return(existing(), nil)

		_, err := svc.Update(ctx, services.UpdateHabitInput{ID: "h1", UserID: "owner", Color: "red"})
		assert.ErrorIs(t, err, domain.ErrInvalidColor)
	})
}

func TestHabitService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Owner can delete", func(t *testing.T) {
		repo := new(MockHabitRepo)
		queue := &recordingQueue{}
		svc := services.NewHabitService(repo, queue)

		repo.On("GetByID", ctx, "h1").Return(&domain.Habit{ID: "h1", UserID: "owner"}, nil)
		repo.On("Delete", ctx, "h1").Return(nil)

		require.NoError(t, svc.Delete(ctx, "h1", "owner"))
		assert.Equal(t, []string{"owner"}, queue.Jobs())
		repo.AssertExpectations(t)
	})

	t.Run("Missing habit", func(t *testing.T) {
		repo := new(MockHabitRepo)
		svc := services.NewHabitService(repo, nil)

		repo.On("GetByID", ctx, "nope").Return(nil, domain.ErrHabitNotFound)

		assert.ErrorIs(t, svc.Delete(ctx, "nope", "owner"), domain.ErrHabitNotFound)
	})
}
