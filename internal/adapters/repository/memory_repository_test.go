package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/comitanigiacomo/habittrack/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryHabitRepository(t *testing.T) {
	ctx := context.Background()
	logs := NewInMemoryHabitLogRepository()
	repo := NewInMemoryHabitRepository(logs)

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	older := &domain.Habit{ID: "b", UserID: "u1", Title: "Older", CreatedAt: base}
	newer := &domain.Habit{ID: "a", UserID: "u1", Title: "Newer", CreatedAt: base.Add(time.Hour)}
	foreign := &domain.Habit{ID: "c", UserID: "u2", Title: "Foreign", CreatedAt: base}

	for _, h := range []*domain.Habit{newer, older, foreign} {
		require.NoError(t, repo.Create(ctx, h))
	}

	t.Run("List In Creation Order", func(t *testing.T) {
		habits, err := repo.ListByUserID(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, habits, 2)
		assert.Equal(t, "b", habits[0].ID)
		assert.Equal(t, "a", habits[1].ID)
	})

	t.Run("Returned Habits Are Copies", func(t *testing.T) {
		got, err := repo.GetByID(ctx, "a")
		require.NoError(t, err)
		got.Title = "Mutated"

		again, err := repo.GetByID(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "Newer", again.Title)
	})

	t.Run("Update Unknown", func(t *testing.T) {
		ghost := &domain.Habit{ID: "ghost", UserID: "u1"}
		assert.ErrorIs(t, repo.Update(ctx, ghost), domain.ErrHabitNotFound)
	})

	t.Run("Delete Cascades", func(t *testing.T) {
		require.NoError(t, logs.Create(ctx, domain.NewHabitLog("a", "u1", "2024-03-02")))
		require.NoError(t, logs.Create(ctx, domain.NewHabitLog("b", "u1", "2024-03-02")))

		require.NoError(t, repo.Delete(ctx, "a"))

		count, err := logs.CountByUserID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		assert.ErrorIs(t, repo.Delete(ctx, "a"), domain.ErrHabitNotFound)
	})
}

func TestInMemoryHabitLogRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryHabitLogRepository()

	first := domain.NewHabitLog("h1", "u1", "2024-03-10")
	require.NoError(t, repo.Create(ctx, first))

	t.Run("Duplicate Day Rejected", func(t *testing.T) {
		err := repo.Create(ctx, domain.NewHabitLog("h1", "u1", "2024-03-10"))
		assert.ErrorIs(t, err, domain.ErrLogAlreadyExists)
	})

	t.Run("Find", func(t *testing.T) {
		got, err := repo.Find(ctx, "h1", "2024-03-10")
		require.NoError(t, err)
		assert.Equal(t, first.ID, got.ID)

		_, err = repo.Find(ctx, "h1", "2024-03-11")
		assert.ErrorIs(t, err, domain.ErrLogNotFound)
	})

	t.Run("Upsert Note", func(t *testing.T) {
		note := domain.NewHabitLog("h1", "u1", "2024-03-10")
		note.Notes = "good"
		require.NoError(t, repo.UpsertNote(ctx, note))
		assert.Equal(t, first.ID, note.ID)

		fresh := domain.NewHabitLog("h1", "u1", "2024-03-11")
		fresh.Notes = "new"
		require.NoError(t, repo.UpsertNote(ctx, fresh))

		count, err := repo.CountByUserID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, first.ID))
		assert.ErrorIs(t, repo.Delete(ctx, first.ID), domain.ErrLogNotFound)
	})

	t.Run("Concurrent Creates Keep One Log Per Day", func(t *testing.T) {
		var wg sync.WaitGroup
		errs := make(chan error, 20)
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- repo.Create(ctx, domain.NewHabitLog("h2", "u2", "2024-03-10"))
			}()
		}
		wg.Wait()
		close(errs)

		ok := 0
		for err := range errs {
			if err == nil {
				ok++
			}
		}
		assert.Equal(t, 1, ok)
	})
}

func TestInMemoryProfileRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryProfileRepository()

	assert.ErrorIs(t, repo.SetFriendCode(ctx, "u1", "AAAA1111"), domain.ErrProfileNotFound)

	require.NoError(t, repo.Upsert(ctx, domain.NewProfile("u1")))
	require.NoError(t, repo.Upsert(ctx, domain.NewProfile("u2")))

	require.NoError(t, repo.SetFriendCode(ctx, "u1", "AAAA1111"))
	assert.ErrorIs(t, repo.SetFriendCode(ctx, "u2", "AAAA1111"), domain.ErrFriendCodeTaken)

	got, err := repo.GetByFriendCode(ctx, "AAAA1111")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)

	require.NoError(t, repo.Upsert(ctx, domain.NewProfile("u1")))
	kept, err := repo.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, kept.FriendCode)
	assert.Equal(t, "AAAA1111", *kept.FriendCode)

	_, err = repo.GetByFriendCode(ctx, "ZZZZ9999")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestInMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryUserRepository()

	u1, err := domain.NewUser("u1", "one@habittrack.app")
	require.NoError(t, err)
	u2, err := domain.NewUser("u2", "two@habittrack.app")
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, u1))
	require.NoError(t, repo.Create(ctx, u2))

	dup, err := domain.NewUser("u3", "ONE@habittrack.app")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrEmailAlreadyExists)

	assert.ErrorIs(t, repo.UpdateEmail(ctx, "u2", "one@habittrack.app"), domain.ErrEmailAlreadyExists)
	require.NoError(t, repo.UpdateEmail(ctx, "u2", "deux@habittrack.app"))
	require.NoError(t, repo.UpdatePassword(ctx, "u2", "hash"))

	got, err := repo.GetByEmail(ctx, "deux@habittrack.app")
	require.NoError(t, err)
	assert.Equal(t, "u2", got.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	_, err = repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.ErrorIs(t, repo.UpdatePassword(ctx, "nope", "x"), domain.ErrUserNotFound)
}
