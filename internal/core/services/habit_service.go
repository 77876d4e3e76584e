package services

import (
	"context"
	"fmt"

	"github.com/comitanigiacomo/habittrack/internal/core/domain"
)

// RefreshQueue schedules a background recompute of a user's dashboard.
type RefreshQueue interface {
	Enqueue(userID string)
}

type noopQueue struct{}

func (noopQueue) Enqueue(string) {}

func queueOrNoop(q RefreshQueue) RefreshQueue {
	if q == nil {
		return noopQueue{}
	}
	return q
}

type HabitService struct {
	repo  domain.HabitRepository
	queue RefreshQueue
}

func NewHabitService(repo domain.HabitRepository, queue RefreshQueue) *HabitService {
	return &HabitService{
		repo:  repo,
		queue: queueOrNoop(queue),
	}
}

type CreateHabitInput struct {
	UserID      string
	Title       string
	Description string
	Color       string
}

type UpdateHabitInput struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Color       string
}

func mergeString(newVal, oldVal string) string {
	if newVal == "" {
		return oldVal
	}
	return newVal
}

func (s *HabitService) Create(ctx context.Context, input CreateHabitInput) (*domain.Habit, error) {
	habit, err := domain.NewHabit(input.UserID, input.Title, input.Description, input.Color)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, fmt.Errorf("habit service: create: %w", err)
	}

	s.queue.Enqueue(habit.UserID)
	return habit, nil
}

func (s *HabitService) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// GetOwned returns the habit only when it belongs to userID. Someone else's
// habit is reported as not found.
func (s *HabitService) GetOwned(ctx context.Context, id, userID string) (*domain.Habit, error) {
	habit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func (s *HabitService) Update(ctx context.Context, input UpdateHabitInput) (*domain.Habit, error) {
	habit, err := s.GetOwned(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	title := mergeString(input.Title, habit.Title)
	desc := mergeString(input.Description, habit.Description)

	if err := habit.Update(title, desc, input.Color); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, fmt.Errorf("habit service: update: %w", err)
	}

	s.queue.Enqueue(habit.UserID)
	return habit, nil
}

func (s *HabitService) Delete(ctx context.Context, id string, userID string) error {
	if _, err := s.GetOwned(ctx, id, userID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.queue.Enqueue(userID)
	return nil
}
