package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/comitanigiacomo/habittrack/internal/core/domain"
)

type LogService struct {
	repo      domain.HabitLogRepository
	habitRepo domain.HabitRepository
	queue     RefreshQueue
}

func NewLogService(repo domain.HabitLogRepository, habitRepo domain.HabitRepository, queue RefreshQueue) *LogService {
	return &LogService{
		repo:      repo,
		habitRepo: habitRepo,
		queue:     queueOrNoop(queue),
	}
}

type ToggleInput struct {
	HabitID string
	UserID  string
	Date    string
}

type NoteInput struct {
	HabitID string
	UserID  string
	Date    string
	Notes   string
}

func (s *LogService) checkOwnership(ctx context.Context, habitID, userID string) error {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return err
	}
	if habit.UserID != userID {
		return domain.ErrUnauthorized
	}
	return nil
}

// Toggle flips the completion of a habit on a day and reports whether the
// habit is now completed.
func (s *LogService) Toggle(ctx context.Context, input ToggleInput) (bool, error) {
	if _, err := domain.ParseDayKey(input.Date); err != nil {
		return false, err
	}
	if err := s.checkOwnership(ctx, input.HabitID, input.UserID); err != nil {
		return false, err
	}

	existing, err := s.repo.Find(ctx, input.HabitID, input.Date)
	switch {
	case err == nil:
		if err := s.repo.Delete(ctx, existing.ID); err != nil {
			return false, fmt.Errorf("log service: delete: %w", err)
		}
		s.queue.Enqueue(input.UserID)
		return false, nil

	case errors.Is(err, domain.ErrLogNotFound):
		log := domain.NewHabitLog(input.HabitID, input.UserID, input.Date)
		if err := s.repo.Create(ctx, log); err != nil {
			return false, fmt.Errorf("log service: create: %w", err)
		}
		s.queue.Enqueue(input.UserID)
		return true, nil

	default:
		return false, fmt.Errorf("log service: find: %w", err)
	}
}

// SaveNote attaches a note to a day, completing the habit on that day if it
// was not already.
func (s *LogService) SaveNote(ctx context.Context, input NoteInput) (*domain.HabitLog, error) {
	log := domain.NewHabitLog(input.HabitID, input.UserID, input.Date)
	log.Notes = input.Notes

	if err := log.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkOwnership(ctx, input.HabitID, input.UserID); err != nil {
		return nil, err
	}

	if err := s.repo.UpsertNote(ctx, log); err != nil {
		return nil, fmt.Errorf("log service: save note: %w", err)
	}

	s.queue.Enqueue(input.UserID)
	return log, nil
}

func (s *LogService) ListByUserID(ctx context.Context, userID string) ([]*domain.HabitLog, error) {
	return s.repo.ListByUserID(ctx, userID)
}
