package domain

import (
	"context"
	"errors"
)

var (
	ErrHabitNotFound    = errors.New("habit not found")
	ErrLogNotFound      = errors.New("habit log not found")
	ErrLogAlreadyExists = errors.New("habit already completed on this day")
	ErrUnauthorized     = errors.New("unauthorized")
)

type HabitRepository interface {
	// Create persists a new habit definition in the storage.
	Create(ctx context.Context, habit *Habit) error

	// GetByID retrieves a habit by its unique identifier.
	GetByID(ctx context.Context, id string) (*Habit, error)

	// ListByUserID retrieves all habits of a user in creation order.
	ListByUserID(ctx context.Context, userID string) ([]*Habit, error)

	// Update modifies the state of an existing habit.
	Update(ctx context.Context, habit *Habit) error

	// Delete permanently removes a habit and, through the storage cascade, its logs.
	Delete(ctx context.Context, id string) error
}

type HabitLogRepository interface {
	// Find returns the log of a habit on a given day key, or ErrLogNotFound.
	Find(ctx context.Context, habitID, day string) (*HabitLog, error)

	Create(ctx context.Context, log *HabitLog) error

	Delete(ctx context.Context, id string) error

	// UpsertNote creates the log if missing, otherwise replaces its notes.
	UpsertNote(ctx context.Context, log *HabitLog) error

	// ListByUserID returns every log of the user. No ordering is guaranteed.
	ListByUserID(ctx context.Context, userID string) ([]*HabitLog, error)

	CountByUserID(ctx context.Context, userID string) (int, error)
}

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	GetByFriendCode(ctx context.Context, code string) (*Profile, error)
	Upsert(ctx context.Context, profile *Profile) error

	// SetFriendCode stores the code; ErrFriendCodeTaken when another user owns it.
	SetFriendCode(ctx context.Context, userID, code string) error
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateEmail(ctx context.Context, id, email string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// SummaryCache keeps the last computed dashboard per user.
type SummaryCache interface {
	Get(ctx context.Context, userID string) (*DashboardSummary, error)
	Set(ctx context.Context, summary *DashboardSummary) error
	Delete(ctx context.Context, userID string) error
}

// ChangeFeed fans out "data changed" notifications to live clients.
type ChangeFeed interface {
	Publish(ctx context.Context, userID, event string) error
	Subscribe(ctx context.Context, userID string) (<-chan string, func(), error)
}
