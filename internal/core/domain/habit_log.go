package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidDayKey = errors.New("invalid date format (must be YYYY-MM-DD)")
	ErrNoteTooLong   = errors.New("note is too long (max 1000 chars)")
)

const (
	DayKeyLayout = "2006-01-02"
	MaxNoteLen   = 1000
)

var dayKeyRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseDayKey parses a strict YYYY-MM-DD key into UTC midnight of that day.
// time.Parse alone accepts signed years, so the shape is checked first.
func ParseDayKey(s string) (time.Time, error) {
	if !dayKeyRegex.MatchString(s) {
		return time.Time{}, ErrInvalidDayKey
	}
	t, err := time.Parse(DayKeyLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDayKey
	}
	return t, nil
}

// HabitLog marks one habit as completed on one calendar day.
// CompletedAt is a day key in YYYY-MM-DD form, never a timestamp.
type HabitLog struct {
	ID          string    `json:"id" db:"id"`
	HabitID     string    `json:"habit_id" db:"habit_id"`
	UserID      string    `json:"user_id" db:"user_id"`
	CompletedAt string    `json:"completed_at" db:"completed_at"`
	Notes       string    `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

func NewHabitLog(habitID, userID, day string) *HabitLog {
	now := time.Now().UTC()

	return &HabitLog{
		ID:          uuid.NewString(),
		HabitID:     habitID,
		UserID:      userID,
		CompletedAt: day,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (l *HabitLog) Validate() error {
	if strings.TrimSpace(l.HabitID) == "" {
		return errors.New("habit_id is required")
	}
	if strings.TrimSpace(l.UserID) == "" {
		return errors.New("user_id is required")
	}
	if _, err := ParseDayKey(l.CompletedAt); err != nil {
		return err
	}
	if len(l.Notes) > MaxNoteLen {
		return ErrNoteTooLong
	}
	return nil
}
