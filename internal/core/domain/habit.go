package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrHabitTitleEmpty    = errors.New("habit title cannot be empty")
	ErrHabitTitleTooLong  = errors.New("habit title is too long (max 100 chars)")
	ErrHabitDescTooLong   = errors.New("habit description is too long (max 500 chars)")
	ErrHabitInvalidUserID = errors.New("invalid user id")
	ErrInvalidColor       = errors.New("invalid color format (must be #RRGGBB)")
)

var colorRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

const (
	DefaultColor = "#6366F1"
	MaxTitleLen  = 100
	MaxDescLen   = 500
)

type Habit struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description,omitempty" db:"description"`
	Color       string    `json:"color" db:"color"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

func validateHabitFields(title, desc, color string) (string, string, error) {
	trimmedTitle := strings.TrimSpace(title)
	if trimmedTitle == "" {
		return "", "", ErrHabitTitleEmpty
	}
	if len(trimmedTitle) > MaxTitleLen {
		return "", "", ErrHabitTitleTooLong
	}

	trimmedDesc := strings.TrimSpace(desc)
	if len(trimmedDesc) > MaxDescLen {
		return "", "", ErrHabitDescTooLong
	}

	if color != "" && !colorRegex.MatchString(color) {
		return "", "", ErrInvalidColor
	}

	return trimmedTitle, trimmedDesc, nil
}

func NewHabit(userID, title, description, color string) (*Habit, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrHabitInvalidUserID
	}

	cleanTitle, cleanDesc, err := validateHabitFields(title, description, color)
	if err != nil {
		return nil, err
	}

	if color == "" {
		color = DefaultColor
	}

	now := time.Now().UTC()

	return &Habit{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       cleanTitle,
		Description: cleanDesc,
		Color:       color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Update replaces the editable fields. An empty color keeps the current one.
func (h *Habit) Update(title, description, color string) error {
	cleanTitle, cleanDesc, err := validateHabitFields(title, description, color)
	if err != nil {
		return err
	}

	if color == "" {
		color = h.Color
	}

	h.Title = cleanTitle
	h.Description = cleanDesc
	h.Color = color
	h.UpdatedAt = time.Now().UTC()

	return nil
}
