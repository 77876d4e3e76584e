package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNameTooShort    = errors.New("name must be at least 2 characters")
	ErrInvalidTimezone = errors.New("invalid timezone")
	ErrFriendCodeTaken = errors.New("friend code already in use")
)

const (
	DefaultTimezone = "UTC"
	FriendCodeLen   = 8
)

type Profile struct {
	UserID     string    `json:"id" db:"user_id"`
	FullName   string    `json:"full_name" db:"full_name"`
	AvatarURL  string    `json:"avatar_url" db:"avatar_url"`
	FriendCode *string   `json:"friend_code,omitempty" db:"friend_code"`
	Timezone   string    `json:"timezone" db:"timezone"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

func NewProfile(userID string) *Profile {
	return &Profile{
		UserID:    userID,
		Timezone:  DefaultTimezone,
		UpdatedAt: time.Now().UTC(),
	}
}

// Apply updates only the non-empty fields, mirroring a partial form submit.
func (p *Profile) Apply(fullName, avatarURL, timezone string) error {
	fullName = strings.TrimSpace(fullName)
	if fullName != "" {
		if utf8.RuneCountInString(fullName) < 2 {
			return ErrNameTooShort
		}
		p.FullName = fullName
	}

	if avatarURL != "" {
		p.AvatarURL = avatarURL
	}

	if timezone != "" {
		if _, err := time.LoadLocation(timezone); err != nil {
			return ErrInvalidTimezone
		}
		p.Timezone = timezone
	}

	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Location resolves the profile timezone, falling back to UTC.
func (p *Profile) Location() *time.Location {
	if p == nil || p.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func NewFriendCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:FriendCodeLen])
}
