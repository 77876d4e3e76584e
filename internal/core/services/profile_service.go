package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/comitanigiacomo/habittrack/internal/core/domain"
)

const friendCodeAttempts = 5

type ProfileService struct {
	repo            domain.ProfileRepository
	defaultTimezone string
	queue           RefreshQueue
}

func NewProfileService(repo domain.ProfileRepository, defaultTimezone string, queue RefreshQueue) *ProfileService {
	if defaultTimezone == "" {
		defaultTimezone = domain.DefaultTimezone
	}
	return &ProfileService{
		repo:            repo,
		defaultTimezone: defaultTimezone,
		queue:           queueOrNoop(queue),
	}
}

type UpdateProfileInput struct {
	UserID    string
	FullName  string
	AvatarURL string
	Timezone  string
}

// Get returns the stored profile, or an unsaved default one for users who
// never edited it.
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		profile = domain.NewProfile(userID)
		profile.Timezone = s.defaultTimezone
		return profile, nil
	}
	if err != nil {
		return nil, fmt.Errorf("profile service: get: %w", err)
	}
	return profile, nil
}

func (s *ProfileService) Update(ctx context.Context, input UpdateProfileInput) (*domain.Profile, error) {
	profile, err := s.Get(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	oldTimezone := profile.Timezone
	if err := profile.Apply(input.FullName, input.AvatarURL, input.Timezone); err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("profile service: upsert: %w", err)
	}

	// The evaluation day depends on the timezone.
	if profile.Timezone != oldTimezone {
		s.queue.Enqueue(profile.UserID)
	}
	return profile, nil
}

// FriendCode returns the user's share code, creating one on first use.
func (s *ProfileService) FriendCode(ctx context.Context, userID string) (string, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		// The code lives on the profile row, so store the defaults first.
		profile = domain.NewProfile(userID)
		profile.Timezone = s.defaultTimezone
		if err := s.repo.Upsert(ctx, profile); err != nil {
			return "", fmt.Errorf("profile service: upsert: %w", err)
		}
	case err != nil:
		return "", fmt.Errorf("profile service: get: %w", err)
	}

	if profile.FriendCode != nil && *profile.FriendCode != "" {
		return *profile.FriendCode, nil
	}

	for i := 0; i < friendCodeAttempts; i++ {
		code := domain.NewFriendCode()
		err := s.repo.SetFriendCode(ctx, userID, code)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, domain.ErrFriendCodeTaken) {
			return "", fmt.Errorf("profile service: set friend code: %w", err)
		}
	}
	return "", fmt.Errorf("profile service: %w after %d attempts", domain.ErrFriendCodeTaken, friendCodeAttempts)
}

func (s *ProfileService) ResolveFriendCode(ctx context.Context, code string) (*domain.Profile, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != domain.FriendCodeLen {
		return nil, domain.ErrProfileNotFound
	}
	return s.repo.GetByFriendCode(ctx, code)
}
