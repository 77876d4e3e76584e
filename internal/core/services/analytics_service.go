package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/habittrack/internal/core/analytics"
	"github.com/comitanigiacomo/habittrack/internal/core/domain"
)

type AnalyticsService struct {
	habitRepo domain.HabitRepository
	logRepo   domain.HabitLogRepository
	profiles  *ProfileService
	cache     domain.SummaryCache
	logger    *zap.Logger
	now       func() time.Time
}

// NewAnalyticsService wires the engine to storage. cache may be nil.
func NewAnalyticsService(
	habitRepo domain.HabitRepository,
	logRepo domain.HabitLogRepository,
	profiles *ProfileService,
	cache domain.SummaryCache,
	logger *zap.Logger,
) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{
		habitRepo: habitRepo,
		logRepo:   logRepo,
		profiles:  profiles,
		cache:     cache,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *AnalyticsService) SetClock(now func() time.Time) {
	s.now = now
}

type userSnapshot struct {
	profile *domain.Profile
	habits  []*domain.Habit
	logs    []*domain.HabitLog
	snap    *analytics.Snapshot
}

func (s *AnalyticsService) load(ctx context.Context, userID string) (*userSnapshot, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	habits, err := s.habitRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("analytics service: list habits: %w", err)
	}

	logs, err := s.logRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("analytics service: list logs: %w", err)
	}

	return &userSnapshot{
		profile: profile,
		habits:  habits,
		logs:    logs,
		snap:    analytics.NewSnapshot(habits, logs, s.now(), profile.Location()),
	}, nil
}

// ComputeSummary rebuilds the dashboard from storage, bypassing the cache.
func (s *AnalyticsService) ComputeSummary(ctx context.Context, userID string) (*domain.DashboardSummary, error) {
	us, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &domain.DashboardSummary{
		UserID:           userID,
		Today:            us.snap.Today(),
		Timezone:         us.profile.Location().String(),
		TotalHabits:      len(us.habits),
		TotalCompletions: len(us.logs),
		GlobalStreak:     us.snap.GlobalPerfectDayStreak(),
		HabitStreaks:     us.snap.HabitStreaks(),
		Insights:         us.snap.Insights(),
		GeneratedAt:      s.now().UTC(),
		HabitSet:         domain.HabitSetKey(us.habits),
	}, nil
}

// Dashboard serves the cached summary only while it still describes storage:
// same timezone and day, same completion count and the same habit set.
// Anything else recomputes, so a lost or late worker refresh never leaves a
// stale dashboard behind.
func (s *AnalyticsService) Dashboard(ctx context.Context, userID string) (*domain.DashboardSummary, error) {
	if cached := s.cachedSummary(ctx, userID); cached != nil {
		return cached, nil
	}

	summary, err := s.ComputeSummary(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, summary); err != nil {
			s.logger.Warn("[CACHE] failed to store summary", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return summary, nil
}

func (s *AnalyticsService) cachedSummary(ctx context.Context, userID string) *domain.DashboardSummary {
	if s.cache == nil {
		return nil
	}

	cached, err := s.cache.Get(ctx, userID)
	if err != nil || cached == nil {
		return nil
	}

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil
	}
	loc := profile.Location()
	if cached.Timezone != loc.String() || cached.Today != analytics.ToDayKey(s.now(), loc) {
		return nil
	}

	count, err := s.logRepo.CountByUserID(ctx, userID)
	if err != nil || count != cached.TotalCompletions {
		return nil
	}

	habits, err := s.habitRepo.ListByUserID(ctx, userID)
	if err != nil || domain.HabitSetKey(habits) != cached.HabitSet {
		return nil
	}

	s.logger.Debug("[CACHE] summary hit", zap.String("user_id", userID))
	return cached
}

func (s *AnalyticsService) HabitStreak(ctx context.Context, userID, habitID string) (*domain.HabitStreak, error) {
	us, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, hs := range us.snap.HabitStreaks() {
		if hs.HabitID == habitID {
			return &hs, nil
		}
	}
	return nil, domain.ErrHabitNotFound
}

// Heatmap returns the year grid. year <= 0 means the current year in the
// user's timezone.
func (s *AnalyticsService) Heatmap(ctx context.Context, userID string, year int) ([]domain.HeatmapEntry, error) {
	us, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if year <= 0 {
		year = s.now().In(us.profile.Location()).Year()
	}
	return us.snap.Heatmap(year), nil
}

func (s *AnalyticsService) HabitsOn(ctx context.Context, userID, day string) ([]*domain.Habit, error) {
	if !analytics.IsValidDayKey(day) {
		return nil, domain.ErrInvalidDayKey
	}

	us, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return us.snap.HabitsOn(day), nil
}

func (s *AnalyticsService) Insights(ctx context.Context, userID string) ([]domain.Insight, error) {
	us, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return us.snap.Insights(), nil
}

func (s *AnalyticsService) Shared(ctx context.Context, code string) (*domain.SharedView, error) {
	owner, err := s.profiles.ResolveFriendCode(ctx, code)
	if err != nil {
		return nil, err
	}

	us, err := s.load(ctx, owner.UserID)
	if err != nil {
		return nil, err
	}

	// Notes stay private.
	logs := make([]*domain.HabitLog, 0, len(us.logs))
	for _, l := range us.logs {
		public := *l
		public.Notes = ""
		logs = append(logs, &public)
	}

	return &domain.SharedView{
		FullName:     owner.FullName,
		AvatarURL:    owner.AvatarURL,
		Habits:       us.habits,
		Logs:         logs,
		GlobalStreak: us.snap.GlobalPerfectDayStreak(),
		HabitStreaks: us.snap.HabitStreaks(),
	}, nil
}
