package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/comitanigiacomo/habittrack/internal/core/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ domain.HabitRepository = (*CachedHabitRepository)(nil)

const (
	habitListTTL       = 30 * time.Minute
	habitListKeyPrefix = "habits:"
)

// CachedHabitRepository keeps each user's habit list in Redis. Any write
// drops the list; reads fall through to next when Redis misbehaves.
type CachedHabitRepository struct {
	next   domain.HabitRepository
	cache  *redis.Client
	logger *zap.Logger
}

func NewCachedHabitRepository(next domain.HabitRepository, cache *redis.Client, logger *zap.Logger) *CachedHabitRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedHabitRepository{
		next:   next,
		cache:  cache,
		logger: logger,
	}
}

func habitListKey(userID string) string {
	return habitListKeyPrefix + userID
}

func (r *CachedHabitRepository) invalidate(ctx context.Context, userID string) {
	if err := r.cache.Del(ctx, habitListKey(userID)).Err(); err != nil {
		r.logger.Warn("[CACHE] failed to invalidate habit list", zap.String("user_id", userID), zap.Error(err))
	}
}

// readList reports a hit only for a well-formed entry. Corrupted entries are
// removed so the next write-through replaces them.
func (r *CachedHabitRepository) readList(ctx context.Context, userID string) ([]*domain.Habit, bool) {
	key := habitListKey(userID)

	raw, err := r.cache.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		r.logger.Warn("[CACHE] redis read error", zap.String("user_id", userID), zap.Error(err))
		return nil, false
	}

	var habits []*domain.Habit
	if err := json.Unmarshal(raw, &habits); err != nil {
		r.logger.Warn("[CACHE] corrupted habit list, cleaning up key", zap.String("user_id", userID))
		_ = r.cache.Del(ctx, key).Err()
		return nil, false
	}
	return habits, true
}

func (r *CachedHabitRepository) writeList(ctx context.Context, userID string, habits []*domain.Habit) {
	raw, err := json.Marshal(habits)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, habitListKey(userID), raw, habitListTTL).Err(); err != nil {
		r.logger.Warn("[CACHE] redis set error", zap.String("user_id", userID), zap.Error(err))
	}
}

func (r *CachedHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	if habits, ok := r.readList(ctx, userID); ok {
		return habits, nil
	}

	habits, err := r.next.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	r.writeList(ctx, userID, habits)
	return habits, nil
}

func (r *CachedHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	if err := r.next.Create(ctx, habit); err != nil {
		return err
	}
	r.invalidate(ctx, habit.UserID)
	return nil
}

func (r *CachedHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	if err := r.next.Update(ctx, habit); err != nil {
		return err
	}
	r.invalidate(ctx, habit.UserID)
	return nil
}

func (r *CachedHabitRepository) Delete(ctx context.Context, id string) error {
	habit, err := r.next.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, habit.UserID)
	return nil
}
