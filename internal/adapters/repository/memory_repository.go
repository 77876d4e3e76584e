package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/comitanigiacomo/habittrack/internal/core/domain"
)

// The in-memory repositories back the "memory" storage driver and tests.
// They hand out copies so callers never share state with the store.

var (
	_ domain.HabitRepository    = (*InMemoryHabitRepository)(nil)
	_ domain.HabitLogRepository = (*InMemoryHabitLogRepository)(nil)
	_ domain.ProfileRepository  = (*InMemoryProfileRepository)(nil)
	_ domain.UserRepository     = (*InMemoryUserRepository)(nil)
)

type InMemoryHabitRepository struct {
	store map[string]domain.Habit
	logs  *InMemoryHabitLogRepository

	mu sync.RWMutex
}

// NewInMemoryHabitRepository cascades deletes into logs when it is not nil.
func NewInMemoryHabitRepository(logs *InMemoryHabitLogRepository) *InMemoryHabitRepository {
	return &InMemoryHabitRepository{
		store: make(map[string]domain.Habit),
		logs:  logs,
	}
}

func (r *InMemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[habit.ID] = *habit
	return nil
}

func (r *InMemoryHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habit, ok := r.store[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	return &habit, nil
}

func (r *InMemoryHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habits := make([]*domain.Habit, 0)
	for _, h := range r.store {
		if h.UserID == userID {
			h := h
			habits = append(habits, &h)
		}
	}

	sort.Slice(habits, func(i, j int) bool {
		if habits[i].CreatedAt.Equal(habits[j].CreatedAt) {
			return habits[i].ID < habits[j].ID
		}
		return habits[i].CreatedAt.Before(habits[j].CreatedAt)
	})

	return habits, nil
}

func (r *InMemoryHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[habit.ID]; !ok {
		return domain.ErrHabitNotFound
	}

	habit.UpdatedAt = time.Now().UTC()
	r.store[habit.ID] = *habit
	return nil
}

func (r *InMemoryHabitRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrHabitNotFound
	}

	delete(r.store, id)
	if r.logs != nil {
		r.logs.deleteByHabit(id)
	}
	return nil
}

type InMemoryHabitLogRepository struct {
	store map[string]domain.HabitLog

	mu sync.RWMutex
}

func NewInMemoryHabitLogRepository() *InMemoryHabitLogRepository {
	return &InMemoryHabitLogRepository{
		store: make(map[string]domain.HabitLog),
	}
}

func (r *InMemoryHabitLogRepository) findLocked(habitID, day string) (domain.HabitLog, bool) {
	for _, l := range r.store {
		if l.HabitID == habitID && l.CompletedAt == day {
			return l, true
		}
	}
	return domain.HabitLog{}, false
}

func (r *InMemoryHabitLogRepository) Find(ctx context.Context, habitID, day string) (*domain.HabitLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.findLocked(habitID, day)
	if !ok {
		return nil, domain.ErrLogNotFound
	}
	return &l, nil
}

func (r *InMemoryHabitLogRepository) Create(ctx context.Context, log *domain.HabitLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.findLocked(log.HabitID, log.CompletedAt); dup {
		return domain.ErrLogAlreadyExists
	}
	r.store[log.ID] = *log
	return nil
}

func (r *InMemoryHabitLogRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrLogNotFound
	}
	delete(r.store, id)
	return nil
}

func (r *InMemoryHabitLogRepository) UpsertNote(ctx context.Context, log *domain.HabitLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.findLocked(log.HabitID, log.CompletedAt); ok {
		existing.Notes = log.Notes
		existing.UpdatedAt = time.Now().UTC()
		r.store[existing.ID] = existing
		*log = existing
		return nil
	}

	r.store[log.ID] = *log
	return nil
}

func (r *InMemoryHabitLogRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.HabitLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	logs := make([]*domain.HabitLog, 0)
	for _, l := range r.store {
		if l.UserID == userID {
			l := l
			logs = append(logs, &l)
		}
	}
	return logs, nil
}

func (r *InMemoryHabitLogRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, l := range r.store {
		if l.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *InMemoryHabitLogRepository) deleteByHabit(habitID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, l := range r.store {
		if l.HabitID == habitID {
			delete(r.store, id)
		}
	}
}

type InMemoryProfileRepository struct {
	store map[string]domain.Profile

	mu sync.RWMutex
}

func NewInMemoryProfileRepository() *InMemoryProfileRepository {
	return &InMemoryProfileRepository{
		store: make(map[string]domain.Profile),
	}
}

func (r *InMemoryProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.store[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &p, nil
}

func (r *InMemoryProfileRepository) GetByFriendCode(ctx context.Context, code string) (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.store {
		if p.FriendCode != nil && *p.FriendCode == code {
			p := p
			return &p, nil
		}
	}
	return nil, domain.ErrProfileNotFound
}

func (r *InMemoryProfileRepository) Upsert(ctx context.Context, profile *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *profile
	if existing, ok := r.store[profile.UserID]; ok {
		stored.FriendCode = existing.FriendCode
	} else if profile.FriendCode != nil && r.codeTakenLocked(profile.UserID, *profile.FriendCode) {
		return domain.ErrFriendCodeTaken
	}

	r.store[profile.UserID] = stored
	return nil
}

func (r *InMemoryProfileRepository) SetFriendCode(ctx context.Context, userID, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.store[userID]
	if !ok {
		return domain.ErrProfileNotFound
	}
	if r.codeTakenLocked(userID, code) {
		return domain.ErrFriendCodeTaken
	}

	p.FriendCode = &code
	p.UpdatedAt = time.Now().UTC()
	r.store[userID] = p
	return nil
}

func (r *InMemoryProfileRepository) codeTakenLocked(userID, code string) bool {
	for owner, p := range r.store {
		if owner != userID && p.FriendCode != nil && *p.FriendCode == code {
			return true
		}
	}
	return false
}

type InMemoryUserRepository struct {
	store map[string]domain.User

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		store: make(map[string]domain.User),
	}
}

func (r *InMemoryUserRepository) emailTakenLocked(id, email string) bool {
	for _, u := range r.store {
		if u.ID != id && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTakenLocked(user.ID, user.Email) {
		return domain.ErrEmailAlreadyExists
	}
	r.store[user.ID] = *user
	return nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.store {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *InMemoryUserRepository) UpdateEmail(ctx context.Context, id, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.store[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if r.emailTakenLocked(id, email) {
		return domain.ErrEmailAlreadyExists
	}
	u.Email = email
	u.UpdatedAt = time.Now().UTC()
	r.store[id] = u
	return nil
}

func (r *InMemoryUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.store[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now().UTC()
	r.store[id] = u
	return nil
}
