package domain

import (
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

type InsightCategory string

const (
	InsightPositive InsightCategory = "positive"
	InsightWarning  InsightCategory = "warning"
	InsightInfo     InsightCategory = "info"
)

type Insight struct {
	Category    InsightCategory `json:"category"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Rule        string          `json:"rule"`
}

type HeatmapEntry struct {
	Day       string `json:"day"`
	Count     int    `json:"count"`
	Intensity int    `json:"intensity"`
}

type HabitStreak struct {
	HabitID string `json:"habit_id"`
	Title   string `json:"title"`
	Color   string `json:"color"`
	Current int    `json:"current_streak"`
	Longest int    `json:"longest_streak"`
}

type DashboardSummary struct {
	UserID           string        `json:"user_id"`
	Today            string        `json:"today"`
	Timezone         string        `json:"timezone"`
	TotalHabits      int           `json:"total_habits"`
	TotalCompletions int           `json:"total_completions"`
	GlobalStreak     int           `json:"global_streak"`
	HabitStreaks     []HabitStreak `json:"habits"`
	Insights         []Insight     `json:"insights"`
	GeneratedAt      time.Time     `json:"generated_at"`

	// HabitSet fingerprints the habits the summary was computed from.
	HabitSet string `json:"habit_set"`
}

// HabitSetKey changes whenever a habit is added, removed, reordered or
// edited.
func HabitSetKey(habits []*Habit) string {
	d := xxhash.New()
	for _, h := range habits {
		if h == nil {
			continue
		}
		_, _ = d.WriteString(h.ID)
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(h.Title)
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(h.Color)
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(strconv.FormatInt(h.UpdatedAt.UnixNano(), 10))
		_, _ = d.WriteString("\n")
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

// SharedView is the read-only progress page reached through a friend code.
type SharedView struct {
	FullName     string        `json:"full_name"`
	AvatarURL    string        `json:"avatar_url"`
	Habits       []*Habit      `json:"habits"`
	Logs         []*HabitLog   `json:"logs"`
	GlobalStreak int           `json:"global_streak"`
	HabitStreaks []HabitStreak `json:"streaks"`
}
