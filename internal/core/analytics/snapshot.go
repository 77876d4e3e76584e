package analytics

import (
	"time"

	"github.com/comitanigiacomo/habittrack/internal/core/domain"
)

// Snapshot binds one consistent read of a user's habits and logs to an
// evaluation instant. Callers must not mutate the slices afterwards.
type Snapshot struct {
	input *Input
	rules []Rule
}

func NewSnapshot(habits []*domain.Habit, logs []*domain.HabitLog, now time.Time, loc *time.Location) *Snapshot {
	return &Snapshot{
		input: NewInput(habits, logs, now, loc),
		rules: DefaultRules(),
	}
}

func (s *Snapshot) Today() DayKey {
	return s.input.Today
}

func (s *Snapshot) CurrentDayStreak(habitID string) int {
	return CurrentStreak(s.input.Days(habitID), s.input.Now, s.input.Location)
}

func (s *Snapshot) LongestStreak(habitID string) int {
	return LongestStreak(s.input.Days(habitID))
}

// GlobalPerfectDayStreak only counts logs of habits in the snapshot, so
// orphaned logs never make a day look perfect.
func (s *Snapshot) GlobalPerfectDayStreak() int {
	perDay := make(map[DayKey]int)
	for _, h := range s.input.Habits {
		for day := range s.input.Days(h.ID) {
			perDay[day]++
		}
	}
	return PerfectDayStreak(len(s.input.Habits), perDay, s.input.Now, s.input.Location)
}

func (s *Snapshot) Heatmap(year int) []domain.HeatmapEntry {
	return YearHeatmap(s.input.Logs, year)
}

func (s *Snapshot) HabitsOn(day DayKey) []*domain.Habit {
	return HabitsOn(day, s.input.Habits, s.input.Logs)
}

func (s *Snapshot) Insights() []domain.Insight {
	return GenerateInsights(s.input, s.rules)
}

func (s *Snapshot) HabitStreaks() []domain.HabitStreak {
	out := make([]domain.HabitStreak, 0, len(s.input.Habits))
	for _, h := range s.input.Habits {
		out = append(out, domain.HabitStreak{
			HabitID: h.ID,
			Title:   h.Title,
			Color:   h.Color,
			Current: s.CurrentDayStreak(h.ID),
			Longest: s.LongestStreak(h.ID),
		})
	}
	return out
}
