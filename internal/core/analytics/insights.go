package analytics

import (
	"time"

	"github.com/comitanigiacomo/habittrack/internal/core/domain"
)

const MaxInsights = 2

// Input is the prepared view every rule reads. Per-habit day sets are built
// once and shared between rules.
type Input struct {
	Habits   []*domain.Habit
	Logs     []*domain.HabitLog
	Now      time.Time
	Location *time.Location
	Today    DayKey

	days map[string]DaySet
}

func NewInput(habits []*domain.Habit, logs []*domain.HabitLog, now time.Time, loc *time.Location) *Input {
	loc = location(loc)

	kept := make([]*domain.Habit, 0, len(habits))
	for _, h := range habits {
		if h != nil {
			kept = append(kept, h)
		}
	}

	return &Input{
		Habits:   kept,
		Logs:     logs,
		Now:      now,
		Location: loc,
		Today:    ToDayKey(now, loc),
		days:     DaysByHabit(kept, logs),
	}
}

// Days returns the completion days of a habit. Unknown ids get an empty set.
func (in *Input) Days(habitID string) DaySet {
	if set, ok := in.days[habitID]; ok {
		return set
	}
	return DaySet{}
}

// GenerateInsights runs rules in order and keeps the first MaxInsights
// results. Without habits no rule runs and the result is empty.
func GenerateInsights(in *Input, rules []Rule) []domain.Insight {
	produced := make([]domain.Insight, 0, MaxInsights)
	if in == nil || len(in.Habits) == 0 {
		return produced
	}

	for _, r := range rules {
		if r.Evaluate == nil {
			continue
		}
		produced = append(produced, r.Evaluate(in, produced)...)
	}

	if len(produced) > MaxInsights {
		produced = produced[:MaxInsights]
	}
	return produced
}
