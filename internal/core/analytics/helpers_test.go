package analytics_test

import (
	"time"

	"github.com/comitanigiacomo/habittrack/internal/core/analytics"
	"github.com/comitanigiacomo/habittrack/internal/core/domain"
)

// Wednesday.
var refNow = time.Date(2024, time.March, 13, 12, 0, 0, 0, time.UTC)

const refToday = "2024-03-13"

type (
	domainLog   = domain.HabitLog
	domainHabit = domain.Habit
)

func habit(id, title string) *domain.Habit {
	return &domain.Habit{ID: id, UserID: "u1", Title: title, Color: domain.DefaultColor}
}

func logOn(habitID, day string) *domain.HabitLog {
	return &domain.HabitLog{ID: habitID + "-" + day, HabitID: habitID, UserID: "u1", CompletedAt: day}
}

// logsBack returns logs of habitID for each offset relative to refToday.
func logsBack(habitID string, offsets ...int) []*domain.HabitLog {
	out := make([]*domain.HabitLog, 0, len(offsets))
	for _, o := range offsets {
		out = append(out, logOn(habitID, refNow.AddDate(0, 0, -o).Format(domain.DayKeyLayout)))
	}
	return out
}

func concat(parts ...[]*domain.HabitLog) []*domain.HabitLog {
	var out []*domain.HabitLog
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func daysOf(logs []*domain.HabitLog, habitID string) analytics.DaySet {
	return analytics.DaysByHabit([]*domain.Habit{habit(habitID, "")}, logs)[habitID]
}
