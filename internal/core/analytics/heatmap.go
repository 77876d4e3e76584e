package analytics

import (
	"fmt"

	"github.com/comitanigiacomo/habittrack/internal/core/domain"
)

const MaxIntensity = 4

// DailyCounts returns the number of distinct (habit, day) completions for
// every valid day. Duplicate logs of the same habit on the same day count once.
func DailyCounts(logs []*domain.HabitLog) map[DayKey]int {
	return DistinctHabitsPerDay(logs)
}

// MaxCount is the busiest day's count, never below 1.
func MaxCount(counts map[DayKey]int) int {
	max := 1
	for _, c := range counts {
		if c > max {
			max = c
		}
	}
	return max
}

// Intensity scales count into 0..4 relative to max: 0 only for an empty day,
// otherwise ceil(count*4/max) clamped to [1,4].
func Intensity(count, max int) int {
	if count <= 0 {
		return 0
	}
	if max < 1 {
		max = 1
	}

	level := (count*MaxIntensity + max - 1) / max
	if level < 1 {
		return 1
	}
	if level > MaxIntensity {
		return MaxIntensity
	}
	return level
}

// YearHeatmap returns one entry per day of year, January 1st first. Intensity
// is relative to the busiest day across the whole history.
func YearHeatmap(logs []*domain.HabitLog, year int) []domain.HeatmapEntry {
	if year < 0 || year > 9999 {
		return []domain.HeatmapEntry{}
	}

	counts := DailyCounts(logs)
	max := MaxCount(counts)

	n := DaysInYear(year)
	entries := make([]domain.HeatmapEntry, 0, n)

	day := fmt.Sprintf("%04d-01-01", year)
	for i := 0; i < n; i++ {
		c := counts[day]
		entries = append(entries, domain.HeatmapEntry{
			Day:       day,
			Count:     c,
			Intensity: Intensity(c, max),
		})
		day = ShiftDays(day, 1)
	}
	return entries
}

// HabitsOn lists the habits completed on day, in habit order, each once.
func HabitsOn(day DayKey, habits []*domain.Habit, logs []*domain.HabitLog) []*domain.Habit {
	result := make([]*domain.Habit, 0)
	if !IsValidDayKey(day) {
		return result
	}

	done := make(map[string]bool)
	for _, l := range logs {
		if l != nil && l.CompletedAt == day {
			done[l.HabitID] = true
		}
	}

	for _, h := range habits {
		if h != nil && done[h.ID] {
			result = append(result, h)
			delete(done, h.ID)
		}
	}
	return result
}
