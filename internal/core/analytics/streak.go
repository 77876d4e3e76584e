package analytics

import (
	"sort"
	"time"

	"github.com/comitanigiacomo/habittrack/internal/core/domain"
)

// DaySet holds the distinct valid day keys on which something happened.
type DaySet map[DayKey]struct{}

func (s DaySet) Has(day DayKey) bool {
	_, ok := s[day]
	return ok
}

func (s DaySet) Add(day DayKey) {
	if IsValidDayKey(day) {
		s[day] = struct{}{}
	}
}

// DaysByHabit returns one day set per habit, empty for habits without logs.
// Logs of habits not in the list and malformed day keys are skipped.
func DaysByHabit(habits []*domain.Habit, logs []*domain.HabitLog) map[string]DaySet {
	days := make(map[string]DaySet, len(habits))
	for _, h := range habits {
		if h != nil {
			days[h.ID] = make(DaySet)
		}
	}
	for _, l := range logs {
		if l == nil {
			continue
		}
		if set, ok := days[l.HabitID]; ok {
			set.Add(l.CompletedAt)
		}
	}
	return days
}

// CurrentStreak counts consecutive completed days ending today, or ending
// yesterday when today has not been logged yet.
func CurrentStreak(days DaySet, now time.Time, loc *time.Location) int {
	return CurrentStreakWithin(days, now, loc, 0)
}

// CurrentStreakWithin is CurrentStreak limited to the last window days,
// today included. A window <= 0 means no limit.
func CurrentStreakWithin(days DaySet, now time.Time, loc *time.Location, window int) int {
	if len(days) == 0 {
		return 0
	}

	today := ToDayKey(now, loc)
	oldest := ""
	if window > 0 {
		oldest = ShiftDays(today, -(window - 1))
	}

	start := today
	if !days.Has(start) {
		start = ShiftDays(today, -1)
		if !days.Has(start) {
			return 0
		}
	}

	streak := 0
	for day := start; days.Has(day); day = ShiftDays(day, -1) {
		if oldest != "" && day < oldest {
			break
		}
		streak++
	}
	return streak
}

// DistinctHabitsPerDay counts, for every valid day, how many different
// habits were completed on it.
func DistinctHabitsPerDay(logs []*domain.HabitLog) map[DayKey]int {
	seen := make(map[string]struct{})
	perDay := make(map[DayKey]int)

	for _, l := range logs {
		if l == nil || !IsValidDayKey(l.CompletedAt) {
			continue
		}
		pair := l.HabitID + "|" + l.CompletedAt
		if _, dup := seen[pair]; dup {
			continue
		}
		seen[pair] = struct{}{}
		perDay[l.CompletedAt]++
	}
	return perDay
}

// PerfectDayStreak counts consecutive days on which every one of the
// habitCount habits was completed.
//
// The anchor is the first perfect day among tomorrow, today and yesterday.
// Looking one day ahead and one behind absorbs a clock that disagrees with
// the user about the current date. It is an approximation: an offset larger
// than a day, or an evaluation right at midnight, can still misplace it.
func PerfectDayStreak(habitCount int, perDay map[DayKey]int, now time.Time, loc *time.Location) int {
	if habitCount <= 0 || len(perDay) == 0 {
		return 0
	}

	perfect := func(day DayKey) bool {
		return perDay[day] == habitCount
	}

	today := ToDayKey(now, loc)
	anchor := ""
	for _, candidate := range []DayKey{ShiftDays(today, 1), today, ShiftDays(today, -1)} {
		if perfect(candidate) {
			anchor = candidate
			break
		}
	}
	if anchor == "" {
		return 0
	}

	streak := 0
	for day := anchor; perfect(day); day = ShiftDays(day, -1) {
		streak++
	}
	return streak
}

// LongestStreak returns the longest run of consecutive days in the set.
func LongestStreak(days DaySet) int {
	if len(days) == 0 {
		return 0
	}

	sorted := make([]DayKey, 0, len(days))
	for d := range days {
		sorted = append(sorted, d)
	}
	sort.Strings(sorted)

	longest, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		if ShiftDays(sorted[i-1], 1) == sorted[i] {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}
