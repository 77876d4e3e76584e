package analytics

import (
	"fmt"
	"strings"

	"github.com/comitanigiacomo/habittrack/internal/core/domain"
)

const (
	RuleTopStreak   = "top-streak"
	RuleWeekendBias = "weekend-bias"
	RuleInactivity  = "inactivity"
	RuleFallback    = "fallback"

	TopStreakWindow    = 30
	TopStreakThreshold = 3
	InactivityDays     = 3
)

const (
	weekendWarriorPrefix = "Weekend Warrior: "
	weekendBreakPrefix   = "Don't let weekends break "
)

// Rule is one independent insight heuristic. Evaluate must be pure: it sees
// the prepared input and what earlier rules produced, and returns the
// insights it wants to append.
type Rule struct {
	Name     string
	Evaluate func(in *Input, produced []domain.Insight) []domain.Insight
}

// DefaultRules returns the rules in priority order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: RuleTopStreak, Evaluate: topStreak},
		{Name: RuleWeekendBias, Evaluate: weekendBias},
		{Name: RuleInactivity, Evaluate: inactivity},
		{Name: RuleFallback, Evaluate: fallback},
	}
}

func topStreak(in *Input, _ []domain.Insight) []domain.Insight {
	var best *domain.Habit
	bestStreak := 0

	for _, h := range in.Habits {
		s := CurrentStreakWithin(in.Days(h.ID), in.Now, in.Location, TopStreakWindow)
		// Ties go to the earliest created habit.
		if best == nil || s > bestStreak {
			best, bestStreak = h, s
		}
	}

	if best == nil || bestStreak < TopStreakThreshold {
		return nil
	}
	return []domain.Insight{{
		Category:    domain.InsightPositive,
		Title:       fmt.Sprintf("%s is on fire!", best.Title),
		Description: fmt.Sprintf("You've maintained a %d day streak. You're becoming a pro at this!", bestStreak),
		Rule:        RuleTopStreak,
	}}
}

func weekendBias(in *Input, produced []domain.Insight) []domain.Insight {
	warrior := hasTitlePrefix(produced, weekendWarriorPrefix)
	breaking := hasTitlePrefix(produced, weekendBreakPrefix)

	var out []domain.Insight
	for _, h := range in.Habits {
		weekend, weekday := 0, 0
		for day := range in.Days(h.ID) {
			if IsWeekend(day) {
				weekend++
			} else {
				weekday++
			}
		}

		if weekend > weekday*2 && weekday > 0 {
			if !warrior {
				warrior = true
				out = append(out, domain.Insight{
					Category:    domain.InsightInfo,
					Title:       weekendWarriorPrefix + h.Title,
					Description: "You're much more active with this on weekends. Try setting a weekday alarm to stay consistent!",
					Rule:        RuleWeekendBias,
				})
			}
		} else if weekday > weekend*2 && weekend == 0 && weekday > 3 {
			if !breaking {
				breaking = true
				out = append(out, domain.Insight{
					Category:    domain.InsightWarning,
					Title:       weekendBreakPrefix + h.Title,
					Description: "You're consistent on workdays, but missing weekends. Try a smaller version of this habit on Sundays.",
					Rule:        RuleWeekendBias,
				})
			}
		}
	}
	return out
}

// inactivity looks at completions dated today-3 or later. Future-dated logs
// count as recent activity.
func inactivity(in *Input, _ []domain.Insight) []domain.Insight {
	if len(in.Habits) == 0 {
		return nil
	}

	since := ShiftDays(in.Today, -InactivityDays)
	for _, l := range in.Logs {
		if l != nil && IsValidDayKey(l.CompletedAt) && l.CompletedAt >= since {
			return nil
		}
	}

	return []domain.Insight{{
		Category:    domain.InsightWarning,
		Title:       "Time to reconnect?",
		Description: "You haven't logged any habits for a few days. Even 1 minute counts. Start small today!",
		Rule:        RuleInactivity,
	}}
}

func fallback(_ *Input, produced []domain.Insight) []domain.Insight {
	if len(produced) >= MaxInsights {
		return nil
	}
	return []domain.Insight{{
		Category:    domain.InsightInfo,
		Title:       "Consistency is key",
		Description: "The best way to build a habit is to never miss two days in a row. You're doing great!",
		Rule:        RuleFallback,
	}}
}

func hasTitlePrefix(insights []domain.Insight, prefix string) bool {
	for _, i := range insights {
		if strings.HasPrefix(i.Title, prefix) {
			return true
		}
	}
	return false
}
