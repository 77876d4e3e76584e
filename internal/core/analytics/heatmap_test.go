package analytics_test

import (
	"testing"

	"github.com/comitanigiacomo/habittrack/internal/core/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntensity(t *testing.T) {
	tests := []struct {
		name  string
		count int
		max   int
		want  int
	}{
		{"half of the busiest day", 3, 6, 2},
		{"Zero count", 0, 6, 0},
		{"Negative count", -2, 6, 0},
		{"Busiest day", 6, 6, 4},
		{"Smallest non zero rounds up", 1, 100, 1},
		{"Just above quarter", 26, 100, 2},
		{"Exactly half", 50, 100, 2},
		{"Above max is clamped", 9, 6, 4},
		{"Max below floor", 1, 0, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, analytics.Intensity(tt.count, tt.max))
		})
	}
}

func TestIntensity_Range(t *testing.T) {
	for max := 1; max <= 12; max++ {
		for count := 0; count <= max; count++ {
			got := analytics.Intensity(count, max)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 4)
			assert.Equal(t, count == 0, got == 0, "count=%d max=%d", count, max)
		}
	}
}

func TestMaxCount(t *testing.T) {
	assert.Equal(t, 1, analytics.MaxCount(nil))
	assert.Equal(t, 1, analytics.MaxCount(map[string]int{"2024-01-01": 0}))
	assert.Equal(t, 6, analytics.MaxCount(map[string]int{"2024-01-01": 6, "2024-01-02": 3}))
}

func TestYearHeatmap(t *testing.T) {
	t.Run("Covers every day in order", func(t *testing.T) {
		entries := analytics.YearHeatmap(nil, 2024)
		require.Len(t, entries, 366)
		assert.Equal(t, "2024-01-01", entries[0].Day)
		assert.Equal(t, "2024-02-29", entries[59].Day)
		assert.Equal(t, "2024-12-31", entries[365].Day)

		for _, e := range entries {
			assert.Zero(t, e.Count)
			assert.Zero(t, e.Intensity)
		}

		assert.Len(t, analytics.YearHeatmap(nil, 2023), 365)
	})

	t.Run("Scales against the whole history", func(t *testing.T) {
		logs := concat(
			[]*domainLog{logOn("a", "2023-06-01"), logOn("b", "2023-06-01"), logOn("c", "2023-06-01"), logOn("d", "2023-06-01")},
			[]*domainLog{logOn("a", "2024-01-02"), logOn("b", "2024-01-02")},
		)

		entries := analytics.YearHeatmap(logs, 2024)
		assert.Equal(t, 2, entries[1].Count)
		assert.Equal(t, 2, entries[1].Intensity)
	})

	t.Run("Duplicates and malformed keys", func(t *testing.T) {
		logs := []*domainLog{
			logOn("a", "2024-01-01"),
			logOn("a", "2024-01-01"),
			logOn("b", "2024-01-01"),
			logOn("c", "01/01/2024"),
			nil,
		}

		entries := analytics.YearHeatmap(logs, 2024)
		assert.Equal(t, 2, entries[0].Count)
		assert.Equal(t, 4, entries[0].Intensity)
	})
}

func TestHabitsOn(t *testing.T) {
	habits := []*domainHabit{habit("h1", "Read"), habit("h2", "Gym"), habit("h3", "Water")}
	logs := []*domainLog{
		logOn("h3", "2024-03-10"),
		logOn("h1", "2024-03-10"),
		logOn("h1", "2024-03-10"),
		logOn("h2", "2024-03-11"),
		logOn("ghost", "2024-03-10"),
	}

	got := analytics.HabitsOn("2024-03-10", habits, logs)
	require.Len(t, got, 2)
	assert.Equal(t, "h1", got[0].ID)
	assert.Equal(t, "h3", got[1].ID)

	assert.Empty(t, analytics.HabitsOn("2024-03-12", habits, logs))
	assert.Empty(t, analytics.HabitsOn("bad", habits, logs))
}
