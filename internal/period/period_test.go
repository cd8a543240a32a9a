package period

import (
	"testing"
	"time"

	"github.com/rozabot/skladstat/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	// Среда, середина месяца
	now := time.Date(2024, 3, 13, 15, 42, 17, 0, time.Local)

	t.Run("Today", func(t *testing.T) {
		rng := Resolve(Today, now)
		assert.Equal(t, time.Date(2024, 3, 13, 0, 0, 0, 0, time.Local), rng.Start)
		assert.Equal(t, now, rng.End)
		assert.True(t, !rng.Start.After(rng.End))
	})

	t.Run("Week starts on Monday", func(t *testing.T) {
		rng := Resolve(Week, now)
		assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.Local), rng.Start)
		assert.Equal(t, time.Monday, rng.Start.Weekday())
		assert.Equal(t, now, rng.End)
	})

	t.Run("Week on Sunday goes back six days", func(t *testing.T) {
		sunday := time.Date(2024, 3, 17, 12, 0, 0, 0, time.Local)
		rng := Resolve(Week, sunday)
		assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.Local), rng.Start)
	})

	t.Run("Month", func(t *testing.T) {
		rng := Resolve(Month, now)
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local), rng.Start)
		assert.Equal(t, now, rng.End)
	})

	t.Run("Quarter", func(t *testing.T) {
		rng := Resolve(Quarter, now)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local), rng.Start)

		november := time.Date(2024, 11, 5, 10, 0, 0, 0, time.Local)
		rng = Resolve(Quarter, november)
		assert.Equal(t, time.Date(2024, 10, 1, 0, 0, 0, 0, time.Local), rng.Start)
	})

	t.Run("Year", func(t *testing.T) {
		rng := Resolve(Year, now)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local), rng.Start)
	})

	t.Run("Quick periods keep order", func(t *testing.T) {
		for _, k := range []Keyword{Today, Week, Month, Last7Days, Last30Days, Quarter, Year} {
			rng := Resolve(k, now)
			assert.True(t, !rng.Start.After(rng.End), "period %s", k)
		}
	})
}

func TestParseDate(t *testing.T) {
	expected := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
	}{
		{"Dotted full year", "31.01.2024"},
		{"Dotted short year", "31.01.24"},
		{"Slashes", "31/01/2024"},
		{"ISO", "2024-01-31"},
		{"Dashes", "31-01-2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, expected.Year(), got.Year())
			assert.Equal(t, expected.Month(), got.Month())
			assert.Equal(t, expected.Day(), got.Day())
		})
	}

	t.Run("Garbage rejected", func(t *testing.T) {
		for _, s := range []string{"31 января", "2024.01.31", "tomorrow", ""} {
			_, err := ParseDate(s)
			assert.ErrorIs(t, err, domain.ErrInvalidDateFormat, "input %q", s)
		}
	})
}

func TestExplicit(t *testing.T) {
	t.Run("Full day bounds", func(t *testing.T) {
		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
		end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.Local)

		rng, err := Explicit(start, end)
		require.NoError(t, err)
		assert.Equal(t, "2024-01-01 00:00:00", rng.Start.Format(domain.APITimeLayout))
		assert.Equal(t, "2024-01-31 23:59:59", rng.End.Format(domain.APITimeLayout))
		assert.Equal(t, 31, rng.Days())
	})

	t.Run("Single day", func(t *testing.T) {
		day := time.Date(2024, 2, 29, 0, 0, 0, 0, time.Local)
		rng, err := Explicit(day, day)
		require.NoError(t, err)
		assert.Equal(t, 1, rng.Days())
	})

	t.Run("End before start rejected, never swapped", func(t *testing.T) {
		start := time.Date(2024, 1, 31, 0, 0, 0, 0, time.Local)
		end := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)

		_, err := Explicit(start, end)
		assert.ErrorIs(t, err, domain.ErrEndBeforeStart)
	})
}
