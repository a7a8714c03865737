package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rmagenda/internal/model"
)

func occ(summary string, start time.Time, dur time.Duration) model.Occurrence {
	return model.Occurrence{Summary: summary, Start: start, End: start.Add(dur)}
}

func TestEventsOnSortsByStartThenSummary(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, time.May, 6, 0, 0, 0, 0, time.UTC)
	s := New([]model.Occurrence{
		occ("Zebra review", day.Add(9*time.Hour), time.Hour),
		occ("Lunch", day.Add(12*time.Hour), time.Hour),
		occ("Alpha review", day.Add(9*time.Hour), time.Hour),
	})

	got := s.EventsOn(day)
	require.Len(t, got, 3)
	assert.Equal(t, "Alpha review", got[0].Summary)
	assert.Equal(t, "Zebra review", got[1].Summary)
	assert.Equal(t, "Lunch", got[2].Summary)
}

func TestEventsOnEmptyDay(t *testing.T) {
	t.Parallel()

	s := New(nil)
	got := s.EventsOn(time.Date(2024, time.May, 6, 0, 0, 0, 0, time.UTC))
	assert.Empty(t, got)
}

func TestMultiDayOccurrenceIndexedOnEveryCoveredDay(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, time.May, 6, 0, 0, 0, 0, time.UTC)
	s := New([]model.Occurrence{
		{Summary: "Offsite", AllDay: true, Start: start, End: start.AddDate(0, 0, 3)},
	})

	for i := 0; i < 3; i++ {
		assert.Len(t, s.EventsOn(start.AddDate(0, 0, i)), 1, "day %d", i)
	}
	assert.Empty(t, s.EventsOn(start.AddDate(0, 0, 3)))
}

func TestMidnightEndDoesNotSpill(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, time.May, 6, 0, 0, 0, 0, time.UTC)
	s := New([]model.Occurrence{
		{Summary: "All day", AllDay: true, Start: day, End: day.AddDate(0, 0, 1)},
	})

	assert.Len(t, s.EventsOn(day), 1)
	assert.Empty(t, s.EventsOn(day.AddDate(0, 0, 1)))
}
