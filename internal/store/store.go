// Package store indexes expanded occurrences by calendar day for O(1)
// lookup during layout. A Store is built once per render request from
// the full occurrence set for the visible range and never mutated
// afterward; rebuilding from scratch avoids stale-occurrence bugs when
// the underlying rule set changes between requests.
package store

import (
	"sort"
	"time"

	"rmagenda/internal/model"
)

type Store struct {
	byDay map[string][]model.Occurrence
}

// New builds a day index over occs. A multi-day occurrence is indexed on
// every day its interval touches, so it appears in each covered cell.
func New(occs []model.Occurrence) *Store {
	s := &Store{byDay: make(map[string][]model.Occurrence)}

	for _, occ := range occs {
		for _, key := range coveredDays(occ) {
			s.byDay[key] = append(s.byDay[key], occ)
		}
	}

	// Deterministic rendering order: start time ascending, ties broken
	// lexicographically by summary.
	for _, occs := range s.byDay {
		sort.SliceStable(occs, func(i, j int) bool {
			if !occs[i].Start.Equal(occs[j].Start) {
				return occs[i].Start.Before(occs[j].Start)
			}
			return occs[i].Summary < occs[j].Summary
		})
	}
	return s
}

// EventsOn returns the occurrences covering the given calendar day in
// render order. A day with no events yields an empty slice.
func (s *Store) EventsOn(day time.Time) []model.Occurrence {
	return s.byDay[model.DayKey(day)]
}

// Len reports the number of indexed day buckets.
func (s *Store) Len() int {
	return len(s.byDay)
}

// coveredDays lists the day keys an occurrence spans. An occurrence
// ending exactly at midnight does not spill into the following day.
func coveredDays(occ model.Occurrence) []string {
	start := occ.Start
	end := occ.End
	if !end.After(start) {
		return []string{model.DayKey(start)}
	}

	var keys []string
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	for day.Before(end) {
		keys = append(keys, model.DayKey(day))
		day = day.AddDate(0, 0, 1)
	}
	if len(keys) == 0 {
		keys = []string{model.DayKey(start)}
	}
	return keys
}
