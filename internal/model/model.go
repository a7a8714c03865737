package model

import (
	"errors"
	"time"
)

// ErrEndBeforeStart is returned when an event's end precedes its start.
// Such records are rejected individually; the rest of a fetch still loads.
var ErrEndBeforeStart = errors.New("event end before start")

// Event represents a logical calendar event before recurrence expansion,
// normalized from a VEVENT. If RRule is empty the event describes exactly
// one occurrence.
type Event struct {
	SourceID string // calendar source ID (e.g., config calendar ID)
	UID      string // iCalendar UID

	Summary     string
	Description string
	Location    string

	AllDay bool

	// Original start/end in the event's own timezone.
	Start time.Time
	End   time.Time

	// RRule is the raw RRULE value (FREQ/INTERVAL/COUNT/UNTIL...), empty
	// for non-recurring events.
	RRule string

	// ExDates lists instants excluded from the recurrence set.
	ExDates []time.Time
}

// Validate checks the record-level invariants.
func (e Event) Validate() error {
	if e.End.Before(e.Start) {
		return ErrEndBeforeStart
	}
	return nil
}

// Occurrence represents a single concrete instance of an event after
// recurrence expansion and timezone normalization. Occurrences are built
// fresh per layout request and never shared back into the source Event.
type Occurrence struct {
	SourceID string
	UID      string

	Summary     string
	Description string
	Location    string

	AllDay bool

	// Start / End are in the configured display timezone.
	Start time.Time
	End   time.Time
}

// Forecast is a daily weather summary. Available is false for the
// "unavailable" sentinel: dates beyond the provider horizon, missing
// configuration, or an upstream failure.
type Forecast struct {
	Date         time.Time
	TemperatureC float64
	Condition    string
	Available    bool
}

// Unavailable returns the sentinel forecast for the given date.
func Unavailable(date time.Time) Forecast {
	return Forecast{Date: date}
}

// DayKey returns the calendar-day cache/index key for t in its own
// location, e.g. "2024-02-15".
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
