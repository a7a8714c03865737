package ics

import (
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	appLog "rmagenda/internal/log"
	"rmagenda/internal/model"
)

const defaultMaxOccurrencesPerEvent = 5000

// InvalidRuleError reports an RRULE value the grammar parser rejected.
// The expander never partially expands a malformed rule; the caller
// decides whether to skip the event or abort the fetch.
type InvalidRuleError struct {
	UID  string
	Rule string
	Err  error
}

func (e *InvalidRuleError) Error() string {
	return fmt.Sprintf("invalid recurrence rule %q (uid %s): %v", e.Rule, e.UID, e.Err)
}

func (e *InvalidRuleError) Unwrap() error { return e.Err }

// ExpandOptions controls how recurrence expansion is performed.
type ExpandOptions struct {
	// DisplayLocation is the timezone all occurrences are converted to.
	// If nil, time.Local is used.
	DisplayLocation *time.Location

	// MaxPerEvent caps the number of occurrences produced for a single
	// event to guard against runaway rules. Zero means the default cap.
	MaxPerEvent int
}

// Expand materializes the occurrences of one event that intersect the
// inclusive range [rangeStart, rangeEnd].
//
// It is a pure function of its inputs: no state is retained between
// calls, and the returned occurrences are non-decreasing in start time.
// For each recurrence instant the occurrence duration equals the base
// event's duration (the original end instant is not reused). A
// non-recurring event yields at most one occurrence, included when
// start <= rangeEnd && end >= rangeStart.
func Expand(ev model.Event, rangeStart, rangeEnd time.Time, opts ExpandOptions) ([]model.Occurrence, error) {
	if rangeEnd.Before(rangeStart) {
		return nil, errors.New("expand: range end before range start")
	}
	if err := ev.Validate(); err != nil {
		return nil, fmt.Errorf("expand: uid %s: %w", ev.UID, err)
	}
	if opts.DisplayLocation == nil {
		opts.DisplayLocation = time.Local
	}
	if opts.MaxPerEvent <= 0 {
		opts.MaxPerEvent = defaultMaxOccurrencesPerEvent
	}

	// All-day events are anchored at midnight already at parse time, but
	// callers constructing events directly may pass date-typed values;
	// normalize again so date-only values compare correctly against
	// datetime ranges.
	if ev.AllDay {
		ev.Start = midnightOf(ev.Start)
		ev.End = midnightOf(ev.End)
		if !ev.End.After(ev.Start) {
			ev.End = ev.Start.Add(24 * time.Hour)
		}
	}

	if ev.RRule == "" {
		return expandSingle(ev, rangeStart, rangeEnd, opts), nil
	}
	return expandRecurring(ev, rangeStart, rangeEnd, opts)
}

func expandSingle(ev model.Event, rangeStart, rangeEnd time.Time, opts ExpandOptions) []model.Occurrence {
	if ev.Start.After(rangeEnd) || ev.End.Before(rangeStart) {
		return nil
	}
	return []model.Occurrence{makeOccurrence(ev, ev.Start, ev.End, opts.DisplayLocation)}
}

func expandRecurring(ev model.Event, rangeStart, rangeEnd time.Time, opts ExpandOptions) ([]model.Occurrence, error) {
	ropt, err := rrule.StrToROption(ev.RRule)
	if err != nil {
		return nil, &InvalidRuleError{UID: ev.UID, Rule: ev.RRule, Err: err}
	}
	ropt.Dtstart = ev.Start

	// A midnight UNTIL is taken to cover that entire day: producers
	// commonly write UNTIL as a bare date, and cutting the final day's
	// occurrence off surprises users more than keeping it.
	if !ropt.Until.IsZero() && isMidnight(ropt.Until) && !isMidnight(ev.Start) {
		ropt.Until = ropt.Until.Add(24*time.Hour - time.Second)
	}

	r, err := rrule.NewRRule(*ropt)
	if err != nil {
		return nil, &InvalidRuleError{UID: ev.UID, Rule: ev.RRule, Err: err}
	}

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		// Align EXDATE location with the event's start for comparison.
		set.ExDate(ex.In(ev.Start.Location()))
	}

	dur := ev.End.Sub(ev.Start)

	// Between operates in the rule's own location; widen the window start
	// so occurrences beginning before the range but overlapping into it
	// are still considered.
	windowStart := rangeStart.Add(-dur).In(ev.Start.Location())
	windowEnd := rangeEnd.In(ev.Start.Location())

	instants := set.Between(windowStart, windowEnd, true)
	if len(instants) > opts.MaxPerEvent {
		appLog.Error("expand: occurrence cap hit, truncating",
			errors.New("max occurrences reached"),
			"uid", ev.UID, "cap", opts.MaxPerEvent)
		instants = instants[:opts.MaxPerEvent]
	}

	out := make([]model.Occurrence, 0, len(instants))
	for _, start := range instants {
		if ev.AllDay {
			start = midnightOf(start)
		}
		end := start.Add(dur)
		if start.After(rangeEnd) || end.Before(rangeStart) {
			continue
		}
		out = append(out, makeOccurrence(ev, start, end, opts.DisplayLocation))
	}
	return out, nil
}

// ExpandAll expands a batch of events over one range. Malformed rules and
// invalid records are skipped with their errors collected; well-formed
// events still expand, so a single bad event never empties a calendar.
func ExpandAll(events []model.Event, rangeStart, rangeEnd time.Time, opts ExpandOptions) ([]model.Occurrence, []error) {
	all := make([]model.Occurrence, 0, len(events))
	var errs []error

	for _, ev := range events {
		occs, err := Expand(ev, rangeStart, rangeEnd, opts)
		if err != nil {
			errs = append(errs, err)
			appLog.Error("expand: skipping event", err, "uid", ev.UID, "source", ev.SourceID)
			continue
		}
		all = append(all, occs...)
	}
	return all, errs
}

func isMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0
}

func makeOccurrence(ev model.Event, start, end time.Time, loc *time.Location) model.Occurrence {
	return model.Occurrence{
		SourceID:    ev.SourceID,
		UID:         ev.UID,
		Summary:     ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
		AllDay:      ev.AllDay,
		Start:       start.In(loc),
		End:         end.In(loc),
	}
}
