package ics

import (
	"bytes"
	"errors"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "rmagenda/internal/log"
	"rmagenda/internal/model"
)

// Parse parses a single ICS payload into normalized events.
//
//   - Timezone handling (VTIMEZONE/TZID) is delegated to the underlying
//     library's DTSTART/DTEND helpers.
//   - All-day events are detected from the DTSTART value form (VALUE=DATE
//     or a date-only literal) and anchored at midnight.
//   - RRULE and EXDATE values are recorded on the event but not expanded
//     here; expansion happens in expand.go against a concrete range.
//
// A malformed VEVENT is logged and skipped; the remaining events still
// parse.
func Parse(src Source, body []byte) ([]model.Event, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		appLog.Error("ics parse failed", err, "id", src.ID, "url", redactURL(src.URL))
		return nil, err
	}

	events := make([]model.Event, 0)
	for _, ve := range cal.Events() {
		ev, perr := parseVEvent(src, ve)
		if perr != nil {
			appLog.Error("ics vevent rejected", perr, "id", src.ID, "uid", uidOf(ve))
			continue
		}
		events = append(events, ev)
	}

	appLog.Info("ics parse completed", "id", src.ID, "event_count", len(events))
	return events, nil
}

func uidOf(ve *ical.VEvent) string {
	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		return p.Value
	}
	return ""
}

func parseVEvent(src Source, ve *ical.VEvent) (model.Event, error) {
	var out model.Event
	out.SourceID = src.ID

	uid := uidOf(ve)
	if uid == "" {
		return out, errors.New("missing UID")
	}
	out.UID = uid

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.Description = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		out.Location = p.Value
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return out, errors.New("missing or unparsable DTSTART")
	}
	out.Start = start

	end, endErr := ve.GetEndAt()
	if endErr != nil {
		// DTEND is optional; default to a one-hour slot like the usual
		// calendar-client convention.
		end = start.Add(time.Hour)
	}
	out.End = end

	out.AllDay = isAllDay(ve)
	if out.AllDay {
		out.Start = midnightOf(out.Start)
		if endErr != nil {
			// No DTEND on an all-day event means it covers one day.
			out.End = out.Start.Add(24 * time.Hour)
		} else {
			out.End = midnightOf(out.End)
		}
	}

	if err := out.Validate(); err != nil {
		return out, err
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.RRule = p.Value
	}

	// EXDATE may appear multiple times, each possibly comma-separated.
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, terr := parseICSTime(part); terr == nil {
				out.ExDates = append(out.ExDates, t)
			}
		}
	}

	return out, nil
}

// isAllDay reports whether DTSTART carries a date-only value.
func isAllDay(ve *ical.VEvent) bool {
	p := ve.GetProperty(ical.ComponentPropertyDtStart)
	if p == nil {
		return false
	}
	if params := p.ICalParameters; params != nil {
		if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			return true
		}
	}
	return !strings.Contains(p.Value, "T")
}

func midnightOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// parseICSTime parses a basic ICS date/date-time literal as used in
// EXDATE values. Expansion handles timezone alignment later.
func parseICSTime(v string) (time.Time, error) {
	switch {
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, time.Local)
	default:
		return time.ParseInLocation("20060102", v, time.Local)
	}
}
