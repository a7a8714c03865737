package layout

import (
	"time"

	"rmagenda/internal/doc"
)

// VisibleRange returns the union of the date ranges the requested views
// can display, used to bound recurrence expansion. The month range is
// widened by a week on each side to cover the placeholder-adjacent grid
// edges.
func VisibleRange(req doc.Request) (time.Time, time.Time) {
	anchor := req.Anchor
	dayStart := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, anchor.Location())

	var start, end time.Time
	extend := func(s, e time.Time) {
		if start.IsZero() || s.Before(start) {
			start = s
		}
		if end.IsZero() || e.After(end) {
			end = e
		}
	}

	for _, v := range req.Views() {
		switch v {
		case doc.ViewMonth:
			first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
			extend(first.AddDate(0, 0, -7), first.AddDate(0, 1, 7))
		case doc.ViewWeek:
			ws := startOfWeek(anchor)
			extend(ws, ws.AddDate(0, 0, 7))
		case doc.ViewDay:
			extend(dayStart, dayStart.AddDate(0, 0, 1))
		}
	}

	if start.IsZero() {
		return dayStart, dayStart.AddDate(0, 0, 1)
	}
	return start, end
}
