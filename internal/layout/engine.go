// Package layout turns a date, an event index, and a device profile
// into ordered draw instructions for the month, week, and day views.
// All geometry is derived from the profile per call, so one algorithm
// serves every registered device without branching.
package layout

import (
	"time"

	"rmagenda/internal/device"
	"rmagenda/internal/doc"
	"rmagenda/internal/store"
	"rmagenda/internal/weather"
)

// Page margin and type sizes, in points. These mirror the print layout
// the generator has always produced.
const (
	marginPt = 30.0

	titleFontPt  = 16.0
	headerFontPt = 10.0
	bodyFontPt   = 9.0
	smallFontPt  = 8.0

	// scheduleStartHour..scheduleEndHour is the visible hour axis of the
	// week and day views, inclusive on both ends (13 rows).
	scheduleStartHour = 8
	scheduleEndHour   = 20

	// defaultTaskRows is the number of blank checkbox rows the day view
	// prints when no tasks are configured.
	defaultTaskRows = 10

	// notesHeightPt is the fixed height of the day view's notes box.
	notesHeightPt = 200.0
)

const scheduleRows = scheduleEndHour - scheduleStartHour + 1

// Engine renders the three calendar views. It is a pure function of its
// inputs: safe for callers to run on a background goroutine as long as
// the resulting instructions are marshalled back to the sink's thread.
type Engine struct {
	profile device.Profile
	events  *store.Store
	weather weather.Provider // nil disables weather annotations

	// now is the clock used for today-highlighting; replaceable in tests.
	now func() time.Time
}

// New builds an Engine. events must be non-nil; w may be nil when no
// forecast provider is configured.
func New(profile device.Profile, events *store.Store, w weather.Provider) *Engine {
	return &Engine{
		profile: profile,
		events:  events,
		weather: w,
		now:     time.Now,
	}
}

// Profile exposes the target device geometry.
func (e *Engine) Profile() device.Profile { return e.profile }

// newPage allocates an empty page sized to the engine's device.
func (e *Engine) newPage() doc.Page {
	return doc.Page{
		WidthPt:  e.profile.PageWidthPt,
		HeightPt: e.profile.PageHeightPt,
	}
}

// contentWidth is the printable width between margins.
func (e *Engine) contentWidth() float64 {
	return e.profile.PageWidthPt - 2*marginPt
}

// lineHeight is the vertical advance for a run of the given size.
func lineHeight(fontPt float64) float64 {
	return fontPt + 4
}

// approxTextWidth estimates the width of s at the given size, using the
// mean glyph width of the Helvetica metrics the sink draws with. Good
// enough for truncation; the sink never wraps.
func approxTextWidth(s string, fontPt float64) float64 {
	return float64(len([]rune(s))) * fontPt * 0.52
}

// truncateToWidth shortens s so it fits maxWidth at the given size,
// appending an ellipsis when anything was cut.
func truncateToWidth(s string, fontPt, maxWidth float64) string {
	if approxTextWidth(s, fontPt) <= maxWidth {
		return s
	}
	runes := []rune(s)
	fit := int(maxWidth / (fontPt * 0.52))
	if fit <= 1 {
		return "…"
	}
	return string(runes[:fit-1]) + "…"
}

// centeredX returns the x coordinate that centers a run of text inside
// [left, left+width].
func centeredX(s string, fontPt, left, width float64) float64 {
	w := approxTextWidth(s, fontPt)
	if w >= width {
		return left
	}
	return left + (width-w)/2
}

// startOfWeek returns the Monday on or before t (ISO week semantics).
func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -offset)
}

// sameDay reports whether a and b fall on the same calendar day.
func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
