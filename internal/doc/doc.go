// Package doc defines the backend-agnostic drawing vocabulary emitted by
// the layout engine: text runs, lines, rectangles, and page breaks. A
// renderer maps these onto its own vector/PDF primitives; no bitmap or
// file-format detail lives here.
package doc

import (
	"fmt"
	"strings"
	"time"
)

// Instruction is one abstract drawing primitive. Instructions are pure
// values; the layout engine never retains references after emitting
// them, ownership passes entirely to the consuming sink.
type Instruction interface {
	isInstruction()
}

// Text places a string at (X, Y) in page points, Y measured from the
// top edge, baseline at Y.
type Text struct {
	X, Y     float64
	Content  string
	FontSize float64
	Bold     bool
}

// Line draws a straight segment.
type Line struct {
	X1, Y1, X2, Y2 float64
}

// Rect draws an axis-aligned rectangle, outlined or filled.
type Rect struct {
	X, Y, W, H float64
	Filled     bool
}

// NewPage starts a new output page. Builders emit it between views in a
// multi-view document; it only appears in the flattened stream.
type NewPage struct{}

func (Text) isInstruction()    {}
func (Line) isInstruction()    {}
func (Rect) isInstruction()    {}
func (NewPage) isInstruction() {}

// Page is one rendered page: its geometry plus an ordered instruction
// list in page-then-row-then-column order.
type Page struct {
	WidthPt      float64
	HeightPt     float64
	Instructions []Instruction
}

// Document is an ordered sequence of pages.
type Document struct {
	Pages []Page
}

// Instructions flattens the document into a single stream with a
// NewPage separator before every page after the first.
func (d Document) Instructions() []Instruction {
	var out []Instruction
	for i, p := range d.Pages {
		if i > 0 {
			out = append(out, NewPage{})
		}
		out = append(out, p.Instructions...)
	}
	return out
}

// View selects one of the three layout algorithms.
type View string

const (
	ViewMonth View = "month"
	ViewWeek  View = "week"
	ViewDay   View = "day"
)

// ParseView validates a view-type string.
func ParseView(s string) (View, error) {
	switch View(strings.ToLower(s)) {
	case ViewMonth:
		return ViewMonth, nil
	case ViewWeek:
		return ViewWeek, nil
	case ViewDay:
		return ViewDay, nil
	}
	return "", fmt.Errorf("invalid view type %q: must be one of month, week, or day", s)
}

// Request carries everything one render needs as explicit parameters;
// the engine reads no ambient state.
type Request struct {
	// Anchor is the date the views are built around.
	Anchor time.Time

	// Primary is rendered alone when no Include flag is set; "no
	// selection" never produces an empty document.
	Primary View

	IncludeMonth bool
	IncludeWeek  bool
	IncludeDay   bool

	// Tasks is the day-view checklist. Empty means blank checkbox rows.
	Tasks []string
}

// Views resolves the requested views in the fixed month, week, day
// order, falling back to the primary view when none is selected.
func (r Request) Views() []View {
	var out []View
	if r.IncludeMonth {
		out = append(out, ViewMonth)
	}
	if r.IncludeWeek {
		out = append(out, ViewWeek)
	}
	if r.IncludeDay {
		out = append(out, ViewDay)
	}
	if len(out) == 0 {
		out = append(out, r.Primary)
	}
	return out
}
