package layout

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rmagenda/internal/device"
	"rmagenda/internal/doc"
	"rmagenda/internal/model"
	"rmagenda/internal/store"
)

// newTestEngine builds an engine with a clock pinned far away from the
// rendered dates so today-highlighting does not interfere with counts.
func newTestEngine(profileID string, occs []model.Occurrence) *Engine {
	e := New(device.ProfileFor(profileID), store.New(occs), nil)
	e.now = func() time.Time { return time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC) }
	return e
}

func textsOf(ins []doc.Instruction) []doc.Text {
	var out []doc.Text
	for _, i := range ins {
		if t, ok := i.(doc.Text); ok {
			out = append(out, t)
		}
	}
	return out
}

func rectsOf(ins []doc.Instruction) []doc.Rect {
	var out []doc.Rect
	for _, i := range ins {
		if r, ok := i.(doc.Rect); ok {
			out = append(out, r)
		}
	}
	return out
}

func hasText(ins []doc.Instruction, substr string) bool {
	for _, t := range textsOf(ins) {
		if strings.Contains(t.Content, substr) {
			return true
		}
	}
	return false
}

func TestMonthGridShape(t *testing.T) {
	t.Parallel()

	cases := []struct {
		year  int
		month time.Month
		days  int
	}{
		{2024, time.February, 29}, // leap year
		{2023, time.February, 28},
		{2024, time.January, 31},
		{2024, time.September, 30},
		{2026, time.March, 31},
	}

	for _, tc := range cases {
		grid := monthGrid(tc.year, tc.month)

		first := time.Date(tc.year, tc.month, 1, 0, 0, 0, 0, time.UTC)
		offset := (int(first.Weekday()) + 6) % 7
		wantRows := (tc.days + offset + 6) / 7
		assert.Len(t, grid, wantRows, "%v %d", tc.month, tc.year)

		nonEmpty := 0
		for _, week := range grid {
			require.Len(t, week, 7)
			for _, d := range week {
				if d != 0 {
					nonEmpty++
				}
			}
		}
		assert.Equal(t, tc.days, nonEmpty, "%v %d", tc.month, tc.year)
	}
}

func TestMonthGridLeapFebruary(t *testing.T) {
	t.Parallel()

	grid := monthGrid(2024, time.February)
	require.Len(t, grid, 5)

	// Feb 1 2024 is a Thursday: three leading placeholders.
	assert.Equal(t, []int{0, 0, 0, 1, 2, 3, 4}, grid[0])
	// Feb 29 present; trailing Mar 1 slot stays a placeholder.
	assert.Equal(t, 29, grid[4][3])
	assert.Equal(t, 0, grid[4][4])
}

func TestMonthPageGridGeometry(t *testing.T) {
	t.Parallel()

	e := newTestEngine("remarkable2", nil)
	anchor := time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC)

	page, err := e.Month(anchor)
	require.NoError(t, err)
	assert.Equal(t, e.Profile().PageWidthPt, page.WidthPt)
	assert.Equal(t, e.Profile().PageHeightPt, page.HeightPt)

	colW := e.contentWidth() / 7
	cells := 0
	for _, r := range rectsOf(page.Instructions) {
		if !r.Filled && almostEqual(r.W, colW) {
			cells++
		}
	}
	assert.Equal(t, 35, cells, "5 rows x 7 columns for Feb 2024")

	// All 29 day numbers appear; placeholder cells carry no content.
	for d := 1; d <= 29; d++ {
		assert.True(t, hasText(page.Instructions, fmt.Sprintf("%d", d)))
	}
}

func TestMonthCellOverflowMarker(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC)
	var occs []model.Occurrence
	for i := 0; i < 12; i++ {
		occs = append(occs, model.Occurrence{
			Summary: fmt.Sprintf("event %02d", i),
			Start:   day.Add(time.Duration(8+i) * time.Minute),
			End:     day.Add(time.Duration(9+i) * time.Minute),
		})
	}

	e := newTestEngine("remarkable2", occs)
	page, err := e.Month(day)
	require.NoError(t, err)

	assert.True(t, hasText(page.Instructions, "more"), "overflow must be indicated")
}

func TestMonthTodayHighlight(t *testing.T) {
	t.Parallel()

	anchor := time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC)

	// Color panel: a filled cell-sized band.
	color := newTestEngine("paperpro", nil)
	color.now = func() time.Time { return anchor }
	page, err := color.Month(anchor)
	require.NoError(t, err)

	filled := 0
	for _, r := range rectsOf(page.Instructions) {
		if r.Filled && r.W < color.contentWidth() {
			filled++
		}
	}
	assert.Equal(t, 1, filled)

	// Monochrome panel: an inset outline instead of a fill.
	mono := newTestEngine("remarkable2", nil)
	mono.now = func() time.Time { return anchor }
	monoPage, err := mono.Month(anchor)
	require.NoError(t, err)

	colW := mono.contentWidth() / 7
	insets := 0
	for _, r := range rectsOf(monoPage.Instructions) {
		if !r.Filled && almostEqual(r.W, colW-4) {
			insets++
		}
	}
	assert.Equal(t, 1, insets)
}

func almostEqual(a, b float64) bool {
	d := a - b
	return d < 0.01 && d > -0.01
}
