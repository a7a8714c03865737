package layout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rmagenda/internal/device"
	"rmagenda/internal/doc"
	"rmagenda/internal/store"
)

func TestBuildMultiViewInsertsPageBreaks(t *testing.T) {
	t.Parallel()

	b := NewBuilder(newTestEngine("remarkable2", nil))
	document := b.Build(context.Background(), doc.Request{
		Anchor:       time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC),
		Primary:      doc.ViewMonth,
		IncludeMonth: true,
		IncludeWeek:  true,
		IncludeDay:   true,
	})

	require.Len(t, document.Pages, 3)

	breaks := 0
	for _, ins := range document.Instructions() {
		if _, ok := ins.(doc.NewPage); ok {
			breaks++
		}
	}
	assert.Equal(t, 2, breaks, "a page break between any two views")
}

func TestBuildNoSelectionFallsBackToPrimary(t *testing.T) {
	t.Parallel()

	b := NewBuilder(newTestEngine("remarkable2", nil))
	document := b.Build(context.Background(), doc.Request{
		Anchor:  time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC),
		Primary: doc.ViewWeek,
	})

	require.Len(t, document.Pages, 1, "no selection must never produce an empty document")
	assert.True(t, hasText(document.Pages[0].Instructions, "Week of"))
}

func TestBuildFailedViewReplacedByErrorPage(t *testing.T) {
	t.Parallel()

	// A nil store makes every view panic; the builder must contain each
	// failure to its own page and still produce the full page count.
	broken := New(device.ProfileFor("remarkable2"), nil, nil)
	b := NewBuilder(broken)

	document := b.Build(context.Background(), doc.Request{
		Anchor:       time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC),
		Primary:      doc.ViewMonth,
		IncludeMonth: true,
		IncludeDay:   true,
	})

	require.Len(t, document.Pages, 2)
	assert.True(t, hasText(document.Pages[0].Instructions, "Could not render month view"))
	assert.True(t, hasText(document.Pages[1].Instructions, "Could not render day view"))
}

func TestBuildUnknownDeviceUsesDefaultGeometry(t *testing.T) {
	t.Parallel()

	def := device.ProfileFor(device.DefaultID)
	e := New(device.ProfileFor("not-a-device"), store.New(nil), nil)
	document := NewBuilder(e).Build(context.Background(), doc.Request{
		Anchor:  time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC),
		Primary: doc.ViewMonth,
	})

	require.Len(t, document.Pages, 1)
	assert.Equal(t, def.PageWidthPt, document.Pages[0].WidthPt)
	assert.Equal(t, def.PageHeightPt, document.Pages[0].HeightPt)
}

func TestVisibleRangeCoversSelectedViews(t *testing.T) {
	t.Parallel()

	anchor := time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC)

	start, end := VisibleRange(doc.Request{Anchor: anchor, Primary: doc.ViewDay})
	assert.Equal(t, anchor, start)
	assert.Equal(t, anchor.AddDate(0, 0, 1), end)

	start, end = VisibleRange(doc.Request{
		Anchor:       anchor,
		Primary:      doc.ViewMonth,
		IncludeMonth: true,
		IncludeDay:   true,
	})
	assert.True(t, start.Before(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, end.After(time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)))
}
