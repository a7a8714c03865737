package layout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rmagenda/internal/doc"
)

// timeAxisWidthPt is the width of the hour-label column in week view.
const timeAxisWidthPt = 40.0

// Week renders seven day columns for the ISO week containing anchor,
// with an hour axis from 08:00 to 20:00. An event occupies only the row
// matching its start hour; there is no vertical spanning across rows.
// Weather, when available for a day, is appended to that day's header
// cell; absence renders nothing.
func (e *Engine) Week(ctx context.Context, anchor time.Time) (doc.Page, error) {
	page := e.newPage()

	weekStart := startOfWeek(anchor)
	weekEnd := weekStart.AddDate(0, 0, 6)

	title := fmt.Sprintf("Week of %s – %s",
		weekStart.Format("January 2"), weekEnd.Format("January 2, 2006"))
	page.Instructions = append(page.Instructions, doc.Text{
		X:        centeredX(title, titleFontPt, marginPt, e.contentWidth()),
		Y:        marginPt + titleFontPt,
		Content:  title,
		FontSize: titleFontPt,
		Bold:     true,
	})

	dayColW := (e.contentWidth() - timeAxisWidthPt) / 7
	headerTop := marginPt + titleFontPt + 20
	headerH := 3*lineHeight(smallFontPt) + 6
	gridTop := headerTop + headerH
	rowH := (e.profile.PageHeightPt - marginPt - gridTop) / scheduleRows
	gridBottom := gridTop + scheduleRows*rowH
	gridRight := marginPt + timeAxisWidthPt + 7*dayColW

	page.Instructions = append(page.Instructions, e.weekHeader(ctx, weekStart, headerTop, headerH, dayColW)...)

	// Grid lines: one horizontal rule per hour row plus the outer frame.
	for r := 0; r <= scheduleRows; r++ {
		y := gridTop + float64(r)*rowH
		page.Instructions = append(page.Instructions, doc.Line{
			X1: marginPt, Y1: y, X2: gridRight, Y2: y,
		})
	}
	for c := 0; c <= 8; c++ {
		x := marginPt + timeAxisWidthPt + float64(c-1)*dayColW
		if c == 0 {
			x = marginPt
		}
		page.Instructions = append(page.Instructions, doc.Line{
			X1: x, Y1: gridTop, X2: x, Y2: gridBottom,
		})
	}

	for r := 0; r < scheduleRows; r++ {
		hour := scheduleStartHour + r
		rowY := gridTop + float64(r)*rowH

		page.Instructions = append(page.Instructions, doc.Text{
			X:        marginPt + 4,
			Y:        rowY + headerFontPt + 3,
			Content:  fmt.Sprintf("%02d:00", hour),
			FontSize: headerFontPt,
			Bold:     true,
		})

		for c := 0; c < 7; c++ {
			day := weekStart.AddDate(0, 0, c)
			cell := e.weekCellText(day, hour)
			if cell == "" {
				continue
			}
			x := marginPt + timeAxisWidthPt + float64(c)*dayColW
			page.Instructions = append(page.Instructions, doc.Text{
				X:        x + 2,
				Y:        rowY + smallFontPt + 3,
				Content:  truncateToWidth(cell, smallFontPt, dayColW-4),
				FontSize: smallFontPt,
			})
		}
	}

	return page, nil
}

// weekHeader emits the day-name/date header cells, with one weather
// fragment per day when a provider is configured and has data.
func (e *Engine) weekHeader(ctx context.Context, weekStart time.Time, top, height, dayColW float64) []doc.Instruction {
	var out []doc.Instruction

	out = append(out, doc.Rect{
		X: marginPt, Y: top, W: e.contentWidth(), H: height, Filled: true,
	})

	for c := 0; c < 7; c++ {
		day := weekStart.AddDate(0, 0, c)
		left := marginPt + timeAxisWidthPt + float64(c)*dayColW

		name := day.Format("Mon")
		out = append(out, doc.Text{
			X:        centeredX(name, headerFontPt, left, dayColW),
			Y:        top + headerFontPt + 3,
			Content:  name,
			FontSize: headerFontPt,
			Bold:     true,
		})

		date := day.Format("02/01")
		out = append(out, doc.Text{
			X:        centeredX(date, smallFontPt, left, dayColW),
			Y:        top + lineHeight(headerFontPt) + smallFontPt + 3,
			Content:  date,
			FontSize: smallFontPt,
		})

		if frag := e.weatherFragment(ctx, day); frag != "" {
			out = append(out, doc.Text{
				X:        centeredX(frag, smallFontPt, left, dayColW),
				Y:        top + lineHeight(headerFontPt) + 2*lineHeight(smallFontPt),
				Content:  truncateToWidth(frag, smallFontPt, dayColW-2),
				FontSize: smallFontPt,
			})
		}
	}
	return out
}

// weekCellText joins the summaries of the timed events starting in the
// given hour of the given day.
func (e *Engine) weekCellText(day time.Time, hour int) string {
	var parts []string
	for _, occ := range e.events.EventsOn(day) {
		if occ.AllDay || occ.Start.Hour() != hour || !sameDay(occ.Start, day) {
			continue
		}
		parts = append(parts, occ.Summary)
	}
	return strings.Join(parts, ", ")
}

// weatherFragment returns a short "condition temp" annotation for the
// day, or "" when no forecast is available. Unavailability is not an
// error and must not imply one.
func (e *Engine) weatherFragment(ctx context.Context, day time.Time) string {
	if e.weather == nil {
		return ""
	}
	f, err := e.weather.Forecast(ctx, day)
	if err != nil || !f.Available {
		return ""
	}
	return fmt.Sprintf("%s %.0f°", f.Condition, f.TemperatureC)
}
