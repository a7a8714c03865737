package layout

import (
	"context"
	"fmt"
	"time"

	"rmagenda/internal/doc"
	"rmagenda/internal/model"
)

const (
	sectionFontPt  = 12.0
	checkboxSizePt = 10.0
	// timeLabelWidthPt is the hour-label column width of the day schedule.
	timeLabelWidthPt = 60.0
)

// Day renders an hourly schedule (08:00-20:00), a task checklist, and a
// fixed-height blank notes box for the anchor date. Each schedule row
// shows the first event starting in that hour; further events sharing
// the hour are not rendered in this view.
func (e *Engine) Day(ctx context.Context, anchor time.Time, tasks []string) (doc.Page, error) {
	page := e.newPage()

	y := marginPt + titleFontPt
	title := anchor.Format("Monday, January 2, 2006")
	page.Instructions = append(page.Instructions, doc.Text{
		X:        centeredX(title, titleFontPt, marginPt, e.contentWidth()),
		Y:        y,
		Content:  title,
		FontSize: titleFontPt,
		Bold:     true,
	})
	y += 24

	if e.weather != nil {
		if f, err := e.weather.Forecast(ctx, anchor); err == nil && f.Available {
			page.Instructions = append(page.Instructions, doc.Text{
				X:        marginPt,
				Y:        y + bodyFontPt,
				Content:  fmt.Sprintf("Weather: %s, %.0f°C", f.Condition, f.TemperatureC),
				FontSize: bodyFontPt,
			})
			y += lineHeight(bodyFontPt) + 4
		}
	}

	// The notes box keeps its fixed height at the bottom; schedule and
	// tasks share what remains.
	notesHeadingTop := e.profile.PageHeightPt - marginPt - notesHeightPt - (lineHeight(sectionFontPt) + 6)

	taskCount := len(tasks)
	if taskCount == 0 {
		taskCount = defaultTaskRows
	}

	headingBand := lineHeight(sectionFontPt) + 6
	available := notesHeadingTop - y - 2*headingBand
	scheduleRowH := clampRowHeight(available * 0.55 / scheduleRows)
	taskRowH := clampRowHeight(available * 0.45 / float64(taskCount))

	// Schedule section.
	var ins []doc.Instruction
	ins, y = e.sectionHeading(page.Instructions, "Schedule", y)
	ins = append(ins, e.daySchedule(anchor, y, scheduleRowH)...)
	y += scheduleRows*scheduleRowH + 10

	// Tasks section.
	ins, y = e.sectionHeading(ins, "Tasks", y)
	ins = append(ins, e.dayTasks(tasks, taskCount, y, taskRowH)...)

	// Notes section.
	ins, y = e.sectionHeading(ins, "Notes", notesHeadingTop)
	ins = append(ins, doc.Rect{
		X: marginPt, Y: y, W: e.contentWidth(), H: notesHeightPt,
	})

	page.Instructions = ins
	return page, nil
}

func clampRowHeight(h float64) float64 {
	const maxRow = 24.0
	const minRow = 12.0
	if h > maxRow {
		return maxRow
	}
	if h < minRow {
		return minRow
	}
	return h
}

// sectionHeading emits a bold section label and returns the y cursor
// below it.
func (e *Engine) sectionHeading(ins []doc.Instruction, label string, y float64) ([]doc.Instruction, float64) {
	ins = append(ins, doc.Text{
		X:        marginPt,
		Y:        y + sectionFontPt,
		Content:  label,
		FontSize: sectionFontPt,
		Bold:     true,
	})
	return ins, y + lineHeight(sectionFontPt) + 6
}

// daySchedule emits the 13 hour rows starting at top.
func (e *Engine) daySchedule(anchor time.Time, top, rowH float64) []doc.Instruction {
	var out []doc.Instruction

	width := e.contentWidth()
	bottom := top + scheduleRows*rowH

	out = append(out, doc.Rect{X: marginPt, Y: top, W: width, H: scheduleRows * rowH})
	out = append(out, doc.Line{
		X1: marginPt + timeLabelWidthPt, Y1: top,
		X2: marginPt + timeLabelWidthPt, Y2: bottom,
	})

	for r := 0; r < scheduleRows; r++ {
		hour := scheduleStartHour + r
		rowY := top + float64(r)*rowH
		if r > 0 {
			out = append(out, doc.Line{X1: marginPt, Y1: rowY, X2: marginPt + width, Y2: rowY})
		}

		out = append(out, doc.Text{
			X:        marginPt + 4,
			Y:        rowY + headerFontPt + 3,
			Content:  fmt.Sprintf("%02d:00", hour),
			FontSize: headerFontPt,
			Bold:     true,
		})

		if occ, ok := e.firstEventAt(anchor, hour); ok {
			text := occ.Summary
			if occ.Location != "" {
				text += " - " + occ.Location
			}
			out = append(out, doc.Text{
				X:        marginPt + timeLabelWidthPt + 4,
				Y:        rowY + bodyFontPt + 3,
				Content:  truncateToWidth(text, bodyFontPt, width-timeLabelWidthPt-8),
				FontSize: bodyFontPt,
			})
		}
	}
	return out
}

// firstEventAt returns the first timed occurrence of the day starting in
// the given hour. EventsOn already orders by start then summary, so the
// pick is deterministic.
func (e *Engine) firstEventAt(day time.Time, hour int) (model.Occurrence, bool) {
	for _, occ := range e.events.EventsOn(day) {
		if occ.AllDay || !sameDay(occ.Start, day) {
			continue
		}
		if occ.Start.Hour() == hour {
			return occ, true
		}
	}
	return model.Occurrence{}, false
}

// dayTasks emits checkbox rows: one per supplied task, or rowCount blank
// rows when tasks is empty.
func (e *Engine) dayTasks(tasks []string, rowCount int, top, rowH float64) []doc.Instruction {
	var out []doc.Instruction

	for r := 0; r < rowCount; r++ {
		rowY := top + float64(r)*rowH
		boxY := rowY + (rowH-checkboxSizePt)/2
		out = append(out, doc.Rect{
			X: marginPt, Y: boxY, W: checkboxSizePt, H: checkboxSizePt,
		})
		if r < len(tasks) {
			out = append(out, doc.Text{
				X:        marginPt + checkboxSizePt + 6,
				Y:        boxY + checkboxSizePt - 1,
				Content:  truncateToWidth(tasks[r], bodyFontPt, e.contentWidth()-checkboxSizePt-10),
				FontSize: bodyFontPt,
			})
		}
	}
	return out
}
