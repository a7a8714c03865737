package layout

import (
	"fmt"
	"time"

	"rmagenda/internal/doc"
)

var weekdayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Month renders the 7-column week grid for the anchor's month. Cells
// belonging to neighboring months are emitted as empty placeholders so
// the grid stays rectangular. Each day cell shows the day number and as
// many event summaries as fit; overflow is indicated with a "+k more"
// marker, never dropped silently.
func (e *Engine) Month(anchor time.Time) (doc.Page, error) {
	page := e.newPage()

	title := anchor.Format("January 2006")
	page.Instructions = append(page.Instructions, doc.Text{
		X:        centeredX(title, titleFontPt, marginPt, e.contentWidth()),
		Y:        marginPt + titleFontPt,
		Content:  title,
		FontSize: titleFontPt,
		Bold:     true,
	})

	grid := monthGrid(anchor.Year(), anchor.Month())

	colW := e.contentWidth() / 7
	headerTop := marginPt + titleFontPt + 20
	headerH := lineHeight(headerFontPt) + 6
	gridTop := headerTop + headerH
	cellH := (e.profile.PageHeightPt - marginPt - gridTop) / float64(len(grid))

	// Weekday header band.
	page.Instructions = append(page.Instructions, doc.Rect{
		X: marginPt, Y: headerTop, W: e.contentWidth(), H: headerH, Filled: true,
	})
	for col, name := range weekdayNames {
		left := marginPt + float64(col)*colW
		page.Instructions = append(page.Instructions, doc.Text{
			X:        centeredX(name, headerFontPt, left, colW),
			Y:        headerTop + headerFontPt + 4,
			Content:  name,
			FontSize: headerFontPt,
			Bold:     true,
		})
	}

	today := e.now()
	for row, week := range grid {
		for col, dayNum := range week {
			x := marginPt + float64(col)*colW
			y := gridTop + float64(row)*cellH

			page.Instructions = append(page.Instructions, doc.Rect{X: x, Y: y, W: colW, H: cellH})
			if dayNum == 0 {
				continue
			}

			date := time.Date(anchor.Year(), anchor.Month(), dayNum, 0, 0, 0, 0, anchor.Location())
			if sameDay(date, today) {
				page.Instructions = append(page.Instructions, e.todayHighlight(x, y, colW, cellH))
			}

			page.Instructions = append(page.Instructions, doc.Text{
				X:        x + 3,
				Y:        y + bodyFontPt + 3,
				Content:  fmt.Sprintf("%d", dayNum),
				FontSize: bodyFontPt,
				Bold:     true,
			})

			page.Instructions = append(page.Instructions, e.monthCellEvents(date, x, y, colW, cellH)...)
		}
	}

	return page, nil
}

// monthCellEvents lays out the event summaries of one day cell.
func (e *Engine) monthCellEvents(date time.Time, x, y, colW, cellH float64) []doc.Instruction {
	evs := e.events.EventsOn(date)
	if len(evs) == 0 {
		return nil
	}

	dayBand := lineHeight(bodyFontPt) + 2
	slots := int((cellH - dayBand - 2) / lineHeight(smallFontPt))
	if slots <= 0 {
		return nil
	}

	visible := evs
	var marker string
	if len(evs) > slots {
		visible = evs[:slots-1]
		marker = fmt.Sprintf("+%d more", len(evs)-(slots-1))
	}

	var out []doc.Instruction
	lineY := y + dayBand + smallFontPt + 2
	for _, occ := range visible {
		out = append(out, doc.Text{
			X:        x + 3,
			Y:        lineY,
			Content:  truncateToWidth(occ.Summary, smallFontPt, colW-6),
			FontSize: smallFontPt,
		})
		lineY += lineHeight(smallFontPt)
	}
	if marker != "" {
		out = append(out, doc.Text{
			X:        x + 3,
			Y:        lineY,
			Content:  marker,
			FontSize: smallFontPt,
			Bold:     true,
		})
	}
	return out
}

// todayHighlight distinguishes the current day: a filled band on color
// panels, an inset double outline on monochrome ones.
func (e *Engine) todayHighlight(x, y, w, h float64) doc.Instruction {
	if e.profile.SupportsColor {
		return doc.Rect{X: x + 1, Y: y + 1, W: w - 2, H: h - 2, Filled: true}
	}
	return doc.Rect{X: x + 2, Y: y + 2, W: w - 4, H: h - 4}
}

// monthGrid computes the Monday-first week grid for a month. Entries are
// day numbers; zero marks a placeholder cell outside the month.
func monthGrid(year int, month time.Month) [][]int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(first.Weekday()) + 6) % 7 // Monday=0
	days := first.AddDate(0, 1, -1).Day()

	rows := (days + offset + 6) / 7
	grid := make([][]int, rows)
	for r := range grid {
		grid[r] = make([]int, 7)
	}

	for d := 1; d <= days; d++ {
		idx := offset + d - 1
		grid[idx/7][idx%7] = d
	}
	return grid
}
