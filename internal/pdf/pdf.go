// Package pdf maps the abstract drawing instructions onto PDF pages.
// It is the concrete document sink; the layout engine knows nothing
// about it.
package pdf

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"rmagenda/internal/doc"
)

const fontFamily = "Helvetica"

// Render converts a document into an in-memory PDF.
func Render(d doc.Document) (*fpdf.Fpdf, error) {
	if len(d.Pages) == 0 {
		return nil, errors.New("pdf: empty document")
	}

	first := d.Pages[0]
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: first.WidthPt, Ht: first.HeightPt},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetLineWidth(0.8)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetFillColor(225, 225, 225)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, page := range d.Pages {
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: page.WidthPt, Ht: page.HeightPt})
		for _, ins := range page.Instructions {
			drawInstruction(pdf, tr, ins)
		}
	}

	if pdf.Err() {
		return nil, fmt.Errorf("pdf: %w", pdf.Error())
	}
	return pdf, nil
}

func drawInstruction(pdf *fpdf.Fpdf, tr func(string) string, ins doc.Instruction) {
	switch v := ins.(type) {
	case doc.Text:
		style := ""
		if v.Bold {
			style = "B"
		}
		pdf.SetFont(fontFamily, style, v.FontSize)
		pdf.Text(v.X, v.Y, tr(v.Content))
	case doc.Line:
		pdf.Line(v.X1, v.Y1, v.X2, v.Y2)
	case doc.Rect:
		style := "D"
		if v.Filled {
			style = "F"
		}
		pdf.Rect(v.X, v.Y, v.W, v.H, style)
	case doc.NewPage:
		// Page boundaries come from doc.Page; a stray separator in a
		// page's own instruction list is ignored.
	}
}

// Write renders the document to w.
func Write(d doc.Document, w io.Writer) error {
	pdf, err := Render(d)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

// WriteFile renders the document to path, creating parent directories.
func WriteFile(d doc.Document, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	pdf, err := Render(d)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

// Filename derives the artifact name for a request, following the
// naming the generator has always used per view.
func Filename(req doc.Request) string {
	views := req.Views()
	if len(views) > 1 {
		return fmt.Sprintf("agenda_%s.pdf", req.Anchor.Format("20060102"))
	}
	switch views[0] {
	case doc.ViewMonth:
		return fmt.Sprintf("monthly_calendar_%s.pdf", req.Anchor.Format("2006_01"))
	case doc.ViewWeek:
		start := startOfWeek(req.Anchor)
		end := start.AddDate(0, 0, 6)
		return fmt.Sprintf("weekly_calendar_%s-%s.pdf",
			start.Format("20060102"), end.Format("20060102"))
	default:
		return fmt.Sprintf("daily_calendar_%s.pdf", req.Anchor.Format("20060102"))
	}
}

func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -offset)
}
