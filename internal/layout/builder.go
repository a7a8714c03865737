package layout

import (
	"context"
	"fmt"

	"rmagenda/internal/doc"
	appLog "rmagenda/internal/log"
)

// Builder sequences engine views into a multi-page document. Views are
// rendered in the fixed month, week, day order with a page break
// between any two; a failing view is replaced by an error page so the
// remaining views still render and the artifact always exists.
type Builder struct {
	engine *Engine
}

func NewBuilder(e *Engine) *Builder {
	return &Builder{engine: e}
}

// Build renders the requested views. It never returns an empty
// document: with no view selection the request's primary view is
// rendered alone, and failures downgrade to error pages.
func (b *Builder) Build(ctx context.Context, req doc.Request) doc.Document {
	var document doc.Document

	for _, view := range req.Views() {
		page, err := b.renderView(ctx, view, req)
		if err != nil {
			appLog.Error("view render failed, emitting error page", err, "view", string(view))
			page = b.errorPage(view, err)
		}
		document.Pages = append(document.Pages, page)
	}
	return document
}

// renderView dispatches to one view algorithm, converting panics into
// errors so a failure stays contained to its own page.
func (b *Builder) renderView(ctx context.Context, view doc.View, req doc.Request) (page doc.Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("layout panic in %s view: %v", view, r)
		}
	}()

	switch view {
	case doc.ViewMonth:
		return b.engine.Month(req.Anchor)
	case doc.ViewWeek:
		return b.engine.Week(ctx, req.Anchor)
	case doc.ViewDay:
		return b.engine.Day(ctx, req.Anchor, req.Tasks)
	default:
		return doc.Page{}, fmt.Errorf("unknown view type %q", view)
	}
}

// errorPage is the single-page fallback for a failed view: the failure
// description instead of no output at all.
func (b *Builder) errorPage(view doc.View, cause error) doc.Page {
	page := b.engine.newPage()
	page.Instructions = append(page.Instructions,
		doc.Text{
			X:        marginPt,
			Y:        marginPt + titleFontPt,
			Content:  fmt.Sprintf("Could not render %s view", view),
			FontSize: titleFontPt,
			Bold:     true,
		},
		doc.Text{
			X:        marginPt,
			Y:        marginPt + titleFontPt + 2*lineHeight(bodyFontPt),
			Content:  truncateToWidth(cause.Error(), bodyFontPt, b.engine.contentWidth()),
			FontSize: bodyFontPt,
		},
	)
	return page
}
