// Package layout turns a paginated document into the per-page lines and
// table grids the parser works on.
package layout

import (
	"context"
	"strings"
)

// Table is a grid of cells, one slice per row.
type Table [][]string

// Page is one page of recovered text.
type Page struct {
	Number int
	Lines  []string
	Tables []Table
}

// Text joins the page lines with newlines.
func (p Page) Text() string {
	return strings.Join(p.Lines, "\n")
}

// Reader supplies the pages of the document at path.
type Reader interface {
	Pages(ctx context.Context, path string) ([]Page, error)
}

// StaticReader serves pre-built pages keyed by path. Paths without an entry
// fail with ErrNoPages.
type StaticReader map[string][]Page

func (s StaticReader) Pages(_ context.Context, path string) ([]Page, error) {
	pages, ok := s[path]
	if !ok {
		return nil, ErrNoPages
	}
	return pages, nil
}
