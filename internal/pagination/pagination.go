// Package pagination slices canonically ordered sequences into fixed-size
// pages. It never reorders its input: callers pass sequences (or counts of
// store-backed sequences) that are already in presentation order.
package pagination

import (
	"strconv"
	"strings"
)

// FirstPage is used whenever the requested page is absent or malformed.
const FirstPage = 1

// ParsePage reads a raw page parameter. Missing, non-numeric and
// non-positive values fall back to the first page.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < FirstPage {
		return FirstPage
	}
	return n
}

// Window is the resolved position of one page within a sequence of Count items.
type Window struct {
	Number     int
	TotalPages int
	Count      int64
	Offset     int
	Limit      int
}

// HasPrevious reports whether a page precedes this one.
func (w Window) HasPrevious() bool {
	return w.Number > FirstPage && w.TotalPages > 0
}

// HasNext reports whether a page follows this one.
func (w Window) HasNext() bool {
	return w.Number < w.TotalPages
}

// Paginator holds the process-wide page size.
type Paginator struct {
	pageSize int
}

// New returns a Paginator; sizes below one are treated as one.
func New(pageSize int) Paginator {
	if pageSize < 1 {
		pageSize = 1
	}
	return Paginator{pageSize: pageSize}
}

// PageSize returns the configured page size.
func (p Paginator) PageSize() int {
	if p.pageSize < 1 {
		return 1
	}
	return p.pageSize
}

// Window resolves requested against a sequence of count items. Requests past
// the last page clamp to it; an empty sequence yields page 1 of 0.
func (p Paginator) Window(count int64, requested int) Window {
	size := p.PageSize()
	if count < 0 {
		count = 0
	}
	if requested < FirstPage {
		requested = FirstPage
	}

	total := int((count + int64(size) - 1) / int64(size))
	number := requested
	switch {
	case total == 0:
		number = FirstPage
	case number > total:
		number = total
	}

	offset := 0
	if total > 0 {
		offset = (number - 1) * size
	}

	return Window{
		Number:     number,
		TotalPages: total,
		Count:      count,
		Offset:     offset,
		Limit:      size,
	}
}

// Page is one page of items with its navigation metadata.
type Page[T any] struct {
	Items       []T   `json:"items"`
	Number      int   `json:"page_number"`
	TotalPages  int   `json:"total_pages"`
	Count       int64 `json:"count"`
	HasPrevious bool  `json:"has_previous"`
	HasNext     bool  `json:"has_next"`
}

// NewPage pairs items fetched for w with w's metadata.
func NewPage[T any](w Window, items []T) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:       items,
		Number:      w.Number,
		TotalPages:  w.TotalPages,
		Count:       w.Count,
		HasPrevious: w.HasPrevious(),
		HasNext:     w.HasNext(),
	}
}

// Paginate cuts the requested page out of an in-memory sequence.
func Paginate[T any](p Paginator, seq []T, requested int) Page[T] {
	w := p.Window(int64(len(seq)), requested)
	if w.TotalPages == 0 {
		return NewPage[T](w, nil)
	}
	end := w.Offset + w.Limit
	if end > len(seq) {
		end = len(seq)
	}
	items := make([]T, end-w.Offset)
	copy(items, seq[w.Offset:end])
	return NewPage(w, items)
}
