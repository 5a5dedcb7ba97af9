// Package paginator splits ordered listings into fixed-size pages.
//
// Page selection is forgiving: a page parameter that is not an integer
// yields the first page, and one outside 1..NumPages yields the last.
// An empty listing still has one (empty) page.
package paginator

import "strconv"

// Paginator describes how Count items divide into pages of PerPage.
type Paginator struct {
	Count    int
	PerPage  int
	NumPages int
}

// New returns a paginator for count items. perPage below 1 is treated as 1.
func New(count, perPage int) Paginator {
	if perPage < 1 {
		perPage = 1
	}
	if count < 0 {
		count = 0
	}
	pages := 1
	if count > 0 {
		pages = (count + perPage - 1) / perPage
	}
	return Paginator{Count: count, PerPage: perPage, NumPages: pages}
}

// Number resolves the raw page query value to a valid page number.
func (p Paginator) Number(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	if n < 1 || n > p.NumPages {
		return p.NumPages
	}
	return n
}

// Offset is the index of the first item on page number.
func (p Paginator) Offset(number int) int {
	return (number - 1) * p.PerPage
}

// Page is one resolved page. Fields rather than methods keep it usable
// from templates.
type Page[T any] struct {
	Objects            []T
	Number             int
	NumPages           int
	Count              int
	HasNext            bool
	HasPrevious        bool
	HasOtherPages      bool
	NextPageNumber     int
	PreviousPageNumber int
	// StartIndex and EndIndex are 1-based positions of the first and
	// last item on the page; both are 0 for an empty listing.
	StartIndex int
	EndIndex   int
	PageRange  []int
}

// NewPage wraps the objects fetched for page number.
func NewPage[T any](p Paginator, number int, objects []T) Page[T] {
	page := Page[T]{
		Objects:     objects,
		Number:      number,
		NumPages:    p.NumPages,
		Count:       p.Count,
		HasNext:     number < p.NumPages,
		HasPrevious: number > 1,
		PageRange:   make([]int, p.NumPages),
	}
	page.HasOtherPages = page.HasNext || page.HasPrevious
	if page.HasNext {
		page.NextPageNumber = number + 1
	}
	if page.HasPrevious {
		page.PreviousPageNumber = number - 1
	}
	if p.Count > 0 {
		page.StartIndex = p.Offset(number) + 1
		page.EndIndex = min(number*p.PerPage, p.Count)
	}
	for i := range page.PageRange {
		page.PageRange[i] = i + 1
	}
	if page.Objects == nil {
		page.Objects = []T{}
	}
	return page
}

