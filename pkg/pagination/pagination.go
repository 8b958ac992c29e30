// Package pagination turns a total count and a requested page into a clamped window.
package pagination

import (
	"strconv"
	"strings"

	"anoa.com/blogfeed/pkg/dto"
)

// DefaultSize is used when a non-positive size is requested.
const DefaultSize = 10

type Page struct {
	Number     int
	Size       int
	TotalItems int64
	TotalPages int
}

// New clamps requested into [1, TotalPages]. Non-numeric input selects the first page.
// An empty sequence still has one (empty) page.
func New(total int64, size int, requested string) Page {
	if size < 1 {
		size = DefaultSize
	}
	if total < 0 {
		total = 0
	}

	pages := int((total + int64(size) - 1) / int64(size))
	if pages < 1 {
		pages = 1
	}

	n := ParseNumber(requested)
	if n > pages {
		n = pages
	}

	return Page{
		Number:     n,
		Size:       size,
		TotalItems: total,
		TotalPages: pages,
	}
}

// ParseNumber reads a 1-based page number, defaulting to 1.
func ParseNumber(requested string) int {
	n, err := strconv.Atoi(strings.TrimSpace(requested))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

func (p Page) Limit() int {
	return p.Size
}

func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}

func (p Page) HasPrevious() bool {
	return p.Number > 1
}

func (p Page) Meta() dto.PaginationMeta {
	return dto.PaginationMeta{
		CurrentPage: p.Number,
		TotalPages:  p.TotalPages,
		TotalItems:  p.TotalItems,
		Limit:       p.Size,
		HasNext:     p.HasNext(),
		HasPrevious: p.HasPrevious(),
	}
}
