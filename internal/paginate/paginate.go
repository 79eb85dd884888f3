// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package paginate computes page windows over ordered result lists.
package paginate

// DefaultSize is the page size used when a caller passes a non-positive one.
const DefaultSize = 15

// Window describes one page of a list of Total items.
type Window struct {
	Page  int
	Pages int
	Size  int
	Total int
	// Start and End bound the page in the underlying list (End exclusive).
	Start int
	End   int
}

// Paginate clamps page into [1, pages] and returns its window. An empty
// list still has one (empty) page.
func Paginate(total, size, page int) Window {
	if size <= 0 {
		size = DefaultSize
	}
	if total < 0 {
		total = 0
	}
	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	page = max(1, min(page, pages))

	start := min((page-1)*size, total)
	end := min(start+size, total)
	return Window{Page: page, Pages: pages, Size: size, Total: total, Start: start, End: end}
}

// Slice returns the page of items selected by size and page.
func Slice[T any](items []T, size, page int) ([]T, Window) {
	w := Paginate(len(items), size, page)
	return items[w.Start:w.End], w
}
