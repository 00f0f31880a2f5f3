// Package paginate splits a listing into fixed-size pages.
package paginate

import (
	"trainsite/internal/domain/content"
	"trainsite/internal/domain/site"
)

// Window is one page of a listing.
type Window struct {
	Path  string
	Items []content.Node
	site.Pagination
}

// Count is the number of pages needed for total items.
func Count(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Paginate cuts items into pages of size. Page 1 lives at prefix and page n
// at prefix/n. No items means no pages.
func Paginate(items []content.Node, size int, prefix string) []Window {
	n := Count(len(items), size)
	out := make([]Window, 0, n)
	for i := 0; i < n; i++ {
		lo := i * size
		hi := min(lo+size, len(items))

		w := Window{
			Path:  site.PagePath(prefix, i+1),
			Items: items[lo:hi],
			Pagination: site.Pagination{
				PageNumber:      i,
				HumanPageNumber: i + 1,
				Skip:            lo,
				Limit:           size,
				NumberOfPages:   n,
			},
		}
		if i > 0 {
			w.PreviousPagePath = site.PagePath(prefix, i)
		}
		if i < n-1 {
			w.NextPagePath = site.PagePath(prefix, i+2)
		}
		out = append(out, w)
	}
	return out
}

// IDs returns the identifiers of the window's items.
func (w Window) IDs() []string {
	ids := make([]string, 0, len(w.Items))
	for _, it := range w.Items {
		ids = append(ids, it.ID)
	}
	return ids
}
