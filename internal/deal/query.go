package deal

import (
	"net/url"
	"strconv"
	"strings"
)

// PageSize is the fixed list page size.
const PageSize = 9

// Query is the pagination and filter state of the deal list.
type Query struct {
	Page   int
	Search string
	Status Status
}

// Normalized clamps the page to >= 1 and trims the search term.
func (q Query) Normalized() Query {
	if q.Page < 1 {
		q.Page = 1
	}

	q.Search = strings.TrimSpace(q.Search)

	return q
}

// WithPage returns the query moved to the given page.
func (q Query) WithPage(page int) Query {
	q.Page = page

	return q.Normalized()
}

// WithFilters returns the query with new filters applied. Any filter
// change resets to the first page.
func (q Query) WithFilters(search string, status Status) Query {
	q.Search = search
	q.Status = status
	q.Page = 1

	return q.Normalized()
}

// Values renders the query as request parameters. Optional parameters are
// present only when set.
func (q Query) Values() url.Values {
	q = q.Normalized()

	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("size", strconv.Itoa(PageSize))

	if q.Search != "" {
		v.Set("search", q.Search)
	}

	if q.Status != "" {
		v.Set("status", string(q.Status))
	}

	return v
}

// TotalPages derives the page count from the server's total count.
// An empty list still has one page.
func TotalPages(count int) int {
	if count <= 0 {
		return 1
	}

	return (count + PageSize - 1) / PageSize
}

// PageWindow returns the sliding window of page numbers to offer: the
// current page plus up to two neighbours on each side.
func PageWindow(current, total int) []int {
	start := current - 2
	if start < 1 {
		start = 1
	}

	end := current + 2
	if end > total {
		end = total
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}

	return pages
}
