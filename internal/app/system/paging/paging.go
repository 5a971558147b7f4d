// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the default number of rows returned by paged JSON lists.
const PageSize = 50

// MaxPageSize caps the "size" query parameter.
const MaxPageSize = 200

// Page is an offset window over a newest-first list.
type Page struct {
	Start int // 1-based index of the first row
	Size  int
}

// ParseStart extracts the human-friendly "start" query parameter (1-based index).
// Returns 1 if not present or invalid.
func ParseStart(r *http.Request) int {
	s := query.Get(r, "start")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// ParseSize extracts the "size" query parameter, falling back to PageSize
// and clamping to MaxPageSize.
func ParseSize(r *http.Request) int {
	s := query.Get(r, "size")
	if s == "" {
		return PageSize
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return PageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

// Parse reads both start and size from the request.
func Parse(r *http.Request) Page {
	return Page{Start: ParseStart(r), Size: ParseSize(r)}
}

// Offset is the number of rows to skip.
func (p Page) Offset() int64 { return int64(p.Start - 1) }

// LimitPlusOne returns Size+1 for look-ahead pagination
// (fetch one extra document to detect hasNext).
func (p Page) LimitPlusOne() int64 { return int64(p.Size + 1) }

// TrimPage trims a slice fetched with LimitPlusOne back to the page size
// and reports whether another page follows.
func TrimPage[T any](rows *[]T, p Page) (hasNext bool) {
	if len(*rows) > p.Size {
		*rows = (*rows)[:p.Size]
		return true
	}
	return false
}

// Range holds computed display range values for a paginated list.
type Range struct {
	Start     int `json:"start"`      // 1-based start index (0 if no results)
	End       int `json:"end"`        // 1-based end index (0 if no results)
	PrevStart int `json:"prev_start"` // start value for the previous page
	NextStart int `json:"next_start"` // start value for the next page
}

// ComputeRange calculates range values given the page and the number of
// rows actually returned.
func ComputeRange(p Page, shown int) Range {
	if shown == 0 {
		return Range{Start: 0, End: 0, PrevStart: 1, NextStart: 1}
	}

	prevStart := p.Start - p.Size
	if prevStart < 1 {
		prevStart = 1
	}

	return Range{
		Start:     p.Start,
		End:       p.Start + shown - 1,
		PrevStart: prevStart,
		NextStart: p.Start + shown,
	}
}
