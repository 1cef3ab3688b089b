package model

import "math"

// PageSize is the fixed number of rows returned per page.
const PageSize = 10

// Page is one zero-indexed page of a listing.
type Page[T any] struct {
	Items []T
	Index int // zero-indexed page requested
	Total int
}

// MaxPageIndex is the largest page index whose offset and one-indexed
// number still fit in an int.
const MaxPageIndex = math.MaxInt/PageSize - 1

// NormalizePageIndex clamps a requested page index to [0, MaxPageIndex].
func NormalizePageIndex(index int) int {
	switch {
	case index < 0:
		return 0
	case index > MaxPageIndex:
		return MaxPageIndex
	}
	return index
}

// PageOffset returns the row offset for a page index.
func PageOffset(index int) int {
	return NormalizePageIndex(index) * PageSize
}

// PageCount reports the number of pages for a row total.
// Exact multiples of PageSize report one trailing empty page; clients rely on it.
func PageCount(total int) int {
	return total/PageSize + 1
}

// Number returns the one-indexed page number reported to clients.
func (p Page[T]) Number() int {
	return p.Index + 1
}

// Pages returns the page count for the listing.
func (p Page[T]) Pages() int {
	return PageCount(p.Total)
}
