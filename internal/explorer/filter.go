package explorer

import (
	"strings"

	"golang.org/x/text/cases"

	"snapex/internal/listing"
)

// Matches reports whether filter is a case-insensitive substring of name.
// An empty filter matches everything.
func Matches(filter, name string) bool {
	if filter == "" {
		return true
	}
	// Casers are stateful and must not be shared.
	fold := cases.Fold()
	return strings.Contains(fold.String(name), fold.String(filter))
}

// VisibleSet returns the indices of entries whose name matches filter, in
// listing order.
func VisibleSet(entries []listing.Entry, filter string) []int {
	idx := make([]int, 0, len(entries))
	for i, e := range entries {
		if Matches(filter, e.Name) {
			idx = append(idx, i)
		}
	}
	return idx
}
