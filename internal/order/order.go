// Package order assigns and sorts the integer sort keys used by daily and
// template tasks. Keys are gap-based multiples of ten; the helpers here are
// pure and deterministic.
package order

import "sort"

// Spacing is the gap between consecutive sort keys. Key n of a renumbered
// sequence is (n+1)*Spacing.
const Spacing = 10

// Assign renumbers items in place: the item at index i gets key (i+1)*10.
// Running it again on its own output reproduces the same keys.
func Assign[T any](items []T, set func(*T, int)) {
	for i := range items {
		set(&items[i], (i+1)*Spacing)
	}
}

// Sort stable-sorts items by key, ascending or descending.
func Sort[T any](items []T, key func(T) int, ascending bool) {
	sort.SliceStable(items, func(i, j int) bool {
		if ascending {
			return key(items[i]) < key(items[j])
		}
		return key(items[i]) > key(items[j])
	})
}

// Pair is the minimal (id, order) projection sent for batch persistence.
type Pair struct {
	ID    int `json:"id"`
	Order int `json:"order"`
}

// Pairs projects items to their (id, order) pairs in slice order.
func Pairs[T any](items []T, id func(T) int, key func(T) int) []Pair {
	out := make([]Pair, 0, len(items))
	for _, it := range items {
		out = append(out, Pair{ID: id(it), Order: key(it)})
	}
	return out
}
