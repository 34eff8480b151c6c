package store

import "dayplan-cli/internal/order"

// Reorder is the generic list-reorder controller. Any store parametrizes it
// with its item type, id/key accessors and a save callback; the UI drives
// Move and either Save or Cancel.
//
// Cancel restores the original *ordering* by re-deriving items by id from the
// pre-session id sequence, not from a deep-cloned snapshot: item content
// mutated during the session survives a cancel, only order is restored.
type Reorder[T any] struct {
	items       []T
	originalIDs []int
	id          func(T) int
	setKey      func(*T, int)
	save        func(items []T) error
	dirty       bool
}

// NewReorder starts a reorder session over a copy of items.
func NewReorder[T any](items []T, id func(T) int, setKey func(*T, int), save func([]T) error) *Reorder[T] {
	cp := append([]T(nil), items...)
	ids := make([]int, len(cp))
	for i, it := range cp {
		ids[i] = id(it)
	}
	return &Reorder[T]{
		items:       cp,
		originalIDs: ids,
		id:          id,
		setKey:      setKey,
		save:        save,
	}
}

// Items returns the session's working list in its current order.
func (r *Reorder[T]) Items() []T { return r.items }

// Dirty reports whether the order changed since the session started or was
// last saved.
func (r *Reorder[T]) Dirty() bool { return r.dirty }

// Move shifts the item at index from to index to and renumbers the whole
// list with fresh gap-based keys.
func (r *Reorder[T]) Move(from, to int) {
	if from < 0 || from >= len(r.items) || to < 0 || to >= len(r.items) || from == to {
		return
	}
	it := r.items[from]
	items := append(append([]T(nil), r.items[:from]...), r.items[from+1:]...)
	items = append(items[:to], append([]T{it}, items[to:]...)...)
	r.items = items
	order.Assign(r.items, r.setKey)
	r.dirty = true
}

// Save persists the current order through the save callback. The dirty flag
// clears only on success.
func (r *Reorder[T]) Save() error {
	order.Assign(r.items, r.setKey)
	if err := r.save(r.items); err != nil {
		return err
	}
	r.dirty = false
	return nil
}

// Cancel restores the original id ordering and renumbers.
func (r *Reorder[T]) Cancel() {
	byID := make(map[int]T, len(r.items))
	for _, it := range r.items {
		byID[r.id(it)] = it
	}
	restored := make([]T, 0, len(r.originalIDs))
	for _, id := range r.originalIDs {
		if it, ok := byID[id]; ok {
			restored = append(restored, it)
		}
	}
	r.items = restored
	order.Assign(r.items, r.setKey)
	r.dirty = false
}
