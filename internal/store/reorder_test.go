package store

import (
	"errors"
	"testing"
)

type row struct {
	id    int
	order int
	note  string
}

func newRowReorder(rows []row, save func([]row) error) *Reorder[row] {
	return NewReorder(rows,
		func(r row) int { return r.id },
		func(r *row, k int) { r.order = k },
		save)
}

func rowIDs(rows []row) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.id
	}
	return out
}

func TestReorderMoveRenumbers(t *testing.T) {
	r := newRowReorder([]row{{id: 1, order: 10}, {id: 2, order: 20}, {id: 3, order: 30}}, nil)

	r.Move(0, 2)

	items := r.Items()
	if got := rowIDs(items); got[0] != 2 || got[1] != 3 || got[2] != 1 {
		t.Fatalf("ids = %v", got)
	}
	for i, it := range items {
		if want := (i + 1) * 10; it.order != want {
			t.Fatalf("items[%d].order = %d, want %d", i, it.order, want)
		}
	}
	if !r.Dirty() {
		t.Fatal("Dirty = false after move")
	}
}

func TestReorderMoveOutOfRangeIsNoop(t *testing.T) {
	r := newRowReorder([]row{{id: 1}, {id: 2}}, nil)
	r.Move(-1, 0)
	r.Move(0, 5)
	r.Move(1, 1)
	if r.Dirty() {
		t.Fatal("Dirty = true after no-op moves")
	}
}

func TestReorderSaveClearsDirtyOnlyOnSuccess(t *testing.T) {
	fail := true
	var saved []row
	r := newRowReorder([]row{{id: 1}, {id: 2}}, func(items []row) error {
		if fail {
			return errors.New("boom")
		}
		saved = append([]row(nil), items...)
		return nil
	})

	r.Move(0, 1)
	if err := r.Save(); err == nil {
		t.Fatal("expected save error")
	}
	if !r.Dirty() {
		t.Fatal("Dirty cleared by failed save")
	}

	fail = false
	if err := r.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if r.Dirty() {
		t.Fatal("Dirty = true after successful save")
	}
	if got := rowIDs(saved); got[0] != 2 || got[1] != 1 {
		t.Fatalf("saved ids = %v", got)
	}
}

// Cancel restores ordering by re-deriving items by id, so content edits made
// during the session survive; only the order reverts.
func TestReorderCancelRestoresOrderNotContent(t *testing.T) {
	r := newRowReorder([]row{{id: 1, note: "a"}, {id: 2, note: "b"}, {id: 3, note: "c"}}, nil)

	r.Move(2, 0)
	r.Items()[0].note = "edited"

	r.Cancel()

	items := r.Items()
	if got := rowIDs(items); got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("ids after cancel = %v", got)
	}
	if items[2].note != "edited" {
		t.Fatalf("content edit lost on cancel: %+v", items[2])
	}
	for i, it := range items {
		if want := (i + 1) * 10; it.order != want {
			t.Fatalf("items[%d].order = %d, want %d", i, it.order, want)
		}
	}
	if r.Dirty() {
		t.Fatal("Dirty = true after cancel")
	}
}
