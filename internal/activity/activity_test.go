package activity

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestLog(t *testing.T) *Log {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "nested", "activity.sqlite"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func TestAppendAndTailChronological(t *testing.T) {
	l := openTestLog(t)
	ctx := context.Background()

	for _, typ := range []string{"task.create", "task.rename", "task.delete"} {
		if err := l.Append(ctx, typ, "1", map[string]any{"title": "Water plants"}); err != nil {
			t.Fatalf("Append %s: %v", typ, err)
		}
		time.Sleep(2 * time.Millisecond) // distinct timestamps
	}

	entries, err := l.Tail(ctx, 0)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d", len(entries))
	}
	if entries[0].Type != "task.create" || entries[2].Type != "task.delete" {
		t.Fatalf("order = %s, %s, %s", entries[0].Type, entries[1].Type, entries[2].Type)
	}
	if !entries[0].TS.Before(entries[2].TS) {
		t.Fatalf("timestamps not ascending: %v >= %v", entries[0].TS, entries[2].TS)
	}
	payload, ok := entries[0].Payload.(map[string]any)
	if !ok || payload["title"] != "Water plants" {
		t.Fatalf("payload = %v", entries[0].Payload)
	}
}

func TestTailLimitKeepsNewest(t *testing.T) {
	l := openTestLog(t)
	ctx := context.Background()

	for _, id := range []string{"1", "2", "3", "4"} {
		if err := l.Append(ctx, "adhoc.complete", id, nil); err != nil {
			t.Fatalf("Append: %v", err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	entries, err := l.Tail(ctx, 2)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d", len(entries))
	}
	// Last two, still oldest-first.
	if entries[0].EntityID != "3" || entries[1].EntityID != "4" {
		t.Fatalf("entities = %s, %s", entries[0].EntityID, entries[1].EntityID)
	}
}

func TestRecordSwallowsFailures(t *testing.T) {
	l := openTestLog(t)
	l.Close()

	// Closed handle: Append errors, Record must not panic.
	l.Record("task.create", "1", nil)
	if err := l.Append(context.Background(), "task.create", "1", nil); err == nil {
		t.Fatal("append on closed log succeeded")
	}
}
