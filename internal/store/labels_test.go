package store

import (
	"context"
	"net/http"
	"testing"

	"dayplan-cli/internal/model"
)

func labelsServer(t *testing.T) (*Labels, *fakeUI, *http.ServeMux) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/labels/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"labels": []model.Label{
			{ID: "a", Name: "errands", Color: "#FECACA"},
			{ID: "b", Name: "deep work", Color: "#BAE6FD"},
		}})
	})
	ui := &fakeUI{answer: true}
	return NewLabels(newTestClient(t, mux), ui, nil), ui, mux
}

func TestLabelsAllSortsByName(t *testing.T) {
	s, _, _ := labelsServer(t)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	all := s.All()
	if len(all) != 2 || all[0].Name != "deep work" || all[1].Name != "errands" {
		t.Fatalf("all = %+v", all)
	}
}

func TestLabelsCreateRejectsBlankName(t *testing.T) {
	s, ui, _ := labelsServer(t)
	if _, err := s.Create(context.Background(), "  ", Palette[0]); err == nil {
		t.Fatal("blank name accepted")
	}
	ui.hasToast(t, "Label name is required")
}

func TestLabelsCreateReloadsForServerNormalization(t *testing.T) {
	s, ui, mux := labelsServer(t)
	mux.HandleFunc("/api/labels/create/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, model.Label{ID: "c", Name: "health", Color: "#D9F99D"})
	})

	ctx := context.Background()
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	created, err := s.Create(ctx, " health ", "#D9F99D")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Name != "health" {
		t.Fatalf("created = %+v", created)
	}
	// The post-create reload replaced the cache with the list fixture.
	if len(s.All()) != 2 {
		t.Fatalf("cache = %+v", s.All())
	}
	ui.hasToast(t, "Label created")
}

func TestLabelsDeleteDeclinedSkipsNetwork(t *testing.T) {
	s, ui, _ := labelsServer(t)
	ui.answer = false

	ctx := context.Background()
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("declined delete returned error: %v", err)
	}
	if len(s.All()) != 2 {
		t.Fatal("label removed despite declined confirmation")
	}
}
