package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"dayplan-cli/internal/api"
	"dayplan-cli/internal/model"
)

// Palette is the fixed set of pastel colors offered when creating a label.
// Suggestions only: the server accepts any #RRGGBB value.
var Palette = []string{
	"#FECACA", // red
	"#FDE68A", // amber
	"#FEF08A", // yellow
	"#D9F99D", // lime
	"#BBF7D0", // green
	"#A7F3D0", // emerald
	"#99F6E4", // teal
	"#BAE6FD", // sky
	"#C7D2FE", // indigo
	"#DDD6FE", // violet
	"#F5D0FE", // fuchsia
	"#FBCFE8", // pink
	"#E5E7EB", // gray
}

// Labels caches the user's labels.
type Labels struct {
	status
	client *api.Client
	ui     UI
	rec    Recorder

	labels []model.Label
}

func NewLabels(client *api.Client, ui UI, rec Recorder) *Labels {
	return &Labels{client: client, ui: orNopUI(ui), rec: orNopRecorder(rec)}
}

// Init loads the labels once; repeated calls are no-ops.
func (s *Labels) Init(ctx context.Context) error {
	if s.inited {
		return nil
	}
	s.inited = true
	return s.Load(ctx)
}

// Load refreshes the label list from the server.
func (s *Labels) Load(ctx context.Context) error {
	defer s.begin()()
	labels, err := s.client.ListLabels(ctx)
	if err != nil {
		s.err = err
		s.ui.Toast(ToastError, "Failed to load labels: "+err.Error())
		return err
	}
	s.labels = labels
	return nil
}

// All returns the labels sorted alphabetically by name.
func (s *Labels) All() []model.Label {
	out := append([]model.Label(nil), s.labels...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Find returns the cached label with the given id.
func (s *Labels) Find(id string) (*model.Label, bool) {
	for i := range s.labels {
		if s.labels[i].ID == id {
			return &s.labels[i], true
		}
	}
	return nil, false
}

// Create adds a label, pushes it into the cache and then reloads the full
// list so server-side normalization (trimming, duplicate checks) is
// reflected.
func (s *Labels) Create(ctx context.Context, name, color string) (*model.Label, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		s.ui.Toast(ToastWarning, "Label name is required")
		return nil, fmt.Errorf("label name is required")
	}
	created, err := s.client.CreateLabel(ctx, name, color)
	if err != nil {
		s.ui.Toast(ToastError, "Failed to create label: "+err.Error())
		return nil, err
	}
	s.labels = append(s.labels, *created)
	s.rec.Record("label.create", created.ID, map[string]any{"name": created.Name})
	s.ui.Toast(ToastSuccess, "Label created")
	if err := s.Load(ctx); err != nil {
		return created, nil // the push above already made the label visible
	}
	return created, nil
}

// Update renames and/or recolors a label.
func (s *Labels) Update(ctx context.Context, id, name, color string) error {
	updated, err := s.client.UpdateLabel(ctx, id, name, color)
	if err != nil {
		s.ui.Toast(ToastError, "Failed to update label: "+err.Error())
		return err
	}
	for i := range s.labels {
		if s.labels[i].ID == id {
			s.labels[i] = *updated
			break
		}
	}
	s.rec.Record("label.update", id, map[string]any{"name": updated.Name, "color": updated.Color})
	s.ui.Toast(ToastSuccess, "Label updated")
	return nil
}

// Delete removes a label after confirmation; tagged tasks just lose the tag.
func (s *Labels) Delete(ctx context.Context, id string) error {
	l, ok := s.Find(id)
	if !ok {
		return fmt.Errorf("label %s not found", id)
	}
	if !s.ui.Confirm("Delete label", fmt.Sprintf("Delete label %q? Tasks keep their other labels.", l.Name)) {
		return nil
	}
	if err := s.client.DeleteLabel(ctx, id); err != nil {
		s.ui.Toast(ToastError, "Failed to delete label: "+err.Error())
		return err
	}
	for i := range s.labels {
		if s.labels[i].ID == id {
			s.labels = append(s.labels[:i], s.labels[i+1:]...)
			break
		}
	}
	s.rec.Record("label.delete", id, nil)
	s.ui.Toast(ToastSuccess, "Label deleted")
	return nil
}
