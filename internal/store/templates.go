package store

import (
	"context"
	"fmt"
	"strconv"

	"dayplan-cli/internal/api"
	"dayplan-cli/internal/model"
	"dayplan-cli/internal/order"
)

// Templates caches the user's recurring templates and the weekday ownership
// derived from them. A weekday belongs to at most one template; the server
// enforces this on save and the lookup here mirrors it.
type Templates struct {
	status
	client *api.Client
	ui     UI
	rec    Recorder

	templates []model.Template
}

func NewTemplates(client *api.Client, ui UI, rec Recorder) *Templates {
	return &Templates{client: client, ui: orNopUI(ui), rec: orNopRecorder(rec)}
}

// Init loads the templates once; repeated calls are no-ops.
func (s *Templates) Init(ctx context.Context) error {
	if s.inited {
		return nil
	}
	s.inited = true
	return s.Load(ctx)
}

// Load refreshes the template list from the server.
func (s *Templates) Load(ctx context.Context) error {
	defer s.begin()()
	templates, err := s.client.ListTemplates(ctx)
	if err != nil {
		s.err = err
		s.ui.Toast(ToastError, "Failed to load templates: "+err.Error())
		return err
	}
	s.templates = templates
	return nil
}

// All returns every template.
func (s *Templates) All() []model.Template { return s.templates }

// Find returns the cached template with the given id.
func (s *Templates) Find(id int) (*model.Template, bool) {
	for i := range s.templates {
		if s.templates[i].ID == id {
			return &s.templates[i], true
		}
	}
	return nil, false
}

// ByWeekday returns the template owning a weekday, if any.
func (s *Templates) ByWeekday(weekday string) (*model.Template, bool) {
	for i := range s.templates {
		for _, w := range s.templates[i].Weekdays {
			if w == weekday {
				return &s.templates[i], true
			}
		}
	}
	return nil, false
}

// WeekdayIndex maps each claimed weekday to its owning template.
func (s *Templates) WeekdayIndex() map[string]*model.Template {
	out := map[string]*model.Template{}
	for i := range s.templates {
		for _, w := range s.templates[i].Weekdays {
			out[w] = &s.templates[i]
		}
	}
	return out
}

func (s *Templates) mergeTemplate(t model.Template) {
	for i := range s.templates {
		if s.templates[i].ID == t.ID {
			s.templates[i] = t
			return
		}
	}
	s.templates = append(s.templates, t)
}

// Create submits a new template and merges the server's record.
func (s *Templates) Create(ctx context.Context, in api.TemplateInput) (*model.Template, error) {
	created, err := s.client.CreateTemplate(ctx, in)
	if err != nil {
		s.ui.Toast(ToastError, "Failed to create template: "+err.Error())
		return nil, err
	}
	s.mergeTemplate(*created)
	s.rec.Record("template.create", strconv.Itoa(created.ID), map[string]any{"title": created.Title})
	s.ui.Toast(ToastSuccess, "Template created")
	return created, nil
}

// Update replaces a template's title, weekdays and task set.
func (s *Templates) Update(ctx context.Context, id int, in api.TemplateInput) (*model.Template, error) {
	updated, err := s.client.UpdateTemplate(ctx, id, in)
	if err != nil {
		s.ui.Toast(ToastError, "Failed to update template: "+err.Error())
		return nil, err
	}
	s.mergeTemplate(*updated)
	s.rec.Record("template.update", strconv.Itoa(id), map[string]any{"title": updated.Title})
	s.ui.Toast(ToastSuccess, "Template updated")
	return updated, nil
}

// Duplicate copies a template's title and task set into a new template.
// Weekdays are not copied: each weekday belongs to at most one template, so
// the copy starts unassigned.
func (s *Templates) Duplicate(ctx context.Context, id int) (*model.Template, error) {
	t, ok := s.Find(id)
	if !ok {
		return nil, fmt.Errorf("template %d not found", id)
	}
	in := api.TemplateInput{
		Title:    t.Title + " (copy)",
		Weekdays: []string{},
		Tasks:    templateTaskRefs(t.Tasks),
	}
	created, err := s.client.CreateTemplate(ctx, in)
	if err != nil {
		s.ui.Toast(ToastError, "Failed to duplicate template: "+err.Error())
		return nil, err
	}
	s.mergeTemplate(*created)
	s.rec.Record("template.duplicate", strconv.Itoa(created.ID), map[string]any{"source": id})
	s.ui.Toast(ToastSuccess, "Template duplicated")
	return created, nil
}

// Delete removes a template after confirmation. The server refuses when
// generated schedules still reference it.
func (s *Templates) Delete(ctx context.Context, id int) error {
	t, ok := s.Find(id)
	if !ok {
		return fmt.Errorf("template %d not found", id)
	}
	if !s.ui.Confirm("Delete template", fmt.Sprintf("Delete template %q?", t.Title)) {
		return nil
	}
	if err := s.client.DeleteTemplate(ctx, id); err != nil {
		s.ui.Toast(ToastError, "Failed to delete template: "+err.Error())
		return err
	}
	for i := range s.templates {
		if s.templates[i].ID == id {
			s.templates = append(s.templates[:i], s.templates[i+1:]...)
			break
		}
	}
	s.rec.Record("template.delete", strconv.Itoa(id), nil)
	s.ui.Toast(ToastSuccess, "Template deleted")
	return nil
}

// ReorderTasks starts a reorder session over a template's tasks. Saving
// renumbers the list and round-trips the whole template payload (the server
// replaces the association set on every write); nothing is saved on drop,
// only on the session's explicit save.
func (s *Templates) ReorderTasks(ctx context.Context, templateID int) (*Reorder[model.TemplateTask], error) {
	t, ok := s.Find(templateID)
	if !ok {
		return nil, fmt.Errorf("template %d not found", templateID)
	}
	title := t.Title
	weekdays := append([]string(nil), t.Weekdays...)
	return NewReorder(t.Tasks,
		func(tt model.TemplateTask) int { return tt.ID },
		func(tt *model.TemplateTask, key int) { tt.Order = key },
		func(items []model.TemplateTask) error {
			in := api.TemplateInput{Title: title, Weekdays: weekdays, Tasks: templateTaskRefs(items)}
			_, err := s.Update(ctx, templateID, in)
			return err
		},
	), nil
}

func templateTaskRefs(tasks []model.TemplateTask) []api.TemplateTaskRef {
	sorted := append([]model.TemplateTask(nil), tasks...)
	order.Sort(sorted, func(tt model.TemplateTask) int { return tt.Order }, true)
	refs := make([]api.TemplateTaskRef, 0, len(sorted))
	for _, tt := range sorted {
		refs = append(refs, api.TemplateTaskRef{TaskID: tt.ID, Order: tt.Order})
	}
	return refs
}
