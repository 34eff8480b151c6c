package store

import (
	"context"
	"strings"

	"dayplan-cli/internal/api"
	"dayplan-cli/internal/model"
	"dayplan-cli/internal/order"
)

// Builder is the modal-scoped state for constructing or editing one
// template: a name, a weekday multi-select constrained by which weekdays
// other templates already claim, and a two-list (available / chosen) task
// picker. Opening the builder resets all of it.
//
// The chosen list's in-memory order is the sole source of truth for task
// order; the save step renumbers it with fresh gap-based keys.
type Builder struct {
	client    *api.Client
	ui        UI
	templates *Templates
	tasks     *Tasks

	editingID int // 0 = creating
	name      string
	weekdays  []string
	available []string // weekdays not claimed by other templates

	chosen         []model.TemplateTask
	availableTasks []model.Task
}

func NewBuilder(client *api.Client, ui UI, templates *Templates, tasks *Tasks) *Builder {
	return &Builder{client: client, ui: orNopUI(ui), templates: templates, tasks: tasks}
}

// Open resets the builder. A nil template means create mode; otherwise the
// builder edits that template and the weekday availability check excludes
// the template's own claims.
func (b *Builder) Open(ctx context.Context, t *model.Template) error {
	b.editingID = 0
	b.name = ""
	b.weekdays = nil
	b.chosen = nil

	if err := b.tasks.Init(ctx); err != nil {
		return err
	}

	exclude := 0
	if t != nil {
		b.editingID = t.ID
		b.name = t.Title
		b.weekdays = append([]string(nil), t.Weekdays...)
		b.chosen = append([]model.TemplateTask(nil), t.Tasks...)
		order.Sort(b.chosen, func(tt model.TemplateTask) int { return tt.Order }, true)
		exclude = t.ID
	}

	available, err := b.client.AvailableWeekdays(ctx, exclude)
	if err != nil {
		b.ui.Toast(ToastError, "Failed to load available weekdays: "+err.Error())
		return err
	}
	b.available = available

	b.rebuildAvailableTasks()
	return nil
}

// Editing reports whether the builder edits an existing template, and which.
func (b *Builder) Editing() (int, bool) { return b.editingID, b.editingID != 0 }

// Name returns the working template name.
func (b *Builder) Name() string { return b.name }

// SetName updates the working template name.
func (b *Builder) SetName(name string) { b.name = name }

// Weekdays returns the currently selected weekdays.
func (b *Builder) Weekdays() []string { return b.weekdays }

// WeekdayAvailable reports whether a weekday may be selected: it must not be
// claimed by another template (the edited template's own weekdays stay
// selectable).
func (b *Builder) WeekdayAvailable(weekday string) bool {
	for _, w := range b.available {
		if w == weekday {
			return true
		}
	}
	for _, w := range b.weekdays {
		if w == weekday {
			return true
		}
	}
	return false
}

// ToggleWeekday selects or deselects a weekday. Selecting a weekday owned by
// another template is refused with a warning toast.
func (b *Builder) ToggleWeekday(weekday string) {
	for i, w := range b.weekdays {
		if w == weekday {
			b.weekdays = append(b.weekdays[:i], b.weekdays[i+1:]...)
			return
		}
	}
	if !b.WeekdayAvailable(weekday) {
		owner := ""
		if t, ok := b.templates.ByWeekday(weekday); ok {
			owner = " (used by " + t.Title + ")"
		}
		b.ui.Toast(ToastWarning, weekday+" is already assigned to another template"+owner)
		return
	}
	b.weekdays = append(b.weekdays, weekday)
}

// Chosen returns the picked tasks in their working order.
func (b *Builder) Chosen() []model.TemplateTask { return b.chosen }

// AvailableTasks returns the library tasks not yet picked.
func (b *Builder) AvailableTasks() []model.Task { return b.availableTasks }

func (b *Builder) rebuildAvailableTasks() {
	picked := map[int]bool{}
	for _, tt := range b.chosen {
		picked[tt.ID] = true
	}
	b.availableTasks = nil
	for _, t := range b.tasks.All() {
		if !picked[t.ID] {
			b.availableTasks = append(b.availableTasks, t)
		}
	}
}

// AddTask moves a library task from the available list to the end of the
// chosen list.
func (b *Builder) AddTask(taskID int) {
	for _, tt := range b.chosen {
		if tt.ID == taskID {
			return
		}
	}
	t, ok := b.tasks.Find(taskID)
	if !ok {
		return
	}
	b.chosen = append(b.chosen, model.TemplateTask{ID: t.ID, Title: t.Title})
	order.Assign(b.chosen, func(tt *model.TemplateTask, key int) { tt.Order = key })
	b.rebuildAvailableTasks()
}

// RemoveTask moves a chosen task back to the available list.
func (b *Builder) RemoveTask(taskID int) {
	for i, tt := range b.chosen {
		if tt.ID == taskID {
			b.chosen = append(b.chosen[:i], b.chosen[i+1:]...)
			break
		}
	}
	order.Assign(b.chosen, func(tt *model.TemplateTask, key int) { tt.Order = key })
	b.rebuildAvailableTasks()
}

// MoveChosen shifts a chosen task from one position to another.
func (b *Builder) MoveChosen(from, to int) {
	if from < 0 || from >= len(b.chosen) || to < 0 || to >= len(b.chosen) || from == to {
		return
	}
	it := b.chosen[from]
	rest := append(append([]model.TemplateTask(nil), b.chosen[:from]...), b.chosen[from+1:]...)
	b.chosen = append(rest[:to], append([]model.TemplateTask{it}, rest[to:]...)...)
	order.Assign(b.chosen, func(tt *model.TemplateTask, key int) { tt.Order = key })
}

// CreateTask creates a library task inline and injects it straight into the
// chosen list.
func (b *Builder) CreateTask(ctx context.Context, title string) error {
	created, err := b.tasks.Create(ctx, title)
	if err != nil {
		return err
	}
	b.chosen = append(b.chosen, model.TemplateTask{ID: created.ID, Title: created.Title})
	order.Assign(b.chosen, func(tt *model.TemplateTask, key int) { tt.Order = key })
	b.rebuildAvailableTasks()
	return nil
}

// Valid checks the three save requirements and reports each failure
// independently via toast: a non-empty trimmed name, at least one weekday
// and at least one task.
func (b *Builder) Valid() bool {
	ok := true
	if strings.TrimSpace(b.name) == "" {
		b.ui.Toast(ToastWarning, "Template name is required")
		ok = false
	}
	if len(b.weekdays) == 0 {
		b.ui.Toast(ToastWarning, "Select at least one weekday")
		ok = false
	}
	if len(b.chosen) == 0 {
		b.ui.Toast(ToastWarning, "Add at least one task")
		ok = false
	}
	return ok
}

// Save validates and submits the template, creating or updating depending on
// how the builder was opened. Task orders are fresh gap-based keys taken
// from the chosen list's current order.
func (b *Builder) Save(ctx context.Context) (*model.Template, error) {
	if !b.Valid() {
		return nil, nil
	}
	order.Assign(b.chosen, func(tt *model.TemplateTask, key int) { tt.Order = key })
	in := api.TemplateInput{
		Title:    strings.TrimSpace(b.name),
		Weekdays: append([]string(nil), b.weekdays...),
		Tasks:    templateTaskRefs(b.chosen),
	}
	if b.editingID != 0 {
		return b.templates.Update(ctx, b.editingID, in)
	}
	return b.templates.Create(ctx, in)
}
