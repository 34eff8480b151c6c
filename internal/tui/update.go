package tui

import (
	"context"
	"strings"

	"dayplan-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.booted {
			m.booted = true
			m.bootstrap()
			return m, m.tickToasts()
		}
		return m, nil

	case toastExpireMsg:
		m.expireToasts()
		return m, m.tickToasts()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.modal {
	case modalConfirm:
		return m, m.handleConfirmKey(msg)
	case modalInput:
		return m, m.handleInputKey(msg)
	case modalBuilder:
		return m, m.handleBuilderKey(msg)
	case modalHelp:
		switch msg.String() {
		case "esc", "q", "?":
			m.modal = modalNone
		}
		return m, nil
	}

	if m.filtering {
		return m, m.handleFilterKey(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?":
		m.modal = modalHelp
		return m, nil
	case "tab":
		m.tab = (m.tab + 1) % 5
		return m, nil
	case "shift+tab":
		m.tab = (m.tab + 4) % 5
		return m, nil
	case "1", "2", "3", "4", "5":
		m.tab = tab(int(msg.String()[0] - '1'))
		return m, nil
	}

	if !m.authed {
		return m, nil
	}

	switch m.tab {
	case tabDashboard:
		return m, m.handleDashboardKey(msg)
	case tabTemplates:
		return m, m.handleTemplatesKey(msg)
	case tabTasks:
		return m, m.handleTasksKey(msg)
	case tabLabels:
		return m, m.handleLabelsKey(msg)
	case tabProfile:
		return m, m.handleProfileKey(msg)
	}
	return m, nil
}

// openInput shows the one-line input modal; action runs on enter.
func (m *appModel) openInput(title, initial string, action func(m *appModel, value string)) {
	m.inputTitle = title
	m.inputAction = action
	m.input.SetValue(initial)
	m.input.CursorEnd()
	m.input.Focus()
	m.modal = modalInput
}

// openConfirm shows the confirm modal; action runs when confirmed.
func (m *appModel) openConfirm(title, body string, action func(m *appModel)) {
	m.confirmTitle = title
	m.confirmBody = body
	m.confirmFocus = confirmFocusConfirm
	m.confirmAction = action
	m.modal = modalConfirm
}

func (m *appModel) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "n":
		m.modal = modalNone
	case "tab", "left", "right", "h", "l":
		if m.confirmFocus == confirmFocusConfirm {
			m.confirmFocus = confirmFocusCancel
		} else {
			m.confirmFocus = confirmFocusConfirm
		}
	case "y":
		m.modal = modalNone
		m.confirmAction(m)
		return m.tickToasts()
	case "enter":
		m.modal = modalNone
		if m.confirmFocus == confirmFocusConfirm {
			m.confirmAction(m)
			return m.tickToasts()
		}
	}
	return nil
}

func (m *appModel) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.modal = modalNone
		m.input.Blur()
		return nil
	case "enter":
		m.modal = modalNone
		m.input.Blur()
		m.inputAction(m, m.input.Value())
		return m.tickToasts()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *appModel) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filterInput.Blur()
		m.filterInput.SetValue("")
		m.tasks.SetQuery("")
		return nil
	case "enter":
		m.filtering = false
		m.filterInput.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.tasks.SetQuery(m.filterInput.Value())
	m.taskCursor = 0
	return cmd
}

func (m *appModel) handleDashboardKey(msg tea.KeyMsg) tea.Cmd {
	ctx := context.Background()
	rows := m.dashRows()
	m.clampDashCursor(rows)

	// Reorder mode over the incomplete adhoc list captures J/K/s/esc.
	if m.reorder != nil {
		switch msg.String() {
		case "J":
			// The cursor follows the item, so it moves only when the item
			// does: at the bottom of the adhoc section both stay put.
			if i, ok := m.reorderIndex(rows); ok && i < len(m.reorder.Items())-1 {
				m.reorder.Move(i, i+1)
				m.dashCursor++
			}
			return nil
		case "K":
			if i, ok := m.reorderIndex(rows); ok && i > 0 {
				m.reorder.Move(i, i-1)
				m.dashCursor--
			}
			return nil
		case "s":
			if err := m.reorder.Save(); err == nil {
				m.reorder = nil
				m.toast(store.ToastSuccess, "Order saved")
			}
			return m.tickToasts()
		case "esc":
			m.reorder.Cancel()
			m.reorder = nil
			return nil
		}
	}

	switch msg.String() {
	case "j", "down":
		if m.dashCursor < len(rows)-1 {
			m.dashCursor++
		}
	case "k", "up":
		if m.dashCursor > 0 {
			m.dashCursor--
		}
	case "h", "left":
		_ = m.dash.PrevDay(ctx)
		m.dashCursor = 0
		return m.tickToasts()
	case "l", "right":
		_ = m.dash.NextDay(ctx)
		m.dashCursor = 0
		return m.tickToasts()
	case "t":
		_ = m.dash.GoToday(ctx)
		m.dashCursor = 0
		return m.tickToasts()
	case "g":
		_ = m.dash.Reload(ctx)
		return m.tickToasts()
	case " ", "enter":
		if m.dashCursor < len(rows) {
			row := rows[m.dashCursor]
			if row.section == sectionSchedule {
				_ = m.dash.ToggleTask(ctx, row.taskID)
			} else {
				_ = m.adhoc.Toggle(ctx, row.taskID)
			}
		}
		return m.tickToasts()
	case "c":
		_ = m.dash.CreateSchedule(ctx)
		return m.tickToasts()
	case "D":
		if m.dash.Schedule() != nil {
			m.openConfirm("Delete schedule",
				"Delete the schedule for "+m.dash.SelectedDate()+" and all its tasks?",
				func(m *appModel) { _ = m.dash.DeleteSchedule(context.Background()) })
		}
	case "a":
		due := m.dash.SelectedDate()
		m.openInput("New adhoc task (due "+due+")", "", func(m *appModel, v string) {
			_, _ = m.adhoc.Create(context.Background(), v, due, "")
		})
	case "x", "d":
		if m.dashCursor < len(rows) {
			row := rows[m.dashCursor]
			if row.section != sectionSchedule {
				id := row.taskID
				m.openConfirm("Delete task", "Delete \""+row.task.Title+"\"?",
					func(m *appModel) { _ = m.adhoc.Delete(context.Background(), id) })
			}
		}
	case "R":
		if m.dashCursor < len(rows) && rows[m.dashCursor].section == sectionAdhoc {
			m.reorder = m.adhoc.ReorderIncomplete(ctx)
		}
	case "f":
		// Cycle label filters: toggle the label of the selected task.
		if m.dashCursor < len(rows) {
			for _, l := range rows[m.dashCursor].task.Labels {
				m.adhoc.ToggleLabelFilter(l.ID)
			}
		}
	case "F":
		m.adhoc.ClearLabelFilters()
	case "y":
		if m.dashCursor < len(rows) {
			if err := copyToClipboard(rows[m.dashCursor].task.Title); err == nil {
				m.toast(store.ToastInfo, "Copied")
			}
		}
		return m.tickToasts()
	}
	return nil
}

// reorderIndex translates the dashboard cursor into an index within the
// reorder session's working list.
func (m *appModel) reorderIndex(rows []dashRow) (int, bool) {
	if m.reorder == nil || m.dashCursor >= len(rows) {
		return 0, false
	}
	row := rows[m.dashCursor]
	if row.section != sectionAdhoc {
		return 0, false
	}
	for i, t := range m.reorder.Items() {
		if t.ID == row.taskID {
			return i, true
		}
	}
	return 0, false
}

func (m *appModel) handleTemplatesKey(msg tea.KeyMsg) tea.Cmd {
	ctx := context.Background()
	all := m.templates.All()
	if m.tmplCursor >= len(all) {
		m.tmplCursor = len(all) - 1
	}
	if m.tmplCursor < 0 {
		m.tmplCursor = 0
	}

	switch msg.String() {
	case "j", "down":
		if m.tmplCursor < len(all)-1 {
			m.tmplCursor++
		}
	case "k", "up":
		if m.tmplCursor > 0 {
			m.tmplCursor--
		}
	case "g":
		_ = m.templates.Load(ctx)
		return m.tickToasts()
	case "n":
		m.openBuilder(nil)
	case "e", "enter":
		if m.tmplCursor < len(all) {
			if t, ok := m.templates.Find(all[m.tmplCursor].ID); ok {
				m.openBuilder(t)
			}
		}
	case "D":
		if m.tmplCursor < len(all) {
			_, _ = m.templates.Duplicate(ctx, all[m.tmplCursor].ID)
		}
		return m.tickToasts()
	case "d", "x":
		if m.tmplCursor < len(all) {
			t := all[m.tmplCursor]
			m.openConfirm("Delete template", "Delete template \""+t.Title+"\"?",
				func(m *appModel) { _ = m.templates.Delete(context.Background(), t.ID) })
		}
	}
	return nil
}

func (m *appModel) handleTasksKey(msg tea.KeyMsg) tea.Cmd {
	ctx := context.Background()
	filtered := m.tasks.Filtered()
	if m.taskCursor >= len(filtered) {
		m.taskCursor = len(filtered) - 1
	}
	if m.taskCursor < 0 {
		m.taskCursor = 0
	}

	switch msg.String() {
	case "j", "down":
		if m.taskCursor < len(filtered)-1 {
			m.taskCursor++
		}
	case "k", "up":
		if m.taskCursor > 0 {
			m.taskCursor--
		}
	case "/":
		m.filtering = true
		m.filterInput.Focus()
	case "g":
		_ = m.tasks.Load(ctx)
		return m.tickToasts()
	case "n":
		m.openInput("New task", "", func(m *appModel, v string) {
			_, _ = m.tasks.Create(context.Background(), v)
		})
	case "e", "enter":
		if m.taskCursor < len(filtered) {
			t := filtered[m.taskCursor]
			m.openInput("Rename task", t.Title, func(m *appModel, v string) {
				_ = m.tasks.Rename(context.Background(), t.ID, v)
			})
		}
	case "d", "x":
		if m.taskCursor < len(filtered) {
			t := filtered[m.taskCursor]
			body := "Delete \"" + t.Title + "\" from the task library?"
			if t.TemplateCount > 0 {
				body = "\"" + t.Title + "\" is used by " + strings.Join(t.TemplateNames, ", ") +
					". Deleting it removes it from them too. Continue?"
			}
			m.openConfirm("Delete task", body,
				func(m *appModel) { _ = m.tasks.Delete(context.Background(), t.ID) })
		}
	case "y":
		if m.taskCursor < len(filtered) {
			if err := copyToClipboard(filtered[m.taskCursor].Title); err == nil {
				m.toast(store.ToastInfo, "Copied")
			}
		}
		return m.tickToasts()
	}
	return nil
}

func (m *appModel) handleLabelsKey(msg tea.KeyMsg) tea.Cmd {
	ctx := context.Background()
	all := m.labels.All()
	if m.labelCursor >= len(all) {
		m.labelCursor = len(all) - 1
	}
	if m.labelCursor < 0 {
		m.labelCursor = 0
	}

	switch msg.String() {
	case "j", "down":
		if m.labelCursor < len(all)-1 {
			m.labelCursor++
		}
	case "k", "up":
		if m.labelCursor > 0 {
			m.labelCursor--
		}
	case "g":
		_ = m.labels.Load(ctx)
		return m.tickToasts()
	case "n":
		color := store.Palette[len(m.labels.All())%len(store.Palette)]
		m.openInput("New label", "", func(m *appModel, v string) {
			_, _ = m.labels.Create(context.Background(), v, color)
		})
	case "e", "enter":
		if m.labelCursor < len(all) {
			l := all[m.labelCursor]
			m.openInput("Rename label", l.Name, func(m *appModel, v string) {
				_ = m.labels.Update(context.Background(), l.ID, v, "")
			})
		}
	case "c":
		// Cycle the label through the palette.
		if m.labelCursor < len(all) {
			l := all[m.labelCursor]
			next := store.Palette[0]
			for i, p := range store.Palette {
				if strings.EqualFold(p, l.Color) {
					next = store.Palette[(i+1)%len(store.Palette)]
					break
				}
			}
			_ = m.labels.Update(ctx, l.ID, "", next)
		}
		return m.tickToasts()
	case "d", "x":
		if m.labelCursor < len(all) {
			l := all[m.labelCursor]
			m.openConfirm("Delete label", "Delete label \""+l.Name+"\"? Tasks keep their other labels.",
				func(m *appModel) { _ = m.labels.Delete(context.Background(), l.ID) })
		}
	}
	return nil
}

// Profile fields addressable by the cursor, in render order.
var profileFields = []string{"First name", "Last name", "Email", "Avatar"}

func (m *appModel) handleProfileKey(msg tea.KeyMsg) tea.Cmd {
	ctx := context.Background()
	p := m.profile.Current()

	switch msg.String() {
	case "j", "down":
		if m.profCursor < len(profileFields)-1 {
			m.profCursor++
		}
	case "k", "up":
		if m.profCursor > 0 {
			m.profCursor--
		}
	case "g":
		_ = m.profile.Load(ctx)
		return m.tickToasts()
	case "enter", "e":
		field := m.profCursor
		initial := [4]string{p.FirstName, p.LastName, p.Email, p.Avatar}[field]
		m.openInput(profileFields[field], initial, func(m *appModel, v string) {
			cur := m.profile.Current()
			switch field {
			case 0:
				cur.FirstName = v
			case 1:
				cur.LastName = v
			case 2:
				cur.Email = v
			case 3:
				cur.Avatar = v
			}
		})
	case "s":
		// Field errors land in the store; the view renders them inline.
		_ = m.profile.Save(ctx)
		return m.tickToasts()
	case "u":
		m.profile.Reset()
		m.toast(store.ToastInfo, "Edits discarded")
		return m.tickToasts()
	}
	return nil
}
