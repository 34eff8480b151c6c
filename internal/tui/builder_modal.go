package tui

import (
	"context"
	"strings"

	"dayplan-cli/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// The template builder modal: a name field, a weekday multi-select and a
// two-list task picker, all backed by the builder store. Tab cycles focus.

type builderFocus int

const (
	bFocusName builderFocus = iota
	bFocusWeekdays
	bFocusAvailable
	bFocusChosen
	bFocusNewTask
)

type builderModalState struct {
	focus    builderFocus
	name     textinput.Model
	newTask  textinput.Model
	wdCursor int
	avCursor int
	chCursor int
}

func newBuilderModalState() builderModalState {
	name := textinput.New()
	name.Placeholder = "template name"
	name.CharLimit = 200

	newTask := textinput.New()
	newTask.Placeholder = "new task title"
	newTask.CharLimit = 300

	return builderModalState{name: name, newTask: newTask}
}

func (m *appModel) openBuilder(t *model.Template) {
	if err := m.builder.Open(context.Background(), t); err != nil {
		return
	}
	m.bld.focus = bFocusName
	m.bld.name.SetValue(m.builder.Name())
	m.bld.name.Focus()
	m.bld.newTask.SetValue("")
	m.bld.newTask.Blur()
	m.bld.wdCursor = 0
	m.bld.avCursor = 0
	m.bld.chCursor = 0
	m.modal = modalBuilder
}

func (m *appModel) closeBuilder() {
	m.bld.name.Blur()
	m.bld.newTask.Blur()
	m.modal = modalNone
}

func (m *appModel) builderSetFocus(f builderFocus) {
	m.bld.focus = f
	m.bld.name.Blur()
	m.bld.newTask.Blur()
	switch f {
	case bFocusName:
		m.bld.name.Focus()
	case bFocusNewTask:
		m.bld.newTask.Focus()
	}
}

func (m *appModel) handleBuilderKey(msg tea.KeyMsg) tea.Cmd {
	ctx := context.Background()

	switch msg.String() {
	case "esc":
		m.closeBuilder()
		return nil
	case "tab":
		m.builderSetFocus((m.bld.focus + 1) % 5)
		return nil
	case "shift+tab":
		m.builderSetFocus((m.bld.focus + 4) % 5)
		return nil
	case "ctrl+s":
		m.builder.SetName(m.bld.name.Value())
		saved, err := m.builder.Save(ctx)
		if err == nil && saved != nil {
			m.closeBuilder()
			// Weekday coverage may have changed for the selected date.
			_ = m.dash.Reload(ctx)
		}
		return m.tickToasts()
	}

	switch m.bld.focus {
	case bFocusName:
		var cmd tea.Cmd
		m.bld.name, cmd = m.bld.name.Update(msg)
		m.builder.SetName(m.bld.name.Value())
		return cmd

	case bFocusWeekdays:
		switch msg.String() {
		case "h", "left", "k", "up":
			if m.bld.wdCursor > 0 {
				m.bld.wdCursor--
			}
		case "l", "right", "j", "down":
			if m.bld.wdCursor < len(model.Weekdays)-1 {
				m.bld.wdCursor++
			}
		case " ", "enter":
			m.builder.ToggleWeekday(model.Weekdays[m.bld.wdCursor])
			return m.tickToasts()
		}

	case bFocusAvailable:
		avail := m.builder.AvailableTasks()
		switch msg.String() {
		case "j", "down":
			if m.bld.avCursor < len(avail)-1 {
				m.bld.avCursor++
			}
		case "k", "up":
			if m.bld.avCursor > 0 {
				m.bld.avCursor--
			}
		case " ", "enter":
			if m.bld.avCursor < len(avail) {
				m.builder.AddTask(avail[m.bld.avCursor].ID)
				if m.bld.avCursor >= len(m.builder.AvailableTasks()) && m.bld.avCursor > 0 {
					m.bld.avCursor--
				}
			}
		}

	case bFocusChosen:
		chosen := m.builder.Chosen()
		switch msg.String() {
		case "j", "down":
			if m.bld.chCursor < len(chosen)-1 {
				m.bld.chCursor++
			}
		case "k", "up":
			if m.bld.chCursor > 0 {
				m.bld.chCursor--
			}
		case "J":
			m.builder.MoveChosen(m.bld.chCursor, m.bld.chCursor+1)
			if m.bld.chCursor < len(chosen)-1 {
				m.bld.chCursor++
			}
		case "K":
			m.builder.MoveChosen(m.bld.chCursor, m.bld.chCursor-1)
			if m.bld.chCursor > 0 {
				m.bld.chCursor--
			}
		case " ", "enter", "x":
			if m.bld.chCursor < len(chosen) {
				m.builder.RemoveTask(chosen[m.bld.chCursor].ID)
				if m.bld.chCursor >= len(m.builder.Chosen()) && m.bld.chCursor > 0 {
					m.bld.chCursor--
				}
			}
		}

	case bFocusNewTask:
		if msg.String() == "enter" {
			title := strings.TrimSpace(m.bld.newTask.Value())
			if title != "" {
				if err := m.builder.CreateTask(ctx, title); err == nil {
					m.bld.newTask.SetValue("")
				}
			}
			return m.tickToasts()
		}
		var cmd tea.Cmd
		m.bld.newTask, cmd = m.bld.newTask.Update(msg)
		return cmd
	}
	return nil
}

func (m *appModel) viewBuilderModal() string {
	bodyW := modalBodyWidth(m.width)

	section := func(label string, focused bool) string {
		st := styleMuted()
		if focused {
			st = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
		}
		return st.Render(label)
	}

	var b strings.Builder

	b.WriteString(section("Name", m.bld.focus == bFocusName) + "\n")
	b.WriteString(renderInputLine(bodyW, m.bld.name.View()) + "\n\n")

	b.WriteString(section("Weekdays", m.bld.focus == bFocusWeekdays) + "\n")
	var days []string
	selected := map[string]bool{}
	for _, w := range m.builder.Weekdays() {
		selected[w] = true
	}
	for i, w := range model.Weekdays {
		short := w[:3]
		st := lipgloss.NewStyle().Padding(0, 1)
		switch {
		case selected[w]:
			st = st.Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
		case !m.builder.WeekdayAvailable(w):
			st = st.Foreground(colorDone).Strikethrough(true)
		default:
			st = st.Foreground(colorSurfaceFg)
		}
		if m.bld.focus == bFocusWeekdays && i == m.bld.wdCursor {
			st = st.Underline(true)
		}
		days = append(days, st.Render(short))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, days...) + "\n\n")

	renderTaskList := func(label string, focused bool, lines []string, cursor int) {
		b.WriteString(section(label, focused) + "\n")
		if len(lines) == 0 {
			b.WriteString(styleMuted().Render("  (none)") + "\n")
		}
		for i, ln := range lines {
			prefix := "  "
			st := lipgloss.NewStyle()
			if focused && i == cursor {
				prefix = "> "
				st = styleSelected()
			}
			b.WriteString(st.Render(truncLine(prefix+ln, bodyW)) + "\n")
		}
		b.WriteString("\n")
	}

	var chosenLines []string
	for _, t := range m.builder.Chosen() {
		chosenLines = append(chosenLines, t.Title)
	}
	renderTaskList("Tasks (space removes, J/K moves)", m.bld.focus == bFocusChosen, chosenLines, m.bld.chCursor)

	var availLines []string
	for _, t := range m.builder.AvailableTasks() {
		availLines = append(availLines, t.Title)
	}
	renderTaskList("Library (space adds)", m.bld.focus == bFocusAvailable, availLines, m.bld.avCursor)

	b.WriteString(section("New task", m.bld.focus == bFocusNewTask) + "\n")
	b.WriteString(renderInputLine(bodyW, m.bld.newTask.View()) + "\n\n")

	b.WriteString(styleMuted().Render("tab: focus   ctrl+s: save   esc: discard"))

	title := "New template"
	if _, editing := m.builder.Editing(); editing {
		title = "Edit template"
	}
	return renderModalBox(m.width, title, b.String())
}
