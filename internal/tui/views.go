package tui

import (
	"fmt"
	"strings"
	"time"

	"dayplan-cli/internal/model"
	"dayplan-cli/internal/store"

	"github.com/charmbracelet/lipgloss"
)

func (m *appModel) View() string {
	if m.width == 0 {
		return ""
	}

	switch m.modal {
	case modalConfirm:
		return overlayCentered(m.width, m.height,
			renderConfirmModal(m.width, m.confirmTitle, m.confirmBody, "Confirm", "Cancel", m.confirmFocus))
	case modalInput:
		bodyW := modalBodyWidth(m.width)
		content := renderInputLine(bodyW, m.input.View()) + "\n\n" +
			styleMuted().Render("enter: submit   esc: cancel")
		return overlayCentered(m.width, m.height, renderModalBox(m.width, m.inputTitle, content))
	case modalBuilder:
		return overlayCentered(m.width, m.height, m.viewBuilderModal())
	case modalHelp:
		return overlayCentered(m.width, m.height, m.viewHelp())
	}

	header := m.renderTabs()

	var body string
	switch {
	case !m.booted:
		body = styleMuted().Render("Loading…")
	case !m.authed:
		body = "Not signed in.\n\n" +
			styleMuted().Render("Run `dayplan login <email>` in a shell, then restart the dashboard.")
	default:
		switch m.tab {
		case tabDashboard:
			body = m.viewDashboard()
		case tabTemplates:
			body = m.viewTemplates()
		case tabTasks:
			body = m.viewTasks()
		case tabLabels:
			body = m.viewLabels()
		case tabProfile:
			body = m.viewProfile()
		}
	}

	footer := m.renderFooter()

	// Pin the footer to the bottom row.
	bodyH := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyH < 0 {
		bodyH = 0
	}
	body = lipgloss.NewStyle().Height(bodyH).MaxHeight(bodyH).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m *appModel) renderTabs() string {
	var cells []string
	for i, name := range tabNames {
		st := lipgloss.NewStyle().Padding(0, 2).Foreground(colorMuted)
		if tab(i) == m.tab {
			st = st.Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
		}
		cells = append(cells, st.Render(fmt.Sprintf("%d %s", i+1, name)))
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	return padLine(bar, m.width) + "\n"
}

func (m *appModel) renderFooter() string {
	if len(m.toasts) > 0 {
		t := m.toasts[len(m.toasts)-1]
		st := lipgloss.NewStyle().Padding(0, 1)
		switch t.kind {
		case store.ToastSuccess:
			st = st.Foreground(colorSuccess)
		case store.ToastError:
			st = st.Foreground(colorError)
		case store.ToastWarning:
			st = st.Foreground(colorWarning)
		default:
			st = st.Foreground(colorAccent)
		}
		return truncLine(st.Render(t.text), m.width)
	}

	var hint string
	switch m.tab {
	case tabDashboard:
		hint = "space: toggle  h/l: day  t: today  a: add  c: schedule  R: reorder  ?: help  q: quit"
		if m.reorder != nil {
			hint = "J/K: move  s: save order  esc: cancel reorder"
		}
	case tabTemplates:
		hint = "n: new  e: edit  D: duplicate  d: delete  ?: help  q: quit"
	case tabTasks:
		hint = "/: filter  n: new  e: rename  d: delete  y: copy  ?: help  q: quit"
	case tabLabels:
		hint = "n: new  e: rename  c: recolor  d: delete  ?: help  q: quit"
	case tabProfile:
		hint = "j/k: field  enter: edit  s: save  u: discard  ?: help  q: quit"
	}
	if m.filtering {
		return truncLine("/"+m.filterInput.View(), m.width)
	}
	return truncLine(styleMuted().Render(hint), m.width)
}

func labelBadges(labels []model.Label) string {
	if len(labels) == 0 {
		return ""
	}
	var parts []string
	for _, l := range labels {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(lipgloss.Color(l.Color)).
			Render("●"+l.Name))
	}
	return " " + strings.Join(parts, " ")
}

func (m *appModel) renderDashTask(t model.DailyTask, selected bool) string {
	box := "[ ] "
	st := lipgloss.NewStyle()
	if t.Completed {
		box = "[x] "
		st = st.Foreground(colorDone).Strikethrough(true)
	}
	line := "  " + box + st.Render(t.Title) + labelBadges(t.Labels)
	if t.Completed && t.CompletedAt != nil {
		line += styleMuted().Render("  " + t.CompletedAt.In(time.Local).Format("15:04"))
	}
	if selected {
		return styleSelected().Render(truncLine("> "+line[2:], m.width-2))
	}
	return truncLine(line, m.width-2)
}

func (m *appModel) viewDashboard() string {
	rows := m.dashRows()
	m.clampDashCursor(rows)

	var b strings.Builder

	date := m.dash.SelectedDate()
	day, _ := time.ParseInLocation("2006-01-02", date, time.Local)
	title := fmt.Sprintf("%s  %s", date, model.WeekdayOf(day))
	if date == m.dash.Today() {
		title += "  (today)"
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(title) + "\n\n")

	section := func(label string) {
		b.WriteString(lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render(label) + "\n")
	}

	idx := 0
	section("Schedule")
	if sched := m.dash.Schedule(); sched != nil {
		b.WriteString(styleMuted().Render("  from "+sched.Template.Title) + "\n")
		for range sched.Tasks {
			b.WriteString(m.renderDashTask(rows[idx].task, idx == m.dashCursor) + "\n")
			idx++
		}
		if len(sched.Tasks) == 0 {
			b.WriteString(styleMuted().Render("  (empty)") + "\n")
		}
	} else if t, ok := m.dash.TemplateForSelectedDate(); ok {
		b.WriteString(styleMuted().Render("  no schedule yet — press c to create one from \""+t.Title+"\"") + "\n")
	} else {
		b.WriteString(styleMuted().Render("  no template covers this weekday") + "\n")
	}
	b.WriteString("\n")

	label := "Adhoc"
	if m.reorder != nil {
		label = "Adhoc (reordering)"
	} else if len(m.adhoc.ActiveLabelFilters()) > 0 {
		label = "Adhoc (filtered)"
	}
	section(label)
	nAdhoc := 0
	for idx < len(rows) && rows[idx].section == sectionAdhoc {
		b.WriteString(m.renderDashTask(rows[idx].task, idx == m.dashCursor) + "\n")
		idx++
		nAdhoc++
	}
	if nAdhoc == 0 {
		b.WriteString(styleMuted().Render("  (none)") + "\n")
	}
	b.WriteString("\n")

	section("Done " + date)
	nDone := 0
	for idx < len(rows) && rows[idx].section == sectionCompleted {
		b.WriteString(m.renderDashTask(rows[idx].task, idx == m.dashCursor) + "\n")
		idx++
		nDone++
	}
	if nDone == 0 {
		b.WriteString(styleMuted().Render("  (none)") + "\n")
	}

	return b.String()
}

func (m *appModel) viewTemplates() string {
	var b strings.Builder
	all := m.templates.All()
	if len(all) == 0 {
		b.WriteString(styleMuted().Render("No templates yet — press n to create one.") + "\n")
	}
	for i, t := range all {
		line := fmt.Sprintf("%s  %s", t.Title, styleMuted().Render(strings.Join(t.Weekdays, ", ")))
		if i == m.tmplCursor {
			b.WriteString(styleSelected().Render(truncLine("> "+line, m.width-2)) + "\n")
		} else {
			b.WriteString(truncLine("  "+line, m.width-2) + "\n")
		}
		if i == m.tmplCursor {
			for _, tt := range t.Tasks {
				b.WriteString(styleMuted().Render(fmt.Sprintf("      %3d. %s", tt.Order, tt.Title)) + "\n")
			}
		}
	}
	return b.String()
}

func (m *appModel) viewTasks() string {
	var b strings.Builder
	if q := m.tasks.Query(); q != "" {
		b.WriteString(styleMuted().Render("filter: "+q) + "\n\n")
	}
	filtered := m.tasks.Filtered()
	if len(filtered) == 0 {
		b.WriteString(styleMuted().Render("No tasks — press n to add one.") + "\n")
	}
	for i, t := range filtered {
		line := t.Title
		if t.TemplateCount > 0 {
			line += styleMuted().Render(fmt.Sprintf("  (%d templates)", t.TemplateCount))
		}
		if i == m.taskCursor {
			b.WriteString(styleSelected().Render(truncLine("> "+line, m.width-2)) + "\n")
		} else {
			b.WriteString(truncLine("  "+line, m.width-2) + "\n")
		}
	}
	return b.String()
}

func (m *appModel) viewLabels() string {
	var b strings.Builder
	all := m.labels.All()
	if len(all) == 0 {
		b.WriteString(styleMuted().Render("No labels — press n to add one.") + "\n")
	}
	for i, l := range all {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(l.Color)).Render("●")
		line := dot + " " + l.Name + "  " + styleMuted().Render(l.Color)
		if i == m.labelCursor {
			b.WriteString(styleSelected().Render(truncLine("> "+line, m.width-2)) + "\n")
		} else {
			b.WriteString(truncLine("  "+line, m.width-2) + "\n")
		}
	}
	return b.String()
}

func (m *appModel) viewProfile() string {
	var b strings.Builder
	p := m.profile.Current()
	values := [4]string{p.FirstName, p.LastName, p.Email, p.Avatar}
	errKeys := [4]string{"first_name", "last_name", "email", "avatar"}

	for i, name := range profileFields {
		val := values[i]
		if val == "" {
			val = styleMuted().Render("(unset)")
		}
		line := fmt.Sprintf("%-12s %s", name, val)
		if i == m.profCursor {
			b.WriteString(styleSelected().Render(truncLine("> "+line, m.width-2)) + "\n")
		} else {
			b.WriteString(truncLine("  "+line, m.width-2) + "\n")
		}
		if msg, ok := m.profile.FieldErrors[errKeys[i]]; ok {
			b.WriteString("  " + lipgloss.NewStyle().Foreground(colorError).Render(msg) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styleMuted().Render("Username:    "+p.Username) + "\n")
	b.WriteString(styleMuted().Render("Joined:      "+p.DateJoined) + "\n")
	b.WriteString(styleMuted().Render("Last login:  "+p.LastLogin) + "\n")
	if m.profile.Dirty() {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(colorWarning).Render("Unsaved changes — press s to save, u to discard.") + "\n")
	}
	return b.String()
}
