package tui

import (
	"context"
	"time"

	"dayplan-cli/internal/api"
	"dayplan-cli/internal/model"
	"dayplan-cli/internal/store"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type tab int

const (
	tabDashboard tab = iota
	tabTemplates
	tabTasks
	tabLabels
	tabProfile
)

var tabNames = []string{"Dashboard", "Templates", "Tasks", "Labels", "Profile"}

type modalKind int

const (
	modalNone modalKind = iota
	modalConfirm
	modalInput
	modalBuilder
	modalHelp
)

// dashSection indexes the three lists stacked on the dashboard.
type dashSection int

const (
	sectionSchedule dashSection = iota
	sectionAdhoc
	sectionCompleted
)

type toastMsg struct {
	kind store.ToastKind
	text string
	at   time.Time
}

type toastExpireMsg struct{}

const toastTTL = 4 * time.Second

// tuiUI bridges the stores' notification interface onto the model. The TUI
// asks its own confirm modal *before* invoking a destructive store call, so
// store-level confirmation is always granted here.
type tuiUI struct {
	m *appModel
}

func (u tuiUI) Toast(kind store.ToastKind, msg string) {
	u.m.toasts = append(u.m.toasts, toastMsg{kind: kind, text: msg, at: time.Now()})
}

func (u tuiUI) Confirm(title, body string) bool { return true }

type appModel struct {
	client *api.Client

	auth      *store.Auth
	tasks     *store.Tasks
	templates *store.Templates
	labels    *store.Labels
	adhoc     *store.Adhoc
	dash      *store.Dashboard
	profile   *store.Profile
	builder   *store.Builder

	width  int
	height int

	booted bool
	authed bool

	tab tab

	// Dashboard cursor walks a flattened row list across the three sections.
	dashCursor int
	reorder    *store.Reorder[model.DailyTask]

	tmplCursor  int
	taskCursor  int
	labelCursor int

	filtering   bool
	filterInput textinput.Model

	modal       modalKind
	input       textinput.Model
	inputTitle  string
	inputAction func(m *appModel, value string)

	confirmTitle  string
	confirmBody   string
	confirmFocus  confirmModalFocus
	confirmAction func(m *appModel)

	// Builder modal state lives in builder_modal.go.
	bld builderModalState

	// Profile tab: field cursor plus a one-field edit modal.
	profCursor int

	toasts []toastMsg
}

func newAppModel(client *api.Client, rec store.Recorder) *appModel {
	m := &appModel{client: client}
	ui := tuiUI{m: m}

	m.auth = store.NewAuth(client, ui, rec)
	m.tasks = store.NewTasks(client, ui, rec)
	m.templates = store.NewTemplates(client, ui, rec)
	m.labels = store.NewLabels(client, ui, rec)
	m.adhoc = store.NewAdhoc(client, ui, rec)
	m.dash = store.NewDashboard(client, ui, rec, m.templates, m.adhoc)
	m.profile = store.NewProfile(client, ui, rec)
	m.builder = store.NewBuilder(client, ui, m.templates, m.tasks)

	fi := textinput.New()
	fi.Placeholder = "filter"
	fi.CharLimit = 120
	m.filterInput = fi

	in := textinput.New()
	in.CharLimit = 300
	m.input = in

	m.bld = newBuilderModalState()
	return m
}

func (m *appModel) Init() tea.Cmd {
	return nil
}

// bootstrap restores the session and loads every tab's data. Stores are
// synchronous, so this runs inline on the first sizing message.
func (m *appModel) bootstrap() {
	ctx := context.Background()
	if err := m.auth.Bootstrap(ctx); err != nil {
		return
	}
	m.authed = m.auth.Authenticated()
	if !m.authed {
		return
	}
	_ = m.templates.Init(ctx)
	_ = m.tasks.Init(ctx)
	_ = m.labels.Init(ctx)
	_ = m.dash.Init(ctx)
	_ = m.profile.Init(ctx)
}

func (m *appModel) toast(kind store.ToastKind, text string) {
	m.toasts = append(m.toasts, toastMsg{kind: kind, text: text, at: time.Now()})
}

func (m *appModel) expireToasts() {
	cutoff := time.Now().Add(-toastTTL)
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if t.at.After(cutoff) {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}

func (m *appModel) tickToasts() tea.Cmd {
	if len(m.toasts) == 0 {
		return nil
	}
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return toastExpireMsg{} })
}

// dashRow is one selectable line on the dashboard.
type dashRow struct {
	section dashSection
	taskID  int
	task    model.DailyTask
}

func (m *appModel) dashRows() []dashRow {
	var rows []dashRow
	if sched := m.dash.Schedule(); sched != nil {
		for _, t := range sched.Tasks {
			rows = append(rows, dashRow{section: sectionSchedule, taskID: t.ID, task: t})
		}
	}
	incomplete := m.adhoc.FilteredIncomplete()
	if m.reorder != nil {
		incomplete = m.reorder.Items()
	}
	for _, t := range incomplete {
		rows = append(rows, dashRow{section: sectionAdhoc, taskID: t.ID, task: t})
	}
	for _, t := range m.adhoc.Completed() {
		rows = append(rows, dashRow{section: sectionCompleted, taskID: t.ID, task: t})
	}
	return rows
}

func (m *appModel) clampDashCursor(rows []dashRow) {
	if m.dashCursor >= len(rows) {
		m.dashCursor = len(rows) - 1
	}
	if m.dashCursor < 0 {
		m.dashCursor = 0
	}
}
