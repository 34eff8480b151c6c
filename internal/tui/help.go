package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const helpMarkdown = `# Keys

## Everywhere

| Key | Action |
| --- | --- |
| tab / 1-5 | switch tab |
| g | reload current tab |
| ? | this help |
| q / ctrl+c | quit |

## Dashboard

| Key | Action |
| --- | --- |
| h / l | previous / next day |
| t | jump to today |
| j / k | move cursor |
| space | toggle done |
| c | create schedule from the weekday's template |
| D | delete the schedule |
| a | add adhoc task (due on the selected date) |
| d | delete adhoc task |
| R | reorder adhoc list (then J/K, s saves, esc cancels) |
| f / F | filter by the selected task's labels / clear filters |
| y | copy task title |

## Templates

n creates, e edits in the builder, D duplicates, d deletes.
Inside the builder: tab cycles fields, space toggles, J/K move a chosen
task, ctrl+s saves.

## Tasks, Labels, Profile

/ filters tasks. n/e/d manage entries. On the profile, enter edits the
selected field, s saves and u discards.
`

var (
	helpMu       sync.Mutex
	helpRenderer *glamour.TermRenderer
	helpRendered string
)

// viewHelp renders the help markdown once and caches it. A fixed style is
// used instead of WithAutoStyle, which can block probing the terminal.
func (m *appModel) viewHelp() string {
	helpMu.Lock()
	defer helpMu.Unlock()

	if helpRendered == "" {
		style := "light"
		if lipgloss.HasDarkBackground() {
			style = "dark"
		}
		if helpRenderer == nil {
			r, err := glamour.NewTermRenderer(
				glamour.WithStandardStyle(style),
				glamour.WithWordWrap(modalBodyWidth(m.width)),
			)
			if err == nil {
				helpRenderer = r
			}
		}
		if helpRenderer != nil {
			if out, err := helpRenderer.Render(helpMarkdown); err == nil {
				helpRendered = out
			}
		}
		if helpRendered == "" {
			helpRendered = helpMarkdown
		}
	}

	content := strings.TrimRight(helpRendered, "\n") + "\n\n" +
		styleMuted().Render("esc: close")
	return renderModalBox(m.width, "Help", content)
}
