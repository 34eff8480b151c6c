package tui

import (
	"dayplan-cli/internal/api"
	"dayplan-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func Run(client *api.Client, rec store.Recorder) error {
	applyColorProfilePreference()
	applyThemePreference()
	m := newAppModel(client, rec)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
