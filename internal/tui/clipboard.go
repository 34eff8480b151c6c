package tui

import (
	"errors"
	"os/exec"
	"runtime"
	"strings"
)

// clipboardCommands lists the writer candidates per OS, tried in order.
// Linux prefers Wayland, then the X11 tools.
var clipboardCommands = map[string][][]string{
	"darwin": {
		{"pbcopy"},
	},
	"windows": {
		{"cmd", "/c", "clip"},
		{"powershell", "-NoProfile", "-Command", "Set-Clipboard"},
	},
	"linux": {
		{"wl-copy"},
		{"xclip", "-selection", "clipboard"},
		{"xsel", "--clipboard", "--input"},
	},
}

func copyToClipboard(s string) error {
	s = strings.ReplaceAll(s, "\r\n", "\n")

	candidates, ok := clipboardCommands[runtime.GOOS]
	if !ok {
		candidates = clipboardCommands["linux"]
	}
	var lastErr error
	for _, argv := range candidates {
		if _, err := exec.LookPath(argv[0]); err != nil {
			lastErr = err
			continue
		}
		cmd := exec.Command(argv[0], argv[1:]...)
		cmd.Stdin = strings.NewReader(s)
		if err := cmd.Run(); err != nil {
			lastErr = errors.New(argv[0] + ": " + err.Error())
			continue
		}
		return nil
	}
	if lastErr == nil {
		lastErr = errors.New("no clipboard tool found")
	}
	return lastErr
}
