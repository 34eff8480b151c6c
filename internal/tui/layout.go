package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// truncLine forces a single line to at most width columns (ANSI-aware),
// appending an ellipsis when it had to cut.
func truncLine(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if xansi.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return xansi.Cut(s, 0, 1)
	}
	// Terminate ANSI styling to prevent bleed into the next cell.
	return xansi.Cut(s, 0, width-1) + "\x1b[0m…"
}

// padLine pads a line with spaces to exactly width columns (ANSI-aware).
func padLine(s string, width int) string {
	s = truncLine(s, width)
	if w := xansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
