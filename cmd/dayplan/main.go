package main

import (
	"os"
	"strings"
	"time"

	"dayplan-cli/internal/cli"
)

func isDate(s string) bool {
	s = strings.TrimSpace(s)
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// rewriteDirectDateLookupArgs lets a bare date stand in for the schedule
// lookup: `dayplan 2026-09-01` becomes `dayplan schedule show 2026-09-01`.
// This happens before cobra parses argv, which would otherwise reject the
// date as an unknown subcommand.
func rewriteDirectDateLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	// The date can trail persistent flags (`dayplan --server ... <date>`),
	// so scan for the first positional token rather than assuming argv[1].
	// Only the root command's own flags are modeled here; anything
	// unrecognized is stepped over without consuming a value, so a flag can
	// never swallow the date.
	valueFlags := map[string]bool{
		"--server":  true,
		"--session": true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
		"--yes":    true,
		"-y":       true,
		"--debug":  true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isDate(argv[i+1]) {
				out := make([]string, 0, len(argv)+2)
				out = append(out, argv[:i+1]...)
				out = append(out, "schedule", "show")
				out = append(out, argv[i+1:]...)
				return out
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") {
				continue
			}
			if boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++ // the next token is this flag's value
				continue
			}
			continue
		}

		// a is the first positional token; rewrite only when it parses
		// as a date.
		if isDate(a) {
			out := make([]string, 0, len(argv)+2)
			out = append(out, argv[:i]...)
			out = append(out, "schedule", "show")
			out = append(out, argv[i:]...)
			return out
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectDateLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
