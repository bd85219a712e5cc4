package ui

import (
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ShouldUseColor returns true when ANSI colors should be used on stdout.
// It respects NO_COLOR, CLICOLOR_FORCE, CLICOLOR, and TTY detection.
func ShouldUseColor() bool {
	return shouldUseColor(os.Stdout)
}

// ShouldUseColorFor is ShouldUseColor for an arbitrary writer. Writers that
// are not terminals never get color unless CLICOLOR_FORCE=1.
func ShouldUseColorFor(w io.Writer) bool {
	f, _ := w.(*os.File)
	return shouldUseColor(f)
}

func shouldUseColor(f *os.File) bool {
	// https://no-color.org: any non-empty value disables color.
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	// CLICOLOR_FORCE=1 forces color even without a TTY.
	if strings.TrimSpace(os.Getenv("CLICOLOR_FORCE")) == "1" {
		return true
	}
	// CLICOLOR=0 explicitly disables color.
	if strings.TrimSpace(os.Getenv("CLICOLOR")) == "0" {
		return false
	}
	if f == nil {
		return false
	}
	// Default: color if the file is a terminal.
	return term.IsTerminal(int(f.Fd()))
}

// IsTerminal reports whether w is a terminal. revealctl refuses to dump raw
// SVG onto one without --force.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
