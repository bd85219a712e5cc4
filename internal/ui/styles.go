// Package ui styles revealctl's terminal output.
package ui

import (
	"fmt"
	"strconv"
	"strings"
)

// ANSI256 color codes picked to sit close to the landing page palette.
const (
	colorAccent = 44  // cyan
	colorBrand  = 214 // amber
	colorMint   = 78  // green
	colorCmd    = 250 // light gray
	colorMuted  = 245 // medium gray
)

var noColor bool

func render256(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderAccent returns s in the accent (cyan) color.
func RenderAccent(s string) string { return render256(colorAccent, s) }

// RenderBrand returns s in the brand (amber) color.
func RenderBrand(s string) string { return render256(colorBrand, s) }

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string { return render256(colorMuted, s) }

// RenderCommand returns s styled as a command name (light gray).
func RenderCommand(s string) string { return render256(colorCmd, s) }

// RenderState colors a reveal state name: idle muted, revealing accent,
// settled mint.
func RenderState(state string) string {
	switch state {
	case "revealing":
		return render256(colorAccent, state)
	case "settled":
		return render256(colorMint, state)
	}
	return render256(colorMuted, state)
}

// RenderChange colors a signed change label green when up and amber when down.
func RenderChange(label string, up bool) string {
	if up {
		return render256(colorMint, label)
	}
	return render256(colorBrand, label)
}

// Swatch returns a two-cell truecolor block for a "#rrggbb" value, or two
// spaces when the value is not a literal color or color is off.
func Swatch(value string) string {
	r, g, b, ok := parseHex(value)
	if noColor || !ok {
		return "  "
	}
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m", r, g, b)
}

func parseHex(s string) (r, g, b uint8, ok bool) {
	s, found := strings.CutPrefix(s, "#")
	if !found || len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}

// SetColor enables or disables color output globally.
func SetColor(enabled bool) {
	noColor = !enabled
}
