// Package palette maps the color roles used by the renderers to concrete
// paint values. Renderers only ever name a role; the page (or an exported
// file) decides what the role looks like.
package palette

import (
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
)

// Color roles.
const (
	Accent      = "accent"
	Mint        = "mint"
	Violet      = "violet"
	Brand       = "brand"
	Muted       = "muted"
	Text        = "text"
	White       = "white"
	Grid        = "grid"
	Baseline    = "baseline"
	LinkGlow    = "link-glow"
	GaugeLow    = "gauge-low"
	GaugeHigh   = "gauge-high"
	Transparent = "transparent"
)

// Fallback is used for a role with no mapping.
const Fallback = "currentColor"

// Palette maps role names to SVG paint values.
type Palette map[string]string

// Default resolves roles to the landing page's CSS custom properties, for
// drawings embedded in the page.
func Default() Palette {
	return Palette{
		Accent:      "var(--accent)",
		Mint:        "var(--mint)",
		Violet:      "var(--violet)",
		Brand:       "var(--brand)",
		Muted:       "var(--muted)",
		Text:        "var(--text)",
		White:       "white",
		Grid:        "rgba(255,255,255,.06)",
		Baseline:    "rgba(255,255,255,.08)",
		LinkGlow:    "rgba(0,230,230,.35)",
		GaugeLow:    "#f97316",
		GaugeHigh:   "#3b82f6",
		Transparent: "transparent",
	}
}

// Standalone resolves every role to a literal color, for files viewed
// outside the page stylesheet.
func Standalone() Palette {
	return Default().Merge(Palette{
		Accent: "#00e6e6",
		Mint:   "#34d399",
		Violet: "#8b5cf6",
		Brand:  "#f2a33a",
		Muted:  "#94a3b8",
		Text:   "#e2e8f0",
	})
}

// Color returns the paint for role, or Fallback.
func (p Palette) Color(role string) string {
	if c, ok := p[role]; ok && c != "" {
		return c
	}
	return Fallback
}

// Merge returns a copy of p with every entry of over applied on top.
func (p Palette) Merge(over Palette) Palette {
	out := make(Palette, len(p)+len(over))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// Roles returns the mapped role names in sorted order.
func (p Palette) Roles() []string {
	roles := make([]string, 0, len(p))
	for k := range p {
		roles = append(roles, k)
	}
	sort.Strings(roles)
	return roles
}

// File is the on-disk palette format:
//
//	base = "standalone"   # or "default"
//	[colors]
//	accent = "#00e6e6"
type File struct {
	Base   string            `toml:"base,omitempty"`
	Colors map[string]string `toml:"colors"`
}

// Load reads a palette file and merges its colors over the named base.
func Load(path string) (Palette, error) {
	var f File
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("reading palette %s: %w", path, err)
	}
	base, err := Named(f.Base)
	if err != nil {
		return nil, fmt.Errorf("palette %s: %w", path, err)
	}
	return base.Merge(f.Colors), nil
}

// LoadOrDefault returns Default when path is empty, otherwise Load(path).
func LoadOrDefault(path string) (Palette, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Named returns a built-in palette by name. The empty name is "default".
func Named(name string) (Palette, error) {
	switch name {
	case "", "default":
		return Default(), nil
	case "standalone":
		return Standalone(), nil
	}
	return nil, fmt.Errorf("unknown base palette %q", name)
}

// Save writes p as a palette file.
func Save(path string, p Palette) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(File{Colors: p})
}
