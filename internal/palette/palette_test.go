package palette

import (
	"os"
	"path/filepath"
	"testing"
)

func TestColorFallback(t *testing.T) {
	p := Default()
	if got := p.Color(Accent); got != "var(--accent)" {
		t.Errorf("Color(accent) = %q", got)
	}
	if got := p.Color("no-such-role"); got != Fallback {
		t.Errorf("unknown role = %q, want %q", got, Fallback)
	}
	if got := (Palette{Accent: ""}).Color(Accent); got != Fallback {
		t.Errorf("empty mapping = %q, want %q", got, Fallback)
	}
	var nilPalette Palette
	if got := nilPalette.Color(Accent); got != Fallback {
		t.Errorf("nil palette = %q, want %q", got, Fallback)
	}
}

func TestStandaloneHasNoCSSVariables(t *testing.T) {
	for role, c := range Standalone() {
		if len(c) >= 4 && c[:4] == "var(" {
			t.Errorf("standalone role %s = %q still references a CSS variable", role, c)
		}
	}
}

func TestMergeDoesNotMutate(t *testing.T) {
	base := Default()
	merged := base.Merge(Palette{Accent: "#ff0000"})
	if base[Accent] != "var(--accent)" {
		t.Error("Merge mutated the receiver")
	}
	if merged[Accent] != "#ff0000" {
		t.Errorf("merged accent = %q", merged[Accent])
	}
	if merged[Mint] != "var(--mint)" {
		t.Errorf("merged mint = %q, want base value", merged[Mint])
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "palette.toml")
	content := `base = "standalone"

[colors]
accent = "#123456"
custom = "tomato"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Color(Accent) != "#123456" {
		t.Errorf("accent = %q", p.Color(Accent))
	}
	if p.Color("custom") != "tomato" {
		t.Errorf("custom = %q", p.Color("custom"))
	}
	if p.Color(Mint) != "#34d399" {
		t.Errorf("mint = %q, want standalone base", p.Color(Mint))
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte(`base = "neon"`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected error for unknown base")
	}
}

func TestLoadOrDefault(t *testing.T) {
	p, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if p.Color(Accent) != "var(--accent)" {
		t.Errorf("accent = %q", p.Color(Accent))
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.toml")
	want := Standalone()
	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, role := range want.Roles() {
		if got.Color(role) != want.Color(role) {
			t.Errorf("%s = %q, want %q", role, got.Color(role), want.Color(role))
		}
	}
}
