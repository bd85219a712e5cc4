package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestShouldUseColorFor(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		write bool
		want  bool
	}{
		{"buffer", nil, false, false},
		{"no color wins", map[string]string{"NO_COLOR": "1", "CLICOLOR_FORCE": "1"}, false, false},
		{"force", map[string]string{"CLICOLOR_FORCE": "1"}, false, true},
		{"clicolor off", map[string]string{"CLICOLOR": "0"}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "")
			t.Setenv("CLICOLOR_FORCE", "")
			t.Setenv("CLICOLOR", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if got := ShouldUseColorFor(&bytes.Buffer{}); got != tt.want {
				t.Errorf("ShouldUseColorFor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsTerminal_Buffer(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Fatal("a buffer is not a terminal")
	}
}

func TestRender_NoColor(t *testing.T) {
	SetColor(false)
	t.Cleanup(func() { SetColor(true) })

	if got := RenderState("settled"); got != "settled" {
		t.Errorf("RenderState = %q", got)
	}
	if got := RenderChange("+0.9%", true); got != "+0.9%" {
		t.Errorf("RenderChange = %q", got)
	}
	if got := Swatch("#00e6e6"); got != "  " {
		t.Errorf("Swatch = %q", got)
	}
}

func TestRender_Color(t *testing.T) {
	SetColor(true)

	if got := RenderState("revealing"); !strings.Contains(got, "\x1b[38;5;44m") {
		t.Errorf("RenderState(revealing) = %q", got)
	}
	if got := RenderChange("-1.2%", false); !strings.Contains(got, "\x1b[38;5;214m") {
		t.Errorf("RenderChange(down) = %q", got)
	}
	if got := Swatch("#00e6e6"); got != "\x1b[48;2;0;230;230m  \x1b[0m" {
		t.Errorf("Swatch = %q", got)
	}
	if got := Swatch("var(--accent)"); got != "  " {
		t.Errorf("Swatch(css var) = %q", got)
	}
}
