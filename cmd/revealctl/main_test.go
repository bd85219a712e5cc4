package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alfredjeanlab/reveal/internal/events"
	"github.com/alfredjeanlab/reveal/internal/export"
	"github.com/alfredjeanlab/reveal/internal/palette"
	"github.com/alfredjeanlab/reveal/internal/render"
	"github.com/alfredjeanlab/reveal/internal/ui"
)

func TestColorizeHelpOutput(t *testing.T) {
	ui.SetColor(true)
	in := "Charts:\n  render      Render a chart to SVG\n\nFlags:\n      --seed int64   generator seed (default 42)\n"
	out := colorizeHelpOutput(in)

	if !strings.Contains(out, ui.RenderAccent("Charts:")) {
		t.Errorf("group header not colored:\n%q", out)
	}
	if !strings.Contains(out, "  "+ui.RenderCommand("render")+"  ") {
		t.Errorf("command not colored:\n%q", out)
	}
	if !strings.Contains(out, ui.RenderMuted("int64")) {
		t.Errorf("flag type not colored as a whole:\n%q", out)
	}
	if !strings.Contains(out, ui.RenderMuted("(default 42)")) {
		t.Errorf("default not colored:\n%q", out)
	}
}

func TestRootCommand_Groups(t *testing.T) {
	want := map[string]string{
		"render": "charts", "series": "charts", "tickers": "charts",
		"mount": "live", "reveal": "live", "dispose": "live", "status": "live", "watch": "live",
		"serve": "system", "export": "system", "palette": "system", "health": "system",
	}
	for _, c := range rootCmd.Commands() {
		if g, ok := want[c.Name()]; ok {
			if c.GroupID != g {
				t.Errorf("%s: group %q, want %q", c.Name(), c.GroupID, g)
			}
			delete(want, c.Name())
		}
	}
	for name := range want {
		t.Errorf("command %s not registered", name)
	}
}

func TestRenderLocal(t *testing.T) {
	for _, kind := range render.Kinds {
		shown, err := renderLocal(kind, 42, true, palette.Standalone())
		if err != nil {
			t.Fatalf("%s: %v", kind, err)
		}
		if !strings.Contains(string(shown), `class="chart chart-`+string(kind)+` on"`) {
			t.Errorf("%s: expected revealed render", kind)
		}
		hidden, err := renderLocal(kind, 42, false, palette.Standalone())
		if err != nil {
			t.Fatalf("%s: %v", kind, err)
		}
		if strings.Contains(string(hidden), " on\"") {
			t.Errorf("%s: expected hidden render", kind)
		}
	}
}

func TestResolvePalette(t *testing.T) {
	pal, err := resolvePalette("", "")
	if err != nil {
		t.Fatal(err)
	}
	if pal.Color(palette.Accent) != "#00e6e6" {
		t.Errorf("CLI default should be standalone, accent = %q", pal.Color(palette.Accent))
	}

	path := filepath.Join(t.TempDir(), "brand.toml")
	if err := os.WriteFile(path, []byte("base = \"standalone\"\n[colors]\naccent = \"#ff0000\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	pal, err = resolvePalette("default", path)
	if err != nil {
		t.Fatal(err)
	}
	if pal.Color(palette.Accent) != "#ff0000" {
		t.Errorf("file should win over name, accent = %q", pal.Color(palette.Accent))
	}

	if _, err := resolvePalette("neon", ""); err == nil {
		t.Error("expected error for unknown palette")
	}
}

func TestRunExport_Dir(t *testing.T) {
	dir := t.TempDir()
	err := runExport(t.Context(), []export.Destination{export.NewDirDestination(dir)}, 42, true, palette.Standalone(), nil)
	if err != nil {
		t.Fatalf("runExport: %v", err)
	}
	for _, kind := range render.Kinds {
		if _, err := os.Stat(filepath.Join(dir, string(kind)+".svg")); err != nil {
			t.Errorf("missing %s.svg: %v", kind, err)
		}
	}
	data, err := os.ReadFile(filepath.Join(dir, export.ManifestName))
	if err != nil {
		t.Fatal(err)
	}
	var m export.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if len(m.Charts) != len(render.Kinds) || !m.Visible || m.Seed != 42 {
		t.Errorf("unexpected manifest: %+v", m)
	}
}

func TestPrintEvent(t *testing.T) {
	ui.SetColor(false)
	defer ui.SetColor(true)
	at := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		msg  events.Message
		want string
	}{
		{
			events.Message{Topic: events.TopicChartMounted, Data: []byte(`{"chart_id":"ch-1","kind":"gauge","region":"secure-data","threshold":0.45}`)},
			"10:00:00.000 mounted   ch-1 gauge region=secure-data threshold=0.45\n",
		},
		{
			events.Message{Topic: events.TopicChartRevealed, Data: []byte(`{"chart_id":"ch-1","kind":"gauge","failed_open":true,"settle_ms":900}`)},
			"10:00:00.000 revealed  ch-1 gauge settles in 900ms (failed open)\n",
		},
		{
			events.Message{Topic: events.TopicChartDisposed, Data: []byte(`{"chart_id":"ch-1","kind":"gauge"}`)},
			"10:00:00.000 disposed  ch-1 gauge released\n",
		},
		{
			events.Message{Topic: "reveal.chart.other", Data: []byte(`{}`)},
			"10:00:00.000 reveal.chart.other {}\n",
		},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		printEvent(&buf, at, tt.msg)
		if buf.String() != tt.want {
			t.Errorf("printEvent(%s) = %q, want %q", tt.msg.Topic, buf.String(), tt.want)
		}
	}
}
