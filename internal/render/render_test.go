package render

import (
	"reflect"
	"testing"
	"time"

	"github.com/alfredjeanlab/reveal/internal/geometry"
	"github.com/alfredjeanlab/reveal/internal/model"
	"github.com/alfredjeanlab/reveal/internal/schedule"
	"github.com/alfredjeanlab/reveal/internal/seq"
)

const msec = time.Millisecond

func sparkline(t *testing.T, visible bool) Drawing {
	t.Helper()
	pts, err := geometry.Line(seq.Trend(42), geometry.SparklineCanvas)
	if err != nil {
		t.Fatalf("Line: %v", err)
	}
	return Sparkline(pts, geometry.SparklineCanvas, schedule.Build(1, schedule.SparklineCadence), visible)
}

func bars(t *testing.T, visible bool) Drawing {
	t.Helper()
	b, err := geometry.Bars(geometry.Proportions(seq.Trend(42).Tail(12)), geometry.StackedBarCanvas)
	if err != nil {
		t.Fatalf("Bars: %v", err)
	}
	return StackedBars(b, geometry.StackedBarCanvas, schedule.Build(len(b), schedule.BarCadence), visible)
}

func network(t *testing.T, edges []model.Edge, visible bool) Drawing {
	t.Helper()
	n, err := geometry.ResolveNetwork(model.DefaultNodes(), edges)
	if err != nil {
		t.Fatalf("ResolveNetwork: %v", err)
	}
	return Network(n, schedule.Build(len(n.Links), schedule.LinkCadence), schedule.Build(len(n.Nodes), schedule.NodeCadence), visible)
}

func gauge(visible bool) Drawing {
	g := geometry.DefaultGauge()
	return Gauge(g, schedule.Build(len(g.Labels), schedule.GaugeLabelCadence), visible)
}

func shapes(d Drawing) []Shape {
	out := make([]Shape, len(d.Elements))
	for i, e := range d.Elements {
		out[i] = e.Shape
	}
	return out
}

func TestGeometryIndependentOfVisibility(t *testing.T) {
	tests := []struct {
		name          string
		hidden, shown Drawing
	}{
		{"sparkline", sparkline(t, false), sparkline(t, true)},
		{"bars", bars(t, false), bars(t, true)},
		{"network", network(t, model.DefaultEdges(), false), network(t, model.DefaultEdges(), true)},
		{"gauge", gauge(false), gauge(true)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(shapes(tt.hidden), shapes(tt.shown)) {
				t.Error("shapes differ between hidden and visible")
			}
			if tt.hidden.SettleAfter() != tt.shown.SettleAfter() {
				t.Error("timing differs between hidden and visible")
			}
			if tt.hidden.Visible || !tt.shown.Visible {
				t.Error("Visible flag not carried")
			}
		})
	}
}

func TestPresentationHiddenAndShown(t *testing.T) {
	tests := []struct {
		effect Effect
		hidden Presentation
	}{
		{EffectNone, Shown},
		{EffectDraw, Presentation{Opacity: 1, Scale: 1, ScaleY: 1, DashOffset: 1}},
		{EffectGrow, Presentation{Opacity: 1, Scale: 1, ScaleY: 0}},
		{EffectFade, Presentation{Opacity: 0, Scale: 1, ScaleY: 1}},
		{EffectPop, Presentation{Opacity: 0, Scale: PopScale, ScaleY: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.effect.String(), func(t *testing.T) {
			if got := tt.effect.Presentation(false); got != tt.hidden {
				t.Errorf("hidden = %+v, want %+v", got, tt.hidden)
			}
			if got := tt.effect.Presentation(true); got != Shown {
				t.Errorf("shown = %+v, want %+v", got, Shown)
			}
		})
	}
}

func TestWithVisiblePresentsGroupChildren(t *testing.T) {
	d := network(t, model.DefaultEdges(), false)
	last := d.Elements[len(d.Elements)-1]
	if last.Presentation.Opacity != 0 {
		t.Fatalf("hidden node opacity = %v", last.Presentation.Opacity)
	}
	shown := d.WithVisible(true)
	if shown.Elements[len(shown.Elements)-1].Presentation != Shown {
		t.Error("node not shown after WithVisible(true)")
	}
	if d.Elements[len(d.Elements)-1].Presentation.Opacity != 0 {
		t.Error("WithVisible mutated the source drawing")
	}
}

func TestSparklineElements(t *testing.T) {
	d := sparkline(t, false)
	if len(d.Elements) != 2 {
		t.Fatalf("got %d elements, want polyline and baseline", len(d.Elements))
	}
	line, ok := d.Elements[0].Shape.(Polyline)
	if !ok || len(line.Points) != seq.TrendLength {
		t.Fatalf("first element = %#v, want a %d-point polyline", d.Elements[0].Shape, seq.TrendLength)
	}
	if d.Elements[0].Delay != 60*msec || d.Elements[0].Effect != EffectDraw {
		t.Errorf("polyline delay %v effect %v", d.Elements[0].Delay, d.Elements[0].Effect)
	}
	base := d.Elements[1].Shape.(Line)
	if base.From.Y != 170 || base.To.Y != 170 {
		t.Errorf("baseline = %+v", base)
	}
	if got := d.SettleAfter(); got != 1260*msec {
		t.Errorf("SettleAfter = %v, want 1.26s", got)
	}
}

func TestStackedBarsTiming(t *testing.T) {
	d := bars(t, true)
	if got := len(d.Elements); got != 12*3+1 {
		t.Fatalf("got %d elements, want 37", got)
	}
	want := []time.Duration{60 * msec, 140 * msec, 220 * msec, 110 * msec, 190 * msec, 270 * msec}
	for i, w := range want {
		if d.Elements[i].Delay != w {
			t.Errorf("segment %d delay = %v, want %v", i, d.Elements[i].Delay, w)
		}
	}
	if got := d.SettleAfter(); got != 1370*msec {
		t.Errorf("SettleAfter = %v, want 1.37s", got)
	}
	fills := []Paint{mint, accent, violet}
	for j, f := range fills {
		if d.Elements[j].Fill != f {
			t.Errorf("segment %d fill = %q, want %q", j, d.Elements[j].Fill, f)
		}
	}
}

func TestNetworkPreservesEdgeOrder(t *testing.T) {
	edges := []model.Edge{{From: "H", To: "I"}, {From: "A", To: "E"}, {From: "C", To: "B"}}
	d := network(t, edges, true)
	nodes := map[string]geometry.Point{}
	for _, n := range model.DefaultNodes() {
		nodes[n.ID] = geometry.Point{X: n.X, Y: n.Y}
	}

	var drawn []Line
	for _, e := range d.Elements {
		if e.Class == "link" {
			drawn = append(drawn, e.Shape.(Line))
		}
	}
	if len(drawn) != len(edges) {
		t.Fatalf("got %d drawn links, want %d", len(drawn), len(edges))
	}
	for i, e := range edges {
		if drawn[i].From != nodes[e.From] || drawn[i].To != nodes[e.To] {
			t.Errorf("link %d = %+v, want %s-%s", i, drawn[i], e.From, e.To)
		}
	}
}

func TestNetworkLayering(t *testing.T) {
	d := network(t, model.DefaultEdges(), false)
	// grid, 8 links x (glow + draw), 9 nodes
	if got := len(d.Elements); got != 1+16+9 {
		t.Fatalf("got %d elements, want 26", got)
	}
	glow, draw := d.Elements[1], d.Elements[2]
	if glow.Class != "link-glow" || draw.Class != "link" {
		t.Errorf("link pair classes = %q, %q", glow.Class, draw.Class)
	}
	if glow.Delay != 150*msec || draw.Delay != 150*msec {
		t.Errorf("first link delays = %v, %v; want 150ms", glow.Delay, draw.Delay)
	}
	if d.Elements[16].Delay != 1270*msec {
		t.Errorf("last link delay = %v, want 1.27s", d.Elements[16].Delay)
	}
	firstNode := d.Elements[17]
	if firstNode.Delay != 100*msec || firstNode.Effect != EffectPop {
		t.Errorf("first node delay %v effect %v", firstNode.Delay, firstNode.Effect)
	}
	if firstNode.Origin == nil || *firstNode.Origin != (geometry.Point{X: 14, Y: 60}) {
		t.Errorf("first node origin = %v", firstNode.Origin)
	}
	if g := firstNode.Shape.(Group); len(g.Children) != 3 {
		t.Errorf("node has %d circles, want 3", len(g.Children))
	}
	if got := d.SettleAfter(); got != 1970*msec {
		t.Errorf("SettleAfter = %v, want 1.97s", got)
	}
}

func TestGaugeElements(t *testing.T) {
	d := gauge(false)
	arc := d.Elements[0]
	if p := arc.Shape.(Path); p.D != "M 140 270 A 220 220 0 0 1 580 270" {
		t.Errorf("arc path = %q", p.D)
	}
	if arc.Delay != 0 || arc.StrokeWidth != 20 {
		t.Errorf("arc delay %v stroke %v", arc.Delay, arc.StrokeWidth)
	}
	for i, want := range []time.Duration{200 * msec, 320 * msec, 440 * msec} {
		if got := d.Elements[1+i].Delay; got != want {
			t.Errorf("label %d delay = %v, want %v", i, got, want)
		}
	}
	center := d.Elements[4]
	if center.Delay != 400*msec {
		t.Errorf("center delay = %v, want 400ms", center.Delay)
	}
	if g := center.Shape.(Group); g.Translate != (geometry.Point{X: 360, Y: 220}) {
		t.Errorf("center translate = %+v", g.Translate)
	}
	if got := d.SettleAfter(); got != 900*msec {
		t.Errorf("SettleAfter = %v, want 900ms", got)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, ok := ParseKind(string(k))
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %q, %v", k, got, ok)
		}
	}
	if _, ok := ParseKind("pie"); ok {
		t.Error("ParseKind(pie) should fail")
	}
}
