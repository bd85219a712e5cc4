package schedule

import (
	"testing"
	"time"
)

const ms = time.Millisecond

func TestDelay(t *testing.T) {
	tests := []struct {
		base  time.Duration
		index int
		step  time.Duration
		want  time.Duration
	}{
		{150 * ms, 0, 160 * ms, 150 * ms},
		{150 * ms, 3, 160 * ms, 630 * ms},
		{100 * ms, 8, 90 * ms, 820 * ms},
		{0, 5, 0, 0},
	}
	for _, tt := range tests {
		if got := Delay(tt.base, tt.index, tt.step); got != tt.want {
			t.Errorf("Delay(%v, %d, %v) = %v, want %v", tt.base, tt.index, tt.step, got, tt.want)
		}
	}
}

func TestLayered(t *testing.T) {
	got := Layered(60*ms, 2, 50*ms, 80*ms, 3)
	want := []time.Duration{160 * ms, 240 * ms, 320 * ms}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("layer %d = %v, want %v", i, got[i], want[i])
		}
	}
	if Layered(0, 0, 0, 0, 0) != nil {
		t.Error("zero layers should yield nil")
	}
}

func TestBuildBars(t *testing.T) {
	tb := Build(12, BarCadence)
	if tb.Len() != 12 || tb.Layers() != 3 {
		t.Fatalf("Len=%d Layers=%d, want 12 and 3", tb.Len(), tb.Layers())
	}
	if got := tb.Layer(0, 0); got != 60*ms {
		t.Errorf("bar 0 layer 0 = %v, want 60ms", got)
	}
	if got := tb.Layer(11, 2); got != 770*ms {
		t.Errorf("bar 11 layer 2 = %v, want 770ms", got)
	}
	if got := tb.Max(); got != 770*ms {
		t.Errorf("Max = %v, want 770ms", got)
	}
}

func TestBuildStrictlyIncreasing(t *testing.T) {
	for name, c := range map[string]Cadence{"links": LinkCadence, "nodes": NodeCadence, "labels": GaugeLabelCadence} {
		tb := Build(9, c)
		for i := 1; i < tb.Len(); i++ {
			if tb.Delay(i) <= tb.Delay(i-1) {
				t.Errorf("%s: delay %d (%v) not after %d (%v)", name, i, tb.Delay(i), i-1, tb.Delay(i-1))
			}
		}
	}
}

func TestBuildDeterministic(t *testing.T) {
	a := Build(8, LinkCadence)
	b := Build(8, LinkCadence)
	for i := 0; i < a.Len(); i++ {
		if a.Delay(i) != b.Delay(i) {
			t.Errorf("delay %d differs: %v vs %v", i, a.Delay(i), b.Delay(i))
		}
	}
}

func TestTableOutOfRange(t *testing.T) {
	tb := Build(2, NodeCadence)
	if tb.Delay(-1) != 0 || tb.Delay(2) != 0 || tb.Layer(0, 1) != 0 {
		t.Error("out-of-range lookups should return 0")
	}
	empty := Build(0, NodeCadence)
	if empty.Len() != 0 || empty.Layers() != 0 || empty.Max() != 0 {
		t.Error("empty table should report zeros")
	}
}
