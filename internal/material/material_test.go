package material

import (
	"testing"

	"holocard-renderer/internal/effect"
)

func TestResolveEmpty(t *testing.T) {
	if got := Resolve(nil, Overrides{}); got != Baseline {
		t.Errorf("Resolve(nil) = %+v, want baseline", got)
	}
	o := Overrides{Roughness: Value(0.2), Emission: Value(0.7)}
	want := Baseline
	want.Roughness = 0.2
	want.Emission = 0.7
	if got := Resolve(nil, o); got != want {
		t.Errorf("Resolve(nil, o) = %+v, want %+v", got, want)
	}
}

func TestDisabledLayerContributesNothing(t *testing.T) {
	for _, k := range effect.Kinds() {
		l := effect.NewLayer("a", k)
		l.Enabled = false
		if got := Resolve([]effect.Layer{l}, Overrides{}); got != Baseline {
			t.Errorf("disabled %s changed material: %+v", k, got)
		}
		l.Enabled = true
		l.Opacity = 0
		if got := Resolve([]effect.Layer{l}, Overrides{}); got != Baseline {
			t.Errorf("zero-opacity %s changed material: %+v", k, got)
		}
	}
}

func TestHolographicRaisesMetalness(t *testing.T) {
	l := effect.NewLayer("h", effect.Holographic)
	l.SetParam("intensity", 85.0)
	l.SetParam("shiftSpeed", 150.0)
	got := Resolve([]effect.Layer{l}, Overrides{})
	if got.Metalness <= Baseline.Metalness {
		t.Errorf("metalness %v not above baseline", got.Metalness)
	}
	if got.Clearcoat <= Baseline.Clearcoat {
		t.Errorf("clearcoat %v not above baseline", got.Clearcoat)
	}
}

func TestResolveContributions(t *testing.T) {
	tests := []struct {
		kind  effect.Kind
		check func(State) bool
		desc  string
	}{
		{effect.Chrome, func(s State) bool { return s.Roughness < Baseline.Roughness }, "chrome lowers roughness"},
		{effect.Crystal, func(s State) bool { return s.Transmission > 0 }, "crystal adds transmission"},
		{effect.Vintage, func(s State) bool { return s.Roughness > Baseline.Roughness }, "vintage raises roughness"},
		{effect.Glow, func(s State) bool { return s.Emission > 0 }, "glow adds emission"},
		{effect.Metallic, func(s State) bool { return s.Metalness > Baseline.Metalness }, "metallic raises metalness"},
	}
	for _, tt := range tests {
		got := Resolve([]effect.Layer{effect.NewLayer("x", tt.kind)}, Overrides{})
		if !tt.check(got) {
			t.Errorf("%s: %+v", tt.desc, got)
		}
	}
}

func TestResolveInRange(t *testing.T) {
	var layers []effect.Layer
	for _, k := range effect.Kinds() {
		for range 3 {
			l := effect.NewLayer("x", k)
			l.SetParam("intensity", 100.0)
			layers = append(layers, l)
		}
	}
	s := Resolve(layers, Overrides{})
	for name, v := range map[string]float64{
		"metalness": s.Metalness, "roughness": s.Roughness, "clearcoat": s.Clearcoat,
		"transmission": s.Transmission, "emission": s.Emission,
	} {
		if v < 0 || v > 1 {
			t.Errorf("%s = %v out of range", name, v)
		}
	}
}

func TestOverridesReplaceDerivedFields(t *testing.T) {
	layers := []effect.Layer{effect.NewLayer("v", effect.Vintage)}
	derived := Resolve(layers, Overrides{})
	o := Overrides{Metalness: Value(1), Roughness: Value(0), Clearcoat: Value(0.8)}
	got := Resolve(layers, o)
	want := State{Metalness: 1, Roughness: 0, Clearcoat: 0.8, Transmission: derived.Transmission, Emission: derived.Emission}
	if got != want {
		t.Errorf("overridden = %+v, want %+v", got, want)
	}
	if !(Overrides{}).Empty() || o.Empty() {
		t.Error("Empty misreports")
	}
}

func TestResolveIsPure(t *testing.T) {
	layers := []effect.Layer{effect.NewLayer("a", effect.Foil), effect.NewLayer("b", effect.Glow)}
	a := Resolve(layers, Overrides{})
	b := Resolve(layers, Overrides{})
	if a != b {
		t.Errorf("Resolve not deterministic: %+v vs %+v", a, b)
	}
}
