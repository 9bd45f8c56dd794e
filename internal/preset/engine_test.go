package preset

import (
	"os"
	"path/filepath"
	"testing"

	"holocard-renderer/internal/effect"
)

func TestApplyThenMatches(t *testing.T) {
	cat := DefaultCatalog()
	for _, cb := range cat.Combos() {
		s := effect.NewStore()
		s.Add(effect.Vintage)
		e := NewEngine(s, cat)
		if !e.Apply(cb.ID) {
			t.Fatalf("Apply(%s) failed", cb.ID)
		}
		if !e.Matches(s.List(), cb.ID) {
			t.Errorf("%s: layers do not match after Apply", cb.ID)
		}
		if got := e.Classify(s.List()); got != cb.ID {
			t.Errorf("Classify after Apply(%s) = %s", cb.ID, got)
		}
		for _, l := range s.List() {
			if !l.Enabled || l.Opacity != 100 {
				t.Errorf("%s: layer %s not fully enabled", cb.ID, l.ID)
			}
		}
	}
}

func TestApplyUnknownIsNoop(t *testing.T) {
	s := effect.NewStore()
	id := s.Add(effect.Glow)
	e := NewEngine(s, nil)
	v := s.Version()
	if e.Apply("does-not-exist") {
		t.Error("unknown preset applied")
	}
	if s.Version() != v {
		t.Error("store changed")
	}
	if _, ok := s.Get(id); !ok {
		t.Error("layer removed")
	}
}

func TestApplyNotifiesOnce(t *testing.T) {
	s := effect.NewStore()
	s.Add(effect.Crystal)
	s.Add(effect.Foil)
	e := NewEngine(s, nil)
	var notes int
	s.Subscribe(func(uint64) { notes++ })
	var applied []string
	e.OnApplied(func(cb Combo) { applied = append(applied, cb.ID) })

	e.Apply("cosmic")
	if notes != 1 {
		t.Errorf("notifications = %d, want 1", notes)
	}
	if len(applied) != 1 || applied[0] != "cosmic" {
		t.Errorf("hooks = %v", applied)
	}
}

func TestApplyKeepsIDs(t *testing.T) {
	s := effect.NewStore()
	holo := s.Add(effect.Holographic)
	s.SetBlend(holo, effect.BlendOverlay)
	e := NewEngine(s, nil)
	e.Apply("holographic")
	l, ok := s.Get(holo)
	if !ok {
		t.Fatal("holographic layer lost its id")
	}
	if l.Blend != effect.BlendOverlay {
		t.Errorf("blend = %s, want overlay", l.Blend)
	}
}

func TestClassify(t *testing.T) {
	s := effect.NewStore()
	e := NewEngine(s, nil)
	if got := e.Classify(s.List()); got != None {
		t.Errorf("empty = %s", got)
	}
	e.Apply("holographic")
	holo, _ := s.FirstOfKind(effect.Holographic)

	// Within tolerance still matches.
	s.SetParam(holo.ID, "intensity", 88.0)
	if got := e.Classify(s.List()); got != "holographic" {
		t.Errorf("small tweak = %s", got)
	}
	s.SetParam(holo.ID, "intensity", 40.0)
	if got := e.Classify(s.List()); got != Custom {
		t.Errorf("large tweak = %s", got)
	}
	s.SetParam(holo.ID, "intensity", 85.0)
	s.Add(effect.Vintage)
	if got := e.Classify(s.List()); got != Custom {
		t.Errorf("extra layer = %s", got)
	}
	for _, l := range s.List() {
		s.SetVisibility(l.ID, false)
	}
	if got := e.Classify(s.List()); got != None {
		t.Errorf("all disabled = %s", got)
	}
}

func TestApplyStaggered(t *testing.T) {
	s := effect.NewStore()
	e := NewEngine(s, nil)
	if !e.ApplyStaggered("cosmic", 10, 0.5) {
		t.Fatal("ApplyStaggered failed")
	}
	layers := s.List()
	if len(layers) != 3 || !e.Matches(layers, "cosmic") {
		t.Fatalf("state is not final: %d layers", len(layers))
	}
	tests := []struct {
		layer int
		now   float64
		want  float64
	}{
		{0, 10, 0},
		{0, 10.25, 0.5},
		{0, 11, 1},
		{2, 10.5, 0},
		{2, 11.5, 1},
	}
	for _, tt := range tests {
		if got := e.RevealFactor(layers[tt.layer].ID, tt.now); got != tt.want {
			t.Errorf("factor(layer %d, %v) = %v, want %v", tt.layer, tt.now, got, tt.want)
		}
	}
	e.Apply("vintage")
	l, _ := s.FirstOfKind(effect.Vintage)
	if e.RevealFactor(l.ID, 10) != 1 {
		t.Error("Apply should cancel the reveal")
	}
}

func TestRevealDone(t *testing.T) {
	r := NewReveal([]effect.ID{"a", "b"}, 0, 1)
	if r.Done(1.5) || !r.Done(2) {
		t.Error("Done boundaries")
	}
	if r.Factor("zzz", 0) != 1 {
		t.Error("unknown id should show fully")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")
	data := `{
		"combos": [
			{"id": "frost", "name": "Frost", "effects": [
				{"type": "crystal", "parameters": {"intensity": 70}},
				{"type": "sparkles"}
			]},
			{"id": "chrome", "name": "Chrome v2", "effects": [{"type": "chrome"}]}
		],
		"scenes": [{"id": "arctic", "name": "Arctic", "ambient": 0.7, "directional": 0.9, "kelvin": 8000}]
	}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	cat := DefaultCatalog()
	n := len(cat.Combos())
	if err := cat.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	frost, ok := cat.Combo("frost")
	if !ok || len(frost.Effects) != 1 || frost.Effects[0].Kind != effect.Crystal {
		t.Errorf("frost = %+v", frost)
	}
	if c, _ := cat.Combo("chrome"); c.Name != "Chrome v2" {
		t.Errorf("chrome not replaced: %+v", c)
	}
	if len(cat.Combos()) != n+1 {
		t.Errorf("combos = %d, want %d", len(cat.Combos()), n+1)
	}
	if _, ok := cat.Scene("arctic"); !ok {
		t.Error("scene not loaded")
	}
	if err := cat.LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file should error")
	}
}
