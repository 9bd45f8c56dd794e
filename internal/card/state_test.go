package card

import (
	"encoding/json"
	"testing"

	"holocard-renderer/internal/effect"
	"holocard-renderer/internal/material"
)

func sampleLayers() []effect.Layer {
	holo := effect.NewLayer("layer-1", effect.Holographic)
	holo.SetParam("shiftSpeed", 150.0)
	holo.SetParam("sparkle", "yes")
	glow := effect.NewLayer("layer-2", effect.Glow)
	glow.Opacity = 40
	glow.Blend = effect.BlendOverlay
	vint := effect.NewLayer("layer-3", effect.Vintage)
	vint.Enabled = false
	return []effect.Layer{holo, glow, vint}
}

func TestRoundTripResolvesIdentically(t *testing.T) {
	layers := sampleLayers()
	o := material.Overrides{Roughness: material.Value(0.2)}
	st := Capture(layers, o, "holographic")

	data, err := json.Marshal(st)
	if err != nil {
		t.Fatal(err)
	}
	var back EffectState
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if got, want := back.Resolved(), st.Material; got != want {
		t.Errorf("resolved %+v, want %+v", got, want)
	}
	if back.Preset() != "holographic" {
		t.Errorf("preset = %q", back.Preset())
	}
	if len(back.Layers) != 3 {
		t.Fatalf("layers = %d", len(back.Layers))
	}
	g := back.Layers[1]
	if g.Opacity != 40 || g.Blend != effect.BlendOverlay || g.ID != "layer-2" {
		t.Errorf("glow = %+v", g)
	}
	if back.Layers[2].Enabled {
		t.Error("disabled layer came back enabled")
	}
	if back.Layers[0].Extra["sparkle"] != "yes" {
		t.Error("unknown parameter lost")
	}
}

func TestPresetNullForCustom(t *testing.T) {
	data, err := json.Marshal(Capture(sampleLayers(), material.Overrides{}, ""))
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]json.RawMessage
	json.Unmarshal(data, &raw)
	if string(raw["presetId"]) != "null" {
		t.Errorf("presetId = %s", raw["presetId"])
	}
	if _, ok := raw["overrides"]; ok {
		t.Error("empty overrides written")
	}
}

func TestUnmarshalLenient(t *testing.T) {
	data := `{
		"layers": [
			{"id": "a", "type": "chrome"},
			{"id": "b", "type": "hologram-v9", "enabled": true},
			{"id": "c", "type": "foil", "blendMode": "luminosity", "opacity": 250}
		],
		"presetId": null
	}`
	var st EffectState
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		t.Fatal(err)
	}
	if len(st.Layers) != 2 {
		t.Fatalf("layers = %d, want 2", len(st.Layers))
	}
	a := st.Layers[0]
	if !a.Enabled || a.Opacity != 100 || effect.Intensity(a.Params) != 90 {
		t.Errorf("defaults not applied: %+v", a)
	}
	c := st.Layers[1]
	if c.Blend != effect.BlendSoftLight || c.Opacity != 100 {
		t.Errorf("foil = %+v", c)
	}
	if st.HasMaterial || st.Preset() != "" {
		t.Error("absent material or preset misread")
	}
	if !st.ManualOverrides().Empty() {
		t.Error("no material should mean no pins")
	}
}

func TestManualOverridesPinsDivergentMaterial(t *testing.T) {
	layers := []effect.Layer{effect.NewLayer("x", effect.Chrome)}
	st := Capture(layers, material.Overrides{}, "")
	if !st.ManualOverrides().Empty() {
		t.Error("matching material should not pin")
	}
	st.Material.Metalness = 1
	st.Material.Roughness = 0
	o := st.ManualOverrides()
	if o.Metalness == nil || *o.Metalness != 1 || o.Roughness == nil || *o.Roughness != 0 {
		t.Errorf("pins = %+v", o)
	}
	if o.Clearcoat != nil {
		t.Error("unchanged field pinned")
	}
	if got := material.Resolve(layers, o); got.Metalness != 1 || got.Roughness != 0 {
		t.Errorf("restored = %+v", got)
	}
}

func TestRecordEffectState(t *testing.T) {
	rec := Record{ID: "c1", DesignMetadata: json.RawMessage(`{"font":"serif"}`)}
	if _, ok, err := rec.EffectState(); ok || err != nil {
		t.Errorf("no state: ok=%v err=%v", ok, err)
	}
	st := Capture(sampleLayers(), material.Overrides{}, "")
	rec, err := rec.WithEffectState(st)
	if err != nil {
		t.Fatal(err)
	}
	var meta map[string]any
	json.Unmarshal(rec.DesignMetadata, &meta)
	if meta["font"] != "serif" {
		t.Error("other metadata dropped")
	}
	got, ok, err := rec.EffectState()
	if !ok || err != nil || len(got.Layers) != 3 {
		t.Errorf("nested state: ok=%v err=%v layers=%d", ok, err, len(got.Layers))
	}

	bare := Record{ID: "c2", DesignMetadata: json.RawMessage(`{"layers":[{"id":"z","type":"glow"}],"presetId":null}`)}
	got, ok, _ = bare.EffectState()
	if !ok || len(got.Layers) != 1 {
		t.Errorf("bare state: ok=%v layers=%d", ok, len(got.Layers))
	}

	broken := Record{ID: "c3", DesignMetadata: json.RawMessage(`[1,2`)}
	if _, _, err := broken.EffectState(); err == nil {
		t.Error("malformed metadata should error")
	}
}
