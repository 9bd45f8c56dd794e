// Package preset applies named bundles of effect settings to a layer store
// and recognises when the live layers still match one.
package preset

import (
	"encoding/json"
	"fmt"
	"os"

	"holocard-renderer/internal/effect"
)

const (
	// Custom classifies enabled layers that match no preset.
	Custom = "custom"
	// None classifies a store with no enabled layers.
	None = "none"
)

// EffectSpec is one entry of a combo: the kind and the parameters merged
// over the kind's defaults.
type EffectSpec struct {
	Kind   effect.Kind    `json:"type"`
	Params map[string]any `json:"parameters,omitempty"`
}

// Combo is a named bundle applied in one step.
type Combo struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Effects []EffectSpec `json:"effects"`
	SceneID string       `json:"scene,omitempty"`
}

// Scene is a lighting setup consumed by the renderer.
type Scene struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Ambient     float64 `json:"ambient"`
	Directional float64 `json:"directional"`
	Kelvin      float64 `json:"kelvin"`
	Shadow      float64 `json:"shadow"`
	Background  string  `json:"background"`
}

// Catalog holds the known combos (in classification order) and scenes.
type Catalog struct {
	combos []Combo
	scenes []Scene
}

// DefaultCatalog returns the built-in presets.
func DefaultCatalog() *Catalog {
	return &Catalog{combos: builtinCombos(), scenes: builtinScenes()}
}

// Combos returns the combos in classification order.
func (c *Catalog) Combos() []Combo {
	return append([]Combo(nil), c.combos...)
}

func (c *Catalog) Combo(id string) (Combo, bool) {
	for _, cb := range c.combos {
		if cb.ID == id {
			return cb, true
		}
	}
	return Combo{}, false
}

func (c *Catalog) Scenes() []Scene {
	return append([]Scene(nil), c.scenes...)
}

func (c *Catalog) Scene(id string) (Scene, bool) {
	for _, s := range c.scenes {
		if s.ID == id {
			return s, true
		}
	}
	return Scene{}, false
}

// DefaultScene is the scene used when none is selected.
func (c *Catalog) DefaultScene() Scene {
	if s, ok := c.Scene("studio"); ok {
		return s
	}
	if len(c.scenes) > 0 {
		return c.scenes[0]
	}
	return Scene{ID: "studio", Ambient: 0.5, Directional: 1, Kelvin: 5500, Shadow: 0.3}
}

// Add registers or replaces a combo.
func (c *Catalog) Add(cb Combo) {
	for i := range c.combos {
		if c.combos[i].ID == cb.ID {
			c.combos[i] = cb
			return
		}
	}
	c.combos = append(c.combos, cb)
}

// AddScene registers or replaces a scene.
func (c *Catalog) AddScene(s Scene) {
	for i := range c.scenes {
		if c.scenes[i].ID == s.ID {
			c.scenes[i] = s
			return
		}
	}
	c.scenes = append(c.scenes, s)
}

type catalogFile struct {
	Combos []json.RawMessage `json:"combos"`
	Scenes []Scene           `json:"scenes"`
}

// LoadFile merges combos and scenes from a JSON file into c. Combo entries
// with an unknown effect type lose that entry; the rest of the combo still
// loads.
func (c *Catalog) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("preset: read %s: %w", path, err)
	}
	var f catalogFile
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("preset: parse %s: %w", path, err)
	}
	for _, raw := range f.Combos {
		cb, err := decodeCombo(raw)
		if err != nil {
			return fmt.Errorf("preset: %s: %w", path, err)
		}
		c.Add(cb)
	}
	for _, s := range f.Scenes {
		c.AddScene(s)
	}
	return nil
}

func decodeCombo(raw json.RawMessage) (Combo, error) {
	var wire struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		SceneID string `json:"scene"`
		Effects []struct {
			Type   string         `json:"type"`
			Params map[string]any `json:"parameters"`
		} `json:"effects"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Combo{}, err
	}
	if wire.ID == "" {
		return Combo{}, fmt.Errorf("combo without id")
	}
	cb := Combo{ID: wire.ID, Name: wire.Name, SceneID: wire.SceneID}
	for _, e := range wire.Effects {
		k, ok := effect.ParseKind(e.Type)
		if !ok {
			continue
		}
		cb.Effects = append(cb.Effects, EffectSpec{Kind: k, Params: e.Params})
	}
	return cb, nil
}

func builtinCombos() []Combo {
	return []Combo{
		{
			ID:   "holographic",
			Name: "Holographic",
			Effects: []EffectSpec{
				{Kind: effect.Holographic, Params: map[string]any{"intensity": 85.0, "shiftSpeed": 150.0}},
				{Kind: effect.Glow, Params: map[string]any{"intensity": 30.0, "radius": 20.0}},
			},
			SceneID: "studio",
		},
		{
			ID:   "chrome",
			Name: "Chrome",
			Effects: []EffectSpec{
				{Kind: effect.Chrome, Params: map[string]any{"intensity": 100.0, "reflectivity": 100.0}},
				{Kind: effect.Metallic, Params: map[string]any{"intensity": 80.0, "roughness": 0.0}},
			},
			SceneID: "gallery",
		},
		{
			ID:   "crystal",
			Name: "Crystal",
			Effects: []EffectSpec{
				{Kind: effect.Crystal, Params: map[string]any{"intensity": 80.0, "facets": 12.0, "dispersion": 70.0}},
				{Kind: effect.Prismatic, Params: map[string]any{"intensity": 40.0, "bands": 4.0}},
			},
			SceneID: "studio",
		},
		{
			ID:   "cosmic",
			Name: "Cosmic",
			Effects: []EffectSpec{
				{Kind: effect.Holographic, Params: map[string]any{"intensity": 60.0, "shiftSpeed": 80.0, "pattern": "linear"}},
				{Kind: effect.Particle, Params: map[string]any{"count": 200.0, "speed": 80.0}},
				{Kind: effect.Glow, Params: map[string]any{"intensity": 60.0, "color": "#b48cff"}},
			},
			SceneID: "neon",
		},
		{
			ID:   "vintage",
			Name: "Vintage",
			Effects: []EffectSpec{
				{Kind: effect.Vintage, Params: map[string]any{"intensity": 80.0, "sepia": 80.0, "grain": 50.0}},
			},
			SceneID: "sunset",
		},
		{
			ID:   "golden",
			Name: "Golden",
			Effects: []EffectSpec{
				{Kind: effect.GoldFoil, Params: map[string]any{"intensity": 90.0, "warmth": 80.0}},
				{Kind: effect.Foil, Params: map[string]any{"intensity": 40.0, "tint": "#ffe8a0"}},
			},
			SceneID: "sunset",
		},
		{
			ID:   "prismatic-foil",
			Name: "Prismatic Foil",
			Effects: []EffectSpec{
				{Kind: effect.Prismatic, Params: map[string]any{"intensity": 80.0}},
				{Kind: effect.Foil, Params: map[string]any{"intensity": 70.0, "density": 80.0}},
			},
			SceneID: "gallery",
		},
		{
			ID:   "neon-glow",
			Name: "Neon Glow",
			Effects: []EffectSpec{
				{Kind: effect.Glow, Params: map[string]any{"intensity": 90.0, "radius": 50.0, "color": "#ff4fd8"}},
				{Kind: effect.Interference, Params: map[string]any{"intensity": 50.0}},
			},
			SceneID: "neon",
		},
	}
}

func builtinScenes() []Scene {
	return []Scene{
		{ID: "studio", Name: "Studio", Ambient: 0.5, Directional: 1.0, Kelvin: 5500, Shadow: 0.3, Background: "#1b1d24"},
		{ID: "sunset", Name: "Sunset", Ambient: 0.4, Directional: 0.9, Kelvin: 3200, Shadow: 0.5, Background: "#2a1a14"},
		{ID: "gallery", Name: "Gallery", Ambient: 0.6, Directional: 0.8, Kelvin: 6500, Shadow: 0.2, Background: "#202020"},
		{ID: "neon", Name: "Neon", Ambient: 0.3, Directional: 1.1, Kelvin: 9000, Shadow: 0.4, Background: "#0c0a1c"},
	}
}
