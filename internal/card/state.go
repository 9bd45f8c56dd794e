package card

import (
	"encoding/json"
	"math"

	"holocard-renderer/internal/effect"
	"holocard-renderer/internal/material"
)

// EffectState is the persisted form of a viewer session:
//
//	{ "layers": [{id, type, enabled, opacity, blendMode, parameters}],
//	  "material": {metalness, roughness, clearcoat, transmission, emission},
//	  "presetId": string | null }
//
// Overrides is an extension carrying manual material edits; older readers
// ignore it.
type EffectState struct {
	Layers    []effect.Layer
	Material  material.State
	Overrides material.Overrides
	PresetID  *string
	// HasMaterial is false when decoded data carried no material object.
	HasMaterial bool
}

type layerJSON struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Enabled    *bool          `json:"enabled,omitempty"`
	Opacity    *float64       `json:"opacity,omitempty"`
	BlendMode  string         `json:"blendMode,omitempty"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

type stateJSON struct {
	Layers    []layerJSON         `json:"layers"`
	Material  *material.State     `json:"material"`
	Overrides *material.Overrides `json:"overrides,omitempty"`
	PresetID  *string             `json:"presetId"`
}

// Capture snapshots layers and the material resolved from them.
func Capture(layers []effect.Layer, o material.Overrides, presetID string) EffectState {
	st := EffectState{
		Layers:      make([]effect.Layer, len(layers)),
		Material:    material.Resolve(layers, o),
		Overrides:   o,
		HasMaterial: true,
	}
	for i, l := range layers {
		st.Layers[i] = l.Clone()
	}
	if presetID != "" {
		st.PresetID = &presetID
	}
	return st
}

// MarshalJSON writes the persisted layout.
func (s EffectState) MarshalJSON() ([]byte, error) {
	out := stateJSON{
		Layers:   make([]layerJSON, 0, len(s.Layers)),
		Material: &s.Material,
		PresetID: s.PresetID,
	}
	if !s.Overrides.Empty() {
		o := s.Overrides
		out.Overrides = &o
	}
	for _, l := range s.Layers {
		enabled, opacity := l.Enabled, l.Opacity
		out.Layers = append(out.Layers, layerJSON{
			ID:         string(l.ID),
			Type:       l.Kind.String(),
			Enabled:    &enabled,
			Opacity:    &opacity,
			BlendMode:  l.Blend.String(),
			Parameters: l.Values(),
		})
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the persisted layout. Layers of an unknown type are
// dropped; missing fields take the kind's defaults.
func (s *EffectState) UnmarshalJSON(data []byte) error {
	var in stateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*s = EffectState{PresetID: in.PresetID}
	if in.Material != nil {
		s.Material = *in.Material
		s.HasMaterial = true
	}
	if in.Overrides != nil {
		s.Overrides = *in.Overrides
	}
	for _, lj := range in.Layers {
		k, ok := effect.ParseKind(lj.Type)
		if !ok {
			continue
		}
		l := effect.NewLayer(effect.ID(lj.ID), k)
		if lj.Enabled != nil {
			l.Enabled = *lj.Enabled
		}
		if lj.Opacity != nil {
			l.Opacity = effect.ClampOpacity(*lj.Opacity)
		}
		if b, ok := effect.ParseBlendMode(lj.BlendMode); ok {
			l.Blend = b
		}
		l.SetParams(lj.Parameters)
		s.Layers = append(s.Layers, l)
	}
	return nil
}

// Resolved recomputes the material from the restored layers and overrides.
func (s EffectState) Resolved() material.State {
	return material.Resolve(s.Layers, s.Overrides)
}

// ManualOverrides returns the overrides to restore: the saved ones, plus a
// pin for every saved material field the layers alone no longer produce.
// Data written by an editor that stored only the final material thereby
// keeps its look.
func (s EffectState) ManualOverrides() material.Overrides {
	o := s.Overrides
	if !s.HasMaterial {
		return o
	}
	got := material.Resolve(s.Layers, o)
	pin := func(dst **float64, want, have float64) {
		if *dst == nil && math.Abs(want-have) > 1e-9 {
			*dst = material.Value(want)
		}
	}
	pin(&o.Metalness, s.Material.Metalness, got.Metalness)
	pin(&o.Roughness, s.Material.Roughness, got.Roughness)
	pin(&o.Clearcoat, s.Material.Clearcoat, got.Clearcoat)
	pin(&o.Transmission, s.Material.Transmission, got.Transmission)
	pin(&o.Emission, s.Material.Emission, got.Emission)
	return o
}

// Preset returns the saved preset id, or "" for null.
func (s EffectState) Preset() string {
	if s.PresetID == nil {
		return ""
	}
	return *s.PresetID
}
