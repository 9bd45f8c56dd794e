// Package material folds the active effect layers into a single physical
// material description.
package material

import (
	"math"

	"holocard-renderer/internal/effect"
	"holocard-renderer/internal/mathutil"
)

// State is the resolved card-body material. Every field is in [0,1].
// Clearcoat doubles as the reflectivity of the surface.
type State struct {
	Metalness    float64 `json:"metalness"`
	Roughness    float64 `json:"roughness"`
	Clearcoat    float64 `json:"clearcoat"`
	Transmission float64 `json:"transmission"`
	Emission     float64 `json:"emission"`
}

// Baseline is the neutral material of a card without effects. It is also the
// reset target.
var Baseline = State{Metalness: 0.5, Roughness: 0.5}

// Overrides are manual edits. A non-nil field replaces the derived value.
type Overrides struct {
	Metalness    *float64 `json:"metalness,omitempty"`
	Roughness    *float64 `json:"roughness,omitempty"`
	Clearcoat    *float64 `json:"clearcoat,omitempty"`
	Transmission *float64 `json:"transmission,omitempty"`
	Emission     *float64 `json:"emission,omitempty"`
}

// Empty reports whether no field is overridden.
func (o Overrides) Empty() bool {
	return o.Metalness == nil && o.Roughness == nil && o.Clearcoat == nil &&
		o.Transmission == nil && o.Emission == nil
}

// Value returns a pointer suitable for an Overrides field.
func Value(v float64) *float64 {
	v = mathutil.Clamp01(v)
	return &v
}

// Resolve derives the material from layers (bottom to top) and applies
// overrides on top. It is pure; Resolve(nil, Overrides{}) == Baseline.
func Resolve(layers []effect.Layer, o Overrides) State {
	s := Baseline
	for _, l := range layers {
		w := l.Weight()
		if w == 0 || !l.Kind.Valid() || l.Params == nil || l.Params.Kind() != l.Kind {
			continue
		}
		fn := contributions[l.Kind]
		if fn == nil {
			continue
		}
		next := s
		fn(&next, l.Params, w)
		next = next.clamped()
		if !next.finite() {
			// A malformed layer contributes nothing.
			continue
		}
		s = next
	}
	return s.apply(o)
}

func (s State) apply(o Overrides) State {
	if o.Metalness != nil {
		s.Metalness = *o.Metalness
	}
	if o.Roughness != nil {
		s.Roughness = *o.Roughness
	}
	if o.Clearcoat != nil {
		s.Clearcoat = *o.Clearcoat
	}
	if o.Transmission != nil {
		s.Transmission = *o.Transmission
	}
	if o.Emission != nil {
		s.Emission = *o.Emission
	}
	return s.clamped()
}

func (s State) clamped() State {
	return State{
		Metalness:    mathutil.Clamp01(s.Metalness),
		Roughness:    mathutil.Clamp01(s.Roughness),
		Clearcoat:    mathutil.Clamp01(s.Clearcoat),
		Transmission: mathutil.Clamp01(s.Transmission),
		Emission:     mathutil.Clamp01(s.Emission),
	}
}

func (s State) finite() bool {
	for _, v := range [...]float64{s.Metalness, s.Roughness, s.Clearcoat, s.Transmission, s.Emission} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Reflectivity is the clearcoat field under its other name.
func (s State) Reflectivity() float64 {
	return s.Clearcoat
}
