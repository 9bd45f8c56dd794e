package effect

import "maps"

// ID identifies a layer within one Store.
type ID string

// Layer is one cosmetic effect instance.
type Layer struct {
	ID      ID
	Kind    Kind
	Enabled bool
	Opacity float64 // 0–100
	Blend   BlendMode
	Params  Params
	// Extra keeps parameter keys this build does not know about so they
	// survive a load/save cycle untouched.
	Extra map[string]any
}

// defaultBlend is the blend mode a freshly added layer starts with.
var defaultBlend = [NumKinds]BlendMode{
	Holographic:  BlendScreen,
	Metallic:     BlendOverlay,
	Chrome:       BlendOverlay,
	Crystal:      BlendScreen,
	Foil:         BlendSoftLight,
	Vintage:      BlendMultiply,
	Particle:     BlendScreen,
	Glow:         BlendScreen,
	Prismatic:    BlendColorDodge,
	Interference: BlendScreen,
	BrushedMetal: BlendOverlay,
	GoldFoil:     BlendOverlay,
}

// NewLayer builds an enabled, fully opaque layer with the kind's defaults.
func NewLayer(id ID, k Kind) Layer {
	return Layer{
		ID:      id,
		Kind:    k,
		Enabled: true,
		Opacity: 100,
		Blend:   defaultBlend[k],
		Params:  DefaultParams(k),
	}
}

// Clone returns a deep copy.
func (l Layer) Clone() Layer {
	c := l
	if l.Params != nil {
		c.Params = l.Params.clone()
	}
	if l.Extra != nil {
		c.Extra = maps.Clone(l.Extra)
	}
	return c
}

// Weight is the layer's compositing weight: zero when disabled, regardless
// of opacity.
func (l Layer) Weight() float64 {
	if !l.Enabled {
		return 0
	}
	return ClampOpacity(l.Opacity) / 100
}

// Values returns the typed parameters merged with preserved unknown keys.
func (l Layer) Values() map[string]any {
	out := map[string]any{}
	if l.Params != nil {
		out = values(l.Params)
	}
	for k, v := range l.Extra {
		if _, typed := out[k]; !typed {
			out[k] = v
		}
	}
	return out
}

// SetParam writes one parameter. Unknown names land in Extra.
func (l *Layer) SetParam(name string, v any) {
	if l.Params == nil {
		l.Params = DefaultParams(l.Kind)
	}
	if l.Params != nil && set(l.Params, name, v) {
		return
	}
	if l.Extra == nil {
		l.Extra = map[string]any{}
	}
	l.Extra[name] = v
}

// SetParams merges values into the layer.
func (l *Layer) SetParams(values map[string]any) {
	for k, v := range values {
		l.SetParam(k, v)
	}
}

func (l *Layer) normalize() {
	l.Opacity = ClampOpacity(l.Opacity)
	if l.Blend >= NumBlendModes {
		l.Blend = BlendNormal
	}
	if l.Params == nil || l.Params.Kind() != l.Kind {
		l.Params = DefaultParams(l.Kind)
	}
}

// ClampOpacity limits an opacity to [0,100]; NaN becomes 0.
func ClampOpacity(o float64) float64 {
	if o != o || o < 0 {
		return 0
	}
	if o > 100 {
		return 100
	}
	return o
}

// Patch is a partial layer update. Nil fields are left alone.
type Patch struct {
	Enabled *bool
	Opacity *float64
	Blend   *BlendMode
	Params  map[string]any
}

func (p Patch) apply(l *Layer) {
	if p.Enabled != nil {
		l.Enabled = *p.Enabled
	}
	if p.Opacity != nil {
		l.Opacity = ClampOpacity(*p.Opacity)
	}
	if p.Blend != nil && *p.Blend < NumBlendModes {
		l.Blend = *p.Blend
	}
	if p.Params != nil {
		l.SetParams(p.Params)
	}
}
