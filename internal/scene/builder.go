package scene

import (
	"math"

	"holocard-renderer/internal/clock"
	"holocard-renderer/internal/effect"
	"holocard-renderer/internal/interact"
	"holocard-renderer/internal/material"
	"holocard-renderer/internal/mathutil"
	"holocard-renderer/internal/shading"
)

// Pass selects how the rasterizer treats an item.
type Pass uint8

const (
	PassBody     Pass = iota // opaque, depth-tested and written
	PassOverlay              // depth-tested, blended with the layer's mode
	PassAdditive             // depth-tested, added, no depth write
	PassPoints               // particle sprites
)

// Surface identifies what an item draws.
type Surface uint8

const (
	SurfaceFront Surface = iota
	SurfaceBack
	SurfaceEdge
	SurfaceHolo
	SurfaceGlowOuter
	SurfaceGlowInner
	SurfaceParticles
)

const (
	// OverlayLift separates overlay planes from the front face.
	OverlayLift = 0.002
	// GlowMargin is the outer glow shell's reach beyond the card edge at
	// radius 100.
	GlowMargin = 0.25
)

// StaticRotation is the fixed orientation of non-interactive previews.
var StaticRotation = interact.Vec2{X: -10, Y: 20}

// DrawItem is one draw call: geometry plus everything needed to shade it.
type DrawItem struct {
	Pass      Pass
	Surface   Surface
	Quad      Quad
	Points    []shading.Point
	Transform mathutil.Mat4
	Material  material.State
	// Layer is the effect layer an overlay belongs to; zero for body items.
	Layer   effect.Layer
	Blend   effect.BlendMode
	Opacity float64 // 0–1
	// Margin is the outer glow shell's reach beyond the card edge.
	Margin float64
}

// FrameState is the immutable snapshot a frame is built from.
type FrameState struct {
	Card        Card
	Layers      []effect.Layer
	Material    material.State
	Interaction interact.State
	Motion      clock.Motion
	Time        float64
	// Particles returns the animated field of a particle layer, or nil.
	Particles func(id effect.ID) *shading.ParticleField
	// Reveal scales a layer's opacity during a staggered preset reveal.
	Reveal func(id effect.ID) float64
}

// HasOverlay reports whether kind k draws its own pass instead of shading
// the front face.
func HasOverlay(k effect.Kind) bool {
	switch k {
	case effect.Holographic, effect.Glow, effect.Particle:
		return true
	}
	return false
}

// SurfaceLayers returns the layers shaded directly on the front face. A
// non-nil reveal scales each layer's opacity, and layers it hides entirely
// are left out.
func SurfaceLayers(layers []effect.Layer, reveal func(id effect.ID) float64) []effect.Layer {
	out := make([]effect.Layer, 0, len(layers))
	for _, l := range layers {
		if !l.Enabled || HasOverlay(l.Kind) {
			continue
		}
		if reveal != nil {
			f := reveal(l.ID)
			if !(f > 0) {
				continue
			}
			if f < 1 {
				l.Opacity *= f
			}
		}
		out = append(out, l)
	}
	return out
}

// ModelTransform places the card: orbit rotation, flip, pulse scale, float
// bob and pan.
func ModelTransform(st interact.State, m clock.Motion, t float64) mathutil.Mat4 {
	yaw := st.Rotation.Y
	if st.Flipped {
		yaw += 180
	}
	r := mathutil.Orbit(mathutil.Deg2Rad(st.Rotation.X), mathutil.Deg2Rad(yaw))
	r = r.Mul(mathutil.Scale3(m.PulseScale(t)))
	return mathutil.Affine(r, mathutil.Vec3{st.Pan.X, st.Pan.Y + m.FloatOffset(t), 0})
}

// Build flattens fs into draw items: body surfaces first, then overlays in
// layer order.
func Build(fs FrameState) []DrawItem {
	xf := ModelTransform(fs.Interaction, fs.Motion, fs.Time)
	items := make([]DrawItem, 0, 8+len(fs.Layers)*2)

	body := func(s Surface, q Quad) {
		items = append(items, DrawItem{Pass: PassBody, Surface: s, Quad: q, Transform: xf, Material: fs.Material, Opacity: 1})
	}
	body(SurfaceFront, fs.Card.Front)
	body(SurfaceBack, fs.Card.Back)
	for _, e := range fs.Card.Edges {
		body(SurfaceEdge, e)
	}

	for _, l := range fs.Layers {
		w := l.Weight()
		if fs.Reveal != nil {
			w *= fs.Reveal(l.ID)
		}
		if w <= 0 || !HasOverlay(l.Kind) || math.IsNaN(w) {
			continue
		}
		base := DrawItem{Transform: xf, Material: fs.Material, Layer: l, Blend: l.Blend, Opacity: w}
		switch l.Kind {
		case effect.Holographic:
			it := base
			it.Pass, it.Surface = PassOverlay, SurfaceHolo
			it.Quad = fs.Card.Front.Offset(OverlayLift)
			items = append(items, it)
		case effect.Glow:
			gp, _ := l.Params.(*effect.GlowParams)
			if gp == nil {
				continue
			}
			margin := GlowMargin * math.Max(0.05, gp.Radius/100)
			outer := base
			outer.Pass, outer.Surface = PassAdditive, SurfaceGlowOuter
			outer.Margin = margin
			// Behind the card so the body hides the shell's centre.
			outer.Quad = fs.Card.Front.Offset(-fs.Card.Depth - OverlayLift).Grow(margin)
			inner := base
			inner.Pass, inner.Surface = PassOverlay, SurfaceGlowInner
			inner.Quad = fs.Card.Front.Offset(OverlayLift * 2)
			items = append(items, outer, inner)
		case effect.Particle:
			if fs.Particles == nil {
				continue
			}
			field := fs.Particles(l.ID)
			if field == nil || len(field.Points) == 0 {
				continue
			}
			it := base
			it.Pass, it.Surface = PassPoints, SurfaceParticles
			it.Points = field.Points
			items = append(items, it)
		}
	}
	return items
}

// ShellDistance maps a UV on an outer glow shell of the given margin to the
// normalized distance beyond the card edge: <=0 inside the card rect, 1 at
// the shell rim.
func ShellDistance(u, v float64, card Card, margin float64) float64 {
	if margin <= 0 {
		return 1
	}
	w := card.W + 2*margin
	h := card.H + 2*margin
	x := math.Abs(u*w - w/2)
	y := math.Abs(v*h - h/2)
	dx := math.Max(0, x-card.W/2)
	dy := math.Max(0, y-card.H/2)
	if dx == 0 && dy == 0 {
		return -math.Min(card.W/2-x, card.H/2-y) / margin
	}
	return math.Hypot(dx, dy) / margin
}
