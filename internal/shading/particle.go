package shading

import (
	"math"
	"math/rand/v2"

	"holocard-renderer/internal/effect"
	"holocard-renderer/internal/mathutil"
)

// Point is one sparkle particle. Colour, size and phase are fixed at
// creation; Pos is rewritten by Animator.Tick.
type Point struct {
	Origin mathutil.Vec3
	Pos    mathutil.Vec3
	Color  mathutil.RGB
	Size   float64 // pixels at zoom 1
	Phase  float64
	Orbit  float64 // drift radius in card units
}

// ParticleField is the point set of one particle layer.
type ParticleField struct {
	Points []Point
	Seed   uint64
}

// NewParticleField scatters params.Count points just above a card face of
// the given size, centred on the origin, at height z.
func NewParticleField(pp *effect.ParticleParams, width, height, z float64, seed uint64) *ParticleField {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	n := int(math.Round(pp.Count))
	fixed := pp.Color != ""
	base := mathutil.HexRGB(pp.Color, mathutil.White)

	pts := make([]Point, n)
	for i := range pts {
		o := mathutil.Vec3{
			(rng.Float64() - 0.5) * width,
			(rng.Float64() - 0.5) * height,
			z + rng.Float64()*0.08,
		}
		c := base
		if !fixed {
			c = mathutil.HSV(rng.Float64(), 0.7, 1)
		}
		pts[i] = Point{
			Origin: o,
			Pos:    o,
			Color:  c,
			Size:   pp.Size * (0.5 + rng.Float64()),
			Phase:  rng.Float64() * 2 * math.Pi,
			Orbit:  0.01 + rng.Float64()*0.03,
		}
	}
	return &ParticleField{Points: pts, Seed: seed}
}

// Drift is the position of pt at time t. speed is the layer's speed
// parameter (0–200).
func Drift(pt Point, t, speed float64) mathutil.Vec3 {
	w := 0.5 + speed/100*1.5
	a := t*w + pt.Phase
	return pt.Origin.Add(mathutil.Vec3{
		math.Sin(a) * pt.Orbit,
		math.Cos(a*0.8) * pt.Orbit,
		math.Sin(a*0.5+pt.Phase) * pt.Orbit * 0.3,
	})
}

// Twinkle is the brightness multiplier of pt at time t, in [0.4,1].
func Twinkle(pt Point, t float64) float64 {
	return 0.7 + 0.3*math.Sin(t*4+pt.Phase*3)
}

// Animator advances a field's positions.
type Animator struct {
	Field *ParticleField
	Speed float64
	t     float64
}

// NewAnimator builds an animator for field at time zero.
func NewAnimator(field *ParticleField, speed float64) *Animator {
	return &Animator{Field: field, Speed: speed}
}

// Elapsed returns the animator's local time.
func (a *Animator) Elapsed() float64 { return a.t }

// Tick advances by dt seconds and rewrites every point's position.
func (a *Animator) Tick(dt float64) {
	if dt > 0 && !math.IsInf(dt, 0) {
		a.t += dt
	}
	a.Seek(a.t)
}

// Seek places every point at absolute time t.
func (a *Animator) Seek(t float64) {
	a.t = t
	if a.Field == nil {
		return
	}
	for i := range a.Field.Points {
		a.Field.Points[i].Pos = Drift(a.Field.Points[i], t, a.Speed)
	}
}
