// Package shading holds the per-effect colour functions. Every function is
// pure: identical inputs always produce bit-identical output.
package shading

import (
	"errors"
	"fmt"
	"math"

	"holocard-renderer/internal/effect"
	"holocard-renderer/internal/mathutil"
)

// Input is the surface sample a shading function sees.
type Input struct {
	// Coord is the surface coordinate, (0,0) top-left to (1,1) bottom-right.
	Coord [2]float64
	// ViewDir points from the eye toward the surface point.
	ViewDir mathutil.Vec3
	Normal  mathutil.Vec3
	// Time is the animation clock's elapsed seconds.
	Time float64
	// Base is the colour accumulated beneath this layer.
	Base mathutil.RGB
}

// Func computes a layer's source colour for one sample.
type Func func(p effect.Params, in Input) mathutil.RGB

// registry is indexed by effect kind; every kind needs an entry.
var registry = [effect.NumKinds]Func{
	effect.Holographic:  holographic,
	effect.Metallic:     metallic,
	effect.Chrome:       chrome,
	effect.Crystal:      crystal,
	effect.Foil:         foil,
	effect.Vintage:      vintage,
	effect.Particle:     passthrough,
	effect.Glow:         glow,
	effect.Prismatic:    prismatic,
	effect.Interference: interference,
	effect.BrushedMetal: brushedMetal,
	effect.GoldFoil:     goldFoil,
}

var (
	ErrInvalidKind   = errors.New("shading: invalid effect kind")
	ErrParamMismatch = errors.New("shading: parameter record does not match kind")
	ErrNonFinite     = errors.New("shading: non-finite result")
)

// Shade evaluates the shading function of kind k.
func Shade(k effect.Kind, p effect.Params, in Input) (mathutil.RGB, error) {
	if !k.Valid() || registry[k] == nil {
		return mathutil.RGB{}, fmt.Errorf("%w: %v", ErrInvalidKind, k)
	}
	if p == nil || p.Kind() != k {
		return mathutil.RGB{}, fmt.Errorf("%w: %v", ErrParamMismatch, k)
	}
	c := registry[k](p, in)
	if !c.Finite() {
		return mathutil.RGB{}, fmt.Errorf("%w: %v", ErrNonFinite, k)
	}
	return c, nil
}

// Composite folds every enabled layer, bottom to top, over in.Base. A layer
// whose shading fails is skipped so one bad layer cannot blank the frame.
func Composite(layers []effect.Layer, in Input) mathutil.RGB {
	acc := in.Base
	for _, l := range layers {
		w := l.Weight()
		if w == 0 || !HasSurfaceShading(l.Kind) {
			continue
		}
		in.Base = acc
		src, err := Shade(l.Kind, l.Params, in)
		if err != nil {
			continue
		}
		acc = Blend(l.Blend, acc, src, w)
	}
	return acc
}

// HasSurfaceShading reports whether k alters the card surface per pixel.
// Particles only exist as a point cloud.
func HasSurfaceShading(k effect.Kind) bool {
	return k.Valid() && k != effect.Particle
}

// Fresnel is the view-angle weight: 0 face-on, rising to 1 at grazing angles.
func Fresnel(normal, viewDir mathutil.Vec3) float64 {
	d := normal.Normalize().Dot(viewDir.Neg().Normalize())
	d = mathutil.Clamp01(math.Abs(d))
	return (1 - d) * (1 - d)
}

// hash2 is a deterministic pseudo-random value in [0,1) for a 2D cell.
func hash2(x, y float64) float64 {
	return mathutil.Frac(math.Sin(x*12.9898+y*78.233) * 43758.5453)
}

func passthrough(_ effect.Params, in Input) mathutil.RGB {
	return in.Base
}
