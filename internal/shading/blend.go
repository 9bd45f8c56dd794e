package shading

import (
	"math"

	"holocard-renderer/internal/effect"
	"holocard-renderer/internal/mathutil"
)

// Blend composites src over dst with mode, mixed in by weight in [0,1].
// Channels are clamped to [0,1] before the blend formula is applied.
func Blend(mode effect.BlendMode, dst, src mathutil.RGB, weight float64) mathutil.RGB {
	weight = mathutil.Clamp01(weight)
	if weight == 0 {
		return dst
	}
	d := dst.Clamp()
	s := src.Clamp()
	fn := blendFuncs[effect.BlendNormal]
	if mode < effect.NumBlendModes {
		fn = blendFuncs[mode]
	}
	out := mathutil.RGB{R: fn(d.R, s.R), G: fn(d.G, s.G), B: fn(d.B, s.B)}
	return d.Lerp(out, weight)
}

var blendFuncs = [effect.NumBlendModes]func(b, s float64) float64{
	effect.BlendNormal:     func(_, s float64) float64 { return s },
	effect.BlendMultiply:   func(b, s float64) float64 { return b * s },
	effect.BlendScreen:     screen,
	effect.BlendOverlay:    func(b, s float64) float64 { return hardLight(s, b) },
	effect.BlendSoftLight:  softLight,
	effect.BlendHardLight:  hardLight,
	effect.BlendColorDodge: colorDodge,
	effect.BlendColorBurn:  colorBurn,
}

func screen(b, s float64) float64 {
	return b + s - b*s
}

func hardLight(b, s float64) float64 {
	if s <= 0.5 {
		return b * 2 * s
	}
	return screen(b, 2*s-1)
}

// softLight is the W3C / Perez soft light.
func softLight(b, s float64) float64 {
	if s <= 0.5 {
		return b - (1-2*s)*b*(1-b)
	}
	var g float64
	if b <= 0.25 {
		g = ((16*b-12)*b + 4) * b
	} else {
		g = math.Sqrt(b)
	}
	return b + (2*s-1)*(g-b)
}

func colorDodge(b, s float64) float64 {
	if b == 0 {
		return 0
	}
	if s >= 1 {
		return 1
	}
	return math.Min(1, b/(1-s))
}

func colorBurn(b, s float64) float64 {
	if b >= 1 {
		return 1
	}
	if s <= 0 {
		return 0
	}
	return 1 - math.Min(1, (1-b)/s)
}
