package shading

import (
	"math"

	"holocard-renderer/internal/effect"
	"holocard-renderer/internal/mathutil"
)

var defaultGlow = mathutil.RGB{R: 0.5, G: 0.83, B: 1}

// GlowColor is the glow layer's colour, defaulting on a malformed value.
func GlowColor(gp *effect.GlowParams) mathutil.RGB {
	return mathutil.HexRGB(gp.Color, defaultGlow)
}

// GlowPulse is the time-varying brightness factor of a glow layer.
func GlowPulse(gp *effect.GlowParams, t float64) float64 {
	if !gp.Pulse {
		return 1
	}
	return 0.75 + 0.25*math.Sin(t*3)
}

// glow brightens the card towards its edges.
func glow(p effect.Params, in Input) mathutil.RGB {
	gp := p.(*effect.GlowParams)
	edge := math.Min(math.Min(in.Coord[0], 1-in.Coord[0]), math.Min(in.Coord[1], 1-in.Coord[1]))
	width := math.Max(0.01, gp.Radius/100*0.5)
	g := 1 - mathutil.Smoothstep(0, width, edge)
	return in.Base.Add(GlowColor(gp).Scale(g * gp.Intensity / 100 * GlowPulse(gp, in.Time)))
}

// ShellFalloff is the glow shell's alpha at normalized distance d from the
// card edge (0 at the edge, 1 at the shell's outer rim).
func ShellFalloff(d float64) float64 {
	d = mathutil.Clamp01(d)
	return (1 - d) * (1 - d)
}
