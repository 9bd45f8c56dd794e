package shading

import (
	"math"

	"holocard-renderer/internal/effect"
	"holocard-renderer/internal/mathutil"
)

// crystal splits the card into angular facets around the centre and gives
// each facet a dispersed, view-dependent spectral tint.
func crystal(p effect.Params, in Input) mathutil.RGB {
	cp := p.(*effect.CrystalParams)
	dx := in.Coord[0] - 0.5
	dy := in.Coord[1] - 0.5
	facets := math.Max(3, math.Round(cp.Facets))
	sector := math.Floor(mathutil.Frac(math.Atan2(dy, dx)/(2*math.Pi)) * facets)
	ring := math.Floor(math.Hypot(dx, dy) * facets * 0.5)
	cell := hash2(sector, ring)

	view := in.ViewDir.Normalize()
	spread := cp.Dispersion / 100 * 0.15
	phase := cell + view[0]*0.3 + view[1]*0.2 + in.Time*0.05
	facet := mathutil.RGB{
		R: 0.5 + 0.5*math.Cos(2*math.Pi*phase),
		G: 0.5 + 0.5*math.Cos(2*math.Pi*(phase+spread)),
		B: 0.5 + 0.5*math.Cos(2*math.Pi*(phase+2*spread)),
	}
	f := Fresnel(in.Normal, in.ViewDir)
	lit := in.Base.Scale(0.6).Add(facet.Scale(0.6 + 0.4*f))
	return in.Base.Lerp(lit, cp.Intensity/100*0.5)
}

// foil scatters twinkling flakes on a grid whose density follows the
// parameter; each flake's phase is fixed by its cell.
func foil(p effect.Params, in Input) mathutil.RGB {
	fp := p.(*effect.FoilParams)
	tint := mathutil.HexRGB(fp.Tint, mathutil.RGB{R: 0.91, G: 0.91, B: 0.94})
	grid := 8 + fp.Density*1.2
	cx := math.Floor(in.Coord[0] * grid)
	cy := math.Floor(in.Coord[1] * grid)
	h := hash2(cx, cy)

	var sparkle float64
	if h > 1-0.3*fp.Density/100-0.05 {
		tw := math.Max(0, math.Sin(in.Time*3+h*2*math.Pi))
		sparkle = math.Pow(tw, 8)
	}
	sheen := 0.3 + 0.7*Fresnel(in.Normal, in.ViewDir)
	src := in.Base.Add(tint.Scale(sparkle + 0.15*sheen))
	return in.Base.Lerp(src, fp.Intensity/100)
}
