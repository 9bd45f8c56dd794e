package shading

import (
	"math"

	"holocard-renderer/internal/effect"
	"holocard-renderer/internal/mathutil"
)

func sepia(c mathutil.RGB) mathutil.RGB {
	return mathutil.RGB{
		R: c.R*0.393 + c.G*0.769 + c.B*0.189,
		G: c.R*0.349 + c.G*0.686 + c.B*0.168,
		B: c.R*0.272 + c.G*0.534 + c.B*0.131,
	}
}

func vintage(p effect.Params, in Input) mathutil.RGB {
	vp := p.(*effect.VintageParams)
	intensity := vp.Intensity / 100
	toned := in.Base.Lerp(sepia(in.Base), vp.Sepia/100)

	// Grain is re-rolled twelve times a second.
	frame := math.Floor(in.Time * 12)
	g := (hash2(math.Floor(in.Coord[0]*512)+frame, math.Floor(in.Coord[1]*512)) - 0.5) * vp.Grain / 100 * 0.2

	dx := in.Coord[0] - 0.5
	dy := in.Coord[1] - 0.5
	vignette := 1 - mathutil.Smoothstep(0.35, 0.75, math.Hypot(dx, dy))*0.4

	aged := toned.Scale(vignette).Add(mathutil.Gray(g))
	return in.Base.Lerp(aged, intensity)
}
