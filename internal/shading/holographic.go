package shading

import (
	"math"

	"holocard-renderer/internal/effect"
	"holocard-renderer/internal/mathutil"
)

// shiftRate converts shiftSpeed units to hue cycles per second.
const shiftRate = 0.002

func holographic(p effect.Params, in Input) mathutil.RGB {
	hp := p.(*effect.HolographicParams)
	intensity := hp.Intensity / 100

	dx := in.Coord[0] - 0.5
	dy := in.Coord[1] - 0.5
	radius := math.Hypot(dx, dy)

	var sweep float64
	if hp.Pattern == "linear" {
		sweep = in.Coord[0] + in.Coord[1]*0.5
	} else {
		sweep = math.Atan2(dy, dx) / (2 * math.Pi)
	}
	scale := hp.RainbowScale / 50
	hue := mathutil.Frac(sweep + in.Time*hp.ShiftSpeed*shiftRate + radius*2*scale)
	rainbow := mathutil.HSV(hue, 0.8, 1.0)

	f := Fresnel(in.Normal, in.ViewDir)
	return in.Base.Lerp(rainbow, intensity*0.3*f).Add(rainbow.Scale(intensity * 0.2 * f))
}

func prismatic(p effect.Params, in Input) mathutil.RGB {
	pp := p.(*effect.PrismaticParams)
	intensity := pp.Intensity / 100
	view := in.ViewDir.Normalize()
	hue := mathutil.Frac(in.Coord[0]*pp.Bands*0.5 + in.Coord[1]*0.25 + view[0]*0.5 + in.Time*0.05)
	band := mathutil.HSV(hue, 0.9, 1)
	edge := 0.5 + 0.5*Fresnel(in.Normal, in.ViewDir)
	return in.Base.Lerp(band, intensity*0.5*edge)
}

// interference approximates thin-film colour with a cosine palette driven by
// the view angle and film thickness.
func interference(p effect.Params, in Input) mathutil.RGB {
	ip := p.(*effect.InterferenceParams)
	intensity := ip.Intensity / 100
	cos := math.Abs(in.Normal.Normalize().Dot(in.ViewDir.Neg().Normalize()))
	phase := ip.Thickness/100*4*cos + in.Time*0.02
	film := mathutil.RGB{
		R: 0.5 + 0.5*math.Cos(2*math.Pi*phase),
		G: 0.5 + 0.5*math.Cos(2*math.Pi*(phase+0.33)),
		B: 0.5 + 0.5*math.Cos(2*math.Pi*(phase+0.67)),
	}
	return in.Base.Lerp(in.Base.Mul(film).Scale(1.6), intensity*0.6)
}
