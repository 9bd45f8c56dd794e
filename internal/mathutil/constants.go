package mathutil

import "math"

// Physical card proportions (63 × 88 mm, roughly 2.5:3.5), normalized so the
// card is one unit wide.
const (
	CardWidth  = 1.0
	CardHeight = 3.5 / 2.5
	CardDepth  = 0.012
)

// WrapDegrees maps an angle into (-180, 180].
func WrapDegrees(a float64) float64 {
	d := math.Mod(a, 360)
	if d <= -180 {
		d += 360
	} else if d > 180 {
		d -= 360
	}
	return d
}

// Clamp limits v to [lo, hi]. NaN collapses to lo.
func Clamp(v, lo, hi float64) float64 {
	if v != v || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Frac returns the fractional part of v, always in [0, 1).
func Frac(v float64) float64 {
	f := v - math.Floor(v)
	if f >= 1 {
		return 0
	}
	return f
}

func Smoothstep(e0, e1, x float64) float64 {
	if e1 == e0 {
		if x < e0 {
			return 0
		}
		return 1
	}
	t := Clamp01((x - e0) / (e1 - e0))
	return t * t * (3 - 2*t)
}
