package mathutil

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is a linear-ish colour with channels nominally in [0,1]. Values above 1
// are allowed in intermediate shading results.
type RGB struct {
	R, G, B float64
}

var (
	Black = RGB{}
	White = RGB{1, 1, 1}
)

func Gray(v float64) RGB {
	return RGB{v, v, v}
}

func (a RGB) Add(b RGB) RGB {
	return RGB{a.R + b.R, a.G + b.G, a.B + b.B}
}

func (a RGB) Sub(b RGB) RGB {
	return RGB{a.R - b.R, a.G - b.G, a.B - b.B}
}

func (c RGB) Scale(s float64) RGB {
	return RGB{c.R * s, c.G * s, c.B * s}
}

// Mul is the channel-wise product.
func (a RGB) Mul(b RGB) RGB {
	return RGB{a.R * b.R, a.G * b.G, a.B * b.B}
}

func (a RGB) Lerp(b RGB, t float64) RGB {
	return RGB{
		a.R + (b.R-a.R)*t,
		a.G + (b.G-a.G)*t,
		a.B + (b.B-a.B)*t,
	}
}

func (c RGB) Clamp() RGB {
	return RGB{Clamp01(c.R), Clamp01(c.G), Clamp01(c.B)}
}

// Luma is the Rec. 601 luminance.
func (c RGB) Luma() float64 {
	return c.R*0.299 + c.G*0.587 + c.B*0.114
}

func (c RGB) Finite() bool {
	for _, v := range [...]float64{c.R, c.G, c.B} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// HSV converts hue in [0,1) plus saturation and value to RGB.
func HSV(h, s, v float64) RGB {
	c := colorful.Hsv(Frac(h)*360, Clamp01(s), Clamp01(v))
	return RGB{c.R, c.G, c.B}
}

// Hue returns the hue of c in [0,1).
func (c RGB) Hue() float64 {
	h, _, _ := colorful.Color{R: c.R, G: c.G, B: c.B}.Hsv()
	return Frac(h / 360)
}

// HexRGB parses "#rrggbb" or "#rgb", returning fallback on malformed input.
func HexRGB(s string, fallback RGB) RGB {
	if s == "" {
		return fallback
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return fallback
	}
	return RGB{c.R, c.G, c.B}
}

// To8 converts to 8-bit channels.
func (c RGB) To8() (r, g, b uint8) {
	return To8(c.R), To8(c.G), To8(c.B)
}

// From8 builds an RGB from 8-bit channels.
func From8(r, g, b uint8) RGB {
	return RGB{float64(r) / 255, float64(g) / 255, float64(b) / 255}
}

func To8(v float64) uint8 {
	if v != v || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
