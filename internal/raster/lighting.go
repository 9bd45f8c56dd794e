package raster

import (
	"math"

	"holocard-renderer/internal/material"
	"holocard-renderer/internal/mathutil"
)

// LightConfig holds precomputed lighting parameters for one frame.
type LightConfig struct {
	LightDir  mathutil.Vec3
	RimDir    mathutil.Vec3
	Color     mathutil.RGB // directional light colour from its temperature
	Ambient   float64
	Hemi      float64
	Direct    float64
	Rim       float64
	Shadow    float64
	Exposure  float64
	SRGBGamma float64
	InvGamma  float64
}

// NewLightConfig builds a key light from scene parameters.
func NewLightConfig(ambient, directional, kelvin, shadow float64) LightConfig {
	return LightConfig{
		LightDir:  mathutil.Vec3{0.45, 0.65, 0.6}.Normalize(),
		RimDir:    mathutil.Vec3{-0.5, 0.3, -0.8}.Normalize(),
		Color:     KelvinRGB(kelvin),
		Ambient:   ambient,
		Hemi:      0.25,
		Direct:    directional,
		Rim:       0.35,
		Shadow:    mathutil.Clamp01(shadow),
		Exposure:  1.05,
		SRGBGamma: 2.2,
		InvGamma:  1.0 / 2.2,
	}
}

// DefaultLightConfig is a neutral studio key light.
func DefaultLightConfig() LightConfig {
	return NewLightConfig(0.5, 1.0, 5500, 0.3)
}

// Shade lights a linear albedo at a surface with normal n seen along view
// (eye toward surface) using material m. The result is linear light.
func (lc *LightConfig) Shade(albedo mathutil.RGB, n, view mathutil.Vec3, m material.State) mathutil.RGB {
	n = n.Normalize()
	v := view.Normalize()
	toEye := v.Neg()

	ndl := math.Max(0, n.Dot(lc.LightDir))
	ndlRim := math.Max(0, n.Dot(lc.RimDir))
	// Shadowing darkens the unlit side more than the lit side.
	occl := 1 - lc.Shadow*(1-ndl)*0.6

	// Hemisphere fill
	hemi := ((n[1]*0.5 + 0.5) * lc.Hemi)

	diffuseLight := mathutil.Gray(lc.Ambient*occl + hemi).Add(lc.Color.Scale(ndl * lc.Direct)).Add(mathutil.Gray(ndlRim * lc.Rim))
	diffuse := albedo.Mul(diffuseLight).Scale(1 - 0.7*m.Metalness)

	// Blinn-Phong specular, sharpened by smoothness and tinted by metalness.
	half := lc.LightDir.Add(toEye).Normalize()
	ndh := math.Max(0, n.Dot(half))
	smooth := 1 - m.Roughness
	specPow := 4 + smooth*smooth*160
	specInt := (0.15 + 0.85*smooth) * lc.Direct
	specColor := mathutil.White.Lerp(albedo, m.Metalness).Mul(lc.Color)
	spec := specColor.Scale(math.Pow(ndh, specPow) * specInt)

	coat := lc.Color.Scale(m.Clearcoat * math.Pow(ndh, 240) * 0.8)

	out := diffuse.Add(spec).Add(coat)
	if m.Transmission > 0 {
		// Light through the card: flatter, brighter, less directional.
		out = out.Lerp(albedo.Scale(lc.Ambient+0.5*lc.Direct), m.Transmission*0.5)
	}
	return out.Add(albedo.Scale(m.Emission * 0.8))
}

// Encode tone-maps a linear colour (exposure, ACES) and converts it to
// display sRGB in [0,1].
func (lc *LightConfig) Encode(c mathutil.RGB) mathutil.RGB {
	return mathutil.RGB{
		R: math.Pow(ACESTonemap(math.Max(0, c.R)*lc.Exposure), lc.InvGamma),
		G: math.Pow(ACESTonemap(math.Max(0, c.G)*lc.Exposure), lc.InvGamma),
		B: math.Pow(ACESTonemap(math.Max(0, c.B)*lc.Exposure), lc.InvGamma),
	}
}

// KelvinRGB approximates the colour of a black body at the given
// temperature, normalized so 6500K is near white.
func KelvinRGB(kelvin float64) mathutil.RGB {
	t := mathutil.Clamp(kelvin, 1000, 40000) / 100
	var r, g, b float64
	if t <= 66 {
		r = 255
		g = 99.4708025861*math.Log(t) - 161.1195681661
	} else {
		r = 329.698727446 * math.Pow(t-60, -0.1332047592)
		g = 288.1221695283 * math.Pow(t-60, -0.0755148492)
	}
	switch {
	case t >= 66:
		b = 255
	case t <= 19:
		b = 0
	default:
		b = 138.5177312231*math.Log(t-10) - 305.0447927307
	}
	return mathutil.RGB{
		R: mathutil.Clamp01(r / 255),
		G: mathutil.Clamp01(g / 255),
		B: mathutil.Clamp01(b / 255),
	}
}

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// Linear converts a display colour in [0,1] to linear light.
func Linear(c mathutil.RGB) mathutil.RGB {
	return mathutil.RGB{R: math.Pow(mathutil.Clamp01(c.R), 2.2), G: math.Pow(mathutil.Clamp01(c.G), 2.2), B: math.Pow(mathutil.Clamp01(c.B), 2.2)}
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}
