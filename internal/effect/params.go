package effect

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Params is the strongly-typed parameter record of one effect kind. The
// interface is sealed; the concrete types below are the only implementations.
type Params interface {
	Kind() Kind
	fields() []field
	clone() Params
}

type fieldType uint8

const (
	numField fieldType = iota
	strField
	boolField
)

// field binds a persisted parameter name to a struct member.
type field struct {
	name     string
	typ      fieldType
	min, max float64
	num      *float64
	str      *string
	flag     *bool
}

func num(name string, p *float64, lo, hi float64) field {
	return field{name: name, typ: numField, min: lo, max: hi, num: p}
}

func str(name string, p *string) field {
	return field{name: name, typ: strField, str: p}
}

func flag(name string, p *bool) field {
	return field{name: name, typ: boolField, flag: p}
}

type HolographicParams struct {
	Intensity    float64
	ShiftSpeed   float64
	RainbowScale float64
	Pattern      string
}

func (p *HolographicParams) Kind() Kind { return Holographic }
func (p *HolographicParams) clone() Params {
	c := *p
	return &c
}
func (p *HolographicParams) fields() []field {
	return []field{
		num("intensity", &p.Intensity, 0, 100),
		num("shiftSpeed", &p.ShiftSpeed, 0, 200),
		num("rainbowScale", &p.RainbowScale, 0, 100),
		str("pattern", &p.Pattern),
	}
}

type MetallicParams struct {
	Intensity float64
	Roughness float64
	Tint      string
}

func (p *MetallicParams) Kind() Kind { return Metallic }
func (p *MetallicParams) clone() Params {
	c := *p
	return &c
}
func (p *MetallicParams) fields() []field {
	return []field{
		num("intensity", &p.Intensity, 0, 100),
		num("roughness", &p.Roughness, 0, 100),
		str("tint", &p.Tint),
	}
}

type ChromeParams struct {
	Intensity    float64
	Reflectivity float64
}

func (p *ChromeParams) Kind() Kind { return Chrome }
func (p *ChromeParams) clone() Params {
	c := *p
	return &c
}
func (p *ChromeParams) fields() []field {
	return []field{
		num("intensity", &p.Intensity, 0, 100),
		num("reflectivity", &p.Reflectivity, 0, 100),
	}
}

type CrystalParams struct {
	Intensity  float64
	Facets     float64
	Dispersion float64
}

func (p *CrystalParams) Kind() Kind { return Crystal }
func (p *CrystalParams) clone() Params {
	c := *p
	return &c
}
func (p *CrystalParams) fields() []field {
	return []field{
		num("intensity", &p.Intensity, 0, 100),
		num("facets", &p.Facets, 3, 24),
		num("dispersion", &p.Dispersion, 0, 100),
	}
}

type FoilParams struct {
	Intensity float64
	Density   float64
	Tint      string
}

func (p *FoilParams) Kind() Kind { return Foil }
func (p *FoilParams) clone() Params {
	c := *p
	return &c
}
func (p *FoilParams) fields() []field {
	return []field{
		num("intensity", &p.Intensity, 0, 100),
		num("density", &p.Density, 0, 100),
		str("tint", &p.Tint),
	}
}

type VintageParams struct {
	Intensity float64
	Sepia     float64
	Grain     float64
}

func (p *VintageParams) Kind() Kind { return Vintage }
func (p *VintageParams) clone() Params {
	c := *p
	return &c
}
func (p *VintageParams) fields() []field {
	return []field{
		num("intensity", &p.Intensity, 0, 100),
		num("sepia", &p.Sepia, 0, 100),
		num("grain", &p.Grain, 0, 100),
	}
}

type ParticleParams struct {
	Intensity float64
	Count     float64
	Size      float64
	Speed     float64
	Color     string // empty means a random hue per particle
}

func (p *ParticleParams) Kind() Kind { return Particle }
func (p *ParticleParams) clone() Params {
	c := *p
	return &c
}
func (p *ParticleParams) fields() []field {
	return []field{
		num("intensity", &p.Intensity, 0, 100),
		num("count", &p.Count, 0, 500),
		num("size", &p.Size, 1, 10),
		num("speed", &p.Speed, 0, 200),
		str("color", &p.Color),
	}
}

type GlowParams struct {
	Intensity float64
	Radius    float64
	Color     string
	Pulse     bool
}

func (p *GlowParams) Kind() Kind { return Glow }
func (p *GlowParams) clone() Params {
	c := *p
	return &c
}
func (p *GlowParams) fields() []field {
	return []field{
		num("intensity", &p.Intensity, 0, 100),
		num("radius", &p.Radius, 0, 100),
		str("color", &p.Color),
		flag("pulse", &p.Pulse),
	}
}

type PrismaticParams struct {
	Intensity float64
	Bands     float64
}

func (p *PrismaticParams) Kind() Kind { return Prismatic }
func (p *PrismaticParams) clone() Params {
	c := *p
	return &c
}
func (p *PrismaticParams) fields() []field {
	return []field{
		num("intensity", &p.Intensity, 0, 100),
		num("bands", &p.Bands, 1, 12),
	}
}

type InterferenceParams struct {
	Intensity float64
	Thickness float64
}

func (p *InterferenceParams) Kind() Kind { return Interference }
func (p *InterferenceParams) clone() Params {
	c := *p
	return &c
}
func (p *InterferenceParams) fields() []field {
	return []field{
		num("intensity", &p.Intensity, 0, 100),
		num("thickness", &p.Thickness, 0, 100),
	}
}

type BrushedMetalParams struct {
	Intensity float64
	Direction float64 // degrees
	Grain     float64
}

func (p *BrushedMetalParams) Kind() Kind { return BrushedMetal }
func (p *BrushedMetalParams) clone() Params {
	c := *p
	return &c
}
func (p *BrushedMetalParams) fields() []field {
	return []field{
		num("intensity", &p.Intensity, 0, 100),
		num("direction", &p.Direction, 0, 360),
		num("grain", &p.Grain, 0, 100),
	}
}

type GoldFoilParams struct {
	Intensity float64
	Warmth    float64
}

func (p *GoldFoilParams) Kind() Kind { return GoldFoil }
func (p *GoldFoilParams) clone() Params {
	c := *p
	return &c
}
func (p *GoldFoilParams) fields() []field {
	return []field{
		num("intensity", &p.Intensity, 0, 100),
		num("warmth", &p.Warmth, 0, 100),
	}
}

// DefaultParams returns a fresh parameter record for k, or nil for an
// invalid kind.
func DefaultParams(k Kind) Params {
	switch k {
	case Holographic:
		return &HolographicParams{Intensity: 85, ShiftSpeed: 100, RainbowScale: 50, Pattern: "radial"}
	case Metallic:
		return &MetallicParams{Intensity: 70, Roughness: 30, Tint: "#c0c0c8"}
	case Chrome:
		return &ChromeParams{Intensity: 90, Reflectivity: 95}
	case Crystal:
		return &CrystalParams{Intensity: 60, Facets: 8, Dispersion: 50}
	case Foil:
		return &FoilParams{Intensity: 60, Density: 50, Tint: "#e8e8f0"}
	case Vintage:
		return &VintageParams{Intensity: 50, Sepia: 60, Grain: 30}
	case Particle:
		return &ParticleParams{Intensity: 70, Count: 120, Size: 3, Speed: 50}
	case Glow:
		return &GlowParams{Intensity: 60, Radius: 30, Color: "#7fd4ff", Pulse: true}
	case Prismatic:
		return &PrismaticParams{Intensity: 70, Bands: 6}
	case Interference:
		return &InterferenceParams{Intensity: 60, Thickness: 50}
	case BrushedMetal:
		return &BrushedMetalParams{Intensity: 70, Direction: 0, Grain: 40}
	case GoldFoil:
		return &GoldFoilParams{Intensity: 75, Warmth: 70}
	}
	return nil
}

// Range reports the valid range of a numeric parameter of kind k.
func Range(k Kind, name string) (lo, hi float64, ok bool) {
	p := DefaultParams(k)
	if p == nil {
		return 0, 0, false
	}
	for _, f := range p.fields() {
		if f.name == name && f.typ == numField {
			return f.min, f.max, true
		}
	}
	return 0, 0, false
}

// ParamNames lists the typed parameter names of k in declaration order.
func ParamNames(k Kind) []string {
	p := DefaultParams(k)
	if p == nil {
		return nil
	}
	fs := p.fields()
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.name
	}
	return names
}

// Get returns the value of a typed parameter as float64, string or bool.
func Get(p Params, name string) (any, bool) {
	for _, f := range p.fields() {
		if f.name != name {
			continue
		}
		switch f.typ {
		case numField:
			return *f.num, true
		case strField:
			return *f.str, true
		case boolField:
			return *f.flag, true
		}
	}
	return nil, false
}

// Number returns a numeric parameter, false if absent or not numeric.
func Number(p Params, name string) (float64, bool) {
	v, ok := Get(p, name)
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

// Intensity is the shared "intensity" parameter, 0 if absent.
func Intensity(p Params) float64 {
	v, _ := Number(p, "intensity")
	return v
}

// set writes one typed parameter, clamping numbers. It reports false when
// name is not a typed parameter of p.
func set(p Params, name string, v any) bool {
	for _, f := range p.fields() {
		if f.name != name {
			continue
		}
		switch f.typ {
		case numField:
			x, ok := toFloat(v)
			if !ok {
				// A malformed value leaves the previous one in place.
				return true
			}
			if f.name == "direction" {
				x = math.Mod(x, 360)
				if x < 0 {
					x += 360
				}
			}
			*f.num = clampRange(x, f.min, f.max, *f.num)
		case strField:
			*f.str = toString(v)
		case boolField:
			if b, ok := toBool(v); ok {
				*f.flag = b
			}
		}
		return true
	}
	return false
}

// values flattens the typed parameters into a map suitable for persistence.
func values(p Params) map[string]any {
	fs := p.fields()
	out := make(map[string]any, len(fs))
	for _, f := range fs {
		switch f.typ {
		case numField:
			out[f.name] = *f.num
		case strField:
			out[f.name] = *f.str
		case boolField:
			out[f.name] = *f.flag
		}
	}
	return out
}

func clampRange(x, lo, hi, prev float64) float64 {
	if math.IsNaN(x) {
		return prev
	}
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	case uint8:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	case interface{ Float64() (float64, error) }:
		f, err := x.Float64()
		return f, err == nil
	}
	return 0, false
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case nil:
		return ""
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

func toBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		return b, err == nil
	}
	if f, ok := toFloat(v); ok {
		return f != 0, true
	}
	return false, false
}
