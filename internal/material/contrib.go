package material

import (
	"holocard-renderer/internal/effect"
	"holocard-renderer/internal/mathutil"
)

// contribution nudges s for one enabled layer with compositing weight w.
type contribution func(s *State, p effect.Params, w float64)

// contributions is indexed by effect kind; an entry per kind is required.
var contributions = [effect.NumKinds]contribution{
	effect.Holographic:  holographic,
	effect.Metallic:     metallic,
	effect.Chrome:       chrome,
	effect.Crystal:      crystal,
	effect.Foil:         foil,
	effect.Vintage:      vintage,
	effect.Particle:     particle,
	effect.Glow:         glow,
	effect.Prismatic:    prismatic,
	effect.Interference: interference,
	effect.BrushedMetal: brushedMetal,
	effect.GoldFoil:     goldFoil,
}

// toward moves v toward target by k in [0,1].
func toward(v, target, k float64) float64 {
	return mathutil.Lerp(v, target, mathutil.Clamp01(k))
}

func strength(p effect.Params, w float64) float64 {
	return effect.Intensity(p) / 100 * w
}

func holographic(s *State, p effect.Params, w float64) {
	k := strength(p, w)
	s.Metalness = toward(s.Metalness, 1, 0.3*k)
	s.Roughness = toward(s.Roughness, 0.1, 0.4*k)
	s.Clearcoat = toward(s.Clearcoat, 1, 0.6*k)
}

func metallic(s *State, p effect.Params, w float64) {
	mp := p.(*effect.MetallicParams)
	k := strength(p, w)
	s.Metalness = toward(s.Metalness, 1, k)
	s.Roughness = toward(s.Roughness, mp.Roughness/100, k)
}

func chrome(s *State, p effect.Params, w float64) {
	cp := p.(*effect.ChromeParams)
	k := strength(p, w) * cp.Reflectivity / 100
	s.Metalness = toward(s.Metalness, 1, k)
	s.Roughness = toward(s.Roughness, 0, k)
	s.Clearcoat = toward(s.Clearcoat, 1, 0.5*k)
}

func brushedMetal(s *State, p effect.Params, w float64) {
	bp := p.(*effect.BrushedMetalParams)
	k := strength(p, w)
	s.Metalness = toward(s.Metalness, 0.9, k)
	s.Roughness = toward(s.Roughness, 0.35+0.3*bp.Grain/100, k)
}

func goldFoil(s *State, p effect.Params, w float64) {
	k := strength(p, w)
	s.Metalness = toward(s.Metalness, 0.95, k)
	s.Roughness = toward(s.Roughness, 0.2, k)
	s.Clearcoat = toward(s.Clearcoat, 1, 0.4*k)
}

func crystal(s *State, p effect.Params, w float64) {
	cp := p.(*effect.CrystalParams)
	k := strength(p, w)
	s.Transmission = toward(s.Transmission, 1, 0.7*k)
	s.Clearcoat = toward(s.Clearcoat, 1, 0.5*k)
	s.Roughness = toward(s.Roughness, 0.05, 0.5*k*(0.5+cp.Dispersion/200))
}

func foil(s *State, p effect.Params, w float64) {
	k := strength(p, w)
	s.Clearcoat = toward(s.Clearcoat, 1, 0.5*k)
	s.Metalness = toward(s.Metalness, 1, 0.4*k)
}

func prismatic(s *State, p effect.Params, w float64) {
	k := strength(p, w)
	s.Clearcoat = toward(s.Clearcoat, 1, 0.4*k)
	s.Transmission = toward(s.Transmission, 1, 0.15*k)
}

func interference(s *State, p effect.Params, w float64) {
	ip := p.(*effect.InterferenceParams)
	k := strength(p, w)
	s.Clearcoat = toward(s.Clearcoat, 1, 0.3*k)
	s.Transmission = toward(s.Transmission, 1, 0.1*k*ip.Thickness/100)
}

func vintage(s *State, p effect.Params, w float64) {
	k := strength(p, w)
	s.Roughness = toward(s.Roughness, 0.9, 0.6*k)
	s.Clearcoat = toward(s.Clearcoat, 0, 0.5*k)
}

func glow(s *State, p effect.Params, w float64) {
	s.Emission = toward(s.Emission, 1, strength(p, w))
}

func particle(s *State, p effect.Params, w float64) {
	s.Emission = toward(s.Emission, 1, 0.2*strength(p, w))
}
