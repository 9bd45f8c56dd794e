package shading

import (
	"math"

	"holocard-renderer/internal/effect"
	"holocard-renderer/internal/mathutil"
)

var goldTint = mathutil.RGB{R: 1.0, G: 0.78, B: 0.34}

// environment is a cheap studio environment: bright sky above the horizon,
// darker floor below, with a soft band at the horizon.
func environment(r mathutil.Vec3, roughness float64) float64 {
	up := 0.5 + 0.5*r[1]
	band := math.Exp(-r[1] * r[1] * 40)
	env := 0.25 + 0.65*up + 0.35*band
	return mathutil.Lerp(env, 0.6, mathutil.Clamp01(roughness))
}

// schlick is Schlick's Fresnel approximation for a base reflectance f0.
func schlick(f0 mathutil.RGB, cos float64) mathutil.RGB {
	k := math.Pow(1-mathutil.Clamp01(cos), 5)
	return f0.Add(mathutil.White.Sub(f0).Scale(k))
}

func reflectDir(in Input) (mathutil.Vec3, float64) {
	n := in.Normal.Normalize()
	v := in.ViewDir.Normalize()
	return v.Reflect(n), math.Abs(n.Dot(v.Neg()))
}

func metallic(p effect.Params, in Input) mathutil.RGB {
	mp := p.(*effect.MetallicParams)
	tint := mathutil.HexRGB(mp.Tint, mathutil.RGB{R: 0.75, G: 0.75, B: 0.78})
	r, cos := reflectDir(in)
	env := environment(r, mp.Roughness/100)
	refl := schlick(tint, cos).Scale(env)
	metal := in.Base.Mul(tint).Scale(0.5).Add(refl.Scale(0.6))
	return in.Base.Lerp(metal, mp.Intensity/100)
}

func chrome(p effect.Params, in Input) mathutil.RGB {
	cp := p.(*effect.ChromeParams)
	r, cos := reflectDir(in)
	// Sharp horizon stripes read as a mirror finish.
	stripes := 0.5 + 0.5*math.Sin(r[1]*9+r[0]*3+in.Time*0.5)
	env := environment(r, 0)*0.7 + stripes*0.3
	refl := schlick(mathutil.Gray(0.9), cos).Scale(env)
	return in.Base.Lerp(refl, cp.Intensity/100*cp.Reflectivity/100)
}

func brushedMetal(p effect.Params, in Input) mathutil.RGB {
	bp := p.(*effect.BrushedMetalParams)
	a := mathutil.Deg2Rad(bp.Direction)
	along := in.Coord[0]*math.Cos(a) + in.Coord[1]*math.Sin(a)
	across := -in.Coord[0]*math.Sin(a) + in.Coord[1]*math.Cos(a)
	// Fine streaks: constant along the brush direction, noisy across it.
	streak := hash2(math.Floor(across*400), 0)
	streak = 1 + (streak-0.5)*bp.Grain/100*0.5
	streak *= 0.95 + 0.05*math.Sin(along*60)

	r, cos := reflectDir(in)
	tangent := mathutil.Vec3{math.Cos(a), math.Sin(a), 0}
	aniso := math.Pow(1-math.Abs(r.Dot(tangent)), 4)
	env := environment(r, 0.35+0.3*bp.Grain/100)
	refl := schlick(mathutil.Gray(0.8), cos).Scale(env*streak + aniso*0.3)
	return in.Base.Lerp(refl, bp.Intensity/100*0.8)
}

func goldFoil(p effect.Params, in Input) mathutil.RGB {
	gp := p.(*effect.GoldFoilParams)
	warm := gp.Warmth / 100
	tint := goldTint.Lerp(mathutil.RGB{R: 1.0, G: 0.66, B: 0.2}, warm)
	r, cos := reflectDir(in)
	env := environment(r, 0.2)
	refl := schlick(tint, cos).Scale(env)
	f := Fresnel(in.Normal, in.ViewDir)
	gold := in.Base.Mul(tint).Scale(0.6).Add(refl.Scale(0.5)).Add(tint.Scale(0.3 * f))
	return in.Base.Lerp(gold, gp.Intensity/100)
}
