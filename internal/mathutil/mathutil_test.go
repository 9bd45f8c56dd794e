package mathutil

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestWrapDegrees(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{190, -170},
		{-190, 170},
		{540, 180},
		{-180, 180},
	}
	for _, tt := range tests {
		if got := WrapDegrees(tt.in); !near(got, tt.want) {
			t.Errorf("WrapDegrees(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if Clamp(math.NaN(), 0, 1) != 0 {
		t.Error("NaN should clamp to lo")
	}
	if Clamp(5, 0, 1) != 1 || Clamp(-1, 0, 1) != 0 {
		t.Error("out of range not clamped")
	}
	if Frac(-0.25) != 0.75 {
		t.Errorf("Frac(-0.25) = %v", Frac(-0.25))
	}
}

func TestOrbit(t *testing.T) {
	a := Deg2Rad(30)
	if got, want := Orbit(0, a), RotY(a); !nearMat3(got, want) {
		t.Errorf("Orbit(0, a) = %v, want RotY %v", got, want)
	}

	// Pitch tips the card's up vector toward the viewer.
	up := Affine(Orbit(Deg2Rad(90), 0), Vec3{}).MulDir(Vec3{0, 1, 0})
	if !near(up[0], 0) || !near(up[1], 0) || !near(up[2], 1) {
		t.Errorf("pitched up = %v", up)
	}

	// Yaw is applied after pitch.
	r := Orbit(0.3, 0.7)
	if want := RotY(0.7).Mul(Orbit(0.3, 0)); !nearMat3(r, want) {
		t.Errorf("Orbit(p, y) = %v, want RotY(y)·Orbit(p, 0) = %v", r, want)
	}
	if got := r.Mul(Scale3(2)); !near(got[4], 2*r[4]) {
		t.Errorf("scaled = %v", got)
	}
}

func nearMat3(a, b Mat3) bool {
	for i := range a {
		if !near(a[i], b[i]) {
			return false
		}
	}
	return true
}

func TestHSVHue(t *testing.T) {
	for _, h := range []float64{0.1, 0.4, 0.8} {
		c := HSV(h, 1, 1)
		if got := c.Hue(); math.Abs(got-h) > 1e-6 {
			t.Errorf("Hue(HSV(%v)) = %v", h, got)
		}
	}
}

func TestHexRGB(t *testing.T) {
	fb := RGB{0.5, 0.5, 0.5}
	if got := HexRGB("#ff0000", fb); got != (RGB{1, 0, 0}) {
		t.Errorf("HexRGB red = %v", got)
	}
	if got := HexRGB("bogus", fb); got != fb {
		t.Errorf("malformed hex = %v, want fallback", got)
	}
	r, g, b := RGB{1, 0.5, -1}.To8()
	if r != 255 || g != 128 || b != 0 {
		t.Errorf("To8 = %d %d %d", r, g, b)
	}
}

func TestMat4Transform(t *testing.T) {
	m := Affine(RotY(Deg2Rad(90)), Vec3{1, 2, 3})
	p := m.MulPoint(Vec3{1, 0, 0})
	if !near(p[0], 1) || !near(p[1], 2) || !near(p[2], 2) {
		t.Errorf("MulPoint = %v", p)
	}
	d := m.MulDir(Vec3{1, 0, 0})
	if !near(d[2], -1) {
		t.Errorf("MulDir = %v", d)
	}
}
