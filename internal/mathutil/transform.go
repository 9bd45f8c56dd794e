package mathutil

import "math"

// Mat3 is a row-major 3×3 matrix.
type Mat3 [9]float64

// Mat4 is a row-major affine matrix: a Mat3 block plus a translation column.
// Draw items carry one as their model transform.
type Mat4 [16]float64

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}

// Scale3 scales uniformly by s.
func Scale3(s float64) Mat3 {
	return Mat3{s, 0, 0, 0, s, 0, 0, 0, s}
}

// RotY turns by a radians about the vertical axis.
func RotY(a float64) Mat3 {
	s, c := math.Sincos(a)
	return Mat3{c, 0, s, 0, 1, 0, -s, 0, c}
}

// Orbit is the card orientation for a pitch about X followed by a yaw about
// Y, both in radians: RotY(yaw)·RotX(pitch).
func Orbit(pitch, yaw float64) Mat3 {
	sx, cx := math.Sincos(pitch)
	sy, cy := math.Sincos(yaw)
	return Mat3{
		cy, sy * sx, sy * cx,
		0, cx, -sx,
		-sy, cy * sx, cy * cx,
	}
}

// Mul returns m·n.
func (m Mat3) Mul(n Mat3) Mat3 {
	var out Mat3
	for i := range 9 {
		row, col := i/3*3, i%3
		out[i] = m[row]*n[col] + m[row+1]*n[col+3] + m[row+2]*n[col+6]
	}
	return out
}

// Affine combines a linear part and a translation.
func Affine(r Mat3, t Vec3) Mat4 {
	return Mat4{
		r[0], r[1], r[2], t[0],
		r[3], r[4], r[5], t[1],
		r[6], r[7], r[8], t[2],
		0, 0, 0, 1,
	}
}

// MulPoint maps a position.
func (m Mat4) MulPoint(p Vec3) Vec3 {
	return m.MulDir(p).Add(Vec3{m[3], m[7], m[11]})
}

// MulDir maps a direction; translation does not apply.
func (m Mat4) MulDir(d Vec3) Vec3 {
	return Vec3{
		m[0]*d[0] + m[1]*d[1] + m[2]*d[2],
		m[4]*d[0] + m[5]*d[1] + m[6]*d[2],
		m[8]*d[0] + m[9]*d[1] + m[10]*d[2],
	}
}
