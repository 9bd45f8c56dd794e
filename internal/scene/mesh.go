// Package scene turns the current viewer state into a flat list of draw
// items each frame.
package scene

import (
	"math"

	"holocard-renderer/internal/mathutil"
)

// Quad is a planar rectangle. Corners run top-left, top-right,
// bottom-right, bottom-left when seen from the side the normal points to.
type Quad struct {
	Corners [4]mathutil.Vec3
	UV      [4][2]float64
	Normal  mathutil.Vec3
}

var fullUV = [4][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

// Card is the six-faced card body.
type Card struct {
	Front Quad
	Back  Quad
	Edges [4]Quad // top, right, bottom, left
	W, H  float64
	Depth float64
}

// BuildCard builds a card body of the given size centred on the origin,
// front face toward +Z.
func BuildCard(w, h, depth float64) Card {
	hw, hh, hd := w/2, h/2, depth/2

	front := Quad{
		Corners: [4]mathutil.Vec3{{-hw, hh, hd}, {hw, hh, hd}, {hw, -hh, hd}, {-hw, -hh, hd}},
		UV:      fullUV,
		Normal:  mathutil.Vec3{0, 0, 1},
	}
	// The back is the front turned 180° about Y and pushed to -Z, so its
	// texture reads correctly from behind.
	back := transformQuad(front, mathutil.Affine(mathutil.RotY(math.Pi), mathutil.Vec3{}))
	for i := range back.Corners {
		back.Corners[i][2] = -hd
	}

	tl, tr := mathutil.Vec3{-hw, hh, 0}, mathutil.Vec3{hw, hh, 0}
	br, bl := mathutil.Vec3{hw, -hh, 0}, mathutil.Vec3{-hw, -hh, 0}
	edge := func(a, b mathutil.Vec3, n mathutil.Vec3) Quad {
		return Quad{
			Corners: [4]mathutil.Vec3{
				{a[0], a[1], hd}, {b[0], b[1], hd}, {b[0], b[1], -hd}, {a[0], a[1], -hd},
			},
			UV:     fullUV,
			Normal: n,
		}
	}
	return Card{
		Front: front,
		Back:  back,
		Edges: [4]Quad{
			edge(tl, tr, mathutil.Vec3{0, 1, 0}),
			edge(tr, br, mathutil.Vec3{1, 0, 0}),
			edge(br, bl, mathutil.Vec3{0, -1, 0}),
			edge(bl, tl, mathutil.Vec3{-1, 0, 0}),
		},
		W:     w,
		H:     h,
		Depth: depth,
	}
}

// DefaultCard is a card at real-world proportions.
func DefaultCard() Card {
	return BuildCard(mathutil.CardWidth, mathutil.CardHeight, mathutil.CardDepth)
}

// Offset returns a copy of q moved d along its normal.
func (q Quad) Offset(d float64) Quad {
	s := q.Normal.Scale(d)
	for i := range q.Corners {
		q.Corners[i] = q.Corners[i].Add(s)
	}
	return q
}

// Grow returns a copy of q enlarged by margin on every side. UVs are kept,
// so (0,0)-(1,1) spans the enlarged rectangle.
func (q Quad) Grow(margin float64) Quad {
	ax := q.Corners[1].Sub(q.Corners[0]).Normalize()
	ay := q.Corners[3].Sub(q.Corners[0]).Normalize()
	signs := [4][2]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for i := range q.Corners {
		q.Corners[i] = q.Corners[i].Add(ax.Scale(signs[i][0] * margin)).Add(ay.Scale(signs[i][1] * margin))
	}
	return q
}

func (q Quad) Center() mathutil.Vec3 {
	var c mathutil.Vec3
	for _, p := range q.Corners {
		c = c.Add(p)
	}
	return c.Scale(0.25)
}

// Size returns the quad's width and height.
func (q Quad) Size() (w, h float64) {
	return q.Corners[1].Sub(q.Corners[0]).Len(), q.Corners[3].Sub(q.Corners[0]).Len()
}

func transformQuad(q Quad, m mathutil.Mat4) Quad {
	for i := range q.Corners {
		q.Corners[i] = m.MulPoint(q.Corners[i])
	}
	q.Normal = m.MulDir(q.Normal).Normalize()
	return q
}
