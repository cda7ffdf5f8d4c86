package geometry

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Transform is a 4x4 homogeneous transformation applied to drawing points.
// Used to flatten block references into absolute modelspace coordinates.
type Transform struct {
	m *mat.Dense
}

// IdentityTransform returns the identity transform.
func IdentityTransform() Transform {
	m := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		m.Set(i, i, 1)
	}
	return Transform{m: m}
}

// InsertionTransform builds the transform for a block insertion: scale, then
// rotation about Z, then translation to the insertion point. Rotation is in
// degrees, matching the drawing file convention.
func InsertionTransform(insert Point3, rotationDeg, sx, sy, sz float64) Transform {
	rad := rotationDeg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)

	scale := mat.NewDense(4, 4, []float64{
		sx, 0, 0, 0,
		0, sy, 0, 0,
		0, 0, sz, 0,
		0, 0, 0, 1,
	})
	rot := mat.NewDense(4, 4, []float64{
		cos, -sin, 0, 0,
		sin, cos, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
	trans := mat.NewDense(4, 4, []float64{
		1, 0, 0, insert.X,
		0, 1, 0, insert.Y,
		0, 0, 1, insert.Z,
		0, 0, 0, 1,
	})

	var tr, m mat.Dense
	tr.Mul(trans, rot)
	m.Mul(&tr, scale)
	return Transform{m: &m}
}

// Apply transforms a point.
func (t Transform) Apply(p Point3) Point3 {
	v := mat.NewVecDense(4, []float64{p.X, p.Y, p.Z, 1})
	var out mat.VecDense
	out.MulVec(t.m, v)
	return Point3{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}
}

// Compose returns t composed with other (t applied after other).
func (t Transform) Compose(other Transform) Transform {
	var m mat.Dense
	m.Mul(t.m, other.m)
	return Transform{m: &m}
}

// ScaleFactors extracts the per-axis scale magnitudes from the transform.
func (t Transform) ScaleFactors() (sx, sy, sz float64) {
	sx = math.Hypot(t.m.At(0, 0), t.m.At(1, 0))
	sy = math.Hypot(t.m.At(0, 1), t.m.At(1, 1))
	sz = math.Sqrt(t.m.At(0, 2)*t.m.At(0, 2) + t.m.At(1, 2)*t.m.At(1, 2) + t.m.At(2, 2)*t.m.At(2, 2))
	return sx, sy, sz
}

// IsUniform reports whether the transform preserves lengths (no scaling).
func (t Transform) IsUniform() bool {
	sx, sy, sz := t.ScaleFactors()
	const eps = 1e-9
	return math.Abs(sx-1) < eps && math.Abs(sy-1) < eps && math.Abs(sz-1) < eps
}
