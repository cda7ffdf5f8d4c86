// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"math"
)

// Point3 represents a 3D point in drawing coordinates.
type Point3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// NewPoint3 creates a new Point3.
func NewPoint3(x, y, z float64) Point3 {
	return Point3{X: x, Y: y, Z: z}
}

// Distance returns the Euclidean distance to another point.
func (p Point3) Distance(other Point3) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	dz := p.Z - other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Add returns the sum of two points.
func (p Point3) Add(other Point3) Point3 {
	return Point3{X: p.X + other.X, Y: p.Y + other.Y, Z: p.Z + other.Z}
}

// Sub returns the difference of two points.
func (p Point3) Sub(other Point3) Point3 {
	return Point3{X: p.X - other.X, Y: p.Y - other.Y, Z: p.Z - other.Z}
}

// Scale returns the point scaled by a factor.
func (p Point3) Scale(factor float64) Point3 {
	return Point3{X: p.X * factor, Y: p.Y * factor, Z: p.Z * factor}
}

// Less reports whether p orders before other lexicographically (X, then Y, then Z).
func (p Point3) Less(other Point3) bool {
	if p.X != other.X {
		return p.X < other.X
	}
	if p.Y != other.Y {
		return p.Y < other.Y
	}
	return p.Z < other.Z
}

// Quantize snaps a value onto a grid of the given step. A step of zero or less
// returns the value unchanged.
func Quantize(value, step float64) float64 {
	if step <= 0 {
		return value
	}
	return math.Round(value/step) * step
}

// QuantizePoint snaps every coordinate of a point onto a grid of the given step.
func QuantizePoint(p Point3, step float64) Point3 {
	return Point3{
		X: Quantize(p.X, step),
		Y: Quantize(p.Y, step),
		Z: Quantize(p.Z, step),
	}
}

// Cell identifies the grid cell a point falls into at the given step.
type Cell struct {
	X, Y, Z int64
}

// CellOf returns the grid cell containing p at the given step.
func CellOf(p Point3, step float64) Cell {
	if step <= 0 {
		step = 1
	}
	return Cell{
		X: int64(math.Round(p.X / step)),
		Y: int64(math.Round(p.Y / step)),
		Z: int64(math.Round(p.Z / step)),
	}
}

// NormalizeAngle maps an angle in degrees into [0, 360).
func NormalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
