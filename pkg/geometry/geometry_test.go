package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantize(t *testing.T) {
	assert.Equal(t, 1.0, Quantize(1.00004, 1e-4*10000))
	assert.Equal(t, 0.0001, Quantize(0.00012, 1e-4))
	assert.Equal(t, 5.5, Quantize(5.5, 0), "zero step leaves value unchanged")
	assert.Equal(t, -0.0002, Quantize(-0.00018, 1e-4))
}

func TestCellOfNeighbors(t *testing.T) {
	step := 0.001
	a := CellOf(Point3{X: 0.0000, Y: 0}, step)
	b := CellOf(Point3{X: 0.0001, Y: 0}, step)
	// Two points within a tenth of the step always land in the same or an
	// adjacent cell.
	assert.LessOrEqual(t, absInt64(a.X-b.X), int64(1))
}

func TestNormalizeAngle(t *testing.T) {
	assert.Equal(t, 0.0, NormalizeAngle(360))
	assert.Equal(t, 270.0, NormalizeAngle(-90))
	assert.Equal(t, 10.0, NormalizeAngle(730))
}

func TestPointLess(t *testing.T) {
	assert.True(t, Point3{X: 0, Y: 5}.Less(Point3{X: 1, Y: 0}))
	assert.True(t, Point3{X: 1, Y: 0}.Less(Point3{X: 1, Y: 1}))
	assert.False(t, Point3{X: 1, Y: 1, Z: 2}.Less(Point3{X: 1, Y: 1, Z: 2}))
}

func TestInsertionTransformTranslation(t *testing.T) {
	tr := InsertionTransform(Point3{X: 10, Y: 20, Z: 0}, 0, 1, 1, 1)
	got := tr.Apply(Point3{X: 1, Y: 2, Z: 3})
	assert.InDelta(t, 11, got.X, 1e-12)
	assert.InDelta(t, 22, got.Y, 1e-12)
	assert.InDelta(t, 3, got.Z, 1e-12)
	assert.True(t, tr.IsUniform())
}

func TestInsertionTransformRotationScale(t *testing.T) {
	// 90 degree rotation, double scale: (1,0) -> (0,2), then shifted.
	tr := InsertionTransform(Point3{X: 5, Y: 5}, 90, 2, 2, 1)
	got := tr.Apply(Point3{X: 1, Y: 0})
	assert.InDelta(t, 5, got.X, 1e-9)
	assert.InDelta(t, 7, got.Y, 1e-9)

	sx, sy, _ := tr.ScaleFactors()
	assert.InDelta(t, 2, sx, 1e-9)
	assert.InDelta(t, 2, sy, 1e-9)
	assert.False(t, tr.IsUniform())
}

func TestTransformCompose(t *testing.T) {
	a := InsertionTransform(Point3{X: 1, Y: 0}, 0, 1, 1, 1)
	b := InsertionTransform(Point3{X: 0, Y: 2}, 0, 1, 1, 1)
	got := a.Compose(b).Apply(Point3{})
	require.InDelta(t, 1, got.X, 1e-12)
	require.InDelta(t, 2, got.Y, 1e-12)
}

func TestIdentityTransform(t *testing.T) {
	p := Point3{X: math.Pi, Y: -1, Z: 0.5}
	assert.Equal(t, p, IdentityTransform().Apply(p))
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
