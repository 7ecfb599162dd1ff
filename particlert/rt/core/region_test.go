package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trapezoidCorners() []mgl32.Vec2 {
	return []mgl32.Vec2{
		{-0.25, -0.5},
		{0.25, -0.5},
		{0.5, 0.25},
		{-0.5, 0.25},
	}
}

func particleAt(x, y float32) *Particle {
	return &Particle{Position: mgl32.Vec4{x, y, 0, 1}}
}

func TestPolygonRegion_Bounds(t *testing.T) {
	r, err := NewPolygonRegion(trapezoidCorners())
	require.NoError(t, err)
	assert.Equal(t, 4, r.FaceCount())

	assert.False(t, r.IsOutOfBounds(particleAt(0, -0.125)), "centroid")
	assert.True(t, r.IsOutOfBounds(particleAt(10, 10)))
	assert.True(t, r.IsOutOfBounds(particleAt(0, -0.6)), "below bottom edge")
	assert.True(t, r.IsOutOfBounds(particleAt(0, 0.3)), "above top edge")
}

func TestPolygonRegion_NormalsPointOutward(t *testing.T) {
	r, err := NewPolygonRegion(trapezoidCorners())
	require.NoError(t, err)

	bottom := r.Faces()[0]
	assert.Equal(t, mgl32.Vec2{0, -0.5}, bottom.Center)
	assert.Less(t, bottom.Normal.Y(), float32(0))
	assert.InDelta(t, 0, bottom.Normal.X(), 1e-6)
}

func TestPolygonRegion_Validation(t *testing.T) {
	_, err := NewPolygonRegion([]mgl32.Vec2{{0, 0}, {1, 0}})
	assert.ErrorIs(t, err, ErrTooFewCorners)

	many := make([]mgl32.Vec2, MaxPolygonFaces+1)
	_, err = NewPolygonRegion(many)
	assert.ErrorIs(t, err, ErrTooManyFaces)

	cw := trapezoidCorners()
	for i, j := 0, len(cw)-1; i < j; i, j = i+1, j-1 {
		cw[i], cw[j] = cw[j], cw[i]
	}
	_, err = NewPolygonRegion(cw)
	assert.ErrorIs(t, err, ErrClockwiseWinding)

	_, err = NewPolygonRegion([]mgl32.Vec2{{0, 0}, {1, 1}, {2, 2}})
	assert.ErrorIs(t, err, ErrDegeneratePolygon)
	bad := trapezoidCorners()
	bad[2] = mgl32.Vec2{nan32(), 0.25}
	_, err = NewPolygonRegion(bad)
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestPolygonRegion_ApplyTransform(t *testing.T) {
	r, err := NewPolygonRegion(trapezoidCorners())
	require.NoError(t, err)

	r.ApplyTransform(mgl32.Translate3D(10, 10, 0))
	assert.False(t, r.IsOutOfBounds(particleAt(10, 9.875)))
	assert.True(t, r.IsOutOfBounds(particleAt(0, -0.125)))

	// Transforms are not cumulative.
	r.ApplyTransform(mgl32.Ident4())
	assert.False(t, r.IsOutOfBounds(particleAt(0, -0.125)))
}

func TestPolygonRegion_RotationKeepsNormalsOutward(t *testing.T) {
	r, err := NewPolygonRegion(trapezoidCorners())
	require.NoError(t, err)

	r.ApplyTransform(mgl32.HomogRotate3DZ(mgl32.DegToRad(90)))
	// The bottom edge is now on the right side.
	assert.False(t, r.IsOutOfBounds(particleAt(0.1, 0)))
	assert.True(t, r.IsOutOfBounds(particleAt(0.6, 0)))
}
