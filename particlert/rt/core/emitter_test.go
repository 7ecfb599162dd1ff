package core

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVelocityRange(t *testing.T) {
	vr, err := NewVelocityRange(0.1, 0.3)
	require.NoError(t, err)
	assert.True(t, vr.Contains(0.2))
	assert.False(t, vr.Contains(0.4))

	_, err = NewVelocityRange(0.5, 0.1)
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = NewVelocityRange(-1, 0.1)
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = NewVelocityRange(nan32(), 1)
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = NewVelocityRange(0, inf32())
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = NewVelocityRange(-inf32(), 0)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func nan32() float32 { return float32(math.NaN()) }
func inf32() float32 { return float32(math.Inf(1)) }

func TestPointEmitter_Validation(t *testing.T) {
	_, err := NewPointEmitter(mgl32.Vec2{0, 0}, 0, inf32())
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = NewPointEmitter(mgl32.Vec2{nan32(), 0}, 0.1, 0.3)
	assert.ErrorIs(t, err, ErrNonFinite)
	_, err = NewPointEmitter(mgl32.Vec2{0, inf32()}, 0.1, 0.3)
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestPointEmitter_ResetParticle(t *testing.T) {
	e, err := NewPointEmitter(mgl32.Vec2{0.2, -0.1}, 0.3, 0.5)
	require.NoError(t, err)
	center := mgl32.Vec2{0.2, -0.1}

	for i := 0; i < 200; i++ {
		var p Particle
		e.ResetParticle(&p)
		assert.LessOrEqual(t, xy(p.Position).Sub(center).Len(), PointSpreadRadius+1e-5)
		assert.Equal(t, float32(1), p.Position.W())
		assert.Equal(t, float32(0), p.Velocity.W())
		speed := p.Velocity.Len()
		assert.True(t, speed >= 0.3-1e-5 && speed <= 0.5+1e-5, "speed %v", speed)
	}
}

func TestPointEmitter_ApplyTransform(t *testing.T) {
	e, err := NewPointEmitter(mgl32.Vec2{0, 0}, 0.3, 0.5)
	require.NoError(t, err)

	e.ApplyTransform(mgl32.Translate3D(0.3, 0.3, 0))
	assert.Equal(t, mgl32.Vec4{0.3, 0.3, 0, 1}, e.Center())

	var p Particle
	e.ResetParticle(&p)
	assert.LessOrEqual(t, xy(p.Position).Sub(mgl32.Vec2{0.3, 0.3}).Len(), PointSpreadRadius+1e-5)

	params := e.Params()
	assert.Equal(t, EmitterPoint, params.Kind)
	assert.Equal(t, e.Center(), params.P0)
}

func TestBarEmitter_ResetParticle(t *testing.T) {
	e, err := NewBarEmitter(mgl32.Vec2{-0.2, 0.1}, mgl32.Vec2{-0.2, -0.1}, mgl32.Vec2{2, 0}, 0.1, 0.3)
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 0}, e.Direction())

	for i := 0; i < 200; i++ {
		var p Particle
		e.ResetParticle(&p)
		assert.InDelta(t, -0.2, p.Position.X(), 1e-6)
		assert.True(t, p.Position.Y() >= -0.1-1e-6 && p.Position.Y() <= 0.1+1e-6)
		assert.InDelta(t, 0, p.Velocity.Y(), 1e-6)
		assert.True(t, p.Velocity.X() >= 0.1-1e-6 && p.Velocity.X() <= 0.3+1e-6)
	}
}

func TestBarEmitter_ApplyTransform(t *testing.T) {
	e, err := NewBarEmitter(mgl32.Vec2{0, 0}, mgl32.Vec2{1, 0}, mgl32.Vec2{0, 1}, 0.1, 0.3)
	require.NoError(t, err)

	m := mgl32.Translate3D(5, 5, 0).Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(90)))
	e.ApplyTransform(m)

	start, end := e.Endpoints()
	assert.InDelta(t, 5, start.X(), 1e-5)
	assert.InDelta(t, 5, start.Y(), 1e-5)
	assert.InDelta(t, 5, end.X(), 1e-5)
	assert.InDelta(t, 6, end.Y(), 1e-5)

	// Direction rotates but does not translate.
	dir := e.Direction()
	assert.InDelta(t, -1, dir.X(), 1e-5)
	assert.InDelta(t, 0, dir.Y(), 1e-5)
	assert.Equal(t, float32(0), dir.W())

	var p Particle
	e.ResetParticle(&p)
	assert.InDelta(t, 5, p.Position.X(), 1e-5)
	assert.True(t, p.Position.Y() >= 5-1e-5 && p.Position.Y() <= 6+1e-5)
}

func TestBarEmitter_Validation(t *testing.T) {
	_, err := NewBarEmitter(mgl32.Vec2{0, 0}, mgl32.Vec2{1, 0}, mgl32.Vec2{0, 0}, 0.1, 0.3)
	assert.ErrorIs(t, err, ErrZeroDirection)

	_, err = NewBarEmitter(mgl32.Vec2{0, 0}, mgl32.Vec2{1, 0}, mgl32.Vec2{1, 0}, 0.3, 0.1)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = NewBarEmitter(mgl32.Vec2{0, 0}, mgl32.Vec2{1, 0}, mgl32.Vec2{nan32(), 0}, 0.1, 0.3)
	assert.ErrorIs(t, err, ErrZeroDirection)
	_, err = NewBarEmitter(mgl32.Vec2{0, 0}, mgl32.Vec2{1, 0}, mgl32.Vec2{inf32(), 0}, 0.1, 0.3)
	assert.ErrorIs(t, err, ErrZeroDirection)

	_, err = NewBarEmitter(mgl32.Vec2{0, 0}, mgl32.Vec2{1, 0}, mgl32.Vec2{1, 0}, 0.1, inf32())
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = NewBarEmitter(mgl32.Vec2{nan32(), 0}, mgl32.Vec2{1, 0}, mgl32.Vec2{1, 0}, 0.1, 0.3)
	assert.ErrorIs(t, err, ErrNonFinite)
	_, err = NewBarEmitter(mgl32.Vec2{0, 0}, mgl32.Vec2{1, -inf32()}, mgl32.Vec2{1, 0}, 0.1, 0.3)
	assert.ErrorIs(t, err, ErrNonFinite)
}
