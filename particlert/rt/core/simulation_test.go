package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPoint(t *testing.T) *PointEmitter {
	t.Helper()
	e, err := NewPointEmitter(mgl32.Vec2{0, 0}, 0.3, 0.5)
	require.NoError(t, err)
	return e
}

func TestNewSimulation(t *testing.T) {
	_, err := NewSimulation(0)
	assert.ErrorIs(t, err, ErrInvalidCapacity)

	sim, err := NewSimulation(16)
	require.NoError(t, err)
	assert.Len(t, sim.Particles, 16)
	for _, p := range sim.Particles {
		assert.False(t, p.Active)
	}
}

func TestSimulation_AddEmitterCapacity(t *testing.T) {
	sim, err := NewSimulation(4)
	require.NoError(t, err)

	ids := map[string]bool{}
	for i := 0; i < MaxEmitters; i++ {
		id, err := sim.AddEmitter(newPoint(t), 10)
		require.NoError(t, err)
		ids[id] = true
	}
	assert.Len(t, ids, MaxEmitters)

	_, err = sim.AddEmitter(newPoint(t), 10)
	assert.ErrorIs(t, err, ErrEmitterCapacity)
	assert.Len(t, sim.Emitters(), MaxEmitters)

	_, err = sim.AddEmitter(nil, 10)
	assert.ErrorIs(t, err, ErrNilEmitter)
}

func TestSimulation_SeedParticles(t *testing.T) {
	sim, err := NewSimulation(8)
	require.NoError(t, err)
	_, err = sim.AddEmitter(newPoint(t), 1)
	require.NoError(t, err)

	sim.SeedParticles()
	for _, p := range sim.Particles {
		assert.False(t, p.Active)
		assert.NotZero(t, p.Velocity.Len())
	}
}

func TestSimulation_ApplyTransforms(t *testing.T) {
	sim, err := NewSimulation(1)
	require.NoError(t, err)
	r, err := NewPolygonRegion(trapezoidCorners())
	require.NoError(t, err)
	sim.SetRegion(r)
	e := newPoint(t)
	_, err = sim.AddEmitter(e, 1)
	require.NoError(t, err)

	sim.ApplyTransforms(mgl32.Translate3D(1, 0, 0), mgl32.Translate3D(0, 2, 0))
	assert.Equal(t, mgl32.Vec4{0, 2, 0, 1}, e.Center())
	assert.False(t, r.IsOutOfBounds(particleAt(1, -0.125)))
}
