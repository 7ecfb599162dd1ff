package core

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// PointSpreadRadius is how far from the emitter center a particle may be
// reset, so that emitted particles do not all overlap exactly.
const PointSpreadRadius float32 = 0.05

// PointEmitter resets particles near a single point and launches them in a
// random direction.
type PointEmitter struct {
	origin   mgl32.Vec4
	current  mgl32.Vec4
	velocity VelocityRange
	spread   float32
}

func NewPointEmitter(center mgl32.Vec2, minVel, maxVel float32) (*PointEmitter, error) {
	if !finiteVec2(center) {
		return nil, fmt.Errorf("point emitter: %w: center %v", ErrNonFinite, center)
	}
	vr, err := NewVelocityRange(minVel, maxVel)
	if err != nil {
		return nil, err
	}
	pos := point4(center)
	return &PointEmitter{
		origin:   pos,
		current:  pos,
		velocity: vr,
		spread:   PointSpreadRadius,
	}, nil
}

func (e *PointEmitter) ResetParticle(p *Particle) {
	offset := randomDirection().Mul(e.spread * randFloat32())
	p.Position = e.current.Add(offset)
	p.Velocity = randomDirection().Mul(e.velocity.Sample())
}

func (e *PointEmitter) ApplyTransform(m mgl32.Mat4) {
	e.current = m.Mul4x1(e.origin)
}

func (e *PointEmitter) Center() mgl32.Vec4 {
	return e.current
}

func (e *PointEmitter) Spread() float32 {
	return e.spread
}

func (e *PointEmitter) Velocity() VelocityRange {
	return e.velocity
}

func (e *PointEmitter) Params() EmitterParams {
	return EmitterParams{
		Kind:        EmitterPoint,
		P0:          e.current,
		P1:          e.current,
		MinVelocity: e.velocity.Min,
		MaxVelocity: e.velocity.Max,
		Spread:      e.spread,
	}
}
