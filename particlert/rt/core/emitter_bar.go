package core

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// BarEmitter resets particles evenly along a segment and launches them along
// a shared emit direction. The direction rotates with the bar but is never
// translated.
type BarEmitter struct {
	start mgl32.Vec4
	end   mgl32.Vec4
	dir   mgl32.Vec4

	curStart mgl32.Vec4
	curEnd   mgl32.Vec4
	curDir   mgl32.Vec4

	velocity VelocityRange
}

func NewBarEmitter(p1, p2, emitDir mgl32.Vec2, minVel, maxVel float32) (*BarEmitter, error) {
	if !finiteVec2(p1) || !finiteVec2(p2) {
		return nil, fmt.Errorf("bar emitter: %w: endpoints %v %v", ErrNonFinite, p1, p2)
	}
	vr, err := NewVelocityRange(minVel, maxVel)
	if err != nil {
		return nil, err
	}
	if !finiteVec2(emitDir) || emitDir.Len() == 0 {
		return nil, fmt.Errorf("bar emitter: %w", ErrZeroDirection)
	}
	e := &BarEmitter{
		start:    point4(p1),
		end:      point4(p2),
		dir:      direction4(emitDir.Normalize()),
		velocity: vr,
	}
	e.curStart, e.curEnd, e.curDir = e.start, e.end, e.dir
	return e, nil
}

func (e *BarEmitter) ResetParticle(p *Particle) {
	t := randFloat32()
	p.Position = e.curStart.Add(e.curEnd.Sub(e.curStart).Mul(t))
	p.Velocity = e.curDir.Mul(e.velocity.Sample())
}

func (e *BarEmitter) ApplyTransform(m mgl32.Mat4) {
	e.curStart = m.Mul4x1(e.start)
	e.curEnd = m.Mul4x1(e.end)

	// w=0 on the original keeps translation out; scale is dropped so speeds
	// stay on the configured range.
	d := m.Mul4x1(e.dir)
	d[3] = 0
	if l := d.Len(); l > 0 {
		e.curDir = d.Mul(1 / l)
	} else {
		e.curDir = e.dir
	}
}

func (e *BarEmitter) Endpoints() (mgl32.Vec4, mgl32.Vec4) {
	return e.curStart, e.curEnd
}

func (e *BarEmitter) Direction() mgl32.Vec4 {
	return e.curDir
}

func (e *BarEmitter) Velocity() VelocityRange {
	return e.velocity
}

func (e *BarEmitter) Params() EmitterParams {
	return EmitterParams{
		Kind:        EmitterBar,
		P0:          e.curStart,
		P1:          e.curEnd,
		Direction:   e.curDir,
		MinVelocity: e.velocity.Min,
		MaxVelocity: e.velocity.Max,
	}
}
