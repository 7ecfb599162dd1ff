package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Particle is the unit of simulation state.
// Position is a point (w=1) and Velocity a direction (w=0), so both go
// through the same 4x4 transforms with the right translation behavior.
type Particle struct {
	Position mgl32.Vec4
	Velocity mgl32.Vec4
	Active   bool
}

// Integrate advances the position by velocity * dt.
func (p *Particle) Integrate(dt float32) {
	p.Position = p.Position.Add(p.Velocity.Mul(dt))
}

func point4(v mgl32.Vec2) mgl32.Vec4 {
	return mgl32.Vec4{v.X(), v.Y(), 0, 1}
}

func direction4(v mgl32.Vec2) mgl32.Vec4 {
	return mgl32.Vec4{v.X(), v.Y(), 0, 0}
}

func xy(v mgl32.Vec4) mgl32.Vec2 {
	return mgl32.Vec2{v.X(), v.Y()}
}
