package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

type EmitterKind uint32

const (
	EmitterPoint EmitterKind = iota
	EmitterBar
)

func (k EmitterKind) String() string {
	switch k {
	case EmitterPoint:
		return "point"
	case EmitterBar:
		return "bar"
	}
	return "unknown"
}

// Emitter assigns a fresh position and velocity to a particle being reborn.
//
// ApplyTransform is called at most once per frame, before any ResetParticle
// call of that frame. ResetParticle never touches the active flag; the
// updater owns that decision.
type Emitter interface {
	ResetParticle(p *Particle)
	ApplyTransform(m mgl32.Mat4)
	Params() EmitterParams
}

// EmitterParams is the flattened, tagged form of an emitter's current
// geometry. The GPU strategy uploads it as-is.
type EmitterParams struct {
	Kind EmitterKind

	// Point: P0 is the center. Bar: P0 and P1 are the segment endpoints.
	P0 mgl32.Vec4
	P1 mgl32.Vec4

	// Bar only; unit length, w=0.
	Direction mgl32.Vec4

	MinVelocity float32
	MaxVelocity float32

	// Point only; radius of the reset hotspot.
	Spread float32
}
