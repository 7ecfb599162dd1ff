package config

import (
	"fmt"

	"github.com/gekko3d/particles/particlert/rt/core"

	"github.com/go-gl/mathgl/mgl32"
)

// Build creates a simulation with the configured region and emitters, the
// transform applied once and initial particle state seeded.
func Build(cfg *Config) (*core.Simulation, error) {
	sim, err := core.NewSimulation(cfg.Simulation.MaxParticles)
	if err != nil {
		return nil, err
	}

	corners := make([]mgl32.Vec2, len(cfg.Region.Corners))
	for i, c := range cfg.Region.Corners {
		corners[i] = mgl32.Vec2{c[0], c[1]}
	}
	region, err := core.NewPolygonRegion(corners)
	if err != nil {
		return nil, fmt.Errorf("region: %w", err)
	}
	sim.SetRegion(region)

	for i, ec := range cfg.Emitters {
		e, err := BuildEmitter(ec)
		if err != nil {
			return nil, fmt.Errorf("emitters[%d]: %w", i, err)
		}
		if _, err := sim.AddEmitter(e, ec.Quota); err != nil {
			return nil, fmt.Errorf("emitters[%d]: %w", i, err)
		}
	}

	m := cfg.Transform.Matrix(0)
	sim.ApplyTransforms(m, m)
	if len(cfg.Emitters) > 0 {
		sim.SeedParticles()
	}
	return sim, nil
}

func BuildEmitter(ec EmitterConfig) (core.Emitter, error) {
	switch ec.Kind {
	case EmitterKindPoint:
		return core.NewPointEmitter(vec2(ec.Center), ec.MinVelocity, ec.MaxVelocity)
	case EmitterKindBar:
		return core.NewBarEmitter(vec2(ec.P1), vec2(ec.P2), vec2(ec.Direction), ec.MinVelocity, ec.MaxVelocity)
	}
	return nil, fmt.Errorf("%w: unknown emitter kind %q", ErrInvalidConfig, ec.Kind)
}

// Matrix is translate * rotate, with the rotation advanced by elapsed
// seconds of spin.
func (t TransformConfig) Matrix(elapsed float64) mgl32.Mat4 {
	angle := t.RotateDeg + t.SpinDegPerSec*float32(elapsed)
	return mgl32.Translate3D(t.Translate[0], t.Translate[1], 0).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(angle)))
}

func vec2(v [2]float32) mgl32.Vec2 {
	return mgl32.Vec2{v[0], v[1]}
}
