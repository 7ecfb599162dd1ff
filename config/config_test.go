package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gekko3d/particles/particlert/rt/core"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 15000, cfg.Simulation.MaxParticles)
	assert.Equal(t, StrategyGPU, cfg.Simulation.Strategy)
	assert.InDelta(t, 0.01, cfg.Simulation.DT, 1e-9)
	assert.Len(t, cfg.Region.Corners, 4)
	require.Len(t, cfg.Emitters, 2)
	assert.Equal(t, EmitterKindBar, cfg.Emitters[0].Kind)
	assert.Equal(t, uint32(10), cfg.Emitters[1].Quota)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "particles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Overlay(t *testing.T) {
	path := writeConfig(t, `
simulation:
  strategy: parallel
  workers: 4
emitters:
  - kind: point
    center: [0.1, 0.1]
    min_velocity: 0.2
    max_velocity: 0.2
    quota: 3
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, StrategyParallel, cfg.Simulation.Strategy)
	assert.Equal(t, 4, cfg.Simulation.Workers)
	assert.Equal(t, 15000, cfg.Simulation.MaxParticles, "untouched defaults survive")
	require.Len(t, cfg.Emitters, 1)
	assert.Equal(t, uint32(3), cfg.Emitters[0].Quota)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeConfig(t, "simulation:\n  strategy: quantum\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(writeConfig(t, "simulation:\n  max_particles: 0\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(writeConfig(t, "emitters:\n  - kind: ring\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBuild_Defaults(t *testing.T) {
	cfg, err := Defaults()
	require.NoError(t, err)
	cfg.Simulation.MaxParticles = 100

	sim, err := Build(cfg)
	require.NoError(t, err)
	assert.Len(t, sim.Particles, 100)
	require.Len(t, sim.Emitters(), 2)
	assert.Equal(t, core.EmitterBar, sim.Emitters()[0].Emitter.Params().Kind)

	// The region was moved by translate(0.3, 0.3).
	inside := &core.Particle{Position: mgl32.Vec4{0.3, 0.3, 0, 1}}
	assert.False(t, sim.Region.IsOutOfBounds(inside))
	origin := &core.Particle{Position: mgl32.Vec4{-0.45, -0.45, 0, 1}}
	assert.True(t, sim.Region.IsOutOfBounds(origin))
}

func TestBuild_RejectsBadGeometry(t *testing.T) {
	cfg, err := Defaults()
	require.NoError(t, err)
	cfg.Region.Corners = [][2]float32{{-0.5, 0.25}, {0.5, 0.25}, {0.25, -0.5}, {-0.25, -0.5}}
	_, err = Build(cfg)
	assert.ErrorIs(t, err, core.ErrClockwiseWinding)

	cfg, _ = Defaults()
	cfg.Emitters[0].MinVelocity = 1
	_, err = Build(cfg)
	assert.ErrorIs(t, err, core.ErrInvalidRange)

	cfg, _ = Defaults()
	for len(cfg.Emitters) <= core.MaxEmitters {
		cfg.Emitters = append(cfg.Emitters, cfg.Emitters[1])
	}
	_, err = Build(cfg)
	assert.ErrorIs(t, err, core.ErrEmitterCapacity)
}

func TestTransformMatrix(t *testing.T) {
	tr := TransformConfig{Translate: [2]float32{1, 0}, RotateDeg: 90, SpinDegPerSec: 90}

	p := tr.Matrix(0).Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 1, p.X(), 1e-5)
	assert.InDelta(t, 1, p.Y(), 1e-5)

	p = tr.Matrix(1).Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 0, p.X(), 1e-5)
	assert.InDelta(t, 0, p.Y(), 1e-5)
}
