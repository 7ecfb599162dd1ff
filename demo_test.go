package particles

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/particles/config"
	"github.com/gekko3d/particles/particlert/rt/core"
)

func headlessConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Defaults()
	require.NoError(t, err)
	cfg.Simulation.MaxParticles = 1000
	cfg.Simulation.Strategy = config.StrategySequential
	cfg.Simulation.DT = 0.01
	return cfg
}

func TestHeadlessDemo_EmitsQuotaPerFrame(t *testing.T) {
	app := NewDemoApp(HeadlessModules(headlessConfig(t))...)
	defer app.Shutdown()

	app.RunFrames(1)
	ps, ok := Resource[ParticleSim](app)
	require.True(t, ok)
	assert.Equal(t, uint32(20), ps.ActiveCount)
	assert.Equal(t, []uint32{10, 10}, ps.Sim.Emitted())

	app.RunFrames(4)
	assert.Equal(t, uint32(100), ps.ActiveCount)
	assert.InDelta(t, 0.05, ps.Elapsed, 1e-9)
}

func TestHeadlessDemo_EmitterSlotIDs(t *testing.T) {
	app := NewDemoApp(HeadlessModules(headlessConfig(t))...)
	defer app.Shutdown()
	ps, _ := Resource[ParticleSim](app)

	slots := ps.Sim.Emitters()
	require.Len(t, slots, 2)
	for _, slot := range slots {
		_, err := uuid.Parse(slot.ID)
		assert.NoError(t, err)
	}
	assert.NotEqual(t, slots[0].ID, slots[1].ID)

	app.RunFrames(1)
	assert.Equal(t, map[string]uint32{slots[0].ID: 10, slots[1].ID: 10}, emittedByID(ps.Sim))
}

func TestHeadlessDemo_PauseFreezesSimulation(t *testing.T) {
	app := NewDemoApp(HeadlessModules(headlessConfig(t))...)
	defer app.Shutdown()
	ps, _ := Resource[ParticleSim](app)

	app.RunFrames(2)
	app.Commands().ChangeState(StatePaused)
	app.RunFrames(1)
	require.Equal(t, StatePaused, app.State())
	active, elapsed := ps.ActiveCount, ps.Elapsed

	app.RunFrames(3)
	assert.Equal(t, active, ps.ActiveCount)
	assert.Equal(t, elapsed, ps.Elapsed)

	app.Commands().ChangeState(StateRunning)
	app.RunFrames(2)
	assert.Greater(t, ps.ActiveCount, active)
}

func TestParticleSim_Reset(t *testing.T) {
	app := NewDemoApp(HeadlessModules(headlessConfig(t))...)
	defer app.Shutdown()
	ps, _ := Resource[ParticleSim](app)

	app.RunFrames(3)
	require.Equal(t, uint32(60), ps.ActiveCount)

	ps.Reset()
	assert.Zero(t, ps.ActiveCount)
	assert.True(t, ps.NeedsUpload)
	for _, p := range ps.Sim.Particles {
		assert.False(t, p.Active)
	}

	app.RunFrames(1)
	assert.Equal(t, uint32(20), ps.ActiveCount)
}

func TestParticleControlSystem(t *testing.T) {
	app := NewDemoApp(HeadlessModules(headlessConfig(t))...)
	defer app.Shutdown()
	ps, _ := Resource[ParticleSim](app)
	in := &Input{}

	in.setKey(KeyLeft, true)
	particleControlSystem(ps, in)
	assert.Equal(t, float32(spinStep), ps.Transform.SpinDegPerSec)

	in.setKey(KeyLeft, false)
	in.setKey(KeyRight, true)
	particleControlSystem(ps, in)
	assert.Zero(t, ps.Transform.SpinDegPerSec)
}

func TestNewStrategy(t *testing.T) {
	_, ok := NewStrategy(config.StrategySequential, 0).(*core.SequentialUpdater)
	assert.True(t, ok)

	p, ok := NewStrategy(config.StrategyGPU, 3).(*core.ParallelUpdater)
	assert.True(t, ok, "gpu falls back to parallel until a device exists")
	assert.Equal(t, 3, p.Workers)
}
