package particles

import (
	"fmt"

	"github.com/gekko3d/particles/config"
	"github.com/gekko3d/particles/particlert/rt/core"
)

// spinStep is how much Left/Right change the spin rate, in degrees/second.
const spinStep = 10

// ParticleSim is the simulation resource. It owns the core simulation and
// the strategy that advances it.
type ParticleSim struct {
	Sim          *core.Simulation
	Strategy     core.Strategy
	StrategyName string
	Transform    config.TransformConfig

	// Elapsed is simulated time; it does not advance while paused.
	Elapsed     float64
	ActiveCount uint32

	// NeedsUpload asks the renderer to push Sim.Particles to the GPU even
	// when the GPU strategy owns them.
	NeedsUpload bool

	logger Logger
}

func (ps *ParticleSim) UseStrategy(name string, s core.Strategy) {
	ps.Strategy = s
	ps.StrategyName = name
	ps.logger.Infof("Particle strategy: %s", name)
}

// Reset deactivates all particles.
func (ps *ParticleSim) Reset() {
	ps.Sim.ResetParticles()
	ps.ActiveCount = 0
	ps.NeedsUpload = true
	ps.logger.Infof("Particles reset")
}

// NewStrategy returns a CPU strategy for name. The GPU strategy needs a
// device and is installed by ParticleRenderModule; until then gpu falls
// back to the parallel CPU strategy.
func NewStrategy(name string, workers int) core.Strategy {
	switch name {
	case config.StrategySequential:
		return &core.SequentialUpdater{}
	default:
		return &core.ParallelUpdater{Workers: workers}
	}
}

// ParticleSimModule builds the simulation from config and schedules the
// per-frame transform and update systems.
type ParticleSimModule struct {
	Config *config.Config
}

func (m ParticleSimModule) Install(app *App, cmd *Commands) {
	logger := app.Logger()
	cfg := m.Config

	sim, err := config.Build(cfg)
	if err != nil {
		logger.Errorf("particle simulation: %v", err)
		panic(fmt.Sprintf("particle simulation: %v", err))
	}
	sim.Logger = logger

	ps := &ParticleSim{
		Sim:       sim,
		Transform: cfg.Transform,
		logger:    logger,
	}
	name := cfg.Simulation.Strategy
	if name == config.StrategyGPU {
		name = config.StrategyParallel
	}
	ps.UseStrategy(name, NewStrategy(name, cfg.Simulation.Workers))
	cmd.AddResources(ps)

	logger.Infof("Particles: %d capacity, %d emitters, %d region faces",
		len(sim.Particles), len(sim.Emitters()), len(sim.Region.Faces()))
	for _, slot := range sim.Emitters() {
		logger.Infof("Emitter %s: kind=%s quota=%d", slot.ID, slot.Emitter.Params().Kind, slot.Quota)
	}

	app.UseRunningSystem(System(particleTransformSystem).InStage(Update))
	app.UseRunningSystem(System(particleUpdateSystem).InStage(Update))

	if _, ok := Resource[Input](app); ok {
		cmd.UseSystem(
			System(particleControlSystem).
				InStage(PreUpdate).
				RunAlways(),
		)
	}
}

// particleTransformSystem recomputes region and emitter geometry once per
// frame, before the update.
func particleTransformSystem(ps *ParticleSim, t *Time) {
	ps.Elapsed += t.Dt.Seconds()
	m := ps.Transform.Matrix(ps.Elapsed)
	ps.Sim.ApplyTransforms(m, m)
}

func particleUpdateSystem(ps *ParticleSim, t *Time) {
	ps.ActiveCount = ps.Strategy.Update(ps.Sim, t.Seconds())
}

func particleControlSystem(ps *ParticleSim, input *Input) {
	if input.JustPressed[KeyR] {
		ps.Reset()
	}
	if input.JustPressed[KeyLeft] {
		ps.Transform.SpinDegPerSec += spinStep
	}
	if input.JustPressed[KeyRight] {
		ps.Transform.SpinDegPerSec -= spinStep
	}
}
