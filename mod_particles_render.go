package particles

import (
	"fmt"

	"github.com/gekko3d/particles/config"
	rtapp "github.com/gekko3d/particles/particlert/rt/app"
)

const rendererName = "particles-wgpu"

type ParticleRenderer struct {
	App *rtapp.App
}

// ParticleRenderModule draws particles into the shared window. With UseGPU
// the simulation switches to the compute strategy, and particles then live
// only in GPU memory.
type ParticleRenderModule struct {
	UseGPU bool
}

func (m ParticleRenderModule) Install(app *App, cmd *Commands) {
	ensureSingleRenderer(app, rendererName)

	ws, ok := Resource[WindowState](app)
	if !ok {
		panic("ParticleRenderModule requires PlatformWindowModule")
	}
	ps, ok := Resource[ParticleSim](app)
	if !ok {
		panic("ParticleRenderModule requires ParticleSimModule")
	}

	r := rtapp.NewApp(ws.windowGlfw, ps.Sim, app.Logger())
	r.UseGPU = m.UseGPU
	r.Strategy = ps.Strategy
	if err := r.Init(); err != nil {
		app.Logger().Errorf("renderer init failed: %v", err)
		panic(fmt.Sprintf("renderer init failed: %v", err))
	}
	if m.UseGPU {
		ps.UseStrategy(config.StrategyGPU, r.Compute)
	}
	ws.OnResize(r.Resize)

	cmd.AddResources(&ParticleRenderer{App: r})
	cmd.UseSystem(
		System(particleRenderSystem).
			InStage(Render).
			RunAlways(),
	)
	cmd.OnShutdown(r.Release)
}

func particleRenderSystem(r *ParticleRenderer, ps *ParticleSim) {
	if !r.App.UseGPU || ps.NeedsUpload {
		r.App.Profiler.BeginScope("Upload")
		r.App.Particles.Upload(r.App.Queue, ps.Sim.Particles)
		r.App.Profiler.EndScope("Upload")
		ps.NeedsUpload = false
	}
	r.App.ActiveCount = ps.ActiveCount
	r.App.Profiler.SetCount("Active", int(ps.ActiveCount))
	r.App.Render()
}
