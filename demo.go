package particles

import (
	"time"

	"github.com/gekko3d/particles/config"
)

// DefaultModules is the windowed demo: simulation, GPU or CPU rendering,
// keyboard controls and frame stats, all driven by cfg.
func DefaultModules(cfg *config.Config) []Module {
	return []Module{
		LoggingModule{Prefix: cfg.Logging.Prefix, Debug: cfg.Logging.Debug},
		timeModule(cfg),
		NewPlatformWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title),
		InputModule{},
		ParticleSimModule{Config: cfg},
		ParticleRenderModule{UseGPU: cfg.Simulation.Strategy == config.StrategyGPU},
		statsModule(cfg),
	}
}

// HeadlessModules runs the simulation without a window or GPU.
func HeadlessModules(cfg *config.Config) []Module {
	return []Module{
		LoggingModule{Prefix: cfg.Logging.Prefix, Debug: cfg.Logging.Debug},
		timeModule(cfg),
		ParticleSimModule{Config: cfg},
		statsModule(cfg),
	}
}

// NewDemoApp builds a stateful app (running, paused, quit) from modules.
func NewDemoApp(modules ...Module) *App {
	return NewAppBuilder().
		UseStates(StateRunning, StateQuit).
		UseModule(modules...).
		Build()
}

func timeModule(cfg *config.Config) TimeModule {
	return TimeModule{
		FixedDt: secondsToDuration(cfg.Simulation.DT),
		MaxDt:   secondsToDuration(cfg.Simulation.MaxDT),
	}
}

func statsModule(cfg *config.Config) FrameStatsModule {
	return FrameStatsModule{
		Window:         cfg.Stats.Window,
		ReportInterval: secondsToDuration(cfg.Stats.ReportIntervalSec),
	}
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
