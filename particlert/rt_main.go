package main

import (
	"flag"
	"runtime"

	"github.com/gekko3d/particles"
	"github.com/gekko3d/particles/config"
	"github.com/gekko3d/particles/particlert/rt/app"
	"github.com/gekko3d/particles/particlert/rt/core"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "YAML file overlaid on the built-in defaults")
	debug := flag.Bool("debug", false, "Enable debug logging and print profiler stats once per second")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	sim, err := config.Build(cfg)
	if err != nil {
		panic(err)
	}
	logger := particles.NewDefaultLogger(cfg.Logging.Prefix, *debug || cfg.Logging.Debug)
	sim.Logger = logger

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		panic(err)
	}
	defer window.Destroy()

	application := app.NewApp(window, sim, logger)
	switch cfg.Simulation.Strategy {
	case config.StrategyGPU:
		application.UseGPU = true
	case config.StrategyParallel:
		application.Strategy = &core.ParallelUpdater{Workers: cfg.Simulation.Workers}
	default:
		application.Strategy = &core.SequentialUpdater{}
	}
	if err := application.Init(); err != nil {
		panic(err)
	}
	defer application.Release()

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		application.Resize(width, height)
	})

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	start := glfw.GetTime()
	last, lastReport := start, start
	for !window.ShouldClose() {
		glfw.PollEvents()

		now := glfw.GetTime()
		dt := float32(cfg.Simulation.DT)
		if dt <= 0 {
			dt = float32(now - last)
			if maxDt := float32(cfg.Simulation.MaxDT); maxDt > 0 && dt > maxDt {
				dt = maxDt
			}
		}
		last = now

		m := cfg.Transform.Matrix(now - start)
		sim.ApplyTransforms(m, m)
		application.Step(dt)
		application.Render()

		if logger.DebugEnabled() && now-lastReport >= 1.0 {
			logger.Debugf("FPS: %.1f\n%s", application.FPS, application.Profiler.GetStatsString())
			application.Profiler.Reset()
			lastReport = now
		}
	}
}
