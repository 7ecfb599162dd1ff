package main

import (
	"flag"
	"runtime"

	"github.com/gekko3d/particles"
	"github.com/gekko3d/particles/config"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "YAML file overlaid on the built-in defaults")
	strategy := flag.String("strategy", "", "override simulation.strategy (sequential, parallel, gpu)")
	headless := flag.Bool("headless", false, "run the simulation without a window")
	frames := flag.Int("frames", 0, "stop after this many frames (0 = until closed)")
	flag.Parse()

	config.MustInit(*configPath)
	cfg := config.Cfg()
	if *strategy != "" {
		cfg.Simulation.Strategy = *strategy
		if err := cfg.Validate(); err != nil {
			panic(err)
		}
	}

	modules := particles.DefaultModules(cfg)
	if *headless {
		modules = particles.HeadlessModules(cfg)
	}
	app := particles.NewDemoApp(modules...)

	if *frames > 0 {
		app.RunFrames(*frames)
		app.Shutdown()
		return
	}
	app.Run()
}
