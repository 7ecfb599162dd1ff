package app

import (
	"fmt"

	"github.com/gekko3d/particles/particlert/rt/core"
	"github.com/gekko3d/particles/particlert/rt/gpu"
	"github.com/gekko3d/particles/particlert/rt/shaders"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

type App struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	RenderPipeline *wgpu.RenderPipeline
	Registry       *gpu.ShaderRegistry

	// Particles is the render source. With UseGPU it is the compute
	// updater's buffer; otherwise the CPU particles are uploaded into it
	// after every step.
	Particles *gpu.ParticleBuffer
	Compute   *gpu.ComputeUpdater

	Sim      *core.Simulation
	Strategy core.Strategy
	UseGPU   bool

	Profiler   *Profiler
	Logger     gpu.Logger
	ClearColor wgpu.Color

	ActiveCount uint32

	LastRenderTime float64
	FrameCount     int
	FPS            float64
	FPSTime        float64
}

func NewApp(window *glfw.Window, sim *core.Simulation, logger gpu.Logger) *App {
	return &App{
		Window:     window,
		Sim:        sim,
		Logger:     logger,
		Profiler:   NewProfiler(),
		ClearColor: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
	}
}

func (a *App) Init() error {
	a.Instance = wgpu.CreateInstance(nil)

	a.Surface = a.Instance.CreateSurface(GetSurfaceDescriptor(a.Window))

	adapter, err := a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: a.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return err
	}
	a.Adapter = adapter

	a.Device, err = adapter.RequestDevice(nil)
	if err != nil {
		return err
	}
	a.Queue = a.Device.GetQueue()

	width, height := a.Window.GetFramebufferSize()
	caps := a.Surface.GetCapabilities(adapter)
	format := caps.Formats[0]

	a.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	a.Surface.Configure(adapter, a.Device, a.Config)

	a.Registry = gpu.NewShaderRegistry(a.Device)

	if a.UseGPU {
		a.Compute, err = gpu.NewComputeUpdater(a.Device, a.Registry, a.Sim, a.Logger)
		if err != nil {
			return err
		}
		a.Particles = a.Compute.Particles
		a.Strategy = a.Compute
	} else {
		a.Particles = gpu.NewParticleBuffer(a.Logger)
		if err := a.Particles.Init(a.Device, a.Sim.Particles); err != nil {
			return err
		}
		if a.Strategy == nil {
			a.Strategy = &core.SequentialUpdater{}
		}
	}

	module, err := a.Registry.Module(shaders.ParticleRender)
	if err != nil {
		return err
	}
	a.RenderPipeline, err = a.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Particle Pipeline",
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: shaders.VertexEntry,
			Buffers:    []wgpu.VertexBufferLayout{gpu.VertexLayout()},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: shaders.FragmentEntry,
			Targets: []wgpu.ColorTargetState{{
				Format:    format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: a.Particles.Topology,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create particle render pipeline: %w", err)
	}

	a.LastRenderTime = glfw.GetTime()
	return nil
}

func (a *App) Resize(w, h int) {
	if w > 0 && h > 0 && a.Config != nil {
		a.Config.Width = uint32(w)
		a.Config.Height = uint32(h)
		a.Surface.Configure(a.Adapter, a.Device, a.Config)
	}
}

// Step advances the simulation by dt with the configured strategy.
func (a *App) Step(dt float32) {
	a.Profiler.BeginScope("Update")
	a.ActiveCount = a.Strategy.Update(a.Sim, dt)
	if !a.UseGPU {
		a.Particles.Upload(a.Queue, a.Sim.Particles)
	}
	a.Profiler.EndScope("Update")
	a.Profiler.SetCount("Active", int(a.ActiveCount))
}

func (a *App) Render() {
	a.Profiler.BeginScope("Render")
	defer a.Profiler.EndScope("Render")

	nextTexture, err := a.Surface.GetCurrentTexture()
	if err != nil {
		a.Logger.Errorf("GetCurrentTexture failed: %v", err)
		return
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		a.Logger.Errorf("CreateView failed: %v", err)
		return
	}
	defer view.Release()

	encoder, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		a.Logger.Errorf("CreateCommandEncoder failed: %v", err)
		return
	}

	rPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: a.ClearColor,
		}},
	})
	if a.Particles.Initialized() {
		rPass.SetPipeline(a.RenderPipeline)
		rPass.SetVertexBuffer(0, a.Particles.Buffer, 0, a.Particles.Size())
		rPass.Draw(a.Particles.Capacity, 1, 0, 0)
	}
	if err := rPass.End(); err != nil {
		a.Logger.Errorf("Render pass End failed: %v", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		a.Logger.Errorf("Encoder Finish failed: %v", err)
		return
	}
	a.Queue.Submit(cmd)
	a.Surface.Present()

	now := glfw.GetTime()
	a.trackFPS(now - a.LastRenderTime)
	a.LastRenderTime = now
}

func (a *App) trackFPS(elapsed float64) {
	a.FrameCount++
	a.FPSTime += elapsed
	if a.FPSTime >= 1.0 {
		a.FPS = float64(a.FrameCount) / a.FPSTime
		a.FrameCount = 0
		a.FPSTime = 0
	}
}

func (a *App) Release() {
	if a.Compute != nil {
		a.Compute.Release()
		a.Compute = nil
	} else if a.Particles != nil {
		a.Particles.Release()
	}
	a.Particles = nil
	if a.RenderPipeline != nil {
		a.RenderPipeline.Release()
		a.RenderPipeline = nil
	}
	if a.Registry != nil {
		a.Registry.Release()
	}
	if a.Device != nil {
		a.Device.Release()
		a.Device = nil
	}
	if a.Adapter != nil {
		a.Adapter.Release()
		a.Adapter = nil
	}
	if a.Surface != nil {
		a.Surface.Release()
		a.Surface = nil
	}
	if a.Instance != nil {
		a.Instance.Release()
		a.Instance = nil
	}
}

func GetSurfaceDescriptor(w *glfw.Window) *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(w)
}
