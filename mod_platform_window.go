package particles

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

type WindowState struct {
	windowGlfw   *glfw.Window
	WindowWidth  int
	WindowHeight int
	windowTitle  string

	resizeCallbacks []func(width, height int)
}

// OnResize registers fn for framebuffer size changes.
func (s *WindowState) OnResize(fn func(width, height int)) {
	s.resizeCallbacks = append(s.resizeCallbacks, fn)
}

func (s *WindowState) Window() *glfw.Window {
	return s.windowGlfw
}

func createWindowState(windowWidth int, windowHeight int, windowTitle string) *WindowState {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		panic(err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // WebGPU owns the surface, no GL context
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		panic(err)
	}

	s := &WindowState{
		windowGlfw:   win,
		WindowWidth:  windowWidth,
		WindowHeight: windowHeight,
		windowTitle:  windowTitle,
	}
	win.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		s.WindowWidth, s.WindowHeight = width, height
		for _, fn := range s.resizeCallbacks {
			fn(width, height)
		}
	})
	return s
}

// PlatformWindowModule creates the single shared GLFW window (WindowState)
// used by the renderer and input modules. Install is idempotent.
type PlatformWindowModule struct {
	Width  int
	Height int
	Title  string
}

func NewPlatformWindow(width, height int, title string) *PlatformWindowModule {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 800
	}
	if title == "" {
		title = "Particles"
	}
	return &PlatformWindowModule{
		Width:  width,
		Height: height,
		Title:  title,
	}
}

func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	if _, ok := Resource[WindowState](app); ok {
		return
	}

	ws := createWindowState(m.Width, m.Height, m.Title)
	cmd.AddResources(ws)
	app.Logger().Infof("Created window (%dx%d) '%s'", m.Width, m.Height, m.Title)

	cmd.UseSystem(
		System(windowCloseSystem).
			InStage(PostRender).
			RunAlways(),
	)
	cmd.OnShutdown(func() {
		ws.windowGlfw.Destroy()
		glfw.Terminate()
	})
}

func windowCloseSystem(s *WindowState, cmd *Commands) {
	if s.windowGlfw.ShouldClose() {
		cmd.Stop()
	}
}
