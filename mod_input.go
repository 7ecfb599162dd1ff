package particles

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	KeySpace int = iota
	KeyEscape
	KeyR
	KeyLeft
	KeyRight
	keyCount
)

type Input struct {
	Pressed      [keyCount]bool
	JustPressed  [keyCount]bool
	JustReleased [keyCount]bool

	WindowWidth, WindowHeight int
}

// setKey records this frame's key state and derives the edge flags.
func (input *Input) setKey(key int, down bool) {
	input.JustPressed[key] = down && !input.Pressed[key]
	input.JustReleased[key] = !down && input.Pressed[key]
	input.Pressed[key] = down
}

// InputModule polls GLFW once per frame. Escape quits and Space pauses or
// resumes; particle controls live in ParticleSimModule.
type InputModule struct{}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{})
	cmd.UseSystem(
		System(inputSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
	cmd.UseSystem(
		System(controlSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
}

func inputSystem(s *WindowState, input *Input) {
	glfw.PollEvents()

	for key, glfwKey := range keyToGlfw {
		input.setKey(key, s.windowGlfw.GetKey(glfwKey) == glfw.Press)
	}
	input.WindowWidth, input.WindowHeight = s.windowGlfw.GetSize()
}

func controlSystem(input *Input, cmd *Commands) {
	if input.JustPressed[KeyEscape] {
		if cmd.app.stateful {
			cmd.ChangeState(StateQuit)
		} else {
			cmd.Stop()
		}
		return
	}
	if input.JustPressed[KeySpace] && cmd.app.stateful {
		switch cmd.State() {
		case StateRunning:
			cmd.ChangeState(StatePaused)
			cmd.Logger().Infof("Simulation paused")
		case StatePaused:
			cmd.ChangeState(StateRunning)
			cmd.Logger().Infof("Simulation resumed")
		}
	}
}

var keyToGlfw = map[int]glfw.Key{
	KeySpace:  glfw.KeySpace,
	KeyEscape: glfw.KeyEscape,
	KeyR:      glfw.KeyR,
	KeyLeft:   glfw.KeyLeft,
	KeyRight:  glfw.KeyRight,
}
