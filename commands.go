package particles

type Commands struct {
	app *App
}

func (cmd *Commands) ChangeState(newState State) *Commands {
	cmd.app.changeState(newState)
	return cmd
}

func (cmd *Commands) State() State {
	return cmd.app.state
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

func (cmd *Commands) UseSystem(system systemScheduleBuilder) *Commands {
	cmd.app.UseSystem(system)
	return cmd
}

// OnShutdown registers fn to run when the app shuts down. Hooks run in
// reverse order.
func (cmd *Commands) OnShutdown(fn func()) *Commands {
	cmd.app.shutdownHooks = append(cmd.app.shutdownHooks, fn)
	return cmd
}

// Stop ends the frame loop after the current frame.
func (cmd *Commands) Stop() {
	cmd.app.Stop()
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}
