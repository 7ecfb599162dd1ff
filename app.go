package particles

import (
	"fmt"
	"reflect"
	"runtime"
)

type systemFn any

// Module installs resources and systems into an App.
type Module interface {
	Install(app *App, cmd *Commands)
}

// App drives frames: every frame runs each stage in order, and each stage
// runs its systems. Systems are plain functions whose pointer parameters are
// resolved from resources (or *Commands) when they are called.
type App struct {
	stateful           bool
	stateTransitioning bool
	initialState       State
	finalState         State
	nextState          State
	state              State
	started            bool
	stopped            bool
	frame              uint64

	modules          []Module
	stages           []Stage
	systems          map[string]map[State]map[statePhase][]systemFn
	systemsStateless map[string][]systemFn
	resources        map[reflect.Type]any
	shutdownHooks    []func()
}

func (app *App) Commands() *Commands {
	return &Commands{app: app}
}

// Run runs frames until Stop is called or the final state is reached, then
// runs shutdown hooks.
func (app *App) Run() {
	app.run(-1)
	app.Shutdown()
}

// RunFrames runs at most n frames. Shutdown is left to the caller so that
// RunFrames can be called repeatedly.
func (app *App) RunFrames(n int) {
	app.run(n)
}

func (app *App) run(maxFrames int) {
	if !app.started {
		app.started = true
		if app.stateful {
			app.Logger().Debugf("Running in stateful mode")
			app.state = app.initialState
			app.callSystems(app.state, enter)
		} else {
			app.Logger().Debugf("Running in stateless mode")
		}
	}

	for n := 0; maxFrames < 0 || n < maxFrames; n++ {
		if app.stopped || app.finished() {
			return
		}

		app.callSystems(app.state, execute)
		app.frame++

		if app.stateful {
			if app.stateTransitioning {
				app.stateTransitioning = false
				app.executeChangeState(app.nextState)
			}

			if app.state == app.finalState {
				app.callSystems(app.state, exit)
				return
			}
		}
	}
}

func (app *App) finished() bool {
	return app.stateful && app.started && app.state == app.finalState
}

// Stop ends Run after the current frame.
func (app *App) Stop() {
	app.stopped = true
}

// Shutdown runs shutdown hooks in reverse registration order, once.
func (app *App) Shutdown() {
	hooks := app.shutdownHooks
	app.shutdownHooks = nil
	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i]()
	}
}

func (app *App) Frame() uint64 {
	return app.frame
}

func (app *App) State() State {
	return app.state
}

func (app *App) callSystems(state State, phase statePhase) {
	for _, stage := range app.stages {
		if execute == phase {
			for _, system := range app.systemsStateless[stage.Name] {
				app.callSystem(system)
			}
		}

		if app.stateful {
			for _, system := range app.systems[stage.Name][state][phase] {
				app.callSystem(system)
			}
		}
	}
}

func (app *App) changeState(newState State) {
	app.nextState = newState
	app.stateTransitioning = true
}

func (app *App) executeChangeState(newState State) {
	app.callSystems(app.state, exit)
	app.state = newState
	app.callSystems(app.state, enter)
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// Resource returns the resource stored under the type T points to.
func Resource[T any](app *App) (*T, bool) {
	r, ok := app.resources[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil, false
	}
	return r.(*T), true
}

var typeOfCommands = reflect.TypeOf(Commands{})

func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		if argType.Kind() != reflect.Pointer {
			app.unresolved(systemType, systemValue, argType)
		}
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, ok := app.resources[underlyingType]; ok {
			args[i] = reflect.ValueOf(resource)
		} else {
			app.unresolved(systemType, systemValue, argType)
		}
	}
	systemValue.Call(args)
}

func (app *App) unresolved(systemType reflect.Type, systemValue reflect.Value, argType reflect.Type) {
	msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
		runtime.FuncForPC(systemValue.Pointer()).Name(),
		fmt.Sprint(systemType),
		fmt.Sprint(argType),
	)
	app.Logger().Errorf("%s", msg)
	panic(msg)
}
