package particles

// Demo states. StateQuit is final.
const (
	StateRunning State = iota
	StatePaused
	StateQuit
)
