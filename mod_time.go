package particles

import (
	"time"
)

type Time struct {
	Time    time.Time
	Dt      time.Duration
	Elapsed time.Duration
	Frame   uint64
}

// Seconds returns Dt in seconds, the unit the simulation integrates in.
func (t *Time) Seconds() float32 {
	return float32(t.Dt.Seconds())
}

// TimeModule advances a Time resource once per frame. With FixedDt set,
// every frame advances by exactly FixedDt; otherwise by wall-clock time,
// clamped to MaxDt when that is set.
type TimeModule struct {
	FixedDt time.Duration
	MaxDt   time.Duration
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Time{Time: time.Now()})
	cmd.UseSystem(
		System(func(t *Time) { mod.advance(t, time.Now()) }).
			InStage(PreUpdate).
			RunAlways(),
	)
}

func (mod TimeModule) advance(t *Time, now time.Time) {
	dt := now.Sub(t.Time)
	if mod.FixedDt > 0 {
		dt = mod.FixedDt
	} else if mod.MaxDt > 0 && dt > mod.MaxDt {
		dt = mod.MaxDt
	}
	t.Dt = dt
	t.Time = now
	t.Elapsed += dt
	t.Frame++
}
