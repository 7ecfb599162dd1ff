package particles

import (
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/gekko3d/particles/particlert/rt/core"
)

// FrameReport is one summary of recent frames.
type FrameReport struct {
	MeanMs   float64
	StdDevMs float64
	P99Ms    float64
	FPS      float64
	Active   uint32
	Strategy string

	// Emitted is the last pass's emissions keyed by emitter slot ID.
	Emitted map[string]uint32

	// ScopesMs holds the renderer's profiler scopes, when a renderer is
	// installed.
	ScopesMs map[string]float64
}

// FrameStats keeps a sliding window of frame times in milliseconds.
type FrameStats struct {
	samples []float64
	next    int
	filled  bool

	interval    time.Duration
	sinceReport time.Duration
	Last        FrameReport
}

func NewFrameStats(window int, interval time.Duration) *FrameStats {
	if window <= 0 {
		window = 120
	}
	return &FrameStats{
		samples:  make([]float64, window),
		interval: interval,
	}
}

func (s *FrameStats) Record(dt time.Duration) {
	s.samples[s.next] = float64(dt.Microseconds()) / 1000.0
	s.next++
	if s.next == len(s.samples) {
		s.next = 0
		s.filled = true
	}
	s.sinceReport += dt
}

// Samples returns the recorded frame times, oldest first.
func (s *FrameStats) Samples() []float64 {
	if !s.filled {
		return slices.Clone(s.samples[:s.next])
	}
	return append(slices.Clone(s.samples[s.next:]), s.samples[:s.next]...)
}

// Summarize computes mean, sample standard deviation and 99th percentile
// of the window. All zero when empty.
func (s *FrameStats) Summarize() FrameReport {
	xs := s.Samples()
	if len(xs) == 0 {
		return FrameReport{}
	}
	var r FrameReport
	if len(xs) == 1 {
		r.MeanMs = xs[0]
	} else {
		r.MeanMs, r.StdDevMs = stat.MeanStdDev(xs, nil)
	}
	slices.Sort(xs)
	r.P99Ms = stat.Quantile(0.99, stat.Empirical, xs, nil)
	if r.MeanMs > 0 {
		r.FPS = 1000.0 / r.MeanMs
	}
	return r
}

// due reports whether a report interval has elapsed, and restarts it.
func (s *FrameStats) due() bool {
	if s.interval <= 0 || s.sinceReport < s.interval {
		return false
	}
	s.sinceReport = 0
	return true
}

// FrameStatsModule logs frame timing and particle counts once per
// ReportInterval.
type FrameStatsModule struct {
	Window         int
	ReportInterval time.Duration
}

func (m FrameStatsModule) Install(app *App, cmd *Commands) {
	interval := m.ReportInterval
	if interval == 0 {
		interval = time.Second
	}
	cmd.AddResources(NewFrameStats(m.Window, interval))
	cmd.UseSystem(
		System(func(stats *FrameStats, t *Time) {
			frameStatsSystem(app, stats, t)
		}).
			InStage(PostRender).
			RunAlways(),
	)
}

func frameStatsSystem(app *App, stats *FrameStats, t *Time) {
	if t.Dt <= 0 {
		return
	}
	stats.Record(t.Dt)
	if !stats.due() {
		return
	}

	r := stats.Summarize()
	if ps, ok := Resource[ParticleSim](app); ok {
		r.Active = ps.ActiveCount
		r.Emitted = emittedByID(ps.Sim)
		r.Strategy = ps.StrategyName
	}
	if pr, ok := Resource[ParticleRenderer](app); ok && pr.App != nil && pr.App.Profiler != nil {
		r.ScopesMs = pr.App.Profiler.ScopeMs()
		pr.App.Profiler.Reset()
	}
	stats.Last = r
	app.Logger().Infof("fps=%.1f frame=%.2fms sd=%.2fms p99=%.2fms active=%d emitted=%v strategy=%s scopes=%v",
		r.FPS, r.MeanMs, r.StdDevMs, r.P99Ms, r.Active, r.Emitted, r.Strategy, r.ScopesMs)
}

func emittedByID(sim *core.Simulation) map[string]uint32 {
	slots := sim.Emitters()
	counts := sim.Emitted()
	out := make(map[string]uint32, len(slots))
	for i, slot := range slots {
		out[slot.ID] = counts[i]
	}
	return out
}
