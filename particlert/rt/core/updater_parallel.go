package core

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// ParallelUpdater runs the per-particle work on a pool of goroutines with no
// ordering between particles, the same shape as the compute shader.
//
// Quota enforcement is best-effort by contract: workers share one counter
// per emitter and claim emissions from it concurrently. This implementation
// claims with an atomic add and so never overshoots, but callers must not
// rely on an exact per-emitter bound from a parallel strategy.
type ParallelUpdater struct {
	// Workers defaults to GOMAXPROCS when zero.
	Workers int
}

func (u *ParallelUpdater) Update(sim *Simulation, dt float32) uint32 {
	if !sim.ReadyForUpdate() {
		return sim.Counter.ReadBack()
	}

	n := len(sim.Particles)
	if n == 0 {
		return 0
	}
	workers := u.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	slots := sim.Emitters()
	var claimed [MaxEmitters]atomic.Uint32

	sim.Counter.Reset()
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := start; i < end; i++ {
				updateParticle(sim, slots, claimed[:len(slots)], &sim.Particles[i], dt)
			}
		}()
	}
	wg.Wait()

	var claims [MaxEmitters]uint32
	for i := range slots {
		claims[i] = claimed[i].Load()
	}
	sim.PublishEmitted(claims[:len(slots)])
	sim.Counter.Publish()
	return sim.Counter.ReadBack()
}

func updateParticle(sim *Simulation, slots []EmitterSlot, claimed []atomic.Uint32, p *Particle, dt float32) {
	if sim.Region.IsOutOfBounds(p) {
		p.Active = false
	}

	if p.Active {
		p.Integrate(dt)
	} else {
		for i := range slots {
			if slots[i].Quota == 0 {
				continue
			}
			if claimed[i].Add(1) <= slots[i].Quota {
				slots[i].Emitter.ResetParticle(p)
				p.Active = true
				break
			}
		}
	}

	if p.Active {
		sim.Counter.Increment()
	}
}
