package core

// Strategy advances a simulation by dt and returns the number of active
// particles. Strategies are interchangeable; only how the per-particle work
// is scheduled differs.
type Strategy interface {
	Update(sim *Simulation, dt float32) uint32
}

// SequentialUpdater is the reference strategy. It visits particles in order
// and enforces emitter quotas exactly.
type SequentialUpdater struct{}

func (u *SequentialUpdater) Update(sim *Simulation, dt float32) uint32 {
	return u.UpdateRange(sim, 0, len(sim.Particles), dt)
}

// UpdateRange updates particles [start, start+count), clamped to the array.
//
// Per particle: leaving the region deactivates it; an active particle is
// integrated; an inactive one is reborn by the current emitter if that
// emitter still has quota this pass. Emitters are filled one after another:
// the first until its quota is spent, then the next.
func (u *SequentialUpdater) UpdateRange(sim *Simulation, start, count int, dt float32) uint32 {
	if !sim.ReadyForUpdate() {
		return sim.Counter.ReadBack()
	}

	end := start + count
	if end > len(sim.Particles) {
		end = len(sim.Particles)
	}
	if start < 0 {
		start = 0
	}

	slots := sim.Emitters()
	sim.clearEmitted()
	emitterIndex := nextEmitter(slots, 0)
	var emitCount uint32

	sim.Counter.Reset()
	for i := start; i < end; i++ {
		p := &sim.Particles[i]
		if sim.Region.IsOutOfBounds(p) {
			p.Active = false
		}

		if p.Active {
			p.Integrate(dt)
		} else if emitterIndex < len(slots) {
			slot := &slots[emitterIndex]
			slot.Emitter.ResetParticle(p)
			p.Active = true
			sim.emitted[emitterIndex]++

			emitCount++
			if emitCount >= slot.Quota {
				emitterIndex = nextEmitter(slots, emitterIndex+1)
				emitCount = 0
			}
		}

		if p.Active {
			sim.Counter.Increment()
		}
	}
	sim.Counter.Publish()
	return sim.Counter.ReadBack()
}

// nextEmitter skips slots with a zero quota.
func nextEmitter(slots []EmitterSlot, from int) int {
	for from < len(slots) && slots[from].Quota == 0 {
		from++
	}
	return from
}
