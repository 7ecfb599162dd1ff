package core

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// MaxEmitters is the number of emitter slots a simulation holds.
const MaxEmitters = 5

// EmitterSlot pairs an emitter with its per-frame emission quota.
type EmitterSlot struct {
	ID      string
	Emitter Emitter
	Quota   uint32
}

// Simulation owns everything an update pass reads or writes: the CPU
// particle array, the region, the emitter slots and the active counter.
// The frame driver owns the simulation.
type Simulation struct {
	Particles []Particle
	Region    Region
	Counter   *ActiveCounter
	Logger    Logger

	emitters     [MaxEmitters]EmitterSlot
	emitterCount int

	// emissions performed per emitter during the last pass
	emitted [MaxEmitters]uint32
}

// NewSimulation allocates capacity zeroed (inactive) particles.
func NewSimulation(capacity int) (*Simulation, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	return &Simulation{
		Particles: make([]Particle, capacity),
		Counter:   &ActiveCounter{},
		Logger:    nopLogger{},
	}, nil
}

func (s *Simulation) SetRegion(r Region) {
	s.Region = r
}

// AddEmitter registers e with a per-frame quota and returns its slot ID.
// It fails with ErrEmitterCapacity once MaxEmitters slots are taken.
func (s *Simulation) AddEmitter(e Emitter, quota uint32) (string, error) {
	if e == nil {
		return "", ErrNilEmitter
	}
	if s.emitterCount >= MaxEmitters {
		return "", fmt.Errorf("%w: max %d", ErrEmitterCapacity, MaxEmitters)
	}
	id := uuid.NewString()
	s.emitters[s.emitterCount] = EmitterSlot{ID: id, Emitter: e, Quota: quota}
	s.emitterCount++
	return id, nil
}

func (s *Simulation) Emitters() []EmitterSlot {
	return s.emitters[:s.emitterCount]
}

// Emitted returns how many particles each emitter reset during the last
// CPU pass, indexed like Emitters.
func (s *Simulation) Emitted() []uint32 {
	return s.emitted[:s.emitterCount]
}

// ApplyTransforms recomputes the current geometry of the region and every
// emitter. Call once per frame before updating.
func (s *Simulation) ApplyTransforms(regionM, emitterM mgl32.Mat4) {
	if s.Region != nil {
		s.Region.ApplyTransform(regionM)
	}
	for i := 0; i < s.emitterCount; i++ {
		s.emitters[i].Emitter.ApplyTransform(emitterM)
	}
}

// SeedParticles gives every particle a starting position and velocity,
// cycling through emitters, without activating any of them. The GPU
// strategy hashes particle state for randomness, and all-zero velocities
// would make every particle look the same.
func (s *Simulation) SeedParticles() {
	if s.emitterCount == 0 {
		s.Logger.Warnf("seed particles: no emitters registered")
		return
	}
	for i := range s.Particles {
		s.emitters[i%s.emitterCount].Emitter.ResetParticle(&s.Particles[i])
	}
}

// ActiveCount is the count from the last published pass.
func (s *Simulation) ActiveCount() uint32 {
	return s.Counter.ReadBack()
}

// ReadyForUpdate reports whether a pass can run. A missing region is logged
// and the pass is skipped.
func (s *Simulation) ReadyForUpdate() bool {
	if s.Region == nil {
		s.Logger.Warnf("particle update skipped: %v: no region set", ErrNotInitialized)
		return false
	}
	return true
}

// PublishEmitted records per-emitter emissions from a strategy that claims
// quota concurrently. Claims are clamped to each slot's quota, since a
// failed claim still bumps the shared counter.
func (s *Simulation) PublishEmitted(claims []uint32) {
	s.clearEmitted()
	for i := 0; i < s.emitterCount && i < len(claims); i++ {
		s.emitted[i] = min(claims[i], s.emitters[i].Quota)
	}
}

func (s *Simulation) clearEmitted() {
	s.emitted = [MaxEmitters]uint32{}
}

// ResetParticles deactivates every particle and reseeds them.
func (s *Simulation) ResetParticles() {
	for i := range s.Particles {
		s.Particles[i] = Particle{}
	}
	s.Counter.Reset()
	s.Counter.Publish()
	s.clearEmitted()
	if s.emitterCount > 0 {
		s.SeedParticles()
	}
}
