package gpu

import (
	"fmt"

	"github.com/gekko3d/particles/particlert/rt/core"

	"github.com/cogentcore/webgpu/wgpu"
)

// ParticleBuffer is the GPU-resident particle array. It is written by the
// update compute pass and read as a vertex buffer by the render pass, so
// particles never round-trip through the CPU.
type ParticleBuffer struct {
	Buffer   *wgpu.Buffer
	Capacity uint32
	Topology wgpu.PrimitiveTopology

	initialized bool
	logger      Logger
}

func NewParticleBuffer(logger Logger) *ParticleBuffer {
	return &ParticleBuffer{
		Topology: wgpu.PrimitiveTopologyPointList,
		logger:   orNop(logger),
	}
}

// Init allocates the buffer once, sized and seeded from particles.
func (b *ParticleBuffer) Init(device *wgpu.Device, particles []core.Particle) error {
	if b.initialized {
		return nil
	}
	if len(particles) == 0 {
		return fmt.Errorf("particle buffer: %w", core.ErrInvalidCapacity)
	}
	buf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Particle Buffer",
		Contents: PackParticles(particles),
		Usage:    wgpu.BufferUsageStorage | wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create particle buffer: %w", err)
	}
	b.Buffer = buf
	b.Capacity = uint32(len(particles))
	b.initialized = true
	return nil
}

func (b *ParticleBuffer) Initialized() bool {
	return b.initialized
}

// Upload overwrites the GPU copy with particles, truncated to capacity.
func (b *ParticleBuffer) Upload(queue *wgpu.Queue, particles []core.Particle) {
	if !b.initialized {
		b.logger.Warnf("particle buffer upload skipped: %v", core.ErrNotInitialized)
		return
	}
	if uint32(len(particles)) > b.Capacity {
		particles = particles[:b.Capacity]
	}
	queue.WriteBuffer(b.Buffer, 0, PackParticles(particles))
}

// Size is the byte size of the whole buffer.
func (b *ParticleBuffer) Size() uint64 {
	return uint64(b.Capacity) * ParticleStride
}

// VertexLayout describes one particle record as a vertex: position at
// location 0, velocity at 1, active flag at 2.
func VertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: ParticleStride,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x4, Offset: particlePositionOffset, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x4, Offset: particleVelocityOffset, ShaderLocation: 1},
			{Format: wgpu.VertexFormatUint32, Offset: particleActiveOffset, ShaderLocation: 2},
		},
	}
}

func (b *ParticleBuffer) Release() {
	if b.Buffer != nil {
		b.Buffer.Release()
		b.Buffer = nil
	}
	b.initialized = false
}
