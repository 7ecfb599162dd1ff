package gpu

import (
	"fmt"
	"math/rand"

	"github.com/gekko3d/particles/particlert/rt/core"
	"github.com/gekko3d/particles/particlert/rt/shaders"

	"github.com/cogentcore/webgpu/wgpu"
)

// ComputeUpdater runs the particle update on the GPU, one invocation per
// particle. It satisfies core.Strategy, but it works on Particles rather
// than sim.Particles: after NewComputeUpdater the CPU slice is only the
// initial seed. Quota is claimed with atomics, so the per-emitter bound is
// best-effort; the active count arrives through the extractor and lags by
// at least a frame.
type ComputeUpdater struct {
	Device    *wgpu.Device
	Queue     *wgpu.Queue
	Particles *ParticleBuffer
	Counter   *ActiveCountExtractor

	pipeline  *wgpu.ComputePipeline
	bindGroup *wgpu.BindGroup

	facesBuf    *wgpu.Buffer
	emittersBuf *wgpu.Buffer
	paramsBuf   *wgpu.Buffer

	logger Logger
}

func NewComputeUpdater(device *wgpu.Device, registry *ShaderRegistry, sim *core.Simulation, logger Logger) (*ComputeUpdater, error) {
	u := &ComputeUpdater{
		Device: device,
		Queue:  device.GetQueue(),
		logger: orNop(logger),
	}

	u.Particles = NewParticleBuffer(u.logger)
	if err := u.Particles.Init(device, sim.Particles); err != nil {
		return nil, err
	}

	var err error
	u.Counter, err = NewActiveCountExtractor(device, u.logger)
	if err != nil {
		u.Release()
		return nil, err
	}

	if err := u.createBuffers(); err != nil {
		u.Release()
		return nil, err
	}

	module, err := registry.Module(shaders.ParticleUpdate)
	if err != nil {
		u.Release()
		return nil, err
	}
	u.pipeline, err = device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label: "Particle Update Pipeline",
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: shaders.UpdateEntry,
		},
	})
	if err != nil {
		u.Release()
		return nil, fmt.Errorf("failed to create particle update pipeline: %w", err)
	}

	u.bindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Particle Update BG",
		Layout: u.pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: u.Particles.Buffer, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: u.facesBuf, Size: wgpu.WholeSize},
			{Binding: 2, Buffer: u.emittersBuf, Size: wgpu.WholeSize},
			{Binding: 3, Buffer: u.paramsBuf, Size: wgpu.WholeSize},
			{Binding: 4, Buffer: u.Counter.Live, Size: wgpu.WholeSize},
			{Binding: 5, Buffer: u.Counter.Emitted, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		u.Release()
		return nil, fmt.Errorf("failed to create particle update bind group: %w", err)
	}
	return u, nil
}

func (u *ComputeUpdater) createBuffers() error {
	descs := []struct {
		buf   **wgpu.Buffer
		label string
		size  uint64
		usage wgpu.BufferUsage
	}{
		{&u.facesBuf, "Region Faces", core.MaxPolygonFaces * FaceStride, wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst},
		{&u.emittersBuf, "Emitters", core.MaxEmitters * EmitterStride, wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst},
		{&u.paramsBuf, "Sim Params", SimParamsSize, wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst},
	}
	for _, d := range descs {
		buf, err := u.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: d.label,
			Size:  d.size,
			Usage: d.usage,
		})
		if err != nil {
			return fmt.Errorf("failed to create %s buffer: %w", d.label, err)
		}
		*d.buf = buf
	}
	return nil
}

// Encode uploads this frame's region, emitters and params, then records the
// update pass and the counter copy into encoder.
func (u *ComputeUpdater) Encode(encoder *wgpu.CommandEncoder, sim *core.Simulation, dt float32) {
	if !u.Particles.Initialized() || u.bindGroup == nil {
		u.logger.Warnf("particle compute skipped: %v", core.ErrNotInitialized)
		return
	}

	faces := []core.PolygonFace(nil)
	if sim.Region != nil {
		faces = sim.Region.Faces()
	}
	slots := sim.Emitters()

	u.Queue.WriteBuffer(u.facesBuf, 0, PackFaces(faces))
	u.Queue.WriteBuffer(u.emittersBuf, 0, PackEmitters(slots))
	u.Queue.WriteBuffer(u.paramsBuf, 0, SimParams{
		Dt:            dt,
		ParticleCount: u.Particles.Capacity,
		FaceCount:     uint32(len(faces)),
		EmitterCount:  uint32(len(slots)),
		Seed:          rand.Uint32(),
	}.Bytes())
	u.Counter.Reset(u.Queue)

	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(u.pipeline)
	pass.SetBindGroup(0, u.bindGroup, nil)
	pass.DispatchWorkgroups(WorkgroupCount(u.Particles.Capacity), 1, 1)
	if err := pass.End(); err != nil {
		u.logger.Errorf("particle compute pass End failed: %v", err)
	}

	u.Counter.EncodeCopy(encoder)
}

// Update encodes and submits one pass on its own encoder and returns the
// latest count the extractor has read back. The matching per-emitter
// emissions are published into sim, with the same latency.
func (u *ComputeUpdater) Update(sim *core.Simulation, dt float32) uint32 {
	if sim.ReadyForUpdate() {
		u.submit(sim, dt)
	}
	return u.Collect(sim)
}

func (u *ComputeUpdater) submit(sim *core.Simulation, dt float32) {
	encoder, err := u.Device.CreateCommandEncoder(nil)
	if err != nil {
		u.logger.Errorf("CreateCommandEncoder failed: %v", err)
		return
	}
	u.Encode(encoder, sim, dt)
	cmd, err := encoder.Finish(nil)
	if err != nil {
		u.logger.Errorf("encoder Finish failed: %v", err)
		return
	}
	u.Queue.Submit(cmd)
}

// Collect advances the counter readback and publishes the last completed
// snapshot into sim.
func (u *ComputeUpdater) Collect(sim *core.Simulation) uint32 {
	snap := u.Counter.ReadBack(u.Device)
	publishSnapshot(sim, snap)
	return snap.Active
}

func publishSnapshot(sim *core.Simulation, snap CountSnapshot) {
	sim.PublishEmitted(snap.Emitted[:])
}

func (u *ComputeUpdater) Release() {
	for _, b := range []**wgpu.Buffer{&u.facesBuf, &u.emittersBuf, &u.paramsBuf} {
		if *b != nil {
			(*b).Release()
			*b = nil
		}
	}
	if u.bindGroup != nil {
		u.bindGroup.Release()
		u.bindGroup = nil
	}
	if u.pipeline != nil {
		u.pipeline.Release()
		u.pipeline = nil
	}
	if u.Counter != nil {
		u.Counter.Release()
	}
	if u.Particles != nil {
		u.Particles.Release()
	}
}
