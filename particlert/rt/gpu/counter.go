package gpu

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gekko3d/particles/particlert/rt/core"

	"github.com/cogentcore/webgpu/wgpu"
)

type readbackState int

const (
	readbackIdle readbackState = iota
	readbackCopyQueued
	readbackMapping
	readbackMapped
)

func (s readbackState) String() string {
	switch s {
	case readbackIdle:
		return "idle"
	case readbackCopyQueued:
		return "copy-queued"
	case readbackMapping:
		return "mapping"
	case readbackMapped:
		return "mapped"
	}
	return "unknown"
}

// readbackMachine tracks the copy buffer through
// idle -> copy-queued -> mapping -> mapped -> idle.
// The map callback may run on another goroutine, so every transition takes
// the lock.
type readbackMachine struct {
	mu    sync.Mutex
	state readbackState
	last  CountSnapshot
}

// queueCopy reports whether a copy may be recorded this frame.
func (m *readbackMachine) queueCopy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != readbackIdle {
		return false
	}
	m.state = readbackCopyQueued
	return true
}

// beginMap reports whether the caller should issue MapAsync now.
func (m *readbackMachine) beginMap() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != readbackCopyQueued {
		return false
	}
	m.state = readbackMapping
	return true
}

func (m *readbackMachine) mapDone(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != readbackMapping {
		return
	}
	if ok {
		m.state = readbackMapped
	} else {
		m.state = readbackIdle
	}
}

func (m *readbackMachine) mapped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == readbackMapped
}

// complete stores the value read from the mapped range and frees the
// buffer for the next copy.
func (m *readbackMachine) complete(v CountSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = v
	m.state = readbackIdle
}

func (m *readbackMachine) value() CountSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

func (m *readbackMachine) current() readbackState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// CountSnapshot is one completed readback: the active count and the
// per-emitter emission claims of the same dispatch.
type CountSnapshot struct {
	Active  uint32
	Emitted [core.MaxEmitters]uint32
}

const (
	counterSize  = 4
	emittedSize  = core.MaxEmitters * 4
	snapshotSize = counterSize + emittedSize
)

// decodeSnapshot reads a mapped copy buffer: the active count followed by
// one u32 per emitter slot.
func decodeSnapshot(data []byte) CountSnapshot {
	var s CountSnapshot
	if len(data) < snapshotSize {
		return s
	}
	s.Active = binary.LittleEndian.Uint32(data)
	for i := range s.Emitted {
		s.Emitted[i] = binary.LittleEndian.Uint32(data[counterSize+4*i:])
	}
	return s
}

// ActiveCountExtractor gets the compute pass's counters back to the CPU.
//
// Live and Emitted are bound to the dispatch and are never mapped: mapping
// a buffer the pipeline still writes stalls the GPU. After the pass both are
// copied into Copy (active count first, then the emitter counters), which is
// mapped asynchronously and polled without blocking. ReadBack therefore lags
// the GPU by a frame or more.
type ActiveCountExtractor struct {
	Live    *wgpu.Buffer
	Emitted *wgpu.Buffer
	Copy    *wgpu.Buffer

	machine readbackMachine
	logger  Logger
}

func NewActiveCountExtractor(device *wgpu.Device, logger Logger) (*ActiveCountExtractor, error) {
	live, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Active Count",
		Size:  counterSize,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create active count buffer: %w", err)
	}
	emitted, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Emitted Counters",
		Size:  emittedSize,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		live.Release()
		return nil, fmt.Errorf("failed to create emitted counters buffer: %w", err)
	}
	cp, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Counter Readback",
		Size:  snapshotSize,
		Usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
	})
	if err != nil {
		live.Release()
		emitted.Release()
		return nil, fmt.Errorf("failed to create counter readback buffer: %w", err)
	}
	return &ActiveCountExtractor{Live: live, Emitted: emitted, Copy: cp, logger: orNop(logger)}, nil
}

// Reset zeroes the live counters. Call before the dispatch is submitted.
func (e *ActiveCountExtractor) Reset(queue *wgpu.Queue) {
	queue.WriteBuffer(e.Live, 0, make([]byte, counterSize))
	queue.WriteBuffer(e.Emitted, 0, make([]byte, emittedSize))
}

// EncodeCopy records live -> copy after the compute pass, unless the copy
// buffer is still in flight from an earlier frame.
func (e *ActiveCountExtractor) EncodeCopy(encoder *wgpu.CommandEncoder) {
	if !e.machine.queueCopy() {
		return
	}
	err := encoder.CopyBufferToBuffer(e.Live, 0, e.Copy, 0, counterSize)
	if err == nil {
		err = encoder.CopyBufferToBuffer(e.Emitted, 0, e.Copy, counterSize, emittedSize)
	}
	if err != nil {
		e.logger.Errorf("counter copy failed: %v", err)
		e.machine.complete(e.machine.value())
	}
}

// ReadBack advances the readback and returns the last completed snapshot.
// It must be called after the encoder holding EncodeCopy was submitted.
func (e *ActiveCountExtractor) ReadBack(device *wgpu.Device) CountSnapshot {
	if e.machine.beginMap() {
		err := e.Copy.MapAsync(wgpu.MapModeRead, 0, snapshotSize, func(status wgpu.BufferMapAsyncStatus) {
			e.machine.mapDone(status == wgpu.BufferMapAsyncStatusSuccess)
		})
		if err != nil {
			e.logger.Errorf("active count map failed: %v", err)
			e.machine.mapDone(false)
		}
	}

	device.Poll(false, nil)

	if e.machine.mapped() {
		snap := decodeSnapshot(e.Copy.GetMappedRange(0, snapshotSize))
		e.Copy.Unmap()
		e.machine.complete(snap)
	}
	return e.machine.value()
}

func (e *ActiveCountExtractor) Release() {
	if e.Live != nil {
		e.Live.Release()
		e.Live = nil
	}
	if e.Emitted != nil {
		e.Emitted.Release()
		e.Emitted = nil
	}
	if e.Copy != nil {
		e.Copy.Release()
		e.Copy = nil
	}
}
