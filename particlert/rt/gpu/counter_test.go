package gpu

import (
	"encoding/binary"
	"sync"
	"testing"

	"github.com/gekko3d/particles/particlert/rt/core"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadbackMachine_FullCycle(t *testing.T) {
	var m readbackMachine
	assert.Equal(t, readbackIdle, m.current())

	assert.False(t, m.beginMap(), "nothing copied yet")
	assert.True(t, m.queueCopy())
	assert.False(t, m.queueCopy(), "copy buffer busy")

	assert.True(t, m.beginMap())
	assert.Equal(t, readbackMapping, m.current())
	assert.False(t, m.mapped())

	m.mapDone(true)
	assert.True(t, m.mapped())
	assert.False(t, m.queueCopy(), "still mapped")

	m.complete(CountSnapshot{Active: 42, Emitted: [core.MaxEmitters]uint32{10, 10}})
	assert.Equal(t, readbackIdle, m.current())
	assert.Equal(t, uint32(42), m.value().Active)
	assert.Equal(t, uint32(10), m.value().Emitted[1])
}

func TestReadbackMachine_MapFailureKeepsLastValue(t *testing.T) {
	var m readbackMachine
	m.queueCopy()
	m.beginMap()
	m.mapDone(true)
	m.complete(CountSnapshot{Active: 7})

	m.queueCopy()
	m.beginMap()
	m.mapDone(false)
	assert.Equal(t, readbackIdle, m.current())
	assert.Equal(t, uint32(7), m.value().Active)
}

func TestReadbackMachine_StaleCallbackIgnored(t *testing.T) {
	var m readbackMachine
	m.mapDone(true)
	assert.Equal(t, readbackIdle, m.current())
}

func TestReadbackMachine_ConcurrentCallback(t *testing.T) {
	var m readbackMachine
	m.queueCopy()
	m.beginMap()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		m.mapDone(true)
	}()
	wg.Wait()

	assert.True(t, m.mapped())
	assert.Equal(t, "mapped", m.current().String())
}

func TestDecodeSnapshot(t *testing.T) {
	data := make([]byte, snapshotSize)
	binary.LittleEndian.PutUint32(data[0:], 150)
	binary.LittleEndian.PutUint32(data[4:], 50)
	binary.LittleEndian.PutUint32(data[8:], 31)
	binary.LittleEndian.PutUint32(data[4+4*(core.MaxEmitters-1):], 9)

	snap := decodeSnapshot(data)
	assert.Equal(t, uint32(150), snap.Active)
	assert.Equal(t, [core.MaxEmitters]uint32{50, 31, 0, 0, 9}, snap.Emitted)

	assert.Equal(t, 24, snapshotSize)
	assert.Equal(t, CountSnapshot{}, decodeSnapshot(data[:counterSize]), "short range decodes to zero")
}

func TestPublishSnapshot_ClampsToQuota(t *testing.T) {
	sim, err := core.NewSimulation(16)
	require.NoError(t, err)
	for _, quota := range []uint32{10, 5} {
		e, err := core.NewPointEmitter(mgl32.Vec2{0, 0}, 0.1, 0.2)
		require.NoError(t, err)
		_, err = sim.AddEmitter(e, quota)
		require.NoError(t, err)
	}

	// Failed shader claims still bump the counter past the quota.
	publishSnapshot(sim, CountSnapshot{Active: 15, Emitted: [core.MaxEmitters]uint32{12, 3, 7}})
	assert.Equal(t, []uint32{10, 3}, sim.Emitted())
}
