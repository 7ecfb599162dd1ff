package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gekko3d/particles/particlert/rt/core"
	"github.com/gekko3d/particles/particlert/rt/shaders"

	"github.com/go-gl/mathgl/mgl32"
)

// Record sizes; these match the WGSL structs in particle_update.wgsl.
const (
	ParticleStride = 48 // vec4 position, vec4 velocity, u32 active, 3x u32 pad
	FaceStride     = 32 // vec4 center, vec4 normal
	EmitterStride  = 80 // 3x vec4, kind, quota, min, max, spread, 3x pad
	SimParamsSize  = 32
)

// Byte offsets inside a particle record, shared with the vertex layout.
const (
	particlePositionOffset = 0
	particleVelocityOffset = 16
	particleActiveOffset   = 32
)

// SimParams is the per-dispatch uniform block.
type SimParams struct {
	Dt            float32
	ParticleCount uint32
	FaceCount     uint32
	EmitterCount  uint32
	Seed          uint32
}

func (p SimParams) Bytes() []byte {
	data := make([]byte, SimParamsSize)
	binary.LittleEndian.PutUint32(data[0:], math.Float32bits(p.Dt))
	binary.LittleEndian.PutUint32(data[4:], p.ParticleCount)
	binary.LittleEndian.PutUint32(data[8:], p.FaceCount)
	binary.LittleEndian.PutUint32(data[12:], p.EmitterCount)
	binary.LittleEndian.PutUint32(data[16:], p.Seed)
	return data
}

// WorkgroupCount returns how many update workgroups cover n particles.
func WorkgroupCount(n uint32) uint32 {
	return (n + shaders.UpdateWorkgroupSize - 1) / shaders.UpdateWorkgroupSize
}

func PackParticles(particles []core.Particle) []byte {
	data := make([]byte, len(particles)*ParticleStride)
	for i := range particles {
		p := &particles[i]
		off := i * ParticleStride
		putVec4(data[off+particlePositionOffset:], p.Position)
		putVec4(data[off+particleVelocityOffset:], p.Velocity)
		if p.Active {
			binary.LittleEndian.PutUint32(data[off+particleActiveOffset:], 1)
		}
	}
	return data
}

// UnpackParticle decodes the record at index i.
func UnpackParticle(data []byte, i int) core.Particle {
	off := i * ParticleStride
	return core.Particle{
		Position: getVec4(data[off+particlePositionOffset:]),
		Velocity: getVec4(data[off+particleVelocityOffset:]),
		Active:   binary.LittleEndian.Uint32(data[off+particleActiveOffset:]) != 0,
	}
}

// PackFaces always produces MaxPolygonFaces records; unused ones are zero.
func PackFaces(faces []core.PolygonFace) []byte {
	data := make([]byte, core.MaxPolygonFaces*FaceStride)
	for i, f := range faces {
		if i >= core.MaxPolygonFaces {
			break
		}
		off := i * FaceStride
		putVec4(data[off:], mgl32.Vec4{f.Center.X(), f.Center.Y(), 0, 1})
		putVec4(data[off+16:], mgl32.Vec4{f.Normal.X(), f.Normal.Y(), 0, 0})
	}
	return data
}

// PackEmitters always produces MaxEmitters records; unused ones are zero.
func PackEmitters(slots []core.EmitterSlot) []byte {
	data := make([]byte, core.MaxEmitters*EmitterStride)
	for i, slot := range slots {
		if i >= core.MaxEmitters {
			break
		}
		ep := slot.Emitter.Params()
		off := i * EmitterStride
		putVec4(data[off:], ep.P0)
		putVec4(data[off+16:], ep.P1)
		putVec4(data[off+32:], ep.Direction)
		binary.LittleEndian.PutUint32(data[off+48:], uint32(ep.Kind))
		binary.LittleEndian.PutUint32(data[off+52:], slot.Quota)
		binary.LittleEndian.PutUint32(data[off+56:], math.Float32bits(ep.MinVelocity))
		binary.LittleEndian.PutUint32(data[off+60:], math.Float32bits(ep.MaxVelocity))
		binary.LittleEndian.PutUint32(data[off+64:], math.Float32bits(ep.Spread))
	}
	return data
}

func putVec4(dst []byte, v mgl32.Vec4) {
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v[i]))
	}
}

func getVec4(src []byte) mgl32.Vec4 {
	var v mgl32.Vec4
	for i := 0; i < 4; i++ {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4:]))
	}
	return v
}
