package core

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// randFloat32 returns a value in [0,1). The package-level math/rand source is
// safe for concurrent use, which the parallel updater relies on.
var randFloat32 = rand.Float32

// VelocityRange is an inclusive [Min, Max] speed interval.
type VelocityRange struct {
	Min float32
	Max float32
}

func NewVelocityRange(minVel, maxVel float32) (VelocityRange, error) {
	if !isFinite(minVel) || !isFinite(maxVel) || minVel < 0 || minVel > maxVel {
		return VelocityRange{}, fmt.Errorf("%w: min=%v max=%v", ErrInvalidRange, minVel, maxVel)
	}
	return VelocityRange{Min: minVel, Max: maxVel}, nil
}

// Sample picks a speed uniformly on the range.
func (r VelocityRange) Sample() float32 {
	return r.Min + (r.Max-r.Min)*randFloat32()
}

func (r VelocityRange) Contains(speed float32) bool {
	return speed >= r.Min && speed <= r.Max
}

// randomDirection returns a unit direction (w=0) in the XY plane.
func randomDirection() mgl32.Vec4 {
	angle := 2 * math.Pi * float64(randFloat32())
	return mgl32.Vec4{float32(math.Cos(angle)), float32(math.Sin(angle)), 0, 0}
}

func isFinite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

func finiteVec2(v mgl32.Vec2) bool {
	return isFinite(v.X()) && isFinite(v.Y())
}
