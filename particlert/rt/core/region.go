package core

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxPolygonFaces caps a polygon region. Corner count equals face count.
const MaxPolygonFaces = 10

// Region decides whether a particle has left its bounded area.
type Region interface {
	IsOutOfBounds(p *Particle) bool
	ApplyTransform(m mgl32.Mat4)
	// Faces returns the current (transformed) faces.
	Faces() []PolygonFace
}

// PolygonFace is one edge of a polygon region, reduced to its midpoint and
// its outward normal. The normal is not normalized; only its sign against
// the center->position vector matters.
type PolygonFace struct {
	Center mgl32.Vec2
	Normal mgl32.Vec2
}

// PolygonRegion is a closed polygon given as counter-clockwise corners.
//
// The out-of-bounds test is an OR over half-planes, which is exact for convex
// polygons and only approximates concave ones.
//
// Faces live in fixed-size arrays: this check runs once per particle per
// frame and must not chase heap pointers.
type PolygonRegion struct {
	numFaces int
	original [MaxPolygonFaces]PolygonFace
	current  [MaxPolygonFaces]PolygonFace
}

func NewPolygonRegion(corners []mgl32.Vec2) (*PolygonRegion, error) {
	n := len(corners)
	if n < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewCorners, n)
	}
	if n > MaxPolygonFaces {
		return nil, fmt.Errorf("%w: got %d, max %d", ErrTooManyFaces, n, MaxPolygonFaces)
	}

	for i, c := range corners {
		if !finiteVec2(c) {
			return nil, fmt.Errorf("%w: corner %d is %v", ErrNonFinite, i, c)
		}
	}

	area := signedArea(corners)
	if area == 0 {
		return nil, ErrDegeneratePolygon
	}
	if area < 0 {
		return nil, ErrClockwiseWinding
	}

	r := &PolygonRegion{numFaces: n}
	for i := 0; i < n; i++ {
		c1 := corners[i]
		c2 := corners[(i+1)%n]
		// CCW winding: rotating each edge by -90 degrees points it outward.
		edge := c2.Sub(c1)
		r.original[i] = PolygonFace{
			Center: c1.Add(c2).Mul(0.5),
			Normal: mgl32.Vec2{edge.Y(), -edge.X()},
		}
	}
	r.current = r.original
	return r, nil
}

func (r *PolygonRegion) IsOutOfBounds(p *Particle) bool {
	pos := xy(p.Position)
	outside := false
	for i := 0; i < r.numFaces; i++ {
		f := &r.current[i]
		outside = outside || pos.Sub(f.Center).Dot(f.Normal) > 0
	}
	return outside
}

// ApplyTransform moves face centers as points and rotates normals as
// directions, always starting from the original faces.
func (r *PolygonRegion) ApplyTransform(m mgl32.Mat4) {
	for i := 0; i < r.numFaces; i++ {
		o := &r.original[i]
		r.current[i] = PolygonFace{
			Center: xy(m.Mul4x1(point4(o.Center))),
			Normal: xy(m.Mul4x1(direction4(o.Normal))),
		}
	}
}

func (r *PolygonRegion) Faces() []PolygonFace {
	return r.current[:r.numFaces]
}

func (r *PolygonRegion) FaceCount() int {
	return r.numFaces
}

// signedArea is the shoelace area; positive for counter-clockwise corners.
func signedArea(corners []mgl32.Vec2) float32 {
	var sum float32
	n := len(corners)
	for i := 0; i < n; i++ {
		a := corners[i]
		b := corners[(i+1)%n]
		sum += a.X()*b.Y() - b.X()*a.Y()
	}
	return sum * 0.5
}
