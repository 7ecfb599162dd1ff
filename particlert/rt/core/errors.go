package core

import "errors"

var (
	ErrInvalidRange      = errors.New("invalid velocity range")
	ErrZeroDirection     = errors.New("emit direction has zero length")
	ErrTooFewCorners     = errors.New("polygon needs at least 3 corners")
	ErrTooManyFaces      = errors.New("polygon exceeds max face count")
	ErrClockwiseWinding  = errors.New("polygon corners must be counter-clockwise")
	ErrDegeneratePolygon = errors.New("polygon has zero area")
	ErrEmitterCapacity   = errors.New("emitter capacity reached")
	ErrNilEmitter        = errors.New("emitter is nil")
	ErrInvalidCapacity   = errors.New("particle capacity must be positive")
	ErrNotInitialized    = errors.New("resource not initialized")
	ErrNonFinite         = errors.New("coordinate is not finite")
)
