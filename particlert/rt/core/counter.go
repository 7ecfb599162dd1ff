package core

import "sync/atomic"

// ActiveCounter counts particles that end an update pass active.
//
// Writers only touch the live value. Publish copies it into a second slot
// once the pass is done, and readers only ever see that copy, so a reader
// never waits on an in-flight pass.
type ActiveCounter struct {
	live      atomic.Uint32
	published atomic.Uint32
}

// Reset zeroes the live counter before a pass.
func (c *ActiveCounter) Reset() {
	c.live.Store(0)
}

func (c *ActiveCounter) Increment() {
	c.live.Add(1)
}

// Publish copies the live value for readers. Call after the pass completes.
func (c *ActiveCounter) Publish() {
	c.published.Store(c.live.Load())
}

// ReadBack returns the count from the last published pass.
func (c *ActiveCounter) ReadBack() uint32 {
	return c.published.Load()
}
