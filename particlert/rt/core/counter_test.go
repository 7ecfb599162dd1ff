package core

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActiveCounter_ReadBackSeesPublishedOnly(t *testing.T) {
	var c ActiveCounter
	c.Increment()
	c.Increment()
	assert.Equal(t, uint32(0), c.ReadBack())

	c.Publish()
	assert.Equal(t, uint32(2), c.ReadBack())

	c.Reset()
	c.Increment()
	assert.Equal(t, uint32(2), c.ReadBack(), "reset does not touch the published value")
	c.Publish()
	assert.Equal(t, uint32(1), c.ReadBack())
}

func TestActiveCounter_ConcurrentIncrement(t *testing.T) {
	var c ActiveCounter
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				c.Increment()
			}
		}()
	}
	wg.Wait()
	c.Publish()
	assert.Equal(t, uint32(8000), c.ReadBack())
}
