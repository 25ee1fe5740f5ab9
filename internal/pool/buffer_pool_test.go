package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferPoolReusesCapacity(t *testing.T) {
	bp := NewBufferPool(64)

	buf := bp.Get()
	assert.Equal(t, 0, len(*buf))
	assert.GreaterOrEqual(t, cap(*buf), 64)

	*buf = append(*buf, "hello"...)
	bp.Put(buf)

	again := bp.Get()
	assert.Equal(t, 0, len(*again), "buffers must come back empty")
}

func TestBufferPoolDropsOversizedBuffers(t *testing.T) {
	bp := NewBufferPool(4)
	big := make([]byte, 0, 1024)
	// Must not panic and must not hand the oversized buffer out again as-is.
	bp.Put(&big)
	buf := bp.Get()
	assert.Equal(t, 0, len(*buf))
	assert.Equal(t, 4, bp.Size())
}
