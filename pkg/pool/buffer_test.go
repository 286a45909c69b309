package pool

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferAllocateFree(t *testing.T) {
	b := NewBuffer(256, 64)

	require.Len(t, b.bitmap, 4)
	assert.True(t, b.Empty())
	assert.False(t, b.Full())

	offsets := make([]uint64, 0, 4)
	for i := 0; i < 4; i++ {
		off, ok := b.allocate()
		require.True(t, ok)
		offsets = append(offsets, off)
	}
	assert.True(t, b.Full())
	assert.Equal(t, uint64(4), b.AllocatedCount())

	// First-fit scan hands out blocks in address order.
	for i, off := range offsets {
		assert.Equal(t, uint64(i)*64, off)
	}

	_, ok := b.allocate()
	assert.False(t, ok)

	require.True(t, b.free(b.base+64))
	assert.False(t, b.Full())

	// The freed block is the next one handed out.
	off, ok := b.allocate()
	require.True(t, ok)
	assert.Equal(t, uint64(64), off)
}

func TestBufferFreeTwice(t *testing.T) {
	b := NewBuffer(128, 64)
	off, ok := b.allocate()
	require.True(t, ok)

	addr := b.base + uintptr(off)
	assert.True(t, b.free(addr))
	assert.False(t, b.free(addr))
	assert.True(t, b.Empty())
}

func TestBufferContains(t *testing.T) {
	b := NewBuffer(128, 64)

	assert.True(t, b.Contains(b.base))
	assert.True(t, b.Contains(b.base+127))
	assert.False(t, b.Contains(b.base+128))
	assert.False(t, b.Contains(b.base-1))

	other := make([]byte, 16)
	assert.False(t, b.Contains(uintptr(unsafe.Pointer(&other[0]))))
}

func TestBufferAlignment(t *testing.T) {
	for i := 0; i < 16; i++ {
		b := NewBuffer(256, 32)
		assert.Zero(t, b.base%8, "block region must be 8-byte aligned")
		assert.Equal(t, b.base, uintptr(unsafe.Pointer(&b.data[0])))
	}
}
