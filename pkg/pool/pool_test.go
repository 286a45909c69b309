package pool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndryLeon/peloton/pkg/config"
	"github.com/AndryLeon/peloton/pkg/testutil"
)

func TestAllocateBasic(t *testing.T) {
	p := New()
	defer p.Close()

	buf := p.Allocate(100)
	require.NotNil(t, buf)
	assert.Len(t, buf, 100)
	assert.Zero(t, uintptr(unsafe.Pointer(&buf[0]))%8, "payload must be 8-byte aligned")
	assert.Equal(t, int64(1), p.RefCount(buf))
	assert.True(t, p.Owns(buf))

	for i := range buf {
		buf[i] = byte(i)
	}
	for i := range buf {
		require.Equal(t, byte(i), buf[i])
	}

	p.Free(buf)
}

func TestRefCountLifecycle(t *testing.T) {
	p := New()
	defer p.Close()

	buf := p.Allocate(100)
	require.NotNil(t, buf)
	for i := 0; i < 100; i++ {
		buf[i] = byte(i)
	}
	addr := uintptr(unsafe.Pointer(&buf[0]))

	p.AddRef(buf)
	p.AddRef(buf)
	assert.Equal(t, int64(3), p.RefCount(buf))

	p.Free(buf)
	assert.Equal(t, int64(2), p.RefCount(buf))
	p.Free(buf)
	assert.Equal(t, int64(1), p.RefCount(buf))
	p.Free(buf)

	// The block is free again: the next same-sized allocation reuses it.
	again := p.Allocate(100)
	require.NotNil(t, again)
	assert.Equal(t, addr, uintptr(unsafe.Pointer(&again[0])))
	p.Free(again)
}

func TestEmptyBufferWatermark(t *testing.T) {
	p := New()
	defer p.Close()

	// need = 64+8 = 72 lands on the 128-byte class.
	listID := 3
	for i := 0; i < MaxEmptyNum+1; i++ {
		buf := p.Allocate(64)
		require.NotNil(t, buf)
		p.Free(buf)
	}
	count := p.EmptyCountByListID(listID)
	assert.GreaterOrEqual(t, count, 0)
	assert.LessOrEqual(t, count, MaxEmptyNum)
}

func TestEmptyCountByListIDOutOfRange(t *testing.T) {
	p := New()
	defer p.Close()

	assert.Equal(t, -1, p.EmptyCountByListID(-1))
	assert.Equal(t, -1, p.EmptyCountByListID(MaxListNum))
	assert.Equal(t, MaxListNum, p.ListCount())
	assert.Equal(t, 0, p.EmptyCountByListID(0))
}

func TestLargeAllocation(t *testing.T) {
	p := New()
	defer p.Close()

	// Bigger than the largest regular block lands on the large list,
	// one block per buffer sized exactly to the need.
	size := BufferSize + 100
	buf := p.Allocate(size)
	require.NotNil(t, buf)
	assert.Len(t, buf, size)
	assert.Equal(t, uint64(size+RefCountSize), p.TotalAllocatedSpace())

	buf[0] = 0xAB
	buf[size-1] = 0xCD

	p.Free(buf)
}

func TestLargeListRetainedBufferTooSmall(t *testing.T) {
	p := New()
	defer p.Close()

	small := p.Allocate(BufferSize + 100)
	require.NotNil(t, small)
	p.Free(small)

	// The retained empty buffer cannot serve a bigger oversized need;
	// a second, larger buffer must be created.
	big := p.Allocate(BufferSize * 2)
	require.NotNil(t, big)
	assert.Len(t, big, BufferSize*2)
	p.Free(big)
}

func TestPoolBudgetExhaustion(t *testing.T) {
	cfg := &config.PoolConfig{
		BufferSize:   1 << 10,
		MinBlockSize: 16,
		MaxListNum:   4,
		MaxEmptyNum:  2,
		MaxPoolSize:  1 << 10,
	}
	p, err := NewWithConfig(cfg)
	require.NoError(t, err)
	defer p.Close()

	first := p.Allocate(32)
	require.NotNil(t, first)

	// A second size class would need a second buffer; the budget only
	// covers one.
	second := p.Allocate(200)
	assert.Nil(t, second)

	p.Free(first)
}

func TestAllocationSharesBuffer(t *testing.T) {
	p := New()
	defer p.Close()

	a := p.Allocate(40)
	b := p.Allocate(40)
	require.NotNil(t, a)
	require.NotNil(t, b)

	// Same size class, same buffer: one capacity charge.
	assert.Equal(t, uint64(BufferSize), p.TotalAllocatedSpace())
	assert.NotEqual(t, uintptr(unsafe.Pointer(&a[0])), uintptr(unsafe.Pointer(&b[0])))

	p.Free(a)
	p.Free(b)
}

func TestCompact(t *testing.T) {
	p := New()
	defer p.Close()

	// Fill several buffers on one class, then free everything.
	blocks := (BufferSize / 128) * 3
	bufs := make([][]byte, 0, blocks)
	for i := 0; i < blocks; i++ {
		buf := p.Allocate(100)
		require.NotNil(t, buf)
		bufs = append(bufs, buf)
	}
	for _, buf := range bufs {
		p.Free(buf)
	}

	p.Compact()
	for id := 0; id < p.ListCount(); id++ {
		assert.LessOrEqual(t, p.EmptyCountByListID(id), MaxEmptyNum)
	}
	assert.LessOrEqual(t, p.TotalAllocatedSpace(), uint64((MaxEmptyNum+1)*BufferSize))
}

func TestDoubleFreeDetected(t *testing.T) {
	p := New().WithLogger(testutil.TestLogger(t))
	defer p.Close()

	buf := p.Allocate(24)
	require.NotNil(t, buf)
	p.Free(buf)

	// A second free must not panic or corrupt the pool.
	p.Free(buf)

	again := p.Allocate(24)
	require.NotNil(t, again)
	p.Free(again)
}

func TestOwnsForeignPointer(t *testing.T) {
	p := New()
	defer p.Close()

	heap := make([]byte, 64)
	assert.False(t, p.Owns(heap))
	assert.False(t, p.Owns(nil))
}

func TestConcurrentAllocateFree(t *testing.T) {
	p := New().WithLogger(testutil.TestLogger(t))
	defer p.Close()

	const workers = 8
	const iterations = 500

	var done atomic.Int32
	for w := 0; w < workers; w++ {
		go func(seed int) {
			defer done.Add(1)
			for i := 0; i < iterations; i++ {
				size := 16 + (seed*31+i)%500
				buf := p.Allocate(size)
				if buf == nil {
					continue
				}
				buf[0] = byte(i)
				p.AddRef(buf)
				p.Free(buf)
				p.Free(buf)
			}
		}(w)
	}

	// Once the workers drain, every block has gone back and the
	// eviction watermark has settled.
	testutil.AssertEventually(t, func() bool {
		return done.Load() == workers
	}, 30*time.Second, "allocator workers did not finish")

	for id := 0; id < p.ListCount(); id++ {
		assert.LessOrEqual(t, p.EmptyCountByListID(id), MaxEmptyNum)
	}
}

func TestConcurrentRefCounts(t *testing.T) {
	p := New()
	defer p.Close()

	buf := p.Allocate(128)
	require.NotNil(t, buf)

	const workers = 8
	const bumps = 1000

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < bumps; i++ {
				p.AddRef(buf)
				p.Free(buf)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), p.RefCount(buf))
	p.Free(buf)
}

func TestNewWithConfigRejectsBadShape(t *testing.T) {
	_, err := NewWithConfig(&config.PoolConfig{
		BufferSize:   1 << 17,
		MinBlockSize: 17, // not a power of two
		MaxListNum:   15,
		MaxEmptyNum:  4,
		MaxPoolSize:  1 << 60,
	})
	assert.Error(t, err)
}

func TestGlobalPool(t *testing.T) {
	p := Global()
	require.NotNil(t, p)
	assert.Same(t, p, Global())

	buf := p.Allocate(48)
	require.NotNil(t, buf)
	assert.True(t, p.Owns(buf))
	p.Free(buf)
}
