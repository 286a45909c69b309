package pool

import (
	"strconv"
	"sync"
	"sync/atomic"
	"unsafe"

	"go.uber.org/zap"

	"github.com/AndryLeon/peloton/pkg/config"
	"github.com/AndryLeon/peloton/pkg/logger"
	"github.com/AndryLeon/peloton/pkg/metrics"
)

// Compile-time pool shape. These are also the defaults used by
// config.DefaultPoolConfig.
const (
	// BufferSize is the byte capacity of each slab on the regular lists.
	BufferSize = 1 << 17
	// MinBlockSize is the block size served by list 0.
	MinBlockSize = 16
	// MaxListNum is the number of segregated free lists.
	MaxListNum = 15
	// LargeListID is the index of the list holding oversized allocations.
	LargeListID = MaxListNum - 1
	// MaxEmptyNum is the number of empty buffers retained per list.
	// One more empty buffer on a list triggers eviction.
	MaxEmptyNum = 4
	// MaxPoolSize caps the sum of buffer capacities held by the pool.
	MaxPoolSize = 1 << 60
	// RefCountSize is the width of the reference count word preceding
	// every payload.
	RefCountSize = 8

	refCountAlign = 8
)

// freeList is one segregated-fit size class: the buffers serving it, and
// the count of empty buffers currently retained.
type freeList struct {
	mu      sync.Mutex
	buffers []*Buffer
	empty   int
}

// VarlenPool is a thread-safe segregated free-list allocator for
// variable-length values. List i serves blocks of minBlockSize << i; the
// last list holds one oversized allocation per buffer.
type VarlenPool struct {
	bufferSize   uint64
	minBlockSize uint64
	maxEmptyNum  int
	maxPoolSize  uint64

	lists    []freeList
	poolSize atomic.Int64
	log      *zap.Logger
}

// New creates a pool with the compile-time shape.
func New() *VarlenPool {
	p, _ := NewWithConfig(config.DefaultPoolConfig())
	return p
}

// NewWithConfig creates a pool with the given shape. The configuration is
// validated first.
func NewWithConfig(cfg *config.PoolConfig) (*VarlenPool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &VarlenPool{
		bufferSize:   cfg.BufferSize,
		minBlockSize: cfg.MinBlockSize,
		maxEmptyNum:  cfg.MaxEmptyNum,
		maxPoolSize:  cfg.MaxPoolSize,
		lists:        make([]freeList, cfg.MaxListNum),
		log:          logger.With(zap.String("component", "varlen_pool")),
	}, nil
}

// WithLogger replaces the pool's logger. Tests use it to route pool
// events through the test output.
func (p *VarlenPool) WithLogger(log *zap.Logger) *VarlenPool {
	p.log = log.With(zap.String("component", "varlen_pool"))
	return p
}

var (
	globalOnce sync.Once
	globalPool *VarlenPool
)

// Global returns the process-wide default pool. Callers that serialize
// varlen values without supplying a pool of their own allocate from it.
func Global() *VarlenPool {
	globalOnce.Do(func() {
		globalPool = New()
	})
	return globalPool
}

// listID maps a block need to its size class, clamping oversized needs to
// the large list.
func (p *VarlenPool) listID(need uint64) int {
	id := 0
	for size := p.minBlockSize; size < need; size <<= 1 {
		id++
		if id >= len(p.lists)-1 {
			return len(p.lists) - 1
		}
	}
	return id
}

// Allocate returns a payload slice of exactly size bytes, or nil when the
// pool budget is exhausted. The 8 bytes preceding the slice hold an
// atomic reference count initialized to 1; the payload address is 8-byte
// aligned.
func (p *VarlenPool) Allocate(size int) []byte {
	if size < 0 {
		return nil
	}
	timer := metrics.NewTimer()
	need := uint64(size) + RefCountSize
	id := p.listID(need)
	l := &p.lists[id]

	l.mu.Lock()
	var target *Buffer
	for _, b := range l.buffers {
		if !b.Full() && b.blockSize >= need {
			target = b
			break
		}
	}
	if target == nil {
		target = p.growLocked(l, id, need)
		if target == nil {
			l.mu.Unlock()
			metrics.Allocations.WithLabelValues("exhausted").Inc()
			p.log.Warn("pool exhausted",
				zap.Int("size", size),
				zap.Int64("pool_size", p.poolSize.Load()),
				zap.Uint64("max_pool_size", p.maxPoolSize))
			return nil
		}
	} else if target.Empty() {
		// Reusing a retained empty buffer takes it off the empty count.
		l.empty--
	}

	off, ok := target.allocate()
	if !ok {
		// Unreachable: target was selected non-full under the lock.
		l.mu.Unlock()
		return nil
	}
	block := target.data[off : off+target.blockSize]
	l.mu.Unlock()

	atomic.StoreInt64((*int64)(unsafe.Pointer(&block[0])), 1)
	payload := block[RefCountSize : RefCountSize+uint64(size) : target.blockSize]

	metrics.Allocations.WithLabelValues("success").Inc()
	metrics.AllocationLatency.Observe(float64(timer.Stop().Nanoseconds()))
	return payload
}

// growLocked creates a buffer for list id sized to hold need bytes,
// charging its capacity against the pool budget. Returns nil when the
// charge would exceed the maximum pool size. The list lock is held.
func (p *VarlenPool) growLocked(l *freeList, id int, need uint64) *Buffer {
	capacity := p.bufferSize
	blockSize := p.minBlockSize << uint(id)
	if id == len(p.lists)-1 {
		capacity = need
		blockSize = need
	}

	if p.poolSize.Add(int64(capacity)) > int64(p.maxPoolSize) {
		p.poolSize.Add(-int64(capacity))
		return nil
	}

	b := NewBuffer(capacity, blockSize)
	l.buffers = append(l.buffers, b)

	metrics.PoolSize.Set(float64(p.poolSize.Load()))
	metrics.Buffers.WithLabelValues(strconv.Itoa(id)).Inc()
	p.log.Debug("buffer created",
		zap.Int("list", id),
		zap.Uint64("capacity", capacity),
		zap.Uint64("block_size", blockSize))
	return b
}

// refCountPtr returns the reference count word sitting immediately before
// the payload.
func refCountPtr(buf []byte) *int64 {
	return (*int64)(unsafe.Add(unsafe.Pointer(&buf[0]), -RefCountSize))
}

// AddRef atomically increments the reference count of a payload returned
// by Allocate.
func (p *VarlenPool) AddRef(buf []byte) {
	atomic.AddInt64(refCountPtr(buf), 1)
	metrics.RefCountBumps.Inc()
}

// RefCount returns the current reference count of a payload.
func (p *VarlenPool) RefCount(buf []byte) int64 {
	return atomic.LoadInt64(refCountPtr(buf))
}

// Free atomically decrements the reference count of a payload and, when
// it reaches zero, returns the underlying block to its slab. Freeing a
// payload whose count is already zero is a caller bug; it is logged and
// otherwise ignored.
func (p *VarlenPool) Free(buf []byte) {
	remaining := atomic.AddInt64(refCountPtr(buf), -1)
	if remaining > 0 {
		return
	}
	if remaining < 0 {
		p.log.Error("double free detected",
			zap.Int64("refcount", remaining))
		return
	}
	p.release(uintptr(unsafe.Pointer(&buf[0])) - RefCountSize)
}

// release marks the block starting at addr free in its owning buffer and
// applies the empty-buffer retention policy. Ownership is resolved by
// address range; buffers per list are few, so a linear scan suffices.
func (p *VarlenPool) release(addr uintptr) {
	for id := range p.lists {
		l := &p.lists[id]
		l.mu.Lock()
		for i, b := range l.buffers {
			if !b.Contains(addr) {
				continue
			}
			if !b.free(addr) {
				l.mu.Unlock()
				p.log.Error("free of a block not marked live",
					zap.Int("list", id))
				return
			}
			if b.Empty() {
				if l.empty >= p.maxEmptyNum {
					p.destroyLocked(l, id, i)
				} else {
					l.empty++
				}
			}
			l.mu.Unlock()
			metrics.Frees.Inc()
			return
		}
		l.mu.Unlock()
	}
	p.log.Error("free of a pointer the pool does not own")
}

// destroyLocked removes the buffer at index i from list id and refunds
// its capacity. The list lock is held.
func (p *VarlenPool) destroyLocked(l *freeList, id, i int) {
	b := l.buffers[i]
	l.buffers = append(l.buffers[:i], l.buffers[i+1:]...)
	p.poolSize.Add(-int64(b.capacity))

	metrics.PoolSize.Set(float64(p.poolSize.Load()))
	metrics.Buffers.WithLabelValues(strconv.Itoa(id)).Dec()
	metrics.Evictions.Inc()
	p.log.Debug("buffer evicted",
		zap.Int("list", id),
		zap.Uint64("capacity", b.capacity))
}

// Compact reclaims surplus empty buffers above the per-list retention
// watermark. Live allocations are never relocated; clients hold raw
// slices into the slabs, so compaction is restricted to empty buffers.
func (p *VarlenPool) Compact() {
	for id := range p.lists {
		l := &p.lists[id]
		l.mu.Lock()
		for i := 0; i < len(l.buffers) && l.empty > p.maxEmptyNum; {
			b := l.buffers[i]
			if b.Empty() {
				p.destroyLocked(l, id, i)
				l.empty--
				continue
			}
			i++
		}
		l.mu.Unlock()
	}
}

// Owns reports whether the payload was allocated from this pool. It is a
// diagnostic; the answer is resolved by address range, like Free.
func (p *VarlenPool) Owns(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	addr := uintptr(unsafe.Pointer(&buf[0]))
	for id := range p.lists {
		l := &p.lists[id]
		l.mu.Lock()
		for _, b := range l.buffers {
			if b.Contains(addr) {
				l.mu.Unlock()
				return true
			}
		}
		l.mu.Unlock()
	}
	return false
}

// TotalAllocatedSpace returns the sum of buffer capacities currently held
// by the pool.
func (p *VarlenPool) TotalAllocatedSpace() uint64 {
	return uint64(p.poolSize.Load())
}

// MaximumPoolSize returns the pool budget.
func (p *VarlenPool) MaximumPoolSize() uint64 {
	return p.maxPoolSize
}

// EmptyCountByListID returns the number of empty buffers retained on a
// list, or -1 when the list id is out of range.
func (p *VarlenPool) EmptyCountByListID(id int) int {
	if id < 0 || id >= len(p.lists) {
		return -1
	}
	l := &p.lists[id]
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.empty
}

// ListCount returns the number of segregated free lists.
func (p *VarlenPool) ListCount() int {
	return len(p.lists)
}

// Close releases every buffer regardless of outstanding reference counts.
// Callers must drop varlen values before tearing the pool down.
func (p *VarlenPool) Close() {
	outstanding := uint64(0)
	for id := range p.lists {
		l := &p.lists[id]
		l.mu.Lock()
		for _, b := range l.buffers {
			outstanding += b.allocated
		}
		l.buffers = nil
		l.empty = 0
		l.mu.Unlock()
	}
	if outstanding > 0 {
		p.log.Warn("pool closed with live allocations",
			zap.Uint64("blocks", outstanding))
	}
	p.poolSize.Store(0)
	metrics.PoolSize.Set(0)
}
