package pool

import (
	"sync"
	"sync/atomic"
)

// Pool represents a generic object pool with type safety.
// It wraps sync.Pool with additional features like statistics tracking
// and automatic reset functionality. The pool is safe for concurrent use.
//
// Type parameter T can be any type, but pointer types are recommended
// for efficiency. The pool maintains statistics on allocations, usage,
// and hit/miss rates for monitoring and optimization.
type Pool[T any] struct {
	pool  sync.Pool
	new   func() T
	reset func(T)
	stats struct {
		allocated int64
		inUse     int64
		hits      int64
		misses    int64
	}
}

// New creates a new typed pool with custom allocation and reset functions.
// The new function is called when the pool is empty and a new object is needed.
// The reset function is called before returning an object to the pool, allowing
// for efficient cleanup and reuse.
//
// Example:
//
//	pool := New(
//	    func() *Buffer { return &Buffer{data: make([]byte, 0, 1024)} },
//	    func(b *Buffer) { b.data = b.data[:0] },
//	)
func New[T any](new func() T, reset func(T)) *Pool[T] {
	p := &Pool[T]{
		new:   new,
		reset: reset,
	}
	p.pool.New = func() interface{} {
		atomic.AddInt64(&p.stats.allocated, 1)
		return new()
	}
	return p
}

// Get retrieves an object from the pool. If the pool is empty, it creates
// a new object using the factory function provided in New. The method is
// safe for concurrent use and updates pool statistics.
//
// The returned object should be returned to the pool using Put when no
// longer needed to enable reuse and reduce allocations.
func (p *Pool[T]) Get() T {
	atomic.AddInt64(&p.stats.inUse, 1)
	obj := p.pool.Get().(T)
	atomic.AddInt64(&p.stats.hits, 1)
	return obj
}

// Put returns an object to the pool for reuse. If a reset function was
// provided during pool creation, it is called to clean up the object
// before returning it to the pool. The method is safe for concurrent use.
func (p *Pool[T]) Put(obj T) {
	if p.reset != nil {
		p.reset(obj)
	}
	atomic.AddInt64(&p.stats.inUse, -1)
	p.pool.Put(obj)
}

// Stats returns current pool statistics including allocation count,
// objects currently in use, cache hits, and cache misses.
func (p *Pool[T]) Stats() (allocated, inUse, hits, misses int64) {
	return atomic.LoadInt64(&p.stats.allocated),
		atomic.LoadInt64(&p.stats.inUse),
		atomic.LoadInt64(&p.stats.hits),
		atomic.LoadInt64(&p.stats.misses)
}

// Global unified pools for the engine. These pre-configured pools provide
// optimized object recycling for the types the table engine churns through:
// row positions produced by boolean masks, row buffers for materialized
// rows, and byte buffers for encoded row keys.
var (
	// PositionSlicePool provides pooling for []int row/column position slices.
	// Slices are pre-allocated with capacity 256 and reset to zero length on return.
	PositionSlicePool = New(
		func() []int {
			return make([]int, 0, 256)
		},
		func(s []int) {
			// Reset slice length (assignment not needed)
		},
	)

	// RowMapPool provides pooling for map[string]interface{} row buffers.
	// Maps are pre-allocated with capacity 16 and cleared on return.
	RowMapPool = New(
		func() map[string]interface{} {
			return make(map[string]interface{}, 16)
		},
		func(m map[string]interface{}) {
			for k := range m {
				delete(m, k)
			}
		},
	)

	// ValueSlicePool provides pooling for []interface{} row value buffers.
	// Slices are pre-allocated with capacity 32 and cleared on return.
	ValueSlicePool = New(
		func() []interface{} {
			return make([]interface{}, 0, 32)
		},
		func(s []interface{}) {
			for i := range s {
				s[i] = nil
			}
		},
	)

	// StringSlicePool provides pooling for []string slices used when
	// rendering rows and writing CSV output.
	StringSlicePool = New(
		func() []string {
			return make([]string, 0, 32)
		},
		func(s []string) {
			for i := range s {
				s[i] = ""
			}
		},
	)

	// ByteSlicePool provides pooling for general-purpose byte slices,
	// primarily row-key encoding during duplicate detection.
	ByteSlicePool = New(
		func() []byte {
			return make([]byte, 0, 1024)
		},
		func(b []byte) {
			// Reset slice length (assignment not needed)
		},
	)
)

// GetPositions retrieves a position slice from the global pool.
// If the requested capacity exceeds the pooled slice capacity, a new slice
// is allocated. The returned slice always has zero length.
func GetPositions(capacity int) []int {
	s := PositionSlicePool.Get()
	if cap(s) < capacity {
		s = make([]int, 0, capacity)
	}
	return s[:0]
}

// PutPositions returns a position slice to the global pool for reuse.
// This function is safe to call with nil slices.
func PutPositions(s []int) {
	if s != nil {
		PositionSlicePool.Put(s)
	}
}

// GetRowMap retrieves a row buffer map from the global pool.
// The returned map is empty and ready for use.
func GetRowMap() map[string]interface{} {
	return RowMapPool.Get()
}

// PutRowMap returns a row buffer to the global pool for reuse.
// The map is automatically cleared before being pooled.
// This function is safe to call with nil maps.
func PutRowMap(m map[string]interface{}) {
	if m != nil {
		RowMapPool.Put(m)
	}
}

// GetValues retrieves a value slice from the global pool with at least
// the requested capacity and zero length.
func GetValues(capacity int) []interface{} {
	s := ValueSlicePool.Get()
	if cap(s) < capacity {
		s = make([]interface{}, 0, capacity)
	}
	return s[:0]
}

// PutValues returns a value slice to the global pool for reuse.
// All references are cleared to allow garbage collection.
func PutValues(s []interface{}) {
	if s != nil {
		ValueSlicePool.Put(s)
	}
}

// GetStringSlice retrieves a string slice from the global pool.
func GetStringSlice() []string {
	return StringSlicePool.Get()
}

// PutStringSlice returns a string slice to the global pool for reuse.
func PutStringSlice(s []string) {
	if s != nil {
		StringSlicePool.Put(s)
	}
}

// GetByteSlice retrieves a byte slice from the global pool.
// The returned slice has zero length and capacity 1024.
func GetByteSlice() []byte {
	return ByteSlicePool.Get()
}

// PutByteSlice returns a byte slice to the global pool for reuse.
func PutByteSlice(b []byte) {
	if b != nil {
		ByteSlicePool.Put(b)
	}
}

// BufferPool manages byte buffer pooling with size-based buckets.
// It maintains multiple pools for different buffer sizes, automatically
// selecting the appropriate pool based on requested size. This reduces
// memory fragmentation for I/O-heavy collaborators like the CSV source.
type BufferPool struct {
	pools []*Pool[[]byte]
	sizes []int
}

// NewBufferPool creates a new buffer pool with predefined size buckets.
// The pool uses power-of-2 sizes from 512 bytes to 16MB. Buffers larger
// than 16MB are allocated directly without pooling.
func NewBufferPool() *BufferPool {
	// Common buffer sizes (powers of 2)
	sizes := []int{
		512,      // 512B
		1024,     // 1KB
		4096,     // 4KB
		16384,    // 16KB
		65536,    // 64KB
		262144,   // 256KB
		1048576,  // 1MB
		4194304,  // 4MB
		16777216, // 16MB
	}

	pools := make([]*Pool[[]byte], len(sizes))
	for i, size := range sizes {
		size := size // capture loop variable
		pools[i] = New(
			func() []byte {
				return make([]byte, size)
			},
			func(b []byte) {
				// Reset slice length (assignment not needed)
			},
		)
	}

	return &BufferPool{
		pools: pools,
		sizes: sizes,
	}
}

// Get returns a buffer of at least the requested size from the pool.
// It selects the smallest available buffer that can accommodate the request.
// For sizes larger than 16MB, a new buffer is allocated directly.
//
// The returned buffer's length is set to the requested size, but its
// capacity may be larger.
func (p *BufferPool) Get(size int) []byte {
	// Find the smallest buffer that fits
	for i, s := range p.sizes {
		if s >= size {
			buf := p.pools[i].Get()
			return buf[:size]
		}
	}

	// Fallback to allocation for very large buffers
	return make([]byte, size)
}

// Put returns a buffer to the pool for reuse.
// The buffer is matched to its appropriate size pool based on capacity.
// Buffers that don't match any pool size are released to garbage collection.
func (p *BufferPool) Put(buf []byte) {
	size := cap(buf)

	// Find the matching pool
	for i, s := range p.sizes {
		if s == size {
			p.pools[i].Put(buf)
			return
		}
	}

	// Buffer doesn't match any pool size, let GC handle it
}

// GlobalBufferPool provides size-based byte buffer pooling for I/O operations.
// It manages buffers from 512B to 16MB with automatic size selection.
var GlobalBufferPool = NewBufferPool()

// Stats represents pool statistics for monitoring and optimization.
type Stats struct {
	// Allocated is the total number of objects created by the pool
	Allocated int64
	// InUse is the current number of objects checked out from the pool
	InUse int64
	// Hits is the number of successful pool retrievals
	Hits int64
	// Misses is the number of times a new object had to be created
	Misses int64
}

// GetGlobalStats returns statistics for all global pools, keyed by pool name.
// This is useful for monitoring pool efficiency and detecting leaks.
func GetGlobalStats() map[string]Stats {
	posAlloc, posInUse, posHits, posMisses := PositionSlicePool.Stats()
	mapAlloc, mapInUse, mapHits, mapMisses := RowMapPool.Stats()
	valAlloc, valInUse, valHits, valMisses := ValueSlicePool.Stats()
	strAlloc, strInUse, strHits, strMisses := StringSlicePool.Stats()
	byteAlloc, byteInUse, byteHits, byteMisses := ByteSlicePool.Stats()

	return map[string]Stats{
		"positions": {
			Allocated: posAlloc,
			InUse:     posInUse,
			Hits:      posHits,
			Misses:    posMisses,
		},
		"row_map": {
			Allocated: mapAlloc,
			InUse:     mapInUse,
			Hits:      mapHits,
			Misses:    mapMisses,
		},
		"values": {
			Allocated: valAlloc,
			InUse:     valInUse,
			Hits:      valHits,
			Misses:    valMisses,
		},
		"string_slice": {
			Allocated: strAlloc,
			InUse:     strInUse,
			Hits:      strHits,
			Misses:    strMisses,
		},
		"byte_slice": {
			Allocated: byteAlloc,
			InUse:     byteInUse,
			Hits:      byteHits,
			Misses:    byteMisses,
		},
	}
}
