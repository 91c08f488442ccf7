package pool

import (
	"sync"
	"sync/atomic"
)

// StringInternPool provides string interning to reduce memory allocations
// for frequently used strings (column names, auto-generated names, NA tokens)
type StringInternPool struct {
	mu      sync.RWMutex
	strings map[string]string
	maxSize int
	size    int64
	hits    int64
	misses  int64
}

// Global string intern pool with common column names pre-populated
var globalStringInternPool = &StringInternPool{
	strings: make(map[string]string, 1024),
	maxSize: 10000, // Limit to prevent unbounded growth
}

// Initialize the global pool with common strings
func init() {
	internCommonNames()
}

// internCommonNames pre-interns common column names
func internCommonNames() {
	commonNames := []string{
		// Auto-generated column names
		"x1", "x2", "x3", "x4", "x5",
		"x6", "x7", "x8", "x9", "x10",

		// Headerless CSV column names
		"column_0", "column_1", "column_2", "column_3", "column_4",
		"column_5", "column_6", "column_7", "column_8", "column_9",

		// Common data fields
		"id", "name", "value", "type", "label", "key",
		"timestamp", "date", "created_at", "updated_at", "status",
		"count", "total", "amount", "price", "score", "rank",

		// NA tokens seen in text sources
		"", "NA", "N/A", "null", "NULL", "nil", "NaN",
	}

	for _, name := range commonNames {
		globalStringInternPool.Intern(name)
	}
}

// Intern returns an interned version of the string
func (p *StringInternPool) Intern(s string) string {
	// Fast path: check if already interned
	p.mu.RLock()
	if interned, ok := p.strings[s]; ok {
		p.mu.RUnlock()
		atomic.AddInt64(&p.hits, 1)
		return interned
	}
	p.mu.RUnlock()

	// Slow path: add to intern pool
	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check after acquiring write lock
	if interned, ok := p.strings[s]; ok {
		atomic.AddInt64(&p.hits, 1)
		return interned
	}

	// Check size limit
	currentSize := atomic.LoadInt64(&p.size)
	if currentSize >= int64(p.maxSize) {
		// Return original string if pool is full
		atomic.AddInt64(&p.misses, 1)
		return s
	}

	// Add to pool
	p.strings[s] = s
	atomic.AddInt64(&p.size, 1)
	atomic.AddInt64(&p.misses, 1)
	return s
}

// InternBytes interns a byte slice as a string
func (p *StringInternPool) InternBytes(b []byte) string {
	return p.Intern(string(b))
}

// Stats returns intern pool statistics
func (p *StringInternPool) Stats() (size, hits, misses int64) {
	return atomic.LoadInt64(&p.size),
		atomic.LoadInt64(&p.hits),
		atomic.LoadInt64(&p.misses)
}

// Clear clears the intern pool (useful for tests)
func (p *StringInternPool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Create new map, old one will be GC'd
	p.strings = make(map[string]string, 1024)
	atomic.StoreInt64(&p.size, 0)
	atomic.StoreInt64(&p.hits, 0)
	atomic.StoreInt64(&p.misses, 0)

	// Re-intern common names
	internCommonNames()
}

// Global functions for convenience

// InternString interns a string using the global pool
func InternString(s string) string {
	return globalStringInternPool.Intern(s)
}

// InternBytes interns a byte slice as a string using the global pool
func InternBytes(b []byte) string {
	return globalStringInternPool.InternBytes(b)
}

// GetInternStats returns global intern pool statistics
func GetInternStats() (size, hits, misses int64) {
	return globalStringInternPool.Stats()
}
