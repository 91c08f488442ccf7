package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolGetPut(t *testing.T) {
	type thing struct{ n int }

	p := New(
		func() *thing { return &thing{} },
		func(th *thing) { th.n = 0 },
	)

	obj := p.Get()
	require.NotNil(t, obj)
	obj.n = 42
	p.Put(obj)

	again := p.Get()
	assert.Equal(t, 0, again.n, "reset runs on Put")
	p.Put(again)
}

func TestPoolStats(t *testing.T) {
	p := New(
		func() []int { return make([]int, 0, 8) },
		func(s []int) {},
	)

	s := p.Get()
	allocated, inUse, hits, _ := p.Stats()
	assert.GreaterOrEqual(t, allocated, int64(1))
	assert.Equal(t, int64(1), inUse)
	assert.Equal(t, int64(1), hits)

	p.Put(s)
	_, inUse, _, _ = p.Stats()
	assert.Equal(t, int64(0), inUse)
}

func TestPoolConcurrent(t *testing.T) {
	p := New(
		func() []byte { return make([]byte, 0, 64) },
		func(b []byte) {},
	)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b := p.Get()
				b = append(b, byte(j))
				p.Put(b[:0])
			}
		}()
	}
	wg.Wait()

	_, inUse, _, _ := p.Stats()
	assert.Equal(t, int64(0), inUse)
}

func TestGetPositionsCapacity(t *testing.T) {
	s := GetPositions(1000)
	assert.Empty(t, s)
	assert.GreaterOrEqual(t, cap(s), 1000)
	PutPositions(s)

	small := GetPositions(4)
	assert.Empty(t, small)
	PutPositions(small)

	PutPositions(nil) // no-op
}

func TestRowMapCleared(t *testing.T) {
	m := GetRowMap()
	m["a"] = 1
	m["b"] = "two"
	PutRowMap(m)

	again := GetRowMap()
	assert.Empty(t, again)
	PutRowMap(again)
}

func TestValuesCleared(t *testing.T) {
	v := GetValues(8)
	v = append(v, "x", 2, nil)
	PutValues(v)

	again := GetValues(8)
	assert.Empty(t, again)
	PutValues(again)
}

func TestBufferPoolBuckets(t *testing.T) {
	bp := NewBufferPool()

	buf := bp.Get(2048)
	assert.Len(t, buf, 2048)
	assert.Equal(t, 4096, cap(buf), "rounds up to bucket size")
	bp.Put(buf)

	huge := bp.Get(32 * 1024 * 1024)
	assert.Len(t, huge, 32*1024*1024)
	bp.Put(huge) // no matching bucket, dropped
}

func TestInternString(t *testing.T) {
	a := InternString("revenue")
	b := InternString("revenue")
	assert.Equal(t, a, b)

	size, hits, _ := GetInternStats()
	assert.Greater(t, size, int64(0))
	assert.Greater(t, hits, int64(0))
}

func TestInternBytes(t *testing.T) {
	s := InternBytes([]byte("region"))
	assert.Equal(t, "region", s)
	assert.Equal(t, s, InternString("region"))
}

func TestGetGlobalStats(t *testing.T) {
	stats := GetGlobalStats()
	for _, name := range []string{"positions", "row_map", "values", "string_slice", "byte_slice"} {
		_, ok := stats[name]
		assert.True(t, ok, "missing stats for %s", name)
	}
}
