package hashtable

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimple(t *testing.T) {
	ht := MkHash(100)

	_, ok := ht.Get(1)
	assert.False(t, ok)

	ht.Set(1, "a")
	v, ok := ht.Get(1)
	require.True(t, ok)
	assert.Equal(t, "a", v)

	// overwrite
	ht.Set(1, "b")
	v, _ = ht.Get(1)
	assert.Equal(t, "b", v)

	ht.Del(1)
	_, ok = ht.Get(1)
	assert.False(t, ok)
}

func TestManyKeys(t *testing.T) {
	ht := MkHash(64)
	n := 10000
	for i := 0; i < n; i++ {
		ht.Set(i, i*3)
	}
	for i := 0; i < n; i++ {
		v, ok := ht.Get(i)
		require.True(t, ok, "key %d", i)
		require.Equal(t, i*3, v)
	}
	for i := 0; i < n; i += 2 {
		ht.Del(i)
	}
	for i := 0; i < n; i++ {
		_, ok := ht.Get(i)
		assert.Equal(t, i%2 == 1, ok, "key %d", i)
	}
}

func TestIter(t *testing.T) {
	ht := MkHash(16)
	for i := 0; i < 100; i++ {
		ht.Set(i, i)
	}
	seen := make(map[int]bool)
	ht.Iter(func(k int, v interface{}) bool {
		seen[k] = true
		return true
	})
	assert.Equal(t, 100, len(seen))

	// an iterator returning false stops the walk
	n := 0
	ht.Iter(func(k int, v interface{}) bool {
		n++
		return n < 10
	})
	assert.Equal(t, 10, n)
}

func TestConcurrent(t *testing.T) {
	ht := MkHash(128)
	nthreads := 8
	perthread := 1000
	var wg sync.WaitGroup
	for i := 0; i < nthreads; i++ {
		wg.Add(1)
		base := i * perthread
		go func() {
			defer wg.Done()
			for j := 0; j < perthread; j++ {
				ht.Set(base+j, base+j)
			}
			for j := 0; j < perthread; j++ {
				v, ok := ht.Get(base + j)
				if !ok || v != base+j {
					t.Errorf("key %d", base+j)
				}
			}
			for j := 0; j < perthread; j += 2 {
				ht.Del(base + j)
			}
		}()
	}
	wg.Wait()
	for i := 0; i < nthreads*perthread; i++ {
		_, ok := ht.Get(i)
		assert.Equal(t, i%2 == 1, ok, "key %d", i)
	}
}
