package store

import (
	"testing"

	"github.com/iov-one/qfund/qftest/assert"
)

// TestSuite provides test methods that can be called by any KVStore
// implementation. Only the store constructor is customized, the rest of the
// logic is generic to the CacheableKVStore interface.
//
// This removes duplication between btree_test.go and iavl/adapter_test.go.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh store and a cleanup function.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

// NewTestSuite returns a suite testing stores built by given constructor.
func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{
		makeBase: constructor,
	}
}

// GetSet does basic sanity checks on our cache
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	k, v := []byte("french"), []byte("fry")
	AssertGetHas(t, base, k, nil, false)
	assert.Nil(t, base.Set(k, v))
	AssertGetHas(t, base, k, v, true)

	// layer a cache on top and make sure that we get base data
	cache := base.CacheWrap()
	AssertGetHas(t, cache, k, v, true)

	// writing more data is only visible in the cache
	k2, v2 := []byte("LA"), []byte("Dodgers")
	AssertGetHas(t, cache, k2, nil, false)
	assert.Nil(t, cache.Set(k2, v2))
	AssertGetHas(t, cache, k2, v2, true)
	AssertGetHas(t, base, k2, nil, false)

	// we can write the cache to the base layer
	assert.Nil(t, cache.Write())
	AssertGetHas(t, base, k, v, true)
	AssertGetHas(t, base, k2, v2, true)

	// we can discard one
	k3, v3 := []byte("Bayern"), []byte("Munich")
	c2 := base.CacheWrap()
	assert.Nil(t, c2.Set(k3, v3))
	assert.Nil(t, c2.Delete(k))
	AssertGetHas(t, c2, k, nil, false)
	c2.Discard()
	AssertGetHas(t, base, k3, nil, false)
	AssertGetHas(t, base, k, v, true)

	// and commit a delete
	c3 := base.CacheWrap()
	assert.Nil(t, c3.Delete(k2))
	AssertGetHas(t, c3, k2, nil, false)
	AssertGetHas(t, base, k2, v2, true)
	assert.Nil(t, c3.Write())
	AssertGetHas(t, base, k2, nil, false)
}

// Iterators checks that cached writes and deletes are merged with the
// parent data in both directions.
func (s *TestSuite) Iterators(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	for _, k := range []string{"a", "c", "e", "g"} {
		assert.Nil(t, base.Set([]byte(k), []byte("base-"+k)))
	}

	cache := base.CacheWrap()
	assert.Nil(t, cache.Set([]byte("b"), []byte("cache-b")))
	assert.Nil(t, cache.Set([]byte("c"), []byte("cache-c")))
	assert.Nil(t, cache.Delete([]byte("e")))
	assert.Nil(t, cache.Set([]byte("h"), []byte("cache-h")))

	cases := map[string]struct {
		start, end []byte
		reverse    bool
		want       []Model
	}{
		"full range ascending": {
			want: []Model{
				Pair([]byte("a"), []byte("base-a")),
				Pair([]byte("b"), []byte("cache-b")),
				Pair([]byte("c"), []byte("cache-c")),
				Pair([]byte("g"), []byte("base-g")),
				Pair([]byte("h"), []byte("cache-h")),
			},
		},
		"full range descending": {
			reverse: true,
			want: []Model{
				Pair([]byte("h"), []byte("cache-h")),
				Pair([]byte("g"), []byte("base-g")),
				Pair([]byte("c"), []byte("cache-c")),
				Pair([]byte("b"), []byte("cache-b")),
				Pair([]byte("a"), []byte("base-a")),
			},
		},
		"bounded ascending": {
			start: []byte("b"),
			end:   []byte("g"),
			want: []Model{
				Pair([]byte("b"), []byte("cache-b")),
				Pair([]byte("c"), []byte("cache-c")),
			},
		},
		"bounded descending": {
			start:   []byte("b"),
			end:     []byte("h"),
			reverse: true,
			want: []Model{
				Pair([]byte("g"), []byte("base-g")),
				Pair([]byte("c"), []byte("cache-c")),
				Pair([]byte("b"), []byte("cache-b")),
			},
		},
		"open end": {
			start: []byte("f"),
			want: []Model{
				Pair([]byte("g"), []byte("base-g")),
				Pair([]byte("h"), []byte("cache-h")),
			},
		},
		"empty range": {
			start: []byte("d"),
			end:   []byte("f"),
			want:  nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var (
				iter Iterator
				err  error
			)
			if tc.reverse {
				iter, err = cache.ReverseIterator(tc.start, tc.end)
			} else {
				iter, err = cache.Iterator(tc.start, tc.end)
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.want, ReadAll(t, iter))
		})
	}
}

// ReadAll consumes the iterator and returns all key value pairs.
func ReadAll(t testing.TB, iter Iterator) []Model {
	t.Helper()
	defer iter.Close()

	var res []Model
	for iter.Valid() {
		res = append(res, Pair(iter.Key(), iter.Value()))
		if err := iter.Next(); err != nil {
			t.Fatalf("cannot iterate: %+v", err)
		}
	}
	return res
}

// AssertGetHas checks that the presence and the value of given key are
// as expected.
func AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}
