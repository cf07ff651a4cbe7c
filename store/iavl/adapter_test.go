package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/qfund/qftest/assert"
	"github.com/iov-one/qfund/store"
)

func makeBase() (store.CacheableKVStore, func()) {
	commit, cleanup := makeCommitStore()
	return commit.Adapter(), cleanup
}

func makeCommitStore() (CommitStore, func()) {
	tmpDir, err := ioutil.TempDir("", "iavl-adapter-")
	if err != nil {
		panic(err)
	}
	cleanup := func() { os.RemoveAll(tmpDir) }
	commit, err := NewCommitStore(tmpDir, "base")
	if err != nil {
		cleanup()
		panic(err)
	}
	return commit, cleanup
}

func TestIavlGetSet(t *testing.T) {
	store.NewTestSuite(makeBase).GetSet(t)
}

func TestIavlIterators(t *testing.T) {
	store.NewTestSuite(makeBase).Iterators(t)
}

func TestCommitAndReload(t *testing.T) {
	commit, cleanup := makeCommitStore()
	defer cleanup()

	id, err := commit.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, int64(0), id.Version)

	cache := commit.CacheWrap()
	assert.Nil(t, cache.Set([]byte("round"), []byte("proposal period")))
	assert.Nil(t, cache.Write())

	// nothing is visible at the committed version until commit
	val, err := commit.Get([]byte("round"))
	assert.Nil(t, err)
	assert.Nil(t, val)

	first, err := commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), first.Version)

	val, err = commit.Get([]byte("round"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("proposal period"), val)

	// a discarded cache does not change the state
	cache = commit.CacheWrap()
	assert.Nil(t, cache.Set([]byte("round"), []byte("distributed")))
	cache.Discard()
	second, err := commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(2), second.Version)
	assert.Equal(t, first.Hash, second.Hash)

	latest, err := commit.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, second, latest)
}

func TestMemCommitStore(t *testing.T) {
	commit := MemCommitStore()
	kv := commit.Adapter()
	assert.Nil(t, kv.Set([]byte("a"), []byte("1")))
	id, err := commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), id.Version)

	val, err := commit.Get([]byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("1"), val)
}
