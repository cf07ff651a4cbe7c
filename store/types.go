package store

import "github.com/iov-one/qfund"

// Move references for all storage types into this package
// for shorter names everywhere

type (
	ReadOnlyKVStore  = qfund.ReadOnlyKVStore
	SetDeleter       = qfund.SetDeleter
	KVStore          = qfund.KVStore
	Batch            = qfund.Batch
	Iterator         = qfund.Iterator
	CacheableKVStore = qfund.CacheableKVStore
	KVCacheWrap      = qfund.KVCacheWrap
	CommitKVStore    = qfund.CommitKVStore
	CommitID         = qfund.CommitID
	Model            = qfund.Model
)

// Pair constructs a model from a key-value pair
var Pair = qfund.Pair
