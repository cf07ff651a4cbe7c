package orm

import (
	"bytes"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/qfund"
	"github.com/iov-one/qfund/errors"
)

// updateIndexes moves the reference of the entity stored under key from
// the index entries of prev to the index entries of next. A nil prev means
// insert, a nil next means delete.
func (mb *modelBucket) updateIndexes(db qfund.KVStore, key []byte, prev, next Model) error {
	for _, name := range mb.indexNames {
		idx := mb.indexes[name]
		var prevKey, nextKey []byte
		var err error
		if prev != nil {
			if prevKey, err = idx.indexer(prev); err != nil {
				return errors.Wrapf(err, "index %s", name)
			}
		}
		if next != nil {
			if nextKey, err = idx.indexer(next); err != nil {
				return errors.Wrapf(err, "index %s", name)
			}
		}
		if prev != nil && next != nil && bytes.Equal(prevKey, nextKey) {
			continue
		}
		if prevKey != nil {
			if err := idx.remove(db, prevKey, key); err != nil {
				return errors.Wrapf(err, "index %s", name)
			}
		}
		if nextKey != nil {
			if err := idx.add(db, nextKey, key); err != nil {
				return errors.Wrapf(err, "index %s", name)
			}
		}
	}
	return nil
}

func (idx index) dbKey(indexKey []byte) []byte {
	return append(append([]byte{}, idx.prefix...), indexKey...)
}

func (idx index) refs(db qfund.ReadOnlyKVStore, indexKey []byte) (*MultiRef, error) {
	raw, err := db.Get(idx.dbKey(indexKey))
	if err != nil {
		return nil, err
	}
	var ref MultiRef
	if raw == nil {
		return &ref, nil
	}
	if err := proto.Unmarshal(raw, &ref); err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot unmarshal index entry: %s", err)
	}
	return &ref, nil
}

func (idx index) add(db qfund.KVStore, indexKey, ref []byte) error {
	refs, err := idx.refs(db, indexKey)
	if err != nil {
		return err
	}
	if idx.unique && len(refs.Refs) > 0 {
		return errors.Wrapf(errors.ErrDuplicate, "unique index key %X already used", indexKey)
	}
	if err := refs.Add(ref); err != nil {
		return err
	}
	return idx.save(db, indexKey, refs)
}

func (idx index) remove(db qfund.KVStore, indexKey, ref []byte) error {
	refs, err := idx.refs(db, indexKey)
	if err != nil {
		return err
	}
	if err := refs.Remove(ref); err != nil {
		return err
	}
	if len(refs.Refs) == 0 {
		return db.Delete(idx.dbKey(indexKey))
	}
	return idx.save(db, indexKey, refs)
}

func (idx index) save(db qfund.KVStore, indexKey []byte, refs *MultiRef) error {
	raw, err := proto.Marshal(refs)
	if err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot marshal index entry: %s", err)
	}
	return db.Set(idx.dbKey(indexKey), raw)
}

func (mb *modelBucket) indexRefs(db qfund.ReadOnlyKVStore, indexName string, key []byte) ([][]byte, error) {
	idx, ok := mb.indexes[indexName]
	if !ok {
		return nil, errors.Wrapf(errors.ErrHuman, "unknown index %q", indexName)
	}
	refs, err := idx.refs(db, key)
	if err != nil {
		return nil, err
	}
	return refs.Refs, nil
}
