package orm

import (
	"github.com/iov-one/qfund"
	"github.com/iov-one/qfund/errors"
)

func (mb *modelBucket) Register(name string, r qfund.QueryRouter) {
	r.Register("/"+name, bucketQuery{mb: mb})
	for _, idxName := range mb.indexNames {
		r.Register("/"+name+"/"+idxName, indexQuery{mb: mb, name: idxName})
	}
}

// bucketQuery returns raw stored models. The key query mod returns the
// model stored under the given primary key, the prefix query mod returns
// all models whose primary key starts with given data, ordered by key.
// Returned keys do not contain the bucket prefix.
type bucketQuery struct {
	mb *modelBucket
}

func (q bucketQuery) Query(db qfund.ReadOnlyKVStore, mod string, data []byte) ([]qfund.Model, error) {
	switch mod {
	case qfund.KeyQueryMod:
		raw, err := db.Get(q.mb.dbKey(data))
		if err != nil {
			return nil, err
		}
		if raw == nil {
			return nil, nil
		}
		return []qfund.Model{qfund.Pair(data, raw)}, nil
	case qfund.PrefixQueryMod:
		return prefixScan(db, q.mb.dbKey(data), len(q.mb.prefix))
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod %q", mod)
	}
}

// indexQuery returns all models referenced by the index key given as data.
type indexQuery struct {
	mb   *modelBucket
	name string
}

func (q indexQuery) Query(db qfund.ReadOnlyKVStore, mod string, data []byte) ([]qfund.Model, error) {
	if mod != qfund.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unsupported query mod %q", mod)
	}
	refs, err := q.mb.indexRefs(db, q.name, data)
	if err != nil {
		return nil, err
	}
	res := make([]qfund.Model, 0, len(refs))
	for _, ref := range refs {
		raw, err := db.Get(q.mb.dbKey(ref))
		if err != nil {
			return nil, err
		}
		res = append(res, qfund.Pair(ref, raw))
	}
	return res, nil
}

// prefixScan returns all key value pairs with the given prefix. Returned
// keys are stripped of the first cut bytes.
func prefixScan(db qfund.ReadOnlyKVStore, prefix []byte, cut int) ([]qfund.Model, error) {
	iter, err := db.Iterator(prefix, prefixEnd(prefix))
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var res []qfund.Model
	for iter.Valid() {
		key := append([]byte{}, iter.Key()[cut:]...)
		res = append(res, qfund.Pair(key, iter.Value()))
		if err := iter.Next(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// prefixEnd returns the first key that does not start with given prefix,
// or nil if there is none.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte{}, prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
