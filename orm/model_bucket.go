package orm

import (
	"reflect"
	"regexp"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/qfund"
	"github.com/iov-one/qfund/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,20}$`).MatchString

// ModelBucket stores models of a single type under a common prefix.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary key. Result is loaded into given destination model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database. If given model type cannot be used to contain stored
	// entity, ErrType is returned.
	One(db qfund.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given primary key exists and
	// ErrNotFound otherwise.
	Has(db qfund.ReadOnlyKVStore, key []byte) error

	// Put saves given model in the database. Before inserting into the
	// database, model is validated using its Validate method.
	// If the key is nil or zero length then a sequence generator is used
	// to create a unique key value.
	// Using a key that already exists in the database causes the value to
	// be overwritten.
	Put(db qfund.KVStore, key []byte, m Model) ([]byte, error)

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db qfund.KVStore, key []byte) error

	// All loads all entities of this bucket, ordered by their primary key,
	// into destination which must be a pointer to a slice of models. It
	// returns the keys of the loaded entities.
	All(db qfund.ReadOnlyKVStore, dest ModelSlicePtr) ([][]byte, error)

	// ByIndex returns all entities referenced by given index key. Result
	// is loaded into destination which must be a pointer to a slice of
	// models. It returns the primary keys of the loaded entities.
	ByIndex(db qfund.ReadOnlyKVStore, indexName string, key []byte, dest ModelSlicePtr) ([][]byte, error)

	// Register registers this bucket and all its indexes in the query
	// router. The bucket is available under "/<name>" and each index
	// under "/<name>/<index name>".
	Register(name string, r qfund.QueryRouter)
}

// ModelSlicePtr represents a pointer to a slice of models. Think of it as
// *[]Model Because of Go type system, using []Model type would not work
// for us. Instead we use a placeholder type and the validation is done
// during the runtime.
type ModelSlicePtr interface{}

// Indexer calculates the secondary index key for a given model. A nil key
// means the model is not indexed.
type Indexer func(Model) ([]byte, error)

// ModelBucketOption is implemented by any function that can configure
// ModelBucket during creation.
type ModelBucketOption func(mb *modelBucket)

// WithIndex configures the bucket to build an index with given name. All
// entities stored in the bucket are indexed using value returned by the
// indexer function. If an index is unique, there can be only one entity
// referenced per index value.
func WithIndex(name string, indexer Indexer, unique bool) ModelBucketOption {
	return func(mb *modelBucket) {
		if !isBucketName(name) {
			panic("invalid index name: " + name)
		}
		if _, ok := mb.indexes[name]; ok {
			panic("duplicated index: " + name)
		}
		mb.indexNames = append(mb.indexNames, name)
		mb.indexes[name] = index{
			prefix:  []byte("_i." + mb.name + "_" + name + ":"),
			indexer: indexer,
			unique:  unique,
		}
	}
}

// WithIDSequence configures the bucket to use the given sequence instance
// for generating ID.
func WithIDSequence(s Sequence) ModelBucketOption {
	return func(mb *modelBucket) {
		mb.idSeq = s
	}
}

// NewModelBucket returns a ModelBucket instance storing models of the same
// type as the given example.
func NewModelBucket(name string, m Model, opts ...ModelBucketOption) ModelBucket {
	if !isBucketName(name) {
		panic("invalid bucket name: " + name)
	}
	tp := reflect.TypeOf(m)
	if tp.Kind() != reflect.Ptr {
		panic("model must be a pointer")
	}
	mb := &modelBucket{
		name:    name,
		prefix:  []byte(name + ":"),
		model:   tp.Elem(),
		idSeq:   NewSequence(name, "id"),
		indexes: make(map[string]index),
	}
	for _, fn := range opts {
		fn(mb)
	}
	return mb
}

type modelBucket struct {
	name    string
	prefix  []byte
	model   reflect.Type
	idSeq   Sequence
	indexes map[string]index

	// indexNames keeps the declaration order so that index updates are
	// deterministic.
	indexNames []string
}

var _ ModelBucket = (*modelBucket)(nil)

type index struct {
	prefix  []byte
	indexer Indexer
	unique  bool
}

func (mb *modelBucket) dbKey(key []byte) []byte {
	return append(append([]byte{}, mb.prefix...), key...)
}

func (mb *modelBucket) One(db qfund.ReadOnlyKVStore, key []byte, dest Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrNotFound, "empty key")
	}
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot get")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.name, key)
	}
	if reflect.TypeOf(dest) != reflect.PtrTo(mb.model) {
		return errors.Wrapf(errors.ErrType, "%T cannot be represented as %s", dest, mb.model)
	}
	if err := proto.Unmarshal(raw, dest); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot unmarshal %s: %s", mb.name, err)
	}
	return nil
}

func (mb *modelBucket) Has(db qfund.ReadOnlyKVStore, key []byte) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrNotFound, "empty key")
	}
	ok, err := db.Has(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot check")
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.name, key)
	}
	return nil
}

func (mb *modelBucket) Put(db qfund.KVStore, key []byte, m Model) ([]byte, error) {
	if reflect.TypeOf(m) != reflect.PtrTo(mb.model) {
		return nil, errors.Wrapf(errors.ErrType, "cannot store %T in %s bucket", m, mb.name)
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid model")
	}

	var prev Model
	if len(key) == 0 {
		var err error
		key, err = mb.idSeq.NextVal(db)
		if err != nil {
			return nil, errors.Wrap(err, "ID sequence")
		}
	} else if len(mb.indexes) > 0 {
		old := reflect.New(mb.model).Interface().(Model)
		switch err := mb.One(db, key, old); {
		case err == nil:
			prev = old
		case !errors.ErrNotFound.Is(err):
			return nil, err
		}
	}

	raw, err := proto.Marshal(m)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot marshal: %s", err)
	}
	if err := mb.updateIndexes(db, key, prev, m); err != nil {
		return nil, err
	}
	if err := db.Set(mb.dbKey(key), raw); err != nil {
		return nil, errors.Wrap(err, "cannot store in the database")
	}
	return key, nil
}

func (mb *modelBucket) Delete(db qfund.KVStore, key []byte) error {
	old := reflect.New(mb.model).Interface().(Model)
	if err := mb.One(db, key, old); err != nil {
		return err
	}
	if err := mb.updateIndexes(db, key, old, nil); err != nil {
		return err
	}
	if err := db.Delete(mb.dbKey(key)); err != nil {
		return errors.Wrap(err, "cannot delete")
	}
	return nil
}

func (mb *modelBucket) All(db qfund.ReadOnlyKVStore, dest ModelSlicePtr) ([][]byte, error) {
	dstSlice, err := mb.destSlice(dest)
	if err != nil {
		return nil, err
	}

	iter, err := db.Iterator(mb.prefix, prefixEnd(mb.prefix))
	if err != nil {
		return nil, errors.Wrap(err, "cannot iterate")
	}
	defer iter.Close()

	var keys [][]byte
	for iter.Valid() {
		key := iter.Key()[len(mb.prefix):]
		m := reflect.New(mb.model)
		if err := proto.Unmarshal(iter.Value(), m.Interface().(Model)); err != nil {
			return nil, errors.Wrapf(errors.ErrModel, "cannot unmarshal %s: %s", mb.name, err)
		}
		dstSlice = appendModel(dstSlice, m)
		keys = append(keys, append([]byte{}, key...))
		if err := iter.Next(); err != nil {
			return nil, errors.Wrap(err, "cannot iterate")
		}
	}
	reflect.ValueOf(dest).Elem().Set(dstSlice)
	return keys, nil
}

func (mb *modelBucket) ByIndex(db qfund.ReadOnlyKVStore, indexName string, key []byte, dest ModelSlicePtr) ([][]byte, error) {
	refs, err := mb.indexRefs(db, indexName, key)
	if err != nil {
		return nil, err
	}
	dstSlice, err := mb.destSlice(dest)
	if err != nil {
		return nil, err
	}
	for _, ref := range refs {
		m := reflect.New(mb.model)
		if err := mb.One(db, ref, m.Interface().(Model)); err != nil {
			return nil, errors.Wrapf(err, "index %s references missing entity", indexName)
		}
		dstSlice = appendModel(dstSlice, m)
	}
	reflect.ValueOf(dest).Elem().Set(dstSlice)
	return refs, nil
}

// destSlice validates that dest is a pointer to a slice of this bucket
// models and returns the slice value it points to.
func (mb *modelBucket) destSlice(dest ModelSlicePtr) (reflect.Value, error) {
	ptr := reflect.ValueOf(dest)
	if ptr.Kind() != reflect.Ptr || ptr.IsNil() || ptr.Elem().Kind() != reflect.Slice {
		return reflect.Value{}, errors.Wrapf(errors.ErrType, "want a slice pointer, got %T", dest)
	}
	slice := ptr.Elem()
	switch elem := slice.Type().Elem(); elem {
	case mb.model, reflect.PtrTo(mb.model):
	default:
		return reflect.Value{}, errors.Wrapf(errors.ErrType, "cannot load %s into %s slice", mb.model, elem)
	}
	return slice, nil
}

// appendModel appends m, a pointer to a model, to the slice. Slice can
// hold either pointers or values.
func appendModel(slice reflect.Value, m reflect.Value) reflect.Value {
	if slice.Type().Elem().Kind() == reflect.Ptr {
		return reflect.Append(slice, m)
	}
	return reflect.Append(slice, m.Elem())
}
