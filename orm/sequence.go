package orm

import (
	"encoding/binary"

	"github.com/iov-one/qfund"
	"github.com/iov-one/qfund/errors"
)

// Sequence maintains a counter, and generates a series of keys. Each key is
// greater than the last, both when compared as integers and as bytes.
type Sequence struct {
	id []byte
}

// NewSequence returns a sequence counter. Sequence is using following
// pattern to construct a key:
//    _s.<bucket>:<name>
func NewSequence(bucket, name string) Sequence {
	return Sequence{
		id: []byte("_s." + bucket + ":" + name),
	}
}

// NextVal increments the sequence and returns its state as 8 bytes.
func (s Sequence) NextVal(db qfund.KVStore) ([]byte, error) {
	_, raw, err := s.increment(db, 1)
	return raw, err
}

// NextInt increments the sequence and returns its state as an integer.
func (s Sequence) NextInt(db qfund.KVStore) (uint64, error) {
	val, _, err := s.increment(db, 1)
	return val, err
}

// Latest returns the recently returned value of the sequence. This method
// does not modify the sequence state. Zero means no value was returned yet.
func (s Sequence) Latest(db qfund.ReadOnlyKVStore) (uint64, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, errors.Wrap(err, "cannot read sequence")
	}
	return DecodeSequence(raw)
}

func (s Sequence) increment(db qfund.KVStore, inc uint64) (uint64, []byte, error) {
	val, err := s.Latest(db)
	if err != nil {
		return 0, nil, err
	}
	next := val + inc
	if next < val {
		return 0, nil, errors.Wrap(errors.ErrOverflow, "sequence exhausted")
	}
	raw := EncodeSequence(next)
	if err := db.Set(s.id, raw); err != nil {
		return 0, nil, errors.Wrap(err, "cannot save sequence")
	}
	return next, raw, nil
}

// DecodeSequence returns the integer value of a sequence key. An empty
// value is decoded to zero.
func DecodeSequence(raw []byte) (uint64, error) {
	if raw == nil {
		return 0, nil
	}
	if len(raw) != 8 {
		return 0, errors.Wrapf(errors.ErrInput, "sequence value must be 8 bytes, got %d", len(raw))
	}
	return binary.BigEndian.Uint64(raw), nil
}

// EncodeSequence returns the 8 bytes big endian representation of a
// sequence value.
func EncodeSequence(val uint64) []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, val)
	return raw
}
