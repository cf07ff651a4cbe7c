package orm

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/qfund/errors"
)

// Model is implemented by any entity that can be stored using ModelBucket.
// Models are serialized with the protobuf codec.
type Model interface {
	proto.Message
	Validate() error
}

// MultiRef contains a sorted set of references to entities, used as the
// value of an index entry.
type MultiRef struct {
	Refs [][]byte `protobuf:"bytes,1,rep,name=refs,proto3" json:"refs,omitempty"`
}

func (m *MultiRef) Reset()         { *m = MultiRef{} }
func (m *MultiRef) String() string { return proto.CompactTextString(m) }
func (*MultiRef) ProtoMessage()    {}

// Validate returns an error if the references are not a sorted set.
func (m *MultiRef) Validate() error {
	for i, r := range m.Refs {
		if len(r) == 0 {
			return errors.Field(fmt.Sprintf("Refs.%d", i), errors.ErrEmpty, "empty reference")
		}
		if i > 0 && bytes.Compare(m.Refs[i-1], r) >= 0 {
			return errors.Wrap(errors.ErrModel, "references must be sorted and unique")
		}
	}
	return nil
}

// Add inserts this reference in the set, keeping the order. It returns
// ErrDuplicate if the reference is already there.
func (m *MultiRef) Add(ref []byte) error {
	i, found := m.find(ref)
	if found {
		return errors.Wrap(errors.ErrDuplicate, "reference already in set")
	}
	m.Refs = append(m.Refs, nil)
	copy(m.Refs[i+1:], m.Refs[i:])
	m.Refs[i] = ref
	return nil
}

// Remove deletes this reference from the set. It returns ErrNotFound if
// the reference is not there.
func (m *MultiRef) Remove(ref []byte) error {
	i, found := m.find(ref)
	if !found {
		return errors.Wrap(errors.ErrNotFound, "reference not in set")
	}
	m.Refs = append(m.Refs[:i], m.Refs[i+1:]...)
	return nil
}

func (m *MultiRef) find(ref []byte) (int, bool) {
	i := sort.Search(len(m.Refs), func(i int) bool {
		return bytes.Compare(m.Refs[i], ref) >= 0
	})
	return i, i < len(m.Refs) && bytes.Equal(m.Refs[i], ref)
}
