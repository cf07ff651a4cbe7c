package sigs

import (
	"bytes"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/qfund"
	"github.com/iov-one/qfund/errors"
	"github.com/iov-one/qfund/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// UserData is the nonce state of a single signer. The public key is set
// together with the first signature.
type UserData struct {
	Pubkey   []byte `protobuf:"bytes,1,opt,name=pubkey,proto3" json:"pubkey,omitempty"`
	Sequence int64  `protobuf:"varint,2,opt,name=sequence,proto3" json:"sequence,omitempty"`
}

func (m *UserData) Reset()         { *m = UserData{} }
func (m *UserData) String() string { return proto.CompactTextString(m) }
func (*UserData) ProtoMessage()    {}

func (u *UserData) Validate() error {
	if u.Sequence < 0 {
		return errors.Field("Sequence", ErrInvalidSequence, "negative")
	}
	if u.Sequence > 0 && len(u.Pubkey) == 0 {
		return errors.Field("Sequence", ErrInvalidSequence, "needs Pubkey")
	}
	return nil
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", u.Sequence, expected)
	}
	// The greatest nonce supported by javascript clients.
	const maxSequenceValue = (1 << 53) - 1
	next := u.Sequence + 1
	if next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// NewBucket returns a bucket of signer nonces, keyed by the signer
// address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &UserData{})
}

// GetOrCreate loads the user data of given public key owner. A fresh
// UserData is returned for a public key that never signed a transaction.
func GetOrCreate(db qfund.ReadOnlyKVStore, b orm.ModelBucket, pubkey []byte) (*UserData, error) {
	key := PubKeyCondition(pubkey).Address()
	var u UserData
	switch err := b.One(db, key, &u); {
	case err == nil:
		if !bytes.Equal(u.Pubkey, pubkey) {
			return nil, errors.Wrap(errors.ErrState, "public key does not match the account")
		}
		return &u, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{Pubkey: pubkey}, nil
	default:
		return nil, err
	}
}

// RegisterQuery will register this bucket as "/auth"
func RegisterQuery(qr qfund.QueryRouter) {
	NewBucket().Register("auth", qr)
}
