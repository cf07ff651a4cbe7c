package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/qfund"
	"github.com/iov-one/qfund/coin"
	"github.com/iov-one/qfund/errors"
	"github.com/iov-one/qfund/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Set is the content of a wallet: a normalized set of coins.
type Set struct {
	Coins []*coin.Coin `protobuf:"bytes,1,rep,name=coins,proto3" json:"coins,omitempty"`
}

func (m *Set) Reset()         { *m = Set{} }
func (m *Set) String() string { return proto.CompactTextString(m) }
func (*Set) ProtoMessage()    {}

// Validate requires that all coins are in alphabetical order and positive.
func (s *Set) Validate() error {
	return coin.Coins(s.Coins).Validate()
}

// NewBucket returns a bucket of wallets keyed by the owner address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Set{})
}

// RegisterQuery will register this bucket as "/wallets"
func RegisterQuery(qr qfund.QueryRouter) {
	NewBucket().Register("wallets", qr)
}

// loadWallet returns the coins held by given address. A missing wallet is
// returned as an empty one.
func loadWallet(db qfund.ReadOnlyKVStore, b orm.ModelBucket, addr qfund.Address) (coin.Coins, error) {
	var set Set
	switch err := b.One(db, addr, &set); {
	case err == nil:
		return coin.Coins(set.Coins), nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, errors.Wrapf(err, "wallet %s", addr)
	}
}

// saveWallet stores the wallet, removing it when it holds nothing.
func saveWallet(db qfund.KVStore, b orm.ModelBucket, addr qfund.Address, coins coin.Coins) error {
	if coins.IsEmpty() {
		if err := b.Has(db, addr); errors.ErrNotFound.Is(err) {
			return nil
		}
		return b.Delete(db, addr)
	}
	_, err := b.Put(db, addr, &Set{Coins: coins})
	return err
}
