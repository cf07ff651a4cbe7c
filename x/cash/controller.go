package cash

import (
	"github.com/iov-one/qfund"
	"github.com/iov-one/qfund/coin"
	"github.com/iov-one/qfund/errors"
	"github.com/iov-one/qfund/orm"
)

// Controller is the functionality needed by cash.Handler and other
// extensions that move funds.
type Controller interface {
	Balance(qfund.ReadOnlyKVStore, qfund.Address) (coin.Coins, error)
	MoveCoins(qfund.KVStore, qfund.Address, qfund.Address, coin.Coin) error
}

// CoinMinter is an interface to create new coins.
type CoinMinter interface {
	CoinMint(qfund.KVStore, qfund.Address, coin.Coin) error
}

// BaseController is a simple implementation of controller wallet
// manipulations.
type BaseController struct {
	bucket orm.ModelBucket
}

var (
	_ Controller = BaseController{}
	_ CoinMinter = BaseController{}
)

// NewController returns a controller operating on the default wallet
// bucket.
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

// Balance returns the amount of all coins held by the given address. It
// returns ErrNotFound if the wallet does not exist.
func (c BaseController) Balance(db qfund.ReadOnlyKVStore, addr qfund.Address) (coin.Coins, error) {
	coins, err := loadWallet(db, c.bucket, addr)
	if err != nil {
		return nil, err
	}
	if coins.IsEmpty() {
		return nil, errors.Wrapf(errors.ErrNotFound, "wallet %s", addr)
	}
	return coins, nil
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c BaseController) MoveCoins(db qfund.KVStore, src, dest qfund.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive amount %s", amount)
	}
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if src.Equals(dest) {
		return nil
	}

	sender, err := loadWallet(db, c.bucket, src)
	if err != nil {
		return err
	}
	if sender.IsEmpty() {
		return errors.Wrapf(ErrEmptyAccount, "wallet %s", src)
	}
	if !sender.Contains(amount) {
		return errors.Wrapf(errors.ErrInsufficientAmount, "%s has %s", src, sender.Balance(amount.Denom))
	}
	sender, err = sender.Subtract(amount)
	if err != nil {
		return err
	}

	recipient, err := loadWallet(db, c.bucket, dest)
	if err != nil {
		return err
	}
	recipient, err = recipient.Add(amount)
	if err != nil {
		return err
	}

	if err := saveWallet(db, c.bucket, src, sender); err != nil {
		return errors.Wrap(err, "save sender")
	}
	if err := saveWallet(db, c.bucket, dest, recipient); err != nil {
		return errors.Wrap(err, "save recipient")
	}
	return nil
}

// CoinMint attempts to add the given amount of coins to the destination
// address. Fails if it overflows the wallet.
func (c BaseController) CoinMint(db qfund.KVStore, dest qfund.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	coins, err := loadWallet(db, c.bucket, dest)
	if err != nil {
		return err
	}
	coins, err = coins.Add(amount)
	if err != nil {
		return err
	}
	return saveWallet(db, c.bucket, dest, coins)
}
