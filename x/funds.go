package x

import (
	"github.com/iov-one/qfund"
	"github.com/iov-one/qfund/coin"
	"github.com/iov-one/qfund/errors"
)

// FundedTx is implemented by transactions that can carry funds sent by the
// main signer together with the message.
type FundedTx interface {
	qfund.Tx
	GetFunds() *coin.Coin
}

// AttachedFunds returns the coin attached to the transaction. It returns
// nil if the transaction does not support funds or none were attached.
func AttachedFunds(tx qfund.Tx) *coin.Coin {
	ftx, ok := tx.(FundedTx)
	if !ok {
		return nil
	}
	if f := ftx.GetFunds(); !coin.IsEmpty(f) {
		return f
	}
	return nil
}

// RequireFunds returns the attached coin, ensuring it is a positive amount
// of the given denomination.
func RequireFunds(tx qfund.Tx, denom string) (coin.Coin, error) {
	f := AttachedFunds(tx)
	if f == nil {
		return coin.Coin{}, errors.Wrap(errors.ErrInput, "no funds attached")
	}
	if f.Denom != denom {
		return coin.Coin{}, errors.Wrapf(errors.ErrInput, "funds must be in %s, got %s", denom, f.Denom)
	}
	return *f, nil
}
