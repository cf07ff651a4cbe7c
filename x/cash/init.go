package cash

import (
	"github.com/iov-one/qfund"
	"github.com/iov-one/qfund/coin"
	"github.com/iov-one/qfund/errors"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file
// use qfund.Address, so address in hex, not base64
type GenesisAccount struct {
	Address qfund.Address `json:"address"`
	Coins   []coin.Coin   `json:"coins"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ qfund.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts qfund.Options, params qfund.GenesisParams, kv qfund.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	ctrl := NewController()
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		for _, c := range acct.Coins {
			if err := ctrl.CoinMint(kv, acct.Address, c); err != nil {
				return errors.Wrapf(err, "account %s", acct.Address)
			}
		}
	}
	return nil
}
