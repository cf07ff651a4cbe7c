package qf

import (
	"github.com/iov-one/qfund"
	"github.com/iov-one/qfund/errors"
	"github.com/iov-one/qfund/gconf"
	"github.com/iov-one/qfund/x/cash"
)

// Initializer creates the round from the genesis configuration. The
// configuration is read from the "conf"."qf" section and the budget is
// minted to the round account. Without that section the round has to be
// instantiated with a transaction.
type Initializer struct {
	Minter cash.CoinMinter
}

var _ qfund.Initializer = Initializer{}

func (i Initializer) FromGenesis(opts qfund.Options, params qfund.GenesisParams, kv qfund.KVStore) error {
	var conf Config
	switch err := gconf.InitConfig(kv, opts, configPkg, &conf); {
	case errors.ErrNotFound.Is(err):
		return nil
	case err != nil:
		return err
	}
	create, vote := conf.CreateProposalWhitelist.orNil(), conf.VoteProposalWhitelist.orNil()
	if create != conf.CreateProposalWhitelist || vote != conf.VoteProposalWhitelist {
		conf.CreateProposalWhitelist, conf.VoteProposalWhitelist = create, vote
		if err := gconf.Save(kv, configPkg, &conf); err != nil {
			return errors.Wrap(err, "save config")
		}
	}
	if !conf.Budget.IsPositive() {
		return errors.Field("Budget", errors.ErrAmount, "must be positive")
	}
	if conf.ProposalPeriod.IsExpired(params.Height, params.BlockTime) {
		return errors.Field("ProposalPeriod", errors.ErrInput, "already expired")
	}
	if conf.VotingPeriod.IsExpired(params.Height, params.BlockTime) {
		return errors.Field("VotingPeriod", errors.ErrInput, "already expired")
	}
	if err := newRoundStore().saveState(kv, &RoundState{Phase: ProposalPeriod}); err != nil {
		return errors.Wrap(err, "save state")
	}

	minter := i.Minter
	if minter == nil {
		minter = cash.NewController()
	}
	if err := minter.CoinMint(kv, RoundAddress(), *conf.Budget); err != nil {
		return errors.Wrap(err, "mint budget")
	}
	return nil
}
