package qf

import (
	"github.com/iov-one/qfund"
	"github.com/iov-one/qfund/coin"
	"github.com/iov-one/qfund/errors"
	"github.com/iov-one/qfund/x/cash"
)

// PayoutExecutor performs the transfers of a distribution plan. All
// transfers are made from the source account. The returned coin is any
// amount moved beyond the plan. An error means the plan was not accepted
// and the whole distribution must be discarded.
type PayoutExecutor interface {
	Execute(db qfund.KVStore, source qfund.Address, plan *PayoutPlan) (coin.Coin, error)
}

// CashExecutor pays out the plan using the wallets of the cash extension.
type CashExecutor struct {
	ctrl cash.Controller
}

var _ PayoutExecutor = CashExecutor{}

// NewCashExecutor returns an executor moving funds with the given
// controller.
func NewCashExecutor(ctrl cash.Controller) CashExecutor {
	return CashExecutor{ctrl: ctrl}
}

// Execute moves every positive payout of the plan from the source
// account. Once the plan is paid, any balance of the plan denomination
// remaining on the source account is sent to the leftover recipient so
// that the round account is always emptied. The swept amount is returned.
func (e CashExecutor) Execute(db qfund.KVStore, source qfund.Address, plan *PayoutPlan) (coin.Coin, error) {
	if plan.Leftover == nil || plan.Leftover.Amount == nil {
		return coin.Coin{}, errors.Wrap(errors.ErrState, "plan without leftover recipient")
	}
	for _, p := range plan.Payouts {
		if err := e.pay(db, source, p); err != nil {
			return coin.Coin{}, errors.Wrapf(err, "proposal %d", p.ProposalID)
		}
	}
	if err := e.pay(db, source, plan.Leftover); err != nil {
		return coin.Coin{}, errors.Wrap(err, "leftover")
	}

	denom := plan.Leftover.Amount.Denom
	none := coin.NewCoin(0, denom)
	balance, err := e.ctrl.Balance(db, source)
	switch {
	case errors.ErrNotFound.Is(err):
		return none, nil
	case err != nil:
		return coin.Coin{}, errors.Wrap(err, "round balance")
	}
	rest := balance.Balance(denom)
	if rest.IsZero() {
		return none, nil
	}
	if err := e.ctrl.MoveCoins(db, source, plan.Leftover.Recipient, rest); err != nil {
		return coin.Coin{}, errors.Wrap(err, "sweep round account")
	}
	return rest, nil
}

func (e CashExecutor) pay(db qfund.KVStore, source qfund.Address, p *Payout) error {
	if coin.IsEmpty(p.Amount) {
		return nil
	}
	return e.ctrl.MoveCoins(db, source, p.Recipient, *p.Amount)
}
