package qf

import (
	"bytes"
	"sort"

	"github.com/iov-one/qfund/coin"
	"github.com/iov-one/qfund/errors"
)

// BuildPlan computes the distribution of the round. Proposals must be
// ordered by their ID. Votes can be in any order.
//
// Each proposal receives its collected funds together with its share of
// the matching pool. The remainder goes to the leftover address of the
// configuration. The sum of all payouts is always equal to the budget.
func BuildPlan(conf *Config, proposals []*Proposal, votes []*Vote) (*PayoutPlan, error) {
	denom := conf.Budget.Denom

	perProposal := make(map[uint64]map[string]uint64, len(proposals))
	for _, p := range proposals {
		perProposal[p.ID] = make(map[string]uint64)
	}
	for _, v := range votes {
		voters, ok := perProposal[v.ProposalID]
		if !ok {
			return nil, errors.Wrapf(errors.ErrState, "vote for unknown proposal %d", v.ProposalID)
		}
		if v.Fund == nil || v.Fund.Denom != denom {
			return nil, errors.Wrapf(errors.ErrState, "vote for proposal %d is not in %s", v.ProposalID, denom)
		}
		key := string(v.Voter)
		sum := voters[key] + v.Fund.Amount
		if sum < voters[key] {
			return nil, errors.Wrapf(errors.ErrOverflow, "contribution of %s to proposal %d", v.Voter, v.ProposalID)
		}
		voters[key] = sum
	}

	input := make([]Contributions, len(proposals))
	for i, p := range proposals {
		input[i] = Contributions{
			ProposalID: p.ID,
			PerVoter:   sortedContributions(perProposal[p.ID]),
		}
	}

	grants, leftover, err := CalculateCLR(conf.Budget.Amount, input)
	if err != nil {
		return nil, err
	}

	plan := PayoutPlan{
		Payouts:      make([]*Payout, len(proposals)),
		MatchedTotal: coin.NewCoinp(0, denom),
		Leftover: &Payout{
			Recipient: conf.LeftoverAddr,
			Amount:    coin.NewCoinp(leftover, denom),
		},
	}
	for i, g := range grants {
		p := proposals[i]
		if p.CollectedFunds.Amount != g.Collected {
			return nil, errors.Wrapf(errors.ErrState,
				"proposal %d collected %d but votes sum to %d", p.ID, p.CollectedFunds.Amount, g.Collected)
		}
		amount, err := g.Payout()
		if err != nil {
			return nil, err
		}
		plan.Payouts[i] = &Payout{
			Recipient:  p.FundAddress,
			Amount:     coin.NewCoinp(amount, denom),
			ProposalID: p.ID,
			Match:      g.Match,
		}
		plan.MatchedTotal.Amount += g.Match
	}
	return &plan, nil
}

// sortedContributions returns the contributions ordered by the voter
// address.
func sortedContributions(perVoter map[string]uint64) []uint64 {
	voters := make([]string, 0, len(perVoter))
	for v := range perVoter {
		voters = append(voters, v)
	}
	sort.Slice(voters, func(i, j int) bool {
		return bytes.Compare([]byte(voters[i]), []byte(voters[j])) < 0
	})
	res := make([]uint64, len(voters))
	for i, v := range voters {
		res[i] = perVoter[v]
	}
	return res
}

// Total returns the sum of all payouts of the plan, leftover included.
func (m *PayoutPlan) Total() (uint64, error) {
	var total uint64
	add := func(p *Payout) error {
		if p == nil || p.Amount == nil {
			return nil
		}
		sum := total + p.Amount.Amount
		if sum < total {
			return errors.Wrap(errors.ErrOverflow, "plan total")
		}
		total = sum
		return nil
	}
	for _, p := range m.Payouts {
		if err := add(p); err != nil {
			return 0, err
		}
	}
	if err := add(m.Leftover); err != nil {
		return 0, err
	}
	return total, nil
}
