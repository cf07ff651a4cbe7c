package qf

import (
	"context"
	"testing"
	"time"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/qfund"
	"github.com/iov-one/qfund/coin"
	"github.com/iov-one/qfund/errors"
	"github.com/iov-one/qfund/orm"
	"github.com/iov-one/qfund/qftest"
	"github.com/iov-one/qfund/qftest/assert"
	"github.com/iov-one/qfund/store"
	"github.com/iov-one/qfund/x/cash"
	"github.com/tendermint/tendermint/libs/common"
)

const denom = "ucosm"

var genesisTime = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// blockTime returns the time of a block, blocks are produced every ten
// seconds.
func blockTime(height int64) time.Time {
	return genesisTime.Add(time.Duration(height) * 10 * time.Second)
}

// roundTest runs messages against the round handlers the way the
// application does: each delivery is isolated in a cache that is written
// only when the handler succeeds.
type roundTest struct {
	t        *testing.T
	db       store.CacheableKVStore
	auth     *qftest.CtxAuth
	ctrl     cash.BaseController
	handlers map[string]qfund.Handler
	height   int64
	// now overrides the block time derived from the height when set.
	now time.Time

	admin    qfund.Condition
	leftover qfund.Address
}

func newRoundTest(t *testing.T) *roundTest {
	rt := &roundTest{
		t:        t,
		db:       store.MemStore(),
		auth:     &qftest.CtxAuth{Key: "qf"},
		ctrl:     cash.NewController(),
		handlers: make(map[string]qfund.Handler),
		height:   1,
		admin:    qftest.NewCondition(),
		leftover: qftest.NewCondition().Address(),
	}
	RegisterRoutes(rt, rt.auth, rt.ctrl)
	return rt
}

func (rt *roundTest) Handle(path string, h qfund.Handler) {
	rt.handlers[path] = h
}

func (rt *roundTest) ctx(signer qfund.Condition) qfund.Context {
	ctx := qfund.WithHeight(context.Background(), rt.height)
	now := blockTime(rt.height)
	if !rt.now.IsZero() {
		now = rt.now
	}
	ctx = qfund.WithBlockTime(ctx, now)
	if signer != nil {
		ctx = rt.auth.SetConditions(ctx, signer)
	}
	return ctx
}

// exec checks and delivers the message. Funds are attached to the
// transaction when given.
func (rt *roundTest) exec(signer qfund.Condition, msg qfund.Msg, funds *coin.Coin) (*qfund.DeliverResult, error) {
	rt.t.Helper()
	h, ok := rt.handlers[msg.Path()]
	if !ok {
		rt.t.Fatalf("no handler for %s", msg.Path())
	}
	ctx := rt.ctx(signer)
	tx := &qftest.Tx{Msg: msg, Funds: funds}

	check := rt.db.CacheWrap()
	_, checkErr := h.Check(ctx, check, tx)
	check.Discard()

	cache := rt.db.CacheWrap()
	res, err := h.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if checkErr != nil {
		rt.t.Fatalf("check failed but deliver succeeded: %+v", checkErr)
	}
	assert.Nil(rt.t, cache.Write())
	return res, nil
}

func (rt *roundTest) mint(addr qfund.Address, amount uint64) {
	rt.t.Helper()
	assert.Nil(rt.t, rt.ctrl.CoinMint(rt.db, addr, coin.NewCoin(amount, denom)))
}

func (rt *roundTest) balance(addr qfund.Address) uint64 {
	rt.t.Helper()
	coins, err := rt.ctrl.Balance(rt.db, addr)
	if errors.ErrNotFound.Is(err) {
		return 0
	}
	assert.Nil(rt.t, err)
	return coins.Balance(denom).Amount
}

func (rt *roundTest) instantiateMsg() *InstantiateMsg {
	return &InstantiateMsg{
		Admin:          rt.admin.Address(),
		LeftoverAddr:   rt.leftover,
		ProposalPeriod: AtHeight(10),
		VotingPeriod:   AtHeight(20),
		BudgetDenom:    denom,
	}
}

// instantiate creates the round with the given budget, deposited by the
// admin.
func (rt *roundTest) instantiate(msg *InstantiateMsg, budget uint64) {
	rt.t.Helper()
	rt.mint(rt.admin.Address(), budget)
	_, err := rt.exec(rt.admin, msg, coin.NewCoinp(budget, denom))
	assert.Nil(rt.t, err)
}

func (rt *roundTest) createProposal(signer qfund.Condition, title string) (uint64, qfund.Address) {
	rt.t.Helper()
	fund := qftest.NewCondition().Address()
	res, err := rt.exec(signer, &CreateProposalMsg{Title: title, FundAddress: fund}, nil)
	assert.Nil(rt.t, err)
	id, err := orm.DecodeSequence(res.Data)
	assert.Nil(rt.t, err)
	return id, fund
}

// voter returns a new voter holding the given amount.
func (rt *roundTest) voter(amount uint64) qfund.Condition {
	rt.t.Helper()
	v := qftest.NewCondition()
	rt.mint(v.Address(), amount)
	return v
}

func (rt *roundTest) vote(voter qfund.Condition, id uint64, amount uint64) error {
	rt.t.Helper()
	_, err := rt.exec(voter, &VoteProposalMsg{ProposalID: id}, coin.NewCoinp(amount, denom))
	return err
}

func (rt *roundTest) state() *RoundState {
	rt.t.Helper()
	s, err := LoadState(rt.db)
	assert.Nil(rt.t, err)
	return s
}

func TestQuadraticFundingRound(t *testing.T) {
	rt := newRoundTest(t)
	rt.instantiate(rt.instantiateMsg(), 1000)
	assert.Equal(t, uint64(1000), rt.balance(RoundAddress()))
	assert.Equal(t, uint64(0), rt.balance(rt.admin.Address()))

	creator := qftest.NewCondition()
	rt.height = 2
	idA, fundA := rt.createProposal(creator, "A")
	idB, fundB := rt.createProposal(creator, "B")
	assert.Equal(t, uint64(1), idA)
	assert.Equal(t, uint64(2), idB)

	v1, v2, v3 := rt.voter(100), rt.voter(100), rt.voter(400)

	// Votes are not accepted before the proposal period ends.
	assert.IsErr(t, ErrWrongPhase, rt.vote(v1, idA, 100))

	rt.height = 10
	assert.Nil(t, rt.vote(v1, idA, 100))
	assert.Nil(t, rt.vote(v2, idA, 100))
	assert.Nil(t, rt.vote(v3, idB, 400))
	assert.Equal(t, VotingPeriod, rt.state().Phase)

	// Proposals are not accepted once the voting started.
	_, err := rt.exec(creator, &CreateProposalMsg{Title: "C", FundAddress: fundA}, nil)
	assert.IsErr(t, ErrWrongPhase, err)

	// Voting is still open.
	_, err = rt.exec(rt.admin, &TriggerDistributionMsg{}, nil)
	assert.IsErr(t, ErrWrongPhase, err)

	rt.height = 20
	// Voting is closed, distribution is not done yet.
	assert.IsErr(t, ErrWrongPhase, rt.vote(rt.voter(10), idA, 10))

	res, err := rt.exec(rt.admin, &TriggerDistributionMsg{}, nil)
	assert.Nil(t, err)
	var resPlan PayoutPlan
	assert.Nil(t, proto.Unmarshal(res.Data, &resPlan))

	assert.Equal(t, uint64(400), rt.balance(fundA))
	assert.Equal(t, uint64(600), rt.balance(fundB))
	assert.Equal(t, uint64(0), rt.balance(RoundAddress()))

	state := rt.state()
	assert.Equal(t, Distributed, state.Phase)
	assert.Equal(t, int64(20), state.DistributedAt)
	assert.Equal(t, coin.NewCoin(0, denom), *state.Plan.Leftover.Amount)
	assert.Equal(t, coin.NewCoin(400, denom), *state.Plan.MatchedTotal)
	assert.Equal(t, state.Plan, &resPlan)
	total, err := state.Plan.Total()
	assert.Nil(t, err)
	assert.Equal(t, uint64(1000), total)

	// The escrowed contributions are swept to the leftover address.
	assert.Equal(t, uint64(600), rt.balance(rt.leftover))
	assert.Equal(t, coin.NewCoin(600, denom), *state.Swept)
	assert.Equal(t, common.KVPair{Key: []byte("swept"), Value: []byte(state.Swept.String())}, res.Tags[1])

	// Distribution happens once.
	rt.height = 21
	_, err = rt.exec(rt.admin, &TriggerDistributionMsg{}, nil)
	assert.IsErr(t, ErrAlreadyDistributed, err)
	assert.Equal(t, state, rt.state())

	assert.IsErr(t, ErrWrongPhase, rt.vote(rt.voter(10), idA, 10))
	_, err = rt.exec(creator, &CreateProposalMsg{Title: "C", FundAddress: fundA}, nil)
	assert.IsErr(t, ErrWrongPhase, err)
}

func TestDistributionWithoutVotes(t *testing.T) {
	rt := newRoundTest(t)
	msg := rt.instantiateMsg()
	msg.VotingPeriod = Never()
	rt.instantiate(msg, 1000)

	creator := qftest.NewCondition()
	_, fundA := rt.createProposal(creator, "A")
	_, fundB := rt.createProposal(creator, "B")

	// A never ending voting period is closed by the trigger itself.
	rt.height = 10
	_, err := rt.exec(rt.admin, &TriggerDistributionMsg{}, nil)
	assert.Nil(t, err)

	assert.Equal(t, uint64(0), rt.balance(fundA))
	assert.Equal(t, uint64(0), rt.balance(fundB))
	assert.Equal(t, uint64(1000), rt.balance(rt.leftover))

	plan := rt.state().Plan
	assert.Equal(t, 2, len(plan.Payouts))
	for _, p := range plan.Payouts {
		assert.Equal(t, coin.NewCoin(0, denom), *p.Amount)
	}
	assert.Equal(t, coin.NewCoin(1000, denom), *plan.Leftover.Amount)
	assert.Equal(t, coin.NewCoin(0, denom), *rt.state().Swept)
}

func TestTriggerDistributionByNonAdmin(t *testing.T) {
	rt := newRoundTest(t)
	rt.instantiate(rt.instantiateMsg(), 1000)
	id, _ := rt.createProposal(qftest.NewCondition(), "A")
	rt.height = 10
	assert.Nil(t, rt.vote(rt.voter(100), id, 100))
	rt.height = 20

	before := rt.state()
	for _, signer := range []qfund.Condition{nil, qftest.NewCondition()} {
		_, err := rt.exec(signer, &TriggerDistributionMsg{}, nil)
		assert.IsErr(t, errors.ErrUnauthorized, err)
	}
	assert.Equal(t, before, rt.state())
	assert.Equal(t, uint64(1100), rt.balance(RoundAddress()))
}

func TestCreateProposal(t *testing.T) {
	listed := qftest.NewCondition()
	other := qftest.NewCondition()

	cases := map[string]struct {
		whitelist *Whitelist
		signer    qfund.Condition
		msg       *CreateProposalMsg
		wantErr   *errors.Error
	}{
		"permissionless": {
			signer: other,
			msg:    &CreateProposalMsg{Title: "A", FundAddress: other.Address()},
		},
		"permissionless without a signature": {
			msg:     &CreateProposalMsg{Title: "A", FundAddress: other.Address()},
			wantErr: errors.ErrUnauthorized,
		},
		"empty whitelist allows anyone": {
			whitelist: &Whitelist{},
			signer:    other,
			msg:       &CreateProposalMsg{Title: "A", FundAddress: other.Address()},
		},
		"whitelisted": {
			whitelist: NewWhitelist(listed.Address()),
			signer:    listed,
			msg:       &CreateProposalMsg{Title: "A", FundAddress: other.Address()},
		},
		"not whitelisted": {
			whitelist: NewWhitelist(listed.Address()),
			signer:    other,
			msg:       &CreateProposalMsg{Title: "A", FundAddress: other.Address()},
			wantErr:   errors.ErrUnauthorized,
		},
		"whitelist requires a signature": {
			whitelist: NewWhitelist(listed.Address()),
			msg:       &CreateProposalMsg{Title: "A", FundAddress: other.Address()},
			wantErr:   errors.ErrUnauthorized,
		},
		"empty title": {
			signer:  other,
			msg:     &CreateProposalMsg{FundAddress: other.Address()},
			wantErr: errors.ErrInput,
		},
		"authorization is checked before the content": {
			whitelist: NewWhitelist(listed.Address()),
			signer:    other,
			msg:       &CreateProposalMsg{FundAddress: other.Address()},
			wantErr:   errors.ErrUnauthorized,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			rt := newRoundTest(t)
			msg := rt.instantiateMsg()
			msg.CreateProposalWhitelist = tc.whitelist
			rt.instantiate(msg, 100)

			res, err := rt.exec(tc.signer, tc.msg, nil)
			assert.IsErr(t, tc.wantErr, err)

			proposals, err := ListProposals(rt.db)
			assert.Nil(t, err)
			if tc.wantErr != nil {
				assert.Equal(t, 0, len(proposals))
				return
			}
			assert.Equal(t, qftest.SequenceID(1), res.Data)
			p, err := GetProposal(rt.db, 1)
			assert.Nil(t, err)
			assert.Equal(t, tc.msg.Title, p.Title)
			assert.Equal(t, coin.NewCoin(0, denom), *p.CollectedFunds)
			assert.Equal(t, []*Proposal{p}, proposals)
		})
	}
}

func TestVoteProposal(t *testing.T) {
	listed := qftest.NewCondition()

	cases := map[string]struct {
		whitelist     *Whitelist
		notListed     bool
		proposalID    uint64
		funds         *coin.Coin
		wantErr       *errors.Error
		wantCollected uint64
	}{
		"valid vote": {
			proposalID:    1,
			funds:         coin.NewCoinp(25, denom),
			wantCollected: 25,
		},
		"whitelisted voter": {
			whitelist:     NewWhitelist(listed.Address()),
			proposalID:    1,
			funds:         coin.NewCoinp(25, denom),
			wantCollected: 25,
		},
		"voter not whitelisted": {
			whitelist:  NewWhitelist(listed.Address()),
			notListed:  true,
			proposalID: 1,
			funds:      coin.NewCoinp(25, denom),
			wantErr:    errors.ErrUnauthorized,
		},
		"missing proposal": {
			proposalID: 42,
			funds:      coin.NewCoinp(25, denom),
			wantErr:    errors.ErrNotFound,
		},
		"zero proposal ID": {
			proposalID: 0,
			funds:      coin.NewCoinp(25, denom),
			wantErr:    errors.ErrNotFound,
		},
		"missing proposal is reported before funds": {
			proposalID: 42,
			wantErr:    errors.ErrNotFound,
		},
		"no funds": {
			proposalID: 1,
			wantErr:    errors.ErrInput,
		},
		"zero funds": {
			proposalID: 1,
			funds:      coin.NewCoinp(0, denom),
			wantErr:    errors.ErrInput,
		},
		"wrong denomination": {
			proposalID: 1,
			funds:      coin.NewCoinp(25, "uatom"),
			wantErr:    errors.ErrInput,
		},
		"more than the voter holds": {
			proposalID: 1,
			funds:      coin.NewCoinp(101, denom),
			wantErr:    errors.ErrInsufficientAmount,
		},
		"more than the budget": {
			proposalID: 1,
			funds:      coin.NewCoinp(1001, denom),
			wantErr:    errors.ErrOverflow,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			rt := newRoundTest(t)
			msg := rt.instantiateMsg()
			msg.VoteProposalWhitelist = tc.whitelist
			rt.instantiate(msg, 1000)
			rt.createProposal(qftest.NewCondition(), "A")
			rt.height = 10

			voter := listed
			if tc.notListed {
				voter = qftest.NewCondition()
			}
			rt.mint(voter.Address(), 100)

			_, err := rt.exec(voter, &VoteProposalMsg{ProposalID: tc.proposalID}, tc.funds)
			assert.IsErr(t, tc.wantErr, err)

			var votes []*Vote
			_, err = NewVoteBucket().All(rt.db, &votes)
			assert.Nil(t, err)

			p, err := GetProposal(rt.db, 1)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantCollected, p.CollectedFunds.Amount)

			if tc.wantErr != nil {
				assert.Equal(t, 0, len(votes))
				assert.Equal(t, uint64(100), rt.balance(voter.Address()))
				assert.Equal(t, uint64(1000), rt.balance(RoundAddress()))
				return
			}
			assert.Equal(t, 1, len(votes))
			assert.Equal(t, voter.Address(), votes[0].Voter)
			assert.Equal(t, uint64(100-tc.wantCollected), rt.balance(voter.Address()))
			assert.Equal(t, uint64(1000+tc.wantCollected), rt.balance(RoundAddress()))
		})
	}
}

func TestVoteRequiresSignature(t *testing.T) {
	rt := newRoundTest(t)
	rt.instantiate(rt.instantiateMsg(), 100)
	id, _ := rt.createProposal(qftest.NewCondition(), "A")
	rt.height = 10
	_, err := rt.exec(nil, &VoteProposalMsg{ProposalID: id}, coin.NewCoinp(1, denom))
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

func TestCollectedFundsEqualVoteSum(t *testing.T) {
	rt := newRoundTest(t)
	rt.instantiate(rt.instantiateMsg(), 10000)
	creator := qftest.NewCondition()
	idA, _ := rt.createProposal(creator, "A")
	idB, _ := rt.createProposal(creator, "B")
	rt.height = 12

	alice, bob := rt.voter(1000), rt.voter(1000)
	votes := []struct {
		voter  qfund.Condition
		id     uint64
		amount uint64
	}{
		{alice, idA, 10},
		{bob, idA, 7},
		{alice, idA, 33},
		{alice, idB, 100},
		{bob, idB, 1},
	}
	for _, v := range votes {
		assert.Nil(t, rt.vote(v.voter, v.id, v.amount))
	}

	for _, id := range []uint64{idA, idB} {
		p, err := GetProposal(rt.db, id)
		assert.Nil(t, err)
		recorded, err := ListVotes(rt.db, id)
		assert.Nil(t, err)
		var sum uint64
		for _, v := range recorded {
			sum += v.Fund.Amount
		}
		assert.Equal(t, sum, p.CollectedFunds.Amount)
	}

	rt.height = 20
	_, err := rt.exec(rt.admin, &TriggerDistributionMsg{}, nil)
	assert.Nil(t, err)
	total, err := rt.state().Plan.Total()
	assert.Nil(t, err)
	assert.Equal(t, uint64(10000), total)
}

func TestLazyVotingPeriodIsPersisted(t *testing.T) {
	rt := newRoundTest(t)
	msg := rt.instantiateMsg()
	msg.ProposalPeriod = AtTime(qfund.AsUnixTime(blockTime(5)))
	rt.instantiate(msg, 100)
	id, _ := rt.createProposal(qftest.NewCondition(), "A")

	rt.height = 5
	assert.Equal(t, ProposalPeriod, rt.state().Phase)
	assert.Equal(t, VotingPeriod, EffectivePhase(mustConfig(t, rt.db), rt.state(), rt.height, qfund.AsUnixTime(blockTime(rt.height))))

	assert.Nil(t, rt.vote(rt.voter(5), id, 5))
	assert.Equal(t, VotingPeriod, rt.state().Phase)
}

func mustConfig(t *testing.T, db qfund.ReadOnlyKVStore) *Config {
	t.Helper()
	conf, err := LoadConfig(db)
	assert.Nil(t, err)
	return conf
}

func TestAdvancePhase(t *testing.T) {
	cases := map[string]struct {
		proposalPeriod *Expiration
		height         int64
		asAdmin        bool
		wantErr        *errors.Error
	}{
		"admin closes a never ending proposal period": {
			proposalPeriod: Never(),
			height:         2,
			asAdmin:        true,
		},
		"non admin": {
			proposalPeriod: Never(),
			height:         2,
			wantErr:        errors.ErrUnauthorized,
		},
		"proposal period with an expiration": {
			proposalPeriod: AtHeight(10),
			height:         2,
			asAdmin:        true,
			wantErr:        ErrWrongPhase,
		},
		"proposal period already over": {
			proposalPeriod: AtHeight(10),
			height:         11,
			asAdmin:        true,
			wantErr:        ErrWrongPhase,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			rt := newRoundTest(t)
			msg := rt.instantiateMsg()
			msg.ProposalPeriod = tc.proposalPeriod
			rt.instantiate(msg, 100)
			rt.height = tc.height

			signer := qftest.NewCondition()
			if tc.asAdmin {
				signer = rt.admin
			}
			_, err := rt.exec(signer, &AdvancePhaseMsg{}, nil)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr == nil {
				assert.Equal(t, VotingPeriod, rt.state().Phase)
				_, err := rt.exec(rt.admin, &AdvancePhaseMsg{}, nil)
				assert.IsErr(t, ErrWrongPhase, err)
			}
		})
	}
}

func TestNeverEndingProposalPeriod(t *testing.T) {
	rt := newRoundTest(t)
	msg := rt.instantiateMsg()
	msg.ProposalPeriod = Never()
	msg.VotingPeriod = AtHeight(2000)
	rt.instantiate(msg, 100)
	id, fund := rt.createProposal(qftest.NewCondition(), "A")

	rt.height = 1000
	voter := rt.voter(50)
	assert.IsErr(t, ErrWrongPhase, rt.vote(voter, id, 50))
	_, err := rt.exec(rt.admin, &TriggerDistributionMsg{}, nil)
	assert.IsErr(t, ErrWrongPhase, err)

	_, err = rt.exec(rt.admin, &AdvancePhaseMsg{}, nil)
	assert.Nil(t, err)
	assert.Nil(t, rt.vote(voter, id, 50))

	rt.height = 2000
	_, err = rt.exec(rt.admin, &TriggerDistributionMsg{}, nil)
	assert.Nil(t, err)
	// collected 50 and the whole pool of 100 - 50
	assert.Equal(t, uint64(100), rt.balance(fund))
	assert.Equal(t, uint64(50), rt.balance(rt.leftover))
}

func TestInstantiate(t *testing.T) {
	cases := map[string]struct {
		mutate  func(rt *roundTest, msg *InstantiateMsg)
		funds   *coin.Coin
		wantErr *errors.Error
	}{
		"valid": {
			funds: coin.NewCoinp(100, denom),
		},
		"no funds": {
			wantErr: errors.ErrInput,
		},
		"funds in another denomination": {
			funds:   coin.NewCoinp(100, "uatom"),
			wantErr: errors.ErrInput,
		},
		"proposal period already expired": {
			mutate:  func(rt *roundTest, msg *InstantiateMsg) { msg.ProposalPeriod = AtHeight(1) },
			funds:   coin.NewCoinp(100, denom),
			wantErr: errors.ErrInput,
		},
		"voting period already expired": {
			mutate: func(rt *roundTest, msg *InstantiateMsg) {
				msg.VotingPeriod = AtTime(qfund.AsUnixTime(blockTime(0)))
			},
			funds:   coin.NewCoinp(100, denom),
			wantErr: errors.ErrInput,
		},
		"empty whitelists are not stored": {
			mutate: func(rt *roundTest, msg *InstantiateMsg) {
				msg.CreateProposalWhitelist = &Whitelist{}
				msg.VoteProposalWhitelist = &Whitelist{}
			},
			funds: coin.NewCoinp(100, denom),
		},
		"invalid admin": {
			mutate:  func(rt *roundTest, msg *InstantiateMsg) { msg.Admin = []byte("admin") },
			funds:   coin.NewCoinp(100, denom),
			wantErr: errors.ErrInput,
		},
		"invalid budget denomination": {
			mutate:  func(rt *roundTest, msg *InstantiateMsg) { msg.BudgetDenom = "$" },
			funds:   coin.NewCoinp(100, denom),
			wantErr: errors.ErrInput,
		},
		"more than the sender holds": {
			funds:   coin.NewCoinp(101, denom),
			wantErr: errors.ErrInsufficientAmount,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			rt := newRoundTest(t)
			rt.height = 5
			msg := rt.instantiateMsg()
			if tc.mutate != nil {
				tc.mutate(rt, msg)
			}
			rt.mint(rt.admin.Address(), 100)

			_, err := rt.exec(rt.admin, msg, tc.funds)
			assert.IsErr(t, tc.wantErr, err)

			if tc.wantErr != nil {
				_, err := LoadConfig(rt.db)
				assert.IsErr(t, errors.ErrNotFound, err)
				assert.Equal(t, uint64(100), rt.balance(rt.admin.Address()))
				return
			}
			conf := mustConfig(t, rt.db)
			assert.Equal(t, coin.NewCoin(100, denom), *conf.Budget)
			assert.Equal(t, &Algorithm{}, conf.Algorithm)
			assert.Nil(t, conf.CreateProposalWhitelist)
			assert.Nil(t, conf.VoteProposalWhitelist)
			assert.Equal(t, ProposalPeriod, rt.state().Phase)
			assert.Equal(t, uint64(100), rt.balance(RoundAddress()))

			// A round can be instantiated only once.
			rt.mint(rt.admin.Address(), 100)
			_, err = rt.exec(rt.admin, msg, tc.funds)
			assert.IsErr(t, ErrWrongPhase, err)
		})
	}
}

func TestActionsBeforeInstantiation(t *testing.T) {
	rt := newRoundTest(t)
	msgs := []qfund.Msg{
		&CreateProposalMsg{Title: "A", FundAddress: rt.leftover},
		&VoteProposalMsg{ProposalID: 1},
		&AdvancePhaseMsg{},
		&TriggerDistributionMsg{},
	}
	for _, msg := range msgs {
		_, err := rt.exec(rt.admin, msg, coin.NewCoinp(1, denom))
		assert.IsErr(t, ErrWrongPhase, err)
	}
}

// failingExecutor rejects every plan after moving the first payout.
type failingExecutor struct {
	ctrl cash.Controller
}

func (e failingExecutor) Execute(db qfund.KVStore, source qfund.Address, plan *PayoutPlan) (coin.Coin, error) {
	for _, p := range plan.Payouts {
		if !coin.IsEmpty(p.Amount) {
			if err := e.ctrl.MoveCoins(db, source, p.Recipient, *p.Amount); err != nil {
				return coin.Coin{}, err
			}
			break
		}
	}
	return coin.Coin{}, errors.Wrap(errors.ErrState, "rejected")
}

func TestRejectedPlanLeavesStateUnchanged(t *testing.T) {
	rt := newRoundTest(t)
	rt.instantiate(rt.instantiateMsg(), 1000)
	id, fund := rt.createProposal(qftest.NewCondition(), "A")
	rt.height = 10
	assert.Nil(t, rt.vote(rt.voter(100), id, 100))
	rt.height = 20

	h := NewTriggerDistributionHandler(rt.auth, failingExecutor{ctrl: rt.ctrl})
	tx := &qftest.Tx{Msg: &TriggerDistributionMsg{}}
	_, err := h.Deliver(rt.ctx(rt.admin), rt.db, tx)
	assert.IsErr(t, errors.ErrState, err)

	assert.Equal(t, VotingPeriod, EffectivePhase(mustConfig(t, rt.db), rt.state(), rt.height, 0))
	assert.Nil(t, rt.state().Plan)
	assert.Equal(t, uint64(0), rt.balance(fund))
	assert.Equal(t, uint64(1100), rt.balance(RoundAddress()))

	// The round can still be distributed.
	_, err = rt.exec(rt.admin, &TriggerDistributionMsg{}, nil)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1000), rt.balance(fund))
	assert.Equal(t, uint64(100), rt.balance(rt.leftover))
}

func TestVoteBeyondBudget(t *testing.T) {
	rt := newRoundTest(t)
	rt.instantiate(rt.instantiateMsg(), 1000)
	creator := qftest.NewCondition()
	idA, fundA := rt.createProposal(creator, "A")
	idB, fundB := rt.createProposal(creator, "B")
	rt.height = 10

	whale := rt.voter(2000)
	assert.IsErr(t, errors.ErrOverflow, rt.vote(whale, idA, 1500))
	assert.Equal(t, uint64(2000), rt.balance(whale.Address()))
	assert.Equal(t, uint64(1000), rt.balance(RoundAddress()))
	votes, err := ListVotes(rt.db, idA)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(votes))

	// Contributions may use up the whole budget, but not more.
	assert.Nil(t, rt.vote(whale, idA, 600))
	assert.Nil(t, rt.vote(whale, idB, 400))
	assert.IsErr(t, errors.ErrOverflow, rt.vote(rt.voter(1), idA, 1))

	rt.height = 20
	_, err = rt.exec(rt.admin, &TriggerDistributionMsg{}, nil)
	assert.Nil(t, err)
	assert.Equal(t, uint64(600), rt.balance(fundA))
	assert.Equal(t, uint64(400), rt.balance(fundB))
	assert.Equal(t, uint64(1000), rt.balance(rt.leftover))
	assert.Equal(t, uint64(0), rt.balance(RoundAddress()))

	state := rt.state()
	assert.Equal(t, coin.NewCoin(0, denom), *state.Plan.MatchedTotal)
	assert.Equal(t, coin.NewCoin(1000, denom), *state.Swept)
}

func TestRoundWithTimeBoundaries(t *testing.T) {
	at := func(seconds int) time.Time {
		return genesisTime.Add(time.Duration(seconds) * time.Second)
	}

	rt := newRoundTest(t)
	rt.now = at(10)
	msg := rt.instantiateMsg()
	msg.ProposalPeriod = AtTime(qfund.AsUnixTime(at(50)))
	msg.VotingPeriod = AtTime(qfund.AsUnixTime(at(100)))
	rt.instantiate(msg, 1000)

	creator := qftest.NewCondition()
	v1, v2 := rt.voter(100), rt.voter(100)

	rt.height, rt.now = 2, at(49)
	id, fund := rt.createProposal(creator, "A")
	assert.IsErr(t, ErrWrongPhase, rt.vote(v1, id, 100))

	// The proposal period is over at its exact end time.
	rt.height, rt.now = 3, at(50)
	_, err := rt.exec(creator, &CreateProposalMsg{Title: "B", FundAddress: fund}, nil)
	assert.IsErr(t, ErrWrongPhase, err)
	assert.Nil(t, rt.vote(v1, id, 100))
	assert.Equal(t, VotingPeriod, rt.state().Phase)

	rt.height, rt.now = 4, at(99)
	assert.Nil(t, rt.vote(v2, id, 100))
	_, err = rt.exec(rt.admin, &TriggerDistributionMsg{}, nil)
	assert.IsErr(t, ErrWrongPhase, err)

	// The same applies to the voting period.
	rt.height, rt.now = 5, at(100)
	assert.IsErr(t, ErrWrongPhase, rt.vote(rt.voter(10), id, 10))
	_, err = rt.exec(rt.admin, &TriggerDistributionMsg{}, nil)
	assert.Nil(t, err)

	state := rt.state()
	assert.Equal(t, Distributed, state.Phase)
	assert.Equal(t, int64(5), state.DistributedAt)
	// The only proposal with votes takes its contributions and the whole
	// pool of 1000 - 200.
	assert.Equal(t, uint64(1000), rt.balance(fund))
	assert.Equal(t, uint64(200), rt.balance(rt.leftover))
	assert.Equal(t, uint64(0), rt.balance(RoundAddress()))
}
