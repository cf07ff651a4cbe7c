package qf

import (
	"strconv"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/qfund"
	"github.com/iov-one/qfund/coin"
	"github.com/iov-one/qfund/errors"
	"github.com/iov-one/qfund/gconf"
	"github.com/iov-one/qfund/orm"
	"github.com/iov-one/qfund/x"
	"github.com/iov-one/qfund/x/cash"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	instantiateCost         int64 = 500
	createProposalCost      int64 = 200
	voteProposalCost        int64 = 100
	advancePhaseCost        int64 = 50
	triggerDistributionCost int64 = 1000
)

// RegisterRoutes registers handlers for all messages of the round.
func RegisterRoutes(r qfund.Registry, auth x.Authenticator, ctrl cash.Controller) {
	r.Handle(pathInstantiate, NewInstantiateHandler(auth, ctrl))
	r.Handle(pathCreateProposal, NewCreateProposalHandler(auth))
	r.Handle(pathVoteProposal, NewVoteProposalHandler(auth, ctrl))
	r.Handle(pathAdvancePhase, NewAdvancePhaseHandler(auth))
	r.Handle(pathTriggerDistribution, NewTriggerDistributionHandler(auth, NewCashExecutor(ctrl)))
}

// round is the round configuration and state as seen at the current
// block.
type round struct {
	conf   *Config
	state  *RoundState
	height int64
	now    qfund.UnixTime
}

// EffectivePhase returns the phase of the round at the given block. A
// round in the proposal period whose proposal period has expired is in
// the voting period, even if that was not stored yet.
func EffectivePhase(conf *Config, state *RoundState, height int64, now qfund.UnixTime) Phase {
	if state.Phase == ProposalPeriod && conf.ProposalPeriod.IsExpired(height, now) {
		return VotingPeriod
	}
	return state.Phase
}

func (r *round) phase() Phase {
	return EffectivePhase(r.conf, r.state, r.height, r.now)
}

// votingOpen returns true if votes can be cast.
func (r *round) votingOpen() bool {
	return r.phase() == VotingPeriod && !r.conf.VotingPeriod.IsExpired(r.height, r.now)
}

// persistPhase stores the effective phase if it differs from the stored
// one.
func (r *round) persistPhase(db qfund.KVStore, s roundStore) error {
	if p := r.phase(); p != r.state.Phase {
		r.state.Phase = p
		return s.saveState(db, r.state)
	}
	return nil
}

// blockClock returns the height and the time of the current block.
func blockClock(ctx qfund.Context) (int64, qfund.UnixTime, error) {
	height, ok := qfund.GetHeight(ctx)
	if !ok {
		return 0, 0, errors.Wrap(errors.ErrState, "block height not in context")
	}
	now, err := qfund.BlockTime(ctx)
	if err != nil {
		return 0, 0, errors.Wrap(err, "block time")
	}
	return height, qfund.AsUnixTime(now), nil
}

func loadRound(ctx qfund.Context, db qfund.ReadOnlyKVStore, s roundStore) (*round, error) {
	height, now, err := blockClock(ctx)
	if err != nil {
		return nil, err
	}
	conf, err := LoadConfig(db)
	if err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, errors.Wrap(ErrWrongPhase, "round not instantiated")
		}
		return nil, err
	}
	state, err := s.loadState(db)
	if err != nil {
		return nil, err
	}
	return &round{conf: conf, state: state, height: height, now: now}, nil
}

// signer returns the address of the main signer or nil.
func signer(ctx qfund.Context, auth x.Authenticator) qfund.Address {
	if cond := x.MainSigner(ctx, auth); cond != nil {
		return cond.Address()
	}
	return nil
}

func (r *round) requireAdmin(ctx qfund.Context, auth x.Authenticator) error {
	if !auth.HasAddress(ctx, r.conf.Admin) {
		return errors.Wrap(errors.ErrUnauthorized, "admin signature required")
	}
	return nil
}

// InstantiateHandler creates the round and takes the attached budget.
type InstantiateHandler struct {
	auth  x.Authenticator
	ctrl  cash.Controller
	store roundStore
}

var _ qfund.Handler = InstantiateHandler{}

func NewInstantiateHandler(auth x.Authenticator, ctrl cash.Controller) InstantiateHandler {
	return InstantiateHandler{auth: auth, ctrl: ctrl, store: newRoundStore()}
}

func (h InstantiateHandler) Check(ctx qfund.Context, db qfund.KVStore, tx qfund.Tx) (*qfund.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &qfund.CheckResult{GasAllocated: instantiateCost}, nil
}

func (h InstantiateHandler) Deliver(ctx qfund.Context, db qfund.KVStore, tx qfund.Tx) (*qfund.DeliverResult, error) {
	msg, caller, budget, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.MoveCoins(db, caller, RoundAddress(), budget); err != nil {
		return nil, errors.Wrap(err, "deposit budget")
	}
	conf := msg.config(budget)
	if err := gconf.Save(db, configPkg, conf); err != nil {
		return nil, errors.Wrap(err, "save config")
	}
	if err := h.store.saveState(db, &RoundState{Phase: ProposalPeriod}); err != nil {
		return nil, errors.Wrap(err, "save state")
	}
	qfund.GetLogger(ctx).Info("round instantiated",
		"admin", conf.Admin.String(), "budget", budget.String())
	return &qfund.DeliverResult{
		Tags: []common.KVPair{
			{Key: []byte("budget"), Value: []byte(budget.String())},
		},
	}, nil
}

func (h InstantiateHandler) validate(ctx qfund.Context, db qfund.KVStore, tx qfund.Tx) (*InstantiateMsg, qfund.Address, coin.Coin, error) {
	height, now, err := blockClock(ctx)
	if err != nil {
		return nil, nil, coin.Coin{}, err
	}
	switch exists, err := gconf.Exists(db, configPkg); {
	case err != nil:
		return nil, nil, coin.Coin{}, err
	case exists:
		return nil, nil, coin.Coin{}, errors.Wrap(ErrWrongPhase, "round already instantiated")
	}
	caller := signer(ctx, h.auth)
	if caller == nil {
		return nil, nil, coin.Coin{}, errors.Wrap(errors.ErrUnauthorized, "signature required")
	}
	var msg InstantiateMsg
	if err := qfund.LoadMsg(tx, &msg); err != nil {
		return nil, nil, coin.Coin{}, errors.Wrap(err, "load msg")
	}
	if msg.ProposalPeriod.IsExpired(height, now) {
		return nil, nil, coin.Coin{}, errors.Field("ProposalPeriod", errors.ErrInput, "already expired")
	}
	if msg.VotingPeriod.IsExpired(height, now) {
		return nil, nil, coin.Coin{}, errors.Field("VotingPeriod", errors.ErrInput, "already expired")
	}
	budget, err := x.RequireFunds(tx, msg.BudgetDenom)
	if err != nil {
		return nil, nil, coin.Coin{}, errors.Wrap(err, "budget")
	}
	return &msg, caller, budget, nil
}

// CreateProposalHandler adds a proposal to the round.
type CreateProposalHandler struct {
	auth  x.Authenticator
	store roundStore
	seq   orm.Sequence
}

var _ qfund.Handler = CreateProposalHandler{}

func NewCreateProposalHandler(auth x.Authenticator) CreateProposalHandler {
	return CreateProposalHandler{
		auth:  auth,
		store: newRoundStore(),
		seq:   orm.NewSequence("proposal", "id"),
	}
}

func (h CreateProposalHandler) Check(ctx qfund.Context, db qfund.KVStore, tx qfund.Tx) (*qfund.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &qfund.CheckResult{GasAllocated: createProposalCost}, nil
}

func (h CreateProposalHandler) Deliver(ctx qfund.Context, db qfund.KVStore, tx qfund.Tx) (*qfund.DeliverResult, error) {
	r, msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	id, err := h.seq.NextInt(db)
	if err != nil {
		return nil, errors.Wrap(err, "proposal ID")
	}
	p := Proposal{
		ID:             id,
		Title:          msg.Title,
		Description:    msg.Description,
		Metadata:       msg.Metadata,
		FundAddress:    msg.FundAddress,
		CollectedFunds: coin.NewCoinp(0, r.conf.Budget.Denom),
	}
	key, err := h.store.proposals.Put(db, orm.EncodeSequence(id), &p)
	if err != nil {
		return nil, errors.Wrap(err, "save proposal")
	}
	return &qfund.DeliverResult{
		Data: key,
		Tags: []common.KVPair{
			{Key: []byte("proposal_id"), Value: []byte(strconv.FormatUint(id, 10))},
		},
	}, nil
}

func (h CreateProposalHandler) validate(ctx qfund.Context, db qfund.KVStore, tx qfund.Tx) (*round, *CreateProposalMsg, error) {
	r, err := loadRound(ctx, db, h.store)
	if err != nil {
		return nil, nil, err
	}
	if p := r.phase(); p != ProposalPeriod {
		return nil, nil, errors.Wrapf(ErrWrongPhase, "proposals are not accepted in %s", p)
	}
	creator := signer(ctx, h.auth)
	if creator == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "signature required")
	}
	if !CanCreateProposal(r.conf.CreateProposalWhitelist, creator) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "not allowed to create a proposal")
	}
	var msg CreateProposalMsg
	if err := qfund.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	return r, &msg, nil
}

// VoteProposalHandler records a vote with the attached funds.
type VoteProposalHandler struct {
	auth  x.Authenticator
	ctrl  cash.Controller
	store roundStore
}

var _ qfund.Handler = VoteProposalHandler{}

func NewVoteProposalHandler(auth x.Authenticator, ctrl cash.Controller) VoteProposalHandler {
	return VoteProposalHandler{auth: auth, ctrl: ctrl, store: newRoundStore()}
}

func (h VoteProposalHandler) Check(ctx qfund.Context, db qfund.KVStore, tx qfund.Tx) (*qfund.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &qfund.CheckResult{GasAllocated: voteProposalCost}, nil
}

func (h VoteProposalHandler) Deliver(ctx qfund.Context, db qfund.KVStore, tx qfund.Tx) (*qfund.DeliverResult, error) {
	r, vote, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.MoveCoins(db, vote.Voter, RoundAddress(), *vote.Fund); err != nil {
		return nil, errors.Wrap(err, "deposit vote")
	}
	if err := r.persistPhase(db, h.store); err != nil {
		return nil, errors.Wrap(err, "save state")
	}

	p, err := h.store.proposal(db, vote.ProposalID)
	if err != nil {
		return nil, err
	}
	collected, err := p.CollectedFunds.Add(*vote.Fund)
	if err != nil {
		return nil, errors.Wrap(err, "collected funds")
	}
	p.CollectedFunds = &collected
	if _, err := h.store.proposals.Put(db, orm.EncodeSequence(p.ID), p); err != nil {
		return nil, errors.Wrap(err, "save proposal")
	}
	if _, err := h.store.votes.Put(db, nil, vote); err != nil {
		return nil, errors.Wrap(err, "save vote")
	}
	return &qfund.DeliverResult{
		Tags: []common.KVPair{
			{Key: []byte("proposal_id"), Value: []byte(strconv.FormatUint(p.ID, 10))},
			{Key: []byte("voter"), Value: []byte(vote.Voter.String())},
			{Key: []byte("collected_fund"), Value: []byte(collected.String())},
		},
	}, nil
}

func (h VoteProposalHandler) validate(ctx qfund.Context, db qfund.KVStore, tx qfund.Tx) (*round, *Vote, error) {
	r, err := loadRound(ctx, db, h.store)
	if err != nil {
		return nil, nil, err
	}
	if !r.votingOpen() {
		return nil, nil, errors.Wrapf(ErrWrongPhase, "voting is closed in %s", r.phase())
	}
	voter := signer(ctx, h.auth)
	if voter == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "signature required")
	}
	if !CanVote(r.conf.VoteProposalWhitelist, voter) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "not allowed to vote")
	}
	var msg VoteProposalMsg
	if err := qfund.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if err := h.store.proposals.Has(db, orm.EncodeSequence(msg.ProposalID)); err != nil {
		return nil, nil, errors.Wrapf(err, "proposal %d", msg.ProposalID)
	}
	fund, err := x.RequireFunds(tx, r.conf.Budget.Denom)
	if err != nil {
		return nil, nil, errors.Wrap(err, "vote funds")
	}
	collected, err := h.store.collectedTotal(db, r.conf.Budget.Denom)
	if err != nil {
		return nil, nil, err
	}
	// Contributions are part of the budget and must never exceed it.
	if total, err := collected.Add(fund); err != nil || total.Amount > r.conf.Budget.Amount {
		return nil, nil, errors.Wrapf(errors.ErrOverflow, "vote of %s with %s collected exceeds the budget %s",
			fund, collected, r.conf.Budget)
	}
	vote := Vote{
		ProposalID: msg.ProposalID,
		Voter:      voter,
		Fund:       &fund,
	}
	return r, &vote, nil
}

// AdvancePhaseHandler lets the admin close a proposal period that has no
// expiration.
type AdvancePhaseHandler struct {
	auth  x.Authenticator
	store roundStore
}

var _ qfund.Handler = AdvancePhaseHandler{}

func NewAdvancePhaseHandler(auth x.Authenticator) AdvancePhaseHandler {
	return AdvancePhaseHandler{auth: auth, store: newRoundStore()}
}

func (h AdvancePhaseHandler) Check(ctx qfund.Context, db qfund.KVStore, tx qfund.Tx) (*qfund.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &qfund.CheckResult{GasAllocated: advancePhaseCost}, nil
}

func (h AdvancePhaseHandler) Deliver(ctx qfund.Context, db qfund.KVStore, tx qfund.Tx) (*qfund.DeliverResult, error) {
	r, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	r.state.Phase = VotingPeriod
	if err := h.store.saveState(db, r.state); err != nil {
		return nil, errors.Wrap(err, "save state")
	}
	return &qfund.DeliverResult{}, nil
}

func (h AdvancePhaseHandler) validate(ctx qfund.Context, db qfund.KVStore, tx qfund.Tx) (*round, error) {
	r, err := loadRound(ctx, db, h.store)
	if err != nil {
		return nil, err
	}
	if err := r.requireAdmin(ctx, h.auth); err != nil {
		return nil, err
	}
	var msg AdvancePhaseMsg
	if err := qfund.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if p := r.phase(); p != ProposalPeriod {
		return nil, errors.Wrapf(ErrWrongPhase, "cannot advance from %s", p)
	}
	if !r.conf.ProposalPeriod.IsNever() {
		return nil, errors.Wrapf(ErrWrongPhase, "proposal period ends %s", r.conf.ProposalPeriod)
	}
	return r, nil
}

// TriggerDistributionHandler computes the payout plan and executes it.
type TriggerDistributionHandler struct {
	auth     x.Authenticator
	executor PayoutExecutor
	store    roundStore
}

var _ qfund.Handler = TriggerDistributionHandler{}

func NewTriggerDistributionHandler(auth x.Authenticator, executor PayoutExecutor) TriggerDistributionHandler {
	return TriggerDistributionHandler{auth: auth, executor: executor, store: newRoundStore()}
}

func (h TriggerDistributionHandler) Check(ctx qfund.Context, db qfund.KVStore, tx qfund.Tx) (*qfund.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &qfund.CheckResult{GasAllocated: triggerDistributionCost}, nil
}

// Deliver computes and pays out the plan. The payouts and the phase
// transition are written to the store together or not at all.
func (h TriggerDistributionHandler) Deliver(ctx qfund.Context, db qfund.KVStore, tx qfund.Tx) (*qfund.DeliverResult, error) {
	r, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	cstore, ok := db.(qfund.CacheableKVStore)
	if !ok {
		return h.distribute(ctx, db, r)
	}
	cache := cstore.CacheWrap()
	res, err := h.distribute(ctx, cache, r)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "writing distribution")
	}
	return res, nil
}

func (h TriggerDistributionHandler) distribute(ctx qfund.Context, db qfund.KVStore, r *round) (*qfund.DeliverResult, error) {
	proposals, err := ListProposals(db)
	if err != nil {
		return nil, err
	}
	votes, err := h.store.allVotes(db)
	if err != nil {
		return nil, err
	}
	plan, err := BuildPlan(r.conf, proposals, votes)
	if err != nil {
		return nil, errors.Wrap(err, "payout plan")
	}
	swept, err := h.executor.Execute(db, RoundAddress(), plan)
	if err != nil {
		return nil, errors.Wrap(err, "payout")
	}

	r.state.Phase = Distributed
	r.state.Plan = plan
	r.state.DistributedAt = r.height
	r.state.Swept = &swept
	if err := h.store.saveState(db, r.state); err != nil {
		return nil, errors.Wrap(err, "save state")
	}

	qfund.GetLogger(ctx).Info("round distributed",
		"proposals", len(plan.Payouts),
		"matched", plan.MatchedTotal.String(),
		"leftover", plan.Leftover.Amount.String(),
		"swept", swept.String())

	raw, err := proto.Marshal(plan)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot marshal plan: %s", err)
	}
	return &qfund.DeliverResult{
		Data: raw,
		Tags: []common.KVPair{
			{Key: []byte("leftover"), Value: []byte(plan.Leftover.Amount.String())},
			{Key: []byte("swept"), Value: []byte(swept.String())},
		},
	}, nil
}

func (h TriggerDistributionHandler) validate(ctx qfund.Context, db qfund.KVStore, tx qfund.Tx) (*round, error) {
	r, err := loadRound(ctx, db, h.store)
	if err != nil {
		return nil, err
	}
	if err := r.requireAdmin(ctx, h.auth); err != nil {
		return nil, err
	}
	var msg TriggerDistributionMsg
	if err := qfund.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if r.state.Phase == Distributed {
		return nil, errors.Wrapf(ErrAlreadyDistributed, "at height %d", r.state.DistributedAt)
	}
	if p := r.phase(); p != VotingPeriod {
		return nil, errors.Wrapf(ErrWrongPhase, "cannot distribute in %s", p)
	}
	if vp := r.conf.VotingPeriod; !vp.IsNever() && !vp.IsExpired(r.height, r.now) {
		return nil, errors.Wrapf(ErrWrongPhase, "voting period ends %s", vp)
	}
	return r, nil
}
