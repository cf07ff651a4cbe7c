package qf

import (
	"github.com/iov-one/qfund"
	"github.com/iov-one/qfund/coin"
	"github.com/iov-one/qfund/errors"
	"github.com/iov-one/qfund/gconf"
	"github.com/iov-one/qfund/orm"
)

const (
	// configPkg is the gconf key of the round configuration.
	configPkg = "qf"

	maxTitleLength       = 256
	maxDescriptionLength = 4096
	maxMetadataLength    = 1024
)

var roundStateKey = []byte("state")

// RoundAddress returns the address of the account holding the budget and
// the vote contributions until the distribution.
func RoundAddress() qfund.Address {
	return qfund.NewCondition("qf", "round", []byte("budget")).Address()
}

func validAddress(field string, a qfund.Address) error {
	if err := a.Validate(); err != nil {
		return errors.Field(field, errors.ErrInput, "invalid address: %s", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if err := validAddress("Admin", c.Admin); err != nil {
		return err
	}
	if err := validAddress("LeftoverAddr", c.LeftoverAddr); err != nil {
		return err
	}
	if c.CreateProposalWhitelist != nil {
		if err := c.CreateProposalWhitelist.Validate(); err != nil {
			return errors.Field("CreateProposalWhitelist", err, "invalid whitelist")
		}
	}
	if c.VoteProposalWhitelist != nil {
		if err := c.VoteProposalWhitelist.Validate(); err != nil {
			return errors.Field("VoteProposalWhitelist", err, "invalid whitelist")
		}
	}
	if err := c.ProposalPeriod.Validate(); err != nil {
		return errors.Field("ProposalPeriod", err, "invalid expiration")
	}
	if err := c.VotingPeriod.Validate(); err != nil {
		return errors.Field("VotingPeriod", err, "invalid expiration")
	}
	if c.Budget == nil {
		return errors.Field("Budget", errors.ErrEmpty, "required")
	}
	if err := c.Budget.Validate(); err != nil {
		return errors.Field("Budget", err, "invalid budget")
	}
	if c.Algorithm == nil {
		return errors.Field("Algorithm", errors.ErrEmpty, "required")
	}
	if c.Algorithm.Kind != CapitalConstrainedLiberalRadicalism {
		return errors.Field("Algorithm", errors.ErrInput, "unsupported algorithm %d", c.Algorithm.Kind)
	}
	return nil
}

func (p *Proposal) Validate() error {
	if p.ID == 0 {
		return errors.Field("ID", errors.ErrEmpty, "required")
	}
	if err := validateProposalContent(p.Title, p.Description, p.Metadata, p.FundAddress); err != nil {
		return err
	}
	if p.CollectedFunds == nil {
		return errors.Field("CollectedFunds", errors.ErrEmpty, "required")
	}
	if err := p.CollectedFunds.Validate(); err != nil {
		return errors.Field("CollectedFunds", err, "invalid coin")
	}
	return nil
}

func validateProposalContent(title, description string, metadata []byte, fund qfund.Address) error {
	switch n := len(title); {
	case n == 0:
		return errors.Field("Title", errors.ErrInput, "required")
	case n > maxTitleLength:
		return errors.Field("Title", errors.ErrInput, "longer than %d characters", maxTitleLength)
	}
	if len(description) > maxDescriptionLength {
		return errors.Field("Description", errors.ErrInput, "longer than %d characters", maxDescriptionLength)
	}
	if len(metadata) > maxMetadataLength {
		return errors.Field("Metadata", errors.ErrInput, "longer than %d bytes", maxMetadataLength)
	}
	return validAddress("FundAddress", fund)
}

func (v *Vote) Validate() error {
	if v.ProposalID == 0 {
		return errors.Field("ProposalID", errors.ErrEmpty, "required")
	}
	if err := validAddress("Voter", v.Voter); err != nil {
		return err
	}
	if coin.IsEmpty(v.Fund) {
		return errors.Field("Fund", errors.ErrAmount, "must be positive")
	}
	if err := v.Fund.Validate(); err != nil {
		return errors.Field("Fund", err, "invalid coin")
	}
	return nil
}

func (s *RoundState) Validate() error {
	if _, ok := phaseNames[s.Phase]; !ok {
		return errors.Field("Phase", errors.ErrState, "unknown phase %d", s.Phase)
	}
	if (s.Phase == Distributed) != (s.Plan != nil) {
		return errors.Field("Plan", errors.ErrState, "plan must be set exactly when distributed")
	}
	return nil
}

// NewProposalBucket returns a bucket storing proposals under their
// sequence ID.
func NewProposalBucket() orm.ModelBucket {
	return orm.NewModelBucket("proposal", &Proposal{})
}

// NewVoteBucket returns a bucket storing votes under a sequence ID, indexed
// by the proposal they reference.
func NewVoteBucket() orm.ModelBucket {
	return orm.NewModelBucket("vote", &Vote{},
		orm.WithIndex("proposal", voteProposalIndexer, false))
}

func voteProposalIndexer(m orm.Model) ([]byte, error) {
	v, ok := m.(*Vote)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return orm.EncodeSequence(v.ProposalID), nil
}

// NewRoundBucket returns a bucket holding the round state under a single
// key.
func NewRoundBucket() orm.ModelBucket {
	return orm.NewModelBucket("round", &RoundState{})
}

// roundStore groups all buckets of the round.
type roundStore struct {
	proposals orm.ModelBucket
	votes     orm.ModelBucket
	round     orm.ModelBucket
}

func newRoundStore() roundStore {
	return roundStore{
		proposals: NewProposalBucket(),
		votes:     NewVoteBucket(),
		round:     NewRoundBucket(),
	}
}

// LoadConfig returns the configuration of the round. ErrNotFound is
// returned if the round was not instantiated.
func LoadConfig(db qfund.ReadOnlyKVStore) (*Config, error) {
	var conf Config
	if err := gconf.Load(db, configPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "round config")
	}
	return &conf, nil
}

// LoadState returns the stored state of the round. The phase is returned
// as stored, see EffectivePhase.
func LoadState(db qfund.ReadOnlyKVStore) (*RoundState, error) {
	return newRoundStore().loadState(db)
}

func (s roundStore) loadState(db qfund.ReadOnlyKVStore) (*RoundState, error) {
	var state RoundState
	if err := s.round.One(db, roundStateKey, &state); err != nil {
		return nil, errors.Wrap(err, "round state")
	}
	return &state, nil
}

func (s roundStore) saveState(db qfund.KVStore, state *RoundState) error {
	_, err := s.round.Put(db, roundStateKey, state)
	return err
}

// GetProposal returns the proposal with the given ID.
func GetProposal(db qfund.ReadOnlyKVStore, id uint64) (*Proposal, error) {
	return newRoundStore().proposal(db, id)
}

func (s roundStore) proposal(db qfund.ReadOnlyKVStore, id uint64) (*Proposal, error) {
	var p Proposal
	if err := s.proposals.One(db, orm.EncodeSequence(id), &p); err != nil {
		return nil, errors.Wrapf(err, "proposal %d", id)
	}
	return &p, nil
}

// ListProposals returns all proposals ordered by their ID.
func ListProposals(db qfund.ReadOnlyKVStore) ([]*Proposal, error) {
	var res []*Proposal
	if _, err := NewProposalBucket().All(db, &res); err != nil {
		return nil, errors.Wrap(err, "proposals")
	}
	return res, nil
}

// ListVotes returns all votes of the given proposal in the order they were
// cast.
func ListVotes(db qfund.ReadOnlyKVStore, proposalID uint64) ([]*Vote, error) {
	var res []*Vote
	if _, err := NewVoteBucket().ByIndex(db, "proposal", orm.EncodeSequence(proposalID), &res); err != nil {
		return nil, errors.Wrap(err, "votes")
	}
	return res, nil
}

// collectedTotal returns the sum of the funds collected by all proposals.
func (s roundStore) collectedTotal(db qfund.ReadOnlyKVStore, denom string) (coin.Coin, error) {
	var proposals []*Proposal
	if _, err := s.proposals.All(db, &proposals); err != nil {
		return coin.Coin{}, errors.Wrap(err, "proposals")
	}
	total := coin.NewCoin(0, denom)
	for _, p := range proposals {
		if coin.IsEmpty(p.CollectedFunds) {
			continue
		}
		sum, err := total.Add(*p.CollectedFunds)
		if err != nil {
			return coin.Coin{}, errors.Wrapf(err, "proposal %d", p.ID)
		}
		total = sum
	}
	return total, nil
}

func (s roundStore) allVotes(db qfund.ReadOnlyKVStore) ([]*Vote, error) {
	var res []*Vote
	if _, err := s.votes.All(db, &res); err != nil {
		return nil, errors.Wrap(err, "votes")
	}
	return res, nil
}
