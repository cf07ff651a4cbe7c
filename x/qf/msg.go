package qf

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/qfund"
	"github.com/iov-one/qfund/coin"
	"github.com/iov-one/qfund/errors"
)

const (
	pathInstantiate         = "qf/instantiate"
	pathCreateProposal      = "qf/create_proposal"
	pathVoteProposal        = "qf/vote_proposal"
	pathAdvancePhase        = "qf/advance_phase"
	pathTriggerDistribution = "qf/trigger_distribution"
)

// InstantiateMsg creates the round. The budget must be attached to the
// transaction as a single coin of BudgetDenom.
type InstantiateMsg struct {
	Admin                   qfund.Address `protobuf:"bytes,1,opt,name=admin,proto3,casttype=github.com/iov-one/qfund.Address" json:"admin"`
	LeftoverAddr            qfund.Address `protobuf:"bytes,2,opt,name=leftover_addr,json=leftoverAddr,proto3,casttype=github.com/iov-one/qfund.Address" json:"leftover_addr"`
	CreateProposalWhitelist *Whitelist    `protobuf:"bytes,3,opt,name=create_proposal_whitelist,json=createProposalWhitelist,proto3" json:"create_proposal_whitelist,omitempty"`
	VoteProposalWhitelist   *Whitelist    `protobuf:"bytes,4,opt,name=vote_proposal_whitelist,json=voteProposalWhitelist,proto3" json:"vote_proposal_whitelist,omitempty"`
	ProposalPeriod          *Expiration   `protobuf:"bytes,5,opt,name=proposal_period,json=proposalPeriod,proto3" json:"proposal_period"`
	VotingPeriod            *Expiration   `protobuf:"bytes,6,opt,name=voting_period,json=votingPeriod,proto3" json:"voting_period"`
	BudgetDenom             string        `protobuf:"bytes,7,opt,name=budget_denom,json=budgetDenom,proto3" json:"budget_denom"`
	Algorithm               *Algorithm    `protobuf:"bytes,8,opt,name=algorithm,proto3" json:"algorithm"`
}

func (m *InstantiateMsg) Reset()         { *m = InstantiateMsg{} }
func (m *InstantiateMsg) String() string { return proto.CompactTextString(m) }
func (*InstantiateMsg) ProtoMessage()    {}

var _ qfund.Msg = (*InstantiateMsg)(nil)

func (InstantiateMsg) Path() string {
	return pathInstantiate
}

func (m *InstantiateMsg) Validate() error {
	if !coin.IsDenom(m.BudgetDenom) {
		return errors.Field("BudgetDenom", errors.ErrInput, "invalid denomination %q", m.BudgetDenom)
	}
	// A zero budget is a placeholder, the configuration is validated as a
	// whole once the attached funds are known.
	return m.config(coin.NewCoin(0, m.BudgetDenom)).Validate()
}

// config returns the configuration described by this message.
func (m *InstantiateMsg) config(budget coin.Coin) *Config {
	alg := m.Algorithm
	if alg == nil {
		alg = &Algorithm{Kind: CapitalConstrainedLiberalRadicalism}
	}
	return &Config{
		Admin:                   m.Admin,
		LeftoverAddr:            m.LeftoverAddr,
		CreateProposalWhitelist: m.CreateProposalWhitelist.orNil(),
		VoteProposalWhitelist:   m.VoteProposalWhitelist.orNil(),
		ProposalPeriod:          m.ProposalPeriod,
		VotingPeriod:            m.VotingPeriod,
		Budget:                  &budget,
		Algorithm:               alg,
	}
}

// CreateProposalMsg submits a new proposal to the round.
type CreateProposalMsg struct {
	Title       string        `protobuf:"bytes,1,opt,name=title,proto3" json:"title"`
	Description string        `protobuf:"bytes,2,opt,name=description,proto3" json:"description"`
	Metadata    []byte        `protobuf:"bytes,3,opt,name=metadata,proto3" json:"metadata,omitempty"`
	FundAddress qfund.Address `protobuf:"bytes,4,opt,name=fund_address,json=fundAddress,proto3,casttype=github.com/iov-one/qfund.Address" json:"fund_address"`
}

func (m *CreateProposalMsg) Reset()         { *m = CreateProposalMsg{} }
func (m *CreateProposalMsg) String() string { return proto.CompactTextString(m) }
func (*CreateProposalMsg) ProtoMessage()    {}

var _ qfund.Msg = (*CreateProposalMsg)(nil)

func (CreateProposalMsg) Path() string {
	return pathCreateProposal
}

func (m *CreateProposalMsg) Validate() error {
	return validateProposalContent(m.Title, m.Description, m.Metadata, m.FundAddress)
}

// VoteProposalMsg votes on a proposal with the funds attached to the
// transaction.
type VoteProposalMsg struct {
	ProposalID uint64 `protobuf:"varint,1,opt,name=proposal_id,json=proposalId,proto3" json:"proposal_id"`
}

func (m *VoteProposalMsg) Reset()         { *m = VoteProposalMsg{} }
func (m *VoteProposalMsg) String() string { return proto.CompactTextString(m) }
func (*VoteProposalMsg) ProtoMessage()    {}

var _ qfund.Msg = (*VoteProposalMsg)(nil)

func (VoteProposalMsg) Path() string {
	return pathVoteProposal
}

// Validate accepts any proposal ID. A reference to a proposal that does
// not exist is reported by the handler.
func (m *VoteProposalMsg) Validate() error {
	return nil
}

// AdvancePhaseMsg closes the proposal period of a round that was
// configured without a proposal period expiration.
type AdvancePhaseMsg struct{}

func (m *AdvancePhaseMsg) Reset()         { *m = AdvancePhaseMsg{} }
func (m *AdvancePhaseMsg) String() string { return proto.CompactTextString(m) }
func (*AdvancePhaseMsg) ProtoMessage()    {}

var _ qfund.Msg = (*AdvancePhaseMsg)(nil)

func (AdvancePhaseMsg) Path() string {
	return pathAdvancePhase
}

func (m *AdvancePhaseMsg) Validate() error {
	return nil
}

// TriggerDistributionMsg distributes the funds of the round.
type TriggerDistributionMsg struct{}

func (m *TriggerDistributionMsg) Reset()         { *m = TriggerDistributionMsg{} }
func (m *TriggerDistributionMsg) String() string { return proto.CompactTextString(m) }
func (*TriggerDistributionMsg) ProtoMessage()    {}

var _ qfund.Msg = (*TriggerDistributionMsg)(nil)

func (TriggerDistributionMsg) Path() string {
	return pathTriggerDistribution
}

func (m *TriggerDistributionMsg) Validate() error {
	return nil
}
