package qf

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/qfund"
	"github.com/iov-one/qfund/coin"
)

// Phase is the stage of the round life cycle.
type Phase int32

const (
	PhaseInvalid Phase = 0
	// ProposalPeriod accepts new proposals.
	ProposalPeriod Phase = 1
	// VotingPeriod accepts votes on existing proposals.
	VotingPeriod Phase = 2
	// Distributed is terminal, the funds were paid out.
	Distributed Phase = 3
)

var phaseNames = map[Phase]string{
	ProposalPeriod: "proposal_period",
	VotingPeriod:   "voting_period",
	Distributed:    "distributed",
}

func (p Phase) String() string {
	if n, ok := phaseNames[p]; ok {
		return n
	}
	return "invalid"
}

// AlgorithmKind is the funding formula of the round.
type AlgorithmKind int32

const (
	// CapitalConstrainedLiberalRadicalism is the only supported formula.
	CapitalConstrainedLiberalRadicalism AlgorithmKind = 0
)

// Algorithm declares how the matching pool is distributed. Parameter is
// reserved for formula tuning and is currently ignored.
type Algorithm struct {
	Kind      AlgorithmKind `protobuf:"varint,1,opt,name=kind,proto3,casttype=AlgorithmKind" json:"kind"`
	Parameter uint64        `protobuf:"varint,2,opt,name=parameter,proto3" json:"parameter,omitempty"`
}

func (m *Algorithm) Reset()         { *m = Algorithm{} }
func (m *Algorithm) String() string { return proto.CompactTextString(m) }
func (*Algorithm) ProtoMessage()    {}

// Whitelist is a set of addresses allowed to perform an action.
type Whitelist struct {
	Addresses []qfund.Address `protobuf:"bytes,1,rep,name=addresses,proto3,casttype=github.com/iov-one/qfund.Address" json:"addresses"`
}

func (m *Whitelist) Reset()         { *m = Whitelist{} }
func (m *Whitelist) String() string { return proto.CompactTextString(m) }
func (*Whitelist) ProtoMessage()    {}

// Config is the configuration of the round, created once at
// instantiation.
type Config struct {
	Admin        qfund.Address `protobuf:"bytes,1,opt,name=admin,proto3,casttype=github.com/iov-one/qfund.Address" json:"admin"`
	LeftoverAddr qfund.Address `protobuf:"bytes,2,opt,name=leftover_addr,json=leftoverAddr,proto3,casttype=github.com/iov-one/qfund.Address" json:"leftover_addr"`
	// Nil whitelist means that anyone can create a proposal.
	CreateProposalWhitelist *Whitelist `protobuf:"bytes,3,opt,name=create_proposal_whitelist,json=createProposalWhitelist,proto3" json:"create_proposal_whitelist,omitempty"`
	// Nil whitelist means that anyone can vote.
	VoteProposalWhitelist *Whitelist  `protobuf:"bytes,4,opt,name=vote_proposal_whitelist,json=voteProposalWhitelist,proto3" json:"vote_proposal_whitelist,omitempty"`
	ProposalPeriod        *Expiration `protobuf:"bytes,5,opt,name=proposal_period,json=proposalPeriod,proto3" json:"proposal_period"`
	VotingPeriod          *Expiration `protobuf:"bytes,6,opt,name=voting_period,json=votingPeriod,proto3" json:"voting_period"`
	Budget                *coin.Coin  `protobuf:"bytes,7,opt,name=budget,proto3" json:"budget"`
	Algorithm             *Algorithm  `protobuf:"bytes,8,opt,name=algorithm,proto3" json:"algorithm"`
}

func (m *Config) Reset()         { *m = Config{} }
func (m *Config) String() string { return proto.CompactTextString(m) }
func (*Config) ProtoMessage()    {}

// Proposal is a project that collects votes and receives the payout.
type Proposal struct {
	ID             uint64        `protobuf:"varint,1,opt,name=id,proto3" json:"id"`
	Title          string        `protobuf:"bytes,2,opt,name=title,proto3" json:"title"`
	Description    string        `protobuf:"bytes,3,opt,name=description,proto3" json:"description"`
	Metadata       []byte        `protobuf:"bytes,4,opt,name=metadata,proto3" json:"metadata,omitempty"`
	FundAddress    qfund.Address `protobuf:"bytes,5,opt,name=fund_address,json=fundAddress,proto3,casttype=github.com/iov-one/qfund.Address" json:"fund_address"`
	CollectedFunds *coin.Coin    `protobuf:"bytes,6,opt,name=collected_funds,json=collectedFunds,proto3" json:"collected_funds"`
}

func (m *Proposal) Reset()         { *m = Proposal{} }
func (m *Proposal) String() string { return proto.CompactTextString(m) }
func (*Proposal) ProtoMessage()    {}

// Vote is a single contribution of a voter to a proposal.
type Vote struct {
	ProposalID uint64        `protobuf:"varint,1,opt,name=proposal_id,json=proposalId,proto3" json:"proposal_id"`
	Voter      qfund.Address `protobuf:"bytes,2,opt,name=voter,proto3,casttype=github.com/iov-one/qfund.Address" json:"voter"`
	Fund       *coin.Coin    `protobuf:"bytes,3,opt,name=fund,proto3" json:"fund"`
}

func (m *Vote) Reset()         { *m = Vote{} }
func (m *Vote) String() string { return proto.CompactTextString(m) }
func (*Vote) ProtoMessage()    {}

// Payout is a single transfer of the distribution.
type Payout struct {
	Recipient qfund.Address `protobuf:"bytes,1,opt,name=recipient,proto3,casttype=github.com/iov-one/qfund.Address" json:"recipient"`
	Amount    *coin.Coin    `protobuf:"bytes,2,opt,name=amount,proto3" json:"amount"`
	// ProposalID is zero for the leftover payout.
	ProposalID uint64 `protobuf:"varint,3,opt,name=proposal_id,json=proposalId,proto3" json:"proposal_id,omitempty"`
	// Match is the part of the amount that comes from the matching pool.
	Match uint64 `protobuf:"varint,4,opt,name=match,proto3" json:"match"`
}

func (m *Payout) Reset()         { *m = Payout{} }
func (m *Payout) String() string { return proto.CompactTextString(m) }
func (*Payout) ProtoMessage()    {}

// PayoutPlan is the complete result of the distribution. Payouts are
// ordered by proposal ID, the leftover payout is kept separately.
type PayoutPlan struct {
	Payouts      []*Payout  `protobuf:"bytes,1,rep,name=payouts,proto3" json:"payouts"`
	Leftover     *Payout    `protobuf:"bytes,2,opt,name=leftover,proto3" json:"leftover"`
	MatchedTotal *coin.Coin `protobuf:"bytes,3,opt,name=matched_total,json=matchedTotal,proto3" json:"matched_total"`
}

func (m *PayoutPlan) Reset()         { *m = PayoutPlan{} }
func (m *PayoutPlan) String() string { return proto.CompactTextString(m) }
func (*PayoutPlan) ProtoMessage()    {}

// RoundState is the mutable state of the round.
type RoundState struct {
	Phase Phase       `protobuf:"varint,1,opt,name=phase,proto3,casttype=Phase" json:"phase"`
	Plan  *PayoutPlan `protobuf:"bytes,2,opt,name=plan,proto3" json:"plan,omitempty"`
	// DistributedAt is the block height of the distribution.
	DistributedAt int64 `protobuf:"varint,3,opt,name=distributed_at,json=distributedAt,proto3" json:"distributed_at,omitempty"`
	// Swept is what remained on the round account after the plan was paid
	// and was sent to the leftover address.
	Swept *coin.Coin `protobuf:"bytes,4,opt,name=swept,proto3" json:"swept,omitempty"`
}

func (m *RoundState) Reset()         { *m = RoundState{} }
func (m *RoundState) String() string { return proto.CompactTextString(m) }
func (*RoundState) ProtoMessage()    {}
