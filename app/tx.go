package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/qfund"
	"github.com/iov-one/qfund/coin"
	"github.com/iov-one/qfund/errors"
	"github.com/iov-one/qfund/x"
	"github.com/iov-one/qfund/x/cash"
	"github.com/iov-one/qfund/x/qf"
	"github.com/iov-one/qfund/x/sigs"
)

// Tx is the transaction envelope accepted by the application. Exactly one
// of the message fields must be set.
type Tx struct {
	Signatures []*sigs.StdSignature `protobuf:"bytes,1,rep,name=signatures,proto3" json:"signatures,omitempty"`
	// Funds are moved from the main signer by handlers that expect a
	// payment, eg. a vote or the round budget.
	Funds *coin.Coin `protobuf:"bytes,2,opt,name=funds,proto3" json:"funds,omitempty"`

	SendMsg                *cash.SendMsg              `protobuf:"bytes,10,opt,name=send_msg,json=sendMsg,proto3" json:"send_msg,omitempty"`
	InstantiateMsg         *qf.InstantiateMsg         `protobuf:"bytes,20,opt,name=instantiate_msg,json=instantiateMsg,proto3" json:"instantiate_msg,omitempty"`
	CreateProposalMsg      *qf.CreateProposalMsg      `protobuf:"bytes,21,opt,name=create_proposal_msg,json=createProposalMsg,proto3" json:"create_proposal_msg,omitempty"`
	VoteProposalMsg        *qf.VoteProposalMsg        `protobuf:"bytes,22,opt,name=vote_proposal_msg,json=voteProposalMsg,proto3" json:"vote_proposal_msg,omitempty"`
	AdvancePhaseMsg        *qf.AdvancePhaseMsg        `protobuf:"bytes,23,opt,name=advance_phase_msg,json=advancePhaseMsg,proto3" json:"advance_phase_msg,omitempty"`
	TriggerDistributionMsg *qf.TriggerDistributionMsg `protobuf:"bytes,24,opt,name=trigger_distribution_msg,json=triggerDistributionMsg,proto3" json:"trigger_distribution_msg,omitempty"`
}

func (m *Tx) Reset()         { *m = Tx{} }
func (m *Tx) String() string { return proto.CompactTextString(m) }
func (*Tx) ProtoMessage()    {}

var _ sigs.SignedTx = (*Tx)(nil)
var _ x.FundedTx = (*Tx)(nil)

// GetMsg returns the single message carried by this transaction.
func (tx *Tx) GetMsg() (qfund.Msg, error) {
	var msgs []qfund.Msg
	if tx.SendMsg != nil {
		msgs = append(msgs, tx.SendMsg)
	}
	if tx.InstantiateMsg != nil {
		msgs = append(msgs, tx.InstantiateMsg)
	}
	if tx.CreateProposalMsg != nil {
		msgs = append(msgs, tx.CreateProposalMsg)
	}
	if tx.VoteProposalMsg != nil {
		msgs = append(msgs, tx.VoteProposalMsg)
	}
	if tx.AdvancePhaseMsg != nil {
		msgs = append(msgs, tx.AdvancePhaseMsg)
	}
	if tx.TriggerDistributionMsg != nil {
		msgs = append(msgs, tx.TriggerDistributionMsg)
	}

	switch len(msgs) {
	case 0:
		return nil, errors.Wrap(errors.ErrMsg, "transaction without a message")
	case 1:
		return msgs[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrMsg, "transaction with %d messages", len(msgs))
	}
}

// SetMsg places the message in the matching field of the envelope.
func (tx *Tx) SetMsg(msg qfund.Msg) error {
	switch m := msg.(type) {
	case *cash.SendMsg:
		tx.SendMsg = m
	case *qf.InstantiateMsg:
		tx.InstantiateMsg = m
	case *qf.CreateProposalMsg:
		tx.CreateProposalMsg = m
	case *qf.VoteProposalMsg:
		tx.VoteProposalMsg = m
	case *qf.AdvancePhaseMsg:
		tx.AdvancePhaseMsg = m
	case *qf.TriggerDistributionMsg:
		tx.TriggerDistributionMsg = m
	default:
		return errors.Wrapf(errors.ErrType, "unsupported message %T", msg)
	}
	return nil
}

// GetFunds implements x.FundedTx.
func (tx *Tx) GetFunds() *coin.Coin {
	return tx.Funds
}

// GetSignatures implements sigs.SignedTx.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the serialized transaction without the signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	cp := *tx
	cp.Signatures = nil
	raw, err := proto.Marshal(&cp)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot marshal: %s", err)
	}
	return raw, nil
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (qfund.Tx, error) {
	var tx Tx
	if err := proto.Unmarshal(bz, &tx); err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot unmarshal transaction: %s", err)
	}
	return &tx, nil
}

// ResultSet is the serialized form of query results. The Key and Value of
// a query response each hold one ResultSet of the same length.
type ResultSet struct {
	Results [][]byte `protobuf:"bytes,1,rep,name=results,proto3" json:"results,omitempty"`
}

func (m *ResultSet) Reset()         { *m = ResultSet{} }
func (m *ResultSet) String() string { return proto.CompactTextString(m) }
func (*ResultSet) ProtoMessage()    {}
