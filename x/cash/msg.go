package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/qfund"
	"github.com/iov-one/qfund/coin"
	"github.com/iov-one/qfund/errors"
)

const maxMemoSize int = 128

// SendMsg moves funds from the source wallet to the destination.
type SendMsg struct {
	Source      qfund.Address `protobuf:"bytes,1,opt,name=source,proto3,casttype=github.com/iov-one/qfund.Address" json:"source,omitempty"`
	Destination qfund.Address `protobuf:"bytes,2,opt,name=destination,proto3,casttype=github.com/iov-one/qfund.Address" json:"destination,omitempty"`
	Amount      *coin.Coin    `protobuf:"bytes,3,opt,name=amount,proto3" json:"amount,omitempty"`
	Memo        string        `protobuf:"bytes,4,opt,name=memo,proto3" json:"memo,omitempty"`
}

func (m *SendMsg) Reset()         { *m = SendMsg{} }
func (m *SendMsg) String() string { return proto.CompactTextString(m) }
func (*SendMsg) ProtoMessage()    {}

var _ qfund.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible
func (s *SendMsg) Validate() error {
	if coin.IsEmpty(s.Amount) {
		return errors.Field("Amount", errors.ErrAmount, "must be positive")
	}
	if err := s.Amount.Validate(); err != nil {
		return errors.Field("Amount", err, "invalid amount")
	}
	if err := s.Source.Validate(); err != nil {
		return errors.Field("Source", err, "invalid source")
	}
	if err := s.Destination.Validate(); err != nil {
		return errors.Field("Destination", err, "invalid destination")
	}
	if len(s.Memo) > maxMemoSize {
		return errors.Field("Memo", errors.ErrInput, "memo too long")
	}
	return nil
}
