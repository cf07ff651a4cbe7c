package qftest

import (
	"fmt"

	"github.com/iov-one/qfund"
	"github.com/iov-one/qfund/coin"
)

// Tx represents a transaction carrying a single message that is to be
// processed, together with optional attached funds.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg qfund.Msg
	// Funds is returned by GetFunds.
	Funds *coin.Coin
	// Err if set is returned by GetMsg.
	Err error
}

var _ qfund.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (qfund.Msg, error) {
	return tx.Msg, tx.Err
}

// GetFunds returns the coin attached to this transaction.
func (tx *Tx) GetFunds() *coin.Coin {
	return tx.Funds
}

func (tx *Tx) Reset()         { *tx = Tx{} }
func (tx *Tx) String() string { return fmt.Sprintf("Tx{%v}", tx.Msg) }
func (tx *Tx) ProtoMessage()  {}

// Msg represents a message routed by its path. It is always valid unless
// Err is set.
type Msg struct {
	// RoutePath returned by the path method, consumed by the router.
	RoutePath string
	// Err if set is returned by Validate.
	Err error
}

var _ qfund.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}

func (m *Msg) Reset()         { *m = Msg{} }
func (m *Msg) String() string { return fmt.Sprintf("Msg{%s}", m.RoutePath) }
func (m *Msg) ProtoMessage()  {}
