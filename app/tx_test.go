package app

import (
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/qfund"
	"github.com/iov-one/qfund/coin"
	"github.com/iov-one/qfund/errors"
	"github.com/iov-one/qfund/qftest"
	"github.com/iov-one/qfund/x/cash"
	"github.com/iov-one/qfund/x/qf"
	"github.com/iov-one/qfund/x/sigs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxGetMsg(t *testing.T) {
	cases := map[string]struct {
		tx       Tx
		wantPath string
		wantErr  *errors.Error
	}{
		"vote": {
			tx:       Tx{VoteProposalMsg: &qf.VoteProposalMsg{ProposalID: 3}},
			wantPath: "qf/vote_proposal",
		},
		"empty advance message is still a message": {
			tx:       Tx{AdvancePhaseMsg: &qf.AdvancePhaseMsg{}},
			wantPath: "qf/advance_phase",
		},
		"send": {
			tx:       Tx{SendMsg: &cash.SendMsg{}},
			wantPath: "cash/send",
		},
		"no message": {
			tx:      Tx{Funds: coin.NewCoinp(10, "ujunox")},
			wantErr: errors.ErrMsg,
		},
		"two messages": {
			tx: Tx{
				TriggerDistributionMsg: &qf.TriggerDistributionMsg{},
				AdvancePhaseMsg:        &qf.AdvancePhaseMsg{},
			},
			wantErr: errors.ErrMsg,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			msg, err := tc.tx.GetMsg()
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantPath, msg.Path())
		})
	}
}

func TestTxSetMsg(t *testing.T) {
	var tx Tx
	require.NoError(t, tx.SetMsg(&qf.CreateProposalMsg{Title: "community garden"}))
	msg, err := tx.GetMsg()
	require.NoError(t, err)
	assert.Equal(t, "qf/create_proposal", msg.Path())

	err = tx.SetMsg(&qftest.Msg{RoutePath: "qf/unknown"})
	assert.True(t, errors.ErrType.Is(err))
}

func TestTxSignBytesIgnoreSignatures(t *testing.T) {
	_, priv := qftest.NewKey()
	tx := &Tx{
		Funds:           coin.NewCoinp(250, "ujunox"),
		VoteProposalMsg: &qf.VoteProposalMsg{ProposalID: 1},
	}
	before, err := tx.GetSignBytes()
	require.NoError(t, err)

	sig, err := sigs.SignTx(priv, tx, "qfund-test", 0)
	require.NoError(t, err)
	tx.Signatures = append(tx.Signatures, sig)

	after, err := tx.GetSignBytes()
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Len(t, tx.Signatures, 1)
}

func TestTxDecoder(t *testing.T) {
	tx := &Tx{
		Funds:           coin.NewCoinp(250, "ujunox"),
		VoteProposalMsg: &qf.VoteProposalMsg{ProposalID: 7},
	}
	raw, err := proto.Marshal(tx)
	require.NoError(t, err)

	decoded, err := TxDecoder(raw)
	require.NoError(t, err)
	assert.Equal(t, "qf/vote_proposal", qfund.GetPath(decoded))

	funded := decoded.(*Tx)
	assert.Equal(t, tx.Funds, funded.GetFunds())
	assert.Equal(t, uint64(7), funded.VoteProposalMsg.ProposalID)

	_, err = TxDecoder([]byte{0xff, 0xff, 0xff})
	assert.True(t, errors.ErrModel.Is(err))
}
