package qf

import (
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/qfund"
	"github.com/iov-one/qfund/qftest"
	"github.com/iov-one/qfund/qftest/assert"
)

func TestQueries(t *testing.T) {
	qr := qfund.NewQueryRouter()
	RegisterQuery(qr)

	rt := newRoundTest(t)

	// Nothing to report before the round exists.
	res, err := qr.Handler("/round").Query(rt.db, qfund.KeyQueryMod, nil)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(res))

	rt.instantiate(rt.instantiateMsg(), 500)
	creator := qftest.NewCondition()
	idA, _ := rt.createProposal(creator, "A")
	idB, _ := rt.createProposal(creator, "B")
	rt.height = 10
	assert.Nil(t, rt.vote(rt.voter(20), idB, 20))

	res, err = qr.Handler("/round").Query(rt.db, qfund.KeyQueryMod, nil)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(res))
	var conf Config
	assert.Nil(t, proto.Unmarshal(res[0].Value, &conf))
	assert.Equal(t, rt.admin.Address(), conf.Admin)
	var state RoundState
	assert.Nil(t, proto.Unmarshal(res[1].Value, &state))
	assert.Equal(t, VotingPeriod, state.Phase)

	res, err = qr.Handler("/proposals").Query(rt.db, qfund.KeyQueryMod, qftest.SequenceID(idB))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	var p Proposal
	assert.Nil(t, proto.Unmarshal(res[0].Value, &p))
	assert.Equal(t, "B", p.Title)
	assert.Equal(t, uint64(20), p.CollectedFunds.Amount)

	res, err = qr.Handler("/proposals").Query(rt.db, qfund.PrefixQueryMod, nil)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(res))
	assert.Equal(t, qftest.SequenceID(idA), res[0].Key)
	assert.Equal(t, qftest.SequenceID(idB), res[1].Key)

	res, err = qr.Handler("/votes/proposal").Query(rt.db, qfund.KeyQueryMod, qftest.SequenceID(idB))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	res, err = qr.Handler("/votes/proposal").Query(rt.db, qfund.KeyQueryMod, qftest.SequenceID(idA))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(res))
}
