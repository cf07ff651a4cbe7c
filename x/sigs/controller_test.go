package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/qfund"
	"github.com/iov-one/qfund/errors"
	"github.com/iov-one/qfund/qftest"
	"github.com/iov-one/qfund/qftest/assert"
	"github.com/iov-one/qfund/store"
)

const testChainID = "qfund-test"

// signedTx is a transaction carrying a raw payload as the signed content.
type signedTx struct {
	qftest.Tx
	Payload []byte
	Sigs    []*StdSignature
}

func (tx *signedTx) GetSignBytes() ([]byte, error) { return tx.Payload, nil }
func (tx *signedTx) GetSignatures() []*StdSignature { return tx.Sigs }

func TestVerifySignatures(t *testing.T) {
	db := store.MemStore()
	pub, priv := qftest.NewKey()
	_, otherPriv := qftest.NewKey()

	tx := &signedTx{Payload: []byte("vote for proposal 1")}

	sig0, err := SignTx(priv, tx, testChainID, 0)
	assert.Nil(t, err)
	sig1, err := SignTx(priv, tx, testChainID, 1)
	assert.Nil(t, err)

	// no signatures means no signers
	signers, err := VerifyTxSignatures(db, tx, testChainID)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(signers))

	// a signature with a future sequence is rejected
	tx.Sigs = []*StdSignature{sig1}
	_, err = VerifyTxSignatures(db, tx, testChainID)
	assert.IsErr(t, ErrInvalidSequence, err)

	tx.Sigs = []*StdSignature{sig0}
	signers, err = VerifyTxSignatures(db, tx, testChainID)
	assert.Nil(t, err)
	assert.Equal(t, []qfund.Condition{PubKeyCondition(pub)}, signers)

	// replay is rejected
	_, err = VerifyTxSignatures(db, tx, testChainID)
	assert.IsErr(t, ErrInvalidSequence, err)

	nonce, err := NextNonce(db, pub)
	assert.Nil(t, err)
	assert.Equal(t, int64(1), nonce)

	// a signature for another chain is rejected
	other, err := SignTx(priv, tx, "another-chain", 1)
	assert.Nil(t, err)
	tx.Sigs = []*StdSignature{other}
	_, err = VerifyTxSignatures(db, tx, testChainID)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// a signature of another key cannot be claimed
	forged, err := SignTx(otherPriv, tx, testChainID, 1)
	assert.Nil(t, err)
	forged.Pubkey = pub
	tx.Sigs = []*StdSignature{forged}
	_, err = VerifyTxSignatures(db, tx, testChainID)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	tx.Sigs = []*StdSignature{sig1}
	signers, err = VerifyTxSignatures(db, tx, testChainID)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(signers))
}

func TestBuildSignBytes(t *testing.T) {
	_, err := BuildSignBytes([]byte("x"), testChainID, -1)
	assert.IsErr(t, ErrInvalidSequence, err)
	_, err = BuildSignBytes([]byte("x"), "bad", 1)
	assert.IsErr(t, errors.ErrInput, err)

	a, err := BuildSignBytes([]byte("x"), testChainID, 1)
	assert.Nil(t, err)
	b, err := BuildSignBytes([]byte("x"), testChainID, 2)
	assert.Nil(t, err)
	if string(a) == string(b) {
		t.Fatal("nonce must change the sign bytes")
	}
}

func TestDecorator(t *testing.T) {
	db := store.MemStore()
	pub, priv := qftest.NewKey()
	ctx := qfund.WithChainID(context.Background(), testChainID)

	tx := &signedTx{Payload: []byte("create proposal")}
	sig, err := SignTx(priv, tx, testChainID, 0)
	assert.Nil(t, err)

	var h signerHandler

	// unsigned transactions are rejected
	_, err = NewDecorator().Deliver(ctx, db, tx, &h)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// unless explicitly allowed
	_, err = NewDecorator().AllowMissingSigs().Deliver(ctx, db, tx, &h)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(h.signers))

	tx.Sigs = []*StdSignature{sig}
	_, err = NewDecorator().Check(ctx, db, tx, &h)
	assert.Nil(t, err)
	assert.Equal(t, []qfund.Condition{PubKeyCondition(pub)}, h.signers)

	// the check above consumed the nonce
	_, err = NewDecorator().Deliver(ctx, db, tx, &h)
	assert.IsErr(t, ErrInvalidSequence, err)

	// transactions without signature support are rejected
	_, err = NewDecorator().Deliver(ctx, db, &qftest.Tx{}, &h)
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

// signerHandler records the signers found in the context.
type signerHandler struct {
	signers []qfund.Condition
}

func (h *signerHandler) Check(ctx qfund.Context, db qfund.KVStore, tx qfund.Tx) (*qfund.CheckResult, error) {
	h.signers = Authenticate{}.GetConditions(ctx)
	return &qfund.CheckResult{}, nil
}

func (h *signerHandler) Deliver(ctx qfund.Context, db qfund.KVStore, tx qfund.Tx) (*qfund.DeliverResult, error) {
	h.signers = Authenticate{}.GetConditions(ctx)
	return &qfund.DeliverResult{}, nil
}

func TestUserDataValidate(t *testing.T) {
	assert.Nil(t, (&UserData{}).Validate())
	assert.IsErr(t, ErrInvalidSequence, (&UserData{Sequence: -1}).Validate())
	assert.IsErr(t, ErrInvalidSequence, (&UserData{Sequence: 1}).Validate())

	u := UserData{Pubkey: []byte("key"), Sequence: 3}
	assert.IsErr(t, ErrInvalidSequence, u.CheckAndIncrementSequence(2))
	assert.Nil(t, u.CheckAndIncrementSequence(3))
	assert.Equal(t, int64(4), u.Sequence)
}
