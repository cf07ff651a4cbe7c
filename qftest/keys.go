package qftest

import (
	"crypto/rand"

	"github.com/iov-one/qfund"
	"golang.org/x/crypto/ed25519"
)

// NewKey returns a freshly generated ed25519 key pair.
func NewKey() (ed25519.PublicKey, ed25519.PrivateKey) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		panic(err)
	}
	return pub, priv
}

// NewCondition returns a signature condition of a freshly generated key.
func NewCondition() qfund.Condition {
	pub, _ := NewKey()
	return qfund.NewCondition("sigs", "ed25519", pub)
}
