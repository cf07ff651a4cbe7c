package qftest

import (
	"encoding/binary"
	"testing"

	"github.com/iov-one/qfund"
)

// SequenceID returns an ID encoded as a sequence value of given number.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

// ParseAddress takes an address in a human readable format and returns its
// binary representation.
func ParseAddress(t testing.TB, encodedAddress string) qfund.Address {
	t.Helper()

	addr, err := qfund.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
