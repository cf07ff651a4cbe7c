package sigs

import "github.com/iov-one/qfund/errors"

// ErrInvalidSequence is returned when the signature nonce does not match
// the expected value.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
