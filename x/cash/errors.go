package cash

import "github.com/iov-one/qfund/errors"

// ErrEmptyAccount is returned when the source wallet of a transfer does
// not exist.
var ErrEmptyAccount = errors.Register(130, "empty account")
