package qf

import "github.com/iov-one/qfund/errors"

var (
	// ErrWrongPhase is returned when an action is not allowed in the
	// current phase of the round.
	ErrWrongPhase = errors.Register(1100, "wrong phase")

	// ErrAlreadyDistributed is returned when the distribution is
	// triggered for a round that was already distributed.
	ErrAlreadyDistributed = errors.Register(1101, "already distributed")
)
