package utils

import (
	"github.com/iov-one/qfund"
	"github.com/iov-one/qfund/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ qfund.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (r Recovery) Check(ctx qfund.Context, store qfund.KVStore, tx qfund.Tx, next qfund.Checker) (_ *qfund.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx qfund.Context, store qfund.KVStore, tx qfund.Tx, next qfund.Deliverer) (_ *qfund.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}
