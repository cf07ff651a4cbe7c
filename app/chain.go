package app

import (
	"reflect"

	"github.com/iov-one/qfund"
)

// Decorators holds a chain of decorators, not yet resolved by a Handler
type Decorators struct {
	chain []qfund.Decorator
}

/*
ChainDecorators takes a chain of decorators,
and upon adding a final Handler (often a Router),
returns a Handler that will execute this whole stack.

  app.ChainDecorators(
    utils.NewLogging(),
    utils.NewRecovery(),
    sigs.NewDecorator(),
    utils.NewSavepoint().OnDeliver(),
  ).WithHandler(
    app.NewRouter(),
  )
*/
func ChainDecorators(chain ...qfund.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain allows us to keep adding more Decorators to the chain
func (d Decorators) Chain(chain ...qfund.Decorator) Decorators {
	chain = cutoffNil(chain)
	next := make([]qfund.Decorator, 0, len(d.chain)+len(chain))
	next = append(next, d.chain...)
	next = append(next, chain...)
	return Decorators{chain: next}
}

// cutoffNil removes all nil values from given slice, in place.
func cutoffNil(ds []qfund.Decorator) []qfund.Decorator {
	var cutoff int
	for i := 0; i < len(ds); i++ {
		ds[i-cutoff] = ds[i]
		if ds[i] == nil || (reflect.ValueOf(ds[i]).Kind() == reflect.Ptr && reflect.ValueOf(ds[i]).IsNil()) {
			cutoff++
		}
	}
	return ds[:len(ds)-cutoff]
}

// WithHandler resolves the stack and returns a concrete Handler
// that will pass through the chain of decorators before calling
// the final Handler.
func (d Decorators) WithHandler(h qfund.Handler) qfund.Handler {
	// the top of the chain is executed first
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step captures one step executing a decorator around a
// specific Handler.
type step struct {
	d    qfund.Decorator
	next qfund.Handler
}

var _ qfund.Handler = step{}

// Check passes the handler into the decorator, implements Handler
func (s step) Check(ctx qfund.Context, store qfund.KVStore, tx qfund.Tx) (*qfund.CheckResult, error) {
	return s.d.Check(ctx, store, tx, s.next)
}

// Deliver passes the handler into the decorator, implements Handler
func (s step) Deliver(ctx qfund.Context, store qfund.KVStore, tx qfund.Tx) (*qfund.DeliverResult, error) {
	return s.d.Deliver(ctx, store, tx, s.next)
}
