package qftest

import "github.com/iov-one/qfund"

// Handler is a mock implementation of the qfund.Handler interface. It
// returns the configured results and counts the calls.
type Handler struct {
	checkCall   int
	CheckResult qfund.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult qfund.DeliverResult
	DeliverErr    error
}

var _ qfund.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx qfund.Context, db qfund.KVStore, tx qfund.Tx) (*qfund.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx qfund.Context, db qfund.KVStore, tx qfund.Tx) (*qfund.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

// Decorator is a mock implementation of the qfund.Decorator interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding
// method. If error attributes are not set then wrapped handler method is
// called and its result returned.
type Decorator struct {
	checkCall int
	CheckErr  error

	deliverCall int
	DeliverErr  error
}

var _ qfund.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx qfund.Context, db qfund.KVStore, tx qfund.Tx, next qfund.Checker) (*qfund.CheckResult, error) {
	d.checkCall++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx qfund.Context, db qfund.KVStore, tx qfund.Tx, next qfund.Deliverer) (*qfund.DeliverResult, error) {
	d.deliverCall++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int {
	return d.checkCall
}

func (d *Decorator) DeliverCallCount() int {
	return d.deliverCall
}

// Decorate wraps the handler with one decorator and returns it as a single
// handler.
func Decorate(h qfund.Handler, d qfund.Decorator) qfund.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn qfund.Handler
	dc qfund.Decorator
}

func (d *decoratedHandler) Check(ctx qfund.Context, db qfund.KVStore, tx qfund.Tx) (*qfund.CheckResult, error) {
	return d.dc.Check(ctx, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx qfund.Context, db qfund.KVStore, tx qfund.Tx) (*qfund.DeliverResult, error) {
	return d.dc.Deliver(ctx, db, tx, d.hn)
}
