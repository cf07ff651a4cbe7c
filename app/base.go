package app

import (
	"github.com/iov-one/qfund"
	"github.com/iov-one/qfund/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp adds DeliverTx and CheckTx handlers to the storage and query
// functionality of StoreApp
type BaseApp struct {
	*StoreApp
	decoder qfund.TxDecoder
	handler qfund.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp constructs a basic abci application
func NewBaseApp(
	store *StoreApp,
	decoder qfund.TxDecoder,
	handler qfund.Handler,
	debug bool,
) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

// DeliverTx - ABCI - dispatches to the handler
func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return qfund.DeliverTxError(err, b.debug)
	}

	ctx := qfund.WithLogInfo(b.BlockContext(),
		"call", "deliver_tx",
		"path", qfund.GetPath(tx))

	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return qfund.DeliverOrError(res, err, b.debug)
}

// CheckTx - ABCI - dispatches to the handler
func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return qfund.CheckTxError(err, b.debug)
	}

	ctx := qfund.WithLogInfo(b.BlockContext(),
		"call", "check_tx",
		"path", qfund.GetPath(tx))

	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return qfund.CheckOrError(res, err, b.debug)
}

// loadTx calls the decoder, and capture any panics
func (b BaseApp) loadTx(txBytes []byte) (tx qfund.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = b.decoder(txBytes)
	return
}
