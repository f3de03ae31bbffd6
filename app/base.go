package app

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp is a StoreApp that also runs transactions. Raw transaction bytes
// are turned into a custody.Tx by the decoder and passed to the handler
// with the block context.
type BaseApp struct {
	*StoreApp
	decoder custody.TxDecoder
	handler custody.Handler
	// debug exposes full error details, stack traces included, in
	// ABCI responses.
	debug bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp wraps store with a transaction decoder and handler.
func NewBaseApp(store *StoreApp, decoder custody.TxDecoder, handler custody.Handler, debug bool) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

// DeliverTx runs the transaction against the block state.
func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	ctx, tx, err := b.prepare("deliver_tx", txBytes)
	if err != nil {
		return custody.DeliverTxError(err, b.debug)
	}
	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return custody.DeliverOrError(res, err, b.debug)
}

// CheckTx runs the transaction against the mempool state.
func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	ctx, tx, err := b.prepare("check_tx", txBytes)
	if err != nil {
		return custody.CheckTxError(err, b.debug)
	}
	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return custody.CheckOrError(res, err, b.debug)
}

// prepare decodes the transaction and returns the context to run it in.
func (b BaseApp) prepare(call string, txBytes []byte) (custody.Context, custody.Tx, error) {
	ctx := custody.WithLogInfo(b.BlockContext(), "call", call)
	tx, err := b.decode(txBytes)
	if err != nil {
		custody.GetLogger(ctx).Debug("Cannot decode transaction", "size", len(txBytes), "err", err)
		return nil, nil, err
	}
	return custody.WithLogInfo(ctx, "path", custody.GetPath(tx)), tx, nil
}

// decode recovers from a panicking decoder.
func (b BaseApp) decode(txBytes []byte) (tx custody.Tx, err error) {
	defer errors.Recover(&err)
	return b.decoder(txBytes)
}
