package utils

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// Recovery stops a panic raised further down the stack from crashing the
// node. The panic becomes an ErrPanic result for the transaction and is
// logged with the operation path.
type Recovery struct{}

var _ custody.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Checker) (_ *custody.CheckResult, err error) {
	defer recoverTx(ctx, tx, "check", &err)
	return next.Check(ctx, store, tx)
}

func (Recovery) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Deliverer) (_ *custody.DeliverResult, err error) {
	defer recoverTx(ctx, tx, "deliver", &err)
	return next.Deliver(ctx, store, tx)
}

// recoverTx must be deferred directly for recover to see the panic.
func recoverTx(ctx custody.Context, tx custody.Tx, phase string, err *error) {
	r := recover()
	if r == nil {
		return
	}
	*err = errors.Wrapf(errors.ErrPanic, "%v", r)
	custody.GetLogger(ctx).Error("Transaction panicked",
		"phase", phase,
		"path", custody.GetPath(tx),
		"panic", r)
}
