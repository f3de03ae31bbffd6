package app

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/escrow"
	"github.com/iov-one/custody/x/token"
	"github.com/iov-one/custody/x/vault"
)

// Dispatcher routes a transaction to the handler of its instruction. The
// set of instructions is closed, so routing is a single type switch.
type Dispatcher struct {
	escrowMake    escrow.MakeHandler
	escrowTake    escrow.TakeHandler
	escrowRefund  escrow.RefundHandler
	vaultDeposit  vault.DepositHandler
	vaultWithdraw vault.WithdrawHandler
}

var _ custody.Handler = Dispatcher{}

// NewDispatcher builds the handlers of all five instructions.
func NewDispatcher(auth custody.Authenticator, cashCtrl cash.Controller, tokenCtrl token.Controller) Dispatcher {
	return Dispatcher{
		escrowMake:    escrow.NewMakeHandler(auth, cashCtrl, tokenCtrl),
		escrowTake:    escrow.NewTakeHandler(auth, cashCtrl, tokenCtrl),
		escrowRefund:  escrow.NewRefundHandler(auth, cashCtrl, tokenCtrl),
		vaultDeposit:  vault.NewDepositHandler(auth, cashCtrl),
		vaultWithdraw: vault.NewWithdrawHandler(auth, cashCtrl),
	}
}

// Check dispatches to the Check of the instruction handler.
func (d Dispatcher) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	h, err := d.handler(tx)
	if err != nil {
		return nil, err
	}
	return h.Check(ctx, db, tx)
}

// Deliver dispatches to the Deliver of the instruction handler.
func (d Dispatcher) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	h, err := d.handler(tx)
	if err != nil {
		return nil, err
	}
	return h.Deliver(ctx, db, tx)
}

func (d Dispatcher) handler(tx custody.Tx) (custody.Handler, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot get message")
	}
	switch msg.(type) {
	case *escrow.MakeMsg:
		return d.escrowMake, nil
	case *escrow.TakeMsg:
		return d.escrowTake, nil
	case *escrow.RefundMsg:
		return d.escrowRefund, nil
	case *vault.DepositMsg:
		return d.vaultDeposit, nil
	case *vault.WithdrawMsg:
		return d.vaultWithdraw, nil
	default:
		return nil, errors.Wrapf(errors.ErrType, "no handler for %T", msg)
	}
}
