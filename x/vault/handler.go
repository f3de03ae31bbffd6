package vault

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/cash"
)

// ProgramID derives the vault addresses.
var ProgramID = custody.MustParseAddress("33333333333333333333333333333333333333333333")

var program = custody.RegisterProgram(ProgramID)

var vaultSeed = []byte("vault")

// Address returns the vault address of owner and the bump that derives it.
func Address(owner custody.Address) (custody.Address, uint8, error) {
	return program.Derive(vaultSeed, owner)
}

// DepositHandler funds an empty vault.
type DepositHandler struct {
	auth custody.Authenticator
	cash cash.Controller
}

var _ custody.Handler = DepositHandler{}

// NewDepositHandler returns a handler for DepositMsg.
func NewDepositHandler(auth custody.Authenticator, cashCtrl cash.Controller) DepositHandler {
	return DepositHandler{auth: auth, cash: cashCtrl}
}

func (h DepositHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h DepositHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, owner, vault, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.cash.Transfer(db, owner, vault, msg.Amount); err != nil {
		return nil, err
	}
	custody.GetLogger(ctx).Info("vault deposit", "owner", msg.Owner, "vault", vault, "amount", msg.Amount)
	return &custody.DeliverResult{Data: vault}, nil
}

func (h DepositHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*DepositMsg, custody.Authority, custody.Address, error) {
	var msg DepositMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	owner, err := custody.Signer(ctx, h.auth, msg.Owner)
	if err != nil {
		return nil, nil, nil, err
	}
	vault, _, err := Address(msg.Owner)
	if err != nil {
		return nil, nil, nil, err
	}
	balance, err := h.cash.Balance(db, vault)
	if err != nil {
		return nil, nil, nil, err
	}
	if balance != 0 {
		return nil, nil, nil, errors.Wrapf(ErrVaultAlreadyExists, "vault holds %d", balance)
	}
	min, err := h.cash.MinimumBalance(db, 0)
	if err != nil {
		return nil, nil, nil, err
	}
	if msg.Amount <= min {
		return nil, nil, nil, errors.Wrapf(errors.ErrAmount, "deposit must exceed %d", min)
	}
	return &msg, owner, vault, nil
}

// WithdrawHandler drains a vault back to its owner.
type WithdrawHandler struct {
	auth custody.Authenticator
	cash cash.Controller
}

var _ custody.Handler = WithdrawHandler{}

// NewWithdrawHandler returns a handler for WithdrawMsg.
func NewWithdrawHandler(auth custody.Authenticator, cashCtrl cash.Controller) WithdrawHandler {
	return WithdrawHandler{auth: auth, cash: cashCtrl}
}

func (h WithdrawHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h WithdrawHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, vault, balance, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.cash.Transfer(db, vault, msg.Owner, balance); err != nil {
		return nil, err
	}
	custody.GetLogger(ctx).Info("vault withdraw", "owner", msg.Owner, "vault", vault.Address(), "amount", balance)
	return &custody.DeliverResult{Data: vault.Address()}, nil
}

func (h WithdrawHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*WithdrawMsg, custody.Authority, uint64, error) {
	var msg WithdrawMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, 0, errors.Wrap(err, "load msg")
	}
	if _, err := custody.Signer(ctx, h.auth, msg.Owner); err != nil {
		return nil, nil, 0, err
	}
	addr, bump, err := Address(msg.Owner)
	if err != nil {
		return nil, nil, 0, err
	}
	vault, err := program.Authorize(bump, vaultSeed, msg.Owner)
	if err != nil {
		return nil, nil, 0, err
	}
	balance, err := h.cash.Balance(db, addr)
	if err != nil {
		return nil, nil, 0, err
	}
	if balance == 0 {
		return nil, nil, 0, errors.Wrap(errors.ErrAmount, "vault is empty")
	}
	return &msg, vault, balance, nil
}
