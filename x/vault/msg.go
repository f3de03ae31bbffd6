package vault

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

var _ custody.Msg = (*DepositMsg)(nil)
var _ custody.Msg = (*WithdrawMsg)(nil)

// DepositMsg funds the vault of the owner.
type DepositMsg struct {
	Owner  custody.Address
	Amount uint64
}

func (DepositMsg) Path() string { return "vault/deposit" }

func (m *DepositMsg) Validate() error {
	// Amount is checked by the handler against the minimum balance, after
	// the vault state.
	return errors.AppendField(nil, "Owner", m.Owner.Validate())
}

// WithdrawMsg drains the vault of the owner.
type WithdrawMsg struct {
	Owner custody.Address
}

func (WithdrawMsg) Path() string { return "vault/withdraw" }

func (m *WithdrawMsg) Validate() error {
	return errors.AppendField(nil, "Owner", m.Owner.Validate())
}
