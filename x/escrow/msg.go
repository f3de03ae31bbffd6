package escrow

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

var (
	_ custody.Msg = (*MakeMsg)(nil)
	_ custody.Msg = (*TakeMsg)(nil)
	_ custody.Msg = (*RefundMsg)(nil)
)

const (
	pathMake   = "escrow/make"
	pathTake   = "escrow/take"
	pathRefund = "escrow/refund"
)

// MakeMsg opens an offer: Deposit of MintA is locked until someone pays
// Receive of MintB.
type MakeMsg struct {
	Maker   custody.Address
	MintA   custody.Address
	MintB   custody.Address
	Seed    uint64
	Deposit uint64
	Receive uint64
}

func (MakeMsg) Path() string { return pathMake }

func (m *MakeMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Maker", m.Maker.Validate())
	errs = errors.AppendField(errs, "MintA", m.MintA.Validate())
	errs = errors.AppendField(errs, "MintB", m.MintB.Validate())
	if m.Deposit == 0 {
		errs = errors.Append(errs, errors.Field("Deposit", errors.ErrAmount, "must be positive"))
	}
	if m.Receive == 0 {
		errs = errors.Append(errs, errors.Field("Receive", errors.ErrAmount, "must be positive"))
	}
	return errs
}

// TakeMsg completes an offer.
type TakeMsg struct {
	Taker  custody.Address
	Maker  custody.Address
	Escrow custody.Address
	MintA  custody.Address
	MintB  custody.Address
}

func (TakeMsg) Path() string { return pathTake }

func (m *TakeMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Taker", m.Taker.Validate())
	errs = errors.AppendField(errs, "Maker", m.Maker.Validate())
	errs = errors.AppendField(errs, "Escrow", m.Escrow.Validate())
	errs = errors.AppendField(errs, "MintA", m.MintA.Validate())
	errs = errors.AppendField(errs, "MintB", m.MintB.Validate())
	return errs
}

// RefundMsg cancels an offer and returns the deposit to the maker.
type RefundMsg struct {
	Maker  custody.Address
	Escrow custody.Address
	MintA  custody.Address
}

func (RefundMsg) Path() string { return pathRefund }

func (m *RefundMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Maker", m.Maker.Validate())
	errs = errors.AppendField(errs, "Escrow", m.Escrow.Validate())
	errs = errors.AppendField(errs, "MintA", m.MintA.Validate())
	return errs
}
