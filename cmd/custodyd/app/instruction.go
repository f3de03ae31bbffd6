package app

import (
	"encoding/binary"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/escrow"
	"github.com/iov-one/custody/x/vault"
)

// Instruction tags. The tag is the first byte of every instruction and
// selects the fixed little endian layout of the rest.
const (
	TagMake     byte = 0
	TagTake     byte = 1
	TagRefund   byte = 2
	TagDeposit  byte = 3
	TagWithdraw byte = 4
)

const (
	addrLen = custody.AddressLength
	u64Len  = 8

	makeLen     = 3*addrLen + 3*u64Len
	takeLen     = 5 * addrLen
	refundLen   = 3 * addrLen
	depositLen  = addrLen + u64Len
	withdrawLen = addrLen
)

// EncodeInstruction serializes one of the five ledger operations.
func EncodeInstruction(msg custody.Msg) ([]byte, error) {
	var w writer
	switch m := msg.(type) {
	case *escrow.MakeMsg:
		w.tag(TagMake, makeLen)
		w.addr(m.Maker)
		w.addr(m.MintA)
		w.addr(m.MintB)
		w.u64(m.Seed)
		w.u64(m.Deposit)
		w.u64(m.Receive)
	case *escrow.TakeMsg:
		w.tag(TagTake, takeLen)
		w.addr(m.Taker)
		w.addr(m.Maker)
		w.addr(m.Escrow)
		w.addr(m.MintA)
		w.addr(m.MintB)
	case *escrow.RefundMsg:
		w.tag(TagRefund, refundLen)
		w.addr(m.Maker)
		w.addr(m.Escrow)
		w.addr(m.MintA)
	case *vault.DepositMsg:
		w.tag(TagDeposit, depositLen)
		w.addr(m.Owner)
		w.u64(m.Amount)
	case *vault.WithdrawMsg:
		w.tag(TagWithdraw, withdrawLen)
		w.addr(m.Owner)
	default:
		return nil, errors.Wrapf(errors.ErrType, "no instruction for %T", msg)
	}
	if w.err != nil {
		return nil, w.err
	}
	return w.buf, nil
}

// DecodeInstruction is the inverse of EncodeInstruction. It does not
// validate the message content.
func DecodeInstruction(raw []byte) (custody.Msg, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(errors.ErrInput, "empty instruction")
	}
	r := reader{buf: raw[1:]}
	var msg custody.Msg
	switch raw[0] {
	case TagMake:
		r.expect(makeLen)
		msg = &escrow.MakeMsg{
			Maker:   r.addr(),
			MintA:   r.addr(),
			MintB:   r.addr(),
			Seed:    r.u64(),
			Deposit: r.u64(),
			Receive: r.u64(),
		}
	case TagTake:
		r.expect(takeLen)
		msg = &escrow.TakeMsg{
			Taker:  r.addr(),
			Maker:  r.addr(),
			Escrow: r.addr(),
			MintA:  r.addr(),
			MintB:  r.addr(),
		}
	case TagRefund:
		r.expect(refundLen)
		msg = &escrow.RefundMsg{
			Maker:  r.addr(),
			Escrow: r.addr(),
			MintA:  r.addr(),
		}
	case TagDeposit:
		r.expect(depositLen)
		msg = &vault.DepositMsg{
			Owner:  r.addr(),
			Amount: r.u64(),
		}
	case TagWithdraw:
		r.expect(withdrawLen)
		msg = &vault.WithdrawMsg{
			Owner: r.addr(),
		}
	default:
		return nil, errors.Wrapf(errors.ErrType, "unknown instruction tag %d", raw[0])
	}
	if r.err != nil {
		return nil, r.err
	}
	return msg, nil
}

type writer struct {
	buf []byte
	err error
}

func (w *writer) tag(t byte, size int) {
	w.buf = make([]byte, 1, 1+size)
	w.buf[0] = t
}

func (w *writer) addr(a custody.Address) {
	if w.err != nil {
		return
	}
	if err := a.Validate(); err != nil {
		w.err = err
		return
	}
	w.buf = append(w.buf, a...)
}

func (w *writer) u64(v uint64) {
	var b [u64Len]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

type reader struct {
	buf []byte
	err error
}

func (r *reader) expect(size int) {
	if len(r.buf) != size {
		r.err = errors.Wrapf(errors.ErrInput, "instruction body is %d bytes, want %d", len(r.buf), size)
	}
}

func (r *reader) addr() custody.Address {
	if r.err != nil {
		return nil
	}
	a := custody.Address(append([]byte(nil), r.buf[:addrLen]...))
	r.buf = r.buf[addrLen:]
	return a
}

func (r *reader) u64() uint64 {
	if r.err != nil {
		return 0
	}
	v := binary.LittleEndian.Uint64(r.buf[:u64Len])
	r.buf = r.buf[u64Len:]
	return v
}
