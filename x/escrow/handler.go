package escrow

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/token"
)

// MakeHandler opens an escrow.
type MakeHandler struct {
	auth   custody.Authenticator
	bucket orm.ModelBucket
	cash   cash.Controller
	token  token.Controller
}

var _ custody.Handler = MakeHandler{}

// NewMakeHandler returns a handler for MakeMsg.
func NewMakeHandler(auth custody.Authenticator, cashCtrl cash.Controller, tokenCtrl token.Controller) MakeHandler {
	return MakeHandler{auth: auth, bucket: NewBucket(), cash: cashCtrl, token: tokenCtrl}
}

// makeOp carries what is resolved from the state before Make executes.
type makeOp struct {
	msg      MakeMsg
	maker    custody.Authority
	escrow   custody.Address
	bump     uint8
	decimals uint8
}

// Check verifies the offer can be opened.
func (h MakeHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

// Deliver allocates the record and the vault and moves the deposit into
// the vault.
func (h MakeHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	op, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	msg := op.msg

	record := &Escrow{
		Seed:    msg.Seed,
		Maker:   msg.Maker,
		MintA:   msg.MintA,
		MintB:   msg.MintB,
		Receive: msg.Receive,
		Bump:    op.bump,
	}
	escrowAuth, err := authorize(record)
	if err != nil {
		return nil, err
	}
	if err := h.cash.CreateAccount(db, op.maker, escrowAuth, ProgramID, RecordSpace); err != nil {
		return nil, errors.Wrap(err, "escrow account")
	}
	vault, err := h.token.CreateAssociatedAccount(db, op.maker, op.escrow, msg.MintA)
	if err != nil {
		return nil, errors.Wrap(err, "vault")
	}
	makerAtaA, _, err := token.AssociatedAddress(msg.Maker, msg.MintA)
	if err != nil {
		return nil, err
	}
	if err := h.token.TransferChecked(db, op.maker, makerAtaA, vault, msg.MintA, msg.Deposit, op.decimals); err != nil {
		return nil, errors.Wrap(err, "deposit")
	}
	if err := h.bucket.Put(db, op.escrow, record); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}

	custody.GetLogger(ctx).Info("escrow created",
		"escrow", op.escrow,
		"maker", msg.Maker,
		"deposit", token.FormatAmount(msg.Deposit, op.decimals),
		"receive", msg.Receive)
	return &custody.DeliverResult{Data: op.escrow}, nil
}

func (h MakeHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*makeOp, error) {
	var op makeOp
	if err := custody.LoadMsg(tx, &op.msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	maker, err := custody.Signer(ctx, h.auth, op.msg.Maker)
	if err != nil {
		return nil, err
	}
	op.maker = maker

	op.escrow, op.bump, err = Address(op.msg.Maker, op.msg.Seed)
	if err != nil {
		return nil, err
	}
	switch _, err := h.cash.Account(db, op.escrow); {
	case err == nil:
		return nil, errors.Wrapf(errors.ErrDuplicate, "escrow %s already in use", op.escrow)
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}

	mintA, err := h.token.Mint(db, op.msg.MintA)
	if err != nil {
		return nil, errors.Wrap(err, "mint a")
	}
	if _, err := h.token.Mint(db, op.msg.MintB); err != nil {
		return nil, errors.Wrap(err, "mint b")
	}
	op.decimals = mintA.Decimals
	return &op, nil
}

// TakeHandler completes an escrow.
type TakeHandler struct {
	auth   custody.Authenticator
	bucket orm.ModelBucket
	cash   cash.Controller
	token  token.Controller
}

var _ custody.Handler = TakeHandler{}

// NewTakeHandler returns a handler for TakeMsg.
func NewTakeHandler(auth custody.Authenticator, cashCtrl cash.Controller, tokenCtrl token.Controller) TakeHandler {
	return TakeHandler{auth: auth, bucket: NewBucket(), cash: cashCtrl, token: tokenCtrl}
}

type takeOp struct {
	msg       TakeMsg
	taker     custody.Authority
	record    *Escrow
	escrow    custody.Authority
	takerAtaB custody.Address
	decimalsA uint8
	decimalsB uint8
}

// Check verifies the offer exists and the taker can pay for it.
func (h TakeHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

// Deliver pays the maker, releases the vault to the taker and destroys
// the escrow.
func (h TakeHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	op, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	msg, record := op.msg, op.record

	makerAtaB, err := h.token.EnsureAssociatedAccount(db, op.taker, record.Maker, record.MintB)
	if err != nil {
		return nil, errors.Wrap(err, "maker account")
	}
	if err := h.token.TransferChecked(db, op.taker, op.takerAtaB, makerAtaB, record.MintB, record.Receive, op.decimalsB); err != nil {
		return nil, errors.Wrap(err, "payment")
	}

	takerAtaA, err := h.token.EnsureAssociatedAccount(db, op.taker, msg.Taker, record.MintA)
	if err != nil {
		return nil, errors.Wrap(err, "taker account")
	}
	released, err := releaseVault(db, h.token, op.escrow, record, takerAtaA, op.decimalsA)
	if err != nil {
		return nil, err
	}
	if err := closeRecord(db, h.bucket, h.cash, msg.Escrow, record.Maker); err != nil {
		return nil, err
	}

	custody.GetLogger(ctx).Info("escrow taken",
		"escrow", msg.Escrow,
		"taker", msg.Taker,
		"released", token.FormatAmount(released, op.decimalsA),
		"paid", token.FormatAmount(record.Receive, op.decimalsB))
	return &custody.DeliverResult{Data: msg.Escrow}, nil
}

func (h TakeHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*takeOp, error) {
	var op takeOp
	if err := custody.LoadMsg(tx, &op.msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	msg := op.msg

	record, err := loadRecord(db, h.bucket, msg.Escrow)
	if err != nil {
		return nil, err
	}
	if !record.Maker.Equals(msg.Maker) {
		return nil, errors.Wrapf(ErrInvalidMaker, "escrow belongs to %s", record.Maker)
	}
	if !record.MintA.Equals(msg.MintA) {
		return nil, errors.Wrapf(ErrInvalidMintA, "escrow deposit is %s", record.MintA)
	}
	if !record.MintB.Equals(msg.MintB) {
		return nil, errors.Wrapf(ErrInvalidMintB, "escrow wants %s", record.MintB)
	}
	if op.escrow, err = rederive(record, msg.Escrow); err != nil {
		return nil, err
	}
	if op.taker, err = custody.Signer(ctx, h.auth, msg.Taker); err != nil {
		return nil, err
	}

	mintA, err := h.token.Mint(db, record.MintA)
	if err != nil {
		return nil, errors.Wrap(err, "mint a")
	}
	mintB, err := h.token.Mint(db, record.MintB)
	if err != nil {
		return nil, errors.Wrap(err, "mint b")
	}
	op.decimalsA, op.decimalsB = mintA.Decimals, mintB.Decimals

	if op.takerAtaB, _, err = token.AssociatedAddress(msg.Taker, record.MintB); err != nil {
		return nil, err
	}
	balance, err := h.token.Balance(db, op.takerAtaB)
	if err != nil {
		return nil, err
	}
	if balance < record.Receive {
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "taker holds %s, needs %s",
			token.FormatAmount(balance, op.decimalsB), token.FormatAmount(record.Receive, op.decimalsB))
	}
	op.record = record
	return &op, nil
}

// RefundHandler cancels an escrow.
type RefundHandler struct {
	auth   custody.Authenticator
	bucket orm.ModelBucket
	cash   cash.Controller
	token  token.Controller
}

var _ custody.Handler = RefundHandler{}

// NewRefundHandler returns a handler for RefundMsg.
func NewRefundHandler(auth custody.Authenticator, cashCtrl cash.Controller, tokenCtrl token.Controller) RefundHandler {
	return RefundHandler{auth: auth, bucket: NewBucket(), cash: cashCtrl, token: tokenCtrl}
}

type refundOp struct {
	msg      RefundMsg
	maker    custody.Authority
	record   *Escrow
	escrow   custody.Authority
	decimals uint8
}

// Check verifies the maker can cancel the offer.
func (h RefundHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

// Deliver returns the deposit to the maker and destroys the escrow.
func (h RefundHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	op, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	msg, record := op.msg, op.record

	makerAtaA, err := h.token.EnsureAssociatedAccount(db, op.maker, record.Maker, record.MintA)
	if err != nil {
		return nil, errors.Wrap(err, "maker account")
	}
	refunded, err := releaseVault(db, h.token, op.escrow, record, makerAtaA, op.decimals)
	if err != nil {
		return nil, err
	}
	if err := closeRecord(db, h.bucket, h.cash, msg.Escrow, record.Maker); err != nil {
		return nil, err
	}

	custody.GetLogger(ctx).Info("escrow refunded",
		"escrow", msg.Escrow,
		"maker", record.Maker,
		"refunded", token.FormatAmount(refunded, op.decimals))
	return &custody.DeliverResult{Data: msg.Escrow}, nil
}

func (h RefundHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*refundOp, error) {
	var op refundOp
	if err := custody.LoadMsg(tx, &op.msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	msg := op.msg

	record, err := loadRecord(db, h.bucket, msg.Escrow)
	if err != nil {
		return nil, err
	}
	if op.maker, err = custody.Signer(ctx, h.auth, msg.Maker); err != nil {
		return nil, err
	}
	if !record.Maker.Equals(msg.Maker) {
		return nil, errors.Wrapf(ErrInvalidMaker, "escrow belongs to %s", record.Maker)
	}
	if !record.MintA.Equals(msg.MintA) {
		return nil, errors.Wrapf(ErrInvalidMintA, "escrow deposit is %s", record.MintA)
	}
	if op.escrow, err = rederive(record, msg.Escrow); err != nil {
		return nil, err
	}
	mintA, err := h.token.Mint(db, record.MintA)
	if err != nil {
		return nil, errors.Wrap(err, "mint a")
	}
	op.decimals = mintA.Decimals
	op.record = record
	return &op, nil
}

func loadRecord(db custody.ReadOnlyKVStore, bucket orm.ModelBucket, addr custody.Address) (*Escrow, error) {
	var e Escrow
	if err := bucket.One(db, addr, &e); err != nil {
		return nil, errors.Wrapf(err, "escrow %s", addr)
	}
	return &e, nil
}

// rederive returns the authority over the escrow address, which must be
// the one the record derives.
func rederive(record *Escrow, addr custody.Address) (custody.Authority, error) {
	auth, err := authorize(record)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "escrow address does not derive from the record")
	}
	if !auth.Address().Equals(addr) {
		return nil, errors.Wrap(errors.ErrInput, "escrow address does not derive from the record")
	}
	return auth, nil
}

// releaseVault transfers the whole vault to the destination and closes
// the vault, returning its rent to the maker.
func releaseVault(db custody.KVStore, tokenCtrl token.Controller, escrow custody.Authority, record *Escrow, to custody.Address, decimals uint8) (uint64, error) {
	vault, _, err := token.AssociatedAddress(escrow.Address(), record.MintA)
	if err != nil {
		return 0, err
	}
	amount, err := tokenCtrl.Balance(db, vault)
	if err != nil {
		return 0, err
	}
	if amount > 0 {
		if err := tokenCtrl.TransferChecked(db, escrow, vault, to, record.MintA, amount, decimals); err != nil {
			return 0, errors.Wrap(err, "release vault")
		}
	}
	if err := tokenCtrl.CloseAccount(db, escrow, vault, record.Maker); err != nil {
		return 0, errors.Wrap(err, "close vault")
	}
	return amount, nil
}

// closeRecord removes the escrow record and returns its rent to the maker.
func closeRecord(db custody.KVStore, bucket orm.ModelBucket, cashCtrl cash.Controller, addr, maker custody.Address) error {
	if err := bucket.Delete(db, addr); err != nil {
		return errors.Wrap(err, "delete escrow")
	}
	if _, err := cashCtrl.CloseAccount(db, program, addr, maker); err != nil {
		return errors.Wrap(err, "close escrow account")
	}
	return nil
}
