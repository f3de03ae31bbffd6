package token

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
	"github.com/iov-one/custody/x/cash"
)

// Controller manages mints and token accounts.
type Controller interface {
	// Mint returns the stored mint or ErrNotFound.
	Mint(db custody.ReadOnlyKVStore, addr custody.Address) (*Mint, error)

	// Account returns the stored token account or ErrNotFound.
	Account(db custody.ReadOnlyKVStore, addr custody.Address) (*TokenAccount, error)

	// Balance returns the amount held by the token account, zero if it
	// does not exist.
	Balance(db custody.ReadOnlyKVStore, addr custody.Address) (uint64, error)

	// CreateMint allocates a new asset at the address of mint, paid by
	// payer.
	CreateMint(db custody.KVStore, payer, mint custody.Authority, authority custody.Address, decimals uint8) error

	// InitializeAccount allocates a token account of mint at the address
	// of account, owned by owner and paid by payer.
	InitializeAccount(db custody.KVStore, payer, account custody.Authority, mint, owner custody.Address) error

	// CreateAssociatedAccount allocates the associated token account of
	// (owner, mint), paid by payer. ErrDuplicate is returned if it exists.
	CreateAssociatedAccount(db custody.KVStore, payer custody.Authority, owner, mint custody.Address) (custody.Address, error)

	// EnsureAssociatedAccount returns the associated token account of
	// (owner, mint), creating it paid by payer if it does not exist yet.
	EnsureAssociatedAccount(db custody.KVStore, payer custody.Authority, owner, mint custody.Address) (custody.Address, error)

	// TransferChecked moves amount of mint between two token accounts.
	// The authority must own the source account and decimals must match
	// the mint precision.
	TransferChecked(db custody.KVStore, auth custody.Authority, from, to, mint custody.Address, amount uint64, decimals uint8) error

	// MintTo issues new tokens into the destination account.
	MintTo(db custody.KVStore, auth custody.Authority, mint, to custody.Address, amount uint64) error

	// CloseAccount removes an empty token account owned by auth and
	// credits its native balance to recipient.
	CloseAccount(db custody.KVStore, auth custody.Authority, addr, recipient custody.Address) error
}

// NewController returns a token controller using cash to allocate accounts.
func NewController(cashCtrl cash.Controller) Controller {
	return controller{
		cash:     cashCtrl,
		mints:    NewMintBucket(),
		accounts: NewAccountBucket(),
	}
}

type controller struct {
	cash     cash.Controller
	mints    orm.ModelBucket
	accounts orm.ModelBucket
}

var _ Controller = controller{}

func (c controller) Mint(db custody.ReadOnlyKVStore, addr custody.Address) (*Mint, error) {
	var m Mint
	if err := c.mints.One(db, addr, &m); err != nil {
		return nil, errors.Wrapf(err, "mint %s", addr)
	}
	return &m, nil
}

func (c controller) Account(db custody.ReadOnlyKVStore, addr custody.Address) (*TokenAccount, error) {
	var a TokenAccount
	if err := c.accounts.One(db, addr, &a); err != nil {
		return nil, errors.Wrapf(err, "token account %s", addr)
	}
	return &a, nil
}

func (c controller) Balance(db custody.ReadOnlyKVStore, addr custody.Address) (uint64, error) {
	a, err := c.Account(db, addr)
	switch {
	case err == nil:
		return a.Amount, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

func (c controller) CreateMint(db custody.KVStore, payer, mint custody.Authority, authority custody.Address, decimals uint8) error {
	m := Mint{Authority: authority.Clone(), Decimals: decimals}
	if err := m.Validate(); err != nil {
		return err
	}
	if err := c.cash.CreateAccount(db, payer, mint, ProgramID, MintSize); err != nil {
		return errors.Wrap(err, "mint account")
	}
	return c.mints.Put(db, mint.Address(), &m)
}

func (c controller) InitializeAccount(db custody.KVStore, payer, account custody.Authority, mint, owner custody.Address) error {
	if err := owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if _, err := c.Mint(db, mint); err != nil {
		return err
	}
	if err := c.cash.CreateAccount(db, payer, account, ProgramID, AccountSize); err != nil {
		return errors.Wrap(err, "token account")
	}
	a := TokenAccount{Mint: mint.Clone(), Owner: owner.Clone()}
	return c.accounts.Put(db, account.Address(), &a)
}

func (c controller) CreateAssociatedAccount(db custody.KVStore, payer custody.Authority, owner, mint custody.Address) (custody.Address, error) {
	addr, bump, err := AssociatedAddress(owner, mint)
	if err != nil {
		return nil, err
	}
	auth, err := associatedProgram.Authorize(bump, owner, ProgramID, mint)
	if err != nil {
		return nil, err
	}
	if err := c.InitializeAccount(db, payer, auth, mint, owner); err != nil {
		return nil, err
	}
	return addr, nil
}

func (c controller) EnsureAssociatedAccount(db custody.KVStore, payer custody.Authority, owner, mint custody.Address) (custody.Address, error) {
	addr, _, err := AssociatedAddress(owner, mint)
	if err != nil {
		return nil, err
	}
	a, err := c.Account(db, addr)
	switch {
	case err == nil:
		if !a.Mint.Equals(mint) {
			return nil, errors.Wrapf(errors.ErrMismatch, "account %s holds mint %s", addr, a.Mint)
		}
		if !a.Owner.Equals(owner) {
			return nil, errors.Wrapf(errors.ErrUnauthorized, "account %s is owned by %s", addr, a.Owner)
		}
		return addr, nil
	case errors.ErrNotFound.Is(err):
		return c.CreateAssociatedAccount(db, payer, owner, mint)
	default:
		return nil, err
	}
}

func (c controller) TransferChecked(db custody.KVStore, auth custody.Authority, from, to, mint custody.Address, amount uint64, decimals uint8) error {
	src, err := c.Account(db, from)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	if !src.Owner.Equals(auth.Address()) {
		return errors.Wrapf(errors.ErrUnauthorized, "source is owned by %s", src.Owner)
	}
	dst, err := c.Account(db, to)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if !src.Mint.Equals(mint) {
		return errors.Wrapf(errors.ErrMismatch, "source holds mint %s", src.Mint)
	}
	if !dst.Mint.Equals(mint) {
		return errors.Wrapf(errors.ErrMismatch, "destination holds mint %s", dst.Mint)
	}
	m, err := c.Mint(db, mint)
	if err != nil {
		return err
	}
	if m.Decimals != decimals {
		return errors.Wrapf(errors.ErrPrecision, "mint has %d decimals, got %d", m.Decimals, decimals)
	}
	if src.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "source holds %s, needs %s",
			FormatAmount(src.Amount, decimals), FormatAmount(amount, decimals))
	}
	if from.Equals(to) {
		return nil
	}
	if dst.Amount+amount < dst.Amount {
		return errors.Wrap(errors.ErrOverflow, "destination amount")
	}
	src.Amount -= amount
	dst.Amount += amount
	if err := c.accounts.Put(db, from, src); err != nil {
		return err
	}
	return c.accounts.Put(db, to, dst)
}

func (c controller) MintTo(db custody.KVStore, auth custody.Authority, mint, to custody.Address, amount uint64) error {
	m, err := c.Mint(db, mint)
	if err != nil {
		return err
	}
	if !m.Authority.Equals(auth.Address()) {
		return errors.Wrap(errors.ErrUnauthorized, "mint authority")
	}
	dst, err := c.Account(db, to)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if !dst.Mint.Equals(mint) {
		return errors.Wrapf(errors.ErrMismatch, "destination holds mint %s", dst.Mint)
	}
	if m.Supply+amount < m.Supply {
		return errors.Wrap(errors.ErrOverflow, "supply")
	}
	m.Supply += amount
	dst.Amount += amount
	if err := c.mints.Put(db, mint, m); err != nil {
		return err
	}
	return c.accounts.Put(db, to, dst)
}

func (c controller) CloseAccount(db custody.KVStore, auth custody.Authority, addr, recipient custody.Address) error {
	a, err := c.Account(db, addr)
	if err != nil {
		return err
	}
	if !a.Owner.Equals(auth.Address()) {
		return errors.Wrapf(errors.ErrUnauthorized, "account is owned by %s", a.Owner)
	}
	if a.Amount != 0 {
		return errors.Wrapf(errors.ErrState, "account still holds %d", a.Amount)
	}
	if err := c.accounts.Delete(db, addr); err != nil {
		return err
	}
	if _, err := c.cash.CloseAccount(db, program, addr, recipient); err != nil {
		return errors.Wrap(err, "native account")
	}
	return nil
}
