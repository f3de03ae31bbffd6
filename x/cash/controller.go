package cash

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// Controller moves native currency and manages the account lifecycle.
type Controller interface {
	// Account returns the stored account or ErrNotFound.
	Account(db custody.ReadOnlyKVStore, addr custody.Address) (*Account, error)

	// Balance returns the native balance of addr, zero if the account
	// does not exist.
	Balance(db custody.ReadOnlyKVStore, addr custody.Address) (uint64, error)

	// MinimumBalance returns the rent exempt minimum for given space.
	MinimumBalance(db custody.ReadOnlyKVStore, space uint64) (uint64, error)

	// CreateAccount allocates the account of the given authority, owned
	// by owner, with space reserved. Its rent exempt minimum is paid by
	// payer. ErrDuplicate is returned if the account is already in use.
	CreateAccount(db custody.KVStore, payer, account custody.Authority, owner custody.Address, space uint64) error

	// CloseAccount removes an account owned by the given program and
	// credits its whole balance to recipient.
	CloseAccount(db custody.KVStore, owner *custody.Program, addr, recipient custody.Address) (uint64, error)

	// Transfer moves amount from the system owned account of auth to the
	// destination, creating the destination if needed. An emptied account
	// with no reserved space is removed.
	Transfer(db custody.KVStore, auth custody.Authority, to custody.Address, amount uint64) error
}

// NewController returns the native currency controller.
func NewController() Controller {
	return controller{bucket: NewBucket()}
}

type controller struct {
	bucket orm.ModelBucket
}

var _ Controller = controller{}

func (c controller) Account(db custody.ReadOnlyKVStore, addr custody.Address) (*Account, error) {
	var acc Account
	if err := c.bucket.One(db, addr, &acc); err != nil {
		return nil, errors.Wrapf(err, "account %s", addr)
	}
	return &acc, nil
}

func (c controller) Balance(db custody.ReadOnlyKVStore, addr custody.Address) (uint64, error) {
	acc, err := c.Account(db, addr)
	switch {
	case err == nil:
		return acc.Lamports, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

func (c controller) MinimumBalance(db custody.ReadOnlyKVStore, space uint64) (uint64, error) {
	conf, err := loadConf(db)
	if err != nil {
		return 0, err
	}
	return conf.MinimumBalance(space)
}

func (c controller) CreateAccount(db custody.KVStore, payer, account custody.Authority, owner custody.Address, space uint64) error {
	if err := owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	addr := account.Address()
	switch err := c.bucket.Has(db, addr); {
	case err == nil:
		return errors.Wrapf(errors.ErrDuplicate, "account %s already in use", addr)
	case !errors.ErrNotFound.Is(err):
		return err
	}

	rent, err := c.MinimumBalance(db, space)
	if err != nil {
		return err
	}
	if err := c.debit(db, payer, rent); err != nil {
		return errors.Wrap(err, "payer")
	}
	acc := Account{Lamports: rent, Owner: owner.Clone(), Space: space}
	return c.bucket.Put(db, addr, &acc)
}

func (c controller) CloseAccount(db custody.KVStore, owner *custody.Program, addr, recipient custody.Address) (uint64, error) {
	acc, err := c.Account(db, addr)
	if err != nil {
		return 0, err
	}
	if !acc.Owner.Equals(owner.ID()) {
		return 0, errors.Wrapf(errors.ErrUnauthorized, "account %s is owned by %s", addr, acc.Owner)
	}
	if err := c.bucket.Delete(db, addr); err != nil {
		return 0, err
	}
	if acc.Lamports == 0 {
		return 0, nil
	}
	if err := c.credit(db, recipient, acc.Lamports); err != nil {
		return 0, errors.Wrap(err, "recipient")
	}
	return acc.Lamports, nil
}

func (c controller) Transfer(db custody.KVStore, auth custody.Authority, to custody.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "transfer must be positive")
	}
	if err := to.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	if err := c.debit(db, auth, amount); err != nil {
		return err
	}
	return c.credit(db, to, amount)
}

// debit subtracts amount from the system owned account of auth.
func (c controller) debit(db custody.KVStore, auth custody.Authority, amount uint64) error {
	from := auth.Address()
	acc, err := c.Account(db, from)
	if err != nil {
		if errors.ErrNotFound.Is(err) {
			return errors.Wrapf(errors.ErrInsufficientAmount, "%s has no funds", from)
		}
		return err
	}
	if !acc.IsSystem() {
		return errors.Wrapf(errors.ErrUnauthorized, "account %s is owned by %s", from, acc.Owner)
	}
	if acc.Lamports < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "%s holds %d, needs %d", from, acc.Lamports, amount)
	}
	acc.Lamports -= amount
	if acc.Lamports == 0 && acc.Space == 0 {
		return c.bucket.Delete(db, from)
	}
	return c.bucket.Put(db, from, acc)
}

// credit adds amount to the account, creating a system owned one if the
// address is not in use. A new account must be rent exempt.
func (c controller) credit(db custody.KVStore, to custody.Address, amount uint64) error {
	acc, err := c.Account(db, to)
	switch {
	case err == nil:
		if acc.Lamports+amount < acc.Lamports {
			return errors.Wrap(errors.ErrOverflow, "balance")
		}
		acc.Lamports += amount
	case errors.ErrNotFound.Is(err):
		rent, err := c.MinimumBalance(db, 0)
		if err != nil {
			return err
		}
		if amount < rent {
			return errors.Wrapf(errors.ErrInsufficientAmount, "new account %s needs at least %d", to, rent)
		}
		acc = &Account{Lamports: amount, Owner: custody.SystemProgram}
	default:
		return err
	}
	return c.bucket.Put(db, to, acc)
}
