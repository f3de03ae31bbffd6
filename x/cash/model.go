package cash

import (
	"encoding/binary"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// BucketName is where the native accounts are stored.
const BucketName = "accounts"

// AccountSize is the length of a serialized Account.
const AccountSize = 8 + custody.AddressLength + 8

// Account is the native ledger entry of an address.
type Account struct {
	// Lamports is the native balance.
	Lamports uint64
	// Owner is the program allowed to close the account. Accounts owned
	// by custody.SystemProgram can be spent by whoever signs for them.
	Owner custody.Address
	// Space is the number of bytes the owner reserved for its data.
	Space uint64
}

var _ orm.Model = (*Account)(nil)

// IsSystem returns true if the account holds plain native currency.
func (a *Account) IsSystem() bool {
	return a.Owner.Equals(custody.SystemProgram)
}

// Validate ensures the account can be stored.
func (a *Account) Validate() error {
	return errors.AppendField(nil, "Owner", a.Owner.Validate())
}

// Marshal encodes the account as
// lamports:u64 | owner:[32]byte | space:u64, little endian.
func (a *Account) Marshal() ([]byte, error) {
	if err := a.Owner.Validate(); err != nil {
		return nil, errors.Wrap(err, "owner")
	}
	raw := make([]byte, AccountSize)
	binary.LittleEndian.PutUint64(raw, a.Lamports)
	copy(raw[8:], a.Owner)
	binary.LittleEndian.PutUint64(raw[8+custody.AddressLength:], a.Space)
	return raw, nil
}

// Unmarshal decodes what Marshal produced.
func (a *Account) Unmarshal(raw []byte) error {
	if len(raw) != AccountSize {
		return errors.Wrapf(errors.ErrModel, "account length %d", len(raw))
	}
	a.Lamports = binary.LittleEndian.Uint64(raw)
	a.Owner = custody.Address(append([]byte(nil), raw[8:8+custody.AddressLength]...))
	a.Space = binary.LittleEndian.Uint64(raw[8+custody.AddressLength:])
	return nil
}

// NewBucket returns the bucket holding native accounts by address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Account{})
}

// RegisterQuery exposes native accounts under "/accounts".
func RegisterQuery(qr custody.QueryRouter) {
	NewBucket().Register(BucketName, qr)
}
