package token

import (
	"encoding/binary"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

const (
	// MintSize is the length of a serialized Mint.
	MintSize = custody.AddressLength + 8 + 1

	// AccountSize is the length of a serialized TokenAccount.
	AccountSize = 2*custody.AddressLength + 8

	// MaxDecimals is the greatest precision an asset may declare.
	MaxDecimals = 18
)

// Mint describes an asset.
type Mint struct {
	Authority custody.Address
	Supply    uint64
	Decimals  uint8
}

var _ orm.Model = (*Mint)(nil)

func (m *Mint) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Authority", m.Authority.Validate())
	if m.Decimals > MaxDecimals {
		errs = errors.Append(errs, errors.Field("Decimals", errors.ErrPrecision, "greater than %d", MaxDecimals))
	}
	return errs
}

// Marshal encodes the mint as authority:[32]byte | supply:u64 | decimals:u8.
func (m *Mint) Marshal() ([]byte, error) {
	if err := m.Authority.Validate(); err != nil {
		return nil, errors.Wrap(err, "authority")
	}
	raw := make([]byte, MintSize)
	copy(raw, m.Authority)
	binary.LittleEndian.PutUint64(raw[custody.AddressLength:], m.Supply)
	raw[MintSize-1] = m.Decimals
	return raw, nil
}

func (m *Mint) Unmarshal(raw []byte) error {
	if len(raw) != MintSize {
		return errors.Wrapf(errors.ErrModel, "mint length %d", len(raw))
	}
	m.Authority = custody.Address(append([]byte(nil), raw[:custody.AddressLength]...))
	m.Supply = binary.LittleEndian.Uint64(raw[custody.AddressLength:])
	m.Decimals = raw[MintSize-1]
	return nil
}

// TokenAccount holds a balance of a single mint.
type TokenAccount struct {
	Mint   custody.Address
	Owner  custody.Address
	Amount uint64
}

var _ orm.Model = (*TokenAccount)(nil)

func (a *TokenAccount) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Mint", a.Mint.Validate())
	errs = errors.AppendField(errs, "Owner", a.Owner.Validate())
	return errs
}

// Marshal encodes the account as mint:[32]byte | owner:[32]byte | amount:u64.
func (a *TokenAccount) Marshal() ([]byte, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	raw := make([]byte, AccountSize)
	copy(raw, a.Mint)
	copy(raw[custody.AddressLength:], a.Owner)
	binary.LittleEndian.PutUint64(raw[2*custody.AddressLength:], a.Amount)
	return raw, nil
}

func (a *TokenAccount) Unmarshal(raw []byte) error {
	if len(raw) != AccountSize {
		return errors.Wrapf(errors.ErrModel, "token account length %d", len(raw))
	}
	a.Mint = custody.Address(append([]byte(nil), raw[:custody.AddressLength]...))
	a.Owner = custody.Address(append([]byte(nil), raw[custody.AddressLength:2*custody.AddressLength]...))
	a.Amount = binary.LittleEndian.Uint64(raw[2*custody.AddressLength:])
	return nil
}

// NewMintBucket returns the bucket holding mints by address.
func NewMintBucket() orm.ModelBucket {
	return orm.NewModelBucket("mints", &Mint{})
}

// NewAccountBucket returns the bucket holding token accounts by address,
// indexed by owner.
func NewAccountBucket() orm.ModelBucket {
	return orm.NewModelBucket("tokens", &TokenAccount{},
		orm.WithIndex("owner", ownerIndex, false))
}

func ownerIndex(m orm.Model) ([]byte, error) {
	a, ok := m.(*TokenAccount)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return a.Owner, nil
}

// RegisterQuery exposes mints under "/mints" and token accounts under
// "/tokens" and "/tokens/owner".
func RegisterQuery(qr custody.QueryRouter) {
	NewMintBucket().Register("mints", qr)
	NewAccountBucket().Register("tokens", qr)
}
