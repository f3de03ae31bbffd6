package escrow

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

const (
	// RecordSize is the length of the escrow fields.
	RecordSize = 8 + 3*custody.AddressLength + 8 + 1

	// RecordSpace is the space reserved for the record account: the
	// account type discriminator followed by the fields.
	RecordSpace = discriminatorSize + RecordSize

	discriminatorSize = 8
)

var discriminator = func() []byte {
	sum := sha256.Sum256([]byte("account:Escrow"))
	return sum[:discriminatorSize]
}()

// Escrow is an outstanding offer.
type Escrow struct {
	Seed    uint64
	Maker   custody.Address
	MintA   custody.Address
	MintB   custody.Address
	Receive uint64
	// Bump re-derives the escrow address and with it the authority
	// over the vault.
	Bump uint8
}

var _ orm.Model = (*Escrow)(nil)

func (e *Escrow) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Maker", e.Maker.Validate())
	errs = errors.AppendField(errs, "MintA", e.MintA.Validate())
	errs = errors.AppendField(errs, "MintB", e.MintB.Validate())
	if e.Receive == 0 {
		errs = errors.Append(errs, errors.Field("Receive", errors.ErrAmount, "must be positive"))
	}
	return errs
}

// Marshal encodes the record as the discriminator followed by
// seed:u64 | maker:[32]byte | mint_a:[32]byte | mint_b:[32]byte | receive:u64 | bump:u8,
// little endian.
func (e *Escrow) Marshal() ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	raw := make([]byte, RecordSpace)
	copy(raw, discriminator)
	b := raw[discriminatorSize:]
	binary.LittleEndian.PutUint64(b, e.Seed)
	copy(b[8:], e.Maker)
	copy(b[8+custody.AddressLength:], e.MintA)
	copy(b[8+2*custody.AddressLength:], e.MintB)
	binary.LittleEndian.PutUint64(b[8+3*custody.AddressLength:], e.Receive)
	b[RecordSize-1] = e.Bump
	return raw, nil
}

func (e *Escrow) Unmarshal(raw []byte) error {
	if len(raw) != RecordSpace {
		return errors.Wrapf(errors.ErrModel, "escrow length %d", len(raw))
	}
	if !bytes.Equal(raw[:discriminatorSize], discriminator) {
		return errors.Wrap(errors.ErrType, "not an escrow account")
	}
	b := raw[discriminatorSize:]
	addr := func(off int) custody.Address {
		return custody.Address(append([]byte(nil), b[off:off+custody.AddressLength]...))
	}
	e.Seed = binary.LittleEndian.Uint64(b)
	e.Maker = addr(8)
	e.MintA = addr(8 + custody.AddressLength)
	e.MintB = addr(8 + 2*custody.AddressLength)
	e.Receive = binary.LittleEndian.Uint64(b[8+3*custody.AddressLength:])
	e.Bump = b[RecordSize-1]
	return nil
}

// NewBucket returns the bucket holding escrows by address, indexed by
// maker.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("escrows", &Escrow{},
		orm.WithIndex("maker", makerIndex, false))
}

func makerIndex(m orm.Model) ([]byte, error) {
	e, ok := m.(*Escrow)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return e.Maker, nil
}

// RegisterQuery will register this bucket as "/escrows" and its maker index
// as "/escrows/maker".
func RegisterQuery(qr custody.QueryRouter) {
	NewBucket().Register("escrows", qr)
}
