package sigs

import (
	"encoding/binary"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// BucketName is where we store the signer sequences
const BucketName = "sigs"

const userDataSize = 32 + 8

// UserData holds the replay protection state of a single signer.
type UserData struct {
	Pubkey   crypto.PublicKey
	Sequence int64
}

var _ orm.Model = (*UserData)(nil)

// Validate ensures the stored state is consistent.
func (u *UserData) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Pubkey", u.Pubkey.Validate())
	if u.Sequence < 0 {
		errs = errors.AppendField(errs, "Sequence", ErrInvalidSequence)
	}
	return errs
}

// Marshal encodes the state as pubkey followed by a little endian
// sequence.
func (u *UserData) Marshal() ([]byte, error) {
	if err := u.Pubkey.Validate(); err != nil {
		return nil, err
	}
	raw := make([]byte, userDataSize)
	copy(raw, u.Pubkey)
	binary.LittleEndian.PutUint64(raw[32:], uint64(u.Sequence))
	return raw, nil
}

// Unmarshal decodes what Marshal produced.
func (u *UserData) Unmarshal(raw []byte) error {
	if len(raw) != userDataSize {
		return errors.Wrapf(errors.ErrModel, "user data length %d", len(raw))
	}
	u.Pubkey = crypto.PublicKey(append([]byte(nil), raw[:32]...))
	u.Sequence = int64(binary.LittleEndian.Uint64(raw[32:]))
	return nil
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
// Before incrementing the sequence, this function is testing for a value
// overflow.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}

	next := u.Sequence + 1

	// Clients represent the sequence as a javascript number, which cannot
	// safely hold more than 2^53 - 1.
	const maxSequenceValue = (1 << 53) - 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// Bucket stores UserData by signer address.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &UserData{}),
	}
}

// GetOrCreate loads the state of a signer, or returns a fresh one with
// sequence zero if none was stored yet.
func (b Bucket) GetOrCreate(db custody.ReadOnlyKVStore, pubkey crypto.PublicKey) (*UserData, error) {
	var user UserData
	switch err := b.One(db, pubkey.Address(), &user); {
	case err == nil:
		return &user, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{Pubkey: pubkey}, nil
	default:
		return nil, err
	}
}

// Save stores the signer state under its address.
func (b Bucket) Save(db custody.KVStore, u *UserData) error {
	return b.Put(db, u.Pubkey.Address(), u)
}

// RegisterQuery will register this bucket as "/auth"
func RegisterQuery(qr custody.QueryRouter) {
	NewBucket().Register("auth", qr)
}
