package custody

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/iov-one/custody/crypto/bech32"
	"github.com/iov-one/custody/errors"
	"github.com/mr-tron/base58"
)

// AddressLength is the length of all addresses. Addresses are ed25519 public
// keys or program derived values of the same size.
const AddressLength = 32

// Address identifies an account on the ledger.
type Address []byte

// SystemProgram owns every plain native currency account.
var SystemProgram = make(Address, AddressLength)

// Equals checks if two addresses are the same.
func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// String returns the base58 representation of the address.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return base58.Encode(a)
}

// Validate returns an error if the address is not of the valid size.
func (a Address) Validate() error {
	if len(a) != AddressLength {
		return errors.Wrapf(errors.ErrInput, "address length %d", len(a))
	}
	return nil
}

// Clone returns a copy that does not share memory with the original.
func (a Address) Clone() Address {
	if a == nil {
		return nil
	}
	return append(Address(nil), a...)
}

// MarshalJSON renders the address as a base58 string.
func (a Address) MarshalJSON() ([]byte, error) {
	if len(a) == 0 {
		return []byte(`""`), nil
	}
	return json.Marshal(base58.Encode(a))
}

// UnmarshalJSON accepts a base58 string or a bech32 string with the
// "bech32:" prefix.
func (a *Address) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, "address must be a string")
	}
	if s == "" {
		*a = nil
		return nil
	}
	addr, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// ParseAddress decodes the textual representation of an address. Base58 is
// the default format, bech32 must be explicitly prefixed with "bech32:".
func ParseAddress(s string) (Address, error) {
	var (
		raw []byte
		err error
	)
	if strings.HasPrefix(s, "bech32:") {
		_, raw, err = bech32.Decode(s[len("bech32:"):])
		if err != nil {
			return nil, err
		}
	} else {
		raw, err = base58.Decode(s)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "base58: %s", err)
		}
	}
	addr := Address(raw)
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}

// MustParseAddress is like ParseAddress but panics on failure. Use it only
// for well known constants.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}
