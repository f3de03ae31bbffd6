package custodytest

import (
	"crypto/rand"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/crypto"
)

// NewKey returns a new random ed25519 key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKey()
}

// RandomAddr returns the address of a new random key.
func RandomAddr(t testing.TB) custody.Address {
	t.Helper()
	return NewKey().Address()
}

// RandomProgram registers a program under a new random id.
func RandomProgram(t testing.TB) *custody.Program {
	t.Helper()
	id := make(custody.Address, custody.AddressLength)
	if _, err := rand.Read(id); err != nil {
		t.Fatalf("cannot read random bytes: %s", err)
	}
	return custody.RegisterProgram(id)
}

// ParseAddress takes an address in a human readable format and returns its
// binary representation.
func ParseAddress(t testing.TB, encoded string) custody.Address {
	t.Helper()
	addr, err := custody.ParseAddress(encoded)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encoded, err)
	}
	return addr
}
