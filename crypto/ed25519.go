package crypto

import (
	"crypto/rand"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"golang.org/x/crypto/ed25519"
)

// PublicKey is an ed25519 public key.
type PublicKey []byte

// Verify verifies the signature was created with this message and public key
func (p PublicKey) Verify(message, sig []byte) bool {
	if len(p) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p), message, sig)
}

// Address returns the account address controlled by this key.
func (p PublicKey) Address() custody.Address {
	return custody.Address(p).Clone()
}

// Validate returns an error if the key is not of the valid size.
func (p PublicKey) Validate() error {
	if len(p) != ed25519.PublicKeySize {
		return errors.Wrapf(errors.ErrInput, "public key length %d", len(p))
	}
	return nil
}

// PrivateKey is an ed25519 private key.
type PrivateKey struct {
	key ed25519.PrivateKey
}

// GenPrivKey generates a new random private key.
func GenPrivKey() *PrivateKey {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{key: key}
}

// PrivKeyFromSeed deterministically creates a private key from a 32 byte
// seed.
func PrivKeyFromSeed(seed []byte) (*PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Wrapf(errors.ErrInput, "seed length %d", len(seed))
	}
	return &PrivateKey{key: ed25519.NewKeyFromSeed(seed)}, nil
}

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) []byte {
	return ed25519.Sign(p.key, message)
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() PublicKey {
	return PublicKey(p.key.Public().(ed25519.PublicKey))
}

// Address returns the account address controlled by this key.
func (p *PrivateKey) Address() custody.Address {
	return p.PublicKey().Address()
}

// Seed returns the seed this key can be recreated from.
func (p *PrivateKey) Seed() []byte {
	return p.key.Seed()
}
