package crypto

import (
	"bytes"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

func TestEd25519Signing(t *testing.T) {
	private := GenPrivKey()
	public := private.PublicKey()

	msg := []byte("foobar")
	msg2 := []byte("dingbooms")

	sig := private.Sign(msg)
	sig2 := private.Sign(msg2)
	if bytes.Equal(sig, sig2) {
		t.Fatal("different messages produce the same signature")
	}

	if !public.Verify(msg, sig) {
		t.Fatal("cannot verify a message signed with this public key")
	}
	if !public.Verify(msg2, sig2) {
		t.Fatal("cannot verify a message signed with this public key")
	}
	if public.Verify(msg, sig2) {
		t.Fatal("verified message signature of the wrong message")
	}
	if public.Verify(msg, nil) {
		t.Fatal("verified a nil signature of a message")
	}
	if GenPrivKey().PublicKey().Verify(msg, sig) {
		t.Fatal("verified a signature with another key")
	}
}

func TestAddressIsPublicKey(t *testing.T) {
	private := GenPrivKey()
	addr := private.Address()
	if err := addr.Validate(); err != nil {
		t.Fatalf("invalid address: %s", err)
	}
	if !bytes.Equal(addr, private.PublicKey()) {
		t.Fatal("address must be the public key")
	}
	if !custody.IsOnCurve(addr) {
		t.Fatal("a key address must lie on the curve")
	}
}

func TestPrivKeyFromSeed(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, 32)
	a, err := PrivKeyFromSeed(seed)
	if err != nil {
		t.Fatalf("cannot create key: %s", err)
	}
	b, err := PrivKeyFromSeed(a.Seed())
	if err != nil {
		t.Fatalf("cannot create key: %s", err)
	}
	if !a.Address().Equals(b.Address()) {
		t.Fatal("same seed must produce the same key")
	}
	if _, err := PrivKeyFromSeed([]byte("short")); !errors.ErrInput.Is(err) {
		t.Fatalf("want input error, got %v", err)
	}
}
