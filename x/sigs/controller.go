package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
)

// SignCodeV1 is the current way to prefix the bytes we use to build
// a signature
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// VerifyTxSignatures checks all the signatures on the tx and returns the
// signer addresses, possibly none.
//
// Sequences are only written once every signature is valid, so a rejected
// envelope leaves all signer state untouched.
func VerifyTxSignatures(store custody.KVStore, tx SignedTx, chainID string) ([]custody.Address, error) {
	bz, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	sigs := tx.GetSignatures()

	// pending holds the updated state of signers seen so far, so a signer
	// present twice must use consecutive sequences.
	pending := make(map[string]*UserData, len(sigs))
	order := make([]string, 0, len(sigs))
	signers := make([]custody.Address, 0, len(sigs))
	for i, sig := range sigs {
		user, err := verifySignature(store, pending, sig, bz, chainID)
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		key := string(user.Pubkey)
		if _, seen := pending[key]; !seen {
			order = append(order, key)
		}
		pending[key] = user
		signers = append(signers, user.Pubkey.Address())
	}

	bucket := NewBucket()
	for _, key := range order {
		if err := bucket.Save(store, pending[key]); err != nil {
			return nil, err
		}
	}
	return signers, nil
}

// VerifySignature checks one signature against signbytes and chain id and
// increments the signer sequence in the store.
func VerifySignature(db custody.KVStore, sig *StdSignature, signBytes []byte, chainID string) (custody.Address, error) {
	user, err := verifySignature(db, nil, sig, signBytes, chainID)
	if err != nil {
		return nil, err
	}
	if err := NewBucket().Save(db, user); err != nil {
		return nil, err
	}
	return user.Pubkey.Address(), nil
}

// verifySignature returns the signer state with the sequence incremented,
// without saving it. State found in pending takes precedence over db.
func verifySignature(db custody.ReadOnlyKVStore, pending map[string]*UserData, sig *StdSignature, signBytes []byte, chainID string) (*UserData, error) {
	// we guarantee sequence makes sense and pubkey is there
	if err := sig.Validate(); err != nil {
		return nil, err
	}

	pubkey := crypto.PublicKey(sig.Pubkey)
	user, ok := pending[string(pubkey)]
	if !ok {
		loaded, err := NewBucket().GetOrCreate(db, pubkey)
		if err != nil {
			return nil, err
		}
		user = loaded
	}

	toSign, err := BuildSignBytes(signBytes, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	if !pubkey.Verify(toSign, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}

	next := *user
	if err := next.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	return &next, nil
}

/*
BuildSignBytes combines all info on the actual tx before signing

We use the following format:

version | len(chainID) | chainID      | sequence          | signBytes
4bytes  | uint8        | ascii string | int64 (bigendian) | raw instruction

This is then prehashed with sha512 before fed into
the public key signing/verification step
*/
func BuildSignBytes(signBytes []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !custody.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}

	nonce := make([]byte, 8)
	binary.BigEndian.PutUint64(nonce, uint64(seq))

	output := make([]byte, 0, 4+1+len(chainID)+8+len(signBytes))
	output = append(output, SignCodeV1...)
	output = append(output, uint8(len(chainID)))
	output = append(output, []byte(chainID)...)
	output = append(output, nonce...)
	output = append(output, signBytes...)

	hashed := sha512.Sum512(output)
	return hashed[:], nil
}

// BuildSignBytesTx calculates the sign bytes given a tx
func BuildSignBytesTx(tx SignedTx, chainID string, seq int64) ([]byte, error) {
	signBytes, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	return BuildSignBytes(signBytes, chainID, seq)
}

// SignTx creates a signature for the given tx
func SignTx(signer *crypto.PrivateKey, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	signBytes, err := BuildSignBytesTx(tx, chainID, seq)
	if err != nil {
		return nil, err
	}
	return &StdSignature{
		Pubkey:    signer.PublicKey(),
		Signature: signer.Sign(signBytes),
		Sequence:  seq,
	}, nil
}

// NextSequence returns the sequence the given address must sign its next
// transaction with.
func NextSequence(db custody.ReadOnlyKVStore, addr custody.Address) (int64, error) {
	var user UserData
	switch err := NewBucket().One(db, addr, &user); {
	case err == nil:
		return user.Sequence, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}
