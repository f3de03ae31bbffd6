package sigs

import (
	"testing"

	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignBytes(t *testing.T) {
	bz := []byte("foobar")
	tx := newSignedTx(bz)

	chainID := "test-sign-bytes"
	c1, err := BuildSignBytesTx(tx, chainID, 17)
	require.NoError(t, err)
	c1a, err := BuildSignBytes(bz, chainID, 17)
	require.NoError(t, err)
	assert.Equal(t, c1, c1a)
	assert.NotEqual(t, bz, c1)

	// sign bytes change on content, chain id and sequence
	ct, err := BuildSignBytes([]byte("blast"), chainID, 17)
	require.NoError(t, err)
	assert.NotEqual(t, c1, ct)
	c2, err := BuildSignBytes(bz, chainID+"2", 17)
	require.NoError(t, err)
	assert.NotEqual(t, c1, c2)
	c3, err := BuildSignBytes(bz, chainID, 18)
	require.NoError(t, err)
	assert.NotEqual(t, c1, c3)

	_, err = BuildSignBytes(bz, chainID, -1)
	assert.True(t, ErrInvalidSequence.Is(err))
	_, err = BuildSignBytes(bz, "no", 1)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestVerifySignature(t *testing.T) {
	db := store.MemStore()
	priv := custodytest.NewKey()

	chainID := "emo-music-2345"
	bz := []byte("my special valentine")
	tx := newSignedTx(bz)

	sig0, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	sig1, err := SignTx(priv, tx, chainID, 1)
	require.NoError(t, err)
	sig13, err := SignTx(priv, tx, chainID, 13)
	require.NoError(t, err)

	// signing is deterministic
	sig0a, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	assert.Equal(t, sig0, sig0a)

	// the first one must start at zero
	_, err = VerifySignature(db, sig1, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	addr, err := VerifySignature(db, sig0, bz, chainID)
	require.NoError(t, err)
	assert.Equal(t, priv.Address(), addr)

	// replay fails
	_, err = VerifySignature(db, sig0, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	// wrong chain or content fails
	_, err = VerifySignature(db, sig1, bz, "metal-music-2345")
	assert.True(t, errors.ErrUnauthorized.Is(err))
	_, err = VerifySignature(db, sig1, []byte("other"), chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	_, err = VerifySignature(db, sig1, bz, chainID)
	require.NoError(t, err)

	// skipping ahead is not allowed
	_, err = VerifySignature(db, sig13, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	seq, err := NextSequence(db, priv.Address())
	require.NoError(t, err)
	assert.EqualValues(t, 2, seq)

	seq, err = NextSequence(db, custodytest.RandomAddr(t))
	require.NoError(t, err)
	assert.EqualValues(t, 0, seq)

	_, err = VerifySignature(db, new(StdSignature), bz, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))
}

func TestVerifyTxSignatures(t *testing.T) {
	db := store.MemStore()
	a, b := custodytest.NewKey(), custodytest.NewKey()
	chainID := "multi-sig-chain"

	tx := newSignedTx([]byte("transfer"))
	sa, err := SignTx(a, tx, chainID, 0)
	require.NoError(t, err)
	sb, err := SignTx(b, tx, chainID, 0)
	require.NoError(t, err)
	tx.signatures = []*StdSignature{sa, sb}

	signers, err := VerifyTxSignatures(db, tx, chainID)
	require.NoError(t, err)
	require.Len(t, signers, 2)
	assert.Equal(t, a.Address(), signers[0])
	assert.Equal(t, b.Address(), signers[1])

	tx.signatures = nil
	signers, err = VerifyTxSignatures(db, tx, chainID)
	require.NoError(t, err)
	assert.Empty(t, signers)
}

func TestVerifyTxSignaturesRejectedLeavesSequences(t *testing.T) {
	db := store.MemStore()
	signer, other := custodytest.NewKey(), custodytest.NewKey()
	chainID := "multi-sig-chain"

	tx := newSignedTx([]byte("withdraw"))
	valid, err := SignTx(signer, tx, chainID, 0)
	require.NoError(t, err)
	wrongSeq, err := SignTx(other, tx, chainID, 7)
	require.NoError(t, err)
	tx.signatures = []*StdSignature{valid, wrongSeq}

	_, err = VerifyTxSignatures(db, tx, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	// the valid first signature did not consume its sequence
	seq, err := NextSequence(db, signer.Address())
	require.NoError(t, err)
	assert.EqualValues(t, 0, seq)

	// and can still be used on its own
	tx.signatures = []*StdSignature{valid}
	_, err = VerifyTxSignatures(db, tx, chainID)
	require.NoError(t, err)
	seq, err = NextSequence(db, signer.Address())
	require.NoError(t, err)
	assert.EqualValues(t, 1, seq)
}

func TestVerifyTxSignaturesSameSignerTwice(t *testing.T) {
	db := store.MemStore()
	signer := custodytest.NewKey()
	chainID := "multi-sig-chain"

	tx := newSignedTx([]byte("deposit"))
	s0, err := SignTx(signer, tx, chainID, 0)
	require.NoError(t, err)
	s1, err := SignTx(signer, tx, chainID, 1)
	require.NoError(t, err)

	tx.signatures = []*StdSignature{s0, s0}
	_, err = VerifyTxSignatures(db, tx, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	tx.signatures = []*StdSignature{s0, s1}
	signers, err := VerifyTxSignatures(db, tx, chainID)
	require.NoError(t, err)
	assert.Len(t, signers, 2)
	seq, err := NextSequence(db, signer.Address())
	require.NoError(t, err)
	assert.EqualValues(t, 2, seq)
}
