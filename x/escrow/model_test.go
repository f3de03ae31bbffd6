package escrow

import (
	"testing"

	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscrowSerialization(t *testing.T) {
	e := Escrow{
		Seed:    1,
		Maker:   custodytest.RandomAddr(t),
		MintA:   custodytest.RandomAddr(t),
		MintB:   custodytest.RandomAddr(t),
		Receive: 50,
		Bump:    254,
	}
	raw, err := e.Marshal()
	require.NoError(t, err)
	assert.Len(t, raw, 121)
	assert.Equal(t, 113, RecordSize)

	var back Escrow
	require.NoError(t, back.Unmarshal(raw))
	assert.Equal(t, e, back)

	raw[0] ^= 0xff
	assert.True(t, errors.ErrType.Is(back.Unmarshal(raw)))
	assert.True(t, errors.ErrModel.Is(back.Unmarshal(raw[:RecordSize])))

	e.Receive = 0
	_, err = e.Marshal()
	assert.True(t, errors.ErrAmount.Is(err))
}

func TestMsgValidation(t *testing.T) {
	addr := custodytest.RandomAddr(t)

	ok := MakeMsg{Maker: addr, MintA: addr, MintB: addr, Seed: 0, Deposit: 1, Receive: 1}
	assert.NoError(t, ok.Validate())

	bad := ok
	bad.Deposit = 0
	bad.Receive = 0
	err := bad.Validate()
	assert.True(t, errors.ErrAmount.Is(err))
	assert.Len(t, errors.FieldErrors(err, "Deposit"), 1)
	assert.Len(t, errors.FieldErrors(err, "Receive"), 1)

	assert.True(t, errors.ErrInput.Is((&TakeMsg{Taker: addr}).Validate()))
	assert.True(t, errors.ErrInput.Is((&RefundMsg{Maker: addr, Escrow: addr}).Validate()))
	assert.NoError(t, (&RefundMsg{Maker: addr, Escrow: addr, MintA: addr}).Validate())
}

func TestAddress(t *testing.T) {
	maker := custodytest.RandomAddr(t)
	a1, _, err := Address(maker, 1)
	require.NoError(t, err)
	a2, _, err := Address(maker, 2)
	require.NoError(t, err)
	assert.NotEqual(t, a1, a2)

	again, _, err := Address(maker, 1)
	require.NoError(t, err)
	assert.Equal(t, a1, again)
}
