package token

import (
	"context"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/iov-one/custody/x/cash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db    custody.CacheableKVStore
	cash  cash.Controller
	ctrl  Controller
	auth  *custodytest.Auth
	payer custody.Address
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	f := &fixture{
		db:    store.MemStore(),
		cash:  cash.NewController(),
		payer: custodytest.RandomAddr(t),
	}
	f.ctrl = NewController(f.cash)
	f.auth = &custodytest.Auth{Signer: f.payer}
	acc := cash.Account{Lamports: 1000000000, Owner: custody.SystemProgram}
	require.NoError(t, cash.NewBucket().Put(f.db, f.payer, &acc))
	return f
}

func (f *fixture) signer(t testing.TB, addr custody.Address) custody.Authority {
	t.Helper()
	f.auth.Signers = append(f.auth.Signers, addr)
	a, err := custody.Signer(context.Background(), f.auth, addr)
	require.NoError(t, err)
	return a
}

// mint creates a new asset with the payer as the mint authority.
func (f *fixture) mint(t testing.TB, decimals uint8) custody.Address {
	t.Helper()
	key := custodytest.RandomAddr(t)
	err := f.ctrl.CreateMint(f.db, f.signer(t, f.payer), f.signer(t, key), f.payer, decimals)
	require.NoError(t, err)
	return key
}

// holder creates the associated account of owner and issues amount into it.
func (f *fixture) holder(t testing.TB, owner, mint custody.Address, amount uint64) custody.Address {
	t.Helper()
	addr, err := f.ctrl.CreateAssociatedAccount(f.db, f.signer(t, f.payer), owner, mint)
	require.NoError(t, err)
	if amount > 0 {
		require.NoError(t, f.ctrl.MintTo(f.db, f.signer(t, f.payer), mint, addr, amount))
	}
	return addr
}

func TestAssociatedAddress(t *testing.T) {
	owner := custodytest.RandomAddr(t)
	mint := custodytest.RandomAddr(t)

	a1, b1, err := AssociatedAddress(owner, mint)
	require.NoError(t, err)
	a2, b2, err := AssociatedAddress(owner, mint)
	require.NoError(t, err)
	assert.Equal(t, a1, a2)
	assert.Equal(t, b1, b2)
	assert.False(t, custody.IsOnCurve(a1))

	other, _, err := AssociatedAddress(mint, owner)
	require.NoError(t, err)
	assert.NotEqual(t, a1, other)
}

func TestTransferChecked(t *testing.T) {
	f := newFixture(t)
	mint := f.mint(t, 6)
	otherMint := f.mint(t, 6)

	alice := custodytest.RandomAddr(t)
	bob := custodytest.RandomAddr(t)
	aliceAcc := f.holder(t, alice, mint, 1000)
	bobAcc := f.holder(t, bob, mint, 0)
	bobOther := f.holder(t, bob, otherMint, 0)

	cases := map[string]struct {
		auth     custody.Address
		to       custody.Address
		mint     custody.Address
		amount   uint64
		decimals uint8
		wantErr  *errors.Error
	}{
		"not signed by the owner": {
			auth: bob, to: bobAcc, mint: mint, amount: 1, decimals: 6,
			wantErr: errors.ErrUnauthorized,
		},
		"wrong mint": {
			auth: alice, to: bobAcc, mint: otherMint, amount: 1, decimals: 6,
			wantErr: errors.ErrMismatch,
		},
		"destination of another mint": {
			auth: alice, to: bobOther, mint: mint, amount: 1, decimals: 6,
			wantErr: errors.ErrMismatch,
		},
		"wrong decimals": {
			auth: alice, to: bobAcc, mint: mint, amount: 1, decimals: 2,
			wantErr: errors.ErrPrecision,
		},
		"too much": {
			auth: alice, to: bobAcc, mint: mint, amount: 1001, decimals: 6,
			wantErr: errors.ErrInsufficientAmount,
		},
		"missing destination": {
			auth: alice, to: custodytest.RandomAddr(t), mint: mint, amount: 1, decimals: 6,
			wantErr: errors.ErrNotFound,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			cache := f.db.CacheWrap()
			defer cache.Discard()
			err := f.ctrl.TransferChecked(cache, f.signer(t, tc.auth), aliceAcc, tc.to, tc.mint, tc.amount, tc.decimals)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}

	require.NoError(t, f.ctrl.TransferChecked(f.db, f.signer(t, alice), aliceAcc, bobAcc, mint, 400, 6))
	got, err := f.ctrl.Balance(f.db, aliceAcc)
	require.NoError(t, err)
	assert.EqualValues(t, 600, got)
	got, err = f.ctrl.Balance(f.db, bobAcc)
	require.NoError(t, err)
	assert.EqualValues(t, 400, got)

	m, err := f.ctrl.Mint(f.db, mint)
	require.NoError(t, err)
	assert.EqualValues(t, 1000, m.Supply)
}

func TestProgramOwnedAccount(t *testing.T) {
	f := newFixture(t)
	mint := f.mint(t, 0)
	p := custodytest.RandomProgram(t)

	vaultOwner, bump, err := p.Derive([]byte("vault"))
	require.NoError(t, err)
	vault := f.holder(t, vaultOwner, mint, 10)
	dest := f.holder(t, custodytest.RandomAddr(t), mint, 0)

	// the wrong proof does not authorize the transfer
	if bad, err := p.Authorize(bump-1, []byte("vault")); err == nil {
		err = f.ctrl.TransferChecked(f.db, bad, vault, dest, mint, 10, 0)
		assert.True(t, errors.ErrUnauthorized.Is(err))
	}

	auth, err := p.Authorize(bump, []byte("vault"))
	require.NoError(t, err)

	// a non empty account cannot be closed
	err = f.ctrl.CloseAccount(f.db, auth, vault, f.payer)
	assert.True(t, errors.ErrState.Is(err))

	require.NoError(t, f.ctrl.TransferChecked(f.db, auth, vault, dest, mint, 10, 0))

	before, err := f.cash.Balance(f.db, f.payer)
	require.NoError(t, err)
	rent, err := f.cash.MinimumBalance(f.db, AccountSize)
	require.NoError(t, err)

	require.NoError(t, f.ctrl.CloseAccount(f.db, auth, vault, f.payer))
	after, err := f.cash.Balance(f.db, f.payer)
	require.NoError(t, err)
	assert.Equal(t, before+rent, after)

	_, err = f.ctrl.Account(f.db, vault)
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = f.cash.Account(f.db, vault)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestEnsureAssociatedAccount(t *testing.T) {
	f := newFixture(t)
	mint := f.mint(t, 2)
	owner := custodytest.RandomAddr(t)

	addr, err := f.ctrl.EnsureAssociatedAccount(f.db, f.signer(t, f.payer), owner, mint)
	require.NoError(t, err)
	again, err := f.ctrl.EnsureAssociatedAccount(f.db, f.signer(t, f.payer), owner, mint)
	require.NoError(t, err)
	assert.Equal(t, addr, again)

	_, err = f.ctrl.CreateAssociatedAccount(f.db, f.signer(t, f.payer), owner, mint)
	assert.True(t, errors.ErrDuplicate.Is(err))

	_, err = f.ctrl.EnsureAssociatedAccount(f.db, f.signer(t, f.payer), owner, custodytest.RandomAddr(t))
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestMintTo(t *testing.T) {
	f := newFixture(t)
	mint := f.mint(t, 0)
	acc := f.holder(t, custodytest.RandomAddr(t), mint, 0)

	stranger := custodytest.RandomAddr(t)
	err := f.ctrl.MintTo(f.db, f.signer(t, stranger), mint, acc, 5)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	require.NoError(t, f.ctrl.MintTo(f.db, f.signer(t, f.payer), mint, acc, ^uint64(0)))
	err = f.ctrl.MintTo(f.db, f.signer(t, f.payer), mint, acc, 1)
	assert.True(t, errors.ErrOverflow.Is(err))
}
