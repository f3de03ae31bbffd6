package vault

import (
	"context"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const funds = 10000000

type fixture struct {
	db    custody.CacheableKVStore
	auth  *custodytest.CtxAuth
	cash  cash.Controller
	owner custody.Address
	vault custody.Address
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	f := &fixture{
		db:    store.MemStore(),
		auth:  &custodytest.CtxAuth{Key: "signers"},
		cash:  cash.NewController(),
		owner: custodytest.RandomAddr(t),
	}
	acc := cash.Account{Lamports: funds, Owner: custody.SystemProgram}
	require.NoError(t, cash.NewBucket().Put(f.db, f.owner, &acc))
	vault, _, err := Address(f.owner)
	require.NoError(t, err)
	f.vault = vault
	return f
}

func (f *fixture) deliver(h custody.Handler, msg custody.Msg, signers ...custody.Address) error {
	ctx := f.auth.SetSigners(context.Background(), signers...)
	wrapped := custodytest.Decorate(h, utils.NewSavepoint().OnDeliver())
	_, err := wrapped.Deliver(ctx, f.db, &custodytest.Tx{Msg: msg})
	return err
}

func (f *fixture) balance(t testing.TB, addr custody.Address) uint64 {
	t.Helper()
	b, err := f.cash.Balance(f.db, addr)
	require.NoError(t, err)
	return b
}

func TestDepositAndWithdraw(t *testing.T) {
	f := newFixture(t)
	deposit := NewDepositHandler(f.auth, f.cash)
	withdraw := NewWithdrawHandler(f.auth, f.cash)

	require.NoError(t, f.deliver(deposit, &DepositMsg{Owner: f.owner, Amount: 1000000}, f.owner))
	assert.EqualValues(t, 1000000, f.balance(t, f.vault))
	assert.EqualValues(t, funds-1000000, f.balance(t, f.owner))

	// a vault holding funds cannot be topped up
	err := f.deliver(deposit, &DepositMsg{Owner: f.owner, Amount: 2000000}, f.owner)
	assert.True(t, ErrVaultAlreadyExists.Is(err))
	assert.EqualValues(t, 1000000, f.balance(t, f.vault))
	err = f.deliver(deposit, &DepositMsg{Owner: f.owner, Amount: 0}, f.owner)
	assert.True(t, ErrVaultAlreadyExists.Is(err))
	assert.EqualValues(t, 1000000, f.balance(t, f.vault))

	require.NoError(t, f.deliver(withdraw, &WithdrawMsg{Owner: f.owner}, f.owner))
	assert.EqualValues(t, 0, f.balance(t, f.vault))
	assert.EqualValues(t, funds, f.balance(t, f.owner))

	err = f.deliver(withdraw, &WithdrawMsg{Owner: f.owner}, f.owner)
	assert.True(t, errors.ErrAmount.Is(err))

	// an emptied vault can be funded again
	require.NoError(t, f.deliver(deposit, &DepositMsg{Owner: f.owner, Amount: 900000}, f.owner))
	assert.EqualValues(t, 900000, f.balance(t, f.vault))
}

func TestDepositFailures(t *testing.T) {
	min, err := cash.DefaultConfiguration.MinimumBalance(0)
	require.NoError(t, err)

	cases := map[string]struct {
		amount  uint64
		signed  bool
		wantErr *errors.Error
	}{
		"exactly the minimum balance": {
			amount:  min,
			signed:  true,
			wantErr: errors.ErrAmount,
		},
		"zero": {
			amount:  0,
			signed:  true,
			wantErr: errors.ErrAmount,
		},
		"not signed": {
			amount:  min + 1,
			wantErr: errors.ErrUnauthorized,
		},
		"more than the owner holds": {
			amount:  funds + 1,
			signed:  true,
			wantErr: errors.ErrInsufficientAmount,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			var signers []custody.Address
			if tc.signed {
				signers = append(signers, f.owner)
			}
			err := f.deliver(NewDepositHandler(f.auth, f.cash), &DepositMsg{Owner: f.owner, Amount: tc.amount}, signers...)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			assert.EqualValues(t, 0, f.balance(t, f.vault))
			assert.EqualValues(t, funds, f.balance(t, f.owner))
		})
	}
}

func TestWithdrawRequiresOwner(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.deliver(NewDepositHandler(f.auth, f.cash), &DepositMsg{Owner: f.owner, Amount: 1000000}, f.owner))

	thief := custodytest.RandomAddr(t)
	withdraw := NewWithdrawHandler(f.auth, f.cash)

	err := f.deliver(withdraw, &WithdrawMsg{Owner: f.owner}, thief)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// the thief only reaches its own, empty vault
	err = f.deliver(withdraw, &WithdrawMsg{Owner: thief}, thief)
	assert.True(t, errors.ErrAmount.Is(err))
	assert.EqualValues(t, 1000000, f.balance(t, f.vault))
}

func TestVaultIsNotSpendableByKey(t *testing.T) {
	owner := custodytest.RandomAddr(t)
	vault, _, err := Address(owner)
	require.NoError(t, err)
	assert.False(t, custody.IsOnCurve(vault))
	assert.NotEqual(t, owner, vault)
}
