package custody_test

import (
	"context"
	"testing"

	"github.com/iov-one/custody"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestContext(t *testing.T) {
	ctx := context.Background()

	_, ok := custody.GetHeight(ctx)
	assert.False(t, ok)

	ctx = custody.WithHeight(ctx, 42)
	height, ok := custody.GetHeight(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(42), height)
	assert.Panics(t, func() { custody.WithHeight(ctx, 43) })

	assert.Panics(t, func() { custody.WithChainID(ctx, "bad") })
	ctx = custody.WithChainID(ctx, "custody-test")
	assert.Equal(t, "custody-test", custody.GetChainID(ctx))
	assert.Panics(t, func() { custody.WithChainID(ctx, "custody-other") })

	assert.Equal(t, custody.DefaultLogger, custody.GetLogger(ctx))
	logger := log.NewNopLogger().With("module", "test")
	ctx = custody.WithLogger(ctx, logger)
	assert.Equal(t, logger, custody.GetLogger(ctx))
}

type staticAuth []custody.Address

func (s staticAuth) GetSigners(custody.Context) []custody.Address { return s }

func (s staticAuth) HasAddress(_ custody.Context, addr custody.Address) bool {
	for _, a := range s {
		if a.Equals(addr) {
			return true
		}
	}
	return false
}

func TestSignerAuthority(t *testing.T) {
	ctx := context.Background()
	alice, bob := randomAddress(t), randomAddress(t)
	auth := custody.ChainAuth(staticAuth{alice}, staticAuth{})

	a, err := custody.Signer(ctx, auth, alice)
	assert.NoError(t, err)
	assert.Equal(t, alice, a.Address())
	assert.False(t, custody.IsProgramAuthority(a, alice))

	_, err = custody.Signer(ctx, auth, bob)
	assert.Error(t, err)

	assert.Len(t, auth.GetSigners(ctx), 1)
}
