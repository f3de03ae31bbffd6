package utils

import (
	"context"
	"testing"

	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionTagger(t *testing.T) {
	db := store.MemStore()
	ctx := context.Background()

	h := custodytest.Decorate(&custodytest.Handler{}, NewActionTagger())
	tx := &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "escrow/make"}}

	res, err := h.Deliver(ctx, db, tx)
	require.NoError(t, err)
	require.Len(t, res.Tags, 1)
	assert.Equal(t, ActionKey, string(res.Tags[0].Key))
	assert.Equal(t, "escrow/make", string(res.Tags[0].Value))

	// check results carry no tags
	_, err = h.Check(ctx, db, tx)
	require.NoError(t, err)

	failing := custodytest.Decorate(&custodytest.Handler{DeliverErr: errors.ErrState}, NewActionTagger())
	_, err = failing.Deliver(ctx, db, tx)
	assert.True(t, errors.ErrState.Is(err))

	broken := &custodytest.Tx{Err: errors.ErrInput}
	_, err = h.Deliver(ctx, db, broken)
	assert.True(t, errors.ErrInput.Is(err))
	_, err = h.Check(ctx, db, broken)
	assert.True(t, errors.ErrInput.Is(err))

	// the handler never ran for the broken transaction
	handler := &custodytest.Handler{}
	guarded := custodytest.Decorate(handler, NewActionTagger())
	_, err = guarded.Check(ctx, db, &custodytest.Tx{})
	assert.True(t, errors.ErrMsg.Is(err))
	assert.Equal(t, 0, handler.CallCount())
}
