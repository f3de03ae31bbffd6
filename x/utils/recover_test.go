package utils

import (
	"context"
	"testing"

	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/stretchr/testify/require"
)

func TestRecovery(t *testing.T) {
	h := custodytest.Decorate(custodytest.PanicHandler{}, NewRecovery())
	db := store.MemStore()
	tx := &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "test/panic"}}

	_, err := h.Check(context.Background(), db, tx)
	require.Error(t, err)
	require.True(t, errors.ErrPanic.Is(err))
	require.Contains(t, err.Error(), "check panic")

	_, err = h.Deliver(context.Background(), db, tx)
	require.Error(t, err)
	require.True(t, errors.ErrPanic.Is(err))
	require.Contains(t, err.Error(), "deliver panic")
}
