package sigs

import (
	"testing"

	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserModel(t *testing.T) {
	db := store.MemStore()
	bucket := NewBucket()
	pub := custodytest.NewKey().PublicKey()

	user, err := bucket.GetOrCreate(db, pub)
	require.NoError(t, err)
	assert.NoError(t, user.Validate())
	assert.Equal(t, int64(0), user.Sequence)

	assert.True(t, ErrInvalidSequence.Is(user.CheckAndIncrementSequence(5)))
	assert.NoError(t, user.CheckAndIncrementSequence(0))
	assert.Error(t, user.CheckAndIncrementSequence(0))
	assert.NoError(t, user.CheckAndIncrementSequence(1))
	assert.Equal(t, int64(2), user.Sequence)

	require.NoError(t, bucket.Save(db, user))
	loaded, err := bucket.GetOrCreate(db, pub)
	require.NoError(t, err)
	assert.Equal(t, int64(2), loaded.Sequence)
	assert.Equal(t, pub, loaded.Pubkey)

	user.Sequence = (1 << 53) - 1
	assert.True(t, errors.ErrOverflow.Is(user.CheckAndIncrementSequence(user.Sequence)))
}

func TestUserValidation(t *testing.T) {
	assert.Error(t, (&UserData{}).Validate())

	u := &UserData{Pubkey: custodytest.NewKey().PublicKey(), Sequence: -30}
	assert.Error(t, u.Validate())
	u.Sequence = 17
	assert.NoError(t, u.Validate())

	var back UserData
	assert.True(t, errors.ErrModel.Is(back.Unmarshal([]byte{1, 2, 3})))
}
