package orm

import (
	"encoding/binary"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// offer is a minimal model: an owner byte and an amount.
type offer struct {
	Owner  byte
	Amount uint64
}

func (o *offer) Validate() error {
	if o.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "amount")
	}
	return nil
}

func (o *offer) Marshal() ([]byte, error) {
	raw := make([]byte, 9)
	raw[0] = o.Owner
	binary.LittleEndian.PutUint64(raw[1:], o.Amount)
	return raw, nil
}

func (o *offer) Unmarshal(raw []byte) error {
	if len(raw) != 9 {
		return errors.Wrap(errors.ErrInput, "offer length")
	}
	o.Owner = raw[0]
	o.Amount = binary.LittleEndian.Uint64(raw[1:])
	return nil
}

type other struct{ offer }

func ownerIndexer(m Model) ([]byte, error) {
	o, ok := m.(*offer)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return []byte{o.Owner}, nil
}

func newOffers(unique bool) ModelBucket {
	return NewModelBucket("offers", &offer{}, WithIndex("owner", ownerIndexer, unique))
}

func TestModelBucketPutOneDelete(t *testing.T) {
	db := store.MemStore()
	b := newOffers(false)

	var got offer
	assert.True(t, errors.ErrNotFound.Is(b.One(db, []byte("a"), &got)))
	assert.True(t, errors.ErrNotFound.Is(b.Has(db, []byte("a"))))

	require.NoError(t, b.Put(db, []byte("a"), &offer{Owner: 1, Amount: 10}))
	require.NoError(t, b.One(db, []byte("a"), &got))
	assert.Equal(t, offer{Owner: 1, Amount: 10}, got)
	assert.NoError(t, b.Has(db, []byte("a")))

	assert.True(t, errors.ErrAmount.Is(b.Put(db, []byte("b"), &offer{Owner: 1})))
	assert.True(t, errors.ErrEmpty.Is(b.Put(db, nil, &offer{Owner: 1, Amount: 1})))
	assert.True(t, errors.ErrType.Is(b.Put(db, []byte("c"), &other{offer{Owner: 1, Amount: 1}})))
	assert.True(t, errors.ErrType.Is(b.One(db, []byte("a"), &other{})))

	require.NoError(t, b.Delete(db, []byte("a")))
	assert.True(t, errors.ErrNotFound.Is(b.One(db, []byte("a"), &got)))
	assert.True(t, errors.ErrNotFound.Is(b.Delete(db, []byte("a"))))
}

func TestModelBucketIndex(t *testing.T) {
	db := store.MemStore()
	b := newOffers(false)

	require.NoError(t, b.Put(db, []byte("a"), &offer{Owner: 1, Amount: 10}))
	require.NoError(t, b.Put(db, []byte("b"), &offer{Owner: 1, Amount: 20}))
	require.NoError(t, b.Put(db, []byte("c"), &offer{Owner: 2, Amount: 30}))

	var offers []*offer
	keys, err := b.ByIndex(db, "owner", []byte{1}, &offers)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b")}, keys)
	assert.Equal(t, []*offer{{Owner: 1, Amount: 10}, {Owner: 1, Amount: 20}}, offers)

	// moving an offer to another owner updates the index
	require.NoError(t, b.Put(db, []byte("b"), &offer{Owner: 2, Amount: 20}))
	keys, err = b.ByIndex(db, "owner", []byte{1}, &offers)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("a")}, keys)

	require.NoError(t, b.Delete(db, []byte("a")))
	keys, err = b.ByIndex(db, "owner", []byte{1}, &offers)
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.Empty(t, offers)

	keys, err = b.ByIndex(db, "owner", []byte{2}, &offers)
	require.NoError(t, err)
	assert.Len(t, keys, 2)

	_, err = b.ByIndex(db, "amount", []byte{2}, &offers)
	assert.True(t, errors.ErrInput.Is(err))
	var wrong []offer
	_, err = b.ByIndex(db, "owner", []byte{2}, &wrong)
	assert.True(t, errors.ErrType.Is(err))
}

func TestModelBucketUniqueIndex(t *testing.T) {
	db := store.MemStore()
	b := newOffers(true)

	require.NoError(t, b.Put(db, []byte("a"), &offer{Owner: 1, Amount: 10}))
	// updating the same entity keeps the index value
	require.NoError(t, b.Put(db, []byte("a"), &offer{Owner: 1, Amount: 11}))

	err := b.Put(db, []byte("b"), &offer{Owner: 1, Amount: 20})
	assert.True(t, errors.ErrDuplicate.Is(err))
}

func TestModelBucketQuery(t *testing.T) {
	db := store.MemStore()
	b := newOffers(false)
	qr := custody.NewQueryRouter()
	b.Register("offers", qr)

	require.NoError(t, b.Put(db, []byte("aa"), &offer{Owner: 1, Amount: 10}))
	require.NoError(t, b.Put(db, []byte("ab"), &offer{Owner: 2, Amount: 20}))
	require.NoError(t, b.Put(db, []byte("b"), &offer{Owner: 1, Amount: 30}))

	h := qr.Handler("/offers")
	require.NotNil(t, h)

	res, err := h.Query(db, custody.KeyQueryMod, []byte("ab"))
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, []byte("ab"), res[0].Key)

	res, err = h.Query(db, custody.KeyQueryMod, []byte("zz"))
	require.NoError(t, err)
	assert.Empty(t, res)

	res, err = h.Query(db, custody.PrefixQueryMod, []byte("a"))
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, []byte("aa"), res[0].Key)

	_, err = h.Query(db, "range", nil)
	assert.True(t, errors.ErrInput.Is(err))

	res, err = qr.Handler("/offers/owner").Query(db, custody.KeyQueryMod, []byte{1})
	require.NoError(t, err)
	require.Len(t, res, 2)
	var got offer
	require.NoError(t, got.Unmarshal(res[1].Value))
	assert.Equal(t, uint64(30), got.Amount)
}
