package orm

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
)

func (mb *modelBucket) Register(name string, r custody.QueryRouter) {
	r.Register("/"+name, bucketQuery{mb})
	for _, idx := range mb.indexes {
		r.Register("/"+name+"/"+idx.name, indexQuery{mb: mb, idx: idx})
	}
}

// bucketQuery returns stored models by primary key or primary key prefix.
// Returned keys are the primary keys, without the bucket prefix.
type bucketQuery struct {
	mb *modelBucket
}

func (q bucketQuery) Query(db custody.ReadOnlyKVStore, mod string, data []byte) ([]custody.Model, error) {
	switch mod {
	case custody.KeyQueryMod:
		raw, err := db.Get(q.mb.dbKey(data))
		if err != nil || raw == nil {
			return nil, err
		}
		return []custody.Model{custody.Pair(data, raw)}, nil
	case custody.PrefixQueryMod:
		it, err := store.PrefixIterator(db, q.mb.dbKey(data))
		if err != nil {
			return nil, err
		}
		return consumeIterator(it, len(q.mb.prefix))
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod %q", mod)
	}
}

// indexQuery returns all stored models referenced by the index value.
type indexQuery struct {
	mb  *modelBucket
	idx *index
}

func (q indexQuery) Query(db custody.ReadOnlyKVStore, mod string, data []byte) ([]custody.Model, error) {
	if mod != custody.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unsupported query mod %q", mod)
	}
	keys, err := q.idx.keys(db, data)
	if err != nil {
		return nil, err
	}
	res := make([]custody.Model, 0, len(keys))
	for _, key := range keys {
		raw, err := db.Get(q.mb.dbKey(key))
		if err != nil {
			return nil, err
		}
		if raw == nil {
			return nil, errors.Wrapf(errors.ErrNotFound, "index %q references a missing entity", q.idx.name)
		}
		res = append(res, custody.Pair(key, raw))
	}
	return res, nil
}

// consumeIterator will read all remaining data into an array, stripping
// given number of bytes from each key, and close the iterator.
func consumeIterator(it custody.Iterator, strip int) ([]custody.Model, error) {
	defer it.Close()

	var res []custody.Model
	for it.Valid() {
		res = append(res, custody.Pair(it.Key()[strip:], it.Value()))
		if err := it.Next(); err != nil {
			return nil, err
		}
	}
	return res, nil
}
