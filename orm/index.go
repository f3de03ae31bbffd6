package orm

import (
	"encoding/binary"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
)

const idxPrefix = "_i."

// Indexer calculates the secondary index value for a given model. A nil
// value means the model is not indexed.
type Indexer func(Model) ([]byte, error)

// index keeps one database entry per indexed model. The entry key is the
// index prefix, the length prefixed index value and the primary key of the
// model. The entry value is the primary key.
type index struct {
	name    string
	prefix  []byte
	indexer Indexer
	unique  bool
}

func newIndex(bucket, name string, indexer Indexer, unique bool) *index {
	return &index{
		name:    name,
		prefix:  []byte(idxPrefix + bucket + "_" + name + ":"),
		indexer: indexer,
		unique:  unique,
	}
}

// valuePrefix returns the common prefix of all entries for given value.
func (i *index) valuePrefix(value []byte) []byte {
	res := make([]byte, 0, len(i.prefix)+2+len(value))
	res = append(res, i.prefix...)
	var size [2]byte
	binary.BigEndian.PutUint16(size[:], uint16(len(value)))
	res = append(res, size[:]...)
	return append(res, value...)
}

func (i *index) entryKey(value, key []byte) []byte {
	return append(i.valuePrefix(value), key...)
}

// update moves the entry of the primary key from the value of prev to the
// value of next. Either of them can be nil for insert and delete.
func (i *index) update(db custody.KVStore, key []byte, prev, next Model) error {
	var prevVal, nextVal []byte
	var err error
	if prev != nil {
		if prevVal, err = i.indexer(prev); err != nil {
			return err
		}
	}
	if next != nil {
		if nextVal, err = i.indexer(next); err != nil {
			return err
		}
	}
	if len(nextVal) > 0xffff {
		return errors.Wrap(errors.ErrInput, "index value too long")
	}

	if prevVal != nil {
		if err := db.Delete(i.entryKey(prevVal, key)); err != nil {
			return err
		}
	}
	if nextVal == nil {
		return nil
	}
	if i.unique {
		keys, err := i.keys(db, nextVal)
		if err != nil {
			return err
		}
		for _, k := range keys {
			if string(k) != string(key) {
				return errors.Wrapf(errors.ErrDuplicate, "index %q value already used", i.name)
			}
		}
	}
	return db.Set(i.entryKey(nextVal, key), key)
}

// keys returns the primary keys of all models indexed under value.
func (i *index) keys(db custody.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	it, err := store.PrefixIterator(db, i.valuePrefix(value))
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var res [][]byte
	for it.Valid() {
		res = append(res, append([]byte(nil), it.Value()...))
		if err := it.Next(); err != nil {
			return nil, err
		}
	}
	return res, nil
}
