package store

import (
	"bytes"

	"github.com/google/btree"
)

// cachedRange returns all items of the btree within [start, end) in the
// order of iteration. A nil start or end means the range is unbounded on
// that side.
func cachedRange(bt *btree.BTree, start, end []byte, ascending bool) []keyer {
	var res []keyer
	collect := func(i btree.Item) bool {
		k := i.(keyer)
		if end != nil && bytes.Compare(k.Key(), end) >= 0 {
			return false
		}
		res = append(res, k)
		return true
	}
	if start == nil {
		bt.Ascend(collect)
	} else {
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	}
	if !ascending {
		for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
			res[i], res[j] = res[j], res[i]
		}
	}
	return res
}

// mergeIterator combines the cached writes with the parent iterator.
// Cached items shadow parent items with the same key, and deleted items
// hide them.
type mergeIterator struct {
	parent    Iterator
	cached    []keyer
	pos       int
	ascending bool

	valid bool
	key   []byte
	value []byte
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(parent Iterator, cached []keyer, ascending bool) (*mergeIterator, error) {
	it := &mergeIterator{
		parent:    parent,
		cached:    cached,
		ascending: ascending,
	}
	if err := it.advance(); err != nil {
		it.Close()
		return nil, err
	}
	return it, nil
}

// advance loads the next visible element into the cursor.
func (m *mergeIterator) advance() error {
	for {
		parentValid := m.parent.Valid()
		cacheValid := m.pos < len(m.cached)
		if !parentValid && !cacheValid {
			m.valid = false
			return nil
		}

		useCache, shadowed := cacheValid, false
		if parentValid && cacheValid {
			cmp := bytes.Compare(m.cached[m.pos].Key(), m.parent.Key())
			if !m.ascending {
				cmp = -cmp
			}
			useCache = cmp <= 0
			shadowed = cmp == 0
		}

		if !useCache {
			m.key, m.value, m.valid = m.parent.Key(), m.parent.Value(), true
			return m.parent.Next()
		}

		item := m.cached[m.pos]
		m.pos++
		if shadowed {
			if err := m.parent.Next(); err != nil {
				return err
			}
		}
		if s, ok := item.(setItem); ok {
			m.key, m.value, m.valid = s.key, s.value, true
			return nil
		}
	}
}

// Valid returns whether the current position is valid.
func (m *mergeIterator) Valid() bool {
	return m.valid
}

// Next moves to the next visible element.
func (m *mergeIterator) Next() error {
	m.assertValid()
	return m.advance()
}

// Key returns the key of the cursor.
func (m *mergeIterator) Key() []byte {
	m.assertValid()
	return m.key
}

// Value returns the value of the cursor.
func (m *mergeIterator) Value() []byte {
	m.assertValid()
	return m.value
}

// Close releases the Iterator.
func (m *mergeIterator) Close() {
	m.parent.Close()
	m.cached = nil
	m.valid = false
}

func (m *mergeIterator) assertValid() {
	if !m.valid {
		panic("iterator is not valid")
	}
}
