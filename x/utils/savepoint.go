package utils

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// Savepoint runs the rest of the chain on a cache wrap of the store. The
// wrap is written when the chain succeeds and discarded when it fails, so
// a multi-step operation either applies every change or none.
//
// A zero Savepoint does nothing. Enable it per phase with OnCheck and
// OnDeliver.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ custody.Decorator = Savepoint{}

// NewSavepoint returns a Savepoint enabled for no phase.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck enables the savepoint for CheckTx.
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver enables the savepoint for DeliverTx.
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

func (s Savepoint) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	var res *custody.CheckResult
	err := atomically(s.onCheck, store, func(db custody.KVStore) (err error) {
		res, err = next.Check(ctx, db, tx)
		return err
	})
	return res, err
}

func (s Savepoint) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	var res *custody.DeliverResult
	err := atomically(s.onDeliver, store, func(db custody.KVStore) (err error) {
		res, err = next.Deliver(ctx, db, tx)
		return err
	})
	return res, err
}

// atomically calls fn with a cache wrap of store when enabled and the store
// supports it, and with store itself otherwise.
func atomically(enabled bool, store custody.KVStore, fn func(custody.KVStore) error) error {
	cacheable, ok := store.(custody.CacheableKVStore)
	if !enabled || !ok {
		return fn(store)
	}
	cache := cacheable.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "writing savepoint")
	}
	return nil
}
