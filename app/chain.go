package app

import (
	"reflect"

	"github.com/iov-one/custody"
)

// Decorators is an ordered list of decorators waiting for the handler they
// wrap. The first decorator runs first.
//
//	app.ChainDecorators(
//	  utils.NewRecovery(),
//	  utils.NewLogging(),
//	  sigs.NewDecorator(),
//	  utils.NewSavepoint().OnDeliver(),
//	).WithHandler(dispatcher)
type Decorators struct {
	chain []custody.Decorator
}

// ChainDecorators starts a chain. Nil decorators are skipped, so optional
// ones can be passed unconditionally.
func ChainDecorators(chain ...custody.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain returns a new chain with the given decorators appended. The
// receiver is not modified.
func (d Decorators) Chain(chain ...custody.Decorator) Decorators {
	next := make([]custody.Decorator, 0, len(d.chain)+len(chain))
	next = append(next, d.chain...)
	for _, dec := range chain {
		if !isNil(dec) {
			next = append(next, dec)
		}
	}
	return Decorators{chain: next}
}

func isNil(d custody.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler closes the chain with h.
func (d Decorators) WithHandler(h custody.Handler) custody.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = link{dec: d.chain[i], next: h}
	}
	return h
}

// link runs one decorator around the rest of the chain.
type link struct {
	dec  custody.Decorator
	next custody.Handler
}

var _ custody.Handler = link{}

func (l link) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	return l.dec.Check(ctx, store, tx, l.next)
}

func (l link) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	return l.dec.Deliver(ctx, store, tx, l.next)
}
