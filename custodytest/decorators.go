package custodytest

import "github.com/iov-one/custody"

// Decorator counts its calls and passes through to the next handler,
// unless CheckErr or DeliverErr is set. A call is counted even when it
// returns an error.
type Decorator struct {
	CheckErr   error
	DeliverErr error

	checks, delivers int
}

var _ custody.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	d.checks++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	d.delivers++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int   { return d.checks }
func (d *Decorator) DeliverCallCount() int { return d.delivers }

// Decorate returns a handler running h inside the decorators. The first
// decorator is the outermost one.
func Decorate(h custody.Handler, decorators ...custody.Decorator) custody.Handler {
	for i := len(decorators) - 1; i >= 0; i-- {
		h = decorated{dec: decorators[i], next: h}
	}
	return h
}

type decorated struct {
	dec  custody.Decorator
	next custody.Handler
}

func (d decorated) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	return d.dec.Check(ctx, db, tx, d.next)
}

func (d decorated) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	return d.dec.Deliver(ctx, db, tx, d.next)
}
