package utils

import (
	"time"

	"github.com/iov-one/custody"
)

// Logging writes one entry per processed transaction with the operation
// path and the duration in microseconds. Failures are logged as errors,
// successful delivers as info and successful checks as debug.
type Logging struct{}

var _ custody.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	entry := txEntry{ctx: ctx, tx: tx, start: start, err: err, quiet: true}
	if err == nil {
		entry.msg = res.Log
	}
	entry.write()
	return res, err
}

func (Logging) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	entry := txEntry{ctx: ctx, tx: tx, start: start, err: err}
	if err == nil {
		entry.msg = res.Log
	}
	entry.write()
	return res, err
}

type txEntry struct {
	ctx   custody.Context
	tx    custody.Tx
	start time.Time
	msg   string
	err   error
	// quiet successes are logged at debug level.
	quiet bool
}

// write emits the entry even when msg is empty, the path and duration are
// worth having.
func (e txEntry) write() {
	logger := custody.GetLogger(e.ctx).With(
		"path", custody.GetPath(e.tx),
		"duration", time.Since(e.start)/time.Microsecond)
	switch {
	case e.err != nil:
		logger.With("err", e.err).Error(e.msg)
	case e.quiet:
		logger.Debug(e.msg)
	default:
		logger.Info(e.msg)
	}
}
