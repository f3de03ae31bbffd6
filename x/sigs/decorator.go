package sigs

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// Decorator verifies the signatures of a SignedTx against the signer
// sequences and makes the signers available to Authenticate. Once all
// signatures verify, every signer sequence is incremented, whatever happens
// further down the chain.
//
// Transactions that do not implement SignedTx pass through unchanged.
type Decorator struct {
	allowMissingSigs bool
}

var _ custody.Decorator = Decorator{}

// NewDecorator returns a decorator that requires at least one signature.
func NewDecorator() Decorator {
	return Decorator{}
}

// AllowMissingSigs lets unsigned transactions through with no signers.
func (d Decorator) AllowMissingSigs() Decorator {
	d.allowMissingSigs = true
	return d
}

func (d Decorator) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	ctx, err := d.authenticate(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	return next.Check(ctx, store, tx)
}

func (d Decorator) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	ctx, err := d.authenticate(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, store, tx)
}

func (d Decorator) authenticate(ctx custody.Context, store custody.KVStore, tx custody.Tx) (custody.Context, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return ctx, nil
	}
	signers, err := VerifyTxSignatures(store, stx, custody.GetChainID(ctx))
	switch {
	case err != nil:
		return nil, errors.Wrap(err, "cannot verify signatures")
	case len(signers) == 0 && !d.allowMissingSigs:
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	custody.GetLogger(ctx).Debug("Signatures verified", "signers", len(signers))
	return withSigners(ctx, signers), nil
}
