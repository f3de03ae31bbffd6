package sigs

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
)

// signedTx is a minimal transaction carrying raw sign bytes.
type signedTx struct {
	custodytest.Tx
	data       []byte
	signatures []*StdSignature
}

var _ SignedTx = (*signedTx)(nil)
var _ custody.Tx = (*signedTx)(nil)

func newSignedTx(data []byte) *signedTx {
	return &signedTx{
		Tx:   custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "test/signed"}},
		data: data,
	}
}

func (tx *signedTx) GetSignBytes() ([]byte, error) {
	return tx.data, nil
}

func (tx *signedTx) GetSignatures() []*StdSignature {
	return tx.signatures
}

// signerRecorder stores the seen signers on each call.
type signerRecorder struct {
	signers []custody.Address
}

func (s *signerRecorder) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	s.signers = Authenticate{}.GetSigners(ctx)
	return &custody.CheckResult{}, nil
}

func (s *signerRecorder) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	s.signers = Authenticate{}.GetSigners(ctx)
	return &custody.DeliverResult{}, nil
}
