package custody

import (
	"github.com/iov-one/custody/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	common "github.com/tendermint/tendermint/libs/common"
)

// DeliverResult is the outcome of a successful DeliverTx. Failures are
// reported as errors, never as a result.
type DeliverResult struct {
	// Data is the machine readable return value, for example the address
	// of a created escrow.
	Data []byte
	// Log is a human readable message.
	Log string
	// Tags are indexed by tendermint for transaction search.
	Tags []common.KVPair
}

// ToABCI converts the result into a DeliverTx response.
func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{Data: d.Data, Log: d.Log, Tags: d.Tags}
}

// CheckResult is the outcome of a successful CheckTx.
type CheckResult struct {
	Data []byte
	Log  string
}

// ToABCI converts the result into a CheckTx response.
func (c CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{Data: c.Data, Log: c.Log}
}

// DeliverOrError returns the response for err if set, and for result
// otherwise.
func DeliverOrError(result *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return DeliverTxError(err, debug)
	}
	return result.ToABCI()
}

// CheckOrError returns the response for err if set, and for result
// otherwise.
func CheckOrError(result *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		return CheckTxError(err, debug)
	}
	return result.ToABCI()
}

// ParseDeliverOrError turns a DeliverTx response back into a result, or
// into an error that can be tested with errors.ErrX.Is.
func ParseDeliverOrError(res abci.ResponseDeliverTx) (*DeliverResult, error) {
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return &DeliverResult{Data: res.Data, Log: res.Log, Tags: res.Tags}, nil
}

// DeliverTxError converts err into a failed DeliverTx response. Without
// debug the log of an error that has no ABCI code is redacted.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := errorInfo("cannot deliver tx", err, debug)
	return abci.ResponseDeliverTx{Code: code, Log: log}
}

// CheckTxError converts err into a failed CheckTx response.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := errorInfo("cannot check tx", err, debug)
	return abci.ResponseCheckTx{Code: code, Log: log}
}

func errorInfo(prefix string, err error, debug bool) (uint32, string) {
	code, log := errors.ABCIInfo(err, debug)
	if code != errors.SuccessABCICode {
		log = prefix + ": " + log
	}
	return code, log
}
