package utils

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/tendermint/tendermint/libs/common"
)

// ActionKey is the tag key holding the operation path, for example
// "escrow/take". Clients search and subscribe on it.
const ActionKey = "action"

// ActionTagger resolves the message before anything else runs, so an
// undecodable instruction is rejected without touching signer state. A
// successful deliver is tagged with ActionKey.
type ActionTagger struct{}

var _ custody.Decorator = ActionTagger{}

// NewActionTagger creates a ActionTagger decorator
func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

func (ActionTagger) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	if _, err := action(tx); err != nil {
		return nil, err
	}
	return next.Check(ctx, db, tx)
}

func (ActionTagger) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	path, err := action(tx)
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, common.KVPair{
		Key:   []byte(ActionKey),
		Value: []byte(path),
	})
	return res, nil
}

func action(tx custody.Tx) (string, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return "", err
	}
	if msg == nil {
		return "", errors.Wrap(errors.ErrMsg, "transaction without message")
	}
	return msg.Path(), nil
}
