/*
Package app links together all the various components
to construct the custodyd application.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/app"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store/iavl"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/escrow"
	"github.com/iov-one/custody/x/sigs"
	"github.com/iov-one/custody/x/token"
	"github.com/iov-one/custody/x/utils"
	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Name is reported over abci Info.
const Name = "custodyd"

// Authenticator returns the signature based authentication.
func Authenticator() custody.Authenticator {
	return custody.ChainAuth(sigs.Authenticate{})
}

// Chain returns the decorators run around every instruction. Metrics are
// collected when reg is not nil.
func Chain(reg prometheus.Registerer) (app.Decorators, error) {
	var metrics *utils.Metrics
	if reg != nil {
		m, err := utils.NewMetrics(reg)
		if err != nil {
			return app.Decorators{}, err
		}
		metrics = m
	}
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		metrics,
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, a failed instruction still consumes the
		// signer sequences but leaves no other trace
		utils.NewSavepoint().OnDeliver(),
	), nil
}

// Stack wires up the dispatcher with the standard decorator chain. This
// can be passed into BaseApp.
func Stack(reg prometheus.Registerer) (custody.Handler, error) {
	chain, err := Chain(reg)
	if err != nil {
		return nil, err
	}
	cashCtrl := cash.NewController()
	tokenCtrl := token.NewController(cashCtrl)
	return chain.WithHandler(NewDispatcher(Authenticator(), cashCtrl, tokenCtrl)), nil
}

// QueryRouter returns a default query router, allowing access to
// "/escrows", "/accounts", "/mints", "/tokens" and "/auth".
func QueryRouter() custody.QueryRouter {
	r := custody.NewQueryRouter()
	r.RegisterAll(
		escrow.RegisterQuery,
		cash.RegisterQuery,
		token.RegisterQuery,
		sigs.RegisterQuery,
	)
	return r
}

// Initializers returns the genesis loaders. Native accounts and the rent
// configuration go first as the token accounts pay rent.
func Initializers() custody.Initializer {
	return custody.ChainInitializers(
		cash.Initializer{},
		token.Initializer{},
	)
}

// Application constructs a basic ABCI application with
// the given arguments.
func Application(name string, h custody.Handler,
	tx custody.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store, err := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	if err != nil {
		return app.BaseApp{}, err
	}
	store.WithInit(Initializers())
	return app.NewBaseApp(store, tx, h, debug), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path. An empty path gives an in memory store.
func CommitKVStore(dbPath string) (custody.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "database path %q", dbPath)
	}
	// some callers pass the name with a ".db" suffix, leveldb adds it again
	path = strings.TrimSuffix(path, filepath.Ext(path))

	kv, err := iavl.NewCommitStore(filepath.Dir(path), filepath.Base(path))
	if err != nil {
		return nil, err
	}
	return kv, nil
}

// GenerateApp is used to create the application for the start command.
// State lives in home, metrics are registered with reg.
func GenerateApp(home string, logger log.Logger, debug bool, reg prometheus.Registerer) (abci.Application, error) {
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "custody.db")
	}

	stack, err := Stack(reg)
	if err != nil {
		return nil, err
	}
	application, err := Application(Name, stack, TxDecoder, dbPath, debug)
	if err != nil {
		return nil, err
	}
	application.WithLogger(logger)
	return application, nil
}
