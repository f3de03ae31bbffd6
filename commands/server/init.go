package server

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/iov-one/custody/errors"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	appStateKey = "app_state"
	flagForce   = "i"
)

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

// GenesisPath returns the location of the genesis file under home.
func GenesisPath(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// InitCmd will add the app_state to the genesis file in home. A file
// written by `tendermint init` keeps all its fields. Without one a
// minimal genesis with a random chain id is created.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	var force bool
	initFlags := flag.NewFlagSet("init", flag.ContinueOnError)
	initFlags.BoolVar(&force, flagForce, false, "overwrite an existing app_state")
	if err := initFlags.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	genFile := GenesisPath(home)
	doc, err := loadOrCreateGenesis(genFile, logger)
	if err != nil {
		return err
	}

	if len(doc[appStateKey]) > 0 && string(doc[appStateKey]) != "null" && !force {
		return errors.Wrapf(errors.ErrDuplicate, "%s already has app_state, use -%s to overwrite", genFile, flagForce)
	}

	options, err := gen(initFlags.Args())
	if err != nil {
		return err
	}
	doc[appStateKey] = options

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrHuman, err.Error())
	}
	if err := ioutil.WriteFile(genFile, out, 0600); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	logger.Info("App state written", "path", genFile)
	return nil
}

func loadOrCreateGenesis(genFile string, logger log.Logger) (GenesisDoc, error) {
	bz, err := ioutil.ReadFile(genFile)
	switch {
	case err == nil:
		var doc GenesisDoc
		if err := json.Unmarshal(bz, &doc); err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "%s: %s", genFile, err)
		}
		logger.Info("Found genesis file", "path", genFile)
		return doc, nil
	case os.IsNotExist(err):
		if err := os.MkdirAll(filepath.Dir(genFile), 0755); err != nil {
			return nil, errors.Wrap(errors.ErrInput, err.Error())
		}
		chainID, _ := json.Marshal(fmt.Sprintf("custody-%s", cmn.RandStr(6)))
		genTime, _ := json.Marshal(time.Now().UTC())
		logger.Info("Generated genesis file", "path", genFile)
		return GenesisDoc{
			"chain_id":     chainID,
			"genesis_time": genTime,
		}, nil
	default:
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
}
