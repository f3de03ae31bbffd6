package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func tempHome(t *testing.T) string {
	t.Helper()
	home, err := ioutil.TempDir("", "custody-init")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(home) })
	return home
}

func fixedOptions(state string) GenOptions {
	return func(args []string) (json.RawMessage, error) {
		return json.RawMessage(state), nil
	}
}

func readGenesis(t *testing.T, home string) GenesisDoc {
	t.Helper()
	bz, err := ioutil.ReadFile(GenesisPath(home))
	require.NoError(t, err)
	var doc GenesisDoc
	require.NoError(t, json.Unmarshal(bz, &doc))
	return doc
}

func TestInitCmdCreatesGenesis(t *testing.T) {
	home := tempHome(t)
	logger := log.NewNopLogger()

	require.NoError(t, InitCmd(fixedOptions(`{"cash":[]}`), logger, home, nil))
	doc := readGenesis(t, home)
	assert.JSONEq(t, `{"cash":[]}`, string(doc[appStateKey]))

	var chainID string
	require.NoError(t, json.Unmarshal(doc["chain_id"], &chainID))
	assert.Len(t, chainID, len("custody-")+6)

	// a second run needs the force flag
	err := InitCmd(fixedOptions(`{"cash":[1]}`), logger, home, nil)
	assert.True(t, errors.ErrDuplicate.Is(err))
	require.NoError(t, InitCmd(fixedOptions(`{"cash":[1]}`), logger, home, []string{"-i"}))

	again := readGenesis(t, home)
	assert.JSONEq(t, `{"cash":[1]}`, string(again[appStateKey]))
	assert.Equal(t, string(doc["chain_id"]), string(again["chain_id"]))
}

func TestInitCmdKeepsTendermintFields(t *testing.T) {
	home := tempHome(t)
	genFile := GenesisPath(home)
	require.NoError(t, os.MkdirAll(filepath.Dir(genFile), 0755))
	existing := `{"chain_id":"custody-abcdef","validators":[{"power":"10"}],"app_state":null}`
	require.NoError(t, ioutil.WriteFile(genFile, []byte(existing), 0600))

	require.NoError(t, InitCmd(fixedOptions(`{"token":{}}`), log.NewNopLogger(), home, nil))
	doc := readGenesis(t, home)
	assert.JSONEq(t, `"custody-abcdef"`, string(doc["chain_id"]))
	assert.JSONEq(t, `[{"power":"10"}]`, string(doc["validators"]))
	assert.JSONEq(t, `{"token":{}}`, string(doc[appStateKey]))
}

func TestInitCmdErrors(t *testing.T) {
	home := tempHome(t)
	genFile := GenesisPath(home)
	require.NoError(t, os.MkdirAll(filepath.Dir(genFile), 0755))
	require.NoError(t, ioutil.WriteFile(genFile, []byte("{not json"), 0600))

	err := InitCmd(fixedOptions(`{}`), log.NewNopLogger(), home, nil)
	assert.True(t, errors.ErrInput.Is(err))

	err = InitCmd(fixedOptions(`{}`), log.NewNopLogger(), tempHome(t), []string{"-unknown"})
	assert.True(t, errors.ErrInput.Is(err))

	failing := func(args []string) (json.RawMessage, error) {
		return nil, errors.Wrap(errors.ErrInput, "bad address")
	}
	err = InitCmd(failing, log.NewNopLogger(), tempHome(t), nil)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestParseStartFlags(t *testing.T) {
	defaults := StartOptions{Bind: "tcp://localhost:1", Metrics: ":9100"}
	opts, err := parseFlags(defaults, []string{"-debug", "-bind", "unix://custody.sock"})
	require.NoError(t, err)
	assert.Equal(t, StartOptions{Bind: "unix://custody.sock", Debug: true, Metrics: ":9100"}, opts)

	opts, err = parseFlags(defaults, nil)
	require.NoError(t, err)
	assert.Equal(t, defaults, opts)

	_, err = parseFlags(defaults, []string{"-bogus"})
	assert.True(t, errors.ErrInput.Is(err))
}
