package app

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/token"
)

// DevLamports is the native balance of the development account.
const DevLamports = 1000000000000

// GenInitOptions will produce the app state of a development chain: one
// rich native account and the default rent configuration.
//
// The account address may be given as the first argument. Without it a
// new key is generated and its seed is printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var addr custody.Address
	if len(args) > 0 {
		a, err := custody.ParseAddress(args[0])
		if err != nil {
			return nil, errors.Wrap(err, "account address")
		}
		addr = a
	} else {
		key := crypto.GenPrivKey()
		addr = key.Address()
		fmt.Printf("Generated key %s\nSeed: %s\n", addr, hex.EncodeToString(key.Seed()))
	}

	state := struct {
		Conf  map[string]interface{} `json:"conf"`
		Cash  []cash.GenesisAccount  `json:"cash"`
		Token token.Genesis          `json:"token"`
	}{
		Conf: map[string]interface{}{
			"cash": cash.DefaultConfiguration,
		},
		Cash: []cash.GenesisAccount{
			{Address: addr, Lamports: DevLamports},
		},
		Token: token.Genesis{
			Mints:    []token.GenesisMint{},
			Balances: []token.GenesisBalance{},
		},
	}
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrHuman, err.Error())
	}
	return raw, nil
}
