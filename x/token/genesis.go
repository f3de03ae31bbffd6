package token

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/cash"
)

const optKey = "token"

// GenesisMint declares an asset at genesis.
type GenesisMint struct {
	Address   custody.Address `json:"address"`
	Authority custody.Address `json:"authority"`
	Decimals  uint8           `json:"decimals"`
}

// GenesisBalance credits an owner's associated account of a mint. Amount
// is a decimal string in units of the mint, ie. "12.5".
type GenesisBalance struct {
	Owner  custody.Address `json:"owner"`
	Mint   custody.Address `json:"mint"`
	Amount string          `json:"amount"`
}

// Genesis is the "token" section of the genesis file.
type Genesis struct {
	Mints    []GenesisMint    `json:"mints"`
	Balances []GenesisBalance `json:"balances"`
}

// Initializer fulfils the Initializer interface to load mints and
// balances from the genesis file.
type Initializer struct{}

var _ custody.Initializer = Initializer{}

// FromGenesis stores all declared mints and credits all declared balances.
func (Initializer) FromGenesis(opts custody.Options, kv custody.KVStore) error {
	var gen Genesis
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return err
	}

	mints := NewMintBucket()
	for i, gm := range gen.Mints {
		m := Mint{Authority: gm.Authority, Decimals: gm.Decimals}
		if err := m.Validate(); err != nil {
			return errors.Wrapf(err, "mint %d", i)
		}
		if err := cash.CreateGenesisAccount(kv, gm.Address, ProgramID, MintSize); err != nil {
			return errors.Wrapf(err, "mint %d", i)
		}
		if err := mints.Put(kv, gm.Address, &m); err != nil {
			return errors.Wrapf(err, "mint %d", i)
		}
	}

	accounts := NewAccountBucket()
	for i, gb := range gen.Balances {
		if err := gb.Owner.Validate(); err != nil {
			return errors.Wrapf(err, "balance %d: owner", i)
		}
		var m Mint
		if err := mints.One(kv, gb.Mint, &m); err != nil {
			return errors.Wrapf(err, "balance %d", i)
		}
		amount, err := ParseAmount(gb.Amount, m.Decimals)
		if err != nil {
			return errors.Wrapf(err, "balance %d", i)
		}
		addr, _, err := AssociatedAddress(gb.Owner, gb.Mint)
		if err != nil {
			return errors.Wrapf(err, "balance %d", i)
		}

		var acc TokenAccount
		switch err := accounts.One(kv, addr, &acc); {
		case err == nil:
		case errors.ErrNotFound.Is(err):
			if err := cash.CreateGenesisAccount(kv, addr, ProgramID, AccountSize); err != nil {
				return errors.Wrapf(err, "balance %d", i)
			}
			acc = TokenAccount{Mint: gb.Mint, Owner: gb.Owner}
		default:
			return err
		}
		if m.Supply+amount < m.Supply {
			return errors.Wrapf(errors.ErrOverflow, "balance %d: supply", i)
		}
		m.Supply += amount
		acc.Amount += amount
		if err := mints.Put(kv, gb.Mint, &m); err != nil {
			return err
		}
		if err := accounts.Put(kv, addr, &acc); err != nil {
			return err
		}
	}
	return nil
}
