package cash

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file.
// Addresses are base58 encoded.
type GenesisAccount struct {
	Address  custody.Address `json:"address"`
	Lamports uint64          `json:"lamports"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ custody.Initializer = Initializer{}

// FromGenesis will parse initial account info and the optional rent
// configuration from genesis and save it to the database.
func (Initializer) FromGenesis(opts custody.Options, kv custody.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(kv, opts, confPkg, &conf); err != nil && !errors.ErrNotFound.Is(err) {
		return errors.Wrap(err, "init config")
	}

	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	bucket := NewBucket()
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		if err := bucket.Has(kv, acct.Address); err == nil {
			return errors.Wrapf(errors.ErrDuplicate, "account %s", acct.Address)
		}
		a := Account{Lamports: acct.Lamports, Owner: custody.SystemProgram}
		if err := bucket.Put(kv, acct.Address, &a); err != nil {
			return err
		}
	}
	return nil
}

// CreateGenesisAccount stores an account owned by owner, funded with the rent
// exempt minimum for space. It is meant for bootstrapping program owned
// accounts from genesis, where there is no payer yet.
func CreateGenesisAccount(db custody.KVStore, addr, owner custody.Address, space uint64) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	bucket := NewBucket()
	if err := bucket.Has(db, addr); err == nil {
		return errors.Wrapf(errors.ErrDuplicate, "account %s already in use", addr)
	}
	conf, err := loadConf(db)
	if err != nil {
		return err
	}
	rent, err := conf.MinimumBalance(space)
	if err != nil {
		return err
	}
	acc := Account{Lamports: rent, Owner: owner.Clone(), Space: space}
	return bucket.Put(db, addr, &acc)
}
