package app

import (
	"bytes"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/commands"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/x/escrow"
	"github.com/iov-one/custody/x/vault"
)

// exampleChainID is the chain the example transactions are signed for.
const exampleChainID = "custody-testgen"

func exampleKey(b byte) *crypto.PrivateKey {
	key, err := crypto.PrivKeyFromSeed(bytes.Repeat([]byte{b}, 32))
	if err != nil {
		panic(err)
	}
	return key
}

// Examples returns one signed transaction per instruction, built from
// fixed keys so the output is stable between runs.
func Examples() []commands.Example {
	maker := exampleKey(1)
	taker := exampleKey(2)
	mintA := exampleKey(3).Address()
	mintB := exampleKey(4).Address()
	escrowAddr, _, err := escrow.Address(maker.Address(), 1)
	if err != nil {
		panic(err)
	}

	signed := []struct {
		name string
		key  *crypto.PrivateKey
		msg  custody.Msg
	}{
		{"make_tx", maker, &escrow.MakeMsg{
			Maker:   maker.Address(),
			MintA:   mintA,
			MintB:   mintB,
			Seed:    1,
			Deposit: 100,
			Receive: 50,
		}},
		{"take_tx", taker, &escrow.TakeMsg{
			Taker:  taker.Address(),
			Maker:  maker.Address(),
			Escrow: escrowAddr,
			MintA:  mintA,
			MintB:  mintB,
		}},
		{"refund_tx", maker, &escrow.RefundMsg{Maker: maker.Address(), Escrow: escrowAddr, MintA: mintA}},
		{"deposit_tx", maker, &vault.DepositMsg{Owner: maker.Address(), Amount: 2000000}},
		{"withdraw_tx", maker, &vault.WithdrawMsg{Owner: maker.Address()}},
	}

	examples := make([]commands.Example, 0, len(signed)+1)
	for _, s := range signed {
		tx, err := NewTx(s.msg)
		if err != nil {
			panic(err)
		}
		if err := tx.Sign(s.key, exampleChainID, 0); err != nil {
			panic(err)
		}
		examples = append(examples, commands.Example{Filename: s.name, Obj: tx})
		if s.name == "make_tx" {
			examples = append(examples, commands.Example{Filename: "signature", Obj: tx.Signatures[0]})
		}
	}
	return examples
}
