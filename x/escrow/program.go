package escrow

import (
	"encoding/binary"

	"github.com/iov-one/custody"
)

// ProgramID owns the escrow records and the vaults.
var ProgramID = custody.MustParseAddress("22222222222222222222222222222222222222222222")

var program = custody.RegisterProgram(ProgramID)

var escrowSeed = []byte("escrow")

func seedBytes(seed uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, seed)
	return b
}

// Address returns the escrow address of a maker's offer with given seed
// and the bump that derives it.
func Address(maker custody.Address, seed uint64) (custody.Address, uint8, error) {
	return program.Derive(escrowSeed, maker, seedBytes(seed))
}

// authorize re-derives the escrow address of the record and returns the
// authority over it.
func authorize(e *Escrow) (custody.Authority, error) {
	return program.Authorize(e.Bump, escrowSeed, e.Maker, seedBytes(e.Seed))
}
