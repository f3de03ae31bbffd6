package token

import (
	"github.com/iov-one/custody"
)

var (
	// ProgramID owns every mint and token account.
	ProgramID = custody.MustParseAddress("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

	// AssociatedProgramID derives the associated token account addresses.
	AssociatedProgramID = custody.MustParseAddress("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")

	program           = custody.RegisterProgram(ProgramID)
	associatedProgram = custody.RegisterProgram(AssociatedProgramID)
)

// AssociatedAddress returns the address of the token account holding mint
// on behalf of owner, and the bump it is derived with.
func AssociatedAddress(owner, mint custody.Address) (custody.Address, uint8, error) {
	return associatedProgram.Derive(owner, ProgramID, mint)
}
