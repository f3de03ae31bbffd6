package custody

import (
	"crypto/sha256"
	"fmt"
	"sync"

	"filippo.io/edwards25519"
	"github.com/iov-one/custody/errors"
)

const (
	// MaxSeeds is the maximum number of seeds, including the bump, that
	// can be used to derive an address.
	MaxSeeds = 16

	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32
)

var derivationMarker = []byte("ProgramDerivedAddress")

// CreateProgramAddress computes the address owned by program for given seeds
// and bump. The address is sha256(seeds || bump || program || marker).
//
// A result that is a valid ed25519 point is rejected with ErrInput, because
// a private key might exist for it.
func CreateProgramAddress(program Address, seeds [][]byte, bump uint8) (Address, error) {
	if err := program.Validate(); err != nil {
		return nil, errors.Wrap(err, "program")
	}
	if err := validateSeeds(seeds); err != nil {
		return nil, err
	}
	h := sha256.New()
	for _, s := range seeds {
		_, _ = h.Write(s)
	}
	_, _ = h.Write([]byte{bump})
	_, _ = h.Write(program)
	_, _ = h.Write(derivationMarker)
	addr := Address(h.Sum(nil))
	if IsOnCurve(addr) {
		return nil, errors.Wrap(errors.ErrInput, "derived address is on the ed25519 curve")
	}
	return addr, nil
}

// FindProgramAddress returns the first valid address for given seeds,
// trying bump values from 255 down to 0. The bump returned is the authority
// proof that must be stored to re-derive the address later.
func FindProgramAddress(program Address, seeds ...[]byte) (Address, uint8, error) {
	if err := program.Validate(); err != nil {
		return nil, 0, errors.Wrap(err, "program")
	}
	if err := validateSeeds(seeds); err != nil {
		return nil, 0, err
	}
	for bump := 255; bump >= 0; bump-- {
		addr, err := CreateProgramAddress(program, seeds, uint8(bump))
		if err == nil {
			return addr, uint8(bump), nil
		}
	}
	return nil, 0, errors.Wrap(errors.ErrInput, "no viable bump")
}

func validateSeeds(seeds [][]byte) error {
	if len(seeds)+1 > MaxSeeds {
		return errors.Wrapf(errors.ErrInput, "too many seeds: %d", len(seeds))
	}
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return errors.Wrapf(errors.ErrInput, "seed %d too long: %d", i, len(s))
		}
	}
	return nil
}

// IsOnCurve returns true if b decodes as a compressed edwards25519 point.
func IsOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}

// Program is the capability of a registered program to sign for the
// addresses derived from its id. Only the holder of the Program value can
// produce such authority.
type Program struct {
	id Address
}

var (
	programsMu sync.Mutex
	programs   = make(map[string]struct{})
)

// RegisterProgram returns the signing capability for given program id.
// Registering the same id twice panics. Use this function only during a
// program startup phase.
func RegisterProgram(id Address) *Program {
	if err := id.Validate(); err != nil {
		panic(err)
	}
	programsMu.Lock()
	defer programsMu.Unlock()
	if _, ok := programs[string(id)]; ok {
		panic(fmt.Sprintf("program %s is already registered", id))
	}
	programs[string(id)] = struct{}{}
	return &Program{id: id.Clone()}
}

// ID returns the program address.
func (p *Program) ID() Address {
	return p.id
}

// Derive returns the address owned by this program for given seeds, and the
// bump that must be stored to authorize for it later.
func (p *Program) Derive(seeds ...[]byte) (Address, uint8, error) {
	return FindProgramAddress(p.id, seeds...)
}

// Authorize re-derives the address from given seeds and bump and returns the
// authority to act on its behalf. A bump other than the one returned by
// Derive yields either an invalid or a different address, so any transfer
// out of the original address will be rejected.
func (p *Program) Authorize(bump uint8, seeds ...[]byte) (Authority, error) {
	addr, err := CreateProgramAddress(p.id, seeds, bump)
	if err != nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, err.Error())
	}
	return programAuthority{program: p.id, addr: addr}, nil
}
