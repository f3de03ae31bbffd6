package custody

import (
	"github.com/iov-one/custody/errors"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of handlers,
// so we can plug in another authentication system, rather than hardcoding
// x/sigs for all extensions.
type Authenticator interface {
	// GetSigners returns all addresses that signed the current transaction.
	GetSigners(Context) []Address

	// HasAddress checks if the given address signed the current
	// transaction.
	HasAddress(Context, Address) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetSigners returns all signers from all chained authenticators.
func (m MultiAuth) GetSigners(ctx Context) []Address {
	var res []Address
	for _, impl := range m.impls {
		res = append(res, impl.GetSigners(ctx)...)
	}
	return res
}

// HasAddress returns true iff any Authenticator supports this
func (m MultiAuth) HasAddress(ctx Context, addr Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// Authority is the permission to move value out of an account. It is either
// the signature of the account key holder or the re-derived proof of the
// program that owns a derived address. The set of implementations is closed.
type Authority interface {
	// Address is the account this authority acts for.
	Address() Address

	authority()
}

type signerAuthority struct {
	addr Address
}

func (a signerAuthority) Address() Address { return a.addr }
func (signerAuthority) authority()         {}

type programAuthority struct {
	program Address
	addr    Address
}

func (a programAuthority) Address() Address { return a.addr }
func (programAuthority) authority()         {}

// Signer returns the authority of addr if it signed the current
// transaction. ErrUnauthorized is returned otherwise.
func Signer(ctx Context, auth Authenticator, addr Address) (Authority, error) {
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	if !auth.HasAddress(ctx, addr) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s did not sign", addr)
	}
	return signerAuthority{addr: addr.Clone()}, nil
}

// IsProgramAuthority returns true if the authority was produced by
// re-deriving an address of the given program.
func IsProgramAuthority(a Authority, program Address) bool {
	p, ok := a.(programAuthority)
	return ok && p.program.Equals(program)
}
