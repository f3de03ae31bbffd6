package escrow

import "github.com/iov-one/custody/errors"

var (
	// ErrInvalidMaker is returned when the maker does not match the record.
	ErrInvalidMaker = errors.Register(1000, "invalid maker")
	// ErrInvalidMintA is returned when the deposited asset does not match
	// the record.
	ErrInvalidMintA = errors.Register(1001, "invalid mint a")
	// ErrInvalidMintB is returned when the wanted asset does not match the
	// record.
	ErrInvalidMintB = errors.Register(1002, "invalid mint b")
)
