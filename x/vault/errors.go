package vault

import "github.com/iov-one/custody/errors"

var (
	// ErrVaultAlreadyExists is returned when depositing into a vault that
	// still holds funds.
	ErrVaultAlreadyExists = errors.Register(1100, "vault already exists")
)
