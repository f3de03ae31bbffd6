package custodytest

import "github.com/iov-one/custody"

// Tx is a mock implementation of the custody.Tx interface.
type Tx struct {
	Msg custody.Msg
	Err error
}

var _ custody.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (custody.Msg, error) {
	return tx.Msg, tx.Err
}

// Msg is a mock implementation of the custody.Msg interface.
type Msg struct {
	// RoutePath is returned by Path.
	RoutePath string
	// Err is returned by Validate.
	Err error
}

var _ custody.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}
