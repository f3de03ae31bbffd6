package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/sigs"
)

// Tx is the envelope of everything sent to custodyd: one encoded
// instruction and the signatures over it.
type Tx struct {
	Instruction []byte               `protobuf:"bytes,1,opt,name=instruction,proto3" json:"instruction,omitempty"`
	Signatures  []*sigs.StdSignature `protobuf:"bytes,2,rep,name=signatures,proto3" json:"signatures,omitempty"`
}

func (m *Tx) Reset()         { *m = Tx{} }
func (m *Tx) String() string { return proto.CompactTextString(m) }
func (*Tx) ProtoMessage()    {}

func init() {
	proto.RegisterType((*Tx)(nil), "custodyd.Tx")
}

// make sure tx fulfills all interfaces
var _ custody.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (custody.Tx, error) {
	tx := new(Tx)
	if err := proto.Unmarshal(bz, tx); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return tx, nil
}

// NewTx wraps the encoded form of msg in an unsigned envelope.
func NewTx(msg custody.Msg) (*Tx, error) {
	raw, err := EncodeInstruction(msg)
	if err != nil {
		return nil, err
	}
	return &Tx{Instruction: raw}, nil
}

// GetMsg decodes the instruction.
func (tx *Tx) GetMsg() (custody.Msg, error) {
	return DecodeInstruction(tx.Instruction)
}

// GetSignBytes returns the raw instruction. Signatures never cover
// other signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	if len(tx.Instruction) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "instruction")
	}
	return tx.Instruction, nil
}

// GetSignatures returns the signatures of the envelope.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// Sign appends the signature of key for the given chain and sequence.
func (tx *Tx) Sign(key *crypto.PrivateKey, chainID string, seq int64) error {
	sig, err := sigs.SignTx(key, tx, chainID, seq)
	if err != nil {
		return err
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}
