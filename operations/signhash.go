package operations

import "keyward.io/keyward/wire"

// SignHash signs an already-computed digest with the named key.
type SignHash struct {
	KeyName string
	Hash    []byte
}

// SignHashResult carries the produced signature.
type SignHashResult struct {
	Signature []byte
}

func (SignHash) Opcode() wire.Opcode { return wire.OpSignHash }
func (SignHash) isOperation()        {}

func (SignHashResult) Opcode() wire.Opcode { return wire.OpSignHash }
func (SignHashResult) isResult()           {}
