package operations

import "keyward.io/keyward/wire"

// DestroyKey removes a key and its material.
type DestroyKey struct {
	KeyName string
}

// DestroyKeyResult acknowledges a successful destruction.
type DestroyKeyResult struct{}

func (DestroyKey) Opcode() wire.Opcode { return wire.OpDestroyKey }
func (DestroyKey) isOperation()        {}

func (DestroyKeyResult) Opcode() wire.Opcode { return wire.OpDestroyKey }
func (DestroyKeyResult) isResult()           {}
