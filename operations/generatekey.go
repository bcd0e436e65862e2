package operations

import "keyward.io/keyward/wire"

// GenerateKey creates a new key under the given name with the given
// attributes.
type GenerateKey struct {
	KeyName    string
	Attributes KeyAttributes
}

// GenerateKeyResult acknowledges a successful generation.
type GenerateKeyResult struct{}

func (GenerateKey) Opcode() wire.Opcode { return wire.OpGenerateKey }
func (GenerateKey) isOperation()        {}

func (GenerateKeyResult) Opcode() wire.Opcode { return wire.OpGenerateKey }
func (GenerateKeyResult) isResult()           {}
