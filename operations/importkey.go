package operations

import "keyward.io/keyward/wire"

// ImportKey brings externally produced key material under a new name.
// Data is the raw key material in the format the key type dictates; its
// interpretation belongs to the provider, not to this layer.
type ImportKey struct {
	KeyName    string
	Attributes KeyAttributes
	Data       []byte
}

// ImportKeyResult acknowledges a successful import.
type ImportKeyResult struct{}

func (ImportKey) Opcode() wire.Opcode { return wire.OpImportKey }
func (ImportKey) isOperation()        {}

func (ImportKeyResult) Opcode() wire.Opcode { return wire.OpImportKey }
func (ImportKeyResult) isResult()           {}
