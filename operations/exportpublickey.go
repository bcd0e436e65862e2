package operations

import "keyward.io/keyward/wire"

// ExportPublicKey retrieves the public part of the named key.
type ExportPublicKey struct {
	KeyName string
}

// ExportPublicKeyResult carries the raw public key material.
type ExportPublicKeyResult struct {
	Data []byte
}

func (ExportPublicKey) Opcode() wire.Opcode { return wire.OpExportPublicKey }
func (ExportPublicKey) isOperation()        {}

func (ExportPublicKeyResult) Opcode() wire.Opcode { return wire.OpExportPublicKey }
func (ExportPublicKeyResult) isResult()           {}
