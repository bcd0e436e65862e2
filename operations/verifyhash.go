package operations

import "keyward.io/keyward/wire"

// VerifyHash checks a signature over an already-computed digest. A
// verification failure is reported through the response status, so the
// result itself carries nothing.
type VerifyHash struct {
	KeyName   string
	Hash      []byte
	Signature []byte
}

// VerifyHashResult acknowledges a successful verification.
type VerifyHashResult struct{}

func (VerifyHash) Opcode() wire.Opcode { return wire.OpVerifyHash }
func (VerifyHash) isOperation()        {}

func (VerifyHashResult) Opcode() wire.Opcode { return wire.OpVerifyHash }
func (VerifyHashResult) isResult()           {}
