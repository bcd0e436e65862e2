package operations

import "keyward.io/keyward/wire"

// ListOpcodes asks a provider which operations it implements.
type ListOpcodes struct {
	Provider wire.ProviderID
}

// ListOpcodesResult lists the supported opcodes.
type ListOpcodesResult struct {
	Opcodes []wire.Opcode
}

func (ListOpcodes) Opcode() wire.Opcode { return wire.OpListOpcodes }
func (ListOpcodes) isOperation()        {}

func (ListOpcodesResult) Opcode() wire.Opcode { return wire.OpListOpcodes }
func (ListOpcodesResult) isResult()           {}
