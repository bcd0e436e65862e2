package operations

import "keyward.io/keyward/wire"

// Ping checks that the service is alive.
type Ping struct{}

// PingResult reports the highest wire protocol version the service
// accepts.
type PingResult struct {
	VersionMaj uint8
	VersionMin uint8
}

func (Ping) Opcode() wire.Opcode { return wire.OpPing }
func (Ping) isOperation()        {}

func (PingResult) Opcode() wire.Opcode { return wire.OpPing }
func (PingResult) isResult()           {}
