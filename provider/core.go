package provider

import (
	"context"
	"fmt"

	"keyward.io/keyward/operations"
	"keyward.io/keyward/wire"
)

// Core is the facility's own provider. It serves the discovery
// operations: Ping, ListProviders and ListOpcodes.
type Core struct {
	registry *Registry
}

func NewCore(registry *Registry) *Core {
	return &Core{registry: registry}
}

func (c *Core) Describe() operations.ProviderInfo {
	return operations.ProviderInfo{
		ID:          wire.ProviderCore,
		Description: "facility discovery operations",
		Vendor:      "Keyward",
		VersionMaj:  uint32(wire.VersionMajor),
		VersionMin:  uint32(wire.VersionMinor),
	}
}

func (c *Core) Opcodes() []wire.Opcode {
	return []wire.Opcode{wire.OpPing, wire.OpListProviders, wire.OpListOpcodes}
}

func (c *Core) Execute(ctx context.Context, op operations.NativeOperation) (operations.NativeResult, error) {
	switch op := op.(type) {
	case operations.Ping:
		return operations.PingResult{
			VersionMaj: wire.VersionMajor,
			VersionMin: wire.VersionMinor,
		}, nil

	case operations.ListProviders:
		return operations.ListProvidersResult{Providers: c.registry.Describe()}, nil

	case operations.ListOpcodes:
		target, err := c.registry.Lookup(op.Provider)
		if err != nil {
			return nil, err
		}
		return operations.ListOpcodesResult{Opcodes: target.Opcodes()}, nil

	default:
		return nil, wire.NewError(wire.StatusUnsupportedOperation,
			fmt.Sprintf("provider: core does not serve %s", op.Opcode()))
	}
}
