package operations

import "keyward.io/keyward/wire"

// ListProviders asks the service which backends are available.
type ListProviders struct{}

// ProviderInfo describes one registered backend.
type ProviderInfo struct {
	ID          wire.ProviderID
	Description string
	Vendor      string
	VersionMaj  uint32
	VersionMin  uint32
	VersionRev  uint32
}

// ListProvidersResult lists the registered backends in routing-preference
// order.
type ListProvidersResult struct {
	Providers []ProviderInfo
}

func (ListProviders) Opcode() wire.Opcode { return wire.OpListProviders }
func (ListProviders) isOperation()        {}

func (ListProvidersResult) Opcode() wire.Opcode { return wire.OpListProviders }
func (ListProvidersResult) isResult()           {}
