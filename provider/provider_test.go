package provider

import (
	"context"
	"reflect"
	"testing"

	"keyward.io/keyward/operations"
	"keyward.io/keyward/wire"
)

type stubProvider struct {
	info operations.ProviderInfo
	ops  []wire.Opcode
}

func (s stubProvider) Describe() operations.ProviderInfo { return s.info }
func (s stubProvider) Opcodes() []wire.Opcode            { return s.ops }
func (s stubProvider) Execute(context.Context, operations.NativeOperation) (operations.NativeResult, error) {
	return nil, wire.NewError(wire.StatusUnsupportedOperation, "stub")
}

func softwareStub() stubProvider {
	return stubProvider{
		info: operations.ProviderInfo{
			ID:          wire.ProviderSoftware,
			Description: "stub software keys",
			Vendor:      "test",
			VersionMaj:  1,
		},
		ops: []wire.Opcode{wire.OpGenerateKey, wire.OpSignHash},
	}
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := NewRegistry()
	stub := softwareStub()
	if err := reg.Register(stub); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	got, err := reg.Lookup(wire.ProviderSoftware)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got.Describe() != stub.info {
		t.Fatalf("Lookup returned wrong provider: %+v", got.Describe())
	}
}

func TestRegistry_RejectsDuplicate(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(softwareStub()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := reg.Register(softwareStub()); err == nil {
		t.Fatal("duplicate Register succeeded")
	}
}

func TestRegistry_LookupUnregistered(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Lookup(wire.ProviderRemote)
	if !wire.IsStatus(err, wire.StatusProviderNotRegistered) {
		t.Fatalf("Lookup: got %v want ProviderNotRegistered", err)
	}
}

func TestCore_Ping(t *testing.T) {
	core := NewCore(NewRegistry())
	res, err := core.Execute(context.Background(), operations.Ping{})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	ping, ok := res.(operations.PingResult)
	if !ok {
		t.Fatalf("got %T want PingResult", res)
	}
	if ping.VersionMaj != wire.VersionMajor || ping.VersionMin != wire.VersionMinor {
		t.Fatalf("ping reported version %d.%d", ping.VersionMaj, ping.VersionMin)
	}
}

func TestCore_ListProvidersInRegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	core := NewCore(reg)
	if err := reg.Register(core); err != nil {
		t.Fatalf("Register core failed: %v", err)
	}
	stub := softwareStub()
	if err := reg.Register(stub); err != nil {
		t.Fatalf("Register stub failed: %v", err)
	}

	res, err := core.Execute(context.Background(), operations.ListProviders{})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	want := []operations.ProviderInfo{core.Describe(), stub.info}
	got := res.(operations.ListProvidersResult).Providers
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ListProviders:\n got %+v\nwant %+v", got, want)
	}
}

func TestCore_ListOpcodes(t *testing.T) {
	reg := NewRegistry()
	core := NewCore(reg)
	if err := reg.Register(core); err != nil {
		t.Fatalf("Register core failed: %v", err)
	}
	stub := softwareStub()
	if err := reg.Register(stub); err != nil {
		t.Fatalf("Register stub failed: %v", err)
	}

	res, err := core.Execute(context.Background(), operations.ListOpcodes{Provider: wire.ProviderSoftware})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	got := res.(operations.ListOpcodesResult).Opcodes
	if !reflect.DeepEqual(got, stub.ops) {
		t.Fatalf("ListOpcodes: got %v want %v", got, stub.ops)
	}

	_, err = core.Execute(context.Background(), operations.ListOpcodes{Provider: wire.ProviderRemote})
	if !wire.IsStatus(err, wire.StatusProviderNotRegistered) {
		t.Fatalf("ListOpcodes for absent provider: got %v", err)
	}
}

func TestCore_RejectsKeyOperations(t *testing.T) {
	core := NewCore(NewRegistry())
	_, err := core.Execute(context.Background(), operations.DestroyKey{KeyName: "k"})
	if !wire.IsStatus(err, wire.StatusUnsupportedOperation) {
		t.Fatalf("Execute: got %v want UnsupportedOperation", err)
	}
}
