package protoconv

import (
	"reflect"
	"testing"

	"keyward.io/keyward/operations"
	"keyward.io/keyward/wire"
)

// Every operation in the closed set must survive an encode/decode round
// trip field for field.
func TestOperations_RoundTripAllOpcodes(t *testing.T) {
	ops := []operations.NativeOperation{
		operations.Ping{},
		operations.GenerateKey{KeyName: "gen", Attributes: sampleKeyAttributes()},
		operations.DestroyKey{KeyName: "gone"},
		operations.SignHash{KeyName: "signer", Hash: []byte{1, 2, 3, 4}},
		operations.VerifyHash{KeyName: "signer", Hash: []byte{1, 2}, Signature: []byte{9, 8, 7}},
		operations.ImportKey{KeyName: "imported", Attributes: sampleKeyAttributes(), Data: []byte{0xde, 0xad}},
		operations.ExportPublicKey{KeyName: "pub"},
		operations.ListProviders{},
		operations.ListOpcodes{Provider: wire.ProviderSoftware},
	}
	for _, op := range ops {
		t.Run(op.Opcode().String(), func(t *testing.T) {
			body, err := converter.OperationToBody(op)
			if err != nil {
				t.Fatalf("OperationToBody failed: %v", err)
			}
			got, err := converter.BodyToOperation(body, op.Opcode())
			if err != nil {
				t.Fatalf("BodyToOperation failed: %v", err)
			}
			if !reflect.DeepEqual(got, op) {
				t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, op)
			}
		})
	}
}

func TestResults_RoundTripAllOpcodes(t *testing.T) {
	results := []operations.NativeResult{
		operations.PingResult{VersionMaj: 1, VersionMin: 0},
		operations.GenerateKeyResult{},
		operations.DestroyKeyResult{},
		operations.SignHashResult{Signature: []byte{0xca, 0xfe}},
		operations.VerifyHashResult{},
		operations.ImportKeyResult{},
		operations.ExportPublicKeyResult{Data: []byte{4, 5, 6}},
		operations.ListProvidersResult{Providers: []operations.ProviderInfo{
			{
				ID:          wire.ProviderCore,
				Description: "core facility operations",
				Vendor:      "Keyward",
				VersionMaj:  1,
			},
			{
				ID:          wire.ProviderSoftware,
				Description: "software keys",
				Vendor:      "Keyward",
				VersionMaj:  1, VersionMin: 2, VersionRev: 3,
			},
		}},
		operations.ListOpcodesResult{Opcodes: wire.Opcodes()},
	}
	for _, res := range results {
		t.Run(res.Opcode().String(), func(t *testing.T) {
			body, err := converter.ResultToBody(res)
			if err != nil {
				t.Fatalf("ResultToBody failed: %v", err)
			}
			got, err := converter.BodyToResult(body, res.Opcode())
			if err != nil {
				t.Fatalf("BodyToResult failed: %v", err)
			}
			if !reflect.DeepEqual(got, res) {
				t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, res)
			}
		})
	}
}

// The opcode dispatch is defensive: an opcode outside the closed set has
// no registered converter.
func TestBodyToOperation_UnknownOpcode(t *testing.T) {
	_, err := converter.BodyToOperation(nil, wire.Opcode(0x7777))
	if !wire.IsStatus(err, wire.StatusOpcodeDoesNotExist) {
		t.Fatalf("BodyToOperation: got %v want OpcodeDoesNotExist", err)
	}
	_, err = converter.BodyToResult(nil, wire.Opcode(0x7777))
	if !wire.IsStatus(err, wire.StatusOpcodeDoesNotExist) {
		t.Fatalf("BodyToResult: got %v want OpcodeDoesNotExist", err)
	}
}

func TestConverter_BodyType(t *testing.T) {
	if got := converter.BodyType(); got != wire.BodyProtobuf {
		t.Fatalf("BodyType: got %s want protobuf", got)
	}
}

// Garbage bodies must fail cleanly for every opcode, never panic.
func TestBodyToOperation_GarbageBody(t *testing.T) {
	garbage := []byte{0xff, 0xff, 0xff, 0xff, 0xff}
	for _, opcode := range wire.Opcodes() {
		if _, err := converter.BodyToOperation(garbage, opcode); !wire.IsStatus(err, wire.StatusInvalidEncoding) {
			t.Fatalf("%s: got %v want InvalidEncoding", opcode, err)
		}
		if _, err := converter.BodyToResult(garbage, opcode); !wire.IsStatus(err, wire.StatusInvalidEncoding) {
			t.Fatalf("%s result: got %v want InvalidEncoding", opcode, err)
		}
	}
}
