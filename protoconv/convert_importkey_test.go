package protoconv

import (
	"bytes"
	"reflect"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"

	"keyward.io/keyward/operations"
	"keyward.io/keyward/wire"
)

var converter Converter

func sampleKeyAttributes() operations.KeyAttributes {
	return operations.KeyAttributes{
		KeyType: operations.KeyTypeEd25519,
		KeyBits: 256,
		Policy: operations.KeyPolicy{
			Usage: operations.UsageFlags{
				Export: true, Copy: true, Cache: true,
				Encrypt: true, Decrypt: true,
				SignMessage: true, VerifyMessage: true,
				SignHash: true, VerifyHash: true,
				Derive: true,
			},
			Scheme: operations.SignScheme{
				Algorithm: operations.SignAlgorithmEd25519,
				Hash:      operations.HashSHA256,
			},
		},
	}
}

func TestImportKeyOperation_RoundTrip(t *testing.T) {
	op := operations.ImportKey{
		KeyName:    "test name",
		Attributes: sampleKeyAttributes(),
		Data:       []byte{0x11, 0x22, 0x33},
	}
	body, err := encodeImportKeyOperation(op)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	got, err := decodeImportKeyOperation(body)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !reflect.DeepEqual(got, op) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, op)
	}
}

// A body omitting the required attributes sub-message must fail with an
// invalid-encoding error; the field is never silently defaulted.
func TestImportKeyOperation_MissingAttributes(t *testing.T) {
	var body []byte
	body = protowire.AppendTag(body, 1, protowire.BytesType)
	body = protowire.AppendString(body, "test name")
	body = protowire.AppendTag(body, 3, protowire.BytesType)
	body = protowire.AppendBytes(body, []byte{0x11, 0x22, 0x33})

	_, err := decodeImportKeyOperation(body)
	if !wire.IsStatus(err, wire.StatusInvalidEncoding) {
		t.Fatalf("decode: got %v want InvalidEncoding", err)
	}
}

func TestImportKeyOperation_TruncatedBody(t *testing.T) {
	op := operations.ImportKey{KeyName: "k", Attributes: sampleKeyAttributes()}
	body, err := encodeImportKeyOperation(op)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	_, err = decodeImportKeyOperation(body[:len(body)-3])
	if !wire.IsStatus(err, wire.StatusInvalidEncoding) {
		t.Fatalf("decode: got %v want InvalidEncoding", err)
	}
}

func TestImportKeyResult_RoundTripEmpty(t *testing.T) {
	body, err := converter.ResultToBody(operations.ImportKeyResult{})
	if err != nil {
		t.Fatalf("ResultToBody failed: %v", err)
	}
	if len(body) != 0 {
		t.Fatalf("empty result should encode to an empty body, got %x", body)
	}
	res, err := converter.BodyToResult(body, wire.OpImportKey)
	if err != nil {
		t.Fatalf("BodyToResult failed: %v", err)
	}
	if _, ok := res.(operations.ImportKeyResult); !ok {
		t.Fatalf("BodyToResult: got %T want ImportKeyResult", res)
	}
}

// Full header+body path: encode a request frame, then decode it back and
// check the operation survives field for field.
func TestImportKey_EndToEndThroughFraming(t *testing.T) {
	op := operations.ImportKey{
		KeyName:    "test name",
		Attributes: sampleKeyAttributes(),
		Data:       []byte{0x11, 0x22, 0x33},
	}
	body, err := converter.OperationToBody(op)
	if err != nil {
		t.Fatalf("OperationToBody failed: %v", err)
	}
	req := &wire.Request{
		Header: wire.Header{
			VersionMaj: 1, VersionMin: 0,
			Provider: wire.ProviderSoftware, Session: 88,
			ContentType: wire.BodyProtobuf, Opcode: op.Opcode(),
			Status: wire.StatusSuccess,
		},
		Body: body,
	}
	var buf bytes.Buffer
	if err := req.Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := wire.ReadRequest(&buf)
	if err != nil {
		t.Fatalf("ReadRequest failed: %v", err)
	}
	decoded, err := converter.BodyToOperation(got.Body, got.Header.Opcode)
	if err != nil {
		t.Fatalf("BodyToOperation failed: %v", err)
	}
	gotOp, ok := decoded.(operations.ImportKey)
	if !ok {
		t.Fatalf("BodyToOperation: got %T want ImportKey", decoded)
	}
	if gotOp.KeyName != op.KeyName {
		t.Fatalf("key name mismatch: got %q want %q", gotOp.KeyName, op.KeyName)
	}
	if !bytes.Equal(gotOp.Data, op.Data) {
		t.Fatalf("data mismatch: got %x want %x", gotOp.Data, op.Data)
	}
}
