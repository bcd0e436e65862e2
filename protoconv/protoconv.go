// Package protoconv converts native operations and results to and from
// protobuf-encoded message bodies.
//
// The encoding is hand-rolled on top of the protobuf wire format
// (encoding/protowire) so the repository does not require a protoc codegen
// step. Each opcode has one converter; dispatch is exhaustive over the
// closed operation set. Decoding is structural and strict: unknown fields
// are skipped, but a required sub-message that is absent always fails with
// an invalid-encoding error — it is never silently defaulted.
package protoconv

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"keyward.io/keyward/operations"
	"keyward.io/keyward/wire"
)

// Converter implements operations.Convert for the protobuf body encoding.
// It is stateless; the zero value is ready to use.
type Converter struct{}

var _ operations.Convert = Converter{}

// BodyType identifies the encoding this converter produces.
func (Converter) BodyType() wire.BodyType { return wire.BodyProtobuf }

// OperationToBody encodes op into a self-describing message body.
func (Converter) OperationToBody(op operations.NativeOperation) ([]byte, error) {
	switch op := op.(type) {
	case operations.Ping:
		return encodePingOperation(op)
	case operations.GenerateKey:
		return encodeGenerateKeyOperation(op)
	case operations.DestroyKey:
		return encodeDestroyKeyOperation(op)
	case operations.SignHash:
		return encodeSignHashOperation(op)
	case operations.VerifyHash:
		return encodeVerifyHashOperation(op)
	case operations.ImportKey:
		return encodeImportKeyOperation(op)
	case operations.ExportPublicKey:
		return encodeExportPublicKeyOperation(op)
	case operations.ListProviders:
		return encodeListProvidersOperation(op)
	case operations.ListOpcodes:
		return encodeListOpcodesOperation(op)
	default:
		// Unreachable for the sealed union; kept so a new variant cannot
		// slip through unnoticed.
		return nil, wire.NewError(wire.StatusOpcodeDoesNotExist, fmt.Sprintf("protoconv: no encoder for operation %T", op))
	}
}

// BodyToOperation decodes body using the converter selected by opcode,
// which the caller obtained from a previously validated header.
func (Converter) BodyToOperation(body []byte, opcode wire.Opcode) (operations.NativeOperation, error) {
	switch opcode {
	case wire.OpPing:
		return decodePingOperation(body)
	case wire.OpGenerateKey:
		return decodeGenerateKeyOperation(body)
	case wire.OpDestroyKey:
		return decodeDestroyKeyOperation(body)
	case wire.OpSignHash:
		return decodeSignHashOperation(body)
	case wire.OpVerifyHash:
		return decodeVerifyHashOperation(body)
	case wire.OpImportKey:
		return decodeImportKeyOperation(body)
	case wire.OpExportPublicKey:
		return decodeExportPublicKeyOperation(body)
	case wire.OpListProviders:
		return decodeListProvidersOperation(body)
	case wire.OpListOpcodes:
		return decodeListOpcodesOperation(body)
	default:
		return nil, wire.NewError(wire.StatusOpcodeDoesNotExist, fmt.Sprintf("protoconv: no decoder for %s", opcode))
	}
}

// ResultToBody encodes res into a self-describing message body.
func (Converter) ResultToBody(res operations.NativeResult) ([]byte, error) {
	switch res := res.(type) {
	case operations.PingResult:
		return encodePingResult(res)
	case operations.GenerateKeyResult:
		return encodeGenerateKeyResult(res)
	case operations.DestroyKeyResult:
		return encodeDestroyKeyResult(res)
	case operations.SignHashResult:
		return encodeSignHashResult(res)
	case operations.VerifyHashResult:
		return encodeVerifyHashResult(res)
	case operations.ImportKeyResult:
		return encodeImportKeyResult(res)
	case operations.ExportPublicKeyResult:
		return encodeExportPublicKeyResult(res)
	case operations.ListProvidersResult:
		return encodeListProvidersResult(res)
	case operations.ListOpcodesResult:
		return encodeListOpcodesResult(res)
	default:
		return nil, wire.NewError(wire.StatusOpcodeDoesNotExist, fmt.Sprintf("protoconv: no encoder for result %T", res))
	}
}

// BodyToResult decodes body using the converter selected by opcode.
func (Converter) BodyToResult(body []byte, opcode wire.Opcode) (operations.NativeResult, error) {
	switch opcode {
	case wire.OpPing:
		return decodePingResult(body)
	case wire.OpGenerateKey:
		return decodeGenerateKeyResult(body)
	case wire.OpDestroyKey:
		return decodeDestroyKeyResult(body)
	case wire.OpSignHash:
		return decodeSignHashResult(body)
	case wire.OpVerifyHash:
		return decodeVerifyHashResult(body)
	case wire.OpImportKey:
		return decodeImportKeyResult(body)
	case wire.OpExportPublicKey:
		return decodeExportPublicKeyResult(body)
	case wire.OpListProviders:
		return decodeListProvidersResult(body)
	case wire.OpListOpcodes:
		return decodeListOpcodesResult(body)
	default:
		return nil, wire.NewError(wire.StatusOpcodeDoesNotExist, fmt.Sprintf("protoconv: no decoder for %s", opcode))
	}
}

func errMalformed(n int) error {
	return wire.WrapError(wire.StatusInvalidEncoding, "protoconv: malformed protobuf body", protowire.ParseError(n))
}

func errMissing(field string) error {
	return wire.NewError(wire.StatusInvalidEncoding, "protoconv: required field "+field+" is missing")
}

func errWireType(num protowire.Number, typ protowire.Type) error {
	return wire.NewError(wire.StatusInvalidEncoding, fmt.Sprintf("protoconv: unexpected wire type %d for field %d", typ, num))
}

// skipField consumes one unknown field value, returning the remaining
// bytes. Unknown fields are tolerated so optional extensions do not break
// older readers; required absences are still caught by each decoder.
func skipField(b []byte, num protowire.Number, typ protowire.Type) ([]byte, error) {
	n := protowire.ConsumeFieldValue(num, typ, b)
	if n < 0 {
		return nil, errMalformed(n)
	}
	return b[n:], nil
}

// skipAllFields validates that body is a well-formed message while keeping
// none of it. Decoders of empty messages use it so a malformed body still
// fails instead of being ignored.
func skipAllFields(body []byte) error {
	b := body
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return errMalformed(n)
		}
		b = b[n:]
		var err error
		if b, err = skipField(b, num, typ); err != nil {
			return err
		}
	}
	return nil
}

func consumeVarint(b []byte, num protowire.Number, typ protowire.Type) (uint64, []byte, error) {
	if typ != protowire.VarintType {
		return 0, nil, errWireType(num, typ)
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, nil, errMalformed(n)
	}
	return v, b[n:], nil
}

func consumeString(b []byte, num protowire.Number, typ protowire.Type) (string, []byte, error) {
	if typ != protowire.BytesType {
		return "", nil, errWireType(num, typ)
	}
	v, n := protowire.ConsumeString(b)
	if n < 0 {
		return "", nil, errMalformed(n)
	}
	return v, b[n:], nil
}

// consumeBytes copies the field value out of b; decoded messages must not
// alias the body buffer they were parsed from.
func consumeBytes(b []byte, num protowire.Number, typ protowire.Type) ([]byte, []byte, error) {
	if typ != protowire.BytesType {
		return nil, nil, errWireType(num, typ)
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, nil, errMalformed(n)
	}
	return append([]byte(nil), v...), b[n:], nil
}

// consumeMessage returns the raw sub-message value without copying; the
// sub-message decoder copies whatever it keeps.
func consumeMessage(b []byte, num protowire.Number, typ protowire.Type) ([]byte, []byte, error) {
	if typ != protowire.BytesType {
		return nil, nil, errWireType(num, typ)
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, nil, errMalformed(n)
	}
	return v, b[n:], nil
}
