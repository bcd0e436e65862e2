// Package operations defines the native, strongly-typed representation of
// every operation the keyward protocol supports, together with the Convert
// interface a body codec implements.
//
// Exactly one Operation type and one Result type exist per opcode. The
// NativeOperation and NativeResult interfaces are sealed: only types in
// this package implement them, which makes each a closed tagged union a
// converter can dispatch over exhaustively.
package operations

import "keyward.io/keyward/wire"

// NativeOperation is the tagged union over all request types, one variant
// per opcode.
type NativeOperation interface {
	Opcode() wire.Opcode
	isOperation()
}

// NativeResult is the tagged union over all reply types, one variant per
// opcode. A result may carry no fields, signaling pure acknowledgement.
type NativeResult interface {
	Opcode() wire.Opcode
	isResult()
}

// Convert turns native operations and results into opaque message bodies
// and back. Implementations are structural codecs only: they check that
// every required field is present and well-typed, never that the values
// make cryptographic sense.
type Convert interface {
	// BodyType identifies the encoding scheme this converter produces.
	BodyType() wire.BodyType

	OperationToBody(op NativeOperation) ([]byte, error)
	BodyToOperation(body []byte, opcode wire.Opcode) (NativeOperation, error)
	ResultToBody(res NativeResult) ([]byte, error)
	BodyToResult(body []byte, opcode wire.Opcode) (NativeResult, error)
}
