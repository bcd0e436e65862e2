package protoconv

import (
	"google.golang.org/protobuf/encoding/protowire"

	"keyward.io/keyward/operations"
)

// Wire schema:
//
//	message DestroyKeyOperation { string key_name = 1; }
//	message DestroyKeyResult {}

func encodeDestroyKeyOperation(op operations.DestroyKey) ([]byte, error) {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, op.KeyName)
	return b, nil
}

func decodeDestroyKeyOperation(body []byte) (operations.DestroyKey, error) {
	var op operations.DestroyKey
	b := body
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return operations.DestroyKey{}, errMalformed(n)
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			if op.KeyName, b, err = consumeString(b, num, typ); err != nil {
				return operations.DestroyKey{}, err
			}
		default:
			if b, err = skipField(b, num, typ); err != nil {
				return operations.DestroyKey{}, err
			}
		}
	}
	return op, nil
}

func encodeDestroyKeyResult(operations.DestroyKeyResult) ([]byte, error) {
	return nil, nil
}

func decodeDestroyKeyResult(body []byte) (operations.DestroyKeyResult, error) {
	if err := skipAllFields(body); err != nil {
		return operations.DestroyKeyResult{}, err
	}
	return operations.DestroyKeyResult{}, nil
}
