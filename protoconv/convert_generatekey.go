package protoconv

import (
	"google.golang.org/protobuf/encoding/protowire"

	"keyward.io/keyward/operations"
)

// Wire schema:
//
//	message GenerateKeyOperation {
//	  string key_name = 1;
//	  KeyAttributes attributes = 2;  // required
//	}
//	message GenerateKeyResult {}

func encodeGenerateKeyOperation(op operations.GenerateKey) ([]byte, error) {
	attrs, err := encodeKeyAttributes(op.Attributes)
	if err != nil {
		return nil, err
	}
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, op.KeyName)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, attrs)
	return b, nil
}

func decodeGenerateKeyOperation(body []byte) (operations.GenerateKey, error) {
	var op operations.GenerateKey
	var attrs *operations.KeyAttributes
	b := body
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return operations.GenerateKey{}, errMalformed(n)
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			if op.KeyName, b, err = consumeString(b, num, typ); err != nil {
				return operations.GenerateKey{}, err
			}
		case 2:
			var raw []byte
			if raw, b, err = consumeMessage(b, num, typ); err != nil {
				return operations.GenerateKey{}, err
			}
			a, err := decodeKeyAttributes(raw)
			if err != nil {
				return operations.GenerateKey{}, err
			}
			attrs = &a
		default:
			if b, err = skipField(b, num, typ); err != nil {
				return operations.GenerateKey{}, err
			}
		}
	}
	if attrs == nil {
		return operations.GenerateKey{}, errMissing("GenerateKeyOperation.attributes")
	}
	op.Attributes = *attrs
	return op, nil
}

func encodeGenerateKeyResult(operations.GenerateKeyResult) ([]byte, error) {
	return nil, nil
}

func decodeGenerateKeyResult(body []byte) (operations.GenerateKeyResult, error) {
	if err := skipAllFields(body); err != nil {
		return operations.GenerateKeyResult{}, err
	}
	return operations.GenerateKeyResult{}, nil
}
