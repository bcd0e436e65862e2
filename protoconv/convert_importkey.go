package protoconv

import (
	"google.golang.org/protobuf/encoding/protowire"

	"keyward.io/keyward/operations"
)

// Wire schema:
//
//	message ImportKeyOperation {
//	  string key_name = 1;
//	  KeyAttributes attributes = 2;  // required
//	  bytes data = 3;
//	}
//	message ImportKeyResult {}

func encodeImportKeyOperation(op operations.ImportKey) ([]byte, error) {
	attrs, err := encodeKeyAttributes(op.Attributes)
	if err != nil {
		return nil, err
	}
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, op.KeyName)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, attrs)
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendBytes(b, op.Data)
	return b, nil
}

func decodeImportKeyOperation(body []byte) (operations.ImportKey, error) {
	var op operations.ImportKey
	var attrs *operations.KeyAttributes
	b := body
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return operations.ImportKey{}, errMalformed(n)
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			if op.KeyName, b, err = consumeString(b, num, typ); err != nil {
				return operations.ImportKey{}, err
			}
		case 2:
			var raw []byte
			if raw, b, err = consumeMessage(b, num, typ); err != nil {
				return operations.ImportKey{}, err
			}
			a, err := decodeKeyAttributes(raw)
			if err != nil {
				return operations.ImportKey{}, err
			}
			attrs = &a
		case 3:
			if op.Data, b, err = consumeBytes(b, num, typ); err != nil {
				return operations.ImportKey{}, err
			}
		default:
			if b, err = skipField(b, num, typ); err != nil {
				return operations.ImportKey{}, err
			}
		}
	}
	if attrs == nil {
		return operations.ImportKey{}, errMissing("ImportKeyOperation.attributes")
	}
	op.Attributes = *attrs
	return op, nil
}

func encodeImportKeyResult(operations.ImportKeyResult) ([]byte, error) {
	return nil, nil
}

func decodeImportKeyResult(body []byte) (operations.ImportKeyResult, error) {
	if err := skipAllFields(body); err != nil {
		return operations.ImportKeyResult{}, err
	}
	return operations.ImportKeyResult{}, nil
}
