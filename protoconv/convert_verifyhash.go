package protoconv

import (
	"google.golang.org/protobuf/encoding/protowire"

	"keyward.io/keyward/operations"
)

// Wire schema:
//
//	message VerifyHashOperation {
//	  string key_name = 1;
//	  bytes hash = 2;
//	  bytes signature = 3;
//	}
//	message VerifyHashResult {}

func encodeVerifyHashOperation(op operations.VerifyHash) ([]byte, error) {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, op.KeyName)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, op.Hash)
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendBytes(b, op.Signature)
	return b, nil
}

func decodeVerifyHashOperation(body []byte) (operations.VerifyHash, error) {
	var op operations.VerifyHash
	b := body
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return operations.VerifyHash{}, errMalformed(n)
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			if op.KeyName, b, err = consumeString(b, num, typ); err != nil {
				return operations.VerifyHash{}, err
			}
		case 2:
			if op.Hash, b, err = consumeBytes(b, num, typ); err != nil {
				return operations.VerifyHash{}, err
			}
		case 3:
			if op.Signature, b, err = consumeBytes(b, num, typ); err != nil {
				return operations.VerifyHash{}, err
			}
		default:
			if b, err = skipField(b, num, typ); err != nil {
				return operations.VerifyHash{}, err
			}
		}
	}
	return op, nil
}

func encodeVerifyHashResult(operations.VerifyHashResult) ([]byte, error) {
	return nil, nil
}

func decodeVerifyHashResult(body []byte) (operations.VerifyHashResult, error) {
	if err := skipAllFields(body); err != nil {
		return operations.VerifyHashResult{}, err
	}
	return operations.VerifyHashResult{}, nil
}
