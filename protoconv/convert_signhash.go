package protoconv

import (
	"google.golang.org/protobuf/encoding/protowire"

	"keyward.io/keyward/operations"
)

// Wire schema:
//
//	message SignHashOperation {
//	  string key_name = 1;
//	  bytes hash = 2;
//	}
//	message SignHashResult { bytes signature = 1; }

func encodeSignHashOperation(op operations.SignHash) ([]byte, error) {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, op.KeyName)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, op.Hash)
	return b, nil
}

func decodeSignHashOperation(body []byte) (operations.SignHash, error) {
	var op operations.SignHash
	b := body
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return operations.SignHash{}, errMalformed(n)
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			if op.KeyName, b, err = consumeString(b, num, typ); err != nil {
				return operations.SignHash{}, err
			}
		case 2:
			if op.Hash, b, err = consumeBytes(b, num, typ); err != nil {
				return operations.SignHash{}, err
			}
		default:
			if b, err = skipField(b, num, typ); err != nil {
				return operations.SignHash{}, err
			}
		}
	}
	return op, nil
}

func encodeSignHashResult(res operations.SignHashResult) ([]byte, error) {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, res.Signature)
	return b, nil
}

func decodeSignHashResult(body []byte) (operations.SignHashResult, error) {
	var res operations.SignHashResult
	b := body
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return operations.SignHashResult{}, errMalformed(n)
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			if res.Signature, b, err = consumeBytes(b, num, typ); err != nil {
				return operations.SignHashResult{}, err
			}
		default:
			if b, err = skipField(b, num, typ); err != nil {
				return operations.SignHashResult{}, err
			}
		}
	}
	return res, nil
}
