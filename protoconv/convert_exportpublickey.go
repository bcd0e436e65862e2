package protoconv

import (
	"google.golang.org/protobuf/encoding/protowire"

	"keyward.io/keyward/operations"
)

// Wire schema:
//
//	message ExportPublicKeyOperation { string key_name = 1; }
//	message ExportPublicKeyResult { bytes data = 1; }

func encodeExportPublicKeyOperation(op operations.ExportPublicKey) ([]byte, error) {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, op.KeyName)
	return b, nil
}

func decodeExportPublicKeyOperation(body []byte) (operations.ExportPublicKey, error) {
	var op operations.ExportPublicKey
	b := body
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return operations.ExportPublicKey{}, errMalformed(n)
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			if op.KeyName, b, err = consumeString(b, num, typ); err != nil {
				return operations.ExportPublicKey{}, err
			}
		default:
			if b, err = skipField(b, num, typ); err != nil {
				return operations.ExportPublicKey{}, err
			}
		}
	}
	return op, nil
}

func encodeExportPublicKeyResult(res operations.ExportPublicKeyResult) ([]byte, error) {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, res.Data)
	return b, nil
}

func decodeExportPublicKeyResult(body []byte) (operations.ExportPublicKeyResult, error) {
	var res operations.ExportPublicKeyResult
	b := body
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return operations.ExportPublicKeyResult{}, errMalformed(n)
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			if res.Data, b, err = consumeBytes(b, num, typ); err != nil {
				return operations.ExportPublicKeyResult{}, err
			}
		default:
			if b, err = skipField(b, num, typ); err != nil {
				return operations.ExportPublicKeyResult{}, err
			}
		}
	}
	return res, nil
}
