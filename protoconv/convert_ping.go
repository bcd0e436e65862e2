package protoconv

import (
	"google.golang.org/protobuf/encoding/protowire"

	"keyward.io/keyward/operations"
)

// Wire schema:
//
//	message PingOperation {}
//	message PingResult {
//	  uint32 wire_version_maj = 1;
//	  uint32 wire_version_min = 2;
//	}

func encodePingOperation(operations.Ping) ([]byte, error) {
	return nil, nil
}

func decodePingOperation(body []byte) (operations.Ping, error) {
	if err := skipAllFields(body); err != nil {
		return operations.Ping{}, err
	}
	return operations.Ping{}, nil
}

func encodePingResult(res operations.PingResult) ([]byte, error) {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(res.VersionMaj))
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(res.VersionMin))
	return b, nil
}

func decodePingResult(body []byte) (operations.PingResult, error) {
	var res operations.PingResult
	b := body
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return operations.PingResult{}, errMalformed(n)
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			var v uint64
			if v, b, err = consumeVarint(b, num, typ); err != nil {
				return operations.PingResult{}, err
			}
			res.VersionMaj = uint8(v)
		case 2:
			var v uint64
			if v, b, err = consumeVarint(b, num, typ); err != nil {
				return operations.PingResult{}, err
			}
			res.VersionMin = uint8(v)
		default:
			if b, err = skipField(b, num, typ); err != nil {
				return operations.PingResult{}, err
			}
		}
	}
	return res, nil
}
