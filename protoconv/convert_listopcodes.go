package protoconv

import (
	"google.golang.org/protobuf/encoding/protowire"

	"keyward.io/keyward/operations"
	"keyward.io/keyward/wire"
)

// Wire schema:
//
//	message ListOpcodesOperation { uint32 provider = 1; }
//	message ListOpcodesResult { repeated uint32 opcodes = 1; }
//
// The opcodes field is written unpacked; the decoder also accepts the
// packed form, since both are valid encodings of a repeated varint field.

func encodeListOpcodesOperation(op operations.ListOpcodes) ([]byte, error) {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(op.Provider))
	return b, nil
}

func decodeListOpcodesOperation(body []byte) (operations.ListOpcodes, error) {
	var op operations.ListOpcodes
	b := body
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return operations.ListOpcodes{}, errMalformed(n)
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			var v uint64
			if v, b, err = consumeVarint(b, num, typ); err != nil {
				return operations.ListOpcodes{}, err
			}
			if v > 0xff {
				return operations.ListOpcodes{}, wire.NewError(wire.StatusInvalidEncoding, "protoconv: ListOpcodesOperation.provider out of range")
			}
			if op.Provider, err = wire.ProviderIDFromWire(uint8(v)); err != nil {
				return operations.ListOpcodes{}, err
			}
		default:
			if b, err = skipField(b, num, typ); err != nil {
				return operations.ListOpcodes{}, err
			}
		}
	}
	return op, nil
}

func encodeListOpcodesResult(res operations.ListOpcodesResult) ([]byte, error) {
	var b []byte
	for _, op := range res.Opcodes {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(op))
	}
	return b, nil
}

func decodeListOpcodesResult(body []byte) (operations.ListOpcodesResult, error) {
	var res operations.ListOpcodesResult
	appendOpcode := func(v uint64) error {
		if v > 0xffff {
			return wire.NewError(wire.StatusInvalidEncoding, "protoconv: ListOpcodesResult.opcodes value out of range")
		}
		opcode, err := wire.OpcodeFromWire(uint16(v))
		if err != nil {
			return err
		}
		res.Opcodes = append(res.Opcodes, opcode)
		return nil
	}
	b := body
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return operations.ListOpcodesResult{}, errMalformed(n)
		}
		b = b[n:]
		var err error
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return operations.ListOpcodesResult{}, errMalformed(n)
			}
			b = b[n:]
			if err := appendOpcode(v); err != nil {
				return operations.ListOpcodesResult{}, err
			}
		case num == 1 && typ == protowire.BytesType:
			packed, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return operations.ListOpcodesResult{}, errMalformed(n)
			}
			b = b[n:]
			for len(packed) > 0 {
				v, n := protowire.ConsumeVarint(packed)
				if n < 0 {
					return operations.ListOpcodesResult{}, errMalformed(n)
				}
				packed = packed[n:]
				if err := appendOpcode(v); err != nil {
					return operations.ListOpcodesResult{}, err
				}
			}
		default:
			if b, err = skipField(b, num, typ); err != nil {
				return operations.ListOpcodesResult{}, err
			}
		}
	}
	return res, nil
}
