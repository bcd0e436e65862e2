package protoconv

import (
	"google.golang.org/protobuf/encoding/protowire"

	"keyward.io/keyward/operations"
)

// Wire schema for key attributes and their sub-messages:
//
//	message KeyAttributes {
//	  uint32 key_type = 1;
//	  uint32 key_bits = 2;
//	  KeyPolicy key_policy = 3;   // required
//	}
//	message KeyPolicy {
//	  UsageFlags key_usage_flags = 1;  // required
//	  SignScheme key_algorithm = 2;    // required
//	}
//	message UsageFlags {
//	  bool export = 1;  bool copy = 2;    bool cache = 3;
//	  bool encrypt = 4; bool decrypt = 5; bool sign_message = 6;
//	  bool verify_message = 7; bool sign_hash = 8;
//	  bool verify_hash = 9;    bool derive = 10;
//	}
//	message SignScheme {
//	  uint32 algorithm = 1;
//	  uint32 hash = 2;
//	}

func encodeKeyAttributes(attrs operations.KeyAttributes) ([]byte, error) {
	policy, err := encodeKeyPolicy(attrs.Policy)
	if err != nil {
		return nil, err
	}
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(attrs.KeyType))
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(attrs.KeyBits))
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendBytes(b, policy)
	return b, nil
}

func decodeKeyAttributes(body []byte) (operations.KeyAttributes, error) {
	var attrs operations.KeyAttributes
	var policy *operations.KeyPolicy
	b := body
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return operations.KeyAttributes{}, errMalformed(n)
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			var v uint64
			if v, b, err = consumeVarint(b, num, typ); err != nil {
				return operations.KeyAttributes{}, err
			}
			if attrs.KeyType, err = operations.KeyTypeFromWire(uint32(v)); err != nil {
				return operations.KeyAttributes{}, err
			}
		case 2:
			var v uint64
			if v, b, err = consumeVarint(b, num, typ); err != nil {
				return operations.KeyAttributes{}, err
			}
			attrs.KeyBits = uint32(v)
		case 3:
			var raw []byte
			if raw, b, err = consumeMessage(b, num, typ); err != nil {
				return operations.KeyAttributes{}, err
			}
			p, err := decodeKeyPolicy(raw)
			if err != nil {
				return operations.KeyAttributes{}, err
			}
			policy = &p
		default:
			if b, err = skipField(b, num, typ); err != nil {
				return operations.KeyAttributes{}, err
			}
		}
	}
	if policy == nil {
		return operations.KeyAttributes{}, errMissing("KeyAttributes.key_policy")
	}
	attrs.Policy = *policy
	return attrs, nil
}

func encodeKeyPolicy(policy operations.KeyPolicy) ([]byte, error) {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, encodeUsageFlags(policy.Usage))
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, encodeSignScheme(policy.Scheme))
	return b, nil
}

func decodeKeyPolicy(body []byte) (operations.KeyPolicy, error) {
	var policy operations.KeyPolicy
	var usage *operations.UsageFlags
	var scheme *operations.SignScheme
	b := body
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return operations.KeyPolicy{}, errMalformed(n)
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			var raw []byte
			if raw, b, err = consumeMessage(b, num, typ); err != nil {
				return operations.KeyPolicy{}, err
			}
			u, err := decodeUsageFlags(raw)
			if err != nil {
				return operations.KeyPolicy{}, err
			}
			usage = &u
		case 2:
			var raw []byte
			if raw, b, err = consumeMessage(b, num, typ); err != nil {
				return operations.KeyPolicy{}, err
			}
			s, err := decodeSignScheme(raw)
			if err != nil {
				return operations.KeyPolicy{}, err
			}
			scheme = &s
		default:
			if b, err = skipField(b, num, typ); err != nil {
				return operations.KeyPolicy{}, err
			}
		}
	}
	if usage == nil {
		return operations.KeyPolicy{}, errMissing("KeyPolicy.key_usage_flags")
	}
	if scheme == nil {
		return operations.KeyPolicy{}, errMissing("KeyPolicy.key_algorithm")
	}
	policy.Usage = *usage
	policy.Scheme = *scheme
	return policy, nil
}

func encodeUsageFlags(flags operations.UsageFlags) []byte {
	var b []byte
	for i, v := range []bool{
		flags.Export, flags.Copy, flags.Cache, flags.Encrypt, flags.Decrypt,
		flags.SignMessage, flags.VerifyMessage, flags.SignHash, flags.VerifyHash,
		flags.Derive,
	} {
		b = protowire.AppendTag(b, protowire.Number(i+1), protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(v))
	}
	return b
}

func decodeUsageFlags(body []byte) (operations.UsageFlags, error) {
	var flags operations.UsageFlags
	fields := []*bool{
		&flags.Export, &flags.Copy, &flags.Cache, &flags.Encrypt, &flags.Decrypt,
		&flags.SignMessage, &flags.VerifyMessage, &flags.SignHash, &flags.VerifyHash,
		&flags.Derive,
	}
	b := body
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return operations.UsageFlags{}, errMalformed(n)
		}
		b = b[n:]
		var err error
		if num < 1 || int(num) > len(fields) {
			if b, err = skipField(b, num, typ); err != nil {
				return operations.UsageFlags{}, err
			}
			continue
		}
		var v uint64
		if v, b, err = consumeVarint(b, num, typ); err != nil {
			return operations.UsageFlags{}, err
		}
		*fields[num-1] = protowire.DecodeBool(v)
	}
	return flags, nil
}

func encodeSignScheme(scheme operations.SignScheme) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(scheme.Algorithm))
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(scheme.Hash))
	return b
}

func decodeSignScheme(body []byte) (operations.SignScheme, error) {
	var scheme operations.SignScheme
	b := body
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return operations.SignScheme{}, errMalformed(n)
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			var v uint64
			if v, b, err = consumeVarint(b, num, typ); err != nil {
				return operations.SignScheme{}, err
			}
			if scheme.Algorithm, err = operations.SignAlgorithmFromWire(uint32(v)); err != nil {
				return operations.SignScheme{}, err
			}
		case 2:
			var v uint64
			if v, b, err = consumeVarint(b, num, typ); err != nil {
				return operations.SignScheme{}, err
			}
			if scheme.Hash, err = operations.HashAlgFromWire(uint32(v)); err != nil {
				return operations.SignScheme{}, err
			}
		default:
			if b, err = skipField(b, num, typ); err != nil {
				return operations.SignScheme{}, err
			}
		}
	}
	return scheme, nil
}
