package protoconv

import (
	"google.golang.org/protobuf/encoding/protowire"

	"keyward.io/keyward/operations"
	"keyward.io/keyward/wire"
)

// Wire schema:
//
//	message ListProvidersOperation {}
//	message ListProvidersResult { repeated ProviderInfo providers = 1; }
//	message ProviderInfo {
//	  uint32 id = 1;
//	  string description = 2;
//	  string vendor = 3;
//	  uint32 version_maj = 4;
//	  uint32 version_min = 5;
//	  uint32 version_rev = 6;
//	}

func encodeListProvidersOperation(operations.ListProviders) ([]byte, error) {
	return nil, nil
}

func decodeListProvidersOperation(body []byte) (operations.ListProviders, error) {
	if err := skipAllFields(body); err != nil {
		return operations.ListProviders{}, err
	}
	return operations.ListProviders{}, nil
}

func encodeListProvidersResult(res operations.ListProvidersResult) ([]byte, error) {
	var b []byte
	for _, info := range res.Providers {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeProviderInfo(info))
	}
	return b, nil
}

func decodeListProvidersResult(body []byte) (operations.ListProvidersResult, error) {
	var res operations.ListProvidersResult
	b := body
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return operations.ListProvidersResult{}, errMalformed(n)
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			var raw []byte
			if raw, b, err = consumeMessage(b, num, typ); err != nil {
				return operations.ListProvidersResult{}, err
			}
			info, err := decodeProviderInfo(raw)
			if err != nil {
				return operations.ListProvidersResult{}, err
			}
			res.Providers = append(res.Providers, info)
		default:
			if b, err = skipField(b, num, typ); err != nil {
				return operations.ListProvidersResult{}, err
			}
		}
	}
	return res, nil
}

func encodeProviderInfo(info operations.ProviderInfo) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(info.ID))
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendString(b, info.Description)
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendString(b, info.Vendor)
	b = protowire.AppendTag(b, 4, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(info.VersionMaj))
	b = protowire.AppendTag(b, 5, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(info.VersionMin))
	b = protowire.AppendTag(b, 6, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(info.VersionRev))
	return b
}

func decodeProviderInfo(body []byte) (operations.ProviderInfo, error) {
	var info operations.ProviderInfo
	b := body
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return operations.ProviderInfo{}, errMalformed(n)
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			var v uint64
			if v, b, err = consumeVarint(b, num, typ); err != nil {
				return operations.ProviderInfo{}, err
			}
			if v > 0xff {
				return operations.ProviderInfo{}, wire.NewError(wire.StatusInvalidEncoding, "protoconv: ProviderInfo.id out of range")
			}
			if info.ID, err = wire.ProviderIDFromWire(uint8(v)); err != nil {
				return operations.ProviderInfo{}, err
			}
		case 2:
			if info.Description, b, err = consumeString(b, num, typ); err != nil {
				return operations.ProviderInfo{}, err
			}
		case 3:
			if info.Vendor, b, err = consumeString(b, num, typ); err != nil {
				return operations.ProviderInfo{}, err
			}
		case 4:
			var v uint64
			if v, b, err = consumeVarint(b, num, typ); err != nil {
				return operations.ProviderInfo{}, err
			}
			info.VersionMaj = uint32(v)
		case 5:
			var v uint64
			if v, b, err = consumeVarint(b, num, typ); err != nil {
				return operations.ProviderInfo{}, err
			}
			info.VersionMin = uint32(v)
		case 6:
			var v uint64
			if v, b, err = consumeVarint(b, num, typ); err != nil {
				return operations.ProviderInfo{}, err
			}
			info.VersionRev = uint32(v)
		default:
			if b, err = skipField(b, num, typ); err != nil {
				return operations.ProviderInfo{}, err
			}
		}
	}
	return info, nil
}
