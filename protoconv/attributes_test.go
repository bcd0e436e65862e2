package protoconv

import (
	"reflect"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"

	"keyward.io/keyward/operations"
	"keyward.io/keyward/wire"
)

func TestKeyAttributes_RoundTrip(t *testing.T) {
	attrs := sampleKeyAttributes()
	body, err := encodeKeyAttributes(attrs)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	got, err := decodeKeyAttributes(body)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !reflect.DeepEqual(got, attrs) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, attrs)
	}
}

func TestKeyAttributes_MissingPolicy(t *testing.T) {
	var body []byte
	body = protowire.AppendTag(body, 1, protowire.VarintType)
	body = protowire.AppendVarint(body, uint64(operations.KeyTypeEd25519))
	body = protowire.AppendTag(body, 2, protowire.VarintType)
	body = protowire.AppendVarint(body, 256)

	_, err := decodeKeyAttributes(body)
	if !wire.IsStatus(err, wire.StatusInvalidEncoding) {
		t.Fatalf("decode: got %v want InvalidEncoding", err)
	}
}

func TestKeyPolicy_MissingSubMessages(t *testing.T) {
	t.Run("missing usage flags", func(t *testing.T) {
		var body []byte
		body = protowire.AppendTag(body, 2, protowire.BytesType)
		body = protowire.AppendBytes(body, encodeSignScheme(operations.SignScheme{
			Algorithm: operations.SignAlgorithmEd25519,
			Hash:      operations.HashSHA256,
		}))
		_, err := decodeKeyPolicy(body)
		if !wire.IsStatus(err, wire.StatusInvalidEncoding) {
			t.Fatalf("decode: got %v want InvalidEncoding", err)
		}
	})
	t.Run("missing scheme", func(t *testing.T) {
		var body []byte
		body = protowire.AppendTag(body, 1, protowire.BytesType)
		body = protowire.AppendBytes(body, encodeUsageFlags(operations.UsageFlags{SignHash: true}))
		_, err := decodeKeyPolicy(body)
		if !wire.IsStatus(err, wire.StatusInvalidEncoding) {
			t.Fatalf("decode: got %v want InvalidEncoding", err)
		}
	})
}

func TestKeyAttributes_UnknownKeyTypeCode(t *testing.T) {
	attrs := sampleKeyAttributes()
	body, err := encodeKeyAttributes(attrs)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	// key_type is the first field; its varint value sits right after the
	// first tag byte.
	body[1] = 0x7f
	_, err = decodeKeyAttributes(body)
	if !wire.IsStatus(err, wire.StatusInvalidEncoding) {
		t.Fatalf("decode: got %v want InvalidEncoding", err)
	}
}

// Unknown fields are skipped; a reader must tolerate additive extensions.
func TestKeyAttributes_SkipsUnknownFields(t *testing.T) {
	attrs := sampleKeyAttributes()
	body, err := encodeKeyAttributes(attrs)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	body = protowire.AppendTag(body, 99, protowire.BytesType)
	body = protowire.AppendString(body, "future extension")

	got, err := decodeKeyAttributes(body)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !reflect.DeepEqual(got, attrs) {
		t.Fatalf("unknown field changed the result: got %+v want %+v", got, attrs)
	}
}

func TestUsageFlags_RoundTripEachFlag(t *testing.T) {
	for i := 0; i < 10; i++ {
		var flags operations.UsageFlags
		fields := []*bool{
			&flags.Export, &flags.Copy, &flags.Cache, &flags.Encrypt, &flags.Decrypt,
			&flags.SignMessage, &flags.VerifyMessage, &flags.SignHash, &flags.VerifyHash,
			&flags.Derive,
		}
		*fields[i] = true
		got, err := decodeUsageFlags(encodeUsageFlags(flags))
		if err != nil {
			t.Fatalf("decode failed for flag %d: %v", i, err)
		}
		if got != flags {
			t.Fatalf("flag %d mismatch: got %+v want %+v", i, got, flags)
		}
	}
}
