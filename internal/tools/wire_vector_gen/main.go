// wire_vector_gen prints canonical wire frames as hex, for checking other
// implementations of the keyward protocol against this one.
package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"

	"keyward.io/keyward/operations"
	"keyward.io/keyward/protoconv"
	"keyward.io/keyward/wire"
)

func frame(h wire.Header, body []byte) string {
	var buf bytes.Buffer
	req := wire.Request{Header: h, Body: body}
	if err := req.Write(&buf); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return hex.EncodeToString(buf.Bytes())
}

func main() {
	conv := protoconv.Converter{}

	pingBody, err := conv.OperationToBody(operations.Ping{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("ping-request\t%s\n", frame(wire.Header{
		VersionMaj:  wire.VersionMajor,
		VersionMin:  wire.VersionMinor,
		Provider:    wire.ProviderCore,
		Session:     1,
		ContentType: wire.BodyProtobuf,
		Opcode:      wire.OpPing,
	}, pingBody))

	pingResult, err := conv.ResultToBody(operations.PingResult{
		VersionMaj: wire.VersionMajor,
		VersionMin: wire.VersionMinor,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("ping-response\t%s\n", frame(wire.Header{
		VersionMaj:  wire.VersionMajor,
		VersionMin:  wire.VersionMinor,
		Provider:    wire.ProviderCore,
		Session:     1,
		ContentType: wire.BodyProtobuf,
		Opcode:      wire.OpPing,
		Status:      wire.StatusSuccess,
	}, pingResult))

	destroyBody, err := conv.OperationToBody(operations.DestroyKey{KeyName: "vector-key"})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("destroy-key-request\t%s\n", frame(wire.Header{
		VersionMaj:  wire.VersionMajor,
		VersionMin:  wire.VersionMinor,
		Provider:    wire.ProviderSoftware,
		Session:     2,
		ContentType: wire.BodyProtobuf,
		Opcode:      wire.OpDestroyKey,
	}, destroyBody))
}
