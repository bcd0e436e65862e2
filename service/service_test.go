package service

import (
	"context"
	"encoding/binary"
	"net"
	"testing"
	"time"

	"keyward.io/keyward/keystore"
	"keyward.io/keyward/operations"
	"keyward.io/keyward/protoconv"
	"keyward.io/keyward/provider"
	"keyward.io/keyward/provider/soft"
	"keyward.io/keyward/wire"
)

func testService(t *testing.T) *Service {
	t.Helper()
	store, err := keystore.Open(t.TempDir(), []byte("test secret"))
	if err != nil {
		t.Fatalf("Open keystore failed: %v", err)
	}
	reg := provider.NewRegistry()
	if err := reg.Register(provider.NewCore(reg)); err != nil {
		t.Fatalf("Register core failed: %v", err)
	}
	if err := reg.Register(soft.New(store)); err != nil {
		t.Fatalf("Register soft failed: %v", err)
	}
	return New(reg, protoconv.Converter{}, nil)
}

var converter protoconv.Converter

func request(t *testing.T, op operations.NativeOperation, prov wire.ProviderID, session uint64) *wire.Request {
	t.Helper()
	body, err := converter.OperationToBody(op)
	if err != nil {
		t.Fatalf("OperationToBody failed: %v", err)
	}
	return &wire.Request{
		Header: wire.Header{
			VersionMaj:  wire.VersionMajor,
			VersionMin:  wire.VersionMinor,
			Provider:    prov,
			Session:     session,
			ContentType: wire.BodyProtobuf,
			Opcode:      op.Opcode(),
		},
		Body: body,
	}
}

func mustResult(t *testing.T, resp *wire.Response) operations.NativeResult {
	t.Helper()
	if resp.Header.Status != wire.StatusSuccess {
		t.Fatalf("response status %s", resp.Header.Status)
	}
	res, err := converter.BodyToResult(resp.Body, resp.Header.Opcode)
	if err != nil {
		t.Fatalf("BodyToResult failed: %v", err)
	}
	return res
}

func TestHandleRequest_Ping(t *testing.T) {
	svc := testService(t)
	resp := svc.HandleRequest(context.Background(), request(t, operations.Ping{}, wire.ProviderCore, 42))
	if resp.Header.Session != 42 {
		t.Fatalf("session not echoed: got %d", resp.Header.Session)
	}
	ping := mustResult(t, resp).(operations.PingResult)
	if ping.VersionMaj != wire.VersionMajor {
		t.Fatalf("ping version %d.%d", ping.VersionMaj, ping.VersionMin)
	}
}

// Discovery opcodes are served by the core provider even when the header
// addresses another provider.
func TestHandleRequest_CoreOpcodesIgnoreHeaderProvider(t *testing.T) {
	svc := testService(t)
	resp := svc.HandleRequest(context.Background(), request(t, operations.Ping{}, wire.ProviderSoftware, 1))
	if resp.Header.Status != wire.StatusSuccess {
		t.Fatalf("ping via software provider header: status %s", resp.Header.Status)
	}
	if resp.Header.Provider != wire.ProviderSoftware {
		t.Fatalf("provider not echoed: got %s", resp.Header.Provider)
	}
}

func TestHandleRequest_KeyLifecycle(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()
	attrs := operations.KeyAttributes{
		KeyType: operations.KeyTypeEd25519,
		KeyBits: 256,
		Policy: operations.KeyPolicy{
			Usage: operations.UsageFlags{SignHash: true, VerifyHash: true},
			Scheme: operations.SignScheme{
				Algorithm: operations.SignAlgorithmEd25519,
				Hash:      operations.HashSHA256,
			},
		},
	}

	resp := svc.HandleRequest(ctx, request(t, operations.GenerateKey{KeyName: "svc-key", Attributes: attrs}, wire.ProviderSoftware, 2))
	mustResult(t, resp)

	hash, err := soft.SumHash(operations.HashSHA256, []byte("payload"))
	if err != nil {
		t.Fatalf("SumHash failed: %v", err)
	}
	resp = svc.HandleRequest(ctx, request(t, operations.SignHash{KeyName: "svc-key", Hash: hash}, wire.ProviderSoftware, 3))
	sig := mustResult(t, resp).(operations.SignHashResult).Signature

	resp = svc.HandleRequest(ctx, request(t, operations.VerifyHash{KeyName: "svc-key", Hash: hash, Signature: sig}, wire.ProviderSoftware, 4))
	mustResult(t, resp)

	resp = svc.HandleRequest(ctx, request(t, operations.DestroyKey{KeyName: "svc-key"}, wire.ProviderSoftware, 5))
	mustResult(t, resp)

	resp = svc.HandleRequest(ctx, request(t, operations.DestroyKey{KeyName: "svc-key"}, wire.ProviderSoftware, 6))
	if resp.Header.Status != wire.StatusKeyDoesNotExist {
		t.Fatalf("second destroy: status %s", resp.Header.Status)
	}
}

func TestHandleRequest_UnregisteredProvider(t *testing.T) {
	svc := testService(t)
	resp := svc.HandleRequest(context.Background(), request(t, operations.DestroyKey{KeyName: "k"}, wire.ProviderRemote, 7))
	if resp.Header.Status != wire.StatusProviderNotRegistered {
		t.Fatalf("status %s want ProviderNotRegistered", resp.Header.Status)
	}
	if resp.Header.Session != 7 {
		t.Fatalf("session not echoed on failure: got %d", resp.Header.Session)
	}
	if len(resp.Body) != 0 {
		t.Fatalf("failure response carries a body of %d bytes", len(resp.Body))
	}
}

func TestHandleRequest_MalformedBody(t *testing.T) {
	svc := testService(t)
	req := request(t, operations.DestroyKey{KeyName: "k"}, wire.ProviderSoftware, 8)
	req.Body = []byte{0xff, 0xff, 0xff}
	resp := svc.HandleRequest(context.Background(), req)
	if resp.Header.Status != wire.StatusInvalidEncoding {
		t.Fatalf("status %s want InvalidEncoding", resp.Header.Status)
	}
}

func TestServeConn_RoundTrip(t *testing.T) {
	svc := testService(t)
	client, server := net.Pipe()
	defer client.Close()
	go func() {
		defer server.Close()
		svc.ServeConn(context.Background(), server)
	}()

	req := request(t, operations.Ping{}, wire.ProviderCore, 99)
	if err := req.Write(client); err != nil {
		t.Fatalf("request write failed: %v", err)
	}
	resp, err := wire.ReadResponse(client)
	if err != nil {
		t.Fatalf("ReadResponse failed: %v", err)
	}
	if resp.Header.Session != 99 {
		t.Fatalf("session: got %d", resp.Header.Session)
	}
	mustResult(t, resp)
}

func TestServeConn_ServesMultipleRequests(t *testing.T) {
	svc := testService(t)
	client, server := net.Pipe()
	defer client.Close()
	go func() {
		defer server.Close()
		svc.ServeConn(context.Background(), server)
	}()

	for session := uint64(1); session <= 3; session++ {
		req := request(t, operations.Ping{}, wire.ProviderCore, session)
		if err := req.Write(client); err != nil {
			t.Fatalf("request %d write failed: %v", session, err)
		}
		resp, err := wire.ReadResponse(client)
		if err != nil {
			t.Fatalf("response %d read failed: %v", session, err)
		}
		if resp.Header.Session != session {
			t.Fatalf("response %d: session %d", session, resp.Header.Session)
		}
	}
}

// A request with a corrupt magic number gets an InvalidHeader response
// and the connection closes: the stream position is unknown after it.
func TestServeConn_BadMagicGetsErrorResponseThenClose(t *testing.T) {
	svc := testService(t)
	client, server := net.Pipe()
	defer client.Close()
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer server.Close()
		svc.ServeConn(context.Background(), server)
	}()

	frame := make([]byte, 6+20)
	binary.LittleEndian.PutUint32(frame[0:4], 0xdeadbeef)
	binary.LittleEndian.PutUint16(frame[4:6], 20)
	if _, err := client.Write(frame[:6]); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	resp, err := wire.ReadResponse(client)
	if err != nil {
		t.Fatalf("ReadResponse failed: %v", err)
	}
	if resp.Header.Status != wire.StatusInvalidHeader {
		t.Fatalf("status %s want InvalidHeader", resp.Header.Status)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("connection not closed after framing error")
	}
}
