package remote

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"keyward.io/keyward/keystore"
	"keyward.io/keyward/operations"
	"keyward.io/keyward/protoconv"
	"keyward.io/keyward/provider"
	"keyward.io/keyward/provider/soft"
	"keyward.io/keyward/service"
	"keyward.io/keyward/wire"
)

// Spin up a complete facility behind the Exec service and proxy to it.
func dialTestFacility(t *testing.T) *Provider {
	t.Helper()
	store, err := keystore.Open(t.TempDir(), []byte("remote facility secret"))
	if err != nil {
		t.Fatalf("keystore.Open: %v", err)
	}
	reg := provider.NewRegistry()
	if err := reg.Register(provider.NewCore(reg)); err != nil {
		t.Fatalf("Register core: %v", err)
	}
	if err := reg.Register(soft.New(store)); err != nil {
		t.Fatalf("Register soft: %v", err)
	}
	svc := service.New(reg, protoconv.Converter{}, nil)

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	RegisterExecServer(srv, &Server{Handler: svc})
	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	dialer := func(ctx context.Context, s string) (net.Conn, error) { return lis.Dial() }
	cc, err := grpc.DialContext(
		context.Background(),
		"bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("DialContext: %v", err)
	}
	t.Cleanup(func() { _ = cc.Close() })

	return &Provider{cc: cc, client: NewExecClient(cc), conv: protoconv.Converter{}, Timeout: 2 * time.Second}
}

func signingAttributes() operations.KeyAttributes {
	return operations.KeyAttributes{
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
}

func TestProvider_ProxiesKeyLifecycle(t *testing.T) {
	p := dialTestFacility(t)
	ctx := context.Background()

	if _, err := p.Execute(ctx, operations.GenerateKey{KeyName: "proxied", Attributes: signingAttributes()}); err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	hash, err := soft.SumHash(operations.HashSHA256, []byte("remote payload"))
	if err != nil {
		t.Fatalf("SumHash: %v", err)
	}
	res, err := p.Execute(ctx, operations.SignHash{KeyName: "proxied", Hash: hash})
	if err != nil {
		t.Fatalf("SignHash: %v", err)
	}
	sig := res.(operations.SignHashResult).Signature

	if _, err := p.Execute(ctx, operations.VerifyHash{KeyName: "proxied", Hash: hash, Signature: sig}); err != nil {
		t.Fatalf("VerifyHash: %v", err)
	}
	if _, err := p.Execute(ctx, operations.DestroyKey{KeyName: "proxied"}); err != nil {
		t.Fatalf("DestroyKey: %v", err)
	}
}

// Failures on the far side come back as the same wire status a local
// provider would have produced.
func TestProvider_PropagatesRemoteStatus(t *testing.T) {
	p := dialTestFacility(t)
	_, err := p.Execute(context.Background(), operations.DestroyKey{KeyName: "never-created"})
	if !wire.IsStatus(err, wire.StatusKeyDoesNotExist) {
		t.Fatalf("DestroyKey: got %v want KeyDoesNotExist", err)
	}
}

func TestServer_RejectsGarbageFrame(t *testing.T) {
	p := dialTestFacility(t)
	ctx := context.Background()
	reply, err := p.client.Execute(ctx, wrapperspb.Bytes([]byte{1, 2, 3}))
	if err == nil {
		t.Fatalf("garbage frame accepted: %v", reply)
	}
}
