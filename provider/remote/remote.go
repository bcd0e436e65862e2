// Package remote is the remote provider: it proxies key operations to
// another keyward facility over gRPC. Each call serializes one framed
// request into the RPC payload and parses the framed response out of it,
// so both sides speak the exact wire protocol and the remote facility
// needs no separate RPC schema for operation bodies.
package remote

import (
	"bytes"
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"keyward.io/keyward/operations"
	"keyward.io/keyward/provider"
	"keyward.io/keyward/wire"
)

// Provider forwards key operations to a remote facility's software
// provider.
type Provider struct {
	cc      *grpc.ClientConn
	client  ExecClient
	conv    operations.Convert
	session atomic.Uint64

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

var _ provider.Provider = (*Provider)(nil)

type DialOptions struct {
	// Timeout applies to the initial dial when non-zero.
	Timeout time.Duration

	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int
}

func Dial(target string, conv operations.Convert, opts DialOptions) (*Provider, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cc, err := grpc.DialContext(ctx, target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return &Provider{cc: cc, client: NewExecClient(cc), conv: conv}, nil
}

func (p *Provider) Close() error {
	if p == nil || p.cc == nil {
		return nil
	}
	return p.cc.Close()
}

func (p *Provider) Describe() operations.ProviderInfo {
	return operations.ProviderInfo{
		ID:          wire.ProviderRemote,
		Description: "proxy to a remote keyward facility",
		Vendor:      "Keyward",
		VersionMaj:  1,
	}
}

func (p *Provider) Opcodes() []wire.Opcode {
	return []wire.Opcode{
		wire.OpGenerateKey,
		wire.OpDestroyKey,
		wire.OpSignHash,
		wire.OpVerifyHash,
		wire.OpImportKey,
		wire.OpExportPublicKey,
	}
}

func (p *Provider) Execute(ctx context.Context, op operations.NativeOperation) (operations.NativeResult, error) {
	body, err := p.conv.OperationToBody(op)
	if err != nil {
		return nil, err
	}
	session := p.session.Add(1)
	req := &wire.Request{
		Header: wire.Header{
			VersionMaj:  wire.VersionMajor,
			VersionMin:  wire.VersionMinor,
			Provider:    wire.ProviderSoftware,
			Session:     session,
			ContentType: p.conv.BodyType(),
			Opcode:      op.Opcode(),
		},
		Body: body,
	}
	var frame bytes.Buffer
	if err := req.Write(&frame); err != nil {
		return nil, err
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	reply, err := p.client.Execute(ctx, wrapperspb.Bytes(frame.Bytes()))
	if err != nil {
		return nil, mapRPC(err)
	}

	resp, err := wire.ReadResponse(bytes.NewReader(reply.GetValue()))
	if err != nil {
		return nil, wire.WrapError(wire.StatusInternalError, "remote: unparseable response frame", err)
	}
	if resp.Header.Session != session {
		return nil, wire.NewError(wire.StatusInternalError,
			fmt.Sprintf("remote: response session %d does not match request %d", resp.Header.Session, session))
	}
	if resp.Header.Status != wire.StatusSuccess {
		return nil, wire.NewError(resp.Header.Status, "remote: operation failed on the remote facility")
	}
	return p.conv.BodyToResult(resp.Body, op.Opcode())
}
